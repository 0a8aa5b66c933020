package handlers

import (
	"net/http"

	"github.com/choudharyraman03/taskflow-go/internal/progression"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GetDashboard returns the caller's productivity summary
func GetDashboard(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := authUser(c)
		if !ok {
			return
		}

		var (
			totalTasks       int
			completedTasks   int
			weeklyHabits     int
			experiencePoints int
			coinBalance      int
		)
		err := db.QueryRow(c.Request.Context(), `
			SELECT
				(SELECT COUNT(*) FROM tasks WHERE user_id = $1),
				(SELECT COUNT(*) FROM tasks WHERE user_id = $1 AND completed = true),
				(SELECT COUNT(*) FROM habit_completions
					WHERE user_id = $1 AND completed_date >= NOW() - INTERVAL '7 days'),
				u.experience_points,
				u.coin_balance
			FROM users u
			WHERE u.id = $1
		`, userID).Scan(&totalTasks, &completedTasks, &weeklyHabits, &experiencePoints, &coinBalance)
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to query analytics")
			return
		}

		completionRate := 0.0
		if totalTasks > 0 {
			completionRate = float64(completedTasks) / float64(totalTasks)
		}

		c.JSON(http.StatusOK, gin.H{
			"total_tasks":                 totalTasks,
			"completed_tasks":             completedTasks,
			"completion_rate":             completionRate,
			"habit_completions_this_week": weeklyHabits,
			"experience_points":           experiencePoints,
			"karma_level":                 progression.KarmaLevel(experiencePoints),
			"coin_balance":                coinBalance,
		})
	}
}
