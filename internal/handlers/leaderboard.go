package handlers

import (
	"net/http"

	"github.com/choudharyraman03/taskflow-go/internal/models"
	"github.com/choudharyraman03/taskflow-go/internal/progression"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GetLeaderboard returns a ranked listing for the requested period.
// Weekly rankings are computed from ledger earnings over the last 7
// days; all-time rankings use lifetime experience points.
func GetLeaderboard(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		period := c.DefaultQuery("period", "week")

		var query string
		switch period {
		case "week":
			query = `
				SELECT
					u.id, u.username, u.display_name, u.avatar_url,
					COALESCE(SUM(ct.amount) FILTER (WHERE ct.amount > 0), 0)::int AS points,
					u.experience_points, u.coin_balance, u.current_streak
				FROM users u
				LEFT JOIN coin_transactions ct
					ON ct.user_id = u.id AND ct.created_at >= NOW() - INTERVAL '7 days'
				GROUP BY u.id
				ORDER BY points DESC, u.experience_points DESC, u.username ASC
				LIMIT 50
			`
		case "alltime":
			query = `
				SELECT
					u.id, u.username, u.display_name, u.avatar_url,
					u.experience_points AS points,
					u.experience_points, u.coin_balance, u.current_streak
				FROM users u
				ORDER BY u.experience_points DESC, u.username ASC
				LIMIT 50
			`
		default:
			respondError(c, http.StatusBadRequest, CodeValidationError, "Unknown leaderboard period: "+period)
			return
		}

		rows, err := db.Query(c.Request.Context(), query)
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to query leaderboard")
			return
		}
		defer rows.Close()

		leaderboard := []models.LeaderboardEntry{}
		rank := 1

		for rows.Next() {
			var entry models.LeaderboardEntry
			err := rows.Scan(
				&entry.UserID,
				&entry.Username,
				&entry.DisplayName,
				&entry.AvatarURL,
				&entry.Points,
				&entry.ExperiencePoints,
				&entry.CoinBalance,
				&entry.CurrentStreak,
			)
			if err != nil {
				respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to parse leaderboard data")
				return
			}

			entry.Rank = rank
			entry.KarmaLevel = progression.KarmaLevel(entry.ExperiencePoints)
			leaderboard = append(leaderboard, entry)
			rank++
		}

		c.JSON(http.StatusOK, models.LeaderboardResponse{
			Period:      period,
			Leaderboard: leaderboard,
			TotalUsers:  len(leaderboard),
		})
	}
}
