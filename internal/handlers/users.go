package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/choudharyraman03/taskflow-go/internal/models"
	"github.com/choudharyraman03/taskflow-go/internal/progression"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GetUser returns a user's profile with derived progression fields
func GetUser(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, CodeValidationError, "Invalid user ID format")
			return
		}

		query := `
			SELECT
				id, username, email, display_name, timezone, avatar_url,
				experience_points, coin_balance, current_streak, best_streak,
				total_tasks_completed, created_at
			FROM users
			WHERE id = $1
		`

		var user models.User
		err = db.QueryRow(c.Request.Context(), query, userID).Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.DisplayName,
			&user.Timezone,
			&user.AvatarURL,
			&user.ExperiencePoints,
			&user.CoinBalance,
			&user.CurrentStreak,
			&user.BestStreak,
			&user.TotalTasksCompleted,
			&user.CreatedAt,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				respondError(c, http.StatusNotFound, CodeNotFound, "User not found")
			} else {
				respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to query user")
			}
			return
		}

		c.JSON(http.StatusOK, models.UserDetailResponse{
			ID:                  user.ID,
			Username:            user.Username,
			Email:               user.Email,
			DisplayName:         user.DisplayName,
			Timezone:            user.Timezone,
			AvatarURL:           user.AvatarURL,
			ExperiencePoints:    user.ExperiencePoints,
			KarmaLevel:          progression.KarmaLevel(user.ExperiencePoints),
			CoinBalance:         user.CoinBalance,
			CurrentStreak:       user.CurrentStreak,
			BestStreak:          user.BestStreak,
			TotalTasksCompleted: user.TotalTasksCompleted,
			CreatedAt:           user.CreatedAt.Format(time.RFC3339),
		})
	}
}

// UpdateNotificationPrefs replaces the caller's notification preference map
func UpdateNotificationPrefs(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := authUser(c)
		if !ok {
			return
		}

		var prefs models.NotificationPrefs
		if err := c.ShouldBindJSON(&prefs); err != nil {
			respondError(c, http.StatusBadRequest, CodeValidationError, "Invalid request body: "+err.Error())
			return
		}

		raw, err := json.Marshal(prefs)
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to encode preferences")
			return
		}

		_, err = db.Exec(c.Request.Context(),
			"UPDATE users SET notification_prefs = $1, updated_at = NOW() WHERE id = $2",
			string(raw), userID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to update preferences")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Preferences updated", "notification_prefs": prefs})
	}
}
