package handlers

import (
	"net/http"

	"github.com/choudharyraman03/taskflow-go/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GetActivityFeed returns activities visible to the caller: their own
// posts plus posts whose visible_to snapshot includes them.
func GetActivityFeed(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := authUser(c)
		if !ok {
			return
		}

		rows, err := db.Query(c.Request.Context(), `
			SELECT id, user_id, activity_type, title, description, visible_to, created_at
			FROM social_activities
			WHERE user_id = $1 OR $1 = ANY(visible_to)
			ORDER BY created_at DESC
			LIMIT 50
		`, userID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to query activity feed")
			return
		}
		defer rows.Close()

		activities := []models.SocialActivity{}
		for rows.Next() {
			var a models.SocialActivity
			err := rows.Scan(
				&a.ID, &a.UserID, &a.ActivityType, &a.Title,
				&a.Description, &a.VisibleTo, &a.CreatedAt,
			)
			if err != nil {
				respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to parse activity data")
				return
			}
			activities = append(activities, a)
		}

		c.JSON(http.StatusOK, gin.H{"activities": activities, "count": len(activities)})
	}
}
