package handlers

import (
	"net/http"

	"github.com/choudharyraman03/taskflow-go/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CreateNotification schedules a notification for the caller
func CreateNotification(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := authUser(c)
		if !ok {
			return
		}

		var req models.NotificationCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, CodeValidationError, "Invalid request body: "+err.Error())
			return
		}

		notification := models.Notification{
			ID:            uuid.New(),
			UserID:        userID,
			Title:         req.Title,
			Message:       req.Message,
			Type:          req.Type,
			RelatedID:     req.RelatedID,
			ScheduledTime: req.ScheduledTime,
		}
		err := db.QueryRow(c.Request.Context(), `
			INSERT INTO notifications (
				id, user_id, title, message, type, related_id, scheduled_time, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
			RETURNING created_at
		`, notification.ID, userID, req.Title, req.Message, req.Type,
			req.RelatedID, req.ScheduledTime,
		).Scan(&notification.CreatedAt)
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to create notification")
			return
		}

		c.JSON(http.StatusCreated, notification)
	}
}

// ListNotifications returns the caller's most recent notifications
func ListNotifications(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := authUser(c)
		if !ok {
			return
		}

		rows, err := db.Query(c.Request.Context(), `
			SELECT id, user_id, title, message, type, related_id,
				scheduled_time, sent, opened, created_at
			FROM notifications
			WHERE user_id = $1
			ORDER BY created_at DESC
			LIMIT 50
		`, userID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to query notifications")
			return
		}
		defer rows.Close()

		notifications := []models.Notification{}
		for rows.Next() {
			var n models.Notification
			err := rows.Scan(
				&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.RelatedID,
				&n.ScheduledTime, &n.Sent, &n.Opened, &n.CreatedAt,
			)
			if err != nil {
				respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to parse notification data")
				return
			}
			notifications = append(notifications, n)
		}

		c.JSON(http.StatusOK, gin.H{"notifications": notifications, "count": len(notifications)})
	}
}
