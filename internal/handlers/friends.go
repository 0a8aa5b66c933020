package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/choudharyraman03/taskflow-go/internal/progression"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FriendRequestBody struct {
	Username string `json:"username" binding:"required"`
}

// SendFriendRequest creates a pending friend request by username
func SendFriendRequest(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := authUser(c)
		if !ok {
			return
		}

		var req FriendRequestBody
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, CodeValidationError, "Invalid request body: "+err.Error())
			return
		}

		var targetID uuid.UUID
		err := db.QueryRow(c.Request.Context(),
			"SELECT id FROM users WHERE LOWER(username) = LOWER($1)", req.Username,
		).Scan(&targetID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				respondError(c, http.StatusNotFound, CodeNotFound, "User not found")
			} else {
				respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to look up user")
			}
			return
		}

		if targetID == userID {
			respondError(c, http.StatusBadRequest, CodeValidationError, "Cannot send a friend request to yourself")
			return
		}

		// Reject duplicates: an existing friendship or a request in
		// either direction
		var exists bool
		err = db.QueryRow(c.Request.Context(), `
			SELECT EXISTS(SELECT 1 FROM friendships WHERE user_id = $1 AND friend_id = $2)
				OR EXISTS(
					SELECT 1 FROM friend_requests
					WHERE status = 'pending'
						AND ((from_user_id = $1 AND to_user_id = $2) OR (from_user_id = $2 AND to_user_id = $1))
				)
		`, userID, targetID).Scan(&exists)
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to check existing requests")
			return
		}
		if exists {
			respondError(c, http.StatusConflict, CodeConflict, "Friend request already exists or you are already friends")
			return
		}

		requestID := uuid.New()
		_, err = db.Exec(c.Request.Context(), `
			INSERT INTO friend_requests (id, from_user_id, to_user_id, status, created_at)
			VALUES ($1, $2, $3, 'pending', NOW())
		`, requestID, userID, targetID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to create friend request")
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":    "Friend request sent",
			"request_id": requestID,
		})
	}
}

// ListFriendRequests returns pending requests addressed to the caller
func ListFriendRequests(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := authUser(c)
		if !ok {
			return
		}

		rows, err := db.Query(c.Request.Context(), `
			SELECT fr.id, fr.from_user_id, u.username, u.display_name, fr.created_at
			FROM friend_requests fr
			JOIN users u ON u.id = fr.from_user_id
			WHERE fr.to_user_id = $1 AND fr.status = 'pending'
			ORDER BY fr.created_at DESC
		`, userID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to query friend requests")
			return
		}
		defer rows.Close()

		type requestRow struct {
			ID          uuid.UUID `json:"id"`
			FromUserID  uuid.UUID `json:"from_user_id"`
			Username    string    `json:"username"`
			DisplayName string    `json:"display_name"`
			CreatedAt   string    `json:"created_at"`
		}

		requests := []requestRow{}
		for rows.Next() {
			var r requestRow
			var createdAt time.Time
			if err := rows.Scan(&r.ID, &r.FromUserID, &r.Username, &r.DisplayName, &createdAt); err != nil {
				respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to parse request data")
				return
			}
			r.CreatedAt = createdAt.Format(time.RFC3339)
			requests = append(requests, r)
		}

		c.JSON(http.StatusOK, gin.H{"requests": requests, "count": len(requests)})
	}
}

// AcceptFriendRequest accepts a pending request addressed to the caller
// and creates the symmetric friendship
func AcceptFriendRequest(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := authUser(c)
		if !ok {
			return
		}

		requestID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, CodeValidationError, "Invalid request ID format")
			return
		}

		tx, err := db.Begin(c.Request.Context())
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to start transaction")
			return
		}
		defer tx.Rollback(c.Request.Context())

		var fromUserID uuid.UUID
		err = tx.QueryRow(c.Request.Context(), `
			UPDATE friend_requests
			SET status = 'accepted'
			WHERE id = $1 AND to_user_id = $2 AND status = 'pending'
			RETURNING from_user_id
		`, requestID, userID).Scan(&fromUserID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				respondError(c, http.StatusNotFound, CodeNotFound, "Friend request not found")
			} else {
				respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to accept request")
			}
			return
		}

		// Friendship is symmetric: one row per direction
		_, err = tx.Exec(c.Request.Context(), `
			INSERT INTO friendships (user_id, friend_id, created_at)
			VALUES ($1, $2, NOW()), ($2, $1, NOW())
			ON CONFLICT DO NOTHING
		`, userID, fromUserID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to create friendship")
			return
		}

		if err := tx.Commit(c.Request.Context()); err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to commit transaction")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Friend request accepted", "friend_id": fromUserID})
	}
}

// ListFriends returns the caller's friends with progression summaries
func ListFriends(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := authUser(c)
		if !ok {
			return
		}

		rows, err := db.Query(c.Request.Context(), `
			SELECT u.id, u.username, u.display_name, u.avatar_url,
				u.experience_points, u.current_streak
			FROM friendships f
			JOIN users u ON u.id = f.friend_id
			WHERE f.user_id = $1
			ORDER BY u.username ASC
		`, userID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to query friends")
			return
		}
		defer rows.Close()

		type friendRow struct {
			ID               uuid.UUID `json:"id"`
			Username         string    `json:"username"`
			DisplayName      string    `json:"display_name"`
			AvatarURL        *string   `json:"avatar_url,omitempty"`
			ExperiencePoints int       `json:"experience_points"`
			KarmaLevel       int       `json:"karma_level"`
			CurrentStreak    int       `json:"current_streak"`
		}

		friends := []friendRow{}
		for rows.Next() {
			var f friendRow
			if err := rows.Scan(&f.ID, &f.Username, &f.DisplayName, &f.AvatarURL,
				&f.ExperiencePoints, &f.CurrentStreak); err != nil {
				respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to parse friend data")
				return
			}
			f.KarmaLevel = progression.KarmaLevel(f.ExperiencePoints)
			friends = append(friends, f)
		}

		c.JSON(http.StatusOK, gin.H{"friends": friends, "count": len(friends)})
	}
}
