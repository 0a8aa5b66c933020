package handlers

import (
	"net/http"
	"strings"

	"github.com/choudharyraman03/taskflow-go/internal/auth"
	"github.com/choudharyraman03/taskflow-go/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token    string    `json:"token"`
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
}

// Register creates a new user account and returns a JWT token
func Register(db *pgxpool.Pool, jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.UserCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, CodeValidationError, "Invalid request body: "+err.Error())
			return
		}

		// Normalize username and email
		username := strings.ToLower(strings.TrimSpace(req.Username))
		email := strings.ToLower(strings.TrimSpace(req.Email))
		if username == "" {
			respondError(c, http.StatusBadRequest, CodeValidationError, "Username is required")
			return
		}

		// Check for existing username or email
		var exists bool
		err := db.QueryRow(c.Request.Context(),
			"SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(username) = $1 OR LOWER(email) = $2)",
			username, email,
		).Scan(&exists)
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to check existing users")
			return
		}
		if exists {
			respondError(c, http.StatusConflict, CodeConflict, "Username or email already taken")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to hash password")
			return
		}

		displayName := req.DisplayName
		if displayName == "" {
			displayName = req.Username
		}
		timezone := req.Timezone
		if timezone == "" {
			timezone = "UTC"
		}

		userID := uuid.New()
		_, err = db.Exec(c.Request.Context(), `
			INSERT INTO users (
				id, username, email, password_hash, display_name, timezone,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		`, userID, username, email, string(hash), displayName, timezone)
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to create user")
			return
		}

		token, err := jwtService.GenerateToken(userID, username)
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to generate token")
			return
		}

		c.JSON(http.StatusCreated, LoginResponse{
			Token:    token,
			UserID:   userID,
			Username: username,
		})
	}
}

// Login authenticates a user and returns a JWT token
func Login(db *pgxpool.Pool, jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, CodeValidationError, "Invalid request body: "+err.Error())
			return
		}

		username := strings.ToLower(strings.TrimSpace(req.Username))

		var userID uuid.UUID
		var dbUsername, passwordHash string
		err := db.QueryRow(c.Request.Context(), `
			SELECT id, username, password_hash
			FROM users
			WHERE LOWER(username) = $1 OR LOWER(email) = $1
		`, username).Scan(&userID, &dbUsername, &passwordHash)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}

		token, err := jwtService.GenerateToken(userID, dbUsername)
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to generate token")
			return
		}

		c.JSON(http.StatusOK, LoginResponse{
			Token:    token,
			UserID:   userID,
			Username: dbUsername,
		})
	}
}
