package handlers

import (
	"net/http"

	"github.com/choudharyraman03/taskflow-go/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Stable machine-readable error codes returned alongside messages.
const (
	CodeNotFound              = "NOT_FOUND"
	CodeConflict              = "CONFLICT"
	CodeValidationError       = "VALIDATION_ERROR"
	CodeInsufficientBalance   = "INSUFFICIENT_BALANCE"
	CodeAdvisoryUnavailable   = "ADVISORY_UNAVAILABLE"
	CodeInternalInconsistency = "INTERNAL_INCONSISTENCY"
	CodeInternalError         = "INTERNAL_ERROR"
	CodeUnauthorized          = "UNAUTHORIZED"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{"error": message, "code": code})
}

// authUser fetches the authenticated user ID, responding 401 when absent.
func authUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetAuthUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, CodeUnauthorized, "User not authenticated")
	}
	return userID, ok
}
