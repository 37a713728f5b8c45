package handlers

import (
	"errors"
	"net/http"

	"circleed/internal/services"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP statuses. Business-rule errors
// keep their message; anything unexpected is a storage failure and is hidden
// behind a generic 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrSkillNotFound),
		errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrChatNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidState),
		errors.Is(err, services.ErrInsufficientTokens),
		errors.Is(err, services.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
