package handlers

import (
	"context"
	"net/http"

	"circleed/internal/auth"
	"circleed/internal/models"
	"circleed/internal/services"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	sessionService *services.SessionService
}

func NewSessionHandler(sessionService *services.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// ListSessions returns sessions where the caller is student or teacher
// GET /api/v1/sessions
func (h *SessionHandler) ListSessions(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	sessions, err := h.sessionService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// ListUpcoming returns the caller's future pending or confirmed sessions
// GET /api/v1/sessions/upcoming
func (h *SessionHandler) ListUpcoming(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	sessions, err := h.sessionService.ListUpcoming(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// GetSession returns a single session; participants only
// GET /api/v1/sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	sessionID, ok := parseID(c)
	if !ok {
		return
	}

	session, err := h.sessionService.GetByID(c.Request.Context(), userID, sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// CreateSession books a session, debiting the caller by the skill price
// POST /api/v1/sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req models.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.sessionService.Book(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// ConfirmSession confirms a pending session; teacher only
// POST /api/v1/sessions/:id/confirm
func (h *SessionHandler) ConfirmSession(c *gin.Context) {
	h.transition(c, h.sessionService.Confirm)
}

// DeclineSession declines a pending session and refunds the student; teacher only
// POST /api/v1/sessions/:id/decline
func (h *SessionHandler) DeclineSession(c *gin.Context) {
	h.transition(c, h.sessionService.Decline)
}

// CancelSession cancels a session and refunds the student; student only
// POST /api/v1/sessions/:id/cancel
func (h *SessionHandler) CancelSession(c *gin.Context) {
	h.transition(c, h.sessionService.Cancel)
}

// CompleteSession completes a confirmed session, paying the teacher; teacher only
// POST /api/v1/sessions/:id/complete
func (h *SessionHandler) CompleteSession(c *gin.Context) {
	h.transition(c, h.sessionService.Complete)
}

// transition runs one state-machine operation for the :id session on behalf
// of the authenticated caller.
func (h *SessionHandler) transition(
	c *gin.Context,
	op func(ctx context.Context, callerID, sessionID uint) (*models.Session, error),
) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	sessionID, ok := parseID(c)
	if !ok {
		return
	}

	session, err := op(c.Request.Context(), userID, sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}
