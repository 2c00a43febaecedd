package handler

//go:generate mockgen -source=session_handler.go -destination=mock_session_service.go -package=handler

import (
	"context"
	"net/http"

	"auction-board/internal/models"
	"auction-board/services/auction/helpers"
	"auction-board/utils"

	"github.com/gin-gonic/gin"
)

type SessionServiceInterface interface {
	Create(ctx context.Context, itemName, itemDescription string, startingPrice float64) (models.Session, error)
	Update(ctx context.Context, id string, patch models.SessionPatch) error
	Close(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (models.Session, error)
	List(ctx context.Context) ([]models.Session, error)
	SelectCurrent(ctx context.Context, selectedID string) (*models.Session, error)
}

// SessionSelector pins the session a display shows
type SessionSelector interface {
	Select(id string)
}

type SessionHandler struct {
	service  SessionServiceInterface
	selector SessionSelector
}

// NewSessionHandler creates a SessionHandler. When selector is non-nil every
// newly created session becomes its selected session.
func NewSessionHandler(service SessionServiceInterface, selector SessionSelector) *SessionHandler {
	return &SessionHandler{service: service, selector: selector}
}

// CreateSessionHandler handles POST /sessions
func (h *SessionHandler) CreateSessionHandler(c *gin.Context) {
	var req helpers.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateSessionHandler", err)
		return
	}

	session, err := h.service.Create(c.Request.Context(), req.ItemName, req.ItemDescription, float64(req.StartingPrice))
	if err != nil {
		helpers.HandleServiceError(c, "CreateSessionHandler", "failed to create session", err, map[string]any{"item_name": req.ItemName})
		return
	}

	if h.selector != nil {
		h.selector.Select(session.ID)
	}

	utils.JSONResponse(c, http.StatusCreated, session, "session created successfully")
	helpers.LogSuccess("CreateSessionHandler", "session created successfully", map[string]any{
		"session_id": session.ID,
		"item_name":  session.ItemName,
	})
}

// ListSessionsHandler handles GET /sessions
func (h *SessionHandler) ListSessionsHandler(c *gin.Context) {
	sessions, err := h.service.List(c.Request.Context())
	if err != nil {
		helpers.HandleServiceError(c, "ListSessionsHandler", "error retrieving sessions", err, nil)
		return
	}

	if sessions == nil {
		sessions = []models.Session{}
	}

	utils.JSONResponse(c, http.StatusOK, sessions, "sessions retrieved successfully")
}

// GetSessionHandler handles GET /sessions/:session_id
func (h *SessionHandler) GetSessionHandler(c *gin.Context) {
	sessionID := c.Param("session_id")

	session, err := h.service.Get(c.Request.Context(), sessionID)
	if err != nil {
		helpers.HandleServiceError(c, "GetSessionHandler", "error retrieving session", err, map[string]any{"session_id": sessionID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, session, "session retrieved successfully")
}

// UpdateSessionHandler handles PATCH /sessions/:session_id
func (h *SessionHandler) UpdateSessionHandler(c *gin.Context) {
	sessionID := c.Param("session_id")

	var req helpers.UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdateSessionHandler", err)
		return
	}

	if err := h.service.Update(c.Request.Context(), sessionID, req.Patch()); err != nil {
		helpers.HandleServiceError(c, "UpdateSessionHandler", "failed to update session", err, map[string]any{"session_id": sessionID})
		return
	}

	h.respondWithSession(c, "UpdateSessionHandler", sessionID, "session updated successfully")
}

// CloseSessionHandler handles POST /sessions/:session_id/close
func (h *SessionHandler) CloseSessionHandler(c *gin.Context) {
	sessionID := c.Param("session_id")

	if err := h.service.Close(c.Request.Context(), sessionID); err != nil {
		helpers.HandleServiceError(c, "CloseSessionHandler", "failed to close session", err, map[string]any{"session_id": sessionID})
		return
	}

	h.respondWithSession(c, "CloseSessionHandler", sessionID, "auction closed successfully")
}

// CurrentSessionHandler handles GET /current-session
func (h *SessionHandler) CurrentSessionHandler(c *gin.Context) {
	selected := c.Query("selected")

	session, err := h.service.SelectCurrent(c.Request.Context(), selected)
	if err != nil {
		helpers.HandleServiceError(c, "CurrentSessionHandler", "error resolving current session", err, map[string]any{"selected": selected})
		return
	}

	if session == nil {
		utils.JSONResponse(c, http.StatusOK, nil, "no auction session")
		return
	}
	utils.JSONResponse(c, http.StatusOK, session, "current session retrieved successfully")
}

// respondWithSession answers a successful write with the stored session. Writes
// to a missing session are no-ops in the store and surface here as 404.
func (h *SessionHandler) respondWithSession(c *gin.Context, handlerName, sessionID, message string) {
	session, err := h.service.Get(c.Request.Context(), sessionID)
	if err != nil {
		helpers.HandleServiceError(c, handlerName, "error retrieving session", err, map[string]any{"session_id": sessionID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, session, message)
	helpers.LogSuccess(handlerName, message, map[string]any{
		"session_id": session.ID,
		"status":     string(session.Status),
	})
}
