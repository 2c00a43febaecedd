package handler

//go:generate mockgen -source=dashboard_handler.go -destination=mock_display.go -package=handler

import (
	"net/http"
	"strings"
	"time"

	"auction-board/internal/syncengine"
	"auction-board/services/auction/helpers"
	"auction-board/utils"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
)

// DisplayInterface is the server-hosted display observer
type DisplayInterface interface {
	Snapshot() syncengine.View
	Select(id string)
	Selected() string
}

type DashboardHandler struct {
	display DisplayInterface
	now     func() time.Time
}

func NewDashboardHandler(display DisplayInterface) *DashboardHandler {
	return &DashboardHandler{display: display, now: time.Now}
}

// GetDashboardHandler handles GET /dashboard. It serves the last known good view
// and never fails on store errors.
func (h *DashboardHandler) GetDashboardHandler(c *gin.Context) {
	view := h.display.Snapshot()

	resp := helpers.DashboardResponse{
		View:          view,
		SyncedAgo:     syncedAgo(view.LastSyncedAt, h.now()),
		PinnedSession: h.display.Selected(),
	}
	utils.JSONResponse(c, http.StatusOK, resp, "dashboard retrieved successfully")
}

// SelectionHandler handles PUT /dashboard/selection
func (h *DashboardHandler) SelectionHandler(c *gin.Context) {
	var req helpers.SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "SelectionHandler", err)
		return
	}

	id := strings.TrimSpace(req.SessionID)
	h.display.Select(id)

	utils.JSONResponse(c, http.StatusOK, helpers.SelectionResponse{SessionID: id}, "selection updated successfully")
	helpers.LogSuccess("SelectionHandler", "selection updated successfully", map[string]any{"session_id": id})
}

func syncedAgo(at, now time.Time) string {
	if at.IsZero() {
		return "never"
	}
	return humanize.RelTime(at, now, "ago", "from now")
}
