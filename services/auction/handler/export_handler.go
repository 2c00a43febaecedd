package handler

import (
	"bytes"
	"time"

	"auction-board/internal/export"
	"auction-board/services/auction/helpers"
	"auction-board/utils"

	"github.com/gin-gonic/gin"
)

type ExportHandler struct {
	sessions SessionServiceInterface
	bids     BidServiceInterface
	now      func() time.Time
}

func NewExportHandler(sessions SessionServiceInterface, bids BidServiceInterface) *ExportHandler {
	return &ExportHandler{sessions: sessions, bids: bids, now: utils.Now}
}

// ExportCSVHandler handles GET /sessions/:session_id/export
func (h *ExportHandler) ExportCSVHandler(c *gin.Context) {
	sessionID := c.Param("session_id")
	ctx := c.Request.Context()

	session, err := h.sessions.Get(ctx, sessionID)
	if err != nil {
		helpers.HandleServiceError(c, "ExportCSVHandler", "error retrieving session", err, map[string]any{"session_id": sessionID})
		return
	}

	bids, err := h.bids.List(ctx, sessionID)
	if err != nil {
		helpers.HandleServiceError(c, "ExportCSVHandler", "error retrieving bids", err, map[string]any{"session_id": sessionID})
		return
	}

	at := h.now()
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, session, bids, at); err != nil {
		helpers.HandleServiceError(c, "ExportCSVHandler", "error rendering csv", err, map[string]any{"session_id": sessionID})
		return
	}

	filename := export.Filename(session.ItemName, at)
	utils.Attachment(c, filename, export.ContentType, buf.Bytes())
	helpers.LogSuccess("ExportCSVHandler", "export generated", map[string]any{
		"session_id": sessionID,
		"filename":   filename,
		"bids":       len(bids),
	})
}
