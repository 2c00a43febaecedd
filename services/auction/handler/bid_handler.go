package handler

//go:generate mockgen -source=bid_handler.go -destination=mock_bid_service.go -package=handler

import (
	"context"
	"net/http"

	"auction-board/internal/models"
	"auction-board/services/auction/helpers"
	"auction-board/utils"

	"github.com/gin-gonic/gin"
)

type BidServiceInterface interface {
	Upsert(ctx context.Context, sessionID string, input models.BidInput) (models.Bid, error)
	Delete(ctx context.Context, sessionID, bidID string) error
	ResetAll(ctx context.Context, sessionID string) error
	List(ctx context.Context, sessionID string) ([]models.Bid, error)
	Summary(ctx context.Context, sessionID string) (models.BidSummary, error)
}

type BidHandler struct {
	service BidServiceInterface
}

func NewBidHandler(service BidServiceInterface) *BidHandler {
	return &BidHandler{service: service}
}

// UpsertBidHandler handles POST /sessions/:session_id/bids
func (h *BidHandler) UpsertBidHandler(c *gin.Context) {
	sessionID := c.Param("session_id")

	var req helpers.UpsertBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpsertBidHandler", err)
		return
	}

	bid, err := h.service.Upsert(c.Request.Context(), sessionID, req.Input())
	if err != nil {
		helpers.HandleServiceError(c, "UpsertBidHandler", "failed to save bid", err, map[string]any{
			"session_id": sessionID,
			"bid_id":     req.ID,
			"name":       req.Name,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, bid, "bid saved successfully")
	helpers.LogSuccess("UpsertBidHandler", "bid saved successfully", map[string]any{
		"session_id": sessionID,
		"bid_id":     bid.ID,
		"name":       bid.Name,
		"amount":     bid.Amount,
	})
}

// ListBidsHandler handles GET /sessions/:session_id/bids
func (h *BidHandler) ListBidsHandler(c *gin.Context) {
	sessionID := c.Param("session_id")

	bids, err := h.service.List(c.Request.Context(), sessionID)
	if err != nil {
		helpers.HandleServiceError(c, "ListBidsHandler", "error retrieving bids", err, map[string]any{"session_id": sessionID})
		return
	}

	if bids == nil {
		bids = []models.Bid{}
	}

	utils.JSONResponse(c, http.StatusOK, bids, "bids retrieved successfully")
}

// DeleteBidHandler handles DELETE /sessions/:session_id/bids/:bid_id
func (h *BidHandler) DeleteBidHandler(c *gin.Context) {
	sessionID := c.Param("session_id")
	bidID := c.Param("bid_id")

	if err := h.service.Delete(c.Request.Context(), sessionID, bidID); err != nil {
		helpers.HandleServiceError(c, "DeleteBidHandler", "failed to delete bid", err, map[string]any{
			"session_id": sessionID,
			"bid_id":     bidID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, nil, "bid deleted successfully")
	helpers.LogSuccess("DeleteBidHandler", "bid deleted successfully", map[string]any{
		"session_id": sessionID,
		"bid_id":     bidID,
	})
}

// ResetBidsHandler handles DELETE /sessions/:session_id/bids
func (h *BidHandler) ResetBidsHandler(c *gin.Context) {
	sessionID := c.Param("session_id")

	if err := h.service.ResetAll(c.Request.Context(), sessionID); err != nil {
		helpers.HandleServiceError(c, "ResetBidsHandler", "failed to reset bids", err, map[string]any{"session_id": sessionID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, nil, "bids reset successfully")
	helpers.LogSuccess("ResetBidsHandler", "bids reset successfully", map[string]any{"session_id": sessionID})
}

// SummaryHandler handles GET /sessions/:session_id/summary
func (h *BidHandler) SummaryHandler(c *gin.Context) {
	sessionID := c.Param("session_id")

	summary, err := h.service.Summary(c.Request.Context(), sessionID)
	if err != nil {
		helpers.HandleServiceError(c, "SummaryHandler", "error computing summary", err, map[string]any{"session_id": sessionID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, summary, "summary retrieved successfully")
}
