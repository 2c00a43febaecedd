package helpers

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"auction-board/internal/models"
	"auction-board/internal/syncengine"
)

// Amount accepts a JSON number, a numeric string or null. Anything that is
// not a finite non-negative number decodes to 0.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var value float64
	switch v := raw.(type) {
	case float64:
		value = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err == nil {
			value = parsed
		}
	}
	*a = Amount(models.NormalizeAmount(value))
	return nil
}

// Request/Response DTOs
type UpsertBidRequest struct {
	ID     string `json:"id"`
	Name   string `json:"name" binding:"required"`
	Amount Amount `json:"amount"`
}

// Input converts the request to the service input
func (r UpsertBidRequest) Input() models.BidInput {
	return models.BidInput{ID: r.ID, Name: r.Name, Amount: float64(r.Amount)}
}

type CreateSessionRequest struct {
	ItemName        string `json:"item_name" binding:"required"`
	ItemDescription string `json:"item_description"`
	StartingPrice   Amount `json:"starting_price"`
}

type UpdateSessionRequest struct {
	ItemName        *string               `json:"item_name"`
	ItemDescription *string               `json:"item_description"`
	StartingPrice   *Amount               `json:"starting_price"`
	Status          *models.SessionStatus `json:"status"`
}

// Patch converts the request to a session patch
func (r UpdateSessionRequest) Patch() models.SessionPatch {
	patch := models.SessionPatch{
		ItemName:        r.ItemName,
		ItemDescription: r.ItemDescription,
		Status:          r.Status,
	}
	if r.StartingPrice != nil {
		price := float64(*r.StartingPrice)
		patch.StartingPrice = &price
	}
	return patch
}

// SelectionRequest pins the display to a session; an empty id unpins it
type SelectionRequest struct {
	SessionID string `json:"session_id"`
}

type SelectionResponse struct {
	SessionID string `json:"session_id"`
}

// DashboardResponse is the display observer's view plus a staleness label
type DashboardResponse struct {
	syncengine.View
	SyncedAgo     string `json:"synced_ago"`
	PinnedSession string `json:"pinned_session_id,omitempty"`
}
