// Package client provides an HTTP client for the auction API. It also serves
// as the read path of remote sync engines.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"auction-board/internal/auctionerrors"
	"auction-board/internal/models"
)

// Client is an HTTP client for the auction API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new auction API client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// BaseURL returns the server address the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// envelope is the response wrapper every endpoint uses
type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// CreateSessionRequest is the body of POST /sessions
type CreateSessionRequest struct {
	ItemName        string  `json:"item_name"`
	ItemDescription string  `json:"item_description,omitempty"`
	StartingPrice   float64 `json:"starting_price"`
}

// UpdateSessionRequest is the body of PATCH /sessions/:session_id
type UpdateSessionRequest struct {
	ItemName        *string               `json:"item_name,omitempty"`
	ItemDescription *string               `json:"item_description,omitempty"`
	StartingPrice   *float64              `json:"starting_price,omitempty"`
	Status          *models.SessionStatus `json:"status,omitempty"`
}

// UpsertBidRequest is the body of POST /sessions/:session_id/bids
type UpsertBidRequest struct {
	ID     string  `json:"id,omitempty"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// ListSessions calls GET /sessions
func (c *Client) ListSessions(ctx context.Context) ([]models.Session, error) {
	var sessions []models.Session
	if err := c.do(ctx, http.MethodGet, "/sessions", nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListBids calls GET /sessions/:session_id/bids
func (c *Client) ListBids(ctx context.Context, sessionID string) ([]models.Bid, error) {
	var bids []models.Bid
	if err := c.do(ctx, http.MethodGet, sessionPath(sessionID, "bids"), nil, &bids); err != nil {
		return nil, err
	}
	return bids, nil
}

// CurrentSession calls GET /current-session; nil means no session exists
func (c *Client) CurrentSession(ctx context.Context, selectedID string) (*models.Session, error) {
	path := "/current-session"
	if selectedID != "" {
		path += "?selected=" + url.QueryEscape(selectedID)
	}
	var session *models.Session
	if err := c.do(ctx, http.MethodGet, path, nil, &session); err != nil {
		return nil, err
	}
	return session, nil
}

// CreateSession calls POST /sessions
func (c *Client) CreateSession(ctx context.Context, req CreateSessionRequest) (models.Session, error) {
	var session models.Session
	if err := c.do(ctx, http.MethodPost, "/sessions", req, &session); err != nil {
		return models.Session{}, err
	}
	return session, nil
}

// UpdateSession calls PATCH /sessions/:session_id
func (c *Client) UpdateSession(ctx context.Context, sessionID string, req UpdateSessionRequest) error {
	return c.do(ctx, http.MethodPatch, sessionPath(sessionID, ""), req, nil)
}

// CloseSession calls POST /sessions/:session_id/close
func (c *Client) CloseSession(ctx context.Context, sessionID string) error {
	return c.do(ctx, http.MethodPost, sessionPath(sessionID, "close"), nil, nil)
}

// UpsertBid calls POST /sessions/:session_id/bids
func (c *Client) UpsertBid(ctx context.Context, sessionID string, req UpsertBidRequest) (models.Bid, error) {
	var bid models.Bid
	if err := c.do(ctx, http.MethodPost, sessionPath(sessionID, "bids"), req, &bid); err != nil {
		return models.Bid{}, err
	}
	return bid, nil
}

// DeleteBid calls DELETE /sessions/:session_id/bids/:bid_id
func (c *Client) DeleteBid(ctx context.Context, sessionID, bidID string) error {
	return c.do(ctx, http.MethodDelete, sessionPath(sessionID, "bids/"+url.PathEscape(bidID)), nil, nil)
}

// ResetBids calls DELETE /sessions/:session_id/bids
func (c *Client) ResetBids(ctx context.Context, sessionID string) error {
	return c.do(ctx, http.MethodDelete, sessionPath(sessionID, "bids"), nil, nil)
}

// Summary calls GET /sessions/:session_id/summary
func (c *Client) Summary(ctx context.Context, sessionID string) (models.BidSummary, error) {
	var summary models.BidSummary
	if err := c.do(ctx, http.MethodGet, sessionPath(sessionID, "summary"), nil, &summary); err != nil {
		return models.BidSummary{}, err
	}
	return summary, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return auctionerrors.StoreIO(method+" "+path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return auctionerrors.StoreIO(method+" "+path, err)
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return auctionerrors.StoreIO(method+" "+path, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err))
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return statusError(resp.StatusCode, env)
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return auctionerrors.StoreIO(method+" "+path, fmt.Errorf("decode data: %w", err))
	}
	return nil
}

// statusError maps a failed response back onto the error taxonomy
func statusError(status int, env envelope) error {
	detail := env.Error
	if detail == "" {
		detail = env.Message
	}

	switch status {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", auctionerrors.ErrValidation, detail)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", auctionerrors.ErrDuplicateName, detail)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", auctionerrors.ErrNotFound, detail)
	default:
		return auctionerrors.StoreIO(fmt.Sprintf("server returned %d", status), errors.New(detail))
	}
}

func sessionPath(sessionID, suffix string) string {
	path := "/sessions/" + url.PathEscape(sessionID)
	if suffix != "" {
		path += "/" + suffix
	}
	return path
}
