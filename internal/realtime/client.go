package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"auction-board/internal/events"
	"auction-board/utils"
)

// Client follows a server's change feed and reconnects when it drops
type Client struct {
	URL        string
	Tables     []string
	MinBackoff time.Duration
	MaxBackoff time.Duration
	Dialer     *websocket.Dialer
}

// NewClient creates a client for the feed at wsURL
func NewClient(wsURL string, tables ...string) *Client {
	return &Client{
		URL:        wsURL,
		Tables:     tables,
		MinBackoff: 500 * time.Millisecond,
		MaxBackoff: 15 * time.Second,
		Dialer:     websocket.DefaultDialer,
	}
}

// WebSocketURL derives the feed address from an HTTP base URL
func WebSocketURL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse server url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported server url scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	return u.String(), nil
}

// Run delivers changes to out until ctx is done. After every (re)connect a
// change per followed table is emitted so the observer refetches whatever
// it may have missed while disconnected.
func (c *Client) Run(ctx context.Context, out chan<- events.Change) error {
	backoff := c.MinBackoff
	for {
		err := c.session(ctx, out, func() { backoff = c.MinBackoff })
		if ctx.Err() != nil {
			return ctx.Err()
		}

		utils.Warn("realtime: change feed disconnected", map[string]any{
			"url":      c.URL,
			"error":    errorString(err),
			"retry_in": backoff.String(),
		})

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > c.MaxBackoff {
			backoff = c.MaxBackoff
		}
	}
}

func (c *Client) session(ctx context.Context, out chan<- events.Change, connected func()) error {
	conn, _, err := c.Dialer.DialContext(ctx, c.URL, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	tables, err := c.subscribe(conn)
	if err != nil {
		return err
	}
	connected()
	utils.Info("realtime: following change feed", map[string]any{"url": c.URL, "tables": tables})

	for _, table := range tables {
		if !emit(ctx, out, events.Change{Table: table, At: utils.Now()}) {
			return ctx.Err()
		}
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}

		var base BaseMessage
		if err := json.Unmarshal(data, &base); err != nil {
			utils.Debug("realtime: ignoring malformed message", map[string]any{"error": err.Error()})
			continue
		}

		switch base.Type {
		case TypeChange:
			var msg ChangeMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				continue
			}
			if !emit(ctx, out, msg.Change()) {
				return ctx.Err()
			}
		case TypeError:
			var msg ErrorMessage
			_ = json.Unmarshal(data, &msg)
			utils.Warn("realtime: server reported error", map[string]any{"code": msg.Code, "message": msg.Message})
		}
	}
}

func (c *Client) subscribe(conn *websocket.Conn) ([]string, error) {
	msg := SubscribeMessage{
		BaseMessage: BaseMessage{Type: TypeSubscribe, Ts: time.Now().UnixMilli()},
		Tables:      c.Tables,
	}
	if err := conn.WriteJSON(msg); err != nil {
		return nil, fmt.Errorf("write subscribe: %w", err)
	}

	_, data, err := conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("read subscribed: %w", err)
	}

	var base BaseMessage
	if err := json.Unmarshal(data, &base); err != nil {
		return nil, fmt.Errorf("unmarshal subscribed: %w", err)
	}

	switch base.Type {
	case TypeSubscribed:
		var ack SubscribedMessage
		if err := json.Unmarshal(data, &ack); err != nil {
			return nil, fmt.Errorf("unmarshal subscribed: %w", err)
		}
		return ack.Tables, nil
	case TypeError:
		var errMsg ErrorMessage
		_ = json.Unmarshal(data, &errMsg)
		return nil, fmt.Errorf("subscribe failed: %s - %s", errMsg.Code, errMsg.Message)
	default:
		return nil, fmt.Errorf("expected subscribed, got: %s", base.Type)
	}
}

func emit(ctx context.Context, out chan<- events.Change, change events.Change) bool {
	select {
	case out <- change:
		return true
	case <-ctx.Done():
		return false
	}
}

func errorString(err error) string {
	if err == nil || errors.Is(err, context.Canceled) {
		return ""
	}
	return err.Error()
}
