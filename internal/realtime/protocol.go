// Package realtime pushes store change notifications to remote observers over WebSocket.
package realtime

import (
	"time"

	"auction-board/internal/events"
)

// Message types from observer to server
const (
	TypeSubscribe = "subscribe"
)

// Message types from server to observer
const (
	TypeSubscribed = "subscribed"
	TypeChange     = "change"
	TypeError      = "error"
)

// Error codes
const (
	ErrorCodeInvalidMessage = "invalid_message"
	ErrorCodeUnknownTable   = "unknown_table"
)

// BaseMessage contains common fields for all messages
type BaseMessage struct {
	Type string `json:"type"`
	Ts   int64  `json:"ts,omitempty"`
}

// SubscribeMessage registers interest in tables; empty means all tables
type SubscribeMessage struct {
	BaseMessage
	Tables []string `json:"tables"`
}

// SubscribedMessage acknowledges a subscribe
type SubscribedMessage struct {
	BaseMessage
	Tables []string `json:"tables"`
}

// ChangeMessage tells the observer a table changed. It carries no row data.
type ChangeMessage struct {
	BaseMessage
	Table     string `json:"table"`
	SessionID string `json:"session_id,omitempty"`
}

// ErrorMessage reports a protocol error to the observer
type ErrorMessage struct {
	BaseMessage
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewChangeMessage converts a bus change to its wire form
func NewChangeMessage(change events.Change) ChangeMessage {
	at := change.At
	if at.IsZero() {
		at = time.Now()
	}
	return ChangeMessage{
		BaseMessage: BaseMessage{Type: TypeChange, Ts: at.UnixMilli()},
		Table:       change.Table,
		SessionID:   change.SessionID,
	}
}

// Change converts the wire form back to a bus change
func (m ChangeMessage) Change() events.Change {
	return events.Change{
		Table:     m.Table,
		SessionID: m.SessionID,
		At:        time.UnixMilli(m.Ts).UTC(),
	}
}

func knownTable(table string) bool {
	for _, t := range events.AllTables {
		if t == table {
			return true
		}
	}
	return false
}
