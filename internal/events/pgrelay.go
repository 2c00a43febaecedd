package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"auction-board/utils"
)

// NotifyChannel is the PostgreSQL channel changes are announced on
const NotifyChannel = "auction_changes"

// PGRelay publishes changes with pg_notify so that every process attached to
// the same database receives them, and relays received notifications into a local Bus.
type PGRelay struct {
	db  *sql.DB
	dsn string
	bus *Bus

	minReconnect time.Duration
	maxReconnect time.Duration
	pingInterval time.Duration
}

// NewPGRelay creates a relay; Run must be started for notifications to reach bus
func NewPGRelay(db *sql.DB, dsn string, bus *Bus) *PGRelay {
	return &PGRelay{
		db:           db,
		dsn:          dsn,
		bus:          bus,
		minReconnect: time.Second,
		maxReconnect: 30 * time.Second,
		pingInterval: 90 * time.Second,
	}
}

// Publish announces change through the database. If the notify fails the change
// is still delivered to local subscribers; remote observers fall back to polling.
func (r *PGRelay) Publish(change Change) {
	if change.At.IsZero() {
		change.At = utils.Now()
	}

	payload, err := json.Marshal(change)
	if err != nil {
		utils.Error("events: failed to encode change", map[string]any{"table": change.Table, "error": err.Error()})
		r.bus.Publish(change)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, "SELECT pg_notify($1, $2)", NotifyChannel, string(payload)); err != nil {
		utils.Warn("events: pg_notify failed, delivering locally", map[string]any{"table": change.Table, "error": err.Error()})
		r.bus.Publish(change)
	}
}

// Run listens for notifications until ctx is cancelled
func (r *PGRelay) Run(ctx context.Context) error {
	listener := pq.NewListener(r.dsn, r.minReconnect, r.maxReconnect, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			utils.Warn("events: listener connection event", map[string]any{"event": int(ev), "error": err.Error()})
		}
	})
	defer listener.Close()

	if err := listener.Listen(NotifyChannel); err != nil {
		return fmt.Errorf("listen on %s: %w", NotifyChannel, err)
	}
	utils.Info("events: listening for database notifications", map[string]any{"channel": NotifyChannel})

	ping := time.NewTicker(r.pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case n := <-listener.Notify:
			if n == nil {
				// reconnected: notifications may have been missed
				for _, table := range AllTables {
					r.bus.Publish(Change{Table: table})
				}
				continue
			}
			r.relay(n.Extra)

		case <-ping.C:
			if err := listener.Ping(); err != nil {
				utils.Warn("events: listener ping failed", map[string]any{"error": err.Error()})
			}
		}
	}
}

func (r *PGRelay) relay(payload string) {
	change, err := DecodeChange([]byte(payload))
	if err != nil {
		utils.Warn("events: ignoring malformed notification", map[string]any{"payload": payload, "error": err.Error()})
		return
	}
	r.bus.Publish(change)
}

// DecodeChange parses a JSON change notification
func DecodeChange(data []byte) (Change, error) {
	var change Change
	if err := json.Unmarshal(data, &change); err != nil {
		return Change{}, fmt.Errorf("decode change: %w", err)
	}
	if change.Table == "" {
		return Change{}, fmt.Errorf("decode change: missing table")
	}
	return change, nil
}
