// Package events carries "something in this table changed" notifications from
// the stores to every observer. Payloads are hints only; observers refetch.
package events

import (
	"sync"
	"time"

	"auction-board/utils"
)

// Table names published on the bus
const (
	TableBids     = "bids"
	TableSessions = "sessions"
)

// AllTables lists every table a change can be published for
var AllTables = []string{TableBids, TableSessions}

// Change is a committed mutation of one table
type Change struct {
	Table     string    `json:"table"`
	SessionID string    `json:"session_id,omitempty"`
	At        time.Time `json:"at"`
}

// Publisher is implemented by anything the stores can announce changes to
type Publisher interface {
	Publish(change Change)
}

// Bus is an in-process fan-out of changes to table subscriptions
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]*Subscription
	nextID int
}

// Subscription receives the changes of the tables it registered for
type Subscription struct {
	C <-chan Change

	ch     chan Change
	tables map[string]bool
	bus    *Bus
	id     int
	once   sync.Once
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{subs: make(map[int]*Subscription)}
}

// Subscribe registers interest in tables; no tables means every table.
// Delivery never blocks the publisher: when buffer is full the change is dropped.
func (b *Bus) Subscribe(buffer int, tables ...string) *Subscription {
	if buffer < 1 {
		buffer = 1
	}

	sub := &Subscription{
		ch:     make(chan Change, buffer),
		tables: make(map[string]bool, len(tables)),
		bus:    b,
	}
	sub.C = sub.ch
	for _, t := range tables {
		sub.tables[t] = true
	}

	b.mu.Lock()
	sub.id = b.nextID
	b.nextID++
	b.subs[sub.id] = sub
	b.mu.Unlock()

	return sub
}

// Publish delivers change to every matching subscription
func (b *Bus) Publish(change Change) {
	if change.At.IsZero() {
		change.At = utils.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs {
		if len(sub.tables) > 0 && !sub.tables[change.Table] {
			continue
		}
		select {
		case sub.ch <- change:
		default:
			utils.Debug("events: subscriber buffer full, change dropped", map[string]any{
				"table":        change.Table,
				"subscription": sub.id,
			})
		}
	}
}

// Subscribers returns the number of open subscriptions
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close unregisters the subscription and closes its channel
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		delete(s.bus.subs, s.id)
		s.bus.mu.Unlock()
		close(s.ch)
	})
}
