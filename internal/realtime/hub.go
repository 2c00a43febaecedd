package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"auction-board/internal/events"
	"auction-board/utils"
)

// ErrBufferFull is returned when a connection's send buffer is full
var ErrBufferFull = errors.New("send buffer full")

// ErrConnectionClosed is returned when sending to an unregistered connection
var ErrConnectionClosed = errors.New("connection closed")

const sendBuffer = 64

// Connection is one observer's WebSocket
type Connection struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte

	tables map[string]bool
	mu     sync.Mutex
}

// Hub tracks connections and the tables each one follows
type Hub struct {
	connections map[string]*Connection

	// subscribers maps table name to the ids of connections following it
	subscribers map[string]map[string]bool

	unregister chan *Connection
	broadcast  chan events.Change
	done       chan struct{}

	mu sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		connections: make(map[string]*Connection),
		subscribers: make(map[string]map[string]bool),
		unregister:  make(chan *Connection),
		broadcast:   make(chan events.Change, 256),
		done:        make(chan struct{}),
	}
}

// Run starts the hub's main loop; it closes every connection when ctx is done
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for id, conn := range h.connections {
				delete(h.connections, id)
				close(conn.Send)
			}
			h.subscribers = make(map[string]map[string]bool)
			h.mu.Unlock()
			return

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.connections[conn.ID]; ok {
				delete(h.connections, conn.ID)
				for table := range conn.tables {
					delete(h.subscribers[table], conn.ID)
				}
				close(conn.Send)
			}
			h.mu.Unlock()
			utils.Debug("realtime: connection unregistered", map[string]any{"connection_id": conn.ID})

		case change := <-h.broadcast:
			data, err := json.Marshal(NewChangeMessage(change))
			if err != nil {
				utils.Error("realtime: failed to encode change", map[string]any{"error": err.Error()})
				continue
			}

			h.mu.RLock()
			for connID := range h.subscribers[change.Table] {
				conn, exists := h.connections[connID]
				if !exists {
					continue
				}
				select {
				case conn.Send <- data:
				default:
					utils.Warn("realtime: connection buffer full, closing", map[string]any{"connection_id": connID})
					go h.Unregister(conn)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// NewConnection wraps ws; it still has to be registered
func (h *Hub) NewConnection(ws *websocket.Conn) *Connection {
	return &Connection{
		ID:     uuid.New().String(),
		Conn:   ws,
		Send:   make(chan []byte, sendBuffer),
		tables: make(map[string]bool),
	}
}

// Register registers a connection with the hub. It reports false once the hub has stopped.
func (h *Hub) Register(conn *Connection) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	select {
	case <-h.done:
		return false
	default:
	}
	h.connections[conn.ID] = conn
	utils.Debug("realtime: connection registered", map[string]any{"connection_id": conn.ID})
	return true
}

// Unregister unregisters a connection from the hub
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Subscribe replaces the set of tables conn follows
func (h *Hub) Subscribe(conn *Connection, tables []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.connections[conn.ID]; !ok {
		return
	}

	for table := range conn.tables {
		delete(h.subscribers[table], conn.ID)
	}
	conn.tables = make(map[string]bool, len(tables))

	for _, table := range tables {
		conn.tables[table] = true
		if h.subscribers[table] == nil {
			h.subscribers[table] = make(map[string]bool)
		}
		h.subscribers[table][conn.ID] = true
	}
}

// Publish queues change for every connection following its table
func (h *Hub) Publish(change events.Change) {
	select {
	case h.broadcast <- change:
	case <-h.done:
	}
}

// Forward relays bus changes to the hub until ctx is done or changes closes
func (h *Hub) Forward(ctx context.Context, changes <-chan events.Change) {
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-changes:
			if !ok {
				return
			}
			select {
			case h.broadcast <- change:
			case <-ctx.Done():
				return
			}
		}
	}
}

// SendJSON queues a message for one connection
func (h *Hub) SendJSON(conn *Connection, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	// Send is closed under the write lock once conn is unregistered
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.connections[conn.ID]; !ok {
		return ErrConnectionClosed
	}
	select {
	case conn.Send <- data:
		return nil
	default:
		return ErrBufferFull
	}
}

// ConnectionCount returns the number of active connections
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// SubscriberCount returns how many connections follow table
func (h *Hub) SubscriberCount(table string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[table])
}

// WriteMessage writes a message to the connection with proper locking
func (c *Connection) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteMessage(messageType, data)
}

// SetWriteDeadline sets the write deadline for the connection
func (c *Connection) SetWriteDeadline(t time.Time) error {
	return c.Conn.SetWriteDeadline(t)
}

// Close closes the connection
func (c *Connection) Close() error {
	return c.Conn.Close()
}
