package realtime

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"auction-board/internal/events"
	"auction-board/utils"
)

// ServerConfig holds WebSocket keepalive settings
type ServerConfig struct {
	PingInterval   time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxMessageSize int64
}

// DefaultServerConfig returns the keepalive settings used when none are configured
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		PingInterval:   30 * time.Second,
		ReadTimeout:    60 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxMessageSize: 4096,
	}
}

// Server upgrades observer connections and serves the subscribe protocol
type Server struct {
	cfg      ServerConfig
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewServer creates a new WebSocket server
func NewServer(cfg ServerConfig, h *Hub) *Server {
	defaults := DefaultServerConfig()
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = defaults.PingInterval
	}
	if cfg.ReadTimeout <= cfg.PingInterval {
		cfg.ReadTimeout = 2 * cfg.PingInterval
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaults.WriteTimeout
	}
	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = defaults.MaxMessageSize
	}

	return &Server{
		cfg: cfg,
		hub: h,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// displays are served from other origins
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// HandleWebSocket handles GET /ws
func (s *Server) HandleWebSocket(c *gin.Context) {
	ws, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.Warn("realtime: websocket upgrade failed", map[string]any{"error": err.Error()})
		return
	}

	conn := s.hub.NewConnection(ws)
	if !s.hub.Register(conn) {
		_ = ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		_ = ws.Close()
		return
	}

	ws.SetReadLimit(s.cfg.MaxMessageSize)

	go s.writePump(conn)
	go s.readPump(conn)
}

// readPump reads messages from the WebSocket connection
func (s *Server) readPump(conn *Connection) {
	defer func() {
		s.hub.Unregister(conn)
		_ = conn.Close()
	}()

	_ = conn.Conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	conn.Conn.SetPongHandler(func(string) error {
		return conn.Conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	})

	for {
		_, message, err := conn.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				utils.Warn("realtime: websocket read error", map[string]any{"connection_id": conn.ID, "error": err.Error()})
			}
			return
		}

		s.handleMessage(conn, message)
	}
}

// writePump writes queued messages and keepalive pings
func (s *Server) writePump(conn *Connection) {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			_ = conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				utils.Debug("realtime: websocket write failed", map[string]any{"connection_id": conn.ID, "error": err.Error()})
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) handleMessage(conn *Connection, data []byte) {
	var base BaseMessage
	if err := json.Unmarshal(data, &base); err != nil {
		s.sendError(conn, ErrorCodeInvalidMessage, "invalid JSON message")
		return
	}

	switch base.Type {
	case TypeSubscribe:
		s.handleSubscribe(conn, data)
	default:
		s.sendError(conn, ErrorCodeInvalidMessage, "unknown message type: "+base.Type)
	}
}

func (s *Server) handleSubscribe(conn *Connection, data []byte) {
	var msg SubscribeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.sendError(conn, ErrorCodeInvalidMessage, "invalid subscribe message")
		return
	}

	tables := msg.Tables
	if len(tables) == 0 {
		tables = events.AllTables
	}
	for _, table := range tables {
		if !knownTable(table) {
			s.sendError(conn, ErrorCodeUnknownTable, "unknown table: "+table)
			return
		}
	}

	s.hub.Subscribe(conn, tables)

	ack := SubscribedMessage{
		BaseMessage: BaseMessage{Type: TypeSubscribed, Ts: time.Now().UnixMilli()},
		Tables:      tables,
	}
	if err := s.hub.SendJSON(conn, ack); err != nil {
		utils.Debug("realtime: failed to acknowledge subscribe", map[string]any{"connection_id": conn.ID, "error": err.Error()})
		return
	}
	utils.Info("realtime: observer subscribed", map[string]any{"connection_id": conn.ID, "tables": tables})
}

func (s *Server) sendError(conn *Connection, code, message string) {
	errMsg := ErrorMessage{
		BaseMessage: BaseMessage{Type: TypeError, Ts: time.Now().UnixMilli()},
		Code:        code,
		Message:     message,
	}
	if err := s.hub.SendJSON(conn, errMsg); err != nil {
		utils.Debug("realtime: failed to send error", map[string]any{"connection_id": conn.ID, "error": err.Error()})
	}
}
