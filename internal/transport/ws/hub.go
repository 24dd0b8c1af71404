package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans admin feed events out to every connected admin
type Hub struct {
	conns map[*Connection]struct{}
	mu    sync.RWMutex

	// Channels for coordination
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan []byte
	done       chan struct{}

	logger *slog.Logger
}

// Connection represents one admin WebSocket connection
type Connection struct {
	Username string
	Send     chan []byte
}

// NewHub creates a new WebSocket hub
func NewHub(logger *slog.Logger) *Hub {
	h := &Hub{
		conns:      make(map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
		logger:     logger.With("component", "ws"),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.conns[conn] = struct{}{}
			h.mu.Unlock()
			h.logger.Info("admin connected", "user", conn.Username, "connections", h.Count())

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.conns[conn]; ok {
				delete(h.conns, conn)
				close(conn.Send)
			}
			h.mu.Unlock()
			h.logger.Info("admin disconnected", "user", conn.Username)

		case data := <-h.broadcast:
			h.mu.RLock()
			for conn := range h.conns {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()

		case <-h.done:
			h.mu.Lock()
			for conn := range h.conns {
				delete(h.conns, conn)
				close(conn.Send)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.done:
		close(conn.Send)
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Count returns the number of connected admins
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// BroadcastToAdmins queues an event for every admin (implements service.Broadcaster).
// Events are dropped when the queue is full.
func (h *Hub) BroadcastToAdmins(msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("unencodable feed payload", "type", msgType, "error", err)
		return
	}
	msg, _ := json.Marshal(&Message{Type: msgType, Payload: data})
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("feed queue full, dropping event", "type", msgType)
	}
}

// Close disconnects every admin and stops the hub
func (h *Hub) Close() {
	close(h.done)
}
