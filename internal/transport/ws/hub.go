// Package ws streams timeline frames and feed events to dashboard
// viewers over WebSocket.
package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Connection represents a single viewer connection.
type Connection struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
	mu   sync.Mutex
}

// WriteMessage writes a message while holding the connection lock.
func (c *Connection) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteMessage(messageType, data)
}

// Close closes the underlying socket.
func (c *Connection) Close() error {
	return c.Conn.Close()
}

// Envelope is the wire format pushed to viewers.
type Envelope struct {
	Type string          `json:"type"` // frame, event
	Data json.RawMessage `json:"data"`
}

// Hub manages all viewer connections. Every viewer sees the same
// timeline, so broadcasts are global rather than per-session.
type Hub struct {
	mu          sync.RWMutex
	connections map[string]*Connection
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{connections: make(map[string]*Connection)}
}

// NewConnection wraps a websocket and registers it.
func (h *Hub) NewConnection(ws *websocket.Conn) *Connection {
	conn := &Connection{
		ID:   uuid.New().String(),
		Conn: ws,
		Send: make(chan []byte, 256),
	}
	h.mu.Lock()
	h.connections[conn.ID] = conn
	h.mu.Unlock()
	log.Printf("Viewer connected: %s", conn.ID)
	return conn
}

// Unregister removes a connection and closes its send channel.
func (h *Hub) Unregister(conn *Connection) {
	h.mu.Lock()
	if _, ok := h.connections[conn.ID]; ok {
		delete(h.connections, conn.ID)
		close(conn.Send)
	}
	h.mu.Unlock()
	log.Printf("Viewer disconnected: %s", conn.ID)
}

// ConnectionCount returns the number of registered viewers.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// Broadcast sends a typed payload to every viewer. Slow viewers with a
// full buffer are dropped rather than allowed to stall the rest.
func (h *Hub) Broadcast(msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("WARN: failed to marshal %s broadcast: %v", msgType, err)
		return
	}
	msg, err := json.Marshal(Envelope{Type: msgType, Data: data})
	if err != nil {
		log.Printf("WARN: failed to marshal envelope: %v", err)
		return
	}

	h.mu.RLock()
	var stalled []*Connection
	for _, conn := range h.connections {
		select {
		case conn.Send <- msg:
		default:
			stalled = append(stalled, conn)
		}
	}
	h.mu.RUnlock()

	for _, conn := range stalled {
		log.Printf("Connection %s buffer full, closing", conn.ID)
		h.Unregister(conn)
		_ = conn.Close()
	}
}
