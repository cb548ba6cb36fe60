package ws

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/aivora/aivora-backend/logger"
)

const sendBuffer = 64

type Client struct {
	Conn   *websocket.Conn
	Send   chan []byte
	userID string
	once   sync.Once
}

// Hub fans events out to every open connection of a user.
type Hub struct {
	Clients map[string]map[*Client]struct{}
	Mutex   sync.RWMutex
	log     *logger.Logger
}

// Event is the message written to user connections.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

const (
	EventNoteCreated     = "note_created"
	EventNoteDeleted     = "note_deleted"
	EventQuizGenerated   = "quiz_generated"
	EventProgressUpdated = "progress_updated"
)

func NewHub(log *logger.Logger) *Hub {
	return &Hub{Clients: make(map[string]map[*Client]struct{}), log: log}
}

var H = NewHub(logger.Nop())

func (h *Hub) SetLogger(log *logger.Logger) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()
	h.log = log
}

// Register starts the write pump for conn. The caller owns the read loop and
// must call Unregister when it ends.
func (h *Hub) Register(userID string, conn *websocket.Conn) *Client {
	client := &Client{Conn: conn, Send: make(chan []byte, sendBuffer), userID: userID}

	h.Mutex.Lock()
	if _, ok := h.Clients[userID]; !ok {
		h.Clients[userID] = make(map[*Client]struct{})
	}
	h.Clients[userID][client] = struct{}{}
	h.Mutex.Unlock()

	go client.writePump()
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if clients, ok := h.Clients[client.userID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			client.once.Do(func() { close(client.Send) })
		}
		if len(clients) == 0 {
			delete(h.Clients, client.userID)
		}
	}
}

// Send queues data for every connection of userID. A full buffer drops the message.
func (h *Hub) Send(userID string, data []byte) int {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	delivered := 0
	for client := range h.Clients[userID] {
		select {
		case client.Send <- data:
			delivered++
		default:
			h.log.Warn("websocket send buffer full, dropping event", "user_id", userID)
		}
	}
	return delivered
}

// Notify publishes a typed event to a user's connections.
func (h *Hub) Notify(userID, eventType string, data any) {
	msg, err := json.Marshal(Event{Type: eventType, Data: data})
	if err != nil {
		h.log.Error("websocket event marshal failed", "type", eventType, "error", err)
		return
	}
	h.Send(userID, msg)
}

func (h *Hub) Connected(userID string) bool {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()
	return len(h.Clients[userID]) > 0
}

func (h *Hub) GetStats() map[string]int {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	conns := 0
	for _, clients := range h.Clients {
		conns += len(clients)
	}
	return map[string]int{"users": len(h.Clients), "connections": conns}
}

// Notify publishes on the process-wide hub.
func Notify(userID, eventType string, data any) {
	H.Notify(userID, eventType, data)
}

func (c *Client) writePump() {
	defer c.Conn.Close()
	for msg := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}
