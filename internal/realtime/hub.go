// internal/realtime/hub.go
package realtime

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
)

const sendBuffer = 256

type Client struct {
	ID     string
	UserID uuid.UUID
	Conn   *WebSocketConn
	Send   chan []byte

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

func NewClient(userID uuid.UUID, conn *WebSocketConn) *Client {
	return &Client{
		ID:     uuid.New().String(),
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
	}
}

// Deliver queues payload without blocking. It reports false when the queue is
// full or the client is closed.
func (c *Client) Deliver(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.Send <- payload:
		return true
	default:
		return false
	}
}

// DeliverJSON marshals v and queues it.
func (c *Client) DeliverJSON(v interface{}) bool {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return false
	}
	return c.Deliver(payload)
}

// Close ends the send queue and stops the write pump; frames still queued
// are discarded. Safe to call more than once.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.done)
		close(c.Send)
	}
}

// Hub maps each user to the one socket that receives their fan-out.
type Hub struct {
	clients map[uuid.UUID]*Client
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]*Client),
	}
}

// Register binds client to its user, replacing any earlier socket for that
// user. The replaced client is returned and left open; it just stops
// receiving fan-out.
func (h *Hub) Register(client *Client) *Client {
	h.mu.Lock()
	prev := h.clients[client.UserID]
	h.clients[client.UserID] = client
	h.mu.Unlock()

	if prev != nil && prev != client {
		log.Printf("Client replaced: %s -> %s (UserID: %s)", prev.ID, client.ID, client.UserID)
		return prev
	}
	log.Printf("Client registered: %s (UserID: %s)", client.ID, client.UserID)
	return nil
}

func (h *Hub) Lookup(userID uuid.UUID) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	c, ok := h.clients[userID]
	return c, ok
}

// Remove evicts whichever identity currently maps to client and closes the
// client. A client that was already replaced leaves the newer socket alone.
func (h *Hub) Remove(client *Client) bool {
	removed := false

	h.mu.Lock()
	for uid, c := range h.clients {
		if c == client {
			delete(h.clients, uid)
			removed = true
			break
		}
	}
	h.mu.Unlock()

	client.Close()
	if removed {
		log.Printf("Client unregistered: %s", client.ID)
	}
	return removed
}

// SendToUser delivers data to the user's socket if one is registered. Frames
// for absent or saturated sockets are dropped.
func (h *Hub) SendToUser(userID uuid.UUID, data interface{}) bool {
	client, ok := h.Lookup(userID)
	if !ok {
		return false
	}
	return client.DeliverJSON(data)
}

// SendToConversation sends message to both participants
func (h *Hub) SendToConversation(a, b uuid.UUID, data interface{}) {
	h.SendToUser(a, data)
	if b != a {
		h.SendToUser(b, data)
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
