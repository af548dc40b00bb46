// internal/realtime/websocket.go
package realtime

import (
	"log"

	"github.com/gofiber/websocket/v2"
)

// WebSocketConn wraps websocket.Conn so the hub stays transport-agnostic.
type WebSocketConn struct {
	Conn *websocket.Conn
}

func NewWebSocketConn(c *websocket.Conn) *WebSocketConn {
	return &WebSocketConn{Conn: c}
}

// WritePump drains client.Send onto the socket until the client is closed or
// a write fails. The caller must not release the socket before it returns.
func (c *Client) WritePump() {
	if c.Conn == nil {
		return
	}
	c.pump(func(msg []byte) error {
		return c.Conn.Conn.WriteMessage(websocket.TextMessage, msg)
	})
}

func (c *Client) pump(write func([]byte) error) {
	for {
		// a closed client never writes again, even with frames still queued
		select {
		case <-c.done:
			return
		default:
		}

		select {
		case <-c.done:
			return
		case msg, ok := <-c.Send:
			if !ok {
				return
			}
			if err := write(msg); err != nil {
				log.Printf("WebSocket write error for user %s: %v", c.UserID, err)
				return
			}
		}
	}
}
