package handlers

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/realtime"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/services/chat"
)

const maxFrameSize = 64 * 1024

type ChatHandler struct {
	Hub   *realtime.Hub
	Relay *chat.Relay
}

func NewChatHandler(hub *realtime.Hub, relay *chat.Relay) *ChatHandler {
	return &ChatHandler{Hub: hub, Relay: relay}
}

// GetMessages handles GET /api/listings/:id/messages
func (h *ChatHandler) GetMessages(c *fiber.Ctx) error {
	uid, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	listingID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	msgs, err := h.Relay.History(uid, listingID, isAdmin(c))
	if err != nil {
		return err
	}

	out := make([]chat.MessageResponse, 0, len(msgs))
	for i := range msgs {
		out = append(out, chat.ToMessageResponse(&msgs[i]))
	}
	return ok(c, out)
}

// WebSocketHandler serves /ws. The identity was fixed by the JWT middleware
// before the upgrade; frames can never change it.
func (h *ChatHandler) WebSocketHandler(c *websocket.Conn) {
	userID, ok := c.Locals("userId").(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Println("WebSocket: missing session identity")
		_ = c.Close()
		return
	}

	client := realtime.NewClient(userID, realtime.NewWebSocketConn(c))
	h.Hub.Register(client)
	log.Printf("WebSocket: user %s connected\n", userID)

	pumpDone := make(chan struct{})
	go func() {
		defer close(pumpDone)
		client.WritePump()
	}()

	// the conn goes back to the pool when this handler returns
	defer func() {
		h.Hub.Remove(client)
		<-pumpDone
		log.Printf("WebSocket: user %s disconnected\n", userID)
	}()

	c.SetReadLimit(maxFrameSize)
	for {
		mt, raw, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket read error for user %s: %v\n", userID, err)
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		h.Relay.Handle(context.Background(), client, raw)
	}
}
