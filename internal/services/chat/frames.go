package chat

import (
	"encoding/json"
	"time"

	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/models"
)

const (
	FrameAuth  = "auth"
	FrameChat  = "chat"
	FrameError = "error"
	FramePing  = "ping"
	FramePong  = "pong"
)

// Frame is the envelope for every websocket text frame.
type Frame struct {
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

type AuthData struct {
	UserID string `json:"userId"`
}

type ChatData struct {
	Message     string `json:"message"`
	ListingID   string `json:"listingId"`
	SenderID    string `json:"senderId"`
	RecipientID string `json:"recipientId"`
}

type MessageResponse struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listing_id"`
	SenderID  string    `json:"sender_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func ToMessageResponse(m *models.ChatMessage) MessageResponse {
	return MessageResponse{
		ID:        m.ID.String(),
		ListingID: m.ListingID.String(),
		SenderID:  m.SenderID.String(),
		Message:   m.Message,
		CreatedAt: m.CreatedAt,
	}
}

type outFrame struct {
	Type    string      `json:"type"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func errorFrame(msg string) outFrame {
	return outFrame{Type: FrameError, Message: msg}
}
