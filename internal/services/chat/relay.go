package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/httperr"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/models"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/realtime"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/services/marketplace"
)

const maxMessageLen = 4000

// Channels resolves who may talk about a listing.
type Channels interface {
	Channel(listingID uuid.UUID) (*marketplace.Channel, error)
}

// Relay persists chat frames and fans them out to both participants.
type Relay struct {
	DB       *gorm.DB
	Hub      *realtime.Hub
	Channels Channels
	Notifier realtime.Notifier
}

func NewRelay(db *gorm.DB, hub *realtime.Hub, channels Channels, notifier realtime.Notifier) *Relay {
	if notifier == nil {
		notifier = realtime.NopNotifier{}
	}
	return &Relay{DB: db, Hub: hub, Channels: channels, Notifier: notifier}
}

// Handle processes one inbound frame from client. Failures go back to the
// originating socket as an error frame; the connection stays open.
func (r *Relay) Handle(ctx context.Context, client *realtime.Client, raw []byte) {
	if err := r.handle(ctx, client, raw); err != nil {
		if httperr.StatusOf(err) >= 500 {
			log.Printf("WebSocket: relay error for user %s: %v", client.UserID, err)
		}
		client.DeliverJSON(errorFrame(httperr.Public(err)))
	}
}

func (r *Relay) handle(ctx context.Context, client *realtime.Client, raw []byte) error {
	var f Frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return httperr.BadRequest("Invalid message format")
	}

	switch f.Type {
	case FrameAuth:
		return r.auth(client, f)
	case FrameChat:
		if len(f.Data) == 0 || string(f.Data) == "null" {
			return httperr.BadRequest("Invalid message format")
		}
		var d ChatData
		if err := json.Unmarshal(f.Data, &d); err != nil {
			return httperr.BadRequest("Invalid message format")
		}
		_, err := r.Send(ctx, client.UserID, d)
		return err
	case FramePing:
		client.DeliverJSON(outFrame{Type: FramePong})
		return nil
	case FramePong:
		return nil
	case "":
		return httperr.BadRequest("Invalid message format")
	}
	return httperr.BadRequest("Unknown message type")
}

// auth re-binds the socket to the session identity. A missing payload or one
// naming someone else is refused.
func (r *Relay) auth(client *realtime.Client, f Frame) error {
	if len(f.Data) == 0 || string(f.Data) == "null" {
		return httperr.BadRequest("Invalid message format")
	}
	var d AuthData
	if err := json.Unmarshal(f.Data, &d); err != nil {
		return httperr.BadRequest("Invalid message format")
	}
	if d.UserID != "" && d.UserID != client.UserID.String() {
		return httperr.Forbidden("User mismatch")
	}

	r.Hub.Register(client)
	client.DeliverJSON(outFrame{Type: FrameAuth, Data: AuthData{UserID: client.UserID.String()}})
	return nil
}

// Send validates and stores a message from senderID, then delivers it to
// every connected participant. Absent sockets are skipped.
func (r *Relay) Send(ctx context.Context, senderID uuid.UUID, d ChatData) (*models.ChatMessage, error) {
	text := strings.TrimSpace(d.Message)
	if text == "" {
		return nil, httperr.BadRequest("Message is required")
	}
	if utf8.RuneCountInString(text) > maxMessageLen {
		return nil, httperr.BadRequest("Message is too long")
	}

	listingID, err := uuid.Parse(strings.TrimSpace(d.ListingID))
	if err != nil {
		return nil, httperr.BadRequest("Invalid listing id")
	}
	if d.SenderID != "" && d.SenderID != senderID.String() {
		return nil, httperr.Forbidden("Sender mismatch")
	}

	ch, err := r.Channels.Channel(listingID)
	if err != nil {
		return nil, err
	}
	recipientID, err := ch.Counterpart(senderID)
	if err != nil {
		return nil, err
	}
	if d.RecipientID != "" && d.RecipientID != recipientID.String() {
		return nil, httperr.Forbidden("Recipient is not part of this conversation")
	}

	msg := models.ChatMessage{
		ListingID: listingID,
		SenderID:  senderID,
		Message:   text,
	}
	if err := r.DB.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, err
	}

	frame := outFrame{Type: FrameChat, Data: ToMessageResponse(&msg)}
	r.Hub.SendToConversation(senderID, recipientID, frame)

	notif := map[string]interface{}{
		"type":       "chat_message",
		"listing_id": listingID.String(),
		"sender_id":  senderID.String(),
		"message":    text,
	}
	if err := r.Notifier.Notify(ctx, recipientID, notif); err != nil {
		log.Printf("WebSocket: notify %s failed: %v", recipientID, err)
	}
	return &msg, nil
}

// History returns a listing's messages oldest first. Admins see every
// channel; everyone else must be the owner or the accepted repairman.
func (r *Relay) History(viewerID, listingID uuid.UUID, isAdmin bool) ([]models.ChatMessage, error) {
	ch, err := r.Channels.Channel(listingID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && !ch.Member(viewerID) {
		return nil, httperr.Forbidden("You are not part of this conversation")
	}

	var msgs []models.ChatMessage
	err = r.DB.Where("listing_id = ?", listingID).
		Order("created_at ASC").
		Find(&msgs).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return msgs, nil
}
