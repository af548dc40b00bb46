// internal/models/chat.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatMessage is one line in the owner/repairman channel of a listing.
type ChatMessage struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	ListingID uuid.UUID `gorm:"type:char(36);index;not null" json:"listing_id"`
	SenderID  uuid.UUID `gorm:"type:char(36);index;not null" json:"sender_id"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	Listing *Listing `gorm:"foreignKey:ListingID" json:"-"`
	Sender  *User    `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}
