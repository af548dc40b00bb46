package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AuditLog struct {
	ID uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`

	ActorID *uuid.UUID `gorm:"type:char(36);index" json:"actor_id"`
	Action  string     `gorm:"size:50;not null" json:"action"`

	Entity   string         `gorm:"size:50" json:"entity"`
	EntityID *uuid.UUID     `gorm:"type:char(36)" json:"entity_id"`
	Metadata datatypes.JSON `json:"metadata"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}

// All returns every table the service migrates, in dependency order.
func All() []any {
	return []any{
		&User{},
		&Listing{},
		&Bid{},
		&ChatMessage{},
		&Review{},
		&Subscription{},
		&AuditLog{},
	}
}
