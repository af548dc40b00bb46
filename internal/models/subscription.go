package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriptionStatus string

const (
	SubscriptionPending SubscriptionStatus = "pending"
	SubscriptionActive  SubscriptionStatus = "active"
	SubscriptionExpired SubscriptionStatus = "expired"
)

type Subscription struct {
	ID           uuid.UUID          `gorm:"type:char(36);primaryKey" json:"id"`
	UserID       uuid.UUID          `gorm:"type:char(36);index;not null" json:"user_id"`
	Status       SubscriptionStatus `gorm:"type:varchar(20);index;not null;default:'pending'" json:"status"`
	Amount       int64              `gorm:"not null" json:"amount"`
	PaymentProof string             `gorm:"size:500;not null" json:"payment_proof"`
	StartDate    *time.Time         `json:"start_date"`
	EndDate      *time.Time         `json:"end_date"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Status == "" {
		s.Status = SubscriptionPending
	}
	return
}

// ActiveAt reports whether the subscription admits bidding at t.
func (s Subscription) ActiveAt(t time.Time) bool {
	if s.Status != SubscriptionActive {
		return false
	}
	return s.EndDate == nil || t.Before(*s.EndDate)
}
