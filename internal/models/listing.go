package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/domain/listing"
)

type Listing struct {
	ID          uuid.UUID      `gorm:"type:char(36);primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:char(36);index;not null" json:"user_id"`
	Title       string         `gorm:"size:200;not null" json:"title"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Category    string         `gorm:"size:100;index;not null" json:"category"`
	ImageURL    string         `gorm:"size:500" json:"image_url"`
	Budget      *int64         `json:"budget"`
	Status      listing.Status `gorm:"type:varchar(20);index;not null;default:'open'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Owner *User `gorm:"foreignKey:UserID" json:"owner,omitempty"`
}

func (l *Listing) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Status == "" {
		l.Status = listing.StatusOpen
	}
	return
}

type Bid struct {
	ID          uuid.UUID         `gorm:"type:char(36);primaryKey" json:"id"`
	ListingID   uuid.UUID         `gorm:"type:char(36);index;not null" json:"listing_id"`
	RepairmanID uuid.UUID         `gorm:"type:char(36);index;not null" json:"repairman_id"`
	Amount      int64             `gorm:"not null" json:"amount"`
	Comment     string            `gorm:"type:text" json:"comment"`
	Status      listing.BidStatus `gorm:"type:varchar(20);index;not null;default:'pending'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Listing   *Listing `gorm:"foreignKey:ListingID" json:"listing,omitempty"`
	Repairman *User    `gorm:"foreignKey:RepairmanID" json:"repairman,omitempty"`
}

func (b *Bid) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Status == "" {
		b.Status = listing.BidPending
	}
	return
}
