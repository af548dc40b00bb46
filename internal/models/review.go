package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Review struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	ListingID   uuid.UUID `gorm:"type:char(36);uniqueIndex;not null" json:"listing_id"`
	RepairmanID uuid.UUID `gorm:"type:char(36);index;not null" json:"repairman_id"`
	UserID      uuid.UUID `gorm:"type:char(36);index;not null" json:"user_id"`

	Rating  int    `gorm:"not null" json:"rating"` // 1-5
	Comment string `gorm:"type:text;not null" json:"comment"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Listing   *Listing `gorm:"foreignKey:ListingID" json:"-"`
	Repairman *User    `gorm:"foreignKey:RepairmanID" json:"-"`
	Author    *User    `gorm:"foreignKey:UserID" json:"author,omitempty"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
