package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleOwner     Role = "owner"
	RoleRepairman Role = "repairman"
	RoleAdmin     Role = "admin"
)

// internal/models/user.go
type User struct {
	ID       uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	Username string    `gorm:"size:191;uniqueIndex;not null" json:"username"`

	PasswordHash string `gorm:"not null" json:"-"`
	IsRepairman  bool   `gorm:"default:false" json:"is_repairman"`
	IsAdmin      bool   `gorm:"default:false" json:"is_admin"`
	IsBlocked    bool   `gorm:"default:false" json:"is_blocked"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}

// Role is the token role; admin wins over repairman.
func (u User) Role() Role {
	switch {
	case u.IsAdmin:
		return RoleAdmin
	case u.IsRepairman:
		return RoleRepairman
	default:
		return RoleOwner
	}
}
