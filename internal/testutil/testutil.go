// Package testutil builds throwaway databases and fixtures for tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/db"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/models"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/utils"
)

// NewDB returns a migrated in-memory SQLite database private to t.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	gdb, err := db.Connect("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

const Password = "secret123"

func CreateUser(t *testing.T, gdb *gorm.DB, username string, repairman bool) models.User {
	t.Helper()

	hash, err := utils.HashPassword(Password)
	require.NoError(t, err)
	u := models.User{Username: username, PasswordHash: hash, IsRepairman: repairman}
	require.NoError(t, gdb.Create(&u).Error)
	return u
}

func CreateAdmin(t *testing.T, gdb *gorm.DB, username string) models.User {
	t.Helper()

	u := CreateUser(t, gdb, username, false)
	require.NoError(t, gdb.Model(&u).Update("is_admin", true).Error)
	u.IsAdmin = true
	return u
}

// ActivateSubscription gives the user a verified subscription valid for 30 days.
func ActivateSubscription(t *testing.T, gdb *gorm.DB, userID uuid.UUID) models.Subscription {
	t.Helper()

	now := time.Now()
	end := now.AddDate(0, 0, 30)
	s := models.Subscription{
		UserID:       userID,
		Status:       models.SubscriptionActive,
		Amount:       300,
		PaymentProof: "/uploads/proof.png",
		StartDate:    &now,
		EndDate:      &end,
	}
	require.NoError(t, gdb.Create(&s).Error)
	return s
}

func CreateListing(t *testing.T, gdb *gorm.DB, ownerID uuid.UUID, title, category string) models.Listing {
	t.Helper()

	l := models.Listing{
		UserID:      ownerID,
		Title:       title,
		Description: "Broken " + title,
		Category:    category,
	}
	require.NoError(t, gdb.Create(&l).Error)
	return l
}

// Token signs a session token for u with the role it would get at login.
func Token(t *testing.T, secret string, u models.User) string {
	t.Helper()

	tok, err := utils.SignJWT(secret, u.ID.String(), string(u.Role()), 60)
	require.NoError(t, err)
	return tok
}
