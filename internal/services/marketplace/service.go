// Package marketplace holds the listing and bid state machine.
package marketplace

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/domain/listing"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/httperr"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/models"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/services/audit"
)

// Gate decides whether a repairman may bid. It must use tx for every query.
type Gate interface {
	IsActive(tx *gorm.DB, userID uuid.UUID) (bool, error)
}

type Auditor interface {
	Dispatch(audit.Event)
}

type Service struct {
	DB    *gorm.DB
	Gate  Gate
	Audit Auditor
}

func NewService(db *gorm.DB, gate Gate, auditor Auditor) *Service {
	if auditor == nil {
		auditor = audit.Nop{}
	}
	return &Service{DB: db, Gate: gate, Audit: auditor}
}

func findListing(tx *gorm.DB, id uuid.UUID, l *models.Listing) error {
	err := tx.First(l, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.NotFound("Listing not found")
	}
	return err
}

// lockListing loads the listing with SELECT ... FOR UPDATE.
func lockListing(tx *gorm.DB, id uuid.UUID, l *models.Listing) error {
	return findListing(tx.Clauses(clause.Locking{Strength: "UPDATE"}), id, l)
}

func findUser(tx *gorm.DB, id uuid.UUID) (*models.User, error) {
	var u models.User
	err := tx.First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.Unauthorized("Not authenticated")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// acceptedBid returns the accepted bid of a listing, or nil.
func acceptedBid(tx *gorm.DB, listingID uuid.UUID) (*models.Bid, error) {
	var b models.Bid
	err := tx.Where("listing_id = ? AND status = ?", listingID, listing.BidAccepted).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}
