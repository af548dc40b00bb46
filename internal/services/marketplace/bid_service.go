package marketplace

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/domain/listing"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/httperr"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/models"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/services/audit"
)

type CreateBidInput struct {
	Amount  int64  `json:"amount"`
	Comment string `json:"comment"`
}

// CreateBid admits a bid from a subscribed repairman on an open listing.
func (s *Service) CreateBid(repairmanID, listingID uuid.UUID, in CreateBidInput) (*models.Bid, error) {
	if in.Amount <= 0 {
		errs := httperr.FieldErrors{}
		errs.Add("amount", "Amount must be greater than 0")
		return nil, httperr.Validation(errs)
	}

	var bid models.Bid
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		u, err := findUser(tx, repairmanID)
		if err != nil {
			return err
		}
		if !u.IsRepairman {
			return httperr.Forbidden("Only repairmen can place bids")
		}
		if u.IsBlocked {
			return httperr.Forbidden("Account is blocked")
		}

		active, err := s.Gate.IsActive(tx, repairmanID)
		if err != nil {
			return err
		}
		if !active {
			return httperr.Forbidden("Active subscription required to place bids")
		}

		var l models.Listing
		if err := lockListing(tx, listingID, &l); err != nil {
			return err
		}
		if l.UserID == repairmanID {
			return httperr.Forbidden("You cannot bid on your own listing")
		}
		if err := listing.CanBid(l.Status); err != nil {
			return err
		}

		bid = models.Bid{
			ListingID:   listingID,
			RepairmanID: repairmanID,
			Amount:      in.Amount,
			Comment:     strings.TrimSpace(in.Comment),
			Status:      listing.BidPending,
		}
		return tx.Create(&bid).Error
	})
	if err != nil {
		return nil, err
	}
	return &bid, nil
}

// ListBids returns a listing's bids with the repairman preloaded.
func (s *Service) ListBids(listingID uuid.UUID) ([]models.Bid, error) {
	var l models.Listing
	if err := findListing(s.DB, listingID, &l); err != nil {
		return nil, err
	}

	var bids []models.Bid
	err := s.DB.Preload("Repairman").
		Where("listing_id = ?", listingID).
		Order("created_at ASC").
		Find(&bids).Error
	return bids, err
}

// RepairmanBids returns the bids a repairman placed, each with its listing.
func (s *Service) RepairmanBids(repairmanID uuid.UUID) ([]models.Bid, error) {
	var bids []models.Bid
	err := s.DB.Preload("Listing").
		Where("repairman_id = ?", repairmanID).
		Order("created_at DESC").
		Find(&bids).Error
	return bids, err
}

// AcceptBid moves the listing to in_progress and the bid to accepted in one
// transaction. Sibling bids stay pending.
func (s *Service) AcceptBid(ownerID, listingID, bidID uuid.UUID) (*models.Listing, *models.Bid, error) {
	var l models.Listing
	var b models.Bid

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockListing(tx, listingID, &l); err != nil {
			return err
		}
		if l.UserID != ownerID {
			return httperr.Forbidden("Only the listing owner can accept bids")
		}

		err := tx.First(&b, "id = ? AND listing_id = ?", bidID, listingID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.NotFound("Bid not found")
		}
		if err != nil {
			return err
		}
		if err := listing.CanAccept(l.Status, b.Status); err != nil {
			return err
		}

		// The status guard in WHERE keeps this safe on drivers without row locks.
		res := tx.Model(&models.Listing{}).
			Where("id = ? AND status = ?", listingID, listing.StatusOpen).
			Update("status", listing.StatusInProgress)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return httperr.Conflict("Listing is not open")
		}

		res = tx.Model(&models.Bid{}).
			Where("id = ? AND status = ?", bidID, listing.BidPending).
			Update("status", listing.BidAccepted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return httperr.Conflict("Bid is not pending")
		}

		l.Status = listing.StatusInProgress
		b.Status = listing.BidAccepted
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.Audit.Dispatch(audit.Event{
		ActorID:  audit.Ref(ownerID),
		Action:   audit.ActionBidAccept,
		Entity:   "bid",
		EntityID: audit.Ref(b.ID),
		Metadata: map[string]any{"listing_id": l.ID, "repairman_id": b.RepairmanID, "amount": b.Amount},
	})
	return &l, &b, nil
}

// Complete is allowed only for the repairman holding the accepted bid.
func (s *Service) Complete(repairmanID, listingID uuid.UUID) (*models.Listing, error) {
	var l models.Listing

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockListing(tx, listingID, &l); err != nil {
			return err
		}

		accepted, err := acceptedBid(tx, listingID)
		if err != nil {
			return err
		}
		if accepted == nil || accepted.RepairmanID != repairmanID {
			return httperr.Forbidden("Only the accepted repairman can complete this listing")
		}
		if err := listing.CanComplete(l.Status); err != nil {
			return err
		}

		res := tx.Model(&models.Listing{}).
			Where("id = ? AND status = ?", listingID, listing.StatusInProgress).
			Update("status", listing.StatusCompleted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return httperr.Conflict("Listing is not in progress")
		}

		l.Status = listing.StatusCompleted
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Audit.Dispatch(audit.Event{
		ActorID:  audit.Ref(repairmanID),
		Action:   audit.ActionListingComplete,
		Entity:   "listing",
		EntityID: audit.Ref(listingID),
	})
	return &l, nil
}
