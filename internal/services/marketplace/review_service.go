package marketplace

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/domain/listing"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/httperr"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/models"
)

type CreateReviewInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// CreateReview lets the owner rate the repairman of a completed listing once.
func (s *Service) CreateReview(authorID, listingID uuid.UUID, in CreateReviewInput) (*models.Review, error) {
	comment := strings.TrimSpace(in.Comment)

	errs := httperr.FieldErrors{}
	if in.Rating < 1 || in.Rating > 5 {
		errs.Add("rating", "Rating must be between 1 and 5")
	}
	if comment == "" {
		errs.Add("comment", "Comment is required")
	}
	if len(errs) > 0 {
		return nil, httperr.Validation(errs)
	}

	var r models.Review
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var l models.Listing
		if err := lockListing(tx, listingID, &l); err != nil {
			return err
		}
		if l.UserID != authorID {
			return httperr.Forbidden("Only the listing owner can leave a review")
		}
		if err := listing.CanReview(l.Status); err != nil {
			return err
		}

		accepted, err := acceptedBid(tx, listingID)
		if err != nil {
			return err
		}
		if accepted == nil {
			return httperr.Conflict("Listing has no accepted bid")
		}

		var n int64
		if err := tx.Model(&models.Review{}).Where("listing_id = ?", listingID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return httperr.Conflict("Listing already reviewed")
		}

		r = models.Review{
			ListingID:   listingID,
			RepairmanID: accepted.RepairmanID,
			UserID:      authorID,
			Rating:      in.Rating,
			Comment:     comment,
		}
		return tx.Create(&r).Error
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// RepairmanReviews returns reviews about a repairman, newest first.
func (s *Service) RepairmanReviews(repairmanID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	err := s.DB.Preload("Author").
		Where("repairman_id = ?", repairmanID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}
