package marketplace

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/domain/listing"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/httperr"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/models"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/services/audit"
)

type CreateListingInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	ImageURL    string `json:"imageUrl"`
	Budget      *int64 `json:"budget"`
}

func (s *Service) CreateListing(ownerID uuid.UUID, in CreateListingInput) (*models.Listing, error) {
	u, err := findUser(s.DB, ownerID)
	if err != nil {
		return nil, err
	}
	if u.IsBlocked {
		return nil, httperr.Forbidden("Account is blocked")
	}

	title := strings.TrimSpace(in.Title)
	desc := strings.TrimSpace(in.Description)
	category := strings.TrimSpace(in.Category)

	errs := httperr.FieldErrors{}
	if title == "" {
		errs.Add("title", "Title is required")
	}
	if desc == "" {
		errs.Add("description", "Description is required")
	}
	if category == "" {
		errs.Add("category", "Category is required")
	}
	if in.Budget != nil && *in.Budget < 1 {
		errs.Add("budget", "Budget must be at least 1")
	}
	if len(errs) > 0 {
		return nil, httperr.Validation(errs)
	}

	l := models.Listing{
		UserID:      ownerID,
		Title:       title,
		Description: desc,
		Category:    category,
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Budget:      in.Budget,
		Status:      listing.StatusOpen,
	}
	if err := s.DB.Create(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

// ListListings returns listings newest first. A non-empty category filters
// by case-insensitive substring.
func (s *Service) ListListings(category string) ([]models.Listing, error) {
	q := s.DB.Model(&models.Listing{}).Order("created_at DESC")
	if c := strings.TrimSpace(category); c != "" {
		q = q.Where("LOWER(category) LIKE ?", "%"+strings.ToLower(c)+"%")
	}

	var out []models.Listing
	err := q.Find(&out).Error
	return out, err
}

func (s *Service) GetListing(id uuid.UUID) (*models.Listing, error) {
	var l models.Listing
	if err := findListing(s.DB, id, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *Service) Categories() ([]string, error) {
	var categories []string
	err := s.DB.Model(&models.Listing{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).
		Error
	return categories, err
}

// DeleteListing removes a listing with its reviews, messages and bids in one
// transaction. Admins may delete any listing, owners only their own.
func (s *Service) DeleteListing(actorID, id uuid.UUID, asAdmin bool) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var l models.Listing
		if err := lockListing(tx, id, &l); err != nil {
			return err
		}
		if !asAdmin && l.UserID != actorID {
			return httperr.Forbidden("Only the listing owner can delete it")
		}

		if err := tx.Where("listing_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("listing_id = ?", id).Delete(&models.ChatMessage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("listing_id = ?", id).Delete(&models.Bid{}).Error; err != nil {
			return err
		}
		return tx.Delete(&l).Error
	})
	if err != nil {
		return err
	}

	s.Audit.Dispatch(audit.Event{
		ActorID:  audit.Ref(actorID),
		Action:   audit.ActionListingDelete,
		Entity:   "listing",
		EntityID: audit.Ref(id),
		Metadata: map[string]any{"by_admin": asAdmin},
	})
	return nil
}
