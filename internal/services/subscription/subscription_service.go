package subscription

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/httperr"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/models"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/services/audit"
)

type Auditor interface {
	Dispatch(audit.Event)
}

// Service owns the subscription lifecycle: pending -> active -> expired.
type Service struct {
	DB    *gorm.DB
	Fee   int64
	Days  int
	Audit Auditor
	Now   func() time.Time
}

func NewService(db *gorm.DB, fee int64, days int, auditor Auditor) *Service {
	if auditor == nil {
		auditor = audit.Nop{}
	}
	return &Service{DB: db, Fee: fee, Days: days, Audit: auditor, Now: time.Now}
}

type CreateInput struct {
	Amount       int64  `json:"amount"`
	PaymentProof string `json:"paymentProof"`
}

func (s *Service) Create(userID uuid.UUID, in CreateInput) (*models.Subscription, error) {
	var u models.User
	if err := s.DB.First(&u, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.Unauthorized("Not authenticated")
		}
		return nil, err
	}
	if !u.IsRepairman {
		return nil, httperr.Forbidden("Only repairmen can subscribe")
	}

	errs := httperr.FieldErrors{}
	if in.Amount != s.Fee {
		errs.Add("amount", "Invalid subscription amount")
	}
	proof := strings.TrimSpace(in.PaymentProof)
	if proof == "" {
		errs.Add("paymentProof", "Payment proof is required")
	}
	if len(errs) > 0 {
		return nil, httperr.Validation(errs)
	}

	latest, err := s.Latest(s.DB, userID)
	if err != nil {
		return nil, err
	}
	if latest != nil && latest.Status == models.SubscriptionPending {
		return nil, httperr.Conflict("A subscription request is already pending")
	}

	sub := models.Subscription{
		UserID:       userID,
		Status:       models.SubscriptionPending,
		Amount:       in.Amount,
		PaymentProof: proof,
	}
	if err := s.DB.Create(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// Latest returns the newest subscription for the user, or nil if there is none.
// tx lets callers run it inside their own transaction.
func (s *Service) Latest(tx *gorm.DB, userID uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	err := tx.Where("user_id = ?", userID).Order("created_at DESC").First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// IsActive is the bidding gate.
func (s *Service) IsActive(tx *gorm.DB, userID uuid.UUID) (bool, error) {
	sub, err := s.Latest(tx, userID)
	if err != nil || sub == nil {
		return false, err
	}
	return sub.ActiveAt(s.Now()), nil
}

func (s *Service) Pending() ([]models.Subscription, error) {
	var subs []models.Subscription
	err := s.DB.Preload("User").
		Where("status = ?", models.SubscriptionPending).
		Order("created_at ASC").
		Find(&subs).Error
	return subs, err
}

func (s *Service) Verify(adminID, id uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockSubscription(tx, id, &sub); err != nil {
			return err
		}
		if sub.Status != models.SubscriptionPending {
			return httperr.Conflict("Only pending subscriptions can be verified")
		}

		now := s.Now()
		end := now.AddDate(0, 0, s.Days)
		sub.Status = models.SubscriptionActive
		sub.StartDate = &now
		sub.EndDate = &end
		return tx.Save(&sub).Error
	})
	if err != nil {
		return nil, err
	}

	s.Audit.Dispatch(audit.Event{
		ActorID:  audit.Ref(adminID),
		Action:   audit.ActionSubscriptionVerify,
		Entity:   "subscription",
		EntityID: audit.Ref(sub.ID),
		Metadata: map[string]any{"user_id": sub.UserID, "end_date": sub.EndDate},
	})
	return &sub, nil
}

func (s *Service) Reject(adminID, id uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockSubscription(tx, id, &sub); err != nil {
			return err
		}
		if sub.Status == models.SubscriptionExpired {
			return httperr.Conflict("Subscription is already expired")
		}

		sub.Status = models.SubscriptionExpired
		sub.StartDate = nil
		sub.EndDate = nil
		return tx.Save(&sub).Error
	})
	if err != nil {
		return nil, err
	}

	s.Audit.Dispatch(audit.Event{
		ActorID:  audit.Ref(adminID),
		Action:   audit.ActionSubscriptionReject,
		Entity:   "subscription",
		EntityID: audit.Ref(sub.ID),
		Metadata: map[string]any{"user_id": sub.UserID},
	})
	return &sub, nil
}

// ExpireDue flips active subscriptions whose window has closed.
func (s *Service) ExpireDue() (int64, error) {
	res := s.DB.Model(&models.Subscription{}).
		Where("status = ? AND end_date IS NOT NULL AND end_date <= ?", models.SubscriptionActive, s.Now()).
		Update("status", models.SubscriptionExpired)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		s.Audit.Dispatch(audit.Event{
			Action:   audit.ActionSubscriptionExpire,
			Entity:   "subscription",
			Metadata: map[string]any{"count": res.RowsAffected},
		})
	}
	return res.RowsAffected, nil
}

// StartExpiryWorker runs ExpireDue on every tick until ctx is cancelled.
func (s *Service) StartExpiryWorker(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := s.ExpireDue()
				if err != nil {
					log.Printf("[SubscriptionExpiryWorker] Error expiring subscriptions: %v", err)
					continue
				}
				if n > 0 {
					log.Printf("[SubscriptionExpiryWorker] Expired %d subscriptions", n)
				}
			}
		}
	}()
}
