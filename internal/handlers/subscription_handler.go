package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/models"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/services/subscription"
)

type SubscriptionHandler struct {
	Subs *subscription.Service
}

func NewSubscriptionHandler(subs *subscription.Service) *SubscriptionHandler {
	return &SubscriptionHandler{Subs: subs}
}

type SubscriptionResponse struct {
	ID           string                    `json:"id"`
	UserID       string                    `json:"user_id"`
	Username     string                    `json:"username,omitempty"`
	Status       models.SubscriptionStatus `json:"status"`
	Amount       int64                     `json:"amount"`
	PaymentProof string                    `json:"payment_proof"`
	StartDate    *time.Time                `json:"start_date"`
	EndDate      *time.Time                `json:"end_date"`
	CreatedAt    time.Time                 `json:"created_at"`
}

func toSubscriptionResponse(s *models.Subscription) SubscriptionResponse {
	resp := SubscriptionResponse{
		ID:           s.ID.String(),
		UserID:       s.UserID.String(),
		Status:       s.Status,
		Amount:       s.Amount,
		PaymentProof: s.PaymentProof,
		StartDate:    s.StartDate,
		EndDate:      s.EndDate,
		CreatedAt:    s.CreatedAt,
	}
	if s.User != nil {
		resp.Username = s.User.Username
	}
	return resp
}

func (h *SubscriptionHandler) Create(c *fiber.Ctx) error {
	uid, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req subscription.CreateInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	sub, err := h.Subs.Create(uid, req)
	if err != nil {
		return err
	}
	return created(c, "Subscription request submitted", toSubscriptionResponse(sub))
}

// Latest returns the caller's newest subscription, or null.
func (h *SubscriptionHandler) Latest(c *fiber.Ctx) error {
	uid, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	sub, err := h.Subs.Latest(h.Subs.DB, uid)
	if err != nil {
		return err
	}
	if sub == nil {
		return ok(c, nil)
	}

	resp := toSubscriptionResponse(sub)
	return c.JSON(fiber.Map{
		"success": true,
		"data":    resp,
		"active":  sub.ActiveAt(h.Subs.Now()),
	})
}
