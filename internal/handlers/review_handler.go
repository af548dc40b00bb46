package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/models"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/services/marketplace"
)

type ReviewHandler struct {
	Market *marketplace.Service
}

func NewReviewHandler(market *marketplace.Service) *ReviewHandler {
	return &ReviewHandler{Market: market}
}

func (h *ReviewHandler) CreateReview(c *fiber.Ctx) error {
	uid, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	listingID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var req marketplace.CreateReviewInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	r, err := h.Market.CreateReview(uid, listingID, req)
	if err != nil {
		return err
	}
	return created(c, "Review submitted", r)
}

// RepairmanReviews handles GET /api/repairmen/:id/reviews
func (h *ReviewHandler) RepairmanReviews(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	reviews, err := h.Market.RepairmanReviews(id)
	if err != nil {
		return err
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return ok(c, reviews)
}
