package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/services/marketplace"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/services/subscription"
)

type RepairmanDashboardHandler struct {
	Market *marketplace.Service
	Subs   *subscription.Service
}

func NewRepairmanDashboardHandler(market *marketplace.Service, subs *subscription.Service) *RepairmanDashboardHandler {
	return &RepairmanDashboardHandler{Market: market, Subs: subs}
}

// GetDashboardStats returns summary for the dashboard
func (h *RepairmanDashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	uid, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	stats, err := h.Market.RepairmanStats(uid)
	if err != nil {
		return err
	}
	active, err := h.Subs.IsActive(h.Subs.DB, uid)
	if err != nil {
		return err
	}

	log.Printf("[DashboardStats] UserID: %s | ActiveJobs: %d | PendingBids: %d", uid, stats.ActiveJobs, stats.PendingBids)

	return ok(c, fiber.Map{
		"pending_bids":        stats.PendingBids,
		"active_jobs":         stats.ActiveJobs,
		"completed_jobs":      stats.CompletedJobs,
		"review_count":        stats.ReviewCount,
		"average_rating":      stats.AverageRating,
		"subscription_active": active,
	})
}
