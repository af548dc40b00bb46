package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/httperr"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/models"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/services/audit"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/services/marketplace"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/services/subscription"
)

type AdminHandler struct {
	DB     *gorm.DB
	Market *marketplace.Service
	Subs   *subscription.Service
	Audit  *audit.Dispatcher
	Logs   *audit.Logger
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := h.DB.Order("created_at ASC").Find(&users).Error; err != nil {
		return err
	}

	out := make([]fiber.Map, 0, len(users))
	for i := range users {
		out = append(out, userResponse(&users[i]))
	}
	return ok(c, out)
}

// ToggleBlock flips is_blocked. Admins cannot block themselves.
func (h *AdminHandler) ToggleBlock(c *fiber.Ctx) error {
	adminID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	if id == adminID {
		return httperr.BadRequest("You cannot block yourself")
	}

	var u models.User
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&u, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httperr.NotFound("User not found")
			}
			return err
		}
		u.IsBlocked = !u.IsBlocked
		return tx.Model(&u).Update("is_blocked", u.IsBlocked).Error
	})
	if err != nil {
		return err
	}

	h.Audit.Dispatch(audit.Event{
		ActorID:  audit.Ref(adminID),
		Action:   audit.ActionUserToggleBlock,
		Entity:   "user",
		EntityID: audit.Ref(u.ID),
		Metadata: map[string]any{"is_blocked": u.IsBlocked},
	})
	return ok(c, userResponse(&u))
}

func (h *AdminHandler) DeleteListing(c *fiber.Ctx) error {
	adminID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.Market.DeleteListing(adminID, id, true); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Listing deleted"})
}

func (h *AdminHandler) PendingSubscriptions(c *fiber.Ctx) error {
	subs, err := h.Subs.Pending()
	if err != nil {
		return err
	}

	out := make([]SubscriptionResponse, 0, len(subs))
	for i := range subs {
		out = append(out, toSubscriptionResponse(&subs[i]))
	}
	return ok(c, out)
}

func (h *AdminHandler) VerifySubscription(c *fiber.Ctx) error {
	adminID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	sub, err := h.Subs.Verify(adminID, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Subscription verified", "data": toSubscriptionResponse(sub)})
}

func (h *AdminHandler) RejectSubscription(c *fiber.Ctx) error {
	adminID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	sub, err := h.Subs.Reject(adminID, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Subscription rejected", "data": toSubscriptionResponse(sub)})
}

func (h *AdminHandler) AuditLogs(c *fiber.Ctx) error {
	logs, err := h.Logs.Recent(c.QueryInt("limit", 100))
	if err != nil {
		return err
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}
	return ok(c, logs)
}
