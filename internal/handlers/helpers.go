package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/httperr"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/models"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/utils"
)

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(name)))
	if err != nil {
		return uuid.Nil, httperr.BadRequest("Invalid " + name)
	}
	return id, nil
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return httperr.BadRequest("Invalid body")
	}
	return nil
}

func isAdmin(c *fiber.Ctx) bool {
	return middleware.Role(c) == string(models.RoleAdmin)
}

func ok(c *fiber.Ctx, data interface{}) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

func created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func userResponse(u *models.User) fiber.Map {
	return fiber.Map{
		"id":           u.ID,
		"username":     u.Username,
		"role":         u.Role(),
		"is_repairman": u.IsRepairman,
		"is_admin":     u.IsAdmin,
		"is_blocked":   u.IsBlocked,
		"created_at":   u.CreatedAt,
	}
}

// Session issues and clears the auth cookie.
type Session struct {
	JWTSecret string
	Expires   int
	Secure    bool
}

func (s Session) Issue(c *fiber.Ctx, u *models.User) error {
	token, err := utils.SignJWT(s.JWTSecret, u.ID.String(), string(u.Role()), s.Expires)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     utils.CookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   s.Secure,
		SameSite: "Lax",
		MaxAge:   s.Expires * 60,
	})
	return nil
}

func (s Session) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     utils.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   s.Secure,
		SameSite: "Lax",
	})
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate entry")
}
