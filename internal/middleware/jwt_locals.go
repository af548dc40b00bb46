package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/httperr"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/utils"
)

// AttachJWTLocals copies the session identity into c.Locals("userId") as a
// uuid.UUID and c.Locals("role") as a lowercase string.
func AttachJWTLocals() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := c.Locals("user").(*jwt.Token)
		if !ok || token == nil {
			return httperr.Unauthorized("Not authenticated")
		}

		claims, ok := token.Claims.(*utils.Claims)
		if !ok {
			return httperr.Unauthorized("Not authenticated")
		}

		uid, err := uuid.Parse(strings.TrimSpace(claims.UserID))
		if err != nil {
			return httperr.Unauthorized("Not authenticated")
		}

		c.Locals("userId", uid)
		c.Locals("role", strings.ToLower(strings.TrimSpace(claims.Role)))

		return c.Next()
	}
}

// UserID returns the identity set by AttachJWTLocals.
func UserID(c *fiber.Ctx) (uuid.UUID, error) {
	uid, ok := c.Locals("userId").(uuid.UUID)
	if !ok || uid == uuid.Nil {
		return uuid.Nil, httperr.Unauthorized("Not authenticated")
	}
	return uid, nil
}

func Role(c *fiber.Ctx) string {
	role, _ := c.Locals("role").(string)
	return role
}
