package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/httperr"
)

// RequireRoles must run after AttachJWTLocals.
func RequireRoles(allowed ...string) fiber.Handler {
	allowedSet := map[string]bool{}
	for _, r := range allowed {
		allowedSet[strings.ToLower(r)] = true
	}

	return func(c *fiber.Ctx) error {
		role := Role(c)
		if role == "" {
			return httperr.Unauthorized("Not authenticated")
		}
		if !allowedSet[role] {
			return httperr.Forbidden("Forbidden: insufficient role")
		}
		return c.Next()
	}
}
