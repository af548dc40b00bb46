package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/httperr"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/utils"
)

func JWTFromCookie(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := c.Cookies(utils.CookieName)
		if tokenStr == "" {
			return httperr.Unauthorized("Not authenticated")
		}

		token, err := utils.ParseJWT(secret, tokenStr)
		if err != nil {
			return httperr.Unauthorized("Not authenticated")
		}

		c.Locals("user", token)
		return c.Next()
	}
}
