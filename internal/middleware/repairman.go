package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/httperr"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/models"
)

// RequireRepairman checks the stored repairman flag rather than the token
// role, so an admin who is also a repairman keeps repairman access.
// Must run after AttachJWTLocals.
func RequireRepairman(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid, err := UserID(c)
		if err != nil {
			return err
		}

		var u models.User
		if err := db.Select("id", "is_repairman").First(&u, "id = ?", uid).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httperr.Unauthorized("Not authenticated")
			}
			return err
		}
		if !u.IsRepairman {
			return httperr.Forbidden("Forbidden: repairman only")
		}
		return c.Next()
	}
}
