package subscription

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/httperr"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/models"
)

func lockSubscription(tx *gorm.DB, id uuid.UUID, sub *models.Subscription) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(sub, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.NotFound("Subscription not found")
	}
	return err
}
