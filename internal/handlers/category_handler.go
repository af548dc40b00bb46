package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/services/marketplace"
)

type CategoryHandler struct {
	Market *marketplace.Service
}

func NewCategoryHandler(market *marketplace.Service) *CategoryHandler {
	return &CategoryHandler{Market: market}
}

func (h *CategoryHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.Market.Categories()
	if err != nil {
		return err
	}
	if categories == nil {
		categories = []string{}
	}
	return ok(c, categories)
}
