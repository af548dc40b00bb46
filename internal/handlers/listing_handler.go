package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/models"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/services/marketplace"
)

type ListingHandler struct {
	Market *marketplace.Service
}

func NewListingHandler(market *marketplace.Service) *ListingHandler {
	return &ListingHandler{Market: market}
}

func listingsOrEmpty(in []models.Listing) []models.Listing {
	if in == nil {
		return []models.Listing{}
	}
	return in
}

// GetListings handles GET /api/listings?category=
func (h *ListingHandler) GetListings(c *fiber.Ctx) error {
	listings, err := h.Market.ListListings(c.Query("category"))
	if err != nil {
		return err
	}
	return ok(c, listingsOrEmpty(listings))
}

// GetByCategory handles GET /api/listings/category/:category
func (h *ListingHandler) GetByCategory(c *fiber.Ctx) error {
	listings, err := h.Market.ListListings(c.Params("category"))
	if err != nil {
		return err
	}
	return ok(c, listingsOrEmpty(listings))
}

func (h *ListingHandler) GetListing(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	l, err := h.Market.GetListing(id)
	if err != nil {
		return err
	}
	return ok(c, l)
}

func (h *ListingHandler) CreateListing(c *fiber.Ctx) error {
	uid, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req marketplace.CreateListingInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	l, err := h.Market.CreateListing(uid, req)
	if err != nil {
		return err
	}
	return created(c, "Listing created", l)
}

// DeleteListing is the owner route; admins use AdminHandler.DeleteListing.
func (h *ListingHandler) DeleteListing(c *fiber.Ctx) error {
	uid, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.Market.DeleteListing(uid, id, false); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Listing deleted"})
}

func (h *ListingHandler) Complete(c *fiber.Ctx) error {
	uid, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	l, err := h.Market.Complete(uid, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Listing completed", "data": l})
}
