package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/domain/listing"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/models"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/services/marketplace"
)

type BidHandler struct {
	Market *marketplace.Service
}

func NewBidHandler(market *marketplace.Service) *BidHandler {
	return &BidHandler{Market: market}
}

type BidResponse struct {
	ID            string            `json:"id"`
	ListingID     string            `json:"listing_id"`
	RepairmanID   string            `json:"repairman_id"`
	RepairmanName string            `json:"repairman_name,omitempty"`
	Amount        int64             `json:"amount"`
	Comment       string            `json:"comment"`
	Status        listing.BidStatus `json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
	Listing       *models.Listing   `json:"listing,omitempty"`
}

func toBidResponse(b *models.Bid) BidResponse {
	resp := BidResponse{
		ID:          b.ID.String(),
		ListingID:   b.ListingID.String(),
		RepairmanID: b.RepairmanID.String(),
		Amount:      b.Amount,
		Comment:     b.Comment,
		Status:      b.Status,
		CreatedAt:   b.CreatedAt,
		Listing:     b.Listing,
	}
	if b.Repairman != nil {
		resp.RepairmanName = b.Repairman.Username
	}
	return resp
}

func toBidResponses(bids []models.Bid) []BidResponse {
	out := make([]BidResponse, 0, len(bids))
	for i := range bids {
		out = append(out, toBidResponse(&bids[i]))
	}
	return out
}

func (h *BidHandler) CreateBid(c *fiber.Ctx) error {
	uid, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	listingID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}

	var req marketplace.CreateBidInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	b, err := h.Market.CreateBid(uid, listingID, req)
	if err != nil {
		return err
	}
	return created(c, "Bid placed", toBidResponse(b))
}

func (h *BidHandler) ListBids(c *fiber.Ctx) error {
	listingID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	bids, err := h.Market.ListBids(listingID)
	if err != nil {
		return err
	}
	return ok(c, toBidResponses(bids))
}

// MyBids handles GET /api/bids/repairman
func (h *BidHandler) MyBids(c *fiber.Ctx) error {
	uid, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	bids, err := h.Market.RepairmanBids(uid)
	if err != nil {
		return err
	}
	return ok(c, toBidResponses(bids))
}

// AcceptBid handles POST /api/listings/:id/accept-bid/:bidId
func (h *BidHandler) AcceptBid(c *fiber.Ctx) error {
	uid, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	listingID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	bidID, err := paramUUID(c, "bidId")
	if err != nil {
		return err
	}

	l, b, err := h.Market.AcceptBid(uid, listingID, bidID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Bid accepted",
		"data": fiber.Map{
			"listing": l,
			"bid":     toBidResponse(b),
		},
	})
}
