package marketplace

import (
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/domain/listing"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/httperr"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/models"
)

// Channel is the owner/repairman pair that may talk about a listing.
// RepairmanID is uuid.Nil until a bid is accepted.
type Channel struct {
	Listing     models.Listing
	OwnerID     uuid.UUID
	RepairmanID uuid.UUID
}

func (c *Channel) Member(userID uuid.UUID) bool {
	if userID == uuid.Nil {
		return false
	}
	return userID == c.OwnerID || userID == c.RepairmanID
}

// Counterpart returns the other side for a sender, once chat is open.
func (c *Channel) Counterpart(senderID uuid.UUID) (uuid.UUID, error) {
	if err := listing.CanChat(c.Listing.Status); err != nil {
		return uuid.Nil, err
	}
	switch {
	case c.RepairmanID == uuid.Nil:
		return uuid.Nil, httperr.Conflict("Listing has no accepted bid")
	case senderID == c.OwnerID:
		return c.RepairmanID, nil
	case senderID == c.RepairmanID:
		return c.OwnerID, nil
	}
	return uuid.Nil, httperr.Forbidden("You are not part of this conversation")
}

func (s *Service) Channel(listingID uuid.UUID) (*Channel, error) {
	var l models.Listing
	if err := findListing(s.DB, listingID, &l); err != nil {
		return nil, err
	}

	ch := &Channel{Listing: l, OwnerID: l.UserID}
	accepted, err := acceptedBid(s.DB, listingID)
	if err != nil {
		return nil, err
	}
	if accepted != nil {
		ch.RepairmanID = accepted.RepairmanID
	}
	return ch, nil
}
