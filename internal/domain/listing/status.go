package listing

import "github.com/Windi-Fikriyansyah/easyrepair_be/internal/httperr"

// Listing lifecycle: open -> in_progress -> completed. There is no way back.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

type BidStatus string

const (
	BidPending  BidStatus = "pending"
	BidAccepted BidStatus = "accepted"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// CanBid: bids are only taken while the listing is open.
func CanBid(current Status) error {
	if current != StatusOpen {
		return httperr.Conflict("Listing is not open for bids")
	}
	return nil
}

// CanAccept checks both sides of the acceptance transition.
func CanAccept(current Status, bid BidStatus) error {
	if current != StatusOpen {
		return httperr.Conflict("Listing is not open")
	}
	if bid != BidPending {
		return httperr.Conflict("Bid is not pending")
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusInProgress {
		return httperr.Conflict("Listing is not in progress")
	}
	return nil
}

func CanReview(current Status) error {
	if current != StatusCompleted {
		return httperr.Conflict("Listing is not completed yet")
	}
	return nil
}

// CanChat: the channel opens once a bid is accepted and stays readable after completion.
func CanChat(current Status) error {
	if current == StatusOpen {
		return httperr.Forbidden("Chat is available after a bid is accepted")
	}
	if !current.Valid() {
		return httperr.Conflict("Unknown listing status")
	}
	return nil
}
