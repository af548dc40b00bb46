package listing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/httperr"
)

func TestTransitions(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"bid on open", CanBid(StatusOpen), 0},
		{"bid on in_progress", CanBid(StatusInProgress), 409},
		{"accept pending on open", CanAccept(StatusOpen, BidPending), 0},
		{"accept on in_progress", CanAccept(StatusInProgress, BidPending), 409},
		{"accept already accepted", CanAccept(StatusOpen, BidAccepted), 409},
		{"complete in_progress", CanComplete(StatusInProgress), 0},
		{"complete open", CanComplete(StatusOpen), 409},
		{"complete twice", CanComplete(StatusCompleted), 409},
		{"review completed", CanReview(StatusCompleted), 0},
		{"review in_progress", CanReview(StatusInProgress), 409},
		{"chat open", CanChat(StatusOpen), 403},
		{"chat in_progress", CanChat(StatusInProgress), 0},
		{"chat completed", CanChat(StatusCompleted), 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.status == 0 {
				require.NoError(t, tc.err)
				return
			}
			require.Error(t, tc.err)
			require.Equal(t, tc.status, httperr.StatusOf(tc.err))
		})
	}
}
