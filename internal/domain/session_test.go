package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingSessionCanConfirm(t *testing.T) {
	cases := []struct {
		state SessionState
		want  bool
	}{
		{StateSelectingDate, false},
		{StateSelectingSlot, false},
		{StateEnteringPatientData, false},
		{StateReviewingConfirmation, true},
		// retransmissions resolve to the persisted appointment
		{StateSubmitting, true},
		{StateConfirmed, true},
		// retry after a lost slot, same idempotency key
		{StateFailed, true},
	}

	for _, tc := range cases {
		t.Run(string(tc.state), func(t *testing.T) {
			s := &BookingSession{State: tc.state}
			assert.Equal(t, tc.want, s.CanConfirm())
		})
	}
}

func TestBookingSessionIsTerminal(t *testing.T) {
	assert.True(t, (&BookingSession{State: StateConfirmed}).IsTerminal())
	assert.False(t, (&BookingSession{State: StateFailed}).IsTerminal())
	assert.False(t, (&BookingSession{State: StateSubmitting}).IsTerminal())
}
