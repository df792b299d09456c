package domain

import "time"

// SessionState is a state of the booking workflow.
type SessionState string

const (
	StateSelectingDate          SessionState = "selecting_date"
	StateSelectingSlot          SessionState = "selecting_slot"
	StateEnteringPatientData    SessionState = "entering_patient_data"
	StateReviewingConfirmation  SessionState = "reviewing_confirmation"
	StateSubmitting             SessionState = "submitting"
	StateConfirmed              SessionState = "confirmed"
	StateFailed                 SessionState = "failed"
)

// BookingSession is the explicit workflow value passed through every call.
// The state machine over it is the single source of truth for legal
// transitions; no booking progress lives anywhere else.
type BookingSession struct {
	ID             string       `json:"id"`
	ProviderID     int64        `json:"providerId"`
	State          SessionState `json:"state"`
	SelectedDate   *time.Time   `json:"selectedDate,omitempty"`
	SelectedSlot   *TimeSlot    `json:"selectedSlot,omitempty"`
	PatientForm    *PatientForm `json:"patientForm,omitempty"`
	IdempotencyKey string       `json:"idempotencyKey"`

	// Set on terminal transitions.
	AppointmentID *int64  `json:"appointmentId,omitempty"`
	FailureReason *string `json:"failureReason,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsTerminal reports whether the session reached a terminal state.
func (s *BookingSession) IsTerminal() bool {
	return s.State == StateConfirmed
}

// CanConfirm reports whether a confirm call is legal: first attempt from
// review, a retry after a failed reservation, or a retransmission after
// success. Retransmissions carry the same idempotency key and resolve to
// the already persisted appointment instead of a new reservation.
func (s *BookingSession) CanConfirm() bool {
	switch s.State {
	case StateReviewingConfirmation, StateFailed, StateSubmitting, StateConfirmed:
		return true
	}
	return false
}
