package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSchedule is returned when a schedule violates its invariants.
	ErrInvalidSchedule = errors.New("domain: invalid schedule")

	// ErrInvalidPolicy is returned when a booking policy violates its bounds.
	ErrInvalidPolicy = errors.New("domain: invalid booking policy")
)

// SlotUnavailableError is returned when a caller picks a slot the resolver
// marked unavailable. The reason names the rule that fired.
type SlotUnavailableError struct {
	Reason BlockReason
}

func (e *SlotUnavailableError) Error() string {
	return fmt.Sprintf("slot is not available: %s", e.Reason)
}

// ConflictError is returned by the atomic reservation step when the selected
// slot overlaps an appointment committed by a concurrent session.
type ConflictError struct {
	ExistingAppointmentID int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("slot conflicts with appointment id=%d", e.ExistingAppointmentID)
}

// PolicyViolationError is returned when a cancellation or reschedule request
// falls inside the policy window. Terminal for the request, not retryable.
type PolicyViolationError struct {
	Policy        string // "cancellation" or "rescheduling"
	RequiredHours int
	ActualHours   float64
}

func (e *PolicyViolationError) Error() string {
	return fmt.Sprintf("%s requires %d hours notice, %.1f left", e.Policy, e.RequiredHours, e.ActualHours)
}

// FieldError is a user-correctable validation failure scoped to one form
// field. Violations are collected, never returned one at a time.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
