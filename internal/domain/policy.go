package domain

import (
	"fmt"
	"time"
)

// CancellationPolicy carries the booking policy constraints for a provider.
// Cancellation and rescheduling windows are independent values; deployments
// wanting a single shared window configure both to the same number.
type CancellationPolicy struct {
	CancellationHours      int
	ReschedulingHours      int
	AdvanceBookingDays     int // 0 = unlimited
	BufferMinutes          int
	StepMinutes            int
	SessionDurationMinutes int
}

// DefaultPolicy returns the policy applied when a provider has none stored.
func DefaultPolicy() CancellationPolicy {
	return CancellationPolicy{
		CancellationHours:      DefaultCancellationHours,
		ReschedulingHours:      DefaultReschedulingHours,
		AdvanceBookingDays:     DefaultAdvanceBookingDays,
		BufferMinutes:          DefaultBufferMinutes,
		StepMinutes:            DefaultStepMinutes,
		SessionDurationMinutes: DefaultSessionDurationMinutes,
	}
}

// Validate checks the policy bounds.
func (p *CancellationPolicy) Validate() error {
	if p.StepMinutes < MinStepMinutes || p.StepMinutes > MaxStepMinutes {
		return fmt.Errorf("%w: stepMinutes must be in [%d, %d]", ErrInvalidPolicy, MinStepMinutes, MaxStepMinutes)
	}
	if p.SessionDurationMinutes < MinSessionDurationMinutes || p.SessionDurationMinutes > MaxSessionDurationMinutes {
		return fmt.Errorf("%w: sessionDurationMinutes must be in [%d, %d]",
			ErrInvalidPolicy, MinSessionDurationMinutes, MaxSessionDurationMinutes)
	}
	if p.BufferMinutes < MinBufferMinutes || p.BufferMinutes > MaxBufferMinutes {
		return fmt.Errorf("%w: bufferMinutes must be in [%d, %d]", ErrInvalidPolicy, MinBufferMinutes, MaxBufferMinutes)
	}
	if p.AdvanceBookingDays < MinAdvanceBookingDays || p.AdvanceBookingDays > MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be in [%d, %d]",
			ErrInvalidPolicy, MinAdvanceBookingDays, MaxAdvanceBookingDays)
	}
	if p.CancellationHours < 0 || p.ReschedulingHours < 0 {
		return fmt.Errorf("%w: policy windows must not be negative", ErrInvalidPolicy)
	}
	return nil
}

// ValidateCancellation checks that the appointment may still be cancelled
// without violating the cancellation window. Pure and side-effect-free; the
// caller acts on the result.
func ValidateCancellation(appointment *Appointment, now time.Time, policy CancellationPolicy) error {
	return validateWindow("cancellation", appointment, now, policy.CancellationHours)
}

// ValidateReschedule checks the rescheduling window the same way.
func ValidateReschedule(appointment *Appointment, now time.Time, policy CancellationPolicy) error {
	return validateWindow("rescheduling", appointment, now, policy.ReschedulingHours)
}

func validateWindow(name string, appointment *Appointment, now time.Time, requiredHours int) error {
	hoursUntil := appointment.StartAt().Sub(now).Hours()

	if hoursUntil < float64(requiredHours) {
		return &PolicyViolationError{
			Policy:        name,
			RequiredHours: requiredHours,
			ActualHours:   hoursUntil,
		}
	}

	return nil
}
