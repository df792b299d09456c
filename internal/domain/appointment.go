package domain

import "time"

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusConfirmed           AppointmentStatus = "confirmed"
	StatusCompleted           AppointmentStatus = "completed"
	StatusCancelledByPatient  AppointmentStatus = "cancelled_by_patient"
	StatusCancelledByProvider AppointmentStatus = "cancelled_by_provider"
	StatusNoShow              AppointmentStatus = "no_show"
)

// Appointment represents a persisted session reservation. Immutable once
// persisted; owned by the storage layer.
type Appointment struct {
	ID              int64
	ProviderID      int64
	PatientID       int64
	Date            time.Time
	StartMinute     int
	DurationMinutes int
	Modality        Modality
	Price           float64
	Status          AppointmentStatus
	IdempotencyKey  string

	Notes          *string
	PaymentLinkURL *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment still occupies its slot.
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelledByPatient &&
		a.Status != StatusCancelledByProvider &&
		a.Status != StatusNoShow
}

// IsCancelled returns true if the appointment has been cancelled.
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelledByPatient || a.Status == StatusCancelledByProvider
}

// CanBeCancelled returns true if the appointment may still be cancelled.
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusConfirmed
}

// CanBeRescheduled returns true if the appointment may still be moved.
func (a *Appointment) CanBeRescheduled() bool {
	return a.Status == StatusConfirmed
}

// StartAt returns the wall-clock start of the appointment.
func (a *Appointment) StartAt() time.Time {
	return DateOnly(a.Date).Add(time.Duration(a.StartMinute) * time.Minute)
}

// EndMinute returns the minute-of-day offset at which the appointment ends.
func (a *Appointment) EndMinute() int {
	return a.StartMinute + a.DurationMinutes
}
