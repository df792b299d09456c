package domain

// Default policy values applied when a provider has no stored policy.
const (
	DefaultStepMinutes            = 30
	DefaultSessionDurationMinutes = 50
	DefaultBufferMinutes          = 10
	DefaultCancellationHours      = 24
	DefaultReschedulingHours      = 12
	DefaultAdvanceBookingDays     = 30 // 0 = unlimited
)

// Business validation constants
const (
	MinStepMinutes            = 5
	MaxStepMinutes            = 240
	MinSessionDurationMinutes = 10
	MaxSessionDurationMinutes = 480
	MinBufferMinutes          = 0
	MaxBufferMinutes          = 120
	MinAdvanceBookingDays     = 0
	MaxAdvanceBookingDays     = 365

	MinPatientNameLength = 2
	MaxPatientNameLength = 100
	MaxNotesLength       = 500
	MaxPatientAgeYears   = 120
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses lists appointment statuses that do not occupy a slot.
// Used when counting conflicts against candidate slots.
var InactiveStatuses = []AppointmentStatus{
	StatusCancelledByPatient,
	StatusCancelledByProvider,
	StatusNoShow,
}

// ActiveStatuses lists appointment statuses that occupy a slot.
var ActiveStatuses = []AppointmentStatus{
	StatusConfirmed,
	StatusCompleted,
}
