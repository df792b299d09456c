package domain

import "time"

// BlockReason names the first exclusion rule that made a slot unavailable.
type BlockReason string

const (
	ReasonDateBlocked   BlockReason = "date_blocked"
	ReasonTimeBlocked   BlockReason = "time_blocked"
	ReasonPast          BlockReason = "past"
	ReasonBeyondHorizon BlockReason = "beyond_booking_horizon"
	ReasonConflict      BlockReason = "conflict"
)

// TimeSlot is a candidate or resolved bookable interval on a given date.
// Slots are created fresh per query and never mutated after creation; the
// resolver replaces them instead of patching.
type TimeSlot struct {
	Date            time.Time
	StartMinute     int
	DurationMinutes int
	Modality        Modality
	Price           float64
	IsAvailable     bool
	BlockReason     *BlockReason
}

// EndMinute returns the minute-of-day offset at which the slot ends.
func (s *TimeSlot) EndMinute() int {
	return s.StartMinute + s.DurationMinutes
}

// StartAt returns the wall-clock start of the slot.
func (s *TimeSlot) StartAt() time.Time {
	return DateOnly(s.Date).Add(time.Duration(s.StartMinute) * time.Minute)
}

// blocked returns a copy of the slot marked unavailable with the reason.
func (s TimeSlot) blocked(reason BlockReason) TimeSlot {
	s.IsAvailable = false
	s.BlockReason = &reason
	return s
}
