package domain

import "time"

// ResolveAvailability applies the exclusion rules to candidate slots and
// returns fresh slots carrying the final availability flags. Rules fire in
// fixed precedence; the first match determines the block reason:
//
//  1. the whole date is blocked
//  2. the exact slot time is blocked
//  3. the slot start is in the past
//  4. the slot date lies beyond the advance booking horizon
//  5. the slot overlaps (buffer-expanded) an existing appointment
//
// Pure function of (slots, cfg, appointments, now); no hidden state.
func ResolveAvailability(slots []TimeSlot, cfg *ScheduleConfig, appointments []*Appointment, now time.Time) []TimeSlot {
	resolved := make([]TimeSlot, 0, len(slots))

	for _, slot := range slots {
		resolved = append(resolved, resolveSlot(slot, cfg, appointments, now))
	}

	return resolved
}

func resolveSlot(slot TimeSlot, cfg *ScheduleConfig, appointments []*Appointment, now time.Time) TimeSlot {
	if cfg.IsDateBlocked(slot.Date) {
		return slot.blocked(ReasonDateBlocked)
	}

	if cfg.IsTimeBlocked(slot.Date, slot.StartMinute) {
		return slot.blocked(ReasonTimeBlocked)
	}

	if slot.StartAt().Before(now) {
		return slot.blocked(ReasonPast)
	}

	if beyondHorizon(slot.Date, now, cfg.Policy.AdvanceBookingDays) {
		return slot.blocked(ReasonBeyondHorizon)
	}

	if FirstConflict(&slot, appointments, cfg.Policy.BufferMinutes) != nil {
		return slot.blocked(ReasonConflict)
	}

	slot.IsAvailable = true
	slot.BlockReason = nil
	return slot
}

// beyondHorizon reports whether the date lies more than advanceBookingDays
// past today. advanceBookingDays == 0 means no limit.
func beyondHorizon(date time.Time, now time.Time, advanceBookingDays int) bool {
	if advanceBookingDays == 0 {
		return false
	}

	maxDate := DateOnly(now).AddDate(0, 0, advanceBookingDays)
	return DateOnly(date).After(maxDate)
}

// HasAvailableSlots is the day-level flag deciding whether a calendar date
// is selectable at all: logical OR over slot availability.
func HasAvailableSlots(slots []TimeSlot) bool {
	for i := range slots {
		if slots[i].IsAvailable {
			return true
		}
	}
	return false
}
