package domain

import "time"

// GenerateSlots produces the candidate slots for one date from the weekly
// schedule. Pure function of its inputs: given the same config, date and
// modality the output is identical. Candidates are provisional — every slot
// comes back available with no block reason; exclusion rules are applied by
// ResolveAvailability.
func GenerateSlots(cfg *ScheduleConfig, date time.Time, modality Modality) []TimeSlot {
	day := cfg.Weekly.ForDate(date)
	if day == nil {
		return []TimeSlot{}
	}

	step := cfg.Policy.StepMinutes
	duration := cfg.Policy.SessionDurationMinutes
	if step <= 0 {
		step = DefaultStepMinutes
	}
	if duration <= 0 {
		duration = DefaultSessionDurationMinutes
	}

	price := cfg.PriceFor(modality)

	slots := make([]TimeSlot, 0)
	for t := day.StartMinute; t < day.EndMinute; t += step {
		// The session must end before closing time.
		if t+duration > day.EndMinute {
			break
		}

		// Skip candidates whose interval intersects the lunch window.
		if day.HasLunch() && Overlaps(t, t+duration, *day.LunchStartMinute, *day.LunchEndMinute) {
			continue
		}

		slots = append(slots, TimeSlot{
			Date:            DateOnly(date),
			StartMinute:     t,
			DurationMinutes: duration,
			Modality:        modality,
			Price:           price,
			IsAvailable:     true,
		})
	}

	return slots
}
