package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Modality is how a session is delivered.
type Modality string

const (
	ModalityOnline   Modality = "online"
	ModalityInPerson Modality = "in_person"
)

// Valid reports whether the modality is one of the known values.
func (m Modality) Valid() bool {
	return m == ModalityOnline || m == ModalityInPerson
}

// DaySchedule describes the working hours of a single weekday as
// minute-of-day offsets. An optional lunch window is excluded from slot
// generation. Invariant: StartMinute < EndMinute; when lunch is present,
// StartMinute <= LunchStartMinute < LunchEndMinute <= EndMinute.
type DaySchedule struct {
	StartMinute      int
	EndMinute        int
	LunchStartMinute *int
	LunchEndMinute   *int
}

// HasLunch reports whether the day carries a lunch exclusion window.
func (d *DaySchedule) HasLunch() bool {
	return d.LunchStartMinute != nil && d.LunchEndMinute != nil
}

// Validate checks the DaySchedule invariants.
func (d *DaySchedule) Validate() error {
	if !types.ValidMinute(d.StartMinute) || d.EndMinute <= 0 || d.EndMinute > types.MinutesPerDay {
		return fmt.Errorf("%w: working hours out of range", ErrInvalidSchedule)
	}
	if d.StartMinute >= d.EndMinute {
		return fmt.Errorf("%w: day start must be before day end", ErrInvalidSchedule)
	}
	if (d.LunchStartMinute == nil) != (d.LunchEndMinute == nil) {
		return fmt.Errorf("%w: lunch window must carry both start and end", ErrInvalidSchedule)
	}
	if d.HasLunch() {
		ls, le := *d.LunchStartMinute, *d.LunchEndMinute
		if ls >= le {
			return fmt.Errorf("%w: lunch start must be before lunch end", ErrInvalidSchedule)
		}
		if ls < d.StartMinute || le > d.EndMinute {
			return fmt.Errorf("%w: lunch window must fit inside working hours", ErrInvalidSchedule)
		}
	}
	return nil
}

// WeeklySchedule maps weekdays to working hours. A nil entry means the
// provider is closed on that weekday.
type WeeklySchedule struct {
	Monday    *DaySchedule
	Tuesday   *DaySchedule
	Wednesday *DaySchedule
	Thursday  *DaySchedule
	Friday    *DaySchedule
	Saturday  *DaySchedule
	Sunday    *DaySchedule
}

// ForDate returns the working hours for the weekday of the given date, or
// nil when the provider is closed.
func (w *WeeklySchedule) ForDate(date time.Time) *DaySchedule {
	switch date.Weekday() {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	case time.Sunday:
		return w.Sunday
	default:
		return nil
	}
}

// Days returns the per-weekday entries in Monday..Sunday order, paired with
// their time.Weekday. Used by the storage layer and config responses.
func (w *WeeklySchedule) Days() map[time.Weekday]*DaySchedule {
	return map[time.Weekday]*DaySchedule{
		time.Monday:    w.Monday,
		time.Tuesday:   w.Tuesday,
		time.Wednesday: w.Wednesday,
		time.Thursday:  w.Thursday,
		time.Friday:    w.Friday,
		time.Saturday:  w.Saturday,
		time.Sunday:    w.Sunday,
	}
}

// SetDay assigns working hours for a weekday.
func (w *WeeklySchedule) SetDay(day time.Weekday, schedule *DaySchedule) {
	switch day {
	case time.Monday:
		w.Monday = schedule
	case time.Tuesday:
		w.Tuesday = schedule
	case time.Wednesday:
		w.Wednesday = schedule
	case time.Thursday:
		w.Thursday = schedule
	case time.Friday:
		w.Friday = schedule
	case time.Saturday:
		w.Saturday = schedule
	case time.Sunday:
		w.Sunday = schedule
	}
}

// Validate checks every configured weekday.
func (w *WeeklySchedule) Validate() error {
	for day, schedule := range w.Days() {
		if schedule == nil {
			continue
		}
		if err := schedule.Validate(); err != nil {
			return fmt.Errorf("%v: %w", day, err)
		}
	}
	return nil
}

// BlockedTime removes a single slot start on a specific date from
// availability, independent of the weekly schedule.
type BlockedTime struct {
	Date        time.Time
	StartMinute int
}

// ScheduleConfig is the immutable snapshot the engine computes from: weekly
// hours, date exceptions, booking policy and per-modality pricing. It is
// loaded fresh per query and never mutated.
type ScheduleConfig struct {
	ProviderID   int64
	Weekly       WeeklySchedule
	BlockedDates []time.Time
	BlockedTimes []BlockedTime
	Policy       CancellationPolicy
	Prices       map[Modality]float64
}

// PriceFor returns the session price for a modality, 0 when unset.
func (c *ScheduleConfig) PriceFor(m Modality) float64 {
	return c.Prices[m]
}

// IsDateBlocked reports whether the whole date is removed from availability.
func (c *ScheduleConfig) IsDateBlocked(date time.Time) bool {
	for _, blocked := range c.BlockedDates {
		if SameDay(blocked, date) {
			return true
		}
	}
	return false
}

// IsTimeBlocked reports whether the exact slot start on the date is removed
// from availability.
func (c *ScheduleConfig) IsTimeBlocked(date time.Time, startMinute int) bool {
	for _, blocked := range c.BlockedTimes {
		if SameDay(blocked.Date, date) && blocked.StartMinute == startMinute {
			return true
		}
	}
	return false
}

// Validate checks the whole configuration.
func (c *ScheduleConfig) Validate() error {
	if err := c.Weekly.Validate(); err != nil {
		return err
	}
	if err := c.Policy.Validate(); err != nil {
		return err
	}
	for _, blocked := range c.BlockedTimes {
		if !types.ValidMinute(blocked.StartMinute) {
			return fmt.Errorf("%w: blocked time offset out of range", ErrInvalidSchedule)
		}
	}
	return nil
}

// SameDay reports whether two timestamps fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// DateOnly truncates a timestamp to midnight, keeping its location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
