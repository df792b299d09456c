package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func workdayConfig(policy CancellationPolicy) *ScheduleConfig {
	day := &DaySchedule{StartMinute: 9 * 60, EndMinute: 17 * 60}
	return testConfig(day, policy)
}

func reasonOf(t *testing.T, slot TimeSlot) BlockReason {
	t.Helper()
	require.NotNil(t, slot.BlockReason)
	return *slot.BlockReason
}

func TestResolveAvailability_ExistingAppointmentConflict(t *testing.T) {
	// Scenario: appointment 14:00-14:50 with a 10-minute buffer blocks every
	// candidate intersecting [13:50, 15:00).
	policy := CancellationPolicy{StepMinutes: 30, SessionDurationMinutes: 30, BufferMinutes: 10}
	cfg := workdayConfig(policy)
	date := time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local)
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.Local)

	appointments := []*Appointment{
		{Date: date, StartMinute: 14 * 60, DurationMinutes: 50, Status: StatusConfirmed},
	}

	slots := ResolveAvailability(GenerateSlots(cfg, date, ModalityOnline), cfg, appointments, now)

	for _, s := range slots {
		intersects := Overlaps(s.StartMinute, s.EndMinute(), 13*60+50, 15*60)
		if intersects {
			assert.False(t, s.IsAvailable, "slot at %d should conflict", s.StartMinute)
			assert.Equal(t, ReasonConflict, reasonOf(t, s))
		} else {
			assert.True(t, s.IsAvailable, "slot at %d should stay available", s.StartMinute)
		}
	}
}

func TestResolveAvailability_NoDoubleBooking(t *testing.T) {
	policy := CancellationPolicy{StepMinutes: 30, SessionDurationMinutes: 50, BufferMinutes: 10}
	cfg := workdayConfig(policy)
	date := time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local)
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.Local)

	appointments := []*Appointment{
		{Date: date, StartMinute: 10 * 60, DurationMinutes: 50, Status: StatusConfirmed},
		{Date: date, StartMinute: 15 * 60, DurationMinutes: 50, Status: StatusConfirmed},
	}

	slots := ResolveAvailability(GenerateSlots(cfg, date, ModalityOnline), cfg, appointments, now)

	for _, s := range slots {
		if !s.IsAvailable {
			continue
		}
		for _, a := range appointments {
			assert.False(t,
				Overlaps(s.StartMinute, s.EndMinute(), a.StartMinute-policy.BufferMinutes, a.EndMinute()+policy.BufferMinutes),
				"available slot at %d overlaps buffered appointment at %d", s.StartMinute, a.StartMinute)
		}
	}
}

func TestResolveAvailability_BlockedDate(t *testing.T) {
	policy := CancellationPolicy{StepMinutes: 30, SessionDurationMinutes: 30}
	cfg := workdayConfig(policy)
	date := time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local)
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.Local)

	cfg.BlockedDates = []time.Time{date}
	// Date blocking wins over everything, including conflicts.
	appointments := []*Appointment{
		{Date: date, StartMinute: 9 * 60, DurationMinutes: 30, Status: StatusConfirmed},
	}

	slots := ResolveAvailability(GenerateSlots(cfg, date, ModalityOnline), cfg, appointments, now)

	require.NotEmpty(t, slots)
	for _, s := range slots {
		assert.False(t, s.IsAvailable)
		assert.Equal(t, ReasonDateBlocked, reasonOf(t, s))
	}
	assert.False(t, HasAvailableSlots(slots))
}

func TestResolveAvailability_BlockedTime(t *testing.T) {
	policy := CancellationPolicy{StepMinutes: 30, SessionDurationMinutes: 30}
	cfg := workdayConfig(policy)
	date := time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local)
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.Local)

	cfg.BlockedTimes = []BlockedTime{{Date: date, StartMinute: 10 * 60}}

	slots := ResolveAvailability(GenerateSlots(cfg, date, ModalityOnline), cfg, appointments(nil), now)

	for _, s := range slots {
		if s.StartMinute == 10*60 {
			assert.False(t, s.IsAvailable)
			assert.Equal(t, ReasonTimeBlocked, reasonOf(t, s))
		} else {
			assert.True(t, s.IsAvailable)
		}
	}
}

func TestResolveAvailability_PastSlots(t *testing.T) {
	policy := CancellationPolicy{StepMinutes: 60, SessionDurationMinutes: 50}
	cfg := workdayConfig(policy)
	date := time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local)
	// Midday on the requested date: the morning is gone.
	now := time.Date(2024, 3, 4, 12, 30, 0, 0, time.Local)

	slots := ResolveAvailability(GenerateSlots(cfg, date, ModalityOnline), cfg, appointments(nil), now)

	for _, s := range slots {
		if s.StartAt().Before(now) {
			assert.False(t, s.IsAvailable)
			assert.Equal(t, ReasonPast, reasonOf(t, s))
		} else {
			assert.True(t, s.IsAvailable)
		}
	}
}

func TestResolveAvailability_BookingHorizon(t *testing.T) {
	// Scenario: horizon of 30 days from 2024-01-01. 35 days out is blocked,
	// 19 days out is not.
	policy := CancellationPolicy{StepMinutes: 30, SessionDurationMinutes: 30, AdvanceBookingDays: 30}
	cfg := workdayConfig(policy)
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.Local)

	farDate := time.Date(2024, 2, 5, 0, 0, 0, 0, time.Local)
	farSlots := ResolveAvailability(GenerateSlots(cfg, farDate, ModalityOnline), cfg, appointments(nil), now)
	require.NotEmpty(t, farSlots)
	for _, s := range farSlots {
		assert.False(t, s.IsAvailable)
		assert.Equal(t, ReasonBeyondHorizon, reasonOf(t, s))
	}

	nearDate := time.Date(2024, 1, 20, 0, 0, 0, 0, time.Local)
	nearSlots := ResolveAvailability(GenerateSlots(cfg, nearDate, ModalityOnline), cfg, appointments(nil), now)
	require.NotEmpty(t, nearSlots)
	assert.True(t, HasAvailableSlots(nearSlots))
}

func TestResolveAvailability_UnlimitedHorizon(t *testing.T) {
	policy := CancellationPolicy{StepMinutes: 30, SessionDurationMinutes: 30, AdvanceBookingDays: 0}
	cfg := workdayConfig(policy)
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.Local)
	date := time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local) // Wednesday, a year out

	slots := ResolveAvailability(GenerateSlots(cfg, date, ModalityOnline), cfg, appointments(nil), now)

	assert.True(t, HasAvailableSlots(slots))
}

func TestResolveAvailability_Pure(t *testing.T) {
	policy := CancellationPolicy{StepMinutes: 30, SessionDurationMinutes: 50, BufferMinutes: 10, AdvanceBookingDays: 30}
	cfg := workdayConfig(policy)
	date := time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local)
	now := time.Date(2024, 3, 4, 11, 0, 0, 0, time.Local)
	appts := []*Appointment{
		{Date: date, StartMinute: 14 * 60, DurationMinutes: 50, Status: StatusConfirmed},
	}

	candidates := GenerateSlots(cfg, date, ModalityOnline)
	first := ResolveAvailability(candidates, cfg, appts, now)
	second := ResolveAvailability(candidates, cfg, appts, now)

	assert.Equal(t, first, second)
	// Candidates stay provisional: resolution replaces, never patches.
	for _, c := range candidates {
		assert.True(t, c.IsAvailable)
		assert.Nil(t, c.BlockReason)
	}
}

func appointments(list []*Appointment) []*Appointment {
	if list == nil {
		return []*Appointment{}
	}
	return list
}
