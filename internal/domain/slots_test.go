package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

func testConfig(day *DaySchedule, policy CancellationPolicy) *ScheduleConfig {
	return &ScheduleConfig{
		ProviderID: 1,
		Weekly: WeeklySchedule{
			Monday:    day,
			Tuesday:   day,
			Wednesday: day,
			Thursday:  day,
			Friday:    day,
			Saturday:  day,
			Sunday:    day,
		},
		Policy: policy,
		Prices: map[Modality]float64{ModalityOnline: 150, ModalityInPerson: 200},
	}
}

func TestGenerateSlots_MorningWindow(t *testing.T) {
	// 09:00-11:00, 30-minute sessions on a 30-minute grid.
	cfg := testConfig(
		&DaySchedule{StartMinute: 9 * 60, EndMinute: 11 * 60},
		CancellationPolicy{StepMinutes: 30, SessionDurationMinutes: 30},
	)
	date := time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local) // Monday

	slots := GenerateSlots(cfg, date, ModalityOnline)

	require.Len(t, slots, 4)
	starts := []int{}
	for _, s := range slots {
		starts = append(starts, s.StartMinute)
	}
	// 10:30+30 ends exactly at 11:00 and fits; 11:00 itself would end past closing.
	assert.Equal(t, []int{540, 570, 600, 630}, starts)

	for _, s := range slots {
		assert.True(t, s.IsAvailable)
		assert.Nil(t, s.BlockReason)
		assert.Equal(t, 30, s.DurationMinutes)
		assert.Equal(t, ModalityOnline, s.Modality)
		assert.Equal(t, 150.0, s.Price)
	}
}

func TestGenerateSlots_ClosedDay(t *testing.T) {
	cfg := testConfig(nil, CancellationPolicy{StepMinutes: 30, SessionDurationMinutes: 30})
	date := time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local)

	slots := GenerateSlots(cfg, date, ModalityOnline)

	assert.Empty(t, slots)
}

func TestGenerateSlots_ZeroLengthDay(t *testing.T) {
	cfg := testConfig(
		&DaySchedule{StartMinute: 9 * 60, EndMinute: 9 * 60},
		CancellationPolicy{StepMinutes: 30, SessionDurationMinutes: 30},
	)
	date := time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local)

	slots := GenerateSlots(cfg, date, ModalityOnline)

	assert.Empty(t, slots)
}

func TestGenerateSlots_LunchExclusion(t *testing.T) {
	// 09:00-17:00 with lunch 12:00-13:00, 50-minute sessions every 60 minutes.
	cfg := testConfig(
		&DaySchedule{
			StartMinute:      9 * 60,
			EndMinute:        17 * 60,
			LunchStartMinute: ptr.Ptr(12 * 60),
			LunchEndMinute:   ptr.Ptr(13 * 60),
		},
		CancellationPolicy{StepMinutes: 60, SessionDurationMinutes: 50},
	)
	date := time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local)

	slots := GenerateSlots(cfg, date, ModalityInPerson)

	for _, s := range slots {
		assert.False(t, Overlaps(s.StartMinute, s.EndMinute(), 12*60, 13*60),
			"slot starting at %d intersects lunch", s.StartMinute)
	}

	// 12:00 falls out, everything else on the hourly grid stays.
	starts := []int{}
	for _, s := range slots {
		starts = append(starts, s.StartMinute)
	}
	assert.Equal(t, []int{540, 600, 660, 780, 840, 900, 960}, starts)
}

func TestGenerateSlots_LunchAbuttingClose(t *testing.T) {
	// Lunch window touching closing time: the closing-fit check alone must
	// already reject everything after lunch start.
	cfg := testConfig(
		&DaySchedule{
			StartMinute:      9 * 60,
			EndMinute:        13 * 60,
			LunchStartMinute: ptr.Ptr(12 * 60),
			LunchEndMinute:   ptr.Ptr(13 * 60),
		},
		CancellationPolicy{StepMinutes: 30, SessionDurationMinutes: 30},
	)
	date := time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local)

	slots := GenerateSlots(cfg, date, ModalityOnline)

	last := slots[len(slots)-1]
	assert.Equal(t, 11*60+30, last.StartMinute)
	assert.LessOrEqual(t, last.EndMinute(), 12*60)
}

func TestGenerateSlots_Containment(t *testing.T) {
	day := &DaySchedule{StartMinute: 8*60 + 15, EndMinute: 18*60 + 45}
	cfg := testConfig(day, CancellationPolicy{StepMinutes: 25, SessionDurationMinutes: 50})
	date := time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local)

	slots := GenerateSlots(cfg, date, ModalityOnline)

	require.NotEmpty(t, slots)
	for _, s := range slots {
		assert.GreaterOrEqual(t, s.StartMinute, day.StartMinute)
		assert.LessOrEqual(t, s.EndMinute(), day.EndMinute)
	}
}

func TestGenerateSlots_Deterministic(t *testing.T) {
	cfg := testConfig(
		&DaySchedule{StartMinute: 9 * 60, EndMinute: 12 * 60},
		CancellationPolicy{StepMinutes: 30, SessionDurationMinutes: 50},
	)
	date := time.Date(2024, 3, 6, 0, 0, 0, 0, time.Local)

	first := GenerateSlots(cfg, date, ModalityOnline)
	second := GenerateSlots(cfg, date, ModalityOnline)

	assert.Equal(t, first, second)
}
