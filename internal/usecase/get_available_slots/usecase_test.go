package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
)

type stubScheduleRepo struct {
	cfg *domain.ScheduleConfig
	err error
}

func (s *stubScheduleRepo) GetConfig(_ context.Context, _ int64) (*domain.ScheduleConfig, error) {
	return s.cfg, s.err
}

type stubAppointmentRepo struct {
	appointments []*domain.Appointment
	err          error
}

func (s *stubAppointmentRepo) GetByProviderAndDate(_ context.Context, _ int64, _ time.Time, _ bool) ([]*domain.Appointment, error) {
	return s.appointments, s.err
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testScheduleConfig(providerID int64) *domain.ScheduleConfig {
	day := &domain.DaySchedule{
		StartMinute: 9 * 60,
		EndMinute:   12 * 60,
	}
	return &domain.ScheduleConfig{
		ProviderID: providerID,
		Weekly: domain.WeeklySchedule{
			Monday:    day,
			Tuesday:   day,
			Wednesday: day,
			Thursday:  day,
			Friday:    day,
		},
		Policy: domain.DefaultPolicy(),
		Prices: map[domain.Modality]float64{
			domain.ModalityOnline:   200,
			domain.ModalityInPerson: 250,
		},
	}
}

func TestUseCase_Execute_Success(t *testing.T) {
	// Понедельник 2024-01-15, рабочий день 09:00-12:00
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)

	uc := NewUseCase(
		&stubScheduleRepo{cfg: testScheduleConfig(1)},
		&stubAppointmentRepo{},
		&fixedTimeProvider{now: now},
		nopLogger{},
	)

	resp, err := uc.Execute(context.Background(), Request{
		ProviderID: 1,
		Date:       date,
		Modality:   domain.ModalityOnline,
	})
	require.NoError(t, err)

	// 09:00-12:00, шаг 30, длительность 50: старты 09:00..11:00
	require.Len(t, resp.Slots, 5)
	assert.True(t, resp.HasAvailableSlots)
	assert.Equal(t, "09:00", resp.Slots[0].StartTime)
	assert.Equal(t, "11:00", resp.Slots[4].StartTime)
	for _, s := range resp.Slots {
		assert.True(t, s.IsAvailable)
		assert.Nil(t, s.BlockReason)
		assert.Equal(t, 200.0, s.Price)
		assert.Equal(t, 50, s.DurationMinutes)
	}
}

func TestUseCase_Execute_ConflictMarksSlots(t *testing.T) {
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)

	appointments := []*domain.Appointment{
		{
			ID:              7,
			ProviderID:      1,
			Date:            date,
			StartMinute:     10 * 60,
			DurationMinutes: 50,
			Status:          domain.StatusConfirmed,
		},
	}

	uc := NewUseCase(
		&stubScheduleRepo{cfg: testScheduleConfig(1)},
		&stubAppointmentRepo{appointments: appointments},
		&fixedTimeProvider{now: now},
		nopLogger{},
	)

	resp, err := uc.Execute(context.Background(), Request{
		ProviderID: 1,
		Date:       date,
		Modality:   domain.ModalityInPerson,
	})
	require.NoError(t, err)

	byStart := make(map[string]Slot)
	for _, s := range resp.Slots {
		byStart[s.StartTime] = s
	}

	// Запись 10:00-10:50 с буфером 10 минут блокирует слоты,
	// пересекающие интервал 09:50-11:00.
	for _, start := range []string{"09:30", "10:00", "10:30"} {
		s := byStart[start]
		assert.False(t, s.IsAvailable, "slot %s", start)
		require.NotNil(t, s.BlockReason, "slot %s", start)
		assert.Equal(t, string(domain.ReasonConflict), *s.BlockReason)
	}
	assert.True(t, byStart["09:00"].IsAvailable)
	assert.True(t, byStart["11:00"].IsAvailable)
	assert.True(t, resp.HasAvailableSlots)
}

func TestUseCase_Execute_BlockedDate(t *testing.T) {
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)

	cfg := testScheduleConfig(1)
	cfg.BlockedDates = []time.Time{date}

	uc := NewUseCase(
		&stubScheduleRepo{cfg: cfg},
		&stubAppointmentRepo{},
		&fixedTimeProvider{now: now},
		nopLogger{},
	)

	resp, err := uc.Execute(context.Background(), Request{
		ProviderID: 1,
		Date:       date,
		Modality:   domain.ModalityOnline,
	})
	require.NoError(t, err)

	assert.False(t, resp.HasAvailableSlots)
	for _, s := range resp.Slots {
		assert.False(t, s.IsAvailable)
		require.NotNil(t, s.BlockReason)
		assert.Equal(t, string(domain.ReasonDateBlocked), *s.BlockReason)
	}
}

func TestUseCase_Execute_ClosedDay(t *testing.T) {
	// Воскресенье 2024-01-14 не входит в недельный шаблон
	date := time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)

	uc := NewUseCase(
		&stubScheduleRepo{cfg: testScheduleConfig(1)},
		&stubAppointmentRepo{},
		&fixedTimeProvider{now: now},
		nopLogger{},
	)

	resp, err := uc.Execute(context.Background(), Request{
		ProviderID: 1,
		Date:       date,
		Modality:   domain.ModalityOnline,
	})
	require.NoError(t, err)

	assert.Empty(t, resp.Slots)
	assert.False(t, resp.HasAvailableSlots)
}

func TestUseCase_Execute_ProviderNotFound(t *testing.T) {
	uc := NewUseCase(
		&stubScheduleRepo{err: schedule.ErrConfigNotFound},
		&stubAppointmentRepo{},
		&fixedTimeProvider{now: time.Now()},
		nopLogger{},
	)

	_, err := uc.Execute(context.Background(), Request{
		ProviderID: 42,
		Date:       time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Modality:   domain.ModalityOnline,
	})
	assert.ErrorIs(t, err, ErrProviderNotFound)
}

func TestUseCase_Execute_InvalidInput(t *testing.T) {
	uc := NewUseCase(
		&stubScheduleRepo{cfg: testScheduleConfig(1)},
		&stubAppointmentRepo{},
		&fixedTimeProvider{now: time.Now()},
		nopLogger{},
	)

	cases := []struct {
		name string
		req  Request
	}{
		{
			name: "zero provider id",
			req: Request{
				Date:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
				Modality: domain.ModalityOnline,
			},
		},
		{
			name: "missing date",
			req: Request{
				ProviderID: 1,
				Modality:   domain.ModalityOnline,
			},
		},
		{
			name: "unknown modality",
			req: Request{
				ProviderID: 1,
				Date:       time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
				Modality:   domain.Modality("hybrid"),
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tc.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
