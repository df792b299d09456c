package schedule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
)

type fakeRepo struct {
	configs map[int64]*domain.ScheduleConfig
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{configs: make(map[int64]*domain.ScheduleConfig)}
}

func (r *fakeRepo) GetConfig(_ context.Context, providerID int64) (*domain.ScheduleConfig, error) {
	cfg, ok := r.configs[providerID]
	if !ok {
		return nil, scheduleRepo.ErrConfigNotFound
	}
	return cfg, nil
}

func (r *fakeRepo) ReplaceConfig(_ context.Context, cfg *domain.ScheduleConfig) error {
	r.configs[cfg.ProviderID] = cfg
	return nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func lunchPtr(s string) *string {
	return &s
}

func validUpdateRequest(userID int64) *models.UpdateScheduleConfigRequest {
	return &models.UpdateScheduleConfigRequest{
		UserID: userID,
		Weekly: map[string]*models.DayScheduleRequest{
			"monday": {
				Start:      "09:00",
				End:        "18:00",
				LunchStart: lunchPtr("12:00"),
				LunchEnd:   lunchPtr("13:00"),
			},
			"wednesday": {Start: "10:00", End: "16:00"},
		},
		BlockedDates: []string{"2024-02-05"},
		BlockedTimes: []models.BlockedTimeRequest{
			{Date: "2024-02-06", StartTime: "15:00"},
		},
		Policy: models.PolicyRequest{
			CancellationHours:      24,
			ReschedulingHours:      12,
			AdvanceBookingDays:     30,
			BufferMinutes:          10,
			StepMinutes:            30,
			SessionDurationMinutes: 50,
		},
		Prices: map[string]float64{
			"online":    200,
			"in_person": 250,
		},
	}
}

func TestService_UpdateAndGetConfig(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, passthroughTxManager{}, nopLogger{})
	ctx := context.Background()

	resp, err := svc.UpdateConfig(ctx, 1, validUpdateRequest(1))
	require.NoError(t, err)

	require.Contains(t, resp.Weekly, "monday")
	assert.Equal(t, "09:00", resp.Weekly["monday"].Start)
	assert.Equal(t, "18:00", resp.Weekly["monday"].End)
	require.NotNil(t, resp.Weekly["monday"].LunchStart)
	assert.Equal(t, "12:00", *resp.Weekly["monday"].LunchStart)
	assert.NotContains(t, resp.Weekly, "sunday")
	assert.Equal(t, []string{"2024-02-05"}, resp.BlockedDates)
	require.Len(t, resp.BlockedTimes, 1)
	assert.Equal(t, "15:00", resp.BlockedTimes[0].StartTime)
	assert.Equal(t, 250.0, resp.Prices["in_person"])

	fetched, err := svc.GetConfig(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, resp.Weekly["monday"], fetched.Weekly["monday"])
	assert.Equal(t, resp.Policy, fetched.Policy)
}

func TestService_GetConfig_NotFound(t *testing.T) {
	svc := NewService(newFakeRepo(), passthroughTxManager{}, nopLogger{})

	_, err := svc.GetConfig(context.Background(), 7)
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestService_UpdateConfig_AccessDenied(t *testing.T) {
	svc := NewService(newFakeRepo(), passthroughTxManager{}, nopLogger{})

	_, err := svc.UpdateConfig(context.Background(), 1, validUpdateRequest(2))
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_UpdateConfig_InvalidPayload(t *testing.T) {
	svc := NewService(newFakeRepo(), passthroughTxManager{}, nopLogger{})
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(req *models.UpdateScheduleConfigRequest)
	}{
		{
			name: "bad clock value",
			mutate: func(req *models.UpdateScheduleConfigRequest) {
				req.Weekly["monday"].Start = "25:00"
			},
		},
		{
			name: "unknown weekday",
			mutate: func(req *models.UpdateScheduleConfigRequest) {
				req.Weekly["someday"] = &models.DayScheduleRequest{Start: "09:00", End: "18:00"}
			},
		},
		{
			name: "unknown modality",
			mutate: func(req *models.UpdateScheduleConfigRequest) {
				req.Prices["hybrid"] = 100
			},
		},
		{
			name: "bad blocked date",
			mutate: func(req *models.UpdateScheduleConfigRequest) {
				req.BlockedDates = []string{"05.02.2024"}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validUpdateRequest(1)
			tc.mutate(req)

			_, err := svc.UpdateConfig(ctx, 1, req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestService_UpdateConfig_InvariantViolations(t *testing.T) {
	svc := NewService(newFakeRepo(), passthroughTxManager{}, nopLogger{})
	ctx := context.Background()

	// Начало дня после конца
	req := validUpdateRequest(1)
	req.Weekly["monday"] = &models.DayScheduleRequest{Start: "18:00", End: "09:00"}
	_, err := svc.UpdateConfig(ctx, 1, req)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	// Обед за пределами рабочих часов
	req = validUpdateRequest(1)
	req.Weekly["monday"].LunchStart = lunchPtr("08:00")
	_, err = svc.UpdateConfig(ctx, 1, req)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	// Шаг сетки вне допустимых границ
	req = validUpdateRequest(1)
	req.Policy.StepMinutes = 1
	_, err = svc.UpdateConfig(ctx, 1, req)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
