package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

type fakeRepo struct {
	byID map[int64]*domain.Appointment
}

func newFakeRepo(items ...*domain.Appointment) *fakeRepo {
	r := &fakeRepo{byID: make(map[int64]*domain.Appointment)}
	for _, a := range items {
		copied := *a
		r.byID[a.ID] = &copied
	}
	return r
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeRepo) GetByPatient(_ context.Context, patientID int64) ([]*domain.Appointment, error) {
	var result []*domain.Appointment
	for _, a := range r.byID {
		if a.PatientID == patientID {
			copied := *a
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeRepo) GetByProviderAndDate(_ context.Context, providerID int64, date time.Time, activeOnly bool) ([]*domain.Appointment, error) {
	var result []*domain.Appointment
	for _, a := range r.byID {
		if a.ProviderID != providerID || !domain.SameDay(a.Date, date) {
			continue
		}
		if activeOnly && !a.IsActive() {
			continue
		}
		copied := *a
		result = append(result, &copied)
	}
	return result, nil
}

func (r *fakeRepo) Cancel(_ context.Context, id int64, status domain.AppointmentStatus, reason *string) error {
	a, ok := r.byID[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	a.Status = status
	a.CancellationReason = reason
	now := time.Now()
	a.CancelledAt = &now
	return nil
}

func (r *fakeRepo) Reschedule(_ context.Context, id int64, date time.Time, startMinute int) error {
	a, ok := r.byID[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	a.Date = date
	a.StartMinute = startMinute
	return nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id int64, status domain.AppointmentStatus) error {
	a, ok := r.byID[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	a.Status = status
	return nil
}

type stubScheduleRepo struct {
	cfg *domain.ScheduleConfig
}

func (s *stubScheduleRepo) GetConfig(_ context.Context, _ int64) (*domain.ScheduleConfig, error) {
	return s.cfg, nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
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

func serviceConfig() *domain.ScheduleConfig {
	day := &domain.DaySchedule{StartMinute: 9 * 60, EndMinute: 18 * 60}
	return &domain.ScheduleConfig{
		ProviderID: 10,
		Weekly: domain.WeeklySchedule{
			Monday: day, Tuesday: day, Wednesday: day, Thursday: day, Friday: day,
		},
		Policy: domain.DefaultPolicy(),
		Prices: map[domain.Modality]float64{domain.ModalityOnline: 200},
	}
}

func confirmedAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:              1,
		ProviderID:      10,
		PatientID:       20,
		Date:            time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		StartMinute:     10 * 60,
		DurationMinutes: 50,
		Modality:        domain.ModalityOnline,
		Price:           200,
		Status:          domain.StatusConfirmed,
		IdempotencyKey:  "key-1",
	}
}

func newTestService(repo *fakeRepo, now time.Time) *Service {
	svc := NewService(repo, &stubScheduleRepo{cfg: serviceConfig()}, passthroughTxManager{}, nopLogger{})
	svc.timeProvider = &fixedTimeProvider{now: now}
	return svc
}

func TestService_GetByID_Access(t *testing.T) {
	repo := newFakeRepo(confirmedAppointment())
	svc := newTestService(repo, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))

	// Пациент и специалист видят запись
	_, err := svc.GetByID(context.Background(), 1, 20)
	assert.NoError(t, err)
	_, err = svc.GetByID(context.Background(), 1, 10)
	assert.NoError(t, err)

	// Посторонний пользователь — нет
	_, err = svc.GetByID(context.Background(), 1, 99)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetByID(context.Background(), 404, 20)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestService_Cancel_ByPatient(t *testing.T) {
	repo := newFakeRepo(confirmedAppointment())
	// За 5 дней до приёма, окно отмены 24 часа
	svc := newTestService(repo, time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC))

	reason := "personal reasons"
	resp, err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{
		UserID:             20,
		CancellationReason: &reason,
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelledByPatient), resp.Status)
	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, reason, *resp.CancellationReason)
}

func TestService_Cancel_WindowViolation(t *testing.T) {
	repo := newFakeRepo(confirmedAppointment())
	// За 2 часа до приёма, окно отмены 24 часа
	svc := newTestService(repo, time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC))

	_, err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{UserID: 20})

	var violation *domain.PolicyViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "cancellation", violation.Policy)
	assert.Equal(t, 24, violation.RequiredHours)
}

func TestService_Cancel_ByProviderIgnoresWindow(t *testing.T) {
	repo := newFakeRepo(confirmedAppointment())
	// За 2 часа до приёма: специалист может отменить в любой момент
	svc := newTestService(repo, time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC))

	resp, err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{UserID: 10})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelledByProvider), resp.Status)
}

func TestService_Cancel_AlreadyCancelled(t *testing.T) {
	a := confirmedAppointment()
	a.Status = domain.StatusCancelledByPatient
	repo := newFakeRepo(a)
	svc := newTestService(repo, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))

	_, err := svc.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{UserID: 20})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestService_Reschedule_Success(t *testing.T) {
	repo := newFakeRepo(confirmedAppointment())
	// За 5 дней, окно переноса 12 часов
	svc := newTestService(repo, time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC))

	resp, err := svc.Reschedule(context.Background(), 1, &models.RescheduleAppointmentRequest{
		UserID:      20,
		Date:        time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC),
		StartMinute: 14 * 60,
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-16", resp.Date)
	assert.Equal(t, "14:00", resp.StartTime)
}

func TestService_Reschedule_SameDayKeepsOwnSlotFree(t *testing.T) {
	repo := newFakeRepo(confirmedAppointment())
	svc := newTestService(repo, time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC))

	// Перенос в пределах того же дня: старый интервал записи не мешает,
	// даже впритык к нему
	resp, err := svc.Reschedule(context.Background(), 1, &models.RescheduleAppointmentRequest{
		UserID:      20,
		Date:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		StartMinute: 10*60 + 30,
	})
	require.NoError(t, err)
	assert.Equal(t, "10:30", resp.StartTime)
}

func TestService_Reschedule_TargetTaken(t *testing.T) {
	other := confirmedAppointment()
	other.ID = 2
	other.PatientID = 77
	other.IdempotencyKey = "key-2"
	other.Date = time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)
	other.StartMinute = 14 * 60

	repo := newFakeRepo(confirmedAppointment(), other)
	svc := newTestService(repo, time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC))

	_, err := svc.Reschedule(context.Background(), 1, &models.RescheduleAppointmentRequest{
		UserID:      20,
		Date:        time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC),
		StartMinute: 14 * 60,
	})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestService_Reschedule_WindowViolation(t *testing.T) {
	repo := newFakeRepo(confirmedAppointment())
	// За 2 часа до приёма, окно переноса 12 часов
	svc := newTestService(repo, time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC))

	_, err := svc.Reschedule(context.Background(), 1, &models.RescheduleAppointmentRequest{
		UserID:      20,
		Date:        time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC),
		StartMinute: 14 * 60,
	})

	var violation *domain.PolicyViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "rescheduling", violation.Policy)
	assert.Equal(t, 12, violation.RequiredHours)
}

func TestService_MarkOutcome(t *testing.T) {
	repo := newFakeRepo(confirmedAppointment())
	// Через полтора часа после начала приёма
	svc := newTestService(repo, time.Date(2024, 1, 15, 11, 30, 0, 0, time.UTC))

	resp, err := svc.MarkOutcome(context.Background(), 1, &models.MarkOutcomeRequest{
		UserID: 10,
		Status: string(domain.StatusCompleted),
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), resp.Status)
}

func TestService_MarkOutcome_NoShow(t *testing.T) {
	repo := newFakeRepo(confirmedAppointment())
	svc := newTestService(repo, time.Date(2024, 1, 15, 11, 30, 0, 0, time.UTC))

	resp, err := svc.MarkOutcome(context.Background(), 1, &models.MarkOutcomeRequest{
		UserID: 10,
		Status: string(domain.StatusNoShow),
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusNoShow), resp.Status)

	// Неявка освобождает слот для повторного бронирования
	stored, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, stored.IsActive())
}

func TestService_MarkOutcome_Rejections(t *testing.T) {
	t.Run("patient cannot record outcome", func(t *testing.T) {
		repo := newFakeRepo(confirmedAppointment())
		svc := newTestService(repo, time.Date(2024, 1, 15, 11, 30, 0, 0, time.UTC))

		_, err := svc.MarkOutcome(context.Background(), 1, &models.MarkOutcomeRequest{
			UserID: 20,
			Status: string(domain.StatusCompleted),
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("before the appointment starts", func(t *testing.T) {
		repo := newFakeRepo(confirmedAppointment())
		svc := newTestService(repo, time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC))

		_, err := svc.MarkOutcome(context.Background(), 1, &models.MarkOutcomeRequest{
			UserID: 10,
			Status: string(domain.StatusCompleted),
		})
		assert.ErrorIs(t, err, ErrCannotMarkOutcome)
	})

	t.Run("cancelled appointment has no outcome", func(t *testing.T) {
		cancelled := confirmedAppointment()
		cancelled.Status = domain.StatusCancelledByPatient
		repo := newFakeRepo(cancelled)
		svc := newTestService(repo, time.Date(2024, 1, 15, 11, 30, 0, 0, time.UTC))

		_, err := svc.MarkOutcome(context.Background(), 1, &models.MarkOutcomeRequest{
			UserID: 10,
			Status: string(domain.StatusCompleted),
		})
		assert.ErrorIs(t, err, ErrCannotMarkOutcome)
	})

	t.Run("unknown status", func(t *testing.T) {
		repo := newFakeRepo(confirmedAppointment())
		svc := newTestService(repo, time.Date(2024, 1, 15, 11, 30, 0, 0, time.UTC))

		_, err := svc.MarkOutcome(context.Background(), 1, &models.MarkOutcomeRequest{
			UserID: 10,
			Status: "cancelled",
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
