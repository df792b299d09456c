package confirm_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/session"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifications"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/patientdirectory"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/paymentgateway"
)

type memSessionStore struct {
	sessions map[string]*domain.BookingSession
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string]*domain.BookingSession)}
}

func (s *memSessionStore) Get(_ context.Context, id string) (*domain.BookingSession, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	copied := *sess
	return &copied, nil
}

func (s *memSessionStore) Save(_ context.Context, sess *domain.BookingSession) error {
	copied := *sess
	s.sessions[sess.ID] = &copied
	return nil
}

type fakeAppointmentRepo struct {
	byKey       map[string]*domain.Appointment
	existing    []*domain.Appointment
	nextID      int64
	createCalls int
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{byKey: make(map[string]*domain.Appointment), nextID: 1}
}

func (r *fakeAppointmentRepo) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	r.createCalls++
	created := *a
	created.ID = r.nextID
	created.CreatedAt = time.Now()
	r.nextID++
	r.byKey[a.IdempotencyKey] = &created
	r.existing = append(r.existing, &created)
	return &created, nil
}

func (r *fakeAppointmentRepo) GetByIdempotencyKey(_ context.Context, key string) (*domain.Appointment, error) {
	if a, ok := r.byKey[key]; ok {
		return a, nil
	}
	return nil, appointmentRepo.ErrAppointmentNotFound
}

func (r *fakeAppointmentRepo) GetByProviderAndDate(_ context.Context, _ int64, _ time.Time, _ bool) ([]*domain.Appointment, error) {
	return r.existing, nil
}

func (r *fakeAppointmentRepo) SetPaymentLink(_ context.Context, id int64, url string) error {
	for _, a := range r.existing {
		if a.ID == id {
			a.PaymentLinkURL = &url
		}
	}
	return nil
}

type fakeScheduleRepo struct {
	cfg *domain.ScheduleConfig
}

func (r *fakeScheduleRepo) GetConfig(_ context.Context, _ int64) (*domain.ScheduleConfig, error) {
	return r.cfg, nil
}

type fakePatientDirectory struct {
	err   error
	calls int
}

func (c *fakePatientDirectory) CreateOrFindPatient(_ context.Context, name, email, phone string) (*patientdirectory.Patient, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &patientdirectory.Patient{ID: 501, Name: name, Email: email, Phone: phone}, nil
}

type fakePaymentGateway struct {
	calls int
}

func (g *fakePaymentGateway) CreatePaymentLink(_ context.Context, _ float64, _ string) (*paymentgateway.PaymentLink, error) {
	g.calls++
	return &paymentgateway.PaymentLink{URL: "https://pay.example/abc", Code: "abc"}, nil
}

type fakeNotifier struct {
	events []notifications.ConfirmationEvent
}

func (n *fakeNotifier) PublishConfirmation(_ context.Context, event notifications.ConfirmationEvent) error {
	n.events = append(n.events, event)
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

func confirmConfig() *domain.ScheduleConfig {
	day := &domain.DaySchedule{StartMinute: 9 * 60, EndMinute: 18 * 60}
	return &domain.ScheduleConfig{
		ProviderID: 1,
		Weekly: domain.WeeklySchedule{
			Monday: day, Tuesday: day, Wednesday: day, Thursday: day, Friday: day,
		},
		Policy: domain.DefaultPolicy(),
		Prices: map[domain.Modality]float64{domain.ModalityOnline: 200},
	}
}

func reviewSession() *domain.BookingSession {
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	notes := "first visit"
	return &domain.BookingSession{
		ID:           "sess-1",
		ProviderID:   1,
		State:        domain.StateReviewingConfirmation,
		SelectedDate: &date,
		SelectedSlot: &domain.TimeSlot{
			Date:            date,
			StartMinute:     10 * 60,
			DurationMinutes: 50,
			Modality:        domain.ModalityOnline,
			Price:           200,
			IsAvailable:     true,
		},
		PatientForm: &domain.PatientForm{
			Name:          "João da Silva",
			Email:         "joao@example.com",
			Phone:         "(11) 98765-4321",
			Notes:         &notes,
			TermsAccepted: true,
		},
		IdempotencyKey: "idem-1",
	}
}

type fixture struct {
	uc       *UseCase
	sessions *memSessionStore
	repo     *fakeAppointmentRepo
	patients *fakePatientDirectory
	gateway  *fakePaymentGateway
	notifier *fakeNotifier
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()

	f := &fixture{
		sessions: newMemSessionStore(),
		repo:     newFakeAppointmentRepo(),
		patients: &fakePatientDirectory{},
		gateway:  &fakePaymentGateway{},
		notifier: &fakeNotifier{},
	}

	f.uc = NewUseCase(
		f.sessions,
		f.repo,
		&fakeScheduleRepo{cfg: confirmConfig()},
		f.patients,
		f.gateway,
		f.notifier,
		passthroughTxManager{},
		nopLogger{},
	)
	f.uc.timeProvider = &fixedTime{now: now}

	return f
}

type fixedTime struct {
	now time.Time
}

func (p *fixedTime) Now() time.Time {
	return p.now
}

func TestUseCase_Execute_Success(t *testing.T) {
	now := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)
	f := newFixture(t, now)

	sess := reviewSession()
	require.NoError(t, f.sessions.Save(context.Background(), sess))

	resp, err := f.uc.Execute(context.Background(), &Request{SessionID: sess.ID})
	require.NoError(t, err)

	assert.Equal(t, domain.StateConfirmed, resp.SessionState)
	assert.Equal(t, int64(501), resp.PatientID)
	assert.Equal(t, "10:00", resp.StartTime)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	require.NotNil(t, resp.PaymentLinkURL)
	assert.Equal(t, "https://pay.example/abc", *resp.PaymentLinkURL)

	saved := f.sessions.sessions[sess.ID]
	assert.Equal(t, domain.StateConfirmed, saved.State)
	require.NotNil(t, saved.AppointmentID)
	assert.Equal(t, resp.AppointmentID, *saved.AppointmentID)

	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, resp.AppointmentID, f.notifier.events[0].AppointmentID)
	assert.Equal(t, "2024-01-15", f.notifier.events[0].Date)
}

func TestUseCase_Execute_IdempotentRetry(t *testing.T) {
	now := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)
	f := newFixture(t, now)

	sess := reviewSession()
	require.NoError(t, f.sessions.Save(context.Background(), sess))

	first, err := f.uc.Execute(context.Background(), &Request{SessionID: sess.ID})
	require.NoError(t, err)

	// Сессия завершилась сбоем после вставки: повтор должен вернуть ту же запись
	failed := f.sessions.sessions[sess.ID]
	failed.State = domain.StateFailed
	require.NoError(t, f.sessions.Save(context.Background(), failed))

	second, err := f.uc.Execute(context.Background(), &Request{SessionID: sess.ID})
	require.NoError(t, err)

	assert.Equal(t, first.AppointmentID, second.AppointmentID)
	assert.Equal(t, 1, f.repo.createCalls)
}

func TestUseCase_Execute_RepeatAfterSuccess(t *testing.T) {
	now := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)
	f := newFixture(t, now)

	sess := reviewSession()
	require.NoError(t, f.sessions.Save(context.Background(), sess))

	first, err := f.uc.Execute(context.Background(), &Request{SessionID: sess.ID})
	require.NoError(t, err)

	// Ретрансмиссия после успеха: сессия уже confirmed, ключ тот же —
	// возвращается исходная запись без новой брони, ссылки и события
	second, err := f.uc.Execute(context.Background(), &Request{SessionID: sess.ID})
	require.NoError(t, err)

	assert.Equal(t, first.AppointmentID, second.AppointmentID)
	assert.Equal(t, domain.StateConfirmed, second.SessionState)
	assert.Equal(t, 1, f.repo.createCalls)
	assert.Equal(t, 1, f.gateway.calls)
	assert.Len(t, f.notifier.events, 1)

	require.NotNil(t, second.PaymentLinkURL)
	assert.Equal(t, *first.PaymentLinkURL, *second.PaymentLinkURL)
}

func TestUseCase_Execute_SlotConflict(t *testing.T) {
	now := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)
	f := newFixture(t, now)

	sess := reviewSession()
	require.NoError(t, f.sessions.Save(context.Background(), sess))

	// Другой пациент уже занял пересекающийся интервал
	f.repo.existing = append(f.repo.existing, &domain.Appointment{
		ID:              99,
		ProviderID:      1,
		Date:            *sess.SelectedDate,
		StartMinute:     10 * 60,
		DurationMinutes: 50,
		Status:          domain.StatusConfirmed,
		IdempotencyKey:  "other-key",
	})

	_, err := f.uc.Execute(context.Background(), &Request{SessionID: sess.ID})
	assert.ErrorIs(t, err, ErrSlotConflict)

	saved := f.sessions.sessions[sess.ID]
	assert.Equal(t, domain.StateFailed, saved.State)
	require.NotNil(t, saved.FailureReason)
	assert.Equal(t, 0, f.repo.createCalls)
	assert.Empty(t, f.notifier.events)
}

func TestUseCase_Execute_IllegalState(t *testing.T) {
	now := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)
	f := newFixture(t, now)

	sess := reviewSession()
	sess.State = domain.StateSelectingSlot
	require.NoError(t, f.sessions.Save(context.Background(), sess))

	_, err := f.uc.Execute(context.Background(), &Request{SessionID: sess.ID})
	assert.ErrorIs(t, err, ErrIllegalState)
	assert.Equal(t, 0, f.patients.calls)
}

func TestUseCase_Execute_PatientRejected(t *testing.T) {
	now := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)
	f := newFixture(t, now)
	f.patients.err = patientdirectory.ErrPatientRejected

	sess := reviewSession()
	require.NoError(t, f.sessions.Save(context.Background(), sess))

	_, err := f.uc.Execute(context.Background(), &Request{SessionID: sess.ID})
	assert.ErrorIs(t, err, ErrPatientRejected)

	saved := f.sessions.sessions[sess.ID]
	assert.Equal(t, domain.StateFailed, saved.State)
	assert.Equal(t, 0, f.repo.createCalls)
}

func TestUseCase_Execute_DisabledIntegrations(t *testing.T) {
	now := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)
	f := newFixture(t, now)
	f.uc.payments = nil
	f.uc.notifier = nil

	sess := reviewSession()
	require.NoError(t, f.sessions.Save(context.Background(), sess))

	resp, err := f.uc.Execute(context.Background(), &Request{SessionID: sess.ID})
	require.NoError(t, err)

	assert.Nil(t, resp.PaymentLinkURL)
	assert.Equal(t, 0, f.gateway.calls)
}
