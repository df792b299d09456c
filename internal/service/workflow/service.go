package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/session"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/service/workflow/models"
)

// Service управляет жизненным циклом сессии бронирования.
// Сессия — единственный источник правды о прогрессе пациента; все переходы
// состояний проходят через этот сервис и проверяются перед применением.
type Service struct {
	sessions        SessionStore
	scheduleRepo    ScheduleRepository
	appointmentRepo AppointmentRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса workflow
func NewService(
	sessions SessionStore,
	scheduleRepo ScheduleRepository,
	appointmentRepo AppointmentRepository,
	logger Logger,
) *Service {
	return &Service{
		sessions:        sessions,
		scheduleRepo:    scheduleRepo,
		appointmentRepo: appointmentRepo,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// StartSession создает новую сессию бронирования для специалиста.
// Ключ идемпотентности выдается один раз на сессию и переживает повторные
// попытки подтверждения.
func (s *Service) StartSession(ctx context.Context, providerID int64) (*models.SessionResponse, error) {
	if providerID <= 0 {
		return nil, fmt.Errorf("%w: providerId must be positive", ErrInvalidInput)
	}

	// Проверяем, что у специалиста есть расписание
	if _, err := s.scheduleRepo.GetConfig(ctx, providerID); err != nil {
		if errors.Is(err, scheduleRepo.ErrConfigNotFound) {
			s.logger.Warn("StartSession: provider %d has no schedule", providerID)
			return nil, ErrProviderNotFound
		}
		s.logger.Error("StartSession: failed to load schedule for provider %d: %v", providerID, err)
		return nil, fmt.Errorf("%w: failed to load schedule: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	sess := &domain.BookingSession{
		ID:             uuid.NewString(),
		ProviderID:     providerID,
		State:          domain.StateSelectingDate,
		IdempotencyKey: uuid.NewString(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.sessions.Save(ctx, sess); err != nil {
		s.logger.Error("StartSession: failed to save session: %v", err)
		return nil, fmt.Errorf("%w: failed to save session: %v", ErrInternal, err)
	}

	s.logger.Info("StartSession: session %s started for provider %d", sess.ID, providerID)
	return models.FromDomainSession(sess), nil
}

// GetSession возвращает текущий снимок сессии
func (s *Service) GetSession(ctx context.Context, sessionID string) (*models.SessionResponse, error) {
	sess, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return models.FromDomainSession(sess), nil
}

// SelectDate фиксирует выбранную дату и переводит сессию к выбору слота.
// Дата без единого доступного слота отклоняется, сессия не меняется.
func (s *Service) SelectDate(ctx context.Context, sessionID string, date time.Time) (*models.SessionResponse, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	sess, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// Дату можно выбирать заново, пока слот не подтверждён; после неудачного
	// подтверждения сессия возвращается к выбору через обновление доступности
	if sess.State != domain.StateSelectingDate && sess.State != domain.StateSelectingSlot &&
		sess.State != domain.StateFailed {
		return nil, s.illegalTransition(sess, "selectDate")
	}

	slots, err := s.daySlots(ctx, sess.ProviderID, date, domain.ModalityOnline)
	if err != nil {
		return nil, err
	}

	if !domain.HasAvailableSlots(slots) {
		s.logger.Warn("SelectDate: session %s picked date %s with no available slots",
			sess.ID, date.Format(domain.DateFormat))
		return nil, ErrNoSlotsAvailable
	}

	selected := domain.DateOnly(date)
	sess.SelectedDate = &selected
	sess.SelectedSlot = nil
	sess.FailureReason = nil
	sess.State = domain.StateSelectingSlot
	sess.UpdatedAt = s.timeProvider.Now()

	if err := s.saveSession(ctx, sess); err != nil {
		return nil, err
	}

	s.logger.Info("SelectDate: session %s selected date %s", sess.ID, selected.Format(domain.DateFormat))
	return models.FromDomainSession(sess), nil
}

// SelectSlot фиксирует выбранный слот и переводит сессию к вводу данных пациента.
// Недоступный слот отклоняется с причиной блокировки.
func (s *Service) SelectSlot(ctx context.Context, sessionID string, req *models.SelectSlotRequest) (*models.SessionResponse, error) {
	if !req.Modality.Valid() {
		return nil, fmt.Errorf("%w: unknown modality %q", ErrInvalidInput, req.Modality)
	}

	sess, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// Из failed сессия возвращается к выбору слота после обновления доступности
	if (sess.State != domain.StateSelectingSlot && sess.State != domain.StateFailed) ||
		sess.SelectedDate == nil {
		return nil, s.illegalTransition(sess, "selectSlot")
	}

	slots, err := s.daySlots(ctx, sess.ProviderID, *sess.SelectedDate, req.Modality)
	if err != nil {
		return nil, err
	}

	var picked *domain.TimeSlot
	for i := range slots {
		if slots[i].StartMinute == req.StartMinute {
			picked = &slots[i]
			break
		}
	}

	if picked == nil {
		s.logger.Warn("SelectSlot: session %s picked start=%d absent from the day schedule", sess.ID, req.StartMinute)
		return nil, ErrSlotNotFound
	}

	if !picked.IsAvailable {
		reason := domain.ReasonConflict
		if picked.BlockReason != nil {
			reason = *picked.BlockReason
		}
		s.logger.Warn("SelectSlot: session %s picked blocked slot start=%d reason=%s", sess.ID, req.StartMinute, reason)
		return nil, &domain.SlotUnavailableError{Reason: reason}
	}

	sess.SelectedSlot = picked
	sess.FailureReason = nil
	sess.State = domain.StateEnteringPatientData
	sess.UpdatedAt = s.timeProvider.Now()

	if err := s.saveSession(ctx, sess); err != nil {
		return nil, err
	}

	s.logger.Info("SelectSlot: session %s selected slot start=%d modality=%s", sess.ID, req.StartMinute, req.Modality)
	return models.FromDomainSession(sess), nil
}

// SubmitPatientForm валидирует форму пациента и переводит сессию к
// подтверждению. Все нарушения правил возвращаются разом, сессия при
// невалидной форме не меняется.
func (s *Service) SubmitPatientForm(ctx context.Context, sessionID string, form *domain.PatientForm) (*models.SessionResponse, []models.FieldErrorResponse, error) {
	sess, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	if sess.State != domain.StateEnteringPatientData {
		return nil, nil, s.illegalTransition(sess, "submitPatientForm")
	}

	if violations := form.Validate(s.timeProvider.Now()); len(violations) > 0 {
		s.logger.Warn("SubmitPatientForm: session %s form rejected with %d violations", sess.ID, len(violations))
		return nil, models.FromDomainFieldErrors(violations), nil
	}

	sess.PatientForm = form
	sess.State = domain.StateReviewingConfirmation
	sess.UpdatedAt = s.timeProvider.Now()

	if err := s.saveSession(ctx, sess); err != nil {
		return nil, nil, err
	}

	s.logger.Info("SubmitPatientForm: session %s moved to review", sess.ID)
	return models.FromDomainSession(sess), nil, nil
}

// Back возвращает сессию с экрана подтверждения к правке формы.
// Выбранные дата, слот и введённые данные сохраняются.
func (s *Service) Back(ctx context.Context, sessionID string) (*models.SessionResponse, error) {
	sess, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if sess.State != domain.StateReviewingConfirmation {
		return nil, s.illegalTransition(sess, "back")
	}

	sess.State = domain.StateEnteringPatientData
	sess.UpdatedAt = s.timeProvider.Now()

	if err := s.saveSession(ctx, sess); err != nil {
		return nil, err
	}

	s.logger.Info("Back: session %s returned to patient data entry", sess.ID)
	return models.FromDomainSession(sess), nil
}

// Abandon удаляет незавершённую сессию. Подтверждённая сессия не удаляется:
// её запись уже существует и управляется через операции с записями.
func (s *Service) Abandon(ctx context.Context, sessionID string) error {
	sess, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return err
	}

	if sess.IsTerminal() {
		return ErrSessionCompleted
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		s.logger.Error("Abandon: failed to delete session %s: %v", sessionID, err)
		return fmt.Errorf("%w: failed to delete session: %v", ErrInternal, err)
	}

	s.logger.Info("Abandon: session %s deleted", sessionID)
	return nil
}

// daySlots собирает слоты дня с рассчитанной доступностью
func (s *Service) daySlots(ctx context.Context, providerID int64, date time.Time, modality domain.Modality) ([]domain.TimeSlot, error) {
	cfg, err := s.scheduleRepo.GetConfig(ctx, providerID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrConfigNotFound) {
			return nil, ErrProviderNotFound
		}
		s.logger.Error("daySlots: failed to load schedule for provider %d: %v", providerID, err)
		return nil, fmt.Errorf("%w: failed to load schedule: %v", ErrInternal, err)
	}

	appointments, err := s.appointmentRepo.GetByProviderAndDate(ctx, providerID, domain.DateOnly(date), true)
	if err != nil {
		s.logger.Error("daySlots: failed to load appointments for provider %d: %v", providerID, err)
		return nil, fmt.Errorf("%w: failed to load appointments: %v", ErrInternal, err)
	}

	candidates := domain.GenerateSlots(cfg, date, modality)
	return domain.ResolveAvailability(candidates, cfg, appointments, s.timeProvider.Now()), nil
}

func (s *Service) loadSession(ctx context.Context, sessionID string) (*domain.BookingSession, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: sessionId is required", ErrInvalidInput)
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		s.logger.Error("loadSession: failed to load session %s: %v", sessionID, err)
		return nil, fmt.Errorf("%w: failed to load session: %v", ErrInternal, err)
	}

	return sess, nil
}

func (s *Service) saveSession(ctx context.Context, sess *domain.BookingSession) error {
	if err := s.sessions.Save(ctx, sess); err != nil {
		s.logger.Error("saveSession: failed to save session %s: %v", sess.ID, err)
		return fmt.Errorf("%w: failed to save session: %v", ErrInternal, err)
	}
	return nil
}

func (s *Service) illegalTransition(sess *domain.BookingSession, op string) error {
	s.logger.Warn("%s: illegal transition from state %s for session %s", op, sess.State, sess.ID)
	if sess.IsTerminal() {
		return ErrSessionCompleted
	}
	return fmt.Errorf("%w: %s from state %s", ErrIllegalTransition, op, sess.State)
}
