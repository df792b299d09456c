package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// Service сервис для работы с существующими записями на приём
type Service struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// GetByID получает запись по ID
// Запись видна только её пациенту и её специалисту
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.AppointmentResponse, error) {
	appointment, err := s.loadAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkAccess(appointment, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", userID, id)
		return nil, err
	}

	return models.FromDomainAppointment(appointment), nil
}

// GetByPatient получает историю записей пациента
func (s *Service) GetByPatient(ctx context.Context, patientID int64) (*models.AppointmentListResponse, error) {
	items, err := s.appointmentRepo.GetByPatient(ctx, patientID)
	if err != nil {
		s.logger.Error("GetByPatient: repository error for patient=%d: %v", patientID, err)
		return nil, fmt.Errorf("%w: GetByPatient - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointments(items), nil
}

// Cancel отменяет запись с проверкой окна отмены.
// Сторона отмены определяет итоговый статус: пациент или специалист.
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelAppointmentRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: appointment id=%d by user=%d", id, req.UserID)

	appointment, err := s.loadAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkAccess(appointment, req.UserID); err != nil {
		s.logger.Warn("Cancel: access denied for user=%d to appointment id=%d", req.UserID, id)
		return nil, err
	}

	if !appointment.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d in status %s cannot be cancelled", id, appointment.Status)
		return nil, fmt.Errorf("%w: status=%s", ErrCannotCancel, appointment.Status)
	}

	now := s.timeProvider.Now()

	// Отмена специалистом не ограничена окном; пациент связан политикой
	status := domain.StatusCancelledByProvider
	if req.UserID == appointment.PatientID {
		status = domain.StatusCancelledByPatient

		policy, err := s.loadPolicy(ctx, appointment.ProviderID)
		if err != nil {
			return nil, err
		}

		if err := domain.ValidateCancellation(appointment, now, policy); err != nil {
			s.logger.Warn("Cancel: policy window violated for appointment id=%d: %v", id, err)
			return nil, err
		}
	}

	if err := s.appointmentRepo.Cancel(ctx, id, status, req.CancellationReason); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	updated, err := s.loadAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: appointment id=%d cancelled with status %s", id, status)
	return models.FromDomainAppointment(updated), nil
}

// Reschedule переносит запись на новый слот.
// Окно переноса проверяется по политике специалиста, целевой слот
// резервируется в сериализуемой транзакции.
func (s *Service) Reschedule(ctx context.Context, id int64, req *models.RescheduleAppointmentRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Reschedule: appointment id=%d by user=%d to %s start=%d",
		id, req.UserID, req.Date.Format(domain.DateFormat), req.StartMinute)

	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	appointment, err := s.loadAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkAccess(appointment, req.UserID); err != nil {
		s.logger.Warn("Reschedule: access denied for user=%d to appointment id=%d", req.UserID, id)
		return nil, err
	}

	if !appointment.CanBeRescheduled() {
		s.logger.Warn("Reschedule: appointment id=%d in status %s cannot be rescheduled", id, appointment.Status)
		return nil, fmt.Errorf("%w: status=%s", ErrCannotReschedule, appointment.Status)
	}

	now := s.timeProvider.Now()

	cfg, err := s.loadConfig(ctx, appointment.ProviderID)
	if err != nil {
		return nil, err
	}

	// Окно переноса связывает только пациента
	if req.UserID == appointment.PatientID {
		if err := domain.ValidateReschedule(appointment, now, cfg.Policy); err != nil {
			s.logger.Warn("Reschedule: policy window violated for appointment id=%d: %v", id, err)
			return nil, err
		}
	}

	targetDate := domain.DateOnly(req.Date)

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Перечитываем записи целевого дня с блокировкой (FOR UPDATE)
		dayAppointments, err := s.appointmentRepo.GetByProviderAndDate(txCtx, appointment.ProviderID, targetDate, true)
		if err != nil {
			return fmt.Errorf("%w: failed to load appointments: %v", ErrInternal, err)
		}

		// Сама переносимая запись не конкурирует за свой новый слот
		others := make([]*domain.Appointment, 0, len(dayAppointments))
		for _, a := range dayAppointments {
			if a.ID != appointment.ID {
				others = append(others, a)
			}
		}

		candidates := domain.GenerateSlots(cfg, targetDate, appointment.Modality)
		resolved := domain.ResolveAvailability(candidates, cfg, others, now)

		var target *domain.TimeSlot
		for i := range resolved {
			if resolved[i].StartMinute == req.StartMinute {
				target = &resolved[i]
				break
			}
		}

		if target == nil {
			return fmt.Errorf("%w: start=%d is not in the day schedule", ErrSlotNotAvailable, req.StartMinute)
		}
		if !target.IsAvailable {
			reason := "blocked"
			if target.BlockReason != nil {
				reason = string(*target.BlockReason)
			}
			return fmt.Errorf("%w: %s", ErrSlotNotAvailable, reason)
		}

		if err := s.appointmentRepo.Reschedule(txCtx, id, targetDate, req.StartMinute); err != nil {
			return fmt.Errorf("%w: Reschedule - repository error: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, ErrSlotNotAvailable) {
			return nil, err
		}
		s.logger.Error("Reschedule: transaction failed for appointment id=%d: %v", id, err)
		return nil, err
	}

	updated, err := s.loadAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Reschedule: appointment id=%d moved to %s start=%d",
		id, targetDate.Format(domain.DateFormat), req.StartMinute)
	return models.FromDomainAppointment(updated), nil
}

// MarkOutcome фиксирует исход состоявшегося приёма: completed или no_show.
// Доступно только специалисту и только после начала приёма.
func (s *Service) MarkOutcome(ctx context.Context, id int64, req *models.MarkOutcomeRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("MarkOutcome: appointment id=%d by user=%d status=%s", id, req.UserID, req.Status)

	status := domain.AppointmentStatus(req.Status)
	if status != domain.StatusCompleted && status != domain.StatusNoShow {
		return nil, fmt.Errorf("%w: unknown outcome status %q", ErrInvalidInput, req.Status)
	}

	appointment, err := s.loadAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.UserID != appointment.ProviderID {
		s.logger.Warn("MarkOutcome: access denied for user=%d to appointment id=%d", req.UserID, id)
		return nil, ErrAccessDenied
	}

	if appointment.Status != domain.StatusConfirmed {
		s.logger.Warn("MarkOutcome: appointment id=%d in status %s has no pending outcome", id, appointment.Status)
		return nil, fmt.Errorf("%w: status=%s", ErrCannotMarkOutcome, appointment.Status)
	}

	if s.timeProvider.Now().Before(appointment.StartAt()) {
		s.logger.Warn("MarkOutcome: appointment id=%d has not started yet", id)
		return nil, fmt.Errorf("%w: appointment has not started", ErrCannotMarkOutcome)
	}

	if err := s.appointmentRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("MarkOutcome: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: MarkOutcome - repository error: %v", ErrInternal, err)
	}

	updated, err := s.loadAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("MarkOutcome: appointment id=%d marked %s", id, status)
	return models.FromDomainAppointment(updated), nil
}

func (s *Service) loadAppointment(ctx context.Context, id int64) (*domain.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("loadAppointment: repository error for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}
	return appointment, nil
}

func (s *Service) loadConfig(ctx context.Context, providerID int64) (*domain.ScheduleConfig, error) {
	cfg, err := s.scheduleRepo.GetConfig(ctx, providerID)
	if err != nil {
		s.logger.Error("loadConfig: failed to load schedule for provider %d: %v", providerID, err)
		return nil, fmt.Errorf("%w: failed to load schedule config: %v", ErrInternal, err)
	}
	return cfg, nil
}

func (s *Service) loadPolicy(ctx context.Context, providerID int64) (domain.CancellationPolicy, error) {
	cfg, err := s.loadConfig(ctx, providerID)
	if err != nil {
		return domain.CancellationPolicy{}, err
	}
	return cfg.Policy, nil
}

// checkAccess проверяет, что пользователь является стороной записи
func (s *Service) checkAccess(appointment *domain.Appointment, userID int64) error {
	if userID == appointment.PatientID || userID == appointment.ProviderID {
		return nil
	}
	return ErrAccessDenied
}
