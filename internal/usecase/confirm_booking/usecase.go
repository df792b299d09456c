package confirm_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/session"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifications"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/patientdirectory"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// UseCase подтверждение бронирования: резервирование слота в сериализуемой
// транзакции с идемпотентным повтором по ключу сессии
type UseCase struct {
	sessions     SessionStore
	appointments AppointmentRepository
	scheduleRepo ScheduleRepository
	patients     PatientDirectoryClient
	payments     PaymentGateway
	notifier     NotificationPublisher
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// payments и notifier могут быть nil, если соответствующие интеграции выключены
func NewUseCase(
	sessions SessionStore,
	appointments AppointmentRepository,
	scheduleRepo ScheduleRepository,
	patients PatientDirectoryClient,
	payments PaymentGateway,
	notifier NotificationPublisher,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		sessions:     sessions,
		appointments: appointments,
		scheduleRepo: scheduleRepo,
		patients:     patients,
		payments:     payments,
		notifier:     notifier,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет подтверждение бронирования.
// Повторный вызов с той же сессией после сбоя безопасен: ключ идемпотентности
// сессии гарантирует, что запись будет создана не более одного раза.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmBooking: session=%s", req.SessionID)

	// 1. Загружаем сессию
	sess, err := uc.sessions.Get(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			uc.logger.Warn("ConfirmBooking: session %s not found", req.SessionID)
			return nil, ErrSessionNotFound
		}
		uc.logger.Error("ConfirmBooking: failed to load session %s: %v", req.SessionID, err)
		return nil, fmt.Errorf("%w: failed to load session: %v", ErrInternal, err)
	}

	// 2. Подтверждать можно из review, после неудачной попытки,
	// а также повторно после успеха (тот же ключ идемпотентности)
	if !sess.CanConfirm() {
		uc.logger.Warn("ConfirmBooking: session %s in state %s cannot be confirmed", sess.ID, sess.State)
		return nil, fmt.Errorf("%w: state=%s", ErrIllegalState, sess.State)
	}
	if sess.SelectedDate == nil || sess.SelectedSlot == nil || sess.PatientForm == nil {
		uc.logger.Warn("ConfirmBooking: session %s is missing selection data", sess.ID)
		return nil, fmt.Errorf("%w: incomplete session", ErrIllegalState)
	}

	now := uc.timeProvider.Now()

	// 3. Переводим сессию в submitting
	sess.State = domain.StateSubmitting
	sess.UpdatedAt = now
	if err := uc.sessions.Save(ctx, sess); err != nil {
		uc.logger.Error("ConfirmBooking: failed to save session %s: %v", sess.ID, err)
		return nil, fmt.Errorf("%w: failed to save session: %v", ErrInternal, err)
	}

	// 4. Находим или создаём пациента в справочнике — вне транзакции резервирования
	form := sess.PatientForm
	patient, err := uc.patients.CreateOrFindPatient(ctx, form.Name, form.Email, form.Phone)
	if err != nil {
		if errors.Is(err, patientdirectory.ErrPatientRejected) {
			uc.logger.Warn("ConfirmBooking: patient directory rejected form for session %s: %v", sess.ID, err)
			uc.failSession(ctx, sess, "patient directory rejected the form data")
			return nil, ErrPatientRejected
		}
		uc.logger.Error("ConfirmBooking: patient directory call failed for session %s: %v", sess.ID, err)
		uc.failSession(ctx, sess, "patient directory is unavailable")
		return nil, fmt.Errorf("%w: patient directory: %v", ErrInternal, err)
	}

	slot := *sess.SelectedSlot
	var (
		created *domain.Appointment
		reused  bool
	)

	// 5. Резервируем слот в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Идемпотентность: повторное подтверждение возвращает уже созданную запись
		existing, err := uc.appointments.GetByIdempotencyKey(txCtx, sess.IdempotencyKey)
		if err == nil {
			uc.logger.Info("ConfirmBooking: idempotent retry, reusing appointment id=%d", existing.ID)
			created = existing
			reused = true
			return nil
		}
		if !errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return fmt.Errorf("%w: idempotency lookup: %v", ErrInternal, err)
		}

		// 5.2. Загружаем актуальную конфигурацию расписания
		cfg, err := uc.scheduleRepo.GetConfig(txCtx, sess.ProviderID)
		if err != nil {
			return fmt.Errorf("%w: failed to load schedule config: %v", ErrInternal, err)
		}

		// 5.3. Перечитываем записи дня с блокировкой (FOR UPDATE)
		appointments, err := uc.appointments.GetByProviderAndDate(txCtx, sess.ProviderID, slot.Date, true)
		if err != nil {
			return fmt.Errorf("%w: failed to load appointments: %v", ErrInternal, err)
		}

		// 5.4. Повторно проверяем доступность выбранного слота на момент подтверждения
		resolved := domain.ResolveAvailability([]domain.TimeSlot{slot}, cfg, appointments, now)
		if len(resolved) == 0 || !resolved[0].IsAvailable {
			reason := "slot is no longer available"
			if len(resolved) > 0 && resolved[0].BlockReason != nil {
				reason = string(*resolved[0].BlockReason)
			}
			return fmt.Errorf("%w: %s", ErrSlotConflict, reason)
		}

		// 5.5. Создаем запись
		appointment := &domain.Appointment{
			ProviderID:      sess.ProviderID,
			PatientID:       patient.ID,
			Date:            slot.Date,
			StartMinute:     slot.StartMinute,
			DurationMinutes: slot.DurationMinutes,
			Modality:        slot.Modality,
			Price:           slot.Price,
			Status:          domain.StatusConfirmed,
			IdempotencyKey:  sess.IdempotencyKey,
			Notes:           form.Notes,
		}

		created, err = uc.appointments.Create(txCtx, appointment)
		if err != nil {
			// Уникальный индекс активного слота — последний рубеж против двойного бронирования
			if errors.Is(err, appointmentRepo.ErrSlotTaken) {
				return fmt.Errorf("%w: active slot index rejected the insert", ErrSlotConflict)
			}
			if errors.Is(err, appointmentRepo.ErrDuplicateIdempotencyKey) {
				existing, lookupErr := uc.appointments.GetByIdempotencyKey(txCtx, sess.IdempotencyKey)
				if lookupErr != nil {
					return fmt.Errorf("%w: duplicate key re-read: %v", ErrInternal, lookupErr)
				}
				created = existing
				reused = true
				return nil
			}
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, ErrSlotConflict) {
			uc.logger.Warn("ConfirmBooking: slot conflict for session %s: %v", sess.ID, err)
			uc.failSession(ctx, sess, "selected slot was taken before confirmation")
			return nil, err
		}
		uc.logger.Error("ConfirmBooking: reservation failed for session %s: %v", sess.ID, err)
		uc.failSession(ctx, sess, "reservation failed")
		return nil, err
	}

	// 6. Терминальный переход сессии
	sess.State = domain.StateConfirmed
	sess.AppointmentID = &created.ID
	sess.FailureReason = nil
	sess.UpdatedAt = uc.timeProvider.Now()
	if err := uc.sessions.Save(ctx, sess); err != nil {
		// Запись уже зафиксирована — источником истины остаётся БД
		uc.logger.Error("ConfirmBooking: failed to save confirmed session %s: %v", sess.ID, err)
	}

	// 7. Платёжная ссылка и уведомление — best effort после фиксации брони.
	// Повтор подтверждения возвращает исходный результат: уже выданная
	// ссылка переиспользуется, событие повторно не публикуется
	var paymentURL *string
	if reused {
		paymentURL = created.PaymentLinkURL
	} else {
		paymentURL = uc.issuePaymentLink(ctx, created)
		uc.publishConfirmation(ctx, created, patient, paymentURL)
	}

	uc.logger.Info("ConfirmBooking: session %s confirmed, appointment id=%d", sess.ID, created.ID)

	return &Response{
		AppointmentID:   created.ID,
		SessionState:    sess.State,
		ProviderID:      created.ProviderID,
		PatientID:       created.PatientID,
		Date:            created.Date,
		StartMinute:     created.StartMinute,
		StartTime:       types.FormatClock(created.StartMinute),
		DurationMinutes: created.DurationMinutes,
		Modality:        string(created.Modality),
		Price:           created.Price,
		Status:          string(created.Status),
		PaymentLinkURL:  paymentURL,
		CreatedAt:       created.CreatedAt,
	}, nil
}

// failSession переводит сессию в failed, сохраняя причину.
// Ключ идемпотентности сохраняется — повторный confirm безопасен.
func (uc *UseCase) failSession(ctx context.Context, sess *domain.BookingSession, reason string) {
	sess.State = domain.StateFailed
	sess.FailureReason = &reason
	sess.UpdatedAt = uc.timeProvider.Now()

	if err := uc.sessions.Save(ctx, sess); err != nil {
		uc.logger.Error("ConfirmBooking: failed to save failed session %s: %v", sess.ID, err)
	}
}

// issuePaymentLink создаёт платёжную ссылку после фиксации брони.
// Сбой шлюза не откатывает запись: ссылку можно выставить повторно вручную.
func (uc *UseCase) issuePaymentLink(ctx context.Context, appointment *domain.Appointment) *string {
	if uc.payments == nil {
		return nil
	}

	description := fmt.Sprintf("Appointment %d on %s at %s",
		appointment.ID, appointment.Date.Format(domain.DateFormat), types.FormatClock(appointment.StartMinute))

	link, err := uc.payments.CreatePaymentLink(ctx, appointment.Price, description)
	if err != nil {
		uc.logger.Error("ConfirmBooking: failed to create payment link for appointment %d: %v", appointment.ID, err)
		return nil
	}

	if err := uc.appointments.SetPaymentLink(ctx, appointment.ID, link.URL); err != nil {
		uc.logger.Error("ConfirmBooking: failed to store payment link for appointment %d: %v", appointment.ID, err)
	}

	return &link.URL
}

// publishConfirmation отправляет событие подтверждения в сервис уведомлений.
// Сбой публикации логируется, бронь остаётся подтверждённой.
func (uc *UseCase) publishConfirmation(ctx context.Context, appointment *domain.Appointment, patient *patientdirectory.Patient, paymentURL *string) {
	if uc.notifier == nil {
		return
	}

	event := notifications.ConfirmationEvent{
		AppointmentID: appointment.ID,
		ProviderID:    appointment.ProviderID,
		PatientEmail:  patient.Email,
		PatientPhone:  patient.Phone,
		Date:          appointment.Date.Format(domain.DateFormat),
		StartTime:     types.FormatClock(appointment.StartMinute),
		Modality:      string(appointment.Modality),
		PaymentURL:    paymentURL,
		OccurredAt:    uc.timeProvider.Now(),
	}

	if err := uc.notifier.PublishConfirmation(ctx, event); err != nil {
		uc.logger.Error("ConfirmBooking: failed to publish confirmation for appointment %d: %v", appointment.ID, err)
	}
}
