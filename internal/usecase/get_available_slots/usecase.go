package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
)

// UseCase получение слотов специалиста на дату с расчётом доступности
type UseCase struct {
	scheduleRepo    ScheduleRepository
	appointmentRepo AppointmentRepository
	timeProvider    TimeProvider
	logger          Logger
}

func NewUseCase(
	scheduleRepo ScheduleRepository,
	appointmentRepo AppointmentRepository,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		scheduleRepo:    scheduleRepo,
		appointmentRepo: appointmentRepo,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// Execute возвращает все слоты дня с флагами доступности.
// Слоты генерируются из недельного шаблона, затем каждый помечается
// первой сработавшей причиной блокировки.
func (uc *UseCase) Execute(ctx context.Context, req Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	date := domain.DateOnly(req.Date)

	cfg, err := uc.scheduleRepo.GetConfig(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, schedule.ErrConfigNotFound) {
			uc.logger.Warn("[GetAvailableSlots] Расписание не найдено: providerID=%d", req.ProviderID)
			return nil, fmt.Errorf("%w: provider %d", ErrProviderNotFound, req.ProviderID)
		}
		uc.logger.Error("[GetAvailableSlots] Ошибка загрузки расписания: providerID=%d, error=%v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to load schedule config: %v", ErrInternal, err)
	}

	appointments, err := uc.appointmentRepo.GetByProviderAndDate(ctx, req.ProviderID, date, true)
	if err != nil {
		uc.logger.Error("[GetAvailableSlots] Ошибка загрузки записей: providerID=%d, date=%s, error=%v",
			req.ProviderID, date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: failed to load appointments: %v", ErrInternal, err)
	}

	slots := domain.GenerateSlots(cfg, date, req.Modality)
	resolved := domain.ResolveAvailability(slots, cfg, appointments, uc.timeProvider.Now())

	uc.logger.Info("[GetAvailableSlots] Слоты рассчитаны: providerID=%d, date=%s, total=%d, available=%v",
		req.ProviderID, date.Format(domain.DateFormat), len(resolved), domain.HasAvailableSlots(resolved))

	return &Response{
		ProviderID:        req.ProviderID,
		Date:              date,
		Modality:          req.Modality,
		Slots:             fromDomainSlots(resolved),
		HasAvailableSlots: domain.HasAvailableSlots(resolved),
	}, nil
}
