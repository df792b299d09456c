package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
)

// Service сервис для работы с конфигурацией расписания специалиста
type Service struct {
	repo      ScheduleRepository
	txManager TransactionManager
	logger    Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(repo ScheduleRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		logger:    logger,
	}
}

// GetConfig возвращает конфигурацию расписания специалиста
func (s *Service) GetConfig(ctx context.Context, providerID int64) (*models.ScheduleConfigResponse, error) {
	if providerID <= 0 {
		return nil, fmt.Errorf("%w: providerId must be positive", ErrInvalidInput)
	}

	cfg, err := s.repo.GetConfig(ctx, providerID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrConfigNotFound) {
			s.logger.Warn("GetConfig: provider %d has no schedule", providerID)
			return nil, ErrConfigNotFound
		}
		s.logger.Error("GetConfig: repository error for provider %d: %v", providerID, err)
		return nil, fmt.Errorf("%w: GetConfig - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainConfig(cfg), nil
}

// UpdateConfig заменяет конфигурацию расписания целиком.
// Обновлять расписание может только сам специалист. Замена выполняется в
// сериализуемой транзакции: параллельное бронирование видит либо старую,
// либо новую конфигурацию, но не смесь.
func (s *Service) UpdateConfig(ctx context.Context, providerID int64, req *models.UpdateScheduleConfigRequest) (*models.ScheduleConfigResponse, error) {
	if providerID <= 0 {
		return nil, fmt.Errorf("%w: providerId must be positive", ErrInvalidInput)
	}

	if req.UserID != providerID {
		s.logger.Warn("UpdateConfig: user %d tried to update schedule of provider %d", req.UserID, providerID)
		return nil, ErrAccessDenied
	}

	cfg, err := req.ToDomainConfig(providerID)
	if err != nil {
		s.logger.Warn("UpdateConfig: bad request for provider %d: %v", providerID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := cfg.Validate(); err != nil {
		s.logger.Warn("UpdateConfig: invalid config for provider %d: %v", providerID, err)
		if errors.Is(err, domain.ErrInvalidSchedule) || errors.Is(err, domain.ErrInvalidPolicy) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := s.repo.ReplaceConfig(txCtx, cfg); err != nil {
			return fmt.Errorf("%w: ReplaceConfig - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("UpdateConfig: transaction failed for provider %d: %v", providerID, err)
		return nil, err
	}

	s.logger.Info("UpdateConfig: schedule replaced for provider %d", providerID)
	return models.FromDomainConfig(cfg), nil
}
