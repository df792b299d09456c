package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// DBExecutor интерфейс для работы с БД (см. pkg/dbmetrics)
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий конфигурации расписания специалиста
// Конфигурация собирается из четырёх таблиц: working_hours (строка на день
// недели), schedule_exceptions (NULL start_minute = заблокирована вся дата),
// booking_policies и session_prices.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetConfig собирает полный снимок конфигурации специалиста
// Возвращает ErrConfigNotFound, если нет ни одного дня рабочих часов.
// Отсутствующая политика заменяется значениями по умолчанию.
func (r *Repository) GetConfig(ctx context.Context, providerID int64) (*domain.ScheduleConfig, error) {
	weekly, found, err := r.loadWorkingHours(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrConfigNotFound
	}

	blockedDates, blockedTimes, err := r.loadExceptions(ctx, providerID)
	if err != nil {
		return nil, err
	}

	policy, err := r.loadPolicy(ctx, providerID)
	if err != nil {
		return nil, err
	}

	prices, err := r.loadPrices(ctx, providerID)
	if err != nil {
		return nil, err
	}

	return &domain.ScheduleConfig{
		ProviderID:   providerID,
		Weekly:       weekly,
		BlockedDates: blockedDates,
		BlockedTimes: blockedTimes,
		Policy:       policy,
		Prices:       prices,
	}, nil
}

// ReplaceConfig полностью заменяет конфигурацию специалиста
// Вызывающая сторона оборачивает вызов в транзакцию.
func (r *Repository) ReplaceConfig(ctx context.Context, cfg *domain.ScheduleConfig) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	for _, table := range []string{"working_hours", "schedule_exceptions", "booking_policies", "session_prices"} {
		query, args, err := psqlbuilder.Delete(table).
			Where(squirrel.Eq{"provider_id": cfg.ProviderID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: ReplaceConfig - build delete %s: %v", ErrBuildQuery, table, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: ReplaceConfig - delete %s: %v", ErrExecQuery, table, err)
		}
	}

	if err := r.insertWorkingHours(ctx, executor, cfg); err != nil {
		return err
	}
	if err := r.insertExceptions(ctx, executor, cfg); err != nil {
		return err
	}
	if err := r.insertPolicy(ctx, executor, cfg); err != nil {
		return err
	}
	return r.insertPrices(ctx, executor, cfg)
}

func (r *Repository) loadWorkingHours(ctx context.Context, providerID int64) (domain.WeeklySchedule, bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var weekly domain.WeeklySchedule

	query, args, err := psqlbuilder.Select(
		"weekday",
		"start_minute",
		"end_minute",
		"lunch_start_minute",
		"lunch_end_minute",
	).
		From("working_hours").
		Where(squirrel.Eq{"provider_id": providerID}).
		ToSql()

	if err != nil {
		return weekly, false, fmt.Errorf("%w: loadWorkingHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return weekly, false, fmt.Errorf("%w: loadWorkingHours - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	found := false
	for rows.Next() {
		var (
			weekday            int
			day                domain.DaySchedule
			lunchStart, lunchEnd sql.NullInt64
		)

		if err := rows.Scan(&weekday, &day.StartMinute, &day.EndMinute, &lunchStart, &lunchEnd); err != nil {
			return weekly, false, fmt.Errorf("%w: loadWorkingHours - scan row: %v", ErrScanRow, err)
		}

		if lunchStart.Valid && lunchEnd.Valid {
			ls := int(lunchStart.Int64)
			le := int(lunchEnd.Int64)
			day.LunchStartMinute = &ls
			day.LunchEndMinute = &le
		}

		daySchedule := day
		weekly.SetDay(time.Weekday(weekday), &daySchedule)
		found = true
	}

	if err := rows.Err(); err != nil {
		return weekly, false, fmt.Errorf("%w: loadWorkingHours - rows error: %v", ErrScanRow, err)
	}

	return weekly, found, nil
}

func (r *Repository) loadExceptions(ctx context.Context, providerID int64) ([]time.Time, []domain.BlockedTime, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("exception_date", "start_minute").
		From("schedule_exceptions").
		Where(squirrel.Eq{"provider_id": providerID}).
		OrderBy("exception_date ASC, start_minute ASC NULLS FIRST").
		ToSql()

	if err != nil {
		return nil, nil, fmt.Errorf("%w: loadExceptions - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: loadExceptions - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	blockedDates := make([]time.Time, 0)
	blockedTimes := make([]domain.BlockedTime, 0)

	for rows.Next() {
		var (
			date        time.Time
			startMinute sql.NullInt64
		)

		if err := rows.Scan(&date, &startMinute); err != nil {
			return nil, nil, fmt.Errorf("%w: loadExceptions - scan row: %v", ErrScanRow, err)
		}

		if startMinute.Valid {
			blockedTimes = append(blockedTimes, domain.BlockedTime{Date: date, StartMinute: int(startMinute.Int64)})
		} else {
			blockedDates = append(blockedDates, date)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w: loadExceptions - rows error: %v", ErrScanRow, err)
	}

	return blockedDates, blockedTimes, nil
}

func (r *Repository) loadPolicy(ctx context.Context, providerID int64) (domain.CancellationPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"cancellation_hours",
		"rescheduling_hours",
		"advance_booking_days",
		"buffer_minutes",
		"step_minutes",
		"session_duration_minutes",
	).
		From("booking_policies").
		Where(squirrel.Eq{"provider_id": providerID}).
		ToSql()

	if err != nil {
		return domain.CancellationPolicy{}, fmt.Errorf("%w: loadPolicy - build select query: %v", ErrBuildQuery, err)
	}

	var policy domain.CancellationPolicy
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&policy.CancellationHours,
		&policy.ReschedulingHours,
		&policy.AdvanceBookingDays,
		&policy.BufferMinutes,
		&policy.StepMinutes,
		&policy.SessionDurationMinutes,
	)

	if err == sql.ErrNoRows {
		return domain.DefaultPolicy(), nil
	}
	if err != nil {
		return domain.CancellationPolicy{}, fmt.Errorf("%w: loadPolicy - scan policy: %v", ErrScanRow, err)
	}

	return policy, nil
}

func (r *Repository) loadPrices(ctx context.Context, providerID int64) (map[domain.Modality]float64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("modality", "price").
		From("session_prices").
		Where(squirrel.Eq{"provider_id": providerID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: loadPrices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: loadPrices - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	prices := make(map[domain.Modality]float64)
	for rows.Next() {
		var (
			modality string
			price    float64
		)
		if err := rows.Scan(&modality, &price); err != nil {
			return nil, fmt.Errorf("%w: loadPrices - scan row: %v", ErrScanRow, err)
		}
		prices[domain.Modality(modality)] = price
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: loadPrices - rows error: %v", ErrScanRow, err)
	}

	return prices, nil
}

func (r *Repository) insertWorkingHours(ctx context.Context, executor DBExecutor, cfg *domain.ScheduleConfig) error {
	for weekday, day := range cfg.Weekly.Days() {
		if day == nil {
			continue
		}

		query, args, err := psqlbuilder.Insert("working_hours").
			Columns("provider_id", "weekday", "start_minute", "end_minute", "lunch_start_minute", "lunch_end_minute").
			Values(cfg.ProviderID, int(weekday), day.StartMinute, day.EndMinute, day.LunchStartMinute, day.LunchEndMinute).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: insertWorkingHours - build insert query: %v", ErrBuildQuery, err)
		}

		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: insertWorkingHours - execute insert: %v", ErrExecQuery, err)
		}
	}
	return nil
}

func (r *Repository) insertExceptions(ctx context.Context, executor DBExecutor, cfg *domain.ScheduleConfig) error {
	for _, date := range cfg.BlockedDates {
		query, args, err := psqlbuilder.Insert("schedule_exceptions").
			Columns("provider_id", "exception_date", "start_minute").
			Values(cfg.ProviderID, date, nil).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: insertExceptions - build insert query: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: insertExceptions - execute insert: %v", ErrExecQuery, err)
		}
	}

	for _, blocked := range cfg.BlockedTimes {
		query, args, err := psqlbuilder.Insert("schedule_exceptions").
			Columns("provider_id", "exception_date", "start_minute").
			Values(cfg.ProviderID, blocked.Date, blocked.StartMinute).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: insertExceptions - build insert query: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: insertExceptions - execute insert: %v", ErrExecQuery, err)
		}
	}

	return nil
}

func (r *Repository) insertPolicy(ctx context.Context, executor DBExecutor, cfg *domain.ScheduleConfig) error {
	query, args, err := psqlbuilder.Insert("booking_policies").
		Columns(
			"provider_id",
			"cancellation_hours",
			"rescheduling_hours",
			"advance_booking_days",
			"buffer_minutes",
			"step_minutes",
			"session_duration_minutes",
		).
		Values(
			cfg.ProviderID,
			cfg.Policy.CancellationHours,
			cfg.Policy.ReschedulingHours,
			cfg.Policy.AdvanceBookingDays,
			cfg.Policy.BufferMinutes,
			cfg.Policy.StepMinutes,
			cfg.Policy.SessionDurationMinutes,
		).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: insertPolicy - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insertPolicy - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) insertPrices(ctx context.Context, executor DBExecutor, cfg *domain.ScheduleConfig) error {
	for modality, price := range cfg.Prices {
		query, args, err := psqlbuilder.Insert("session_prices").
			Columns("provider_id", "modality", "price").
			Values(cfg.ProviderID, string(modality), price).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: insertPrices - build insert query: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: insertPrices - execute insert: %v", ErrExecQuery, err)
		}
	}
	return nil
}
