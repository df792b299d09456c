package models

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// weekdayNames порядок и имена дней недели в API
var weekdayNames = []struct {
	name string
	day  time.Weekday
}{
	{"monday", time.Monday},
	{"tuesday", time.Tuesday},
	{"wednesday", time.Wednesday},
	{"thursday", time.Thursday},
	{"friday", time.Friday},
	{"saturday", time.Saturday},
	{"sunday", time.Sunday},
}

// Request модели

// DayScheduleRequest рабочие часы одного дня недели
type DayScheduleRequest struct {
	Start      string  `json:"start"`
	End        string  `json:"end"`
	LunchStart *string `json:"lunchStart,omitempty"`
	LunchEnd   *string `json:"lunchEnd,omitempty"`
}

// BlockedTimeRequest заблокированное время на конкретную дату
type BlockedTimeRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
}

// PolicyRequest политика бронирования специалиста
type PolicyRequest struct {
	CancellationHours      int `json:"cancellationHours"`
	ReschedulingHours      int `json:"reschedulingHours"`
	AdvanceBookingDays     int `json:"advanceBookingDays"`
	BufferMinutes          int `json:"bufferMinutes"`
	StepMinutes            int `json:"stepMinutes"`
	SessionDurationMinutes int `json:"sessionDurationMinutes"`
}

// UpdateScheduleConfigRequest запрос на замену конфигурации расписания
type UpdateScheduleConfigRequest struct {
	UserID       int64                          `json:"userId"`
	Weekly       map[string]*DayScheduleRequest `json:"weekly"`
	BlockedDates []string                       `json:"blockedDates,omitempty"`
	BlockedTimes []BlockedTimeRequest           `json:"blockedTimes,omitempty"`
	Policy       PolicyRequest                  `json:"policy"`
	Prices       map[string]float64             `json:"prices"`
}

// ToDomainConfig конвертирует запрос в domain конфигурацию
func (r *UpdateScheduleConfigRequest) ToDomainConfig(providerID int64) (*domain.ScheduleConfig, error) {
	cfg := &domain.ScheduleConfig{
		ProviderID: providerID,
		Policy: domain.CancellationPolicy{
			CancellationHours:      r.Policy.CancellationHours,
			ReschedulingHours:      r.Policy.ReschedulingHours,
			AdvanceBookingDays:     r.Policy.AdvanceBookingDays,
			BufferMinutes:          r.Policy.BufferMinutes,
			StepMinutes:            r.Policy.StepMinutes,
			SessionDurationMinutes: r.Policy.SessionDurationMinutes,
		},
		Prices: make(map[domain.Modality]float64, len(r.Prices)),
	}

	for name, day := range r.Weekly {
		weekday, err := parseWeekday(name)
		if err != nil {
			return nil, err
		}
		if day == nil {
			continue
		}

		schedule, err := day.toDomain(name)
		if err != nil {
			return nil, err
		}
		cfg.Weekly.SetDay(weekday, schedule)
	}

	for _, raw := range r.BlockedDates {
		date, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, fmt.Errorf("blockedDates: invalid date %q", raw)
		}
		cfg.BlockedDates = append(cfg.BlockedDates, date)
	}

	for _, bt := range r.BlockedTimes {
		date, err := time.Parse(domain.DateFormat, bt.Date)
		if err != nil {
			return nil, fmt.Errorf("blockedTimes: invalid date %q", bt.Date)
		}
		minute, err := types.ParseClock(bt.StartTime)
		if err != nil {
			return nil, fmt.Errorf("blockedTimes: invalid time %q", bt.StartTime)
		}
		cfg.BlockedTimes = append(cfg.BlockedTimes, domain.BlockedTime{Date: date, StartMinute: minute})
	}

	for name, price := range r.Prices {
		modality := domain.Modality(name)
		if !modality.Valid() {
			return nil, fmt.Errorf("prices: unknown modality %q", name)
		}
		cfg.Prices[modality] = price
	}

	return cfg, nil
}

func (d *DayScheduleRequest) toDomain(day string) (*domain.DaySchedule, error) {
	start, err := types.ParseClock(d.Start)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid start %q", day, d.Start)
	}
	end, err := types.ParseClock(d.End)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid end %q", day, d.End)
	}

	schedule := &domain.DaySchedule{StartMinute: start, EndMinute: end}

	if d.LunchStart != nil {
		minute, err := types.ParseClock(*d.LunchStart)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid lunchStart %q", day, *d.LunchStart)
		}
		schedule.LunchStartMinute = &minute
	}
	if d.LunchEnd != nil {
		minute, err := types.ParseClock(*d.LunchEnd)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid lunchEnd %q", day, *d.LunchEnd)
		}
		schedule.LunchEndMinute = &minute
	}

	return schedule, nil
}

func parseWeekday(name string) (time.Weekday, error) {
	for _, w := range weekdayNames {
		if w.name == name {
			return w.day, nil
		}
	}
	return 0, fmt.Errorf("weekly: unknown weekday %q", name)
}

// Response модели

// DayScheduleResponse рабочие часы одного дня недели
type DayScheduleResponse struct {
	Start      string  `json:"start"`
	End        string  `json:"end"`
	LunchStart *string `json:"lunchStart,omitempty"`
	LunchEnd   *string `json:"lunchEnd,omitempty"`
}

// BlockedTimeResponse заблокированное время на конкретную дату
type BlockedTimeResponse struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
}

// ScheduleConfigResponse полный снимок конфигурации расписания
type ScheduleConfigResponse struct {
	ProviderID   int64                           `json:"providerId"`
	Weekly       map[string]*DayScheduleResponse `json:"weekly"`
	BlockedDates []string                        `json:"blockedDates"`
	BlockedTimes []BlockedTimeResponse           `json:"blockedTimes"`
	Policy       PolicyRequest                   `json:"policy"`
	Prices       map[string]float64              `json:"prices"`
}

// FromDomainConfig конвертирует domain конфигурацию в response
func FromDomainConfig(cfg *domain.ScheduleConfig) *ScheduleConfigResponse {
	resp := &ScheduleConfigResponse{
		ProviderID:   cfg.ProviderID,
		Weekly:       make(map[string]*DayScheduleResponse),
		BlockedDates: make([]string, 0, len(cfg.BlockedDates)),
		BlockedTimes: make([]BlockedTimeResponse, 0, len(cfg.BlockedTimes)),
		Policy: PolicyRequest{
			CancellationHours:      cfg.Policy.CancellationHours,
			ReschedulingHours:      cfg.Policy.ReschedulingHours,
			AdvanceBookingDays:     cfg.Policy.AdvanceBookingDays,
			BufferMinutes:          cfg.Policy.BufferMinutes,
			StepMinutes:            cfg.Policy.StepMinutes,
			SessionDurationMinutes: cfg.Policy.SessionDurationMinutes,
		},
		Prices: make(map[string]float64, len(cfg.Prices)),
	}

	days := cfg.Weekly.Days()
	for _, w := range weekdayNames {
		day := days[w.day]
		if day == nil {
			continue
		}

		dayResp := &DayScheduleResponse{
			Start: types.FormatClock(day.StartMinute),
			End:   types.FormatClock(day.EndMinute),
		}
		if day.HasLunch() {
			lunchStart := types.FormatClock(*day.LunchStartMinute)
			lunchEnd := types.FormatClock(*day.LunchEndMinute)
			dayResp.LunchStart = &lunchStart
			dayResp.LunchEnd = &lunchEnd
		}
		resp.Weekly[w.name] = dayResp
	}

	for _, date := range cfg.BlockedDates {
		resp.BlockedDates = append(resp.BlockedDates, date.Format(domain.DateFormat))
	}
	for _, bt := range cfg.BlockedTimes {
		resp.BlockedTimes = append(resp.BlockedTimes, BlockedTimeResponse{
			Date:      bt.Date.Format(domain.DateFormat),
			StartTime: types.FormatClock(bt.StartMinute),
		})
	}
	for modality, price := range cfg.Prices {
		resp.Prices[string(modality)] = price
	}

	return resp
}
