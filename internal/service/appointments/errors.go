package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на запись
	ErrAccessDenied = errors.New("access denied")

	// ErrCannotCancel возвращается, когда запись уже не может быть отменена
	ErrCannotCancel = errors.New("appointment cannot be cancelled")

	// ErrCannotReschedule возвращается, когда запись уже не может быть перенесена
	ErrCannotReschedule = errors.New("appointment cannot be rescheduled")

	// ErrSlotNotAvailable возвращается, когда целевой слот переноса занят или заблокирован
	ErrSlotNotAvailable = errors.New("target slot is not available")

	// ErrCannotMarkOutcome возвращается, когда исход приёма ещё нельзя зафиксировать
	ErrCannotMarkOutcome = errors.New("appointment outcome cannot be recorded")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("appointments service: internal error")
)
