package workflow

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена или истекла
	ErrSessionNotFound = errors.New("booking session not found or expired")

	// ErrProviderNotFound возвращается, когда у специалиста нет расписания
	ErrProviderNotFound = errors.New("provider schedule not found")

	// ErrIllegalTransition возвращается при недопустимом переходе состояния
	ErrIllegalTransition = errors.New("illegal session state transition")

	// ErrNoSlotsAvailable возвращается при выборе даты без единого доступного слота
	ErrNoSlotsAvailable = errors.New("selected date has no available slots")

	// ErrSlotNotFound возвращается, когда выбранного времени нет в расписании дня
	ErrSlotNotFound = errors.New("selected time does not exist in the day schedule")

	// ErrSessionCompleted возвращается при попытке изменить подтверждённую сессию
	ErrSessionCompleted = errors.New("session already reached a terminal state")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("workflow service: internal error")
)
