package get_available_slots

import "errors"

var (
	// ErrProviderNotFound возвращается, когда у специалиста нет расписания
	ErrProviderNotFound = errors.New("get_available_slots: provider schedule not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
