package schedule

import "errors"

var (
	// ErrConfigNotFound возвращается, когда у специалиста нет расписания
	ErrConfigNotFound = errors.New("schedule config not found")

	// ErrAccessDenied возвращается, когда пользователь не владеет расписанием
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidConfig возвращается при нарушении инвариантов расписания
	ErrInvalidConfig = errors.New("invalid schedule config")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("schedule service: internal error")
)
