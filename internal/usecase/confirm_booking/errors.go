package confirm_booking

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена или истекла
	ErrSessionNotFound = errors.New("confirm_booking: session not found or expired")

	// ErrIllegalState возвращается при попытке подтвердить сессию не из состояния review
	ErrIllegalState = errors.New("confirm_booking: session is not ready for confirmation")

	// ErrSlotConflict возвращается, когда выбранный слот заняли между выбором и подтверждением
	ErrSlotConflict = errors.New("confirm_booking: selected slot is no longer available")

	// ErrPatientRejected возвращается, когда справочник пациентов отклонил данные формы
	ErrPatientRejected = errors.New("confirm_booking: patient directory rejected the form data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_booking: internal error")
)
