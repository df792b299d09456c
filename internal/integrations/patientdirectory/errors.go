package patientdirectory

import "errors"

var (
	// ErrPatientRejected возвращается, когда справочник отклонил данные пациента
	ErrPatientRejected = errors.New("patientdirectory client: patient data rejected")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("patientdirectory client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("patientdirectory client: invalid response")
)
