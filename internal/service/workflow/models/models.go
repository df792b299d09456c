package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модели

// SelectDateRequest запрос на выбор даты в сессии
type SelectDateRequest struct {
	Date time.Time `json:"date"`
}

// SelectSlotRequest запрос на выбор слота в сессии
type SelectSlotRequest struct {
	StartMinute int             `json:"startMinute"`
	Modality    domain.Modality `json:"modality"`
}

// Response модели

// SelectedSlotResponse выбранный слот внутри сессии
type SelectedSlotResponse struct {
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	StartMinute     int     `json:"startMinute"`
	DurationMinutes int     `json:"durationMinutes"`
	Modality        string  `json:"modality"`
	Price           float64 `json:"price"`
}

// PatientFormResponse данные формы пациента внутри сессии
type PatientFormResponse struct {
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	BirthDate     *string `json:"birthDate,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	TermsAccepted bool    `json:"termsAccepted"`
}

// SessionResponse снимок сессии бронирования
type SessionResponse struct {
	ID            string                `json:"id"`
	ProviderID    int64                 `json:"providerId"`
	State         string                `json:"state"`
	SelectedDate  *string               `json:"selectedDate,omitempty"`
	SelectedSlot  *SelectedSlotResponse `json:"selectedSlot,omitempty"`
	PatientForm   *PatientFormResponse  `json:"patientForm,omitempty"`
	AppointmentID *int64                `json:"appointmentId,omitempty"`
	FailureReason *string               `json:"failureReason,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

// FieldErrorResponse одно нарушение правила валидации формы
type FieldErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FromDomainSession конвертирует domain сессию в response
func FromDomainSession(s *domain.BookingSession) *SessionResponse {
	resp := &SessionResponse{
		ID:            s.ID,
		ProviderID:    s.ProviderID,
		State:         string(s.State),
		AppointmentID: s.AppointmentID,
		FailureReason: s.FailureReason,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}

	if s.SelectedDate != nil {
		date := s.SelectedDate.Format(domain.DateFormat)
		resp.SelectedDate = &date
	}

	if s.SelectedSlot != nil {
		resp.SelectedSlot = &SelectedSlotResponse{
			Date:            s.SelectedSlot.Date.Format(domain.DateFormat),
			StartTime:       types.FormatClock(s.SelectedSlot.StartMinute),
			StartMinute:     s.SelectedSlot.StartMinute,
			DurationMinutes: s.SelectedSlot.DurationMinutes,
			Modality:        string(s.SelectedSlot.Modality),
			Price:           s.SelectedSlot.Price,
		}
	}

	if s.PatientForm != nil {
		form := &PatientFormResponse{
			Name:          s.PatientForm.Name,
			Email:         s.PatientForm.Email,
			Phone:         s.PatientForm.Phone,
			Notes:         s.PatientForm.Notes,
			TermsAccepted: s.PatientForm.TermsAccepted,
		}
		if s.PatientForm.BirthDate != nil {
			birth := s.PatientForm.BirthDate.Format(domain.DateFormat)
			form.BirthDate = &birth
		}
		resp.PatientForm = form
	}

	return resp
}

// FromDomainFieldErrors конвертирует нарушения правил формы в response
func FromDomainFieldErrors(errs []domain.FieldError) []FieldErrorResponse {
	result := make([]FieldErrorResponse, len(errs))
	for i, e := range errs {
		result[i] = FieldErrorResponse{Field: e.Field, Message: e.Message}
	}
	return result
}
