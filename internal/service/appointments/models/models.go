package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модели

// CancelAppointmentRequest запрос на отмену записи
type CancelAppointmentRequest struct {
	UserID             int64   `json:"userId"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// RescheduleAppointmentRequest запрос на перенос записи
type RescheduleAppointmentRequest struct {
	UserID      int64     `json:"userId"`
	Date        time.Time `json:"date"`
	StartMinute int       `json:"startMinute"`
}

// MarkOutcomeRequest запрос на фиксацию исхода приёма (completed / no_show)
type MarkOutcomeRequest struct {
	UserID int64  `json:"userId"`
	Status string `json:"status"`
}

// Response модели

// AppointmentResponse запись на приём
type AppointmentResponse struct {
	ID                 int64      `json:"id"`
	ProviderID         int64      `json:"providerId"`
	PatientID          int64      `json:"patientId"`
	Date               string     `json:"date"`
	StartTime          string     `json:"startTime"`
	StartMinute        int        `json:"startMinute"`
	DurationMinutes    int        `json:"durationMinutes"`
	Modality           string     `json:"modality"`
	Price              float64    `json:"price"`
	Status             string     `json:"status"`
	Notes              *string    `json:"notes,omitempty"`
	PaymentLinkURL     *string    `json:"paymentLinkUrl,omitempty"`
	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// AppointmentListResponse список записей
type AppointmentListResponse struct {
	Appointments []*AppointmentResponse `json:"appointments"`
	Total        int                    `json:"total"`
}

// FromDomainAppointment конвертирует domain запись в response
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	return &AppointmentResponse{
		ID:                 a.ID,
		ProviderID:         a.ProviderID,
		PatientID:          a.PatientID,
		Date:               a.Date.Format(domain.DateFormat),
		StartTime:          types.FormatClock(a.StartMinute),
		StartMinute:        a.StartMinute,
		DurationMinutes:    a.DurationMinutes,
		Modality:           string(a.Modality),
		Price:              a.Price,
		Status:             string(a.Status),
		Notes:              a.Notes,
		PaymentLinkURL:     a.PaymentLinkURL,
		CancellationReason: a.CancellationReason,
		CancelledAt:        a.CancelledAt,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

// FromDomainAppointments конвертирует список записей в response
func FromDomainAppointments(items []*domain.Appointment) *AppointmentListResponse {
	result := make([]*AppointmentResponse, len(items))
	for i, a := range items {
		result[i] = FromDomainAppointment(a)
	}
	return &AppointmentListResponse{Appointments: result, Total: len(result)}
}
