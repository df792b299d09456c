package confirm_booking

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	confirmBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/confirm_booking"
)

// ConfirmBookingResponse HTTP response model
type ConfirmBookingResponse struct {
	AppointmentID   int64   `json:"appointmentId"`
	SessionState    string  `json:"sessionState"`
	ProviderID      int64   `json:"providerId"`
	PatientID       int64   `json:"patientId"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Modality        string  `json:"modality"`
	Price           float64 `json:"price"`
	Status          string  `json:"status"`
	PaymentLinkURL  *string `json:"paymentLinkUrl,omitempty"`
	CreatedAt       string  `json:"createdAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *confirmBooking.Response) *ConfirmBookingResponse {
	return &ConfirmBookingResponse{
		AppointmentID:   resp.AppointmentID,
		SessionState:    string(resp.SessionState),
		ProviderID:      resp.ProviderID,
		PatientID:       resp.PatientID,
		Date:            resp.Date.Format(domain.DateFormat),
		StartTime:       resp.StartTime,
		DurationMinutes: resp.DurationMinutes,
		Modality:        resp.Modality,
		Price:           resp.Price,
		Status:          resp.Status,
		PaymentLinkURL:  resp.PaymentLinkURL,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
	}
}
