package confirm_booking

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модель запроса на подтверждение бронирования
type Request struct {
	SessionID string // ID сессии бронирования
}

// Response модель ответа с созданной записью
type Response struct {
	AppointmentID   int64               // ID созданной записи
	SessionState    domain.SessionState // Терминальное состояние сессии
	ProviderID      int64               // ID специалиста
	PatientID       int64               // ID пациента из справочника
	Date            time.Time           // Дата приёма
	StartMinute     int                 // Начало приёма в минутах от полуночи
	StartTime       string              // Начало приёма, "HH:MM"
	DurationMinutes int                 // Длительность приёма
	Modality        string              // Формат сессии
	Price           float64             // Стоимость приёма
	Status          string              // Статус записи
	PaymentLinkURL  *string             // Платёжная ссылка, если шлюз включён и ответил
	CreatedAt       time.Time
}
