package confirm_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifications"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/patientdirectory"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/paymentgateway"
)

// SessionStore интерфейс хранилища сессий бронирования
type SessionStore interface {
	Get(ctx context.Context, id string) (*domain.BookingSession, error)
	Save(ctx context.Context, session *domain.BookingSession) error
}

// AppointmentRepository интерфейс репозитория записей на приём
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.Appointment, error)
	GetByProviderAndDate(ctx context.Context, providerID int64, date time.Time, activeOnly bool) ([]*domain.Appointment, error)
	SetPaymentLink(ctx context.Context, id int64, url string) error
}

// ScheduleRepository интерфейс репозитория конфигурации расписания
type ScheduleRepository interface {
	GetConfig(ctx context.Context, providerID int64) (*domain.ScheduleConfig, error)
}

// PatientDirectoryClient интерфейс клиента справочника пациентов
type PatientDirectoryClient interface {
	CreateOrFindPatient(ctx context.Context, name, email, phone string) (*patientdirectory.Patient, error)
}

// PaymentGateway интерфейс платёжного шлюза
// Вызывается после фиксации брони; nil означает, что платежи выключены
type PaymentGateway interface {
	CreatePaymentLink(ctx context.Context, amount float64, description string) (*paymentgateway.PaymentLink, error)
}

// NotificationPublisher интерфейс издателя событий подтверждения
// nil означает, что уведомления выключены
type NotificationPublisher interface {
	PublishConfirmation(ctx context.Context, event notifications.ConfirmationEvent) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
