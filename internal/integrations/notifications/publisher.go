package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

// ConfirmationEvent событие подтверждения записи для сервиса уведомлений
type ConfirmationEvent struct {
	AppointmentID int64     `json:"appointmentId"`
	ProviderID    int64     `json:"providerId"`
	PatientEmail  string    `json:"patientEmail"`
	PatientPhone  string    `json:"patientPhone"`
	Date          string    `json:"date"`      // YYYY-MM-DD
	StartTime     string    `json:"startTime"` // HH:MM
	Modality      string    `json:"modality"`
	PaymentURL    *string   `json:"paymentUrl,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Publisher публикует события подтверждения в Kafka
// Доставка fire-and-forget с точки зрения движка бронирования: сбой
// публикации логируется, запись остаётся подтверждённой.
type Publisher struct {
	writer *kafka.Writer
	log    Logger
}

// NewPublisher создает нового издателя событий
func NewPublisher(brokers []string, topic string, log Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}

	return &Publisher{writer: writer, log: log}
}

// PublishConfirmation отправляет событие подтверждения записи
func (p *Publisher) PublishConfirmation(ctx context.Context, event ConfirmationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: marshal event: %v", ErrPublish, err)
	}

	message := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.AppointmentID, 10)),
		Value: payload,
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("%w: appointment id=%d: %v", ErrPublish, event.AppointmentID, err)
	}

	p.log.Info("PublishConfirmation: published event for appointment id=%d", event.AppointmentID)
	return nil
}

// Close освобождает ресурсы издателя
func (p *Publisher) Close() error {
	return p.writer.Close()
}
