package select_date

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/service/workflow/models"
)

type WorkflowService interface {
	SelectDate(ctx context.Context, sessionID string, date time.Time) (*models.SessionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
