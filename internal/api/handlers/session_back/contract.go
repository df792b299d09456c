package session_back

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/workflow/models"
)

type WorkflowService interface {
	Back(ctx context.Context, sessionID string) (*models.SessionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
