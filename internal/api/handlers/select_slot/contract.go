package select_slot

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/workflow/models"
)

type WorkflowService interface {
	SelectSlot(ctx context.Context, sessionID string, req *models.SelectSlotRequest) (*models.SessionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
