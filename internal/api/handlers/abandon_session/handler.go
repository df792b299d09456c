package abandon_session

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/workflow"
)

const (
	msgSessionNotFound  = "сессия не найдена или истекла"
	msgSessionCompleted = "подтверждённую сессию нельзя отменить"
)

type Handler struct {
	service WorkflowService
	logger  Logger
}

func NewHandler(service WorkflowService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/booking-sessions/{sessionId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	if err := h.service.Abandon(r.Context(), sessionID); err != nil {
		switch {
		case errors.Is(err, workflow.ErrSessionNotFound):
			h.logger.Warn("DELETE /booking-sessions/{id} - Session not found: session_id=%s", sessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		case errors.Is(err, workflow.ErrSessionCompleted):
			h.logger.Warn("DELETE /booking-sessions/{id} - Session already confirmed: session_id=%s", sessionID)
			handlers.RespondConflict(w, msgSessionCompleted)

		default:
			h.logger.Error("DELETE /booking-sessions/{id} - Failed to abandon: session_id=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /booking-sessions/{id} - Session abandoned: session_id=%s", sessionID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
