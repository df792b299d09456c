package session_back

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/workflow"
)

const (
	msgSessionNotFound   = "сессия не найдена или истекла"
	msgIllegalTransition = "вернуться назад можно только с экрана подтверждения"
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

// Handle POST /api/v1/booking-sessions/{sessionId}/back
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	result, err := h.service.Back(r.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrSessionNotFound):
			h.logger.Warn("POST /booking-sessions/{id}/back - Session not found: session_id=%s", sessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		case errors.Is(err, workflow.ErrIllegalTransition), errors.Is(err, workflow.ErrSessionCompleted):
			h.logger.Warn("POST /booking-sessions/{id}/back - Illegal transition: session_id=%s, error=%v", sessionID, err)
			handlers.RespondConflict(w, msgIllegalTransition)

		default:
			h.logger.Error("POST /booking-sessions/{id}/back - Failed: session_id=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /booking-sessions/{id}/back - Returned to patient data entry: session_id=%s", sessionID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
