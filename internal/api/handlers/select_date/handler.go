package select_date

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/workflow"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgSessionNotFound    = "сессия не найдена или истекла"
	msgNoSlotsAvailable   = "на выбранную дату нет доступных слотов"
	msgIllegalTransition  = "недопустимый переход состояния сессии"
)

// SelectDateRequest HTTP request model
type SelectDateRequest struct {
	Date string `json:"date"` // "2025-10-15"
}

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

// Handle POST /api/v1/booking-sessions/{sessionId}/date
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req SelectDateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /booking-sessions/{id}/date - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		h.logger.Warn("POST /booking-sessions/{id}/date - Invalid date format: session_id=%s, date=%q", sessionID, req.Date)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.SelectDate(r.Context(), sessionID, date)
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrSessionNotFound):
			h.logger.Warn("POST /booking-sessions/{id}/date - Session not found: session_id=%s", sessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		case errors.Is(err, workflow.ErrNoSlotsAvailable):
			h.logger.Warn("POST /booking-sessions/{id}/date - No slots on date: session_id=%s, date=%s", sessionID, req.Date)
			handlers.RespondConflict(w, msgNoSlotsAvailable)

		case errors.Is(err, workflow.ErrIllegalTransition), errors.Is(err, workflow.ErrSessionCompleted):
			h.logger.Warn("POST /booking-sessions/{id}/date - Illegal transition: session_id=%s, error=%v", sessionID, err)
			handlers.RespondConflict(w, msgIllegalTransition)

		case errors.Is(err, workflow.ErrInvalidInput):
			h.logger.Warn("POST /booking-sessions/{id}/date - Invalid input: session_id=%s, error=%v", sessionID, err)
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("POST /booking-sessions/{id}/date - Failed to select date: session_id=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /booking-sessions/{id}/date - Date selected: session_id=%s, date=%s", sessionID, req.Date)
	handlers.RespondJSON(w, http.StatusOK, result)
}
