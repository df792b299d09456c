package select_slot

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/workflow"
	"github.com/m04kA/SMC-AppointmentService/internal/service/workflow/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени начала, ожидается HH:MM"
	msgInvalidModality    = "некорректный формат сессии, ожидается online или in_person"
	msgSessionNotFound    = "сессия не найдена или истекла"
	msgSlotNotFound       = "выбранного времени нет в расписании дня"
	msgIllegalTransition  = "недопустимый переход состояния сессии"
)

// SelectSlotRequest HTTP request model
type SelectSlotRequest struct {
	StartTime string `json:"startTime"` // "10:00"
	Modality  string `json:"modality"`  // online / in_person
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

// Handle POST /api/v1/booking-sessions/{sessionId}/slot
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req SelectSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /booking-sessions/{id}/slot - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	startMinute, err := types.ParseClock(req.StartTime)
	if err != nil {
		h.logger.Warn("POST /booking-sessions/{id}/slot - Invalid start time: session_id=%s, time=%q", sessionID, req.StartTime)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.service.SelectSlot(r.Context(), sessionID, &models.SelectSlotRequest{
		StartMinute: startMinute,
		Modality:    domain.Modality(req.Modality),
	})
	if err != nil {
		var unavailable *domain.SlotUnavailableError

		switch {
		case errors.Is(err, workflow.ErrSessionNotFound):
			h.logger.Warn("POST /booking-sessions/{id}/slot - Session not found: session_id=%s", sessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		case errors.Is(err, workflow.ErrSlotNotFound):
			h.logger.Warn("POST /booking-sessions/{id}/slot - Slot not in schedule: session_id=%s, time=%s", sessionID, req.StartTime)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.As(err, &unavailable):
			h.logger.Warn("POST /booking-sessions/{id}/slot - Slot blocked: session_id=%s, time=%s, reason=%s",
				sessionID, req.StartTime, unavailable.Reason)
			handlers.RespondConflict(w, fmt.Sprintf("слот недоступен: %s", unavailable.Reason))

		case errors.Is(err, workflow.ErrIllegalTransition), errors.Is(err, workflow.ErrSessionCompleted):
			h.logger.Warn("POST /booking-sessions/{id}/slot - Illegal transition: session_id=%s, error=%v", sessionID, err)
			handlers.RespondConflict(w, msgIllegalTransition)

		case errors.Is(err, workflow.ErrInvalidInput):
			h.logger.Warn("POST /booking-sessions/{id}/slot - Invalid input: session_id=%s, error=%v", sessionID, err)
			handlers.RespondBadRequest(w, msgInvalidModality)

		default:
			h.logger.Error("POST /booking-sessions/{id}/slot - Failed to select slot: session_id=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /booking-sessions/{id}/slot - Slot selected: session_id=%s, time=%s, modality=%s",
		sessionID, req.StartTime, req.Modality)
	handlers.RespondJSON(w, http.StatusOK, result)
}
