package start_session

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/workflow"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidProviderID  = "некорректный ID специалиста"
	msgProviderNotFound   = "специалист не найден"
)

// StartSessionRequest HTTP request model
type StartSessionRequest struct {
	ProviderID int64 `json:"providerId"`
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

// Handle POST /api/v1/booking-sessions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /booking-sessions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.StartSession(r.Context(), req.ProviderID)
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrInvalidInput):
			h.logger.Warn("POST /booking-sessions - Invalid provider ID: provider_id=%d", req.ProviderID)
			handlers.RespondBadRequest(w, msgInvalidProviderID)

		case errors.Is(err, workflow.ErrProviderNotFound):
			h.logger.Warn("POST /booking-sessions - Provider not found: provider_id=%d", req.ProviderID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		default:
			h.logger.Error("POST /booking-sessions - Failed to start session: provider_id=%d, error=%v", req.ProviderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /booking-sessions - Session started: session_id=%s, provider_id=%d", result.ID, req.ProviderID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
