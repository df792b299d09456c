package submit_patient_form

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/workflow"
	"github.com/m04kA/SMC-AppointmentService/internal/service/workflow/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidBirthDate   = "некорректный формат даты рождения, ожидается YYYY-MM-DD"
	msgSessionNotFound    = "сессия не найдена или истекла"
	msgIllegalTransition  = "недопустимый переход состояния сессии"
)

// PatientFormRequest HTTP request model
type PatientFormRequest struct {
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	BirthDate     *string `json:"birthDate,omitempty"` // "1990-04-23"
	Notes         *string `json:"notes,omitempty"`
	TermsAccepted bool    `json:"termsAccepted"`
}

// ValidationErrorResponse ответ с нарушениями правил формы
type ValidationErrorResponse struct {
	Errors []models.FieldErrorResponse `json:"errors"`
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

// Handle POST /api/v1/booking-sessions/{sessionId}/patient-form
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req PatientFormRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /booking-sessions/{id}/patient-form - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	form := &domain.PatientForm{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Notes:         req.Notes,
		TermsAccepted: req.TermsAccepted,
	}

	if req.BirthDate != nil {
		birthDate, err := time.Parse(domain.DateFormat, *req.BirthDate)
		if err != nil {
			h.logger.Warn("POST /booking-sessions/{id}/patient-form - Invalid birth date: session_id=%s, date=%q",
				sessionID, *req.BirthDate)
			handlers.RespondBadRequest(w, msgInvalidBirthDate)
			return
		}
		form.BirthDate = &birthDate
	}

	result, violations, err := h.service.SubmitPatientForm(r.Context(), sessionID, form)
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrSessionNotFound):
			h.logger.Warn("POST /booking-sessions/{id}/patient-form - Session not found: session_id=%s", sessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		case errors.Is(err, workflow.ErrIllegalTransition), errors.Is(err, workflow.ErrSessionCompleted):
			h.logger.Warn("POST /booking-sessions/{id}/patient-form - Illegal transition: session_id=%s, error=%v", sessionID, err)
			handlers.RespondConflict(w, msgIllegalTransition)

		default:
			h.logger.Error("POST /booking-sessions/{id}/patient-form - Failed to submit form: session_id=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Все нарушения правил формы возвращаются разом
	if len(violations) > 0 {
		h.logger.Warn("POST /booking-sessions/{id}/patient-form - Form rejected: session_id=%s, violations=%d",
			sessionID, len(violations))
		handlers.RespondUnprocessable(w, ValidationErrorResponse{Errors: violations})
		return
	}

	h.logger.Info("POST /booking-sessions/{id}/patient-form - Form accepted: session_id=%s", sessionID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
