package confirm_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	confirmBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/confirm_booking"
)

const (
	msgSessionNotFound = "сессия не найдена или истекла"
	msgIllegalState    = "сессия не готова к подтверждению"
	msgSlotConflict    = "выбранный слот уже занят, выберите другое время"
	msgPatientRejected = "справочник пациентов отклонил данные формы"
)

type Handler struct {
	useCase ConfirmBookingUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/booking-sessions/{sessionId}/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	result, err := h.useCase.Execute(r.Context(), &confirmBooking.Request{SessionID: sessionID})
	if err != nil {
		switch {
		case errors.Is(err, confirmBooking.ErrSessionNotFound):
			h.logger.Warn("POST /booking-sessions/{id}/confirm - Session not found: session_id=%s", sessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		case errors.Is(err, confirmBooking.ErrIllegalState):
			h.logger.Warn("POST /booking-sessions/{id}/confirm - Illegal state: session_id=%s, error=%v", sessionID, err)
			handlers.RespondConflict(w, msgIllegalState)

		case errors.Is(err, confirmBooking.ErrSlotConflict):
			h.logger.Warn("POST /booking-sessions/{id}/confirm - Slot conflict: session_id=%s, error=%v", sessionID, err)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, confirmBooking.ErrPatientRejected):
			h.logger.Warn("POST /booking-sessions/{id}/confirm - Patient rejected: session_id=%s", sessionID)
			handlers.RespondBadRequest(w, msgPatientRejected)

		default:
			h.logger.Error("POST /booking-sessions/{id}/confirm - Failed to confirm: session_id=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /booking-sessions/{id}/confirm - Booking confirmed: session_id=%s, appointment_id=%d",
		sessionID, result.AppointmentID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
