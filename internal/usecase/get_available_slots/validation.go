package get_available_slots

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// validateRequest проверяет корректность входных данных запроса
func validateRequest(req Request) error {
	if req.ProviderID <= 0 {
		return fmt.Errorf("%w: providerId must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	switch req.Modality {
	case domain.ModalityOnline, domain.ModalityInPerson:
	default:
		return fmt.Errorf("%w: unknown modality %q", ErrInvalidInput, req.Modality)
	}

	return nil
}
