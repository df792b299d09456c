package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	ProviderID        int64           `json:"providerId"`
	Date              string          `json:"date"`
	Modality          string          `json:"modality"`
	Slots             []AvailableSlot `json:"slots"`
	HasAvailableSlots bool            `json:"hasAvailableSlots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime       string  `json:"startTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
	IsAvailable     bool    `json:"isAvailable"`
	BlockReason     *string `json:"blockReason,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime:       slot.StartTime,
			DurationMinutes: slot.DurationMinutes,
			Price:           slot.Price,
			IsAvailable:     slot.IsAvailable,
			BlockReason:     slot.BlockReason,
		}
	}

	return &AvailableSlotsResponse{
		ProviderID:        resp.ProviderID,
		Date:              resp.Date.Format(domain.DateFormat),
		Modality:          string(resp.Modality),
		Slots:             slots,
		HasAvailableSlots: resp.HasAvailableSlots,
	}
}

// ToUseCaseRequest создает запрос use case из параметров запроса
func ToUseCaseRequest(providerID int64, dateStr, modalityStr string) (getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return getAvailableSlots.Request{}, err
	}

	return getAvailableSlots.Request{
		ProviderID: providerID,
		Date:       date,
		Modality:   domain.Modality(modalityStr),
	}, nil
}
