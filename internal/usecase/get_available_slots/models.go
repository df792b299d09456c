package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ProviderID int64           // ID специалиста
	Date       time.Time       // Дата для получения слотов (без времени)
	Modality   domain.Modality // Формат сессии (online / in_person)
}

// Response модель ответа со списком слотов на дату
type Response struct {
	ProviderID        int64     // ID специалиста
	Date              time.Time // Дата, на которую запрашивались слоты
	Modality          domain.Modality
	Slots             []Slot // Все слоты дня с флагами доступности
	HasAvailableSlots bool   // Есть ли хотя бы один доступный слот (выбираемость даты в календаре)
}

// Slot модель временного слота
type Slot struct {
	StartTime       string  // Время начала слота, "HH:MM"
	StartMinute     int     // Смещение начала в минутах от полуночи
	DurationMinutes int     // Длительность слота в минутах
	Modality        string  // Формат сессии
	Price           float64 // Стоимость сессии
	IsAvailable     bool    // Доступен ли слот для бронирования
	BlockReason     *string // Причина недоступности (правило, которое сработало)
}

// fromDomainSlots конвертирует слоты домена в модель ответа
func fromDomainSlots(slots []domain.TimeSlot) []Slot {
	result := make([]Slot, len(slots))
	for i, s := range slots {
		var reason *string
		if s.BlockReason != nil {
			r := string(*s.BlockReason)
			reason = &r
		}

		result[i] = Slot{
			StartTime:       types.FormatClock(s.StartMinute),
			StartMinute:     s.StartMinute,
			DurationMinutes: s.DurationMinutes,
			Modality:        string(s.Modality),
			Price:           s.Price,
			IsAvailable:     s.IsAvailable,
			BlockReason:     reason,
		}
	}
	return result
}
