package get_available_slots

import (
	"time"

	"github.com/m04kA/GLC-StationService/internal/domain"
	getAvailableSlots "github.com/m04kA/GLC-StationService/internal/usecase/get_available_slots"
)

// SlotResponse HTTP модель временного слота
type SlotResponse struct {
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
	IsAvailable     bool   `json:"isAvailable"`
}

// SlotsResponse HTTP модель ответа со списком слотов
type SlotsResponse struct {
	Date      string         `json:"date"`
	StationID int64          `json:"stationId"`
	Slots     []SlotResponse `json:"slots"`
}

// ToUseCaseRequest конвертирует query параметры в модель use case
func ToUseCaseRequest(stationID int64, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		StationID: stationID,
		Date:      date,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *SlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, slot := range resp.Slots {
		slots = append(slots, SlotResponse{
			StartTime:       slot.StartTime.String(),
			EndTime:         slot.EndTime.String(),
			DurationMinutes: slot.DurationMinutes,
			IsAvailable:     slot.IsAvailable,
		})
	}

	return &SlotsResponse{
		Date:      resp.Date.Format(domain.DateFormat),
		StationID: resp.StationID,
		Slots:     slots,
	}
}
