package create_booking

import (
	"time"

	"github.com/m04kA/GLC-StationService/pkg/types"
)

// Request модель запроса на создание бронирования
// Одно бронирование - одна станция и один непрерывный интервал времени
type Request struct {
	CustomerID int64            // ID клиента
	StationID  int64            // ID станции
	Date       time.Time        // Дата бронирования
	StartTime  types.TimeString // Время начала (например, "14:00")
	EndTime    types.TimeString // Время конца
	Notes      *string          // Заметки клиента (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64            `json:"id"`
	CustomerID      int64            `json:"customerId"`
	StationID       int64            `json:"stationId"`
	StationName     string           `json:"stationName"`
	BookingDate     time.Time        `json:"bookingDate"`
	StartTime       types.TimeString `json:"startTime"`
	EndTime         types.TimeString `json:"endTime"`
	DurationMinutes int              `json:"durationMinutes"`
	Status          string           `json:"status"`
	Notes           *string          `json:"notes,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}
