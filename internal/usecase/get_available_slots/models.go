package get_available_slots

import (
	"time"

	"github.com/m04kA/GLC-StationService/pkg/types"
)

// Request модель запроса на получение слотов станции
type Request struct {
	StationID int64     // ID станции
	Date      time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком слотов
type Response struct {
	Date      time.Time // Дата, на которую запрашивались слоты
	StationID int64     // ID станции
	Slots     []Slot    // Список слотов с признаком доступности
}

// Slot модель временного слота
type Slot struct {
	StartTime       types.TimeString // Время начала слота (например, "10:00")
	EndTime         types.TimeString // Время конца слота
	DurationMinutes int              // Длительность слота в минутах
	IsAvailable     bool             // Свободен ли слот
}
