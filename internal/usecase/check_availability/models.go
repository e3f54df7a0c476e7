package check_availability

import (
	"time"

	"github.com/m04kA/GLC-StationService/internal/domain"
	"github.com/m04kA/GLC-StationService/pkg/types"
)

// Request модель запроса на проверку доступности станций
type Request struct {
	StationIDs []int64          // Проверяемые станции
	Date       time.Time        // Дата окна (без времени)
	StartTime  types.TimeString // Начало окна
	EndTime    types.TimeString // Конец окна (полуоткрытый интервал [start, end))
}

// Response результат проверки доступности
// Имена занятых станций нужны вызывающей стороне для конкретного сообщения
type Response struct {
	Available             bool
	UnavailableStationIDs []int64
	UnavailableStations   []domain.UnavailableStation
}
