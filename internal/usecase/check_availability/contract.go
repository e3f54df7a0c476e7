package check_availability

import (
	"context"
	"time"

	"github.com/m04kA/GLC-StationService/internal/domain"
	"github.com/m04kA/GLC-StationService/pkg/types"
)

// AvailabilityProvider способность определить занятость станций в окне времени
// Две взаимозаменяемые реализации: серверная проверка одним запросом и
// ручная фильтрация пересечений на клиенте (fallback)
type AvailabilityProvider interface {
	Check(
		ctx context.Context,
		date time.Time,
		startTime types.TimeString,
		endTime types.TimeString,
		stationIDs []int64,
	) ([]domain.StationAvailability, error)
}

// StationRepository интерфейс репозитория станций
type StationRepository interface {
	GetNamesByIDs(ctx context.Context, ids []int64) (map[int64]string, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
