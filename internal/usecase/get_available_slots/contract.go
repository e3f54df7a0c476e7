package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/GLC-StationService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetByStationsWithFilter получает активные бронирования станции на дату
	GetByStationsWithFilter(ctx context.Context, filter domain.StationBookingsFilter) ([]*domain.Booking, error)
}

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	GetOpenByStationID(ctx context.Context, stationID int64) (*domain.Session, error)
}

// StationRepository интерфейс репозитория станций
type StationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Station, error)
}

// ConfigRepository интерфейс репозитория конфигурации лаунжа
type ConfigRepository interface {
	GetConfig(ctx context.Context) (*domain.LoungeConfig, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
