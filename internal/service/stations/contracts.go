package stations

import (
	"context"
	"time"

	"github.com/m04kA/GLC-StationService/internal/domain"
)

// StationRepository интерфейс репозитория станций
type StationRepository interface {
	Create(ctx context.Context, station *domain.Station) (*domain.Station, error)
	GetAll(ctx context.Context) ([]*domain.Station, error)
	GetByID(ctx context.Context, id int64) (*domain.Station, error)
	Update(ctx context.Context, id int64, update domain.StationUpdate) error
	SetOccupancy(ctx context.Context, id int64, occupied bool, currentSessionID *int64) error
	Delete(ctx context.Context, id int64) error
}

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) (*domain.Session, error)
	GetOpenByStationID(ctx context.Context, stationID int64) (*domain.Session, error)
	Close(ctx context.Context, id int64, close domain.SessionClose) error
}

// CustomerRepository интерфейс репозитория клиентов
type CustomerRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	UpdateCounters(ctx context.Context, id int64, update domain.CustomerUpdate) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier интерфейс поверхности уведомлений (toast-сообщения UI)
// Отправка уведомления никогда не влияет на исход операции
type Notifier interface {
	Notify(ctx context.Context, level string, message string)
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
