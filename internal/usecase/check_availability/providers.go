package check_availability

import (
	"context"
	"time"

	"github.com/m04kA/GLC-StationService/internal/domain"
	"github.com/m04kA/GLC-StationService/pkg/types"
)

// AvailabilityQueryRepository серверная проверка пересечений одним запросом
type AvailabilityQueryRepository interface {
	CheckStationsAvailability(
		ctx context.Context,
		date time.Time,
		startTime types.TimeString,
		endTime types.TimeString,
		stationIDs []int64,
	) ([]domain.StationAvailability, error)
}

// BookingsReadRepository чтение активных бронирований для ручной фильтрации
type BookingsReadRepository interface {
	GetByStationsWithFilter(ctx context.Context, filter domain.StationBookingsFilter) ([]*domain.Booking, error)
}

// SessionsReadRepository чтение открытых игровых сессий
type SessionsReadRepository interface {
	GetOpenSessions(ctx context.Context) ([]*domain.Session, error)
}

// ServerSideProvider основной провайдер: пересечения считает БД, один round trip
type ServerSideProvider struct {
	repo AvailabilityQueryRepository
}

// NewServerSideProvider создает серверный провайдер доступности
func NewServerSideProvider(repo AvailabilityQueryRepository) *ServerSideProvider {
	return &ServerSideProvider{repo: repo}
}

// Check делегирует проверку пересечений серверу
func (p *ServerSideProvider) Check(
	ctx context.Context,
	date time.Time,
	startTime types.TimeString,
	endTime types.TimeString,
	stationIDs []int64,
) ([]domain.StationAvailability, error) {
	return p.repo.CheckStationsAvailability(ctx, date, startTime, endTime, stationIDs)
}

// ClientSideProvider fallback: читает активные бронирования и открытые сессии
// и применяет то же правило пересечения полуоткрытых интервалов на клиенте,
// что и серверная проверка
type ClientSideProvider struct {
	bookingRepo BookingsReadRepository
	sessionRepo SessionsReadRepository
}

// NewClientSideProvider создает клиентский провайдер доступности
func NewClientSideProvider(bookings BookingsReadRepository, sessions SessionsReadRepository) *ClientSideProvider {
	return &ClientSideProvider{
		bookingRepo: bookings,
		sessionRepo: sessions,
	}
}

// Check читает активные бронирования и открытые сессии станций на дату
// и фильтрует пересечения вручную
func (p *ClientSideProvider) Check(
	ctx context.Context,
	date time.Time,
	startTime types.TimeString,
	endTime types.TimeString,
	stationIDs []int64,
) ([]domain.StationAvailability, error) {
	bookings, err := p.bookingRepo.GetByStationsWithFilter(ctx, domain.StationBookingsFilter{
		StationIDs: stationIDs,
		Date:       &date,
	})
	if err != nil {
		return nil, err
	}

	sessions, err := p.sessionRepo.GetOpenSessions(ctx)
	if err != nil {
		return nil, err
	}

	conflicting := make(map[int64]bool)
	for _, booking := range bookings {
		if !booking.IsActive() {
			continue
		}
		if Overlaps(startTime, endTime, booking.StartTime, booking.EndTime) {
			conflicting[booking.StationID] = true
		}
	}

	// У открытой сессии нет времени конца: она блокирует все окна своего дня,
	// заканчивающиеся после её начала
	for _, session := range sessions {
		if !isSameDay(session.StartTime, date) {
			continue
		}
		if types.NewTimeString(session.StartTime).IsBefore(endTime) {
			conflicting[session.StationID] = true
		}
	}

	result := make([]domain.StationAvailability, 0, len(stationIDs))
	for _, id := range stationIDs {
		result = append(result, domain.StationAvailability{
			StationID:   id,
			IsAvailable: !conflicting[id],
		})
	}

	return result, nil
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Overlaps правило пересечения полуоткрытых интервалов:
// [s1,e1) и [s2,e2) пересекаются тогда и только тогда, когда s1 < e2 AND s2 < e1
// Строгие неравенства: граничащие окна (конец одного = начало другого) не пересекаются
func Overlaps(s1, e1, s2, e2 types.TimeString) bool {
	return s1.IsBefore(e2) && s2.IsBefore(e1)
}
