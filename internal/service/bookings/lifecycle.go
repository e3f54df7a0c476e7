package bookings

import (
	"context"
	"time"

	"github.com/m04kA/GLC-StationService/internal/domain"
	"github.com/m04kA/GLC-StationService/pkg/types"
)

// DefaultSweepInterval частота прогона переходов статусов бронирований
const DefaultSweepInterval = time.Minute

// Lifecycle переводит бронирования по времени: confirmed -> in_progress, когда
// окно началось, и in_progress/confirmed -> completed, когда окно закончилось.
// Отмена и no-show остаются ручными действиями и здесь не затрагиваются
type Lifecycle struct {
	bookingRepo  BookingRepository
	stationRepo  StationRepository
	timeProvider TimeProvider
	logger       Logger

	sweepInterval time.Duration
}

// NewLifecycle создает наблюдатель статусов бронирований
func NewLifecycle(
	bookings BookingRepository,
	stations StationRepository,
	logger Logger,
) *Lifecycle {
	return &Lifecycle{
		bookingRepo:   bookings,
		stationRepo:   stations,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
		sweepInterval: DefaultSweepInterval,
	}
}

// Run запускает цикл переходов; блокируется до отмены контекста
func (l *Lifecycle) Run(ctx context.Context) {
	l.logger.Info("Booking lifecycle started (sweep=%s)", l.sweepInterval)

	l.Sweep(ctx)

	ticker := time.NewTicker(l.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Booking lifecycle stopped")
			return
		case <-ticker.C:
			l.Sweep(ctx)
		}
	}
}

// Sweep один прогон: двигает статусы сегодняшних активных бронирований
// Ошибка одного бронирования не прерывает прогон остальных
func (l *Lifecycle) Sweep(ctx context.Context) {
	now := l.timeProvider.Now()

	stations, err := l.stationRepo.GetAll(ctx)
	if err != nil {
		l.logger.Error("Booking lifecycle: failed to list stations: %v", err)
		return
	}
	if len(stations) == 0 {
		return
	}

	ids := make([]int64, 0, len(stations))
	for _, station := range stations {
		ids = append(ids, station.ID)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	active, err := l.bookingRepo.GetByStationsWithFilter(ctx, domain.StationBookingsFilter{
		StationIDs: ids,
		Date:       &today,
	})
	if err != nil {
		l.logger.Error("Booking lifecycle: failed to list bookings: %v", err)
		return
	}

	nowTime := types.NewTimeString(now)
	for _, booking := range active {
		next, ok := nextStatus(booking, nowTime)
		if !ok {
			continue
		}

		if err := l.bookingRepo.UpdateStatus(ctx, booking.ID, next); err != nil {
			l.logger.Warn("Booking lifecycle: failed to move booking id=%d to %s: %v",
				booking.ID, next, err)
			continue
		}
		l.logger.Info("Booking lifecycle: booking id=%d moved %s -> %s", booking.ID, booking.Status, next)
	}
}

// nextStatus возвращает следующий статус бронирования по текущему времени
// Окно полуоткрытое [start, end): в момент end бронирование уже завершено
func nextStatus(booking *domain.Booking, now types.TimeString) (domain.BookingStatus, bool) {
	if !booking.IsActive() {
		return "", false
	}

	if !now.IsBefore(booking.EndTime) {
		return domain.StatusCompleted, true
	}

	if booking.Status == domain.StatusConfirmed && !now.IsBefore(booking.StartTime) {
		return domain.StatusInProgress, true
	}

	return "", false
}
