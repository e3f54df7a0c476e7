package billing

import (
	"context"
	"strconv"
	"time"

	"github.com/m04kA/GLC-StationService/internal/domain"
	"github.com/m04kA/GLC-StationService/pkg/metrics"
)

const (
	// DefaultTickInterval частота локального пересчета стоимости открытых сессий
	DefaultTickInterval = time.Second

	// DefaultRefreshInterval частота сверки набора открытых сессий с БД
	// Между сверками стоимость пересчитывается локально от зафиксированного
	// start_time, без обращений к серверу на каждый тик
	DefaultRefreshInterval = 15 * time.Second
)

// trackedSession открытая сессия, за которой следит монитор
// start_time зафиксирован из авторитетной строки БД при первой сверке
type trackedSession struct {
	session  *domain.Session
	station  *domain.Station
	isMember bool
}

// Monitor периодически пересчитывает стоимость открытых сессий и экспортирует
// её в Prometheus; владеет тикером, сама математика остается чистой (QuoteAt)
type Monitor struct {
	sessionRepo  SessionRepository
	stationRepo  StationRepository
	customerRepo CustomerRepository
	metrics      *metrics.Metrics
	logger       Logger

	tickInterval    time.Duration
	refreshInterval time.Duration

	tracked map[int64]trackedSession // ключ - station_id
}

// NewMonitor создает монитор открытых сессий
func NewMonitor(
	sessions SessionRepository,
	stations StationRepository,
	customers CustomerRepository,
	m *metrics.Metrics,
	logger Logger,
) *Monitor {
	return &Monitor{
		sessionRepo:     sessions,
		stationRepo:     stations,
		customerRepo:    customers,
		metrics:         m,
		logger:          logger,
		tickInterval:    DefaultTickInterval,
		refreshInterval: DefaultRefreshInterval,
		tracked:         make(map[int64]trackedSession),
	}
}

// Run запускает цикл монитора; блокируется до отмены контекста
func (m *Monitor) Run(ctx context.Context) {
	m.logger.Info("Billing monitor started (tick=%s, refresh=%s)", m.tickInterval, m.refreshInterval)

	m.refresh(ctx)

	tick := time.NewTicker(m.tickInterval)
	refresh := time.NewTicker(m.refreshInterval)
	defer tick.Stop()
	defer refresh.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("Billing monitor stopped")
			return
		case <-refresh.C:
			m.refresh(ctx)
		case now := <-tick.C:
			m.recompute(now)
		}
	}
}

// refresh сверяет набор отслеживаемых сессий с БД
func (m *Monitor) refresh(ctx context.Context) {
	sessions, err := m.sessionRepo.GetOpenSessions(ctx)
	if err != nil {
		// Ошибка сверки не фатальна: продолжаем считать по последнему снимку
		m.logger.Error("Billing monitor: failed to refresh open sessions: %v", err)
		return
	}

	next := make(map[int64]trackedSession, len(sessions))
	for _, session := range sessions {
		if prev, ok := m.tracked[session.StationID]; ok && prev.session.ID == session.ID {
			next[session.StationID] = prev
			continue
		}

		station, err := m.stationRepo.GetByID(ctx, session.StationID)
		if err != nil {
			m.logger.Warn("Billing monitor: failed to get station id=%d: %v", session.StationID, err)
			continue
		}

		isMember := false
		if customer, err := m.customerRepo.GetByID(ctx, session.CustomerID); err == nil {
			isMember = customer.MembershipActive
		}

		next[session.StationID] = trackedSession{
			session:  session,
			station:  station,
			isMember: isMember,
		}
	}

	// Чистим метрики станций, чьи сессии закрылись
	for stationID := range m.tracked {
		if _, ok := next[stationID]; !ok {
			m.metrics.SessionRunningCost.DeleteLabelValues(strconv.FormatInt(stationID, 10))
		}
	}

	m.tracked = next
	m.metrics.StationsOccupied.Set(float64(len(next)))
}

// recompute локальный пересчет стоимости всех отслеживаемых сессий
func (m *Monitor) recompute(now time.Time) {
	for stationID, t := range m.tracked {
		elapsed := DecomposeElapsed(t.session.StartTime, now)
		cost := SessionCost(elapsed.HoursExact, t.station.HourlyRate, t.isMember)
		m.metrics.SessionRunningCost.WithLabelValues(strconv.FormatInt(stationID, 10)).Set(cost)
	}
}
