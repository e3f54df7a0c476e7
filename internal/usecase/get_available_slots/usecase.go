package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/GLC-StationService/internal/domain"
	loungecfgRepo "github.com/m04kA/GLC-StationService/internal/infra/storage/loungecfg"
	sessionRepo "github.com/m04kA/GLC-StationService/internal/infra/storage/session"
	stationRepo "github.com/m04kA/GLC-StationService/internal/infra/storage/station"
)

// UseCase use case для получения слотов бронирования станции на дату
type UseCase struct {
	bookingRepo BookingRepository
	sessionRepo SessionRepository
	stationRepo StationRepository
	configRepo  ConfigRepository

	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	sessionRepo SessionRepository,
	stationRepo StationRepository,
	configRepo ConfigRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		sessionRepo:  sessionRepo,
		stationRepo:  stationRepo,
		configRepo:   configRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения слотов станции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: station=%d, date=%s",
		req.StationID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Проверяем существование станции
	station, err := uc.stationRepo.GetByID(ctx, req.StationID)
	if err != nil {
		if errors.Is(err, stationRepo.ErrStationNotFound) {
			uc.logger.Warn("GetAvailableSlots: station id=%d not found", req.StationID)
			return nil, ErrStationNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get station id=%d: %v", req.StationID, err)
		return nil, fmt.Errorf("%w: failed to get station: %v", ErrInternal, err)
	}

	// 4. Получаем конфигурацию лаунжа
	config, err := uc.configRepo.GetConfig(ctx)
	if err != nil && !errors.Is(err, loungecfgRepo.ErrConfigNotFound) {
		uc.logger.Error("GetAvailableSlots: failed to get lounge config: %v", err)
		return nil, fmt.Errorf("%w: failed to get lounge config: %v", ErrInternal, err)
	}

	// Если конфигурация не найдена, используем дефолтные значения
	if config == nil {
		config = &domain.LoungeConfig{
			OpenTime:            domain.DefaultOpenTime,
			CloseTime:           domain.DefaultCloseTime,
			SlotDurationMinutes: domain.DefaultSlotDurationMinutes,
		}
		uc.logger.Info("GetAvailableSlots: lounge config missing, using defaults %s-%s step=%dm",
			config.OpenTime, config.CloseTime, config.SlotDurationMinutes)
	}

	// 5. Генерируем временные слоты
	timeSlots, err := generateTimeSlots(
		config.OpenTime,
		config.CloseTime,
		config.SlotDurationMinutes,
		req.Date,
		now,
		domain.BookingLeadTimeMinutes,
	)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate time slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate time slots: %v", ErrInternal, err)
	}

	if len(timeSlots) == 0 {
		uc.logger.Info("GetAvailableSlots: no slots for station=%d, date=%s",
			req.StationID, req.Date.Format(domain.DateFormat))
		return &Response{
			Date:      req.Date,
			StationID: req.StationID,
			Slots:     []Slot{},
		}, nil
	}

	// 6. Получаем активные бронирования станции на эту дату
	bookings, err := uc.bookingRepo.GetByStationsWithFilter(ctx, domain.StationBookingsFilter{
		StationIDs: []int64{req.StationID},
		Date:       &req.Date,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 7. Для сегодняшней даты учитываем открытую игровую сессию на станции:
	// у неё нет времени конца, поэтому она блокирует слоты до закрытия
	var openSession *domain.Session
	if isSameDay(req.Date, now) && station.Occupied {
		openSession, err = uc.sessionRepo.GetOpenByStationID(ctx, req.StationID)
		if err != nil && !errors.Is(err, sessionRepo.ErrSessionNotFound) {
			uc.logger.Error("GetAvailableSlots: failed to get open session: %v", err)
			return nil, fmt.Errorf("%w: failed to get open session: %v", ErrInternal, err)
		}
	}

	// 8. Вычисляем доступность для каждого слота
	slots := markSlotAvailability(timeSlots, config.SlotDurationMinutes, bookings, openSession)

	uc.logger.Info("GetAvailableSlots: generated %d slots for station=%d, date=%s",
		len(slots), req.StationID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:      req.Date,
		StationID: req.StationID,
		Slots:     slots,
	}, nil
}
