package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/GLC-StationService/internal/domain"
	bookingRepo "github.com/m04kA/GLC-StationService/internal/infra/storage/booking"
	customerRepo "github.com/m04kA/GLC-StationService/internal/infra/storage/customer"
	stationRepo "github.com/m04kA/GLC-StationService/internal/infra/storage/station"
	"github.com/m04kA/GLC-StationService/internal/usecase/check_availability"
	"github.com/m04kA/GLC-StationService/pkg/metrics"
)

const (
	notifyInfo  = "info"
	notifyError = "error"
)

// UseCase use case для создания бронирования станции
//
// Проверка доступности перед записью - best effort для качества UX: она сужает,
// но не закрывает окно гонки между показом свободного слота и записью.
// Настоящая точка сериализации - constraint БД на пересечение активных окон,
// его нарушение приходит из репозитория как ErrSlotTaken
type UseCase struct {
	bookingRepo  BookingRepository
	stationRepo  StationRepository
	customerRepo CustomerRepository
	checker      AvailabilityChecker
	txManager    TransactionManager
	notifier     Notifier
	metrics      *metrics.Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepository BookingRepository,
	stationRepository StationRepository,
	customerRepository CustomerRepository,
	checker AvailabilityChecker,
	txManager TransactionManager,
	notifier Notifier,
	m *metrics.Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepository,
		stationRepo:  stationRepository,
		customerRepo: customerRepository,
		checker:      checker,
		txManager:    txManager,
		notifier:     notifier,
		metrics:      m,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
// Финальная проверка доступности и запись выполняются в сериализуемой транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: customer=%d, station=%d, date=%s, window=%s-%s",
		req.CustomerID, req.StationID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Валидация даты и времени начала
	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	if err := validateBookingTime(req.Date, req.StartTime, now, domain.BookingLeadTimeMinutes); err != nil {
		uc.logger.Warn("CreateBooking: booking time validation failed: %v", err)
		return nil, err
	}

	// 4. Проверяем существование станции
	station, err := uc.stationRepo.GetByID(ctx, req.StationID)
	if err != nil {
		if errors.Is(err, stationRepo.ErrStationNotFound) {
			uc.logger.Warn("CreateBooking: station id=%d not found", req.StationID)
			return nil, ErrStationNotFound
		}
		uc.logger.Error("CreateBooking: failed to get station id=%d: %v", req.StationID, err)
		return nil, fmt.Errorf("%w: failed to get station: %v", ErrInternal, err)
	}

	// 5. Проверяем существование клиента
	if _, err := uc.customerRepo.GetByID(ctx, req.CustomerID); err != nil {
		if errors.Is(err, customerRepo.ErrCustomerNotFound) {
			uc.logger.Warn("CreateBooking: customer id=%d not found", req.CustomerID)
			return nil, ErrCustomerNotFound
		}
		uc.logger.Error("CreateBooking: failed to get customer id=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: failed to get customer: %v", ErrInternal, err)
	}

	duration, err := bookingDuration(req.StartTime, req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to calculate duration: %v", ErrInternal, err)
	}

	// Переменная для хранения результата
	var result *domain.Booking

	// 6. Финальная проверка и запись в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Повторяем проверку доступности, минуя кэш: между показом слота
		// и нажатием "забронировать" могло появиться конфликтующее бронирование
		checkResp, err := uc.checker.ExecuteFresh(txCtx, &check_availability.Request{
			StationIDs: []int64{req.StationID},
			Date:       req.Date,
			StartTime:  req.StartTime,
			EndTime:    req.EndTime,
		})
		if err != nil {
			uc.logger.Error("CreateBooking: final availability check failed: %v", err)
			return fmt.Errorf("%w: final availability check failed: %v", ErrInternal, err)
		}

		if !checkResp.Available {
			uc.logger.Warn("CreateBooking: final check detected conflict on station id=%d", req.StationID)
			return &ConflictError{UnavailableStations: checkResp.UnavailableStations}
		}

		// 6.2. Создаем бронирование
		booking := &domain.Booking{
			CustomerID:      req.CustomerID,
			StationID:       req.StationID,
			BookingDate:     req.Date,
			StartTime:       req.StartTime,
			EndTime:         req.EndTime,
			DurationMinutes: duration,
			Status:          domain.StatusConfirmed,
			Notes:           req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			// Constraint БД - последняя линия обороны от гонки, которую
			// финальная проверка не успела увидеть
			if errors.Is(err, bookingRepo.ErrSlotTaken) {
				uc.logger.Warn("CreateBooking: constraint rejected overlapping booking on station id=%d", req.StationID)
				return &ConflictError{UnavailableStations: []domain.UnavailableStation{
					{ID: station.ID, Name: station.Name},
				}}
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			if uc.metrics != nil {
				uc.metrics.BookingConflicts.Inc()
			}
			uc.notifier.Notify(ctx, notifyError,
				fmt.Sprintf("Станция %s больше недоступна на выбранное время, выберите другой слот",
					strings.Join(conflict.StationNames(), ", ")))
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)
	uc.notifier.Notify(ctx, notifyInfo,
		fmt.Sprintf("Станция %q забронирована на %s %s-%s",
			station.Name, result.BookingDate.Format(domain.DateFormat), result.StartTime, result.EndTime))

	return &Response{
		ID:              result.ID,
		CustomerID:      result.CustomerID,
		StationID:       result.StationID,
		StationName:     station.Name,
		BookingDate:     result.BookingDate,
		StartTime:       result.StartTime,
		EndTime:         result.EndTime,
		DurationMinutes: result.DurationMinutes,
		Status:          string(result.Status),
		Notes:           result.Notes,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}
