package stations

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/m04kA/GLC-StationService/internal/domain"
	customerRepo "github.com/m04kA/GLC-StationService/internal/infra/storage/customer"
	sessionRepo "github.com/m04kA/GLC-StationService/internal/infra/storage/session"
	stationRepo "github.com/m04kA/GLC-StationService/internal/infra/storage/station"
	"github.com/m04kA/GLC-StationService/internal/service/billing"
	"github.com/m04kA/GLC-StationService/internal/service/stations/models"
	"github.com/m04kA/GLC-StationService/pkg/metrics"
	"github.com/m04kA/GLC-StationService/pkg/ptr"
)

// Уровни уведомлений toast-поверхности
const (
	notifyInfo  = "info"
	notifyError = "error"
)

// Service машина состояний станций: владеет переходами Free/Occupied,
// стартом/завершением сессий и каталожными правками станций
//
// Переходы на одной станции не должны идти параллельно; мьютекс сериализует
// их внутри процесса, гонку двух разных клиентов разрешает частичный
// уникальный индекс открытых сессий на уровне БД
type Service struct {
	mu sync.Mutex

	stationRepo  StationRepository
	sessionRepo  SessionRepository
	customerRepo CustomerRepository
	txManager    TransactionManager
	notifier     Notifier
	timeProvider TimeProvider
	metrics      *metrics.Metrics
	logger       Logger
}

// NewService создает новый экземпляр сервиса станций
func NewService(
	stations StationRepository,
	sessions SessionRepository,
	customers CustomerRepository,
	txManager TransactionManager,
	notifier Notifier,
	m *metrics.Metrics,
	logger Logger,
) *Service {
	return &Service{
		stationRepo:  stations,
		sessionRepo:  sessions,
		customerRepo: customers,
		txManager:    txManager,
		notifier:     notifier,
		timeProvider: &RealTimeProvider{},
		metrics:      m,
		logger:       logger,
	}
}

// GetStations возвращает все станции с текущей занятостью
func (s *Service) GetStations(ctx context.Context) (*models.StationListResponse, error) {
	stations, err := s.stationRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error("GetStations: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetStations - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainStationList(stations), nil
}

// CreateStation добавляет станцию в каталог
// Новая станция всегда создается свободной
func (s *Service) CreateStation(ctx context.Context, req *models.CreateStationRequest) (*models.StationResponse, error) {
	s.logger.Info("CreateStation: name=%q, type=%s", req.Name, req.Type)

	if req.Name == "" {
		return nil, fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
	}
	if req.HourlyRate <= 0 {
		return nil, fmt.Errorf("%w: hourlyRate must be positive", ErrInvalidInput)
	}

	stationType := domain.StationType(req.Type)
	if stationType != domain.StationTypeConsole && stationType != domain.StationTypeTable {
		return nil, fmt.Errorf("%w: type must be %q or %q", ErrInvalidInput,
			domain.StationTypeConsole, domain.StationTypeTable)
	}

	created, err := s.stationRepo.Create(ctx, req.ToDomainStation())
	if err != nil {
		s.logger.Error("CreateStation: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateStation - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateStation: station id=%d created", created.ID)
	return models.FromDomainStation(created), nil
}

// StartSession переводит станцию Free -> Occupied и открывает сессию
// Сначала durable-запись, потом флаг занятости: при ошибке записи станция
// остается нетронутой и операция возвращает ошибку
func (s *Service) StartSession(ctx context.Context, stationID, customerID int64) (*models.SessionResponse, error) {
	s.logger.Info("StartSession: station=%d, customer=%d", stationID, customerID)

	if stationID <= 0 || customerID <= 0 {
		return nil, fmt.Errorf("%w: stationID and customerID must be positive", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var created *domain.Session
	var stationName string

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		station, err := s.stationRepo.GetByID(txCtx, stationID)
		if err != nil {
			if errors.Is(err, stationRepo.ErrStationNotFound) {
				return ErrStationNotFound
			}
			return fmt.Errorf("%w: failed to get station: %v", ErrInternal, err)
		}
		stationName = station.Name

		if station.Occupied {
			return ErrStationOccupied
		}

		if _, err := s.customerRepo.GetByID(txCtx, customerID); err != nil {
			if errors.Is(err, customerRepo.ErrCustomerNotFound) {
				return ErrCustomerNotFound
			}
			return fmt.Errorf("%w: failed to get customer: %v", ErrInternal, err)
		}

		session := &domain.Session{
			StationID:  stationID,
			CustomerID: customerID,
			StartTime:  s.timeProvider.Now(),
		}

		created, err = s.sessionRepo.Create(txCtx, session)
		if err != nil {
			if errors.Is(err, sessionRepo.ErrStationBusy) {
				// Гонку с другим клиентом разрешил уникальный индекс БД
				return ErrStationOccupied
			}
			return fmt.Errorf("%w: failed to create session: %v", ErrInternal, err)
		}

		if err := s.stationRepo.SetOccupancy(txCtx, stationID, true, &created.ID); err != nil {
			return fmt.Errorf("%w: failed to occupy station: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		s.logger.Warn("StartSession: station=%d failed: %v", stationID, err)
		s.notifier.Notify(ctx, notifyError, fmt.Sprintf("Не удалось начать сессию на станции %q", stationName))
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.SessionsStarted.Inc()
	}

	s.logger.Info("StartSession: session id=%d started on station=%d", created.ID, stationID)
	s.notifier.Notify(ctx, notifyInfo, fmt.Sprintf("Сессия на станции %q начата", stationName))

	return models.FromDomainSession(created), nil
}

// EndSession переводит станцию Occupied -> Free, закрывает сессию и считает счет
// Авторитетные длительность и стоимость считаются от времени закрытия,
// а не от последнего тика отображения
func (s *Service) EndSession(ctx context.Context, stationID int64) (*models.EndSessionResponse, error) {
	s.logger.Info("EndSession: station=%d", stationID)

	s.mu.Lock()
	defer s.mu.Unlock()

	var charge domain.SessionCharge
	var updatedCustomer *domain.Customer

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		station, err := s.stationRepo.GetByID(txCtx, stationID)
		if err != nil {
			if errors.Is(err, stationRepo.ErrStationNotFound) {
				return ErrStationNotFound
			}
			return fmt.Errorf("%w: failed to get station: %v", ErrInternal, err)
		}

		session, err := s.sessionRepo.GetOpenByStationID(txCtx, stationID)
		if err != nil {
			if errors.Is(err, sessionRepo.ErrSessionNotFound) {
				return ErrNoActiveSession
			}
			return fmt.Errorf("%w: failed to get open session: %v", ErrInternal, err)
		}

		// Потерянная ссылка на клиента не блокирует закрытие: сессия
		// тарифицируется, membership и наигранное время не трогаются
		customer, err := s.customerRepo.GetByID(txCtx, session.CustomerID)
		if err != nil {
			if !errors.Is(err, customerRepo.ErrCustomerNotFound) {
				return fmt.Errorf("%w: failed to get customer: %v", ErrInternal, err)
			}
			s.logger.Warn("EndSession: customer id=%d not found, closing without membership updates", session.CustomerID)
			customer = nil
		}

		now := s.timeProvider.Now()
		settlement := billing.Settle(session.StartTime, now, station.HourlyRate, customer)

		if err := s.sessionRepo.Close(txCtx, session.ID, domain.SessionClose{
			EndTime:         now,
			DurationMinutes: settlement.DurationMinutes,
		}); err != nil {
			return fmt.Errorf("%w: failed to close session: %v", ErrInternal, err)
		}

		if customer != nil {
			update := domain.CustomerUpdate{
				TotalPlayTimeMinutes: ptr.Ptr(customer.TotalPlayTimeMinutes + settlement.DurationMinutes),
			}
			if settlement.FreeSession {
				remaining := customer.MembershipHoursLeft - settlement.MembershipHoursUsed
				if remaining < 0 {
					remaining = 0
				}
				update.MembershipHoursLeft = ptr.Ptr(remaining)
			}

			if err := s.customerRepo.UpdateCounters(txCtx, customer.ID, update); err != nil {
				return fmt.Errorf("%w: failed to update customer counters: %v", ErrInternal, err)
			}

			customer.TotalPlayTimeMinutes = *update.TotalPlayTimeMinutes
			if update.MembershipHoursLeft != nil {
				customer.MembershipHoursLeft = *update.MembershipHoursLeft
			}
			updatedCustomer = customer
		}

		if err := s.stationRepo.SetOccupancy(txCtx, stationID, false, nil); err != nil {
			return fmt.Errorf("%w: failed to free station: %v", ErrInternal, err)
		}

		charge = domain.SessionCharge{
			SessionID:           session.ID,
			StationID:           stationID,
			StationName:         station.Name,
			DurationMinutes:     settlement.DurationMinutes,
			Cost:                settlement.Cost,
			FreeSession:         settlement.FreeSession,
			MemberDiscount:      settlement.MemberDiscount,
			MembershipHoursUsed: settlement.MembershipHoursUsed,
		}

		return nil
	})

	if err != nil {
		s.logger.Warn("EndSession: station=%d failed: %v", stationID, err)
		s.notifier.Notify(ctx, notifyError, "Не удалось завершить сессию")
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.SessionsEnded.Inc()
	}

	s.logger.Info("EndSession: session id=%d closed on station=%d, duration=%d min, cost=%.0f, free=%t",
		charge.SessionID, stationID, charge.DurationMinutes, charge.Cost, charge.FreeSession)
	s.notifier.Notify(ctx, notifyInfo, fmt.Sprintf("Сессия на станции %q завершена", charge.StationName))

	return &models.EndSessionResponse{
		Charge:   models.FromDomainCharge(charge),
		Customer: models.FromDomainCustomer(updatedCustomer),
	}, nil
}

// UpdateStation каталожная правка станции (имя, тариф)
// Не является переходом жизненного цикла сессии
func (s *Service) UpdateStation(ctx context.Context, stationID int64, req *models.UpdateStationRequest) error {
	s.logger.Info("UpdateStation: station=%d", stationID)

	update := req.ToDomainUpdate()
	if update.IsEmpty() {
		return fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	if update.HourlyRate != nil && *update.HourlyRate <= 0 {
		return fmt.Errorf("%w: hourlyRate must be positive", ErrInvalidInput)
	}
	if update.Name != nil && *update.Name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
	}

	if err := s.stationRepo.Update(ctx, stationID, update); err != nil {
		if errors.Is(err, stationRepo.ErrStationNotFound) {
			s.logger.Warn("UpdateStation: station id=%d not found", stationID)
			return ErrStationNotFound
		}
		s.logger.Error("UpdateStation: repository error for station id=%d: %v", stationID, err)
		return fmt.Errorf("%w: UpdateStation - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStation: station id=%d updated", stationID)
	return nil
}

// DeleteStation удаляет станцию из каталога
// Станция с открытой сессией не удаляется
func (s *Service) DeleteStation(ctx context.Context, stationID int64) error {
	s.logger.Info("DeleteStation: station=%d", stationID)

	s.mu.Lock()
	defer s.mu.Unlock()

	station, err := s.stationRepo.GetByID(ctx, stationID)
	if err != nil {
		if errors.Is(err, stationRepo.ErrStationNotFound) {
			s.logger.Warn("DeleteStation: station id=%d not found", stationID)
			return ErrStationNotFound
		}
		s.logger.Error("DeleteStation: failed to get station id=%d: %v", stationID, err)
		return fmt.Errorf("%w: DeleteStation - failed to get station: %v", ErrInternal, err)
	}

	if station.Occupied {
		s.logger.Warn("DeleteStation: station id=%d is occupied", stationID)
		return ErrStationOccupied
	}

	if err := s.stationRepo.Delete(ctx, stationID); err != nil {
		if errors.Is(err, stationRepo.ErrStationNotFound) {
			return ErrStationNotFound
		}
		if errors.Is(err, stationRepo.ErrStationHasHistory) {
			s.logger.Warn("DeleteStation: station id=%d has sessions or bookings", stationID)
			return ErrStationHasHistory
		}
		s.logger.Error("DeleteStation: repository error for station id=%d: %v", stationID, err)
		return fmt.Errorf("%w: DeleteStation - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteStation: station id=%d deleted", stationID)
	return nil
}
