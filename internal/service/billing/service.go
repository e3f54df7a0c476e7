package billing

import (
	"context"
	"errors"
	"fmt"

	customerRepo "github.com/m04kA/GLC-StationService/internal/infra/storage/customer"
	sessionRepo "github.com/m04kA/GLC-StationService/internal/infra/storage/session"
	stationRepo "github.com/m04kA/GLC-StationService/internal/infra/storage/station"
)

// Service сервис расчета текущей стоимости открытых сессий
type Service struct {
	sessionRepo  SessionRepository
	stationRepo  StationRepository
	customerRepo CustomerRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр биллинг-сервиса
func NewService(
	sessions SessionRepository,
	stations StationRepository,
	customers CustomerRepository,
	logger Logger,
) *Service {
	return &Service{
		sessionRepo:  sessions,
		stationRepo:  stations,
		customerRepo: customers,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// LiveQuote считает текущую оценку открытой сессии станции
// Время старта берется из строки сессии в БД - это и есть сверка с авторитетным
// временем, устраняющая дрейф часов между созданием сессии и наблюдателем
func (s *Service) LiveQuote(ctx context.Context, stationID int64) (*Quote, error) {
	station, err := s.stationRepo.GetByID(ctx, stationID)
	if err != nil {
		if errors.Is(err, stationRepo.ErrStationNotFound) {
			s.logger.Warn("LiveQuote: station id=%d not found", stationID)
			return nil, ErrStationNotFound
		}
		s.logger.Error("LiveQuote: failed to get station id=%d: %v", stationID, err)
		return nil, fmt.Errorf("%w: failed to get station: %v", ErrInternal, err)
	}

	session, err := s.sessionRepo.GetOpenByStationID(ctx, stationID)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			s.logger.Warn("LiveQuote: station id=%d has no open session", stationID)
			return nil, ErrNoActiveSession
		}
		s.logger.Error("LiveQuote: failed to get open session for station id=%d: %v", stationID, err)
		return nil, fmt.Errorf("%w: failed to get open session: %v", ErrInternal, err)
	}

	// Потерянный клиент не блокирует расчет - сессия тарифицируется без membership
	customer, err := s.customerRepo.GetByID(ctx, session.CustomerID)
	if err != nil {
		if !errors.Is(err, customerRepo.ErrCustomerNotFound) {
			s.logger.Error("LiveQuote: failed to get customer id=%d: %v", session.CustomerID, err)
			return nil, fmt.Errorf("%w: failed to get customer: %v", ErrInternal, err)
		}
		s.logger.Warn("LiveQuote: customer id=%d not found, quoting without membership", session.CustomerID)
		customer = nil
	}

	quote := QuoteAt(s.timeProvider.Now(), session, station, customer)
	return &quote, nil
}
