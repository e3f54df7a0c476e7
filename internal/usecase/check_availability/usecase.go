package check_availability

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/GLC-StationService/internal/domain"
	"github.com/m04kA/GLC-StationService/pkg/ttlcache"
)

// CacheTTL время жизни закэшированного результата проверки
// Короткое окно: гасит повторные запросы UI при неизменном контексте,
// но не переживает типичный цикл "посмотрел слоты - нажал забронировать"
const CacheTTL = 2 * time.Minute

// UseCase use case проверки доступности станций в окне времени
//
// Основной путь - серверная проверка одним запросом; при её недоступности
// включается fallback с ручной фильтрацией. Провайдеры перебираются по
// порядку на месте вызова, ветвления внутри самой логики нет
type UseCase struct {
	providers   []AvailabilityProvider
	stationRepo StationRepository
	cache       *ttlcache.Cache[Response]
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
// Провайдеры передаются в порядке приоритета: первый успешный ответ побеждает
func NewUseCase(
	providers []AvailabilityProvider,
	stationRepo StationRepository,
	cache *ttlcache.Cache[Response],
	logger Logger,
) *UseCase {
	return &UseCase{
		providers:   providers,
		stationRepo: stationRepo,
		cache:       cache,
		logger:      logger,
	}
}

// Execute проверяет доступность станций, при неизменном контексте отвечает из кэша
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CheckAvailability: validation failed: %v", err)
		return nil, err
	}

	// Пустой список станций тривиально доступен, запрос не выполняем
	if len(req.StationIDs) == 0 {
		return &Response{Available: true}, nil
	}

	key, err := cacheKey(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build cache key: %v", ErrInternal, err)
	}

	if cached, ok := uc.cache.Get(key); ok {
		uc.logger.Info("CheckAvailability: cache hit for %s", key)
		return &cached, nil
	}

	resp, err := uc.check(ctx, req)
	if err != nil {
		return nil, err
	}

	uc.cache.Set(key, *resp)
	return resp, nil
}

// ExecuteFresh проверяет доступность, минуя кэш
// Используется финальной проверкой перед записью бронирования, чтобы поймать
// конфликт, возникший после показа свободных слотов пользователю
func (uc *UseCase) ExecuteFresh(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CheckAvailability: validation failed: %v", err)
		return nil, err
	}

	if len(req.StationIDs) == 0 {
		return &Response{Available: true}, nil
	}

	resp, err := uc.check(ctx, req)
	if err != nil {
		return nil, err
	}

	// Свежий результат перезаписывает возможно устаревшую запись кэша
	if key, err := cacheKey(req); err == nil {
		uc.cache.Set(key, *resp)
	}

	return resp, nil
}

// check перебирает провайдеров по приоритету и собирает результат с именами станций
func (uc *UseCase) check(ctx context.Context, req *Request) (*Response, error) {
	availability, err := uc.queryProviders(ctx, req)
	if err != nil {
		// Fail open: при отказе хранилища считаем все станции доступными.
		// Ложное "доступно" поймает финальная проверка и constraint БД,
		// ложное "занято" зря заблокировало бы легитимное бронирование
		uc.logger.Error("CheckAvailability: all providers failed, failing open: %v", err)
		return &Response{Available: true}, nil
	}

	unavailableIDs := make([]int64, 0)
	for _, item := range availability {
		if !item.IsAvailable {
			unavailableIDs = append(unavailableIDs, item.StationID)
		}
	}

	if len(unavailableIDs) == 0 {
		return &Response{Available: true}, nil
	}

	names, err := uc.stationRepo.GetNamesByIDs(ctx, unavailableIDs)
	if err != nil {
		// Имена - вспомогательная информация; без них результат все равно валиден
		uc.logger.Warn("CheckAvailability: failed to resolve station names: %v", err)
		names = map[int64]string{}
	}

	unavailableStations := make([]domain.UnavailableStation, 0, len(unavailableIDs))
	for _, id := range unavailableIDs {
		unavailableStations = append(unavailableStations, domain.UnavailableStation{
			ID:   id,
			Name: names[id],
		})
	}

	return &Response{
		Available:             false,
		UnavailableStationIDs: unavailableIDs,
		UnavailableStations:   unavailableStations,
	}, nil
}

// queryProviders возвращает ответ первого сработавшего провайдера
func (uc *UseCase) queryProviders(ctx context.Context, req *Request) ([]domain.StationAvailability, error) {
	var lastErr error
	for i, provider := range uc.providers {
		availability, err := provider.Check(ctx, req.Date, req.StartTime, req.EndTime, req.StationIDs)
		if err == nil {
			if i > 0 {
				uc.logger.Warn("CheckAvailability: primary provider failed, served by fallback #%d", i)
			}
			return availability, nil
		}
		uc.logger.Warn("CheckAvailability: provider #%d failed: %v", i, err)
		lastErr = err
	}
	return nil, lastErr
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return fmt.Errorf("%w: startTime and endTime are required", ErrInvalidInput)
	}
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}
	if err := req.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid endTime: %v", ErrInvalidInput, err)
	}
	if !req.StartTime.IsBefore(req.EndTime) {
		return fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}
	return nil
}

// cacheKey ключ кэша: дата, каноничное окно и отсортированные ID станций
// Времена приводятся к HH:MM:SS, чтобы "10:00" и "10:00:00" давали один ключ
func cacheKey(req *Request) (string, error) {
	start, err := req.StartTime.Canonical()
	if err != nil {
		return "", err
	}
	end, err := req.EndTime.Canonical()
	if err != nil {
		return "", err
	}

	ids := make([]int64, len(req.StationIDs))
	copy(ids, req.StationIDs)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	idStrs := make([]string, len(ids))
	for i, id := range ids {
		idStrs[i] = strconv.FormatInt(id, 10)
	}

	return fmt.Sprintf("%s|%s|%s|%s",
		req.Date.Format(domain.DateFormat),
		start,
		end,
		strings.Join(idStrs, ","),
	), nil
}
