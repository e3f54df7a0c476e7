package check_availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/GLC-StationService/internal/domain"
	"github.com/m04kA/GLC-StationService/pkg/ttlcache"
	"github.com/m04kA/GLC-StationService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

// fakeProvider провайдер с фиксированным ответом и счетчиком вызовов
type fakeProvider struct {
	availability []domain.StationAvailability
	err          error
	calls        int
}

func (p *fakeProvider) Check(
	_ context.Context,
	_ time.Time,
	_ types.TimeString,
	_ types.TimeString,
	_ []int64,
) ([]domain.StationAvailability, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.availability, nil
}

type fakeStationNames struct {
	names map[int64]string
	err   error
}

func (f *fakeStationNames) GetNamesByIDs(_ context.Context, _ []int64) (map[int64]string, error) {
	return f.names, f.err
}

func allAvailable(ids ...int64) []domain.StationAvailability {
	result := make([]domain.StationAvailability, 0, len(ids))
	for _, id := range ids {
		result = append(result, domain.StationAvailability{StationID: id, IsAvailable: true})
	}
	return result
}

func newRequest(ids ...int64) *Request {
	return &Request{
		StationIDs: ids,
		Date:       time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC),
		StartTime:  "12:00",
		EndTime:    "13:00",
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 types.TimeString
		want           bool
	}{
		{"частичное пересечение", "11:00", "12:00", "11:30", "12:30", true},
		{"полное вложение", "11:00", "12:00", "10:00", "13:00", true},
		{"совпадающие окна", "11:00", "12:00", "11:00", "12:00", true},
		{"граничат: конец = начало", "11:00", "12:00", "12:00", "13:00", false},
		{"граничат: начало = конец", "12:00", "13:00", "11:00", "12:00", false},
		{"разные форматы времени", "11:00", "12:00:00", "11:30:00", "12:30", true},
		{"не пересекаются", "10:00", "11:00", "12:00", "13:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.s1, tt.e1, tt.s2, tt.e2))
		})
	}
}

func TestExecute_AllAvailable(t *testing.T) {
	provider := &fakeProvider{availability: allAvailable(1, 2)}
	uc := NewUseCase(
		[]AvailabilityProvider{provider},
		&fakeStationNames{},
		ttlcache.New[Response](CacheTTL),
		nopLogger{},
	)

	resp, err := uc.Execute(context.Background(), newRequest(1, 2))
	require.NoError(t, err)

	assert.True(t, resp.Available)
	assert.Empty(t, resp.UnavailableStationIDs)
}

func TestExecute_UnavailableWithNames(t *testing.T) {
	provider := &fakeProvider{availability: []domain.StationAvailability{
		{StationID: 1, IsAvailable: true},
		{StationID: 2, IsAvailable: false},
	}}
	uc := NewUseCase(
		[]AvailabilityProvider{provider},
		&fakeStationNames{names: map[int64]string{2: "PS5 #2"}},
		ttlcache.New[Response](CacheTTL),
		nopLogger{},
	)

	resp, err := uc.Execute(context.Background(), newRequest(1, 2))
	require.NoError(t, err)

	assert.False(t, resp.Available)
	assert.Equal(t, []int64{2}, resp.UnavailableStationIDs)
	require.Len(t, resp.UnavailableStations, 1)
	assert.Equal(t, "PS5 #2", resp.UnavailableStations[0].Name)
}

func TestExecute_CacheHit(t *testing.T) {
	provider := &fakeProvider{availability: allAvailable(1)}
	uc := NewUseCase(
		[]AvailabilityProvider{provider},
		&fakeStationNames{},
		ttlcache.New[Response](CacheTTL),
		nopLogger{},
	)

	_, err := uc.Execute(context.Background(), newRequest(1))
	require.NoError(t, err)
	_, err = uc.Execute(context.Background(), newRequest(1))
	require.NoError(t, err)

	assert.Equal(t, 1, provider.calls, "повторный запрос в пределах TTL обслуживается из кэша")
}

func TestExecute_CacheKeyIgnoresFormatAndOrder(t *testing.T) {
	provider := &fakeProvider{availability: allAvailable(1, 2)}
	uc := NewUseCase(
		[]AvailabilityProvider{provider},
		&fakeStationNames{},
		ttlcache.New[Response](CacheTTL),
		nopLogger{},
	)

	first := newRequest(2, 1)
	_, err := uc.Execute(context.Background(), first)
	require.NoError(t, err)

	second := newRequest(1, 2)
	second.StartTime = "12:00:00"
	second.EndTime = "13:00:00"
	_, err = uc.Execute(context.Background(), second)
	require.NoError(t, err)

	assert.Equal(t, 1, provider.calls)
}

func TestExecuteFresh_BypassesCache(t *testing.T) {
	provider := &fakeProvider{availability: allAvailable(1)}
	uc := NewUseCase(
		[]AvailabilityProvider{provider},
		&fakeStationNames{},
		ttlcache.New[Response](CacheTTL),
		nopLogger{},
	)

	_, err := uc.Execute(context.Background(), newRequest(1))
	require.NoError(t, err)
	_, err = uc.ExecuteFresh(context.Background(), newRequest(1))
	require.NoError(t, err)

	assert.Equal(t, 2, provider.calls)
}

func TestExecute_FallbackProvider(t *testing.T) {
	primary := &fakeProvider{err: errors.New("db: connection refused")}
	fallback := &fakeProvider{availability: []domain.StationAvailability{
		{StationID: 1, IsAvailable: false},
	}}
	uc := NewUseCase(
		[]AvailabilityProvider{primary, fallback},
		&fakeStationNames{names: map[int64]string{1: "PS5 #1"}},
		ttlcache.New[Response](CacheTTL),
		nopLogger{},
	)

	resp, err := uc.Execute(context.Background(), newRequest(1))
	require.NoError(t, err)

	assert.False(t, resp.Available)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestExecute_FailOpen(t *testing.T) {
	primary := &fakeProvider{err: errors.New("db: connection refused")}
	fallback := &fakeProvider{err: errors.New("db: connection refused")}
	uc := NewUseCase(
		[]AvailabilityProvider{primary, fallback},
		&fakeStationNames{},
		ttlcache.New[Response](CacheTTL),
		nopLogger{},
	)

	resp, err := uc.Execute(context.Background(), newRequest(1))
	require.NoError(t, err)

	assert.True(t, resp.Available, "при отказе всех провайдеров отвечаем доступностью")
}

func TestExecute_Validation(t *testing.T) {
	uc := NewUseCase(nil, &fakeStationNames{}, ttlcache.New[Response](CacheTTL), nopLogger{})

	t.Run("нет даты", func(t *testing.T) {
		req := newRequest(1)
		req.Date = time.Time{}

		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("start не раньше end", func(t *testing.T) {
		req := newRequest(1)
		req.StartTime = "13:00"
		req.EndTime = "12:00"

		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("пустой список станций доступен без похода в БД", func(t *testing.T) {
		resp, err := uc.Execute(context.Background(), newRequest())
		require.NoError(t, err)
		assert.True(t, resp.Available)
	})
}

func TestClientSideProvider(t *testing.T) {
	date := time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC)

	repo := &fakeBookingsRepo{bookings: []*domain.Booking{
		{StationID: 1, StartTime: "12:30", EndTime: "13:30", Status: domain.StatusConfirmed},
		{StationID: 2, StartTime: "13:00", EndTime: "14:00", Status: domain.StatusConfirmed},
		{StationID: 3, StartTime: "12:00", EndTime: "13:00", Status: domain.StatusCancelled},
	}}
	provider := NewClientSideProvider(repo, &fakeOpenSessionsRepo{})

	availability, err := provider.Check(context.Background(), date, "12:00", "13:00", []int64{1, 2, 3})
	require.NoError(t, err)

	byID := availabilityByID(availability)
	assert.False(t, byID[1], "пересечение 12:30-13:00")
	assert.True(t, byID[2], "граничащее окно не конфликт")
	assert.True(t, byID[3], "отмененное бронирование не учитывается")
}

func TestClientSideProvider_OpenSessionBlocks(t *testing.T) {
	date := time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC)

	sessions := &fakeOpenSessionsRepo{sessions: []*domain.Session{
		// walk-in сессия началась в 12:30 того же дня
		{ID: 1, StationID: 1, StartTime: time.Date(2025, 10, 16, 12, 30, 0, 0, time.UTC)},
		// сессия другого дня окна этой даты не блокирует
		{ID: 2, StationID: 2, StartTime: time.Date(2025, 10, 15, 12, 30, 0, 0, time.UTC)},
	}}
	provider := NewClientSideProvider(&fakeBookingsRepo{}, sessions)

	availability, err := provider.Check(context.Background(), date, "12:00", "13:00", []int64{1, 2, 3})
	require.NoError(t, err)

	byID := availabilityByID(availability)
	assert.False(t, byID[1], "открытая сессия блокирует окно, заканчивающееся после её начала")
	assert.True(t, byID[2])
	assert.True(t, byID[3])

	// Окно, закончившееся до старта сессии, свободно
	availability, err = provider.Check(context.Background(), date, "11:00", "12:30", []int64{1})
	require.NoError(t, err)
	assert.True(t, availabilityByID(availability)[1])
}

func availabilityByID(availability []domain.StationAvailability) map[int64]bool {
	byID := make(map[int64]bool, len(availability))
	for _, item := range availability {
		byID[item.StationID] = item.IsAvailable
	}
	return byID
}

type fakeBookingsRepo struct {
	bookings []*domain.Booking
}

func (f *fakeBookingsRepo) GetByStationsWithFilter(_ context.Context, _ domain.StationBookingsFilter) ([]*domain.Booking, error) {
	return f.bookings, nil
}

type fakeOpenSessionsRepo struct {
	sessions []*domain.Session
}

func (f *fakeOpenSessionsRepo) GetOpenSessions(_ context.Context) ([]*domain.Session, error) {
	return f.sessions, nil
}
