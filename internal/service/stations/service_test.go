package stations

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/GLC-StationService/internal/domain"
	customerRepo "github.com/m04kA/GLC-StationService/internal/infra/storage/customer"
	sessionRepo "github.com/m04kA/GLC-StationService/internal/infra/storage/session"
	stationRepo "github.com/m04kA/GLC-StationService/internal/infra/storage/station"
	"github.com/m04kA/GLC-StationService/internal/service/stations/models"
	"github.com/m04kA/GLC-StationService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeTimeProvider struct {
	now time.Time
}

func (p *fakeTimeProvider) Now() time.Time {
	return p.now
}

// fakeTxManager выполняет callback без реальной транзакции
type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeNotifier struct {
	levels []string
}

func (f *fakeNotifier) Notify(_ context.Context, level, _ string) {
	f.levels = append(f.levels, level)
}

type fakeStationRepo struct {
	stations map[int64]*domain.Station

	occupancyCalls int
	deleted        []int64
	deleteErr      error
	updates        []domain.StationUpdate
}

func (f *fakeStationRepo) Create(_ context.Context, station *domain.Station) (*domain.Station, error) {
	created := *station
	created.ID = int64(len(f.stations) + 100)
	f.stations[created.ID] = &created
	return &created, nil
}

func (f *fakeStationRepo) GetAll(_ context.Context) ([]*domain.Station, error) {
	result := make([]*domain.Station, 0, len(f.stations))
	for _, st := range f.stations {
		result = append(result, st)
	}
	return result, nil
}

func (f *fakeStationRepo) GetByID(_ context.Context, id int64) (*domain.Station, error) {
	st, ok := f.stations[id]
	if !ok {
		return nil, stationRepo.ErrStationNotFound
	}
	copied := *st
	return &copied, nil
}

func (f *fakeStationRepo) Update(_ context.Context, id int64, update domain.StationUpdate) error {
	if _, ok := f.stations[id]; !ok {
		return stationRepo.ErrStationNotFound
	}
	f.updates = append(f.updates, update)
	return nil
}

func (f *fakeStationRepo) SetOccupancy(_ context.Context, id int64, occupied bool, currentSessionID *int64) error {
	f.occupancyCalls++
	st := f.stations[id]
	st.Occupied = occupied
	st.CurrentSessionID = currentSessionID
	return nil
}

func (f *fakeStationRepo) Delete(_ context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.stations[id]; !ok {
		return stationRepo.ErrStationNotFound
	}
	delete(f.stations, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeSessionRepo struct {
	open      map[int64]*domain.Session
	createErr error
	nextID    int64

	closed []domain.SessionClose
}

func (f *fakeSessionRepo) Create(_ context.Context, session *domain.Session) (*domain.Session, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, busy := f.open[session.StationID]; busy {
		return nil, sessionRepo.ErrStationBusy
	}
	f.nextID++
	created := *session
	created.ID = f.nextID
	if f.open == nil {
		f.open = make(map[int64]*domain.Session)
	}
	f.open[session.StationID] = &created
	return &created, nil
}

func (f *fakeSessionRepo) GetOpenByStationID(_ context.Context, stationID int64) (*domain.Session, error) {
	session, ok := f.open[stationID]
	if !ok {
		return nil, sessionRepo.ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (f *fakeSessionRepo) Close(_ context.Context, id int64, close domain.SessionClose) error {
	f.closed = append(f.closed, close)
	for stationID, session := range f.open {
		if session.ID == id {
			delete(f.open, stationID)
			break
		}
	}
	return nil
}

type fakeCustomerRepo struct {
	customers map[int64]*domain.Customer

	counterUpdates []domain.CustomerUpdate
}

func (f *fakeCustomerRepo) GetByID(_ context.Context, id int64) (*domain.Customer, error) {
	customer, ok := f.customers[id]
	if !ok {
		return nil, customerRepo.ErrCustomerNotFound
	}
	copied := *customer
	return &copied, nil
}

func (f *fakeCustomerRepo) UpdateCounters(_ context.Context, id int64, update domain.CustomerUpdate) error {
	f.counterUpdates = append(f.counterUpdates, update)
	customer := f.customers[id]
	if update.TotalPlayTimeMinutes != nil {
		customer.TotalPlayTimeMinutes = *update.TotalPlayTimeMinutes
	}
	if update.MembershipHoursLeft != nil {
		customer.MembershipHoursLeft = *update.MembershipHoursLeft
	}
	return nil
}

type fixture struct {
	svc       *Service
	stations  *fakeStationRepo
	sessions  *fakeSessionRepo
	customers *fakeCustomerRepo
	notifier  *fakeNotifier
	clock     *fakeTimeProvider
}

func newFixture() *fixture {
	stations := &fakeStationRepo{stations: map[int64]*domain.Station{
		7: {ID: 7, Name: "PS5 #1", Type: domain.StationTypeConsole, HourlyRate: 100},
	}}
	sessions := &fakeSessionRepo{}
	customers := &fakeCustomerRepo{customers: map[int64]*domain.Customer{
		1: {ID: 1, Name: "Иван"},
	}}
	notifier := &fakeNotifier{}
	clock := &fakeTimeProvider{now: time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)}

	svc := NewService(stations, sessions, customers, fakeTxManager{}, notifier, nil, nopLogger{})
	svc.timeProvider = clock

	return &fixture{
		svc:       svc,
		stations:  stations,
		sessions:  sessions,
		customers: customers,
		notifier:  notifier,
		clock:     clock,
	}
}

func TestStartSession_Success(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.StartSession(context.Background(), 7, 1)
	require.NoError(t, err)

	assert.Equal(t, int64(7), resp.StationID)
	assert.Equal(t, int64(1), resp.CustomerID)

	station := f.stations.stations[7]
	assert.True(t, station.Occupied)
	require.NotNil(t, station.CurrentSessionID)
	assert.Equal(t, resp.ID, *station.CurrentSessionID)

	require.Len(t, f.notifier.levels, 1)
	assert.Equal(t, "info", f.notifier.levels[0])
}

func TestStartSession_StationOccupied(t *testing.T) {
	f := newFixture()

	_, err := f.svc.StartSession(context.Background(), 7, 1)
	require.NoError(t, err)

	_, err = f.svc.StartSession(context.Background(), 7, 1)
	assert.ErrorIs(t, err, ErrStationOccupied)

	// Вторая сессия не открыта
	assert.Len(t, f.sessions.open, 1)
}

func TestStartSession_RaceResolvedByIndex(t *testing.T) {
	f := newFixture()

	// Станция еще выглядит свободной, но конкурент успел первым:
	// уникальный индекс открытых сессий отвечает ErrStationBusy
	f.sessions.createErr = sessionRepo.ErrStationBusy

	_, err := f.svc.StartSession(context.Background(), 7, 1)
	assert.ErrorIs(t, err, ErrStationOccupied)
	assert.Equal(t, 0, f.stations.occupancyCalls)
}

func TestStartSession_Validation(t *testing.T) {
	f := newFixture()

	_, err := f.svc.StartSession(context.Background(), 0, 1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.StartSession(context.Background(), 99, 1)
	assert.ErrorIs(t, err, ErrStationNotFound)

	_, err = f.svc.StartSession(context.Background(), 7, 99)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestEndSession_PaidCharge(t *testing.T) {
	f := newFixture()

	_, err := f.svc.StartSession(context.Background(), 7, 1)
	require.NoError(t, err)

	f.clock.now = f.clock.now.Add(45 * time.Minute)

	resp, err := f.svc.EndSession(context.Background(), 7)
	require.NoError(t, err)

	// ceil(0.75 * 100) = 75
	assert.Equal(t, 45, resp.Charge.DurationMinutes)
	assert.Equal(t, 75.0, resp.Charge.Cost)
	assert.False(t, resp.Charge.FreeSession)

	assert.False(t, f.stations.stations[7].Occupied)
	assert.Nil(t, f.stations.stations[7].CurrentSessionID)
	assert.Empty(t, f.sessions.open)

	require.NotNil(t, resp.Customer)
	assert.Equal(t, 45, resp.Customer.TotalPlayTimeMinutes)
}

func TestEndSession_FreeSessionDeductsHours(t *testing.T) {
	f := newFixture()
	f.customers.customers[1].MembershipActive = true
	f.customers.customers[1].MembershipHoursLeft = 5

	_, err := f.svc.StartSession(context.Background(), 7, 1)
	require.NoError(t, err)

	f.clock.now = f.clock.now.Add(90 * time.Minute)

	resp, err := f.svc.EndSession(context.Background(), 7)
	require.NoError(t, err)

	assert.True(t, resp.Charge.FreeSession)
	assert.Equal(t, 0.0, resp.Charge.Cost)
	assert.InDelta(t, 1.5, resp.Charge.MembershipHoursUsed, 1e-9)

	assert.InDelta(t, 3.5, f.customers.customers[1].MembershipHoursLeft, 1e-9)
	assert.Equal(t, 90, f.customers.customers[1].TotalPlayTimeMinutes)
}

func TestEndSession_NotEnoughHoursChargesDiscounted(t *testing.T) {
	f := newFixture()
	f.customers.customers[1].MembershipActive = true
	f.customers.customers[1].MembershipHoursLeft = 1

	_, err := f.svc.StartSession(context.Background(), 7, 1)
	require.NoError(t, err)

	f.clock.now = f.clock.now.Add(2 * time.Hour)

	resp, err := f.svc.EndSession(context.Background(), 7)
	require.NoError(t, err)

	assert.False(t, resp.Charge.FreeSession)
	assert.True(t, resp.Charge.MemberDiscount)
	// ceil(2*100) = 200, член: ceil(100) = 100
	assert.Equal(t, 100.0, resp.Charge.Cost)
	// Часы не списываются при платной сессии
	assert.Equal(t, 1.0, f.customers.customers[1].MembershipHoursLeft)
}

func TestEndSession_MissingCustomerStillCloses(t *testing.T) {
	f := newFixture()

	_, err := f.svc.StartSession(context.Background(), 7, 1)
	require.NoError(t, err)

	delete(f.customers.customers, 1)
	f.clock.now = f.clock.now.Add(time.Hour)

	resp, err := f.svc.EndSession(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 100.0, resp.Charge.Cost)
	assert.Nil(t, resp.Customer)
	assert.Empty(t, f.customers.counterUpdates)
	assert.False(t, f.stations.stations[7].Occupied)
}

func TestEndSession_NoActiveSession(t *testing.T) {
	f := newFixture()

	_, err := f.svc.EndSession(context.Background(), 7)
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestDeleteStation(t *testing.T) {
	t.Run("свободная станция удаляется", func(t *testing.T) {
		f := newFixture()

		require.NoError(t, f.svc.DeleteStation(context.Background(), 7))
		assert.Equal(t, []int64{7}, f.stations.deleted)
	})

	t.Run("занятая станция не удаляется", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.StartSession(context.Background(), 7, 1)
		require.NoError(t, err)

		err = f.svc.DeleteStation(context.Background(), 7)
		assert.ErrorIs(t, err, ErrStationOccupied)
		assert.Empty(t, f.stations.deleted)
	})

	t.Run("неизвестная станция", func(t *testing.T) {
		f := newFixture()

		err := f.svc.DeleteStation(context.Background(), 99)
		assert.ErrorIs(t, err, ErrStationNotFound)
	})

	t.Run("станция с сессиями или бронированиями не удаляется", func(t *testing.T) {
		f := newFixture()
		f.stations.deleteErr = stationRepo.ErrStationHasHistory

		err := f.svc.DeleteStation(context.Background(), 7)
		assert.ErrorIs(t, err, ErrStationHasHistory)
	})
}

func TestCreateStation(t *testing.T) {
	f := newFixture()

	t.Run("валидная станция создается свободной", func(t *testing.T) {
		resp, err := f.svc.CreateStation(context.Background(), &models.CreateStationRequest{
			Name:       "Бильярд #1",
			Type:       "table",
			HourlyRate: 300,
		})
		require.NoError(t, err)

		assert.Equal(t, "Бильярд #1", resp.Name)
		assert.False(t, resp.Occupied)
		assert.Nil(t, resp.CurrentSessionID)
	})

	t.Run("неизвестный тип отклоняется", func(t *testing.T) {
		_, err := f.svc.CreateStation(context.Background(), &models.CreateStationRequest{
			Name:       "VR-зона",
			Type:       "vr",
			HourlyRate: 500,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("неположительный тариф отклоняется", func(t *testing.T) {
		_, err := f.svc.CreateStation(context.Background(), &models.CreateStationRequest{
			Name:       "PS5 #2",
			Type:       "console",
			HourlyRate: 0,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestUpdateStation(t *testing.T) {
	f := newFixture()

	t.Run("пустое обновление отклоняется", func(t *testing.T) {
		err := f.svc.UpdateStation(context.Background(), 7, &models.UpdateStationRequest{})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("неположительный тариф отклоняется", func(t *testing.T) {
		err := f.svc.UpdateStation(context.Background(), 7, &models.UpdateStationRequest{
			HourlyRate: ptr.Ptr(0.0),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("валидная правка доходит до репозитория", func(t *testing.T) {
		err := f.svc.UpdateStation(context.Background(), 7, &models.UpdateStationRequest{
			Name:       ptr.Ptr("Бильярд #2"),
			HourlyRate: ptr.Ptr(350.0),
		})
		require.NoError(t, err)

		require.Len(t, f.stations.updates, 1)
		assert.Equal(t, "Бильярд #2", *f.stations.updates[0].Name)
	})

	t.Run("неизвестная станция", func(t *testing.T) {
		err := f.svc.UpdateStation(context.Background(), 99, &models.UpdateStationRequest{
			Name: ptr.Ptr("X"),
		})
		assert.ErrorIs(t, err, ErrStationNotFound)
	})
}
