package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/GLC-StationService/internal/domain"
	bookingRepo "github.com/m04kA/GLC-StationService/internal/infra/storage/booking"
	customerRepo "github.com/m04kA/GLC-StationService/internal/infra/storage/customer"
	stationRepo "github.com/m04kA/GLC-StationService/internal/infra/storage/station"
	"github.com/m04kA/GLC-StationService/internal/usecase/check_availability"
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

type fakeBookingRepo struct {
	err     error
	created *domain.Booking
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	created := *booking
	created.ID = 101
	created.CreatedAt = time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)
	created.UpdatedAt = created.CreatedAt
	f.created = &created
	return &created, nil
}

type fakeStationRepo struct {
	station *domain.Station
	err     error
}

func (f *fakeStationRepo) GetByID(_ context.Context, _ int64) (*domain.Station, error) {
	return f.station, f.err
}

func (f *fakeStationRepo) GetNamesByIDs(_ context.Context, _ []int64) (map[int64]string, error) {
	return map[int64]string{}, nil
}

type fakeCustomerRepo struct {
	customer *domain.Customer
	err      error
}

func (f *fakeCustomerRepo) GetByID(_ context.Context, _ int64) (*domain.Customer, error) {
	return f.customer, f.err
}

type fakeChecker struct {
	resp  *check_availability.Response
	err   error
	calls int
}

func (f *fakeChecker) ExecuteFresh(_ context.Context, _ *check_availability.Request) (*check_availability.Response, error) {
	f.calls++
	return f.resp, f.err
}

// fakeTxManager выполняет callback без реальной транзакции
type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeNotifier struct {
	levels   []string
	messages []string
}

func (f *fakeNotifier) Notify(_ context.Context, level, message string) {
	f.levels = append(f.levels, level)
	f.messages = append(f.messages, message)
}

type fixture struct {
	uc       *UseCase
	bookings *fakeBookingRepo
	checker  *fakeChecker
	notifier *fakeNotifier
}

func newFixture() *fixture {
	bookings := &fakeBookingRepo{}
	checker := &fakeChecker{resp: &check_availability.Response{Available: true}}
	notifier := &fakeNotifier{}

	uc := NewUseCase(
		bookings,
		&fakeStationRepo{station: &domain.Station{ID: 7, Name: "PS5 #1", HourlyRate: 100}},
		&fakeCustomerRepo{customer: &domain.Customer{ID: 1, Name: "Иван"}},
		checker,
		fakeTxManager{},
		notifier,
		nil,
		nopLogger{},
	)
	uc.timeProvider = &fakeTimeProvider{now: time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)}

	return &fixture{uc: uc, bookings: bookings, checker: checker, notifier: notifier}
}

func validRequest() *Request {
	return &Request{
		CustomerID: 1,
		StationID:  7,
		Date:       time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC),
		StartTime:  "14:00",
		EndTime:    "16:00",
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(101), resp.ID)
	assert.Equal(t, "PS5 #1", resp.StationName)
	assert.Equal(t, 120, resp.DurationMinutes)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)

	require.NotNil(t, f.bookings.created)
	assert.Equal(t, domain.StatusConfirmed, f.bookings.created.Status)

	require.Len(t, f.notifier.levels, 1)
	assert.Equal(t, "info", f.notifier.levels[0])
}

func TestExecute_ValidationErrors(t *testing.T) {
	f := newFixture()

	tests := []struct {
		name    string
		mutate  func(req *Request)
		wantErr error
	}{
		{"нет клиента", func(r *Request) { r.CustomerID = 0 }, ErrInvalidInput},
		{"нет станции", func(r *Request) { r.StationID = 0 }, ErrInvalidInput},
		{"start после end", func(r *Request) { r.StartTime, r.EndTime = "16:00", "14:00" }, ErrInvalidInput},
		{"кривое время", func(r *Request) { r.StartTime = "abc" }, ErrInvalidInput},
		{
			"дата в прошлом",
			func(r *Request) { r.Date = time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC) },
			ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Equal(t, 0, f.checker.calls, "невалидный запрос не доходит до проверки доступности")
}

func TestExecute_TooLateToBookToday(t *testing.T) {
	f := newFixture()

	// now = 12:00, буфер 30 минут: сегодняшний слот на 12:15 уже недоступен
	req := validRequest()
	req.Date = time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	req.StartTime = "12:15"
	req.EndTime = "13:15"

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrTooLateToBook)
}

func TestExecute_LeadTimeHoldsBeforeMidnight(t *testing.T) {
	f := newFixture()
	// 23:45 + 30 мин уже за полночью: буфер не должен обнуляться заворотом времени
	f.uc.timeProvider = &fakeTimeProvider{now: time.Date(2025, 10, 15, 23, 45, 0, 0, time.UTC)}

	req := validRequest()
	req.Date = time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	req.StartTime = "23:50"
	req.EndTime = "23:59"

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrTooLateToBook)
}

func TestExecute_TodayWithEnoughLead(t *testing.T) {
	f := newFixture()

	req := validRequest()
	req.Date = time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	req.StartTime = "12:30"
	req.EndTime = "13:30"

	_, err := f.uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecute_StationNotFound(t *testing.T) {
	f := newFixture()
	f.uc.stationRepo = &fakeStationRepo{err: stationRepo.ErrStationNotFound}

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrStationNotFound)
}

func TestExecute_CustomerNotFound(t *testing.T) {
	f := newFixture()
	f.uc.customerRepo = &fakeCustomerRepo{err: customerRepo.ErrCustomerNotFound}

	_, err := f.uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestExecute_FinalCheckConflict(t *testing.T) {
	f := newFixture()
	f.checker.resp = &check_availability.Response{
		Available:             false,
		UnavailableStationIDs: []int64{7},
		UnavailableStations:   []domain.UnavailableStation{{ID: 7, Name: "PS5 #1"}},
	}

	_, err := f.uc.Execute(context.Background(), validRequest())

	require.ErrorIs(t, err, ErrSlotNotAvailable)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{"PS5 #1"}, conflict.StationNames())

	assert.Nil(t, f.bookings.created, "при конфликте запись не создается")
	require.Len(t, f.notifier.levels, 1)
	assert.Equal(t, "error", f.notifier.levels[0])
}

func TestExecute_ConstraintConflict(t *testing.T) {
	f := newFixture()
	f.bookings.err = bookingRepo.ErrSlotTaken

	_, err := f.uc.Execute(context.Background(), validRequest())

	require.ErrorIs(t, err, ErrSlotNotAvailable)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{"PS5 #1"}, conflict.StationNames())
}

func TestConflictError_StationNames(t *testing.T) {
	t.Run("имя из ответа", func(t *testing.T) {
		conflict := &ConflictError{UnavailableStations: []domain.UnavailableStation{
			{ID: 7, Name: "PS5 #1"},
		}}
		assert.Equal(t, []string{"PS5 #1"}, conflict.StationNames())
	})

	t.Run("без имени подставляется номер", func(t *testing.T) {
		conflict := &ConflictError{UnavailableStations: []domain.UnavailableStation{
			{ID: 7},
		}}
		assert.Equal(t, []string{"#7"}, conflict.StationNames())
	})
}
