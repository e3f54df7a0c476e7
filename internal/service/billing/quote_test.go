package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/GLC-StationService/internal/domain"
)

func TestDecomposeElapsed(t *testing.T) {
	start := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

	t.Run("полтора часа", func(t *testing.T) {
		elapsed := DecomposeElapsed(start, start.Add(90*time.Minute))

		assert.Equal(t, 1, elapsed.Hours)
		assert.Equal(t, 30, elapsed.Minutes)
		assert.Equal(t, 0, elapsed.Seconds)
		assert.InDelta(t, 1.5, elapsed.HoursExact, 1e-9)
	})

	t.Run("часы минуты секунды", func(t *testing.T) {
		elapsed := DecomposeElapsed(start, start.Add(2*time.Hour+5*time.Minute+42*time.Second))

		assert.Equal(t, 2, elapsed.Hours)
		assert.Equal(t, 5, elapsed.Minutes)
		assert.Equal(t, 42, elapsed.Seconds)
	})

	t.Run("отрицательный интервал считается нулевым", func(t *testing.T) {
		elapsed := DecomposeElapsed(start, start.Add(-time.Minute))

		assert.Equal(t, int64(0), elapsed.TotalMs)
		assert.Equal(t, 0.0, elapsed.HoursExact)
	})
}

func TestDurationMinutes(t *testing.T) {
	start := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		want    int
	}{
		{"ровно 45 минут", 45 * time.Minute, 45},
		{"61 секунда округляется до 2 минут", 61 * time.Second, 2},
		{"ровно минута", time.Minute, 1},
		{"одна секунда", time.Second, 1},
		{"ноль", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DurationMinutes(start, start.Add(tt.elapsed)))
		})
	}
}

func TestSessionCost(t *testing.T) {
	t.Run("не член клуба", func(t *testing.T) {
		// ceil(1.5 * 100) = 150
		assert.Equal(t, 150.0, SessionCost(1.5, 100, false))
	})

	t.Run("член клуба, скидка после округления", func(t *testing.T) {
		// ceil(ceil(1.5*100) * 0.5) = ceil(75) = 75
		assert.Equal(t, 75.0, SessionCost(1.5, 100, true))
	})

	t.Run("неполный час округляется вверх", func(t *testing.T) {
		// ceil(0.75 * 200) = 150
		assert.Equal(t, 150.0, SessionCost(0.75, 200, false))
	})

	t.Run("порядок округления", func(t *testing.T) {
		// ceil(1.01*99) = ceil(99.99) = 100, член: ceil(50) = 50
		// Скидка до округления дала бы ceil(49.995) = 50 здесь же,
		// но на границах вроде 1.5*101: ceil(151.5)=152 -> ceil(76)=76,
		// а до округления было бы ceil(75.75)=76 - проверяем первый путь
		assert.Equal(t, 76.0, SessionCost(1.5, 101, true))
	})
}

func TestQuoteAt(t *testing.T) {
	start := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)
	station := &domain.Station{ID: 7, Name: "PS5 #1", HourlyRate: 100}
	session := &domain.Session{ID: 42, StationID: 7, CustomerID: 1, StartTime: start}

	t.Run("без клиента тарифицируется без membership", func(t *testing.T) {
		quote := QuoteAt(start.Add(90*time.Minute), session, station, nil)

		assert.Equal(t, 150.0, quote.Cost)
		assert.False(t, quote.MembershipActive)
		assert.False(t, quote.CoveredByMembership)
	})

	t.Run("сессия покрыта остатком часов", func(t *testing.T) {
		customer := &domain.Customer{ID: 1, MembershipActive: true, MembershipHoursLeft: 5}

		quote := QuoteAt(start.Add(90*time.Minute), session, station, customer)

		assert.True(t, quote.CoveredByMembership)
		assert.Equal(t, 0.0, quote.Cost)
		assert.InDelta(t, 3.5, quote.MembershipHoursLeft, 1e-9)
	})

	t.Run("остаток часов меньше прошедшего - платно со скидкой", func(t *testing.T) {
		customer := &domain.Customer{ID: 1, MembershipActive: true, MembershipHoursLeft: 1}

		quote := QuoteAt(start.Add(90*time.Minute), session, station, customer)

		assert.False(t, quote.CoveredByMembership)
		assert.Equal(t, 75.0, quote.Cost)
		// Отображаемый остаток floor на нуле
		assert.Equal(t, 0.0, quote.MembershipHoursLeft)
	})
}

func TestSettle(t *testing.T) {
	start := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

	t.Run("45 минут по 200 в час", func(t *testing.T) {
		settlement := Settle(start, start.Add(45*time.Minute), 200, nil)

		assert.Equal(t, 45, settlement.DurationMinutes)
		assert.Equal(t, 150.0, settlement.Cost)
		assert.False(t, settlement.FreeSession)
		assert.False(t, settlement.MemberDiscount)
	})

	t.Run("покрытая часами сессия бесплатна и не дисконтируется", func(t *testing.T) {
		customer := &domain.Customer{ID: 1, MembershipActive: true, MembershipHoursLeft: 2}

		settlement := Settle(start, start.Add(90*time.Minute), 100, customer)

		require.True(t, settlement.FreeSession)
		// Ровно одно из двух правил: бесплатная сессия не несет скидку
		assert.False(t, settlement.MemberDiscount)
		assert.Equal(t, 0.0, settlement.Cost)
		assert.InDelta(t, 1.5, settlement.MembershipHoursUsed, 1e-9)
	})

	t.Run("остатка не хватает - сессия платная, часы не списываются", func(t *testing.T) {
		customer := &domain.Customer{ID: 1, MembershipActive: true, MembershipHoursLeft: 2}

		settlement := Settle(start, start.Add(3*time.Hour), 100, customer)

		assert.False(t, settlement.FreeSession)
		assert.True(t, settlement.MemberDiscount)
		// ceil(3*100) = 300, член: ceil(150) = 150
		assert.Equal(t, 150.0, settlement.Cost)
		assert.Equal(t, 0.0, settlement.MembershipHoursUsed)
	})

	t.Run("неактивное membership не дает ни покрытия, ни скидки", func(t *testing.T) {
		customer := &domain.Customer{ID: 1, MembershipActive: false, MembershipHoursLeft: 100}

		settlement := Settle(start, start.Add(time.Hour), 100, customer)

		assert.False(t, settlement.FreeSession)
		assert.False(t, settlement.MemberDiscount)
		assert.Equal(t, 100.0, settlement.Cost)
	})

	t.Run("61 секунда - 2 оплачиваемые минуты", func(t *testing.T) {
		settlement := Settle(start, start.Add(61*time.Second), 100, nil)

		assert.Equal(t, 2, settlement.DurationMinutes)
	})
}
