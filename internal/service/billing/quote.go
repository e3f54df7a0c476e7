package billing

import (
	"math"
	"time"

	"github.com/m04kA/GLC-StationService/internal/domain"
)

// Elapsed разложение прошедшего времени сессии для отображения и расчетов
type Elapsed struct {
	Hours   int
	Minutes int
	Seconds int

	// TotalMs полное прошедшее время в миллисекундах
	TotalMs int64
	// HoursExact дробное количество часов, база для расчета стоимости
	HoursExact float64
}

// DecomposeElapsed раскладывает интервал [start, now] на часы/минуты/секунды
func DecomposeElapsed(start, now time.Time) Elapsed {
	ms := now.Sub(start).Milliseconds()
	if ms < 0 {
		ms = 0
	}

	totalSeconds := ms / 1000

	return Elapsed{
		Hours:      int(totalSeconds / 3600),
		Minutes:    int(totalSeconds % 3600 / 60),
		Seconds:    int(totalSeconds % 60),
		TotalMs:    ms,
		HoursExact: float64(ms) / float64(domain.MillisPerHour),
	}
}

// DurationMinutes длительность сессии в целых минутах, всегда с округлением ВВЕРХ
// Начатая минута оплачивается целиком: 61 секунда игры = 2 минуты
func DurationMinutes(start, end time.Time) int {
	ms := end.Sub(start).Milliseconds()
	if ms <= 0 {
		return 0
	}
	return int((ms + 59_999) / 60_000)
}

// SessionCost стоимость сессии по прошедшим часам и тарифу станции
//
// Порядок округления принципиален для воспроизводимости счетов:
// сначала ceil недисконтированной стоимости, затем скидка члена клуба
// и повторный ceil. Скидка ДО округления дала бы другие суммы
func SessionCost(hoursElapsed, hourlyRate float64, isMember bool) float64 {
	cost := math.Ceil(hoursElapsed * hourlyRate)
	if isMember {
		cost = math.Ceil(cost * domain.MemberDiscountFactor)
	}
	return cost
}

// Quote текущая оценка открытой сессии, пересчитывается каждый тик
// Чистая функция от (now, startTime, rate, membership) - без накопленного дрейфа
type Quote struct {
	StationID  int64
	SessionID  int64
	Elapsed    Elapsed
	Cost       float64

	MembershipActive bool
	// HoursConsumed часы, потребленные с начала сессии (только для отображения,
	// ничего не списывается до закрытия)
	HoursConsumed float64
	// MembershipHoursLeft отображаемый остаток часов, floor на нуле
	MembershipHoursLeft float64
	// CoveredByMembership true, если на данный момент сессия целиком
	// покрывается остатком часов
	CoveredByMembership bool
}

// QuoteAt считает текущую оценку открытой сессии на момент now
func QuoteAt(
	now time.Time,
	session *domain.Session,
	station *domain.Station,
	customer *domain.Customer,
) Quote {
	elapsed := DecomposeElapsed(session.StartTime, now)

	quote := Quote{
		StationID:     station.ID,
		SessionID:     session.ID,
		Elapsed:       elapsed,
		HoursConsumed: elapsed.HoursExact,
	}

	isMember := customer != nil && customer.MembershipActive
	quote.MembershipActive = isMember
	quote.Cost = SessionCost(elapsed.HoursExact, station.HourlyRate, isMember)

	if isMember {
		remaining := customer.MembershipHoursLeft - elapsed.HoursExact
		if remaining < 0 {
			remaining = 0
		}
		quote.MembershipHoursLeft = remaining
		quote.CoveredByMembership = customer.MembershipHoursLeft >= elapsed.HoursExact
		if quote.CoveredByMembership {
			quote.Cost = 0
		}
	}

	return quote
}

// Settlement авторитетный расчет при закрытии сессии
type Settlement struct {
	DurationMinutes int
	Cost            float64
	// FreeSession true, когда сессия целиком покрыта часами membership;
	// бесплатная сессия НЕ дисконтируется дополнительно
	FreeSession         bool
	MemberDiscount      bool
	MembershipHoursUsed float64
}

// Settle считает финальные длительность, стоимость и списание часов membership
// customer == nil означает потерянную ссылку на клиента: сессия все равно
// закрывается и тарифицируется, но membership не трогается
func Settle(start, end time.Time, hourlyRate float64, customer *domain.Customer) Settlement {
	elapsed := DecomposeElapsed(start, end)

	settlement := Settlement{
		DurationMinutes: DurationMinutes(start, end),
	}

	isMember := customer != nil && customer.MembershipActive

	// Сессия, целиком покрытая остатком часов, бесплатна - ровно одно из двух
	// правил (покрытие часами ИЛИ платная стоимость со скидкой) применяется
	if isMember && customer.MembershipHoursLeft >= elapsed.HoursExact {
		settlement.FreeSession = true
		settlement.MembershipHoursUsed = elapsed.HoursExact
		return settlement
	}

	settlement.Cost = SessionCost(elapsed.HoursExact, hourlyRate, isMember)
	settlement.MemberDiscount = isMember
	return settlement
}
