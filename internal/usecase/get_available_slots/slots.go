package get_available_slots

import (
	"time"

	"github.com/m04kA/GLC-StationService/internal/domain"
	"github.com/m04kA/GLC-StationService/pkg/types"
)

// generateTimeSlots генерирует список всех возможных временных слотов на день
// Слоты генерируются от открытия лаунжа с фиксированным шагом slotDuration,
// неполный хвостовой слот (конец за временем закрытия) не генерируется.
// Затем слоты фильтруются с учетом текущего времени и минимального времени до бронирования
func generateTimeSlots(
	openTime types.TimeString,
	closeTime types.TimeString,
	slotDuration int,
	requestDate time.Time,
	now time.Time,
	leadTimeMinutes int,
) ([]types.TimeString, error) {
	// Дата в прошлом - слотов нет
	if isDateInPast(requestDate, now) {
		return []types.TimeString{}, nil
	}

	// Сравниваем в минутах от начала суток: сравнение TimeString после
	// AddMinutes сломалось бы на слоте, чей конец переваливает за полночь
	openMin, err := openTime.Minutes()
	if err != nil {
		return nil, err
	}
	closeMin, err := closeTime.Minutes()
	if err != nil {
		return nil, err
	}

	// Шаг 1: Генерируем ВСЕ слоты от открытия с фиксированным шагом;
	// слот, чей конец выходит за время закрытия, не предлагаем
	allSlots := make([]types.TimeString, 0)
	currentSlot := openTime

	for startMin := openMin; startMin+slotDuration <= closeMin; startMin += slotDuration {
		allSlots = append(allSlots, currentSlot)
		currentSlot, err = currentSlot.AddMinutes(slotDuration)
		if err != nil {
			return nil, err
		}
	}

	// Шаг 2: Если дата НЕ сегодня - возвращаем все слоты
	if !isSameDay(requestDate, now) {
		return allSlots, nil
	}

	// Шаг 3: Сегодняшние слоты фильтруем по минимальному допустимому времени начала
	minAllowedMin := now.Hour()*60 + now.Minute() + leadTimeMinutes

	availableSlots := make([]types.TimeString, 0)
	for _, slot := range allSlots {
		slotMin, err := slot.Minutes()
		if err != nil {
			return nil, err
		}
		if slotMin >= minAllowedMin {
			availableSlots = append(availableSlots, slot)
		}
	}

	return availableSlots, nil
}

// markSlotAvailability вычисляет признак доступности для каждого слота
// Слот занят, если с ним пересекается активное бронирование или открытая
// игровая сессия на станции (только для сегодняшней даты)
func markSlotAvailability(
	slots []types.TimeString,
	slotDuration int,
	bookings []*domain.Booking,
	openSession *domain.Session,
) []Slot {
	result := make([]Slot, len(slots))

	for i, slotStart := range slots {
		available := !hasOverlappingBooking(slotStart, slotDuration, bookings) &&
			!overlapsOpenSession(slotStart, slotDuration, openSession)

		slotEnd, err := slotStart.AddMinutes(slotDuration)
		if err != nil {
			slotEnd = slotStart
		}

		result[i] = Slot{
			StartTime:       slotStart,
			EndTime:         slotEnd,
			DurationMinutes: slotDuration,
			IsAvailable:     available,
		}
	}

	return result
}

// hasOverlappingBooking проверяет, пересекается ли слот хотя бы с одним активным бронированием
// Пересечение есть только если интервалы действительно накладываются друг на друга.
// Если бронирование заканчивается ровно там, где начинается слот (или наоборот) - это НЕ пересечение
//
// Примеры:
// - Слот 11:00-12:00, бронирование 11:30-12:30 → ЕСТЬ пересечение (11:30-12:00)
// - Слот 11:00-12:00, бронирование 10:00-11:00 → НЕТ пересечения (граничат)
// - Слот 11:00-12:00, бронирование 12:00-13:00 → НЕТ пересечения (граничат)
func hasOverlappingBooking(slotStart types.TimeString, slotDuration int, bookings []*domain.Booking) bool {
	slotEnd, err := slotStart.AddMinutes(slotDuration)
	if err != nil {
		// Не можем вычислить конец слота - считаем, что пересечений нет
		return false
	}

	for _, booking := range bookings {
		// Пропускаем неактивные бронирования
		if !booking.IsActive() {
			continue
		}

		// Строгие неравенства: граничные случаи не считаются пересечением
		if booking.StartTime.IsBefore(slotEnd) && booking.EndTime.IsAfter(slotStart) {
			return true
		}
	}

	return false
}

// overlapsOpenSession проверяет, пересекается ли слот с открытой игровой сессией
// У открытой сессии нет времени конца, поэтому она блокирует все слоты,
// заканчивающиеся после её начала
func overlapsOpenSession(slotStart types.TimeString, slotDuration int, session *domain.Session) bool {
	if session == nil {
		return false
	}

	slotEnd, err := slotStart.AddMinutes(slotDuration)
	if err != nil {
		return false
	}

	sessionStart := types.NewTimeString(session.StartTime)
	return sessionStart.IsBefore(slotEnd)
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	// Обнуляем время, чтобы сравнивать только даты
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
