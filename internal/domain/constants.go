package domain

// Default configuration values
const (
	DefaultSlotDurationMinutes = 60
	DefaultOpenTime            = "10:00"
	DefaultCloseTime           = "23:00"
)

// Booking rules
const (
	// BookingLeadTimeMinutes фиксированный буфер: сегодняшний слот нельзя
	// забронировать, если он начинается раньше, чем через 30 минут
	BookingLeadTimeMinutes = 30

	MaxNotesLength = 500
)

// Billing rules
const (
	// MemberDiscountFactor скидка активного члена клуба, применяется
	// ПОСЛЕ округления вверх недисконтированной стоимости
	MemberDiscountFactor = 0.5

	MillisPerHour = 3_600_000
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses список статусов бронирований, занимающих станцию
// Используется при подсчете пересечений временных окон
var ActiveStatuses = []BookingStatus{
	StatusConfirmed,
	StatusInProgress,
}

// InactiveStatuses список статусов, не влияющих на доступность станции
var InactiveStatuses = []BookingStatus{
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}
