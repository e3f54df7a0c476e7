package domain

import (
	"time"

	"github.com/m04kA/GLC-StationService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
	StatusNoShow     BookingStatus = "no_show"
)

// Booking represents a reservation of a station for a future time window,
// distinct from a live Session
type Booking struct {
	ID         int64
	StationID  int64
	CustomerID int64

	BookingDate     time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Status          BookingStatus
	Notes           *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking occupies its time window
// (only confirmed and in-progress bookings block a station)
func (b *Booking) IsActive() bool {
	return b.Status == StatusConfirmed || b.Status == StatusInProgress
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusConfirmed
}

// StationBookingsFilter фильтр для выборки бронирований по станциям
type StationBookingsFilter struct {
	StationIDs      []int64    // Обязательный параметр
	Date            *time.Time // Дата бронирований (опционально, если nil - без ограничения)
	IncludeInactive bool       // Включать ли неактивные бронирования (отмененные, no-show, завершенные)
}
