package domain

import "time"

// StationType represents the kind of a physical station
type StationType string

const (
	StationTypeConsole StationType = "console"
	StationTypeTable   StationType = "table"
)

// Station represents a bookable physical resource (console or pool table)
type Station struct {
	ID         int64
	Name       string
	Type       StationType
	HourlyRate float64 // Стоимость часа игры в рублях

	// Occupied is true iff CurrentSessionID is non-nil
	Occupied         bool
	CurrentSessionID *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsFree returns true if the station has no running session
func (s *Station) IsFree() bool {
	return !s.Occupied && s.CurrentSessionID == nil
}

// StationUpdate частичное обновление станции (каталожные правки)
type StationUpdate struct {
	Name       *string
	HourlyRate *float64
}

// IsEmpty возвращает true, если обновление не содержит изменений
func (u *StationUpdate) IsEmpty() bool {
	return u.Name == nil && u.HourlyRate == nil
}
