package domain

import "github.com/m04kA/GLC-StationService/pkg/types"

// TimeSlot is a candidate bookable time window; derived, never persisted
type TimeSlot struct {
	StartTime   types.TimeString
	EndTime     types.TimeString
	IsAvailable bool
}

// StationAvailability результат проверки доступности одной станции
type StationAvailability struct {
	StationID   int64
	IsAvailable bool
}

// UnavailableStation станция, недоступная в запрошенном окне
// Имя нужно вызывающей стороне для конкретного сообщения пользователю
type UnavailableStation struct {
	ID   int64
	Name string
}
