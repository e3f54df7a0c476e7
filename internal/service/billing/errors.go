package billing

import "errors"

var (
	// ErrStationNotFound возвращается, когда станция не найдена
	ErrStationNotFound = errors.New("billing: station not found")

	// ErrNoActiveSession возвращается, когда на станции нет открытой сессии
	ErrNoActiveSession = errors.New("billing: station has no active session")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("billing: internal error")
)
