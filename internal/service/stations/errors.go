package stations

import "errors"

var (
	// ErrStationNotFound возвращается, когда станция не найдена
	ErrStationNotFound = errors.New("stations: station not found")

	// ErrStationOccupied возвращается при попытке стартовать сессию на занятой станции
	// Указывает на устаревшее состояние UI - лечится перечитыванием списка станций
	ErrStationOccupied = errors.New("stations: station is occupied")

	// ErrNoActiveSession возвращается при попытке завершить сессию на свободной станции
	ErrNoActiveSession = errors.New("stations: station has no active session")

	// ErrStationHasHistory возвращается при попытке удалить станцию,
	// у которой есть сессии или бронирования
	ErrStationHasHistory = errors.New("stations: station has sessions or bookings")

	// ErrCustomerNotFound возвращается, когда клиент не найден
	ErrCustomerNotFound = errors.New("stations: customer not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("stations: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("stations: internal error")
)
