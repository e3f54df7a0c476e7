package create_booking

import (
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/GLC-StationService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInvalidDate возвращается, когда дата бронирования в прошлом
	ErrInvalidDate = errors.New("create_booking: booking date is in the past")

	// ErrTooLateToBook возвращается при нарушении минимального времени до начала
	ErrTooLateToBook = errors.New("create_booking: too late to book this slot")

	// ErrStationNotFound возвращается, когда станция не найдена
	ErrStationNotFound = errors.New("create_booking: station not found")

	// ErrCustomerNotFound возвращается, когда клиент не найден
	ErrCustomerNotFound = errors.New("create_booking: customer not found")

	// ErrSlotNotAvailable возвращается, когда запрошенное окно уже занято
	ErrSlotNotAvailable = errors.New("create_booking: slot is no longer available")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

// ConflictError ошибка конфликта бронирования с именами занятых станций
// Оборачивает ErrSlotNotAvailable, чтобы работали проверки через errors.Is,
// и несет детали для пользовательского сообщения (errors.As на месте вызова)
type ConflictError struct {
	UnavailableStations []domain.UnavailableStation
}

// Error реализует интерфейс error
func (e *ConflictError) Error() string {
	if len(e.UnavailableStations) == 0 {
		return ErrSlotNotAvailable.Error()
	}
	names := make([]string, 0, len(e.UnavailableStations))
	for _, s := range e.UnavailableStations {
		if s.Name != "" {
			names = append(names, s.Name)
		} else {
			names = append(names, fmt.Sprintf("#%d", s.ID))
		}
	}
	return fmt.Sprintf("%s: %s", ErrSlotNotAvailable.Error(), strings.Join(names, ", "))
}

// Unwrap возвращает базовую ошибку для errors.Is
func (e *ConflictError) Unwrap() error {
	return ErrSlotNotAvailable
}

// StationNames возвращает имена занятых станций для пользовательского сообщения
func (e *ConflictError) StationNames() []string {
	names := make([]string, 0, len(e.UnavailableStations))
	for _, s := range e.UnavailableStations {
		if s.Name != "" {
			names = append(names, s.Name)
		} else {
			names = append(names, fmt.Sprintf("#%d", s.ID))
		}
	}
	return names
}
