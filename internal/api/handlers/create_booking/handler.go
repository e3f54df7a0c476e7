package create_booking

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/m04kA/GLC-StationService/internal/api/handlers"
	createBooking "github.com/m04kA/GLC-StationService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateOrTime  = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgInvalidInput       = "некорректные входные данные"
	msgStationNotFound    = "станция не найдена"
	msgCustomerNotFound   = "клиент не найден"
	msgInvalidBookingDate = "некорректная дата бронирования"
	msgTooLateToBook      = "слишком поздно для бронирования этого слота"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var conflict *createBooking.ConflictError

		switch {
		case errors.As(err, &conflict):
			// 409 с именами станций, чтобы UI показал конкретное сообщение
			h.logger.Warn("POST /bookings - Slot conflict: customer_id=%d, station_id=%d, stations=%v",
				req.CustomerID, req.StationID, conflict.StationNames())
			respondConflict(w, conflict)

		case errors.Is(err, createBooking.ErrStationNotFound):
			h.logger.Warn("POST /bookings - Station not found: station_id=%d", req.StationID)
			handlers.RespondNotFound(w, msgStationNotFound)

		case errors.Is(err, createBooking.ErrCustomerNotFound):
			h.logger.Warn("POST /bookings - Customer not found: customer_id=%d", req.CustomerID)
			handlers.RespondNotFound(w, msgCustomerNotFound)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Invalid booking date: customer_id=%d, date=%s", req.CustomerID, req.BookingDate)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createBooking.ErrTooLateToBook):
			h.logger.Warn("POST /bookings - Too late to book: customer_id=%d, station_id=%d", req.CustomerID, req.StationID)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: customer_id=%d, station_id=%d, error=%v",
				req.CustomerID, req.StationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, customer_id=%d, station_id=%d",
		result.ID, req.CustomerID, req.StationID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}

// respondConflict отправляет 409 с пользовательским сообщением и именами станций
func respondConflict(w http.ResponseWriter, conflict *createBooking.ConflictError) {
	names := conflict.StationNames()
	message := "выбранный временной слот недоступен"
	if len(names) > 0 {
		message = fmt.Sprintf("станция %s больше недоступна на выбранное время, выберите другой слот",
			strings.Join(names, ", "))
	}

	handlers.RespondJSON(w, http.StatusConflict, ConflictResponse{
		Code:                http.StatusConflict,
		Message:             message,
		UnavailableStations: names,
	})
}
