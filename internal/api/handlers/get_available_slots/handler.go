package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/GLC-StationService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/GLC-StationService/internal/usecase/get_available_slots"
)

const (
	msgInvalidStationID = "некорректный ID станции"
	msgMissingStationID = "ID станции обязателен"
	msgMissingDate      = "дата обязательна"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgStationNotFound  = "станция не найдена"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/stations/available-slots
// Query params: stationId (required), date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем stationId из query параметров
	stationIDStr := r.URL.Query().Get("stationId")
	if stationIDStr == "" {
		h.logger.Warn("GET /stations/available-slots - Missing station ID")
		handlers.RespondBadRequest(w, msgMissingStationID)
		return
	}

	stationID, err := strconv.ParseInt(stationIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /stations/available-slots - Invalid station ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStationID)
		return
	}

	// Извлекаем date из query параметров
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /stations/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(stationID, dateStr)
	if err != nil {
		h.logger.Warn("GET /stations/available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrStationNotFound):
			h.logger.Warn("GET /stations/available-slots - Station not found: station_id=%d", stationID)
			handlers.RespondNotFound(w, msgStationNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput),
			errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /stations/available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("GET /stations/available-slots - Failed to get slots: station_id=%d, error=%v",
				stationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /stations/available-slots - Slots retrieved successfully: station_id=%d, date=%s, slots_count=%d",
		stationID, dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
