package start_session

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/GLC-StationService/internal/api/handlers"
	"github.com/m04kA/GLC-StationService/internal/service/stations"
)

const (
	msgInvalidStationID   = "некорректный ID станции"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные входные данные"
	msgStationNotFound    = "станция не найдена"
	msgCustomerNotFound   = "клиент не найден"
	msgStationOccupied    = "станция уже занята"
)

type Handler struct {
	service StationsService
	logger  Logger
}

func NewHandler(service StationsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/stations/{stationId}/sessions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	stationIDStr := vars["stationId"]

	stationID, err := strconv.ParseInt(stationIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("POST /stations/{id}/sessions - Invalid station ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStationID)
		return
	}

	var req StartSessionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /stations/{id}/sessions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.StartSession(r.Context(), stationID, req.CustomerID)
	if err != nil {
		switch {
		case errors.Is(err, stations.ErrStationNotFound):
			h.logger.Warn("POST /stations/{id}/sessions - Station not found: station_id=%d", stationID)
			handlers.RespondNotFound(w, msgStationNotFound)

		case errors.Is(err, stations.ErrCustomerNotFound):
			h.logger.Warn("POST /stations/{id}/sessions - Customer not found: customer_id=%d", req.CustomerID)
			handlers.RespondNotFound(w, msgCustomerNotFound)

		case errors.Is(err, stations.ErrStationOccupied):
			h.logger.Warn("POST /stations/{id}/sessions - Station occupied: station_id=%d", stationID)
			handlers.RespondError(w, http.StatusConflict, msgStationOccupied)

		case errors.Is(err, stations.ErrInvalidInput):
			h.logger.Warn("POST /stations/{id}/sessions - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /stations/{id}/sessions - Failed to start session: station_id=%d, error=%v",
				stationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /stations/{id}/sessions - Session started successfully: session_id=%d, station_id=%d, customer_id=%d",
		result.ID, stationID, req.CustomerID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
