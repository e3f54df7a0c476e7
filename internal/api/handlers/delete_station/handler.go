package delete_station

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/GLC-StationService/internal/api/handlers"
	"github.com/m04kA/GLC-StationService/internal/service/stations"
)

const (
	msgInvalidStationID = "некорректный ID станции"
	msgStationNotFound  = "станция не найдена"
	msgStationOccupied  = "станция занята, завершите сессию перед удалением"
	msgStationHistory   = "у станции есть сессии или бронирования, удаление невозможно"
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

// Handle DELETE /api/v1/stations/{stationId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	stationIDStr := vars["stationId"]

	stationID, err := strconv.ParseInt(stationIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /stations/{id} - Invalid station ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStationID)
		return
	}

	if err := h.service.DeleteStation(r.Context(), stationID); err != nil {
		switch {
		case errors.Is(err, stations.ErrStationNotFound):
			h.logger.Warn("DELETE /stations/{id} - Station not found: station_id=%d", stationID)
			handlers.RespondNotFound(w, msgStationNotFound)

		case errors.Is(err, stations.ErrStationOccupied):
			h.logger.Warn("DELETE /stations/{id} - Station occupied: station_id=%d", stationID)
			handlers.RespondError(w, http.StatusConflict, msgStationOccupied)

		case errors.Is(err, stations.ErrStationHasHistory):
			h.logger.Warn("DELETE /stations/{id} - Station has history: station_id=%d", stationID)
			handlers.RespondError(w, http.StatusConflict, msgStationHistory)

		default:
			h.logger.Error("DELETE /stations/{id} - Failed to delete station: station_id=%d, error=%v",
				stationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /stations/{id} - Station deleted successfully: station_id=%d", stationID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
