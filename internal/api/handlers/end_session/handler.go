package end_session

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
	msgNoActiveSession  = "на станции нет активной сессии"
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

// Handle POST /api/v1/stations/{stationId}/sessions/end
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	stationIDStr := vars["stationId"]

	stationID, err := strconv.ParseInt(stationIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("POST /stations/{id}/sessions/end - Invalid station ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStationID)
		return
	}

	result, err := h.service.EndSession(r.Context(), stationID)
	if err != nil {
		switch {
		case errors.Is(err, stations.ErrStationNotFound):
			h.logger.Warn("POST /stations/{id}/sessions/end - Station not found: station_id=%d", stationID)
			handlers.RespondNotFound(w, msgStationNotFound)

		case errors.Is(err, stations.ErrNoActiveSession):
			h.logger.Warn("POST /stations/{id}/sessions/end - No active session: station_id=%d", stationID)
			handlers.RespondError(w, http.StatusConflict, msgNoActiveSession)

		default:
			h.logger.Error("POST /stations/{id}/sessions/end - Failed to end session: station_id=%d, error=%v",
				stationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /stations/{id}/sessions/end - Session ended successfully: session_id=%d, station_id=%d, cost=%.0f",
		result.Charge.SessionID, stationID, result.Charge.Cost)
	handlers.RespondJSON(w, http.StatusOK, result)
}
