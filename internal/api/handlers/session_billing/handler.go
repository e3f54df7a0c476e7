package session_billing

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/GLC-StationService/internal/api/handlers"
	"github.com/m04kA/GLC-StationService/internal/service/billing"
)

const (
	msgInvalidStationID = "некорректный ID станции"
	msgStationNotFound  = "станция не найдена"
	msgNoActiveSession  = "на станции нет активной сессии"
)

type Handler struct {
	service BillingService
	logger  Logger
}

func NewHandler(service BillingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/stations/{stationId}/billing
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	stationIDStr := vars["stationId"]

	stationID, err := strconv.ParseInt(stationIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /stations/{id}/billing - Invalid station ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStationID)
		return
	}

	quote, err := h.service.LiveQuote(r.Context(), stationID)
	if err != nil {
		switch {
		case errors.Is(err, billing.ErrStationNotFound):
			h.logger.Warn("GET /stations/{id}/billing - Station not found: station_id=%d", stationID)
			handlers.RespondNotFound(w, msgStationNotFound)

		case errors.Is(err, billing.ErrNoActiveSession):
			h.logger.Warn("GET /stations/{id}/billing - No active session: station_id=%d", stationID)
			handlers.RespondNotFound(w, msgNoActiveSession)

		default:
			h.logger.Error("GET /stations/{id}/billing - Failed to get quote: station_id=%d, error=%v",
				stationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /stations/{id}/billing - Quote computed: station_id=%d, session_id=%d, cost=%.0f",
		stationID, quote.SessionID, quote.Cost)
	handlers.RespondJSON(w, http.StatusOK, FromQuote(quote))
}
