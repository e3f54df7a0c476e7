package get_stations

import (
	"net/http"

	"github.com/m04kA/GLC-StationService/internal/api/handlers"
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

// Handle GET /api/v1/stations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetStations(r.Context())
	if err != nil {
		h.logger.Error("GET /stations - Failed to get stations: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /stations - Stations retrieved successfully: count=%d", len(result.Stations))
	handlers.RespondJSON(w, http.StatusOK, result)
}
