package create_station

import (
	"errors"
	"net/http"

	"github.com/m04kA/GLC-StationService/internal/api/handlers"
	"github.com/m04kA/GLC-StationService/internal/service/stations"
	"github.com/m04kA/GLC-StationService/internal/service/stations/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные входные данные"
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

// Handle POST /api/v1/stations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateStationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /stations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.CreateStation(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, stations.ErrInvalidInput):
			h.logger.Warn("POST /stations - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /stations - Failed to create station: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /stations - Station created successfully: station_id=%d", result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
