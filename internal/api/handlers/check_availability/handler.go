package check_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/GLC-StationService/internal/api/handlers"
	checkAvailability "github.com/m04kA/GLC-StationService/internal/usecase/check_availability"
)

const (
	msgMissingParams = "обязательные параметры: date, startTime, endTime, stationIds"
	msgInvalidParams = "некорректные параметры запроса"
)

type Handler struct {
	useCase CheckAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase CheckAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability
// Query params: date (YYYY-MM-DD), startTime (HH:MM), endTime (HH:MM), stationIds (1,2,3)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	dateStr := query.Get("date")
	startTimeStr := query.Get("startTime")
	endTimeStr := query.Get("endTime")
	stationIDsStr := query.Get("stationIds")

	if dateStr == "" || startTimeStr == "" || endTimeStr == "" || stationIDsStr == "" {
		h.logger.Warn("GET /availability - Missing required query params")
		handlers.RespondBadRequest(w, msgMissingParams)
		return
	}

	useCaseReq, err := ToUseCaseRequest(dateStr, startTimeStr, endTimeStr, stationIDsStr)
	if err != nil {
		h.logger.Warn("GET /availability - Invalid query params: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, checkAvailability.ErrInvalidInput):
			h.logger.Warn("GET /availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /availability - Failed to check availability: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /availability - Availability checked: date=%s, window=%s-%s, stations=%s, available=%t",
		dateStr, startTimeStr, endTimeStr, stationIDsStr, result.Available)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
