package check_availability

import (
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/GLC-StationService/internal/domain"
	checkAvailability "github.com/m04kA/GLC-StationService/internal/usecase/check_availability"
	"github.com/m04kA/GLC-StationService/pkg/types"
)

// UnavailableStationResponse HTTP модель занятой станции
type UnavailableStationResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// AvailabilityResponse HTTP модель результата проверки доступности
type AvailabilityResponse struct {
	Available           bool                         `json:"available"`
	UnavailableStations []UnavailableStationResponse `json:"unavailableStations,omitempty"`
}

// ToUseCaseRequest конвертирует query параметры в модель use case
// stationIdsStr - список ID через запятую: "1,2,3"
func ToUseCaseRequest(dateStr, startTimeStr, endTimeStr, stationIDsStr string) (*checkAvailability.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(startTimeStr)
	if err != nil {
		return nil, err
	}

	endTime, err := types.NewTimeStringFromString(endTimeStr)
	if err != nil {
		return nil, err
	}

	var stationIDs []int64
	for _, raw := range strings.Split(stationIDsStr, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		stationIDs = append(stationIDs, id)
	}

	return &checkAvailability.Request{
		StationIDs: stationIDs,
		Date:       date,
		StartTime:  startTime,
		EndTime:    endTime,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *checkAvailability.Response) *AvailabilityResponse {
	result := &AvailabilityResponse{
		Available: resp.Available,
	}

	for _, station := range resp.UnavailableStations {
		result.UnavailableStations = append(result.UnavailableStations, UnavailableStationResponse{
			ID:   station.ID,
			Name: station.Name,
		})
	}

	return result
}
