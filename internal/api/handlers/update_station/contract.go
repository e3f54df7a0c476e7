package update_station

import (
	"context"

	"github.com/m04kA/GLC-StationService/internal/service/stations/models"
)

type StationsService interface {
	UpdateStation(ctx context.Context, stationID int64, req *models.UpdateStationRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
