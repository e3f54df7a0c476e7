package get_stations

import (
	"context"

	"github.com/m04kA/GLC-StationService/internal/service/stations/models"
)

type StationsService interface {
	GetStations(ctx context.Context) (*models.StationListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
