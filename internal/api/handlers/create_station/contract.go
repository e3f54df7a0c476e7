package create_station

import (
	"context"

	"github.com/m04kA/GLC-StationService/internal/service/stations/models"
)

type StationsService interface {
	CreateStation(ctx context.Context, req *models.CreateStationRequest) (*models.StationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
