package start_session

import (
	"context"

	"github.com/m04kA/GLC-StationService/internal/service/stations/models"
)

type StationsService interface {
	StartSession(ctx context.Context, stationID, customerID int64) (*models.SessionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
