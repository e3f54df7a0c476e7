package end_session

import (
	"context"

	"github.com/m04kA/GLC-StationService/internal/service/stations/models"
)

type StationsService interface {
	EndSession(ctx context.Context, stationID int64) (*models.EndSessionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
