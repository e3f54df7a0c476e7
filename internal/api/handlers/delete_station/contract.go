package delete_station

import "context"

type StationsService interface {
	DeleteStation(ctx context.Context, stationID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
