package session_billing

import (
	"context"

	"github.com/m04kA/GLC-StationService/internal/service/billing"
)

type BillingService interface {
	LiveQuote(ctx context.Context, stationID int64) (*billing.Quote, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
