package domain

import (
	"time"

	"github.com/m04kA/GLC-StationService/pkg/types"
)

// LoungeConfig represents the lounge operating hours and booking configuration
type LoungeConfig struct {
	ID                  int64
	OpenTime            types.TimeString
	CloseTime           types.TimeString
	SlotDurationMinutes int

	CreatedAt time.Time
	UpdatedAt time.Time
}
