package session_billing

import (
	"fmt"

	"github.com/m04kA/GLC-StationService/internal/service/billing"
)

// QuoteResponse HTTP response model с текущей оценкой открытой сессии
type QuoteResponse struct {
	StationID int64   `json:"stationId"`
	SessionID int64   `json:"sessionId"`
	Elapsed   string  `json:"elapsed"` // "HH:MM:SS"
	ElapsedMs int64   `json:"elapsedMs"`
	Cost      float64 `json:"cost"`

	MembershipActive    bool    `json:"membershipActive"`
	HoursConsumed       float64 `json:"hoursConsumed"`
	MembershipHoursLeft float64 `json:"membershipHoursLeft"`
	CoveredByMembership bool    `json:"coveredByMembership"`
}

// FromQuote конвертирует расчет биллинга в HTTP response
func FromQuote(q *billing.Quote) *QuoteResponse {
	return &QuoteResponse{
		StationID: q.StationID,
		SessionID: q.SessionID,
		Elapsed: fmt.Sprintf("%02d:%02d:%02d",
			q.Elapsed.Hours, q.Elapsed.Minutes, q.Elapsed.Seconds),
		ElapsedMs:           q.Elapsed.TotalMs,
		Cost:                q.Cost,
		MembershipActive:    q.MembershipActive,
		HoursConsumed:       q.HoursConsumed,
		MembershipHoursLeft: q.MembershipHoursLeft,
		CoveredByMembership: q.CoveredByMembership,
	}
}
