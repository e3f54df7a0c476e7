package domain

import "time"

// Customer is the membership-relevant subset of a customer record
type Customer struct {
	ID   int64
	Name string

	MembershipActive bool
	// MembershipHoursLeft is a prepaid entitlement balance in fractional hours,
	// always >= 0; decremented only at session close
	MembershipHoursLeft float64
	// TotalPlayTimeMinutes accumulates the rounded-up duration of every closed session
	TotalPlayTimeMinutes int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CustomerUpdate обновление счетчиков клиента при закрытии сессии
type CustomerUpdate struct {
	TotalPlayTimeMinutes *int
	MembershipHoursLeft  *float64
}
