package domain

import "time"

// Session represents a single open-ended stretch of station usage tied to one customer
type Session struct {
	ID         int64
	StationID  int64
	CustomerID int64

	StartTime time.Time
	// EndTime is nil while the session is running
	EndTime *time.Time
	// DurationMinutes is set once, at close, rounded up to the next whole minute
	DurationMinutes *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOpen returns true while the session is still running
func (s *Session) IsOpen() bool {
	return s.EndTime == nil
}

// SessionClose данные закрытия сессии
type SessionClose struct {
	EndTime         time.Time
	DurationMinutes int
}

// SessionCharge is the cart line item produced when a session is closed
type SessionCharge struct {
	SessionID           int64
	StationID           int64
	StationName         string
	DurationMinutes     int
	Cost                float64
	// FreeSession is true when the whole session was covered by membership hours;
	// a free session is never additionally discounted
	FreeSession         bool
	MemberDiscount      bool
	MembershipHoursUsed float64
}
