package models

import "time"

// Session is a generated, bookable calendar occurrence. Sessions are derived
// on every render and never persisted.
type Session struct {
	ID         string
	Level      CourseLevel
	Date       time.Time
	StartTime  TimeOfDay
	EndTime    TimeOfDay
	IsWorkshop bool
	WeekIndex  int
}

// DateString renders the session date as YYYY-MM-DD.
func (s Session) DateString() string {
	return s.Date.Format(DateLayout)
}

// IsSeries is true for the recurring 3-week sessions.
func (s Session) IsSeries() bool {
	return !s.IsWorkshop
}

// SessionState is the render state of a calendar cell entry.
type SessionState string

// Session states, in precedence order.
const (
	SessionStatePast   SessionState = "past"
	SessionStateFull   SessionState = "full"
	SessionStateLinked SessionState = "linked"
	SessionStateOpen   SessionState = "open"
)

// Eligibility is the registerability decision for one session.
type Eligibility struct {
	CapacityKey  string       `json:"capacityKey"`
	Occupancy    int          `json:"occupancy"`
	Capacity     int          `json:"capacity"`
	Full         bool         `json:"full"`
	Past         bool         `json:"past"`
	Linked       bool         `json:"linked"`
	Registerable bool         `json:"registerable"`
	State        SessionState `json:"state"`
}

// SpotsLeft returns the remaining seats, never negative.
func (e Eligibility) SpotsLeft() int {
	if left := e.Capacity - e.Occupancy; left > 0 {
		return left
	}
	return 0
}
