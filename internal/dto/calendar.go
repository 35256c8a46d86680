package dto

import "github.com/noah-isme/course-registration-api/internal/models"

// SessionView is a generated session with its live enrollment state.
type SessionView struct {
	ID           string              `json:"id"`
	Course       models.CourseLevel  `json:"course"`
	Title        string              `json:"title"`
	Date         string              `json:"date"`
	StartTime    string              `json:"startTime"`
	EndTime      string              `json:"endTime"`
	TimeLabel    string              `json:"timeLabel"`
	WeekIndex    int                 `json:"weekIndex"`
	IsWorkshop   bool                `json:"isWorkshop"`
	IsSeries     bool                `json:"isSeries"`
	CapacityKey  string              `json:"capacityKey"`
	Occupancy    int                 `json:"occupancy"`
	Capacity     int                 `json:"capacity"`
	SpotsLeft    int                 `json:"spotsLeft"`
	Registrants  []string            `json:"registrants"`
	Registerable bool                `json:"registerable"`
	Linked       bool                `json:"linked"`
	State        models.SessionState `json:"state"`
}

// CalendarDay is one cell of the month grid.
type CalendarDay struct {
	Date     string        `json:"date"`
	Day      int           `json:"day"`
	Weekday  string        `json:"weekday"`
	InMonth  bool          `json:"inMonth"`
	IsToday  bool          `json:"isToday"`
	IsPast   bool          `json:"isPast"`
	Sessions []SessionView `json:"sessions"`
}

// CalendarWeek is one Sunday-to-Saturday row.
type CalendarWeek struct {
	Days []CalendarDay `json:"days"`
}

// CalendarMonth is the response of GET /calendar.
type CalendarMonth struct {
	Month    string         `json:"month"`
	Label    string         `json:"label"`
	Previous string         `json:"previous"`
	Next     string         `json:"next"`
	Today    string         `json:"today"`
	Capacity int            `json:"capacity"`
	Weeks    []CalendarWeek `json:"weeks"`
}

// SessionDetail adds booking copy to a session view for GET /sessions/:id.
type SessionDetail struct {
	SessionView
	NextSpot string `json:"nextSpot,omitempty"`
	Covers   string `json:"covers"`
}
