package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/course-registration-api/internal/models"
)

const (
	// SeriesWeeks is the number of leading 7-day blocks that carry the recurring series.
	SeriesWeeks = 3
	// WorkshopWeek is the zero-based block that carries the standalone workshop.
	WorkshopWeek = 3
)

// SessionSlot is one recurring entry of the weekly template.
type SessionSlot struct {
	Level      models.CourseLevel
	Suffix     string
	Start      models.TimeOfDay
	End        models.TimeOfDay
	IsWorkshop bool
}

// ScheduleTemplate describes which slots run on weekdays and Saturdays.
// Sundays never carry sessions.
type ScheduleTemplate struct {
	SeriesWeekday    []SessionSlot
	SeriesSaturday   []SessionSlot
	WorkshopWeekday  []SessionSlot
	WorkshopSaturday []SessionSlot
}

func slot(level models.CourseLevel, suffix string, startH, startM, endH, endM int) SessionSlot {
	return SessionSlot{
		Level:      level,
		Suffix:     suffix,
		Start:      models.TimeOfDay{Hour: startH, Minute: startM},
		End:        models.TimeOfDay{Hour: endH, Minute: endM},
		IsWorkshop: level == models.CourseLevel3Workshop,
	}
}

// DefaultScheduleTemplate returns the published weekly template.
func DefaultScheduleTemplate() ScheduleTemplate {
	return ScheduleTemplate{
		SeriesWeekday: []SessionSlot{
			slot(models.CourseLevel1, "l1", 16, 0, 17, 30),
			slot(models.CourseLevel2, "l2", 18, 0, 19, 30),
			slot(models.CourseLevel3, "l3", 20, 0, 21, 30),
		},
		SeriesSaturday: []SessionSlot{
			slot(models.CourseLevel1, "l1-sat", 13, 0, 14, 30),
			slot(models.CourseLevel2, "l2-sat", 15, 0, 16, 30),
			slot(models.CourseLevel3, "l3-sat", 17, 0, 18, 30),
		},
		WorkshopWeekday: []SessionSlot{
			slot(models.CourseLevel3Workshop, "l3-adv", 20, 0, 21, 30),
		},
		WorkshopSaturday: []SessionSlot{
			slot(models.CourseLevel3Workshop, "l3-adv-sat", 17, 0, 18, 30),
		},
	}
}

// SessionGenerator expands the weekly template into dated sessions.
type SessionGenerator struct {
	template ScheduleTemplate
}

// NewSessionGenerator constructs a generator over the given template.
func NewSessionGenerator(template ScheduleTemplate) *SessionGenerator {
	return &SessionGenerator{template: template}
}

// WeekIndex returns the zero-based 7-day block of the month containing date.
func WeekIndex(date time.Time) int {
	return (date.Day() - 1) / 7
}

// SessionsForDay returns the sessions bookable on date while month is displayed.
// The result is a pure function of its inputs; ids are stable across calls.
func (g *SessionGenerator) SessionsForDay(month models.YearMonth, date time.Time) []models.Session {
	if !month.Contains(date) {
		return nil
	}

	week := WeekIndex(date)
	weekday := date.Weekday()
	if weekday == time.Sunday || week > WorkshopWeek {
		return nil
	}

	var slots []SessionSlot
	switch {
	case week < SeriesWeeks && weekday == time.Saturday:
		slots = g.template.SeriesSaturday
	case week < SeriesWeeks:
		slots = g.template.SeriesWeekday
	case weekday == time.Saturday:
		slots = g.template.WorkshopSaturday
	default:
		slots = g.template.WorkshopWeekday
	}

	day := models.StartOfDay(date)
	dateStr := day.Format(models.DateLayout)
	sessions := make([]models.Session, 0, len(slots))
	for _, s := range slots {
		sessions = append(sessions, models.Session{
			ID:         dateStr + "-" + s.Suffix,
			Level:      s.Level,
			Date:       day,
			StartTime:  s.Start,
			EndTime:    s.End,
			IsWorkshop: s.IsWorkshop,
			WeekIndex:  week,
		})
	}
	return sessions
}

// FindSession resolves a session id of the form YYYY-MM-DD-<suffix> by
// regenerating that day in loc.
func (g *SessionGenerator) FindSession(id string, loc *time.Location) (models.Session, bool) {
	if len(id) <= len(models.DateLayout) || id[len(models.DateLayout)] != '-' {
		return models.Session{}, false
	}
	date, err := time.ParseInLocation(models.DateLayout, id[:len(models.DateLayout)], loc)
	if err != nil {
		return models.Session{}, false
	}
	for _, s := range g.SessionsForDay(models.YearMonthOf(date), date) {
		if s.ID == id {
			return s, true
		}
	}
	return models.Session{}, false
}

// MatchRecord finds the session a stored record was taken against.
func (g *SessionGenerator) MatchRecord(record models.EnrollmentRecord, loc *time.Location) (models.Session, error) {
	date, err := time.ParseInLocation(models.DateLayout, record.SessionDate, loc)
	if err != nil {
		return models.Session{}, fmt.Errorf("parse session date %q: %w", record.SessionDate, err)
	}
	for _, s := range g.SessionsForDay(models.YearMonthOf(date), date) {
		if s.Level == record.Course && strings.EqualFold(s.StartTime.String(), record.SessionTime) {
			return s, nil
		}
	}
	return models.Session{}, fmt.Errorf("no %s session at %s on %s", record.Course, record.SessionTime, record.SessionDate)
}
