package service

import (
	"fmt"
	"time"

	"github.com/noah-isme/course-registration-api/internal/dto"
	"github.com/noah-isme/course-registration-api/internal/models"
	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
)

// CalendarService renders month grids and session views from the generator
// and the live ledger.
type CalendarService struct {
	generator *SessionGenerator
	ledger    *EnrollmentLedger
	loc       *time.Location
	now       func() time.Time
}

// NewCalendarService constructs the calendar service. A nil loc means UTC.
func NewCalendarService(generator *SessionGenerator, ledger *EnrollmentLedger, loc *time.Location) *CalendarService {
	if loc == nil {
		loc = time.UTC
	}
	return &CalendarService{generator: generator, ledger: ledger, loc: loc, now: time.Now}
}

// Location returns the calendar timezone.
func (s *CalendarService) Location() *time.Location {
	return s.loc
}

// Today returns local midnight of the current day.
func (s *CalendarService) Today() time.Time {
	return models.StartOfDay(s.now().In(s.loc))
}

// Month builds the Sunday-to-Saturday grid covering month.
func (s *CalendarService) Month(month models.YearMonth) dto.CalendarMonth {
	today := s.Today()
	first := month.First(s.loc)
	last := month.Last(s.loc)
	start := first.AddDate(0, 0, -int(first.Weekday()))
	end := last.AddDate(0, 0, int(time.Saturday-last.Weekday()))

	out := dto.CalendarMonth{
		Month:    month.String(),
		Label:    first.Format("January 2006"),
		Previous: month.Add(-1).String(),
		Next:     month.Add(1).String(),
		Today:    today.Format(models.DateLayout),
		Capacity: s.ledger.Capacity(),
	}

	var week dto.CalendarWeek
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		sessions := s.generator.SessionsForDay(month, d)
		day := dto.CalendarDay{
			Date:     d.Format(models.DateLayout),
			Day:      d.Day(),
			Weekday:  d.Weekday().String(),
			InMonth:  month.Contains(d),
			IsToday:  d.Equal(today),
			IsPast:   d.Before(today),
			Sessions: make([]dto.SessionView, 0, len(sessions)),
		}
		for _, session := range sessions {
			day.Sessions = append(day.Sessions, s.view(session, today))
		}
		week.Days = append(week.Days, day)
		if d.Weekday() == time.Saturday {
			out.Weeks = append(out.Weeks, week)
			week = dto.CalendarWeek{}
		}
	}
	return out
}

// Resolve finds the session behind id or returns NOT_FOUND.
func (s *CalendarService) Resolve(id string) (models.Session, error) {
	session, ok := s.generator.FindSession(id, s.loc)
	if !ok {
		return models.Session{}, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("session %q not found", id))
	}
	return session, nil
}

// Eligibility evaluates session as of today.
func (s *CalendarService) Eligibility(session models.Session) models.Eligibility {
	return s.ledger.Eligibility(session, s.Today())
}

// Session returns the detail view of one session id.
func (s *CalendarService) Session(id string) (dto.SessionDetail, error) {
	session, err := s.Resolve(id)
	if err != nil {
		return dto.SessionDetail{}, err
	}
	view := s.view(session, s.Today())
	detail := dto.SessionDetail{SessionView: view, Covers: coverage(session)}
	if view.Registerable {
		detail.NextSpot = fmt.Sprintf("Spot %d of %d", view.Occupancy+1, view.Capacity)
	}
	return detail, nil
}

func (s *CalendarService) view(session models.Session, today time.Time) dto.SessionView {
	e := s.ledger.Eligibility(session, today)
	roster := s.ledger.Roster(e.CapacityKey)
	names := make([]string, 0, len(roster))
	for _, entry := range roster {
		names = append(names, entry.StudentName)
	}
	return dto.SessionView{
		ID:           session.ID,
		Course:       session.Level,
		Title:        session.Level.DisplayName(),
		Date:         session.DateString(),
		StartTime:    session.StartTime.Clock(),
		EndTime:      session.EndTime.Clock(),
		TimeLabel:    fmt.Sprintf("%s - %s", session.StartTime, session.EndTime),
		WeekIndex:    session.WeekIndex,
		IsWorkshop:   session.IsWorkshop,
		IsSeries:     session.IsSeries(),
		CapacityKey:  e.CapacityKey,
		Occupancy:    e.Occupancy,
		Capacity:     e.Capacity,
		SpotsLeft:    e.SpotsLeft(),
		Registrants:  names,
		Registerable: e.Registerable,
		Linked:       e.Linked,
		State:        e.State,
	}
}

func coverage(session models.Session) string {
	if session.IsWorkshop {
		return "Intensive week 4 session"
	}
	return "Covers weeks 1, 2, and 3"
}

// MatchRecord maps a stored record back to its generated session.
func (s *CalendarService) MatchRecord(record models.EnrollmentRecord) (models.Session, error) {
	return s.generator.MatchRecord(record, s.loc)
}
