package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-registration-api/internal/dto"
	"github.com/noah-isme/course-registration-api/internal/models"
	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
)

func newTestCalendar(t *testing.T, today time.Time) (*CalendarService, *EnrollmentLedger) {
	t.Helper()
	ledger := NewEnrollmentLedger(MaxCapacity)
	svc := NewCalendarService(newTestGenerator(), ledger, time.UTC)
	svc.now = func() time.Time { return today }
	return svc, ledger
}

func findDay(t *testing.T, month dto.CalendarMonth, date string) dto.CalendarDay {
	t.Helper()
	for _, w := range month.Weeks {
		for _, d := range w.Days {
			if d.Date == date {
				return d
			}
		}
	}
	t.Fatalf("day %s not in grid", date)
	return dto.CalendarDay{}
}

func TestCalendarMonthGrid(t *testing.T) {
	svc, _ := newTestCalendar(t, time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC))

	month := svc.Month(february2026)
	assert.Equal(t, "2026-02", month.Month)
	assert.Equal(t, "February 2026", month.Label)
	assert.Equal(t, "2026-01", month.Previous)
	assert.Equal(t, "2026-03", month.Next)
	assert.Equal(t, "2026-02-10", month.Today)

	// February 2026 starts on a Sunday and ends on a Saturday.
	require.Len(t, month.Weeks, 4)
	for _, w := range month.Weeks {
		require.Len(t, w.Days, 7)
		assert.Equal(t, "Sunday", w.Days[0].Weekday)
		assert.Equal(t, "Saturday", w.Days[6].Weekday)
	}

	assert.True(t, findDay(t, month, "2026-02-10").IsToday)
	assert.True(t, findDay(t, month, "2026-02-09").IsPast)
	assert.Empty(t, findDay(t, month, "2026-02-22").Sessions)
	assert.Len(t, findDay(t, month, "2026-02-23").Sessions, 1)
}

func TestCalendarMonthPadsOutsideDays(t *testing.T) {
	svc, _ := newTestCalendar(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))

	month := svc.Month(models.YearMonth{Year: 2026, Month: time.March})
	last := month.Weeks[len(month.Weeks)-1].Days
	assert.Equal(t, "2026-04-04", last[6].Date)
	assert.False(t, last[6].InMonth)
	assert.Empty(t, last[6].Sessions, "days outside the displayed month carry no sessions")
}

func TestCalendarMonthStates(t *testing.T) {
	svc, ledger := newTestCalendar(t, time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC))

	session := sessionOn(t, svc.generator, day(2026, time.February, 2), 0)
	for i := 0; i < 2; i++ {
		_, err := ledger.Register(session, student(i))
		require.NoError(t, err)
	}

	month := svc.Month(february2026)
	week0 := findDay(t, month, "2026-02-02").Sessions[0]
	assert.Equal(t, models.SessionStateOpen, week0.State)
	assert.Equal(t, 2, week0.Occupancy)
	assert.Equal(t, 2, week0.SpotsLeft)
	assert.Equal(t, []string{"Student 0", "Student 1"}, week0.Registrants)
	assert.Equal(t, "4:00 PM - 5:30 PM", week0.TimeLabel)

	week1 := findDay(t, month, "2026-02-09").Sessions[0]
	assert.Equal(t, models.SessionStateLinked, week1.State)
	assert.Equal(t, 2, week1.Occupancy, "linked cells read the shared series bucket")
	assert.False(t, week1.Registerable)
}

func TestCalendarSessionDetail(t *testing.T) {
	svc, ledger := newTestCalendar(t, time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC))

	detail, err := svc.Session("2026-02-03-l2")
	require.NoError(t, err)
	assert.Equal(t, "Spot 1 of 4", detail.NextSpot)
	assert.Equal(t, "Covers weeks 1, 2, and 3", detail.Covers)

	workshop, err := svc.Session("2026-02-28-l3-adv-sat")
	require.NoError(t, err)
	assert.Equal(t, "Intensive week 4 session", workshop.Covers)

	session, err := svc.Resolve("2026-02-03-l2")
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		_, err := ledger.Register(session, student(i))
		require.NoError(t, err)
	}
	detail, err = svc.Session("2026-02-03-l2")
	require.NoError(t, err)
	assert.Empty(t, detail.NextSpot)
	assert.Equal(t, models.SessionStateFull, detail.State)

	_, err = svc.Session("2026-02-22-l1")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}
