package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-registration-api/internal/models"
)

var february2026 = models.YearMonth{Year: 2026, Month: time.February}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestGenerator() *SessionGenerator {
	return NewSessionGenerator(DefaultScheduleTemplate())
}

func TestSessionsForDayWeekdaySeries(t *testing.T) {
	gen := newTestGenerator()

	sessions := gen.SessionsForDay(february2026, day(2026, time.February, 2))
	require.Len(t, sessions, 3)

	expected := []struct {
		id    string
		level models.CourseLevel
		start string
		end   string
	}{
		{"2026-02-02-l1", models.CourseLevel1, "16:00", "17:30"},
		{"2026-02-02-l2", models.CourseLevel2, "18:00", "19:30"},
		{"2026-02-02-l3", models.CourseLevel3, "20:00", "21:30"},
	}
	for i, want := range expected {
		assert.Equal(t, want.id, sessions[i].ID)
		assert.Equal(t, want.level, sessions[i].Level)
		assert.Equal(t, want.start, sessions[i].StartTime.Clock())
		assert.Equal(t, want.end, sessions[i].EndTime.Clock())
		assert.Equal(t, 0, sessions[i].WeekIndex)
		assert.False(t, sessions[i].IsWorkshop)
	}
}

func TestSessionsForDaySaturdaySeries(t *testing.T) {
	gen := newTestGenerator()

	sessions := gen.SessionsForDay(february2026, day(2026, time.February, 14))
	require.Len(t, sessions, 3)
	assert.Equal(t, "2026-02-14-l1-sat", sessions[0].ID)
	assert.Equal(t, "13:00", sessions[0].StartTime.Clock())
	assert.Equal(t, "14:30", sessions[0].EndTime.Clock())
	assert.Equal(t, "15:00", sessions[1].StartTime.Clock())
	assert.Equal(t, "16:30", sessions[1].EndTime.Clock())
	assert.Equal(t, "17:00", sessions[2].StartTime.Clock())
	assert.Equal(t, "18:30", sessions[2].EndTime.Clock())
	assert.Equal(t, 1, sessions[0].WeekIndex)
}

func TestSessionsForDayEveryWeekdayInSeriesWeeks(t *testing.T) {
	gen := newTestGenerator()
	for d := 1; d <= 21; d++ {
		date := day(2026, time.February, d)
		sessions := gen.SessionsForDay(february2026, date)
		switch date.Weekday() {
		case time.Sunday:
			assert.Empty(t, sessions, date.Format(models.DateLayout))
		default:
			require.Len(t, sessions, 3, date.Format(models.DateLayout))
			levels := []models.CourseLevel{sessions[0].Level, sessions[1].Level, sessions[2].Level}
			assert.Equal(t, []models.CourseLevel{models.CourseLevel1, models.CourseLevel2, models.CourseLevel3}, levels)
		}
	}
}

func TestSessionsForDayWorkshopWeek(t *testing.T) {
	gen := newTestGenerator()

	weekday := gen.SessionsForDay(february2026, day(2026, time.February, 23))
	require.Len(t, weekday, 1)
	assert.Equal(t, "2026-02-23-l3-adv", weekday[0].ID)
	assert.Equal(t, models.CourseLevel3Workshop, weekday[0].Level)
	assert.True(t, weekday[0].IsWorkshop)
	assert.Equal(t, 3, weekday[0].WeekIndex)
	assert.Equal(t, "20:00", weekday[0].StartTime.Clock())
	assert.Equal(t, "21:30", weekday[0].EndTime.Clock())

	saturday := gen.SessionsForDay(february2026, day(2026, time.February, 28))
	require.Len(t, saturday, 1)
	assert.Equal(t, "2026-02-28-l3-adv-sat", saturday[0].ID)
	assert.Equal(t, "17:00", saturday[0].StartTime.Clock())
	assert.Equal(t, "18:30", saturday[0].EndTime.Clock())

	assert.Empty(t, gen.SessionsForDay(february2026, day(2026, time.February, 22)))
}

func TestSessionsForDayBeyondWorkshopWeek(t *testing.T) {
	gen := newTestGenerator()
	march := models.YearMonth{Year: 2026, Month: time.March}

	assert.Empty(t, gen.SessionsForDay(march, day(2026, time.March, 30)))
	assert.Empty(t, gen.SessionsForDay(march, day(2026, time.March, 31)))
}

func TestSessionsForDayOutsideDisplayedMonth(t *testing.T) {
	gen := newTestGenerator()

	assert.Empty(t, gen.SessionsForDay(february2026, day(2026, time.January, 26)))
	assert.Empty(t, gen.SessionsForDay(february2026, day(2026, time.March, 2)))
}

func TestSessionsForDayIsIdempotent(t *testing.T) {
	gen := newTestGenerator()
	date := day(2026, time.February, 5)

	first := gen.SessionsForDay(february2026, date)
	second := gen.SessionsForDay(february2026, date.Add(15*time.Hour))
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}

func TestFindSession(t *testing.T) {
	gen := newTestGenerator()

	s, ok := gen.FindSession("2026-02-07-l2-sat", time.UTC)
	require.True(t, ok)
	assert.Equal(t, models.CourseLevel2, s.Level)
	assert.Equal(t, "15:00", s.StartTime.Clock())

	_, ok = gen.FindSession("2026-02-08-l1", time.UTC)
	assert.False(t, ok)
	_, ok = gen.FindSession("2026-02-02", time.UTC)
	assert.False(t, ok)
	_, ok = gen.FindSession("not-a-date-l1", time.UTC)
	assert.False(t, ok)
}

func TestMatchRecord(t *testing.T) {
	gen := newTestGenerator()

	s, err := gen.MatchRecord(models.EnrollmentRecord{SessionDate: "2026-02-23", SessionTime: "8:00 PM", Course: models.CourseLevel3Workshop}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "2026-02-23-l3-adv", s.ID)

	_, err = gen.MatchRecord(models.EnrollmentRecord{SessionDate: "2026-02-23", SessionTime: "4:00 PM", Course: models.CourseLevel1}, time.UTC)
	assert.Error(t, err)
	_, err = gen.MatchRecord(models.EnrollmentRecord{SessionDate: "Feb 23"}, time.UTC)
	assert.Error(t, err)
}
