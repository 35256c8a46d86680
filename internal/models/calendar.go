package models

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the wire format of calendar dates.
	DateLayout = "2006-01-02"
	// MonthLayout is the wire format of a displayed month.
	MonthLayout = "2006-01"
)

// YearMonth identifies a displayed calendar month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// ParseYearMonth parses YYYY-MM.
func ParseYearMonth(raw string) (YearMonth, error) {
	t, err := time.Parse(MonthLayout, raw)
	if err != nil {
		return YearMonth{}, fmt.Errorf("invalid month %q, expected YYYY-MM", raw)
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

// YearMonthOf returns the month containing t.
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// String renders YYYY-MM.
func (m YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Contains reports whether date falls inside the month, read in date's own location.
func (m YearMonth) Contains(date time.Time) bool {
	return date.Year() == m.Year && date.Month() == m.Month
}

// First returns midnight of the first day in loc.
func (m YearMonth) First(loc *time.Location) time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, loc)
}

// Last returns midnight of the last day in loc.
func (m YearMonth) Last(loc *time.Location) time.Time {
	return m.First(loc).AddDate(0, 1, -1)
}

// Add shifts the month by n (negative goes back).
func (m YearMonth) Add(n int) YearMonth {
	return YearMonthOf(time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0))
}

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// Clock renders 24h HH:MM.
func (t TimeOfDay) Clock() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// String renders the 12h label used on registrations, e.g. "4:00 PM".
func (t TimeOfDay) String() string {
	return time.Date(0, 1, 1, t.Hour, t.Minute, 0, 0, time.UTC).Format("3:04 PM")
}

// Minutes returns minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// ParseTimeOfDay accepts "16:00" or "4:00 PM".
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04", "3:04 PM"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("invalid time of day %q", raw)
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
