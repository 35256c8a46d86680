package service

import (
	"sort"
	"strings"

	"github.com/noah-isme/course-registration-api/internal/dto"
	"github.com/noah-isme/course-registration-api/internal/models"
)

type recordSource interface {
	Records() []models.EnrollmentRecord
}

// PivotService aggregates records into course|date|time groups.
type PivotService struct {
	source recordSource
}

// NewPivotService constructs the pivot service.
func NewPivotService(source recordSource) *PivotService {
	return &PivotService{source: source}
}

type pivotKey struct {
	course models.CourseLevel
	date   string
	time   string
}

// Summary groups the current records. Option lists reflect every record so a
// filtered view can still offer the other values.
func (s *PivotService) Summary(filter dto.SummaryFilter) dto.RegistrationSummary {
	return Summarize(s.source.Records(), filter)
}

// Summarize is the pure aggregation behind Summary.
func Summarize(records []models.EnrollmentRecord, filter dto.SummaryFilter) dto.RegistrationSummary {
	filter.Course = strings.TrimSpace(filter.Course)
	filter.Date = strings.TrimSpace(filter.Date)
	filter.Time = strings.TrimSpace(filter.Time)

	counts := make(map[pivotKey]int)
	courses := make(map[string]struct{})
	dates := make(map[string]struct{})
	times := make(map[string]struct{})

	for _, r := range records {
		courses[string(r.Course)] = struct{}{}
		dates[r.SessionDate] = struct{}{}
		times[r.SessionTime] = struct{}{}
		if !matchesCourse(r.Course, filter.Course) {
			continue
		}
		if filter.Date != "" && r.SessionDate != filter.Date {
			continue
		}
		if filter.Time != "" && !strings.EqualFold(r.SessionTime, filter.Time) {
			continue
		}
		counts[pivotKey{course: r.Course, date: r.SessionDate, time: r.SessionTime}]++
	}

	out := dto.RegistrationSummary{
		Rows:   make([]dto.SummaryRow, 0, len(counts)),
		Filter: filter,
		Options: dto.SummaryOptions{
			Courses: sortedCourses(courses),
			Dates:   sortedStrings(dates),
			Times:   sortedTimes(times),
		},
	}
	for k, n := range counts {
		out.Rows = append(out.Rows, dto.SummaryRow{Course: k.course, SessionDate: k.date, SessionTime: k.time, Count: n})
		out.Total += n
	}
	sort.Slice(out.Rows, func(i, j int) bool {
		a, b := out.Rows[i], out.Rows[j]
		if a.SessionDate != b.SessionDate {
			return a.SessionDate < b.SessionDate
		}
		if ta, tb := timeRank(a.SessionTime), timeRank(b.SessionTime); ta != tb {
			return ta < tb
		}
		return courseRank(a.Course) < courseRank(b.Course)
	})
	out.UniqueSessions = len(out.Rows)
	return out
}

func matchesCourse(course models.CourseLevel, filter string) bool {
	if filter == "" {
		return true
	}
	if strings.EqualFold(string(course), filter) {
		return true
	}
	level, err := models.ParseCourseLevel(filter)
	return err == nil && level == course
}

// timeRank orders "4:00 PM" style labels by minutes since midnight; labels
// that do not parse sort last.
func timeRank(label string) int {
	tod, err := models.ParseTimeOfDay(label)
	if err != nil {
		return 24 * 60
	}
	return tod.Minutes()
}

func courseRank(course models.CourseLevel) int {
	for i, l := range models.CourseLevels {
		if l == course {
			return i
		}
	}
	return len(models.CourseLevels)
}

func sortedStrings(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func sortedTimes(set map[string]struct{}) []string {
	out := sortedStrings(set)
	sort.SliceStable(out, func(i, j int) bool { return timeRank(out[i]) < timeRank(out[j]) })
	return out
}

func sortedCourses(set map[string]struct{}) []string {
	out := sortedStrings(set)
	sort.SliceStable(out, func(i, j int) bool {
		return courseRank(models.CourseLevel(out[i])) < courseRank(models.CourseLevel(out[j]))
	})
	return out
}
