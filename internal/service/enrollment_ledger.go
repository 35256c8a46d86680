package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/noah-isme/course-registration-api/internal/models"
	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
)

// MaxCapacity is the seat cap enforced per capacity key.
const MaxCapacity = 4

// CapacityKeyOf returns the enrollment bucket of a session. Series sessions
// share {YYYY-MM}-{level}-{Weekday} across their three dated occurrences;
// workshops are single-occurrence and use their own id.
func CapacityKeyOf(session models.Session) string {
	if session.IsWorkshop {
		return session.ID
	}
	return SeriesKey(models.YearMonthOf(session.Date), session.Level, session.Date.Weekday())
}

// SeriesKey builds the shared key of one weekly recurring slot.
func SeriesKey(month models.YearMonth, level models.CourseLevel, weekday time.Weekday) string {
	return fmt.Sprintf("%s-%s-%s", month, level, weekday)
}

// RestoreReport summarises a Restore call.
type RestoreReport struct {
	Records    int
	Seated     int
	Unmatched  int
	OverCapped int
}

// EnrollmentLedger owns the per-key rosters and the ordered list of accepted
// records. Register is the only mutating operation on live traffic.
type EnrollmentLedger struct {
	mu       sync.RWMutex
	capacity int
	rosters  map[string][]models.RosterEntry
	records  []models.EnrollmentRecord
	now      func() time.Time
}

// NewEnrollmentLedger constructs an empty ledger; capacity <= 0 uses MaxCapacity.
func NewEnrollmentLedger(capacity int) *EnrollmentLedger {
	if capacity <= 0 {
		capacity = MaxCapacity
	}
	return &EnrollmentLedger{
		capacity: capacity,
		rosters:  make(map[string][]models.RosterEntry),
		now:      time.Now,
	}
}

// Capacity returns the seat cap per key.
func (l *EnrollmentLedger) Capacity() int {
	return l.capacity
}

// Occupancy counts entries recorded under key.
func (l *EnrollmentLedger) Occupancy(key string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.rosters[key])
}

// IsFull reports whether key reached capacity.
func (l *EnrollmentLedger) IsFull(key string) bool {
	return l.Occupancy(key) >= l.capacity
}

// Roster returns a copy of the entries under key in registration order.
func (l *EnrollmentLedger) Roster(key string) []models.RosterEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	entries := l.rosters[key]
	out := make([]models.RosterEntry, len(entries))
	copy(out, entries)
	return out
}

// Records returns a snapshot of every accepted record in registration order.
func (l *EnrollmentLedger) Records() []models.EnrollmentRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.EnrollmentRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Register seats a student under the session's capacity key. The fullness
// check and the append happen under one lock; a full key returns
// ErrCapacityExceeded and leaves the roster untouched.
func (l *EnrollmentLedger) Register(session models.Session, info models.StudentInfo) (models.EnrollmentRecord, error) {
	key := CapacityKeyOf(session)

	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.rosters[key]) >= l.capacity {
		return models.EnrollmentRecord{}, appErrors.Clone(appErrors.ErrCapacityExceeded, fmt.Sprintf("%s is full", key))
	}

	ts := l.now().UTC()
	l.rosters[key] = append(l.rosters[key], models.RosterEntry{StudentInfo: info, Timestamp: ts})

	record := models.EnrollmentRecord{
		StudentName:      info.StudentName,
		ParentEmail:      info.ParentEmail,
		ParentPhone:      info.ParentPhone,
		Timestamp:        ts,
		SessionDate:      session.DateString(),
		SessionTime:      session.StartTime.String(),
		Course:           session.Level,
		IsSeries:         session.IsSeries(),
		PaymentProcessed: models.PaymentStatusNo,
	}
	l.records = append(l.records, record)
	return record, nil
}

// Restore replaces the ledger contents with previously persisted records.
// resolve maps a record back to its session; records it cannot place, or
// that would exceed capacity, are kept in the record list but not seated.
func (l *EnrollmentLedger) Restore(records []models.EnrollmentRecord, resolve func(models.EnrollmentRecord) (models.Session, error)) RestoreReport {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rosters = make(map[string][]models.RosterEntry)
	l.records = make([]models.EnrollmentRecord, 0, len(records))
	report := RestoreReport{Records: len(records)}

	for _, record := range records {
		l.records = append(l.records, record)
		session, err := resolve(record)
		if err != nil {
			report.Unmatched++
			continue
		}
		key := CapacityKeyOf(session)
		if len(l.rosters[key]) >= l.capacity {
			report.OverCapped++
			continue
		}
		l.rosters[key] = append(l.rosters[key], models.RosterEntry{
			StudentInfo: models.StudentInfo{StudentName: record.StudentName, ParentEmail: record.ParentEmail, ParentPhone: record.ParentPhone},
			Timestamp:   record.Timestamp,
		})
		report.Seated++
	}
	return report
}

// Eligibility decides the render state of a session as of today. Occupancy is
// read live so linked week 1/2 cells always reflect their series bucket.
func (l *EnrollmentLedger) Eligibility(session models.Session, today time.Time) models.Eligibility {
	key := CapacityKeyOf(session)
	occupancy := l.Occupancy(key)

	e := models.Eligibility{
		CapacityKey: key,
		Occupancy:   occupancy,
		Capacity:    l.capacity,
		Full:        occupancy >= l.capacity,
		Past:        session.Date.Before(models.StartOfDay(today.In(session.Date.Location()))),
		Linked:      !session.IsWorkshop && session.WeekIndex > 0 && session.WeekIndex < SeriesWeeks,
	}
	e.Registerable = (session.WeekIndex == 0 || session.IsWorkshop) && !e.Past && !e.Full

	switch {
	case e.Past:
		e.State = models.SessionStatePast
	case e.Full:
		e.State = models.SessionStateFull
	case e.Linked:
		e.State = models.SessionStateLinked
	default:
		e.State = models.SessionStateOpen
	}
	return e
}
