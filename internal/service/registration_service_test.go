package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-registration-api/internal/dto"
	"github.com/noah-isme/course-registration-api/internal/models"
	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
)

type registrationStoreMock struct {
	mu      sync.Mutex
	records []models.EnrollmentRecord
	saves   int
	saveErr error
	loadErr error
}

func (m *registrationStoreMock) LoadAll(context.Context) ([]models.EnrollmentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]models.EnrollmentRecord(nil), m.records...), nil
}

func (m *registrationStoreMock) SaveAll(_ context.Context, records []models.EnrollmentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.records = append([]models.EnrollmentRecord(nil), records...)
	return nil
}

type registrationSyncMock struct {
	mu     sync.Mutex
	queued []models.EnrollmentRecord
}

func (m *registrationSyncMock) Enqueue(record models.EnrollmentRecord) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queued = append(m.queued, record)
	return true
}

type registrationFixture struct {
	svc    *RegistrationService
	ledger *EnrollmentLedger
	store  *registrationStoreMock
	sync   *registrationSyncMock
}

func newRegistrationFixture(t *testing.T, today time.Time) registrationFixture {
	t.Helper()
	calendar, ledger := newTestCalendar(t, today)
	store := &registrationStoreMock{}
	syncer := &registrationSyncMock{}
	svc := NewRegistrationService(calendar, ledger, store, syncer, NewMetricsService(), nil, nil)
	return registrationFixture{svc: svc, ledger: ledger, store: store, sync: syncer}
}

func registerRequest(sessionID string, i int) dto.RegisterRequest {
	return dto.RegisterRequest{
		SessionID:   sessionID,
		StudentName: fmt.Sprintf("  Student %d ", i),
		ParentEmail: fmt.Sprintf("parent%d@example.com", i),
		ParentPhone: "(555) 123-4567",
	}
}

var beforeFebruary = time.Date(2026, 1, 20, 10, 0, 0, 0, time.UTC)

func TestRegistrationServiceFillsSeriesThenRejects(t *testing.T) {
	f := newRegistrationFixture(t, beforeFebruary)
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		result, err := f.svc.Register(ctx, registerRequest("2026-02-02-l1", i))
		require.NoError(t, err)
		assert.Equal(t, "2026-02-Level 1-Monday", result.CapacityKey)
		assert.Equal(t, i, result.Occupancy)
		assert.True(t, result.Persisted)
		assert.True(t, result.SyncQueued)
		assert.Equal(t, fmt.Sprintf("Student %d", i), result.Record.StudentName)
	}

	_, err := f.svc.Register(ctx, registerRequest("2026-02-02-l1", 5))
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrCapacityExceeded))
	assert.Equal(t, 4, f.ledger.Occupancy("2026-02-Level 1-Monday"))
	assert.Len(t, f.store.records, 4)
	assert.Len(t, f.sync.queued, 4)
}

func TestRegistrationServiceValidation(t *testing.T) {
	f := newRegistrationFixture(t, beforeFebruary)

	req := registerRequest("2026-02-02-l1", 1)
	req.ParentEmail = "not-an-email"
	req.StudentName = "   "
	_, err := f.svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrMalformedInput))
	appErr := appErrors.FromError(err)
	assert.Contains(t, appErr.Message, "parentEmail")
	assert.Contains(t, appErr.Message, "studentName")
	assert.Equal(t, 0, f.ledger.Occupancy("2026-02-Level 1-Monday"))
	assert.Zero(t, f.store.saves)
}

func TestRegistrationServiceIneligibleSessions(t *testing.T) {
	f := newRegistrationFixture(t, time.Date(2026, 2, 5, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := f.svc.Register(ctx, registerRequest("2026-02-09-l1", 1))
	assert.True(t, errors.Is(err, appErrors.ErrSessionNotRegisterable), "linked week")

	_, err = f.svc.Register(ctx, registerRequest("2026-02-02-l1", 1))
	assert.True(t, errors.Is(err, appErrors.ErrSessionNotRegisterable), "past date")

	_, err = f.svc.Register(ctx, registerRequest("2026-02-22-l1", 1))
	assert.True(t, errors.Is(err, appErrors.ErrNotFound), "sunday has no sessions")

	result, err := f.svc.Register(ctx, registerRequest("2026-02-26-l3-adv", 1))
	require.NoError(t, err)
	assert.False(t, result.Record.IsSeries)
	assert.Equal(t, "8:00 PM", result.Record.SessionTime)
	assert.Equal(t, models.CourseLevel3Workshop, result.Record.Course)
}

func TestRegistrationServicePersistFailureKeepsRegistration(t *testing.T) {
	f := newRegistrationFixture(t, beforeFebruary)
	f.store.saveErr = errors.New("disk full")

	result, err := f.svc.Register(context.Background(), registerRequest("2026-02-23-l3-adv", 1))
	require.NoError(t, err)
	assert.False(t, result.Persisted)
	assert.Equal(t, 1, f.ledger.Occupancy("2026-02-23-l3-adv"))
	assert.Len(t, f.sync.queued, 1)
}

func TestRegistrationServiceConcurrentRegistrations(t *testing.T) {
	f := newRegistrationFixture(t, beforeFebruary)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
		rejected int
	)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.svc.Register(context.Background(), registerRequest("2026-02-04-l2", i))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				accepted++
			} else if errors.Is(err, appErrors.ErrCapacityExceeded) {
				rejected++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 4, accepted)
	assert.Equal(t, 8, rejected)
	assert.Len(t, f.store.records, 4, "last durable snapshot holds every accepted record")
}

func TestRegistrationServiceRestore(t *testing.T) {
	f := newRegistrationFixture(t, beforeFebruary)
	f.store.records = []models.EnrollmentRecord{
		{StudentName: "A", SessionDate: "2026-02-02", SessionTime: "4:00 PM", Course: models.CourseLevel1, IsSeries: true},
		{StudentName: "B", SessionDate: "2026-02-09", SessionTime: "4:00 PM", Course: models.CourseLevel1, IsSeries: true},
	}

	report, err := f.svc.Restore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Seated)
	assert.Equal(t, 2, f.ledger.Occupancy("2026-02-Level 1-Monday"))

	f.store.loadErr = errors.New("unreachable")
	_, err = f.svc.Restore(context.Background())
	assert.Error(t, err)
}

func TestRegistrationServiceList(t *testing.T) {
	f := newRegistrationFixture(t, beforeFebruary)
	ctx := context.Background()
	for i, id := range []string{"2026-02-02-l1", "2026-02-03-l2", "2026-02-04-l1"} {
		_, err := f.svc.Register(ctx, registerRequest(id, i))
		require.NoError(t, err)
	}

	records, pagination, err := f.svc.List(dto.RegistrationListRequest{})
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Student 2", records[0].StudentName, "newest first")
	assert.Equal(t, 3, pagination.TotalCount)

	records, pagination, err = f.svc.List(dto.RegistrationListRequest{Course: "level-1", Page: 2, PageSize: 1})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Student 0", records[0].StudentName)
	assert.Equal(t, 2, pagination.TotalCount)

	records, _, err = f.svc.List(dto.RegistrationListRequest{Page: 9})
	require.NoError(t, err)
	assert.Empty(t, records)

	_, _, err = f.svc.List(dto.RegistrationListRequest{Course: "Level 9"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}
