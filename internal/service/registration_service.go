package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/course-registration-api/internal/dto"
	"github.com/noah-isme/course-registration-api/internal/models"
	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
)

const (
	defaultListPageSize = 50
	maxListPageSize     = 200
)

type registrationStore interface {
	LoadAll(ctx context.Context) ([]models.EnrollmentRecord, error)
	SaveAll(ctx context.Context, records []models.EnrollmentRecord) error
}

type registrationSync interface {
	Enqueue(record models.EnrollmentRecord) bool
}

// RegistrationService runs the submission flow: validate, check eligibility,
// seat in the ledger, persist the durable copy and hand off to remote sync.
type RegistrationService struct {
	calendar  *CalendarService
	ledger    *EnrollmentLedger
	store     registrationStore
	sync      registrationSync
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger

	// persistMu orders durable writes so a later snapshot never lands before an earlier one.
	persistMu sync.Mutex
}

// NewRegistrationService constructs the service.
func NewRegistrationService(calendar *CalendarService, ledger *EnrollmentLedger, store registrationStore, syncer registrationSync, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *RegistrationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationService{
		calendar:  calendar,
		ledger:    ledger,
		store:     store,
		sync:      syncer,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// Restore loads the durable copy into the ledger. A missing copy is not an error.
func (s *RegistrationService) Restore(ctx context.Context) (RestoreReport, error) {
	records, err := s.store.LoadAll(ctx)
	if err != nil {
		return RestoreReport{}, fmt.Errorf("restore registrations: %w", err)
	}
	report := s.ledger.Restore(records, s.calendar.MatchRecord)
	s.logger.Info("registrations restored",
		zap.Int("records", report.Records),
		zap.Int("seated", report.Seated),
		zap.Int("unmatched", report.Unmatched),
		zap.Int("over_capacity", report.OverCapped),
	)
	return report, nil
}

// Register accepts one submission.
func (s *RegistrationService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.RegistrationResult, error) {
	req.Normalize()
	if err := s.validator.Struct(req); err != nil {
		return nil, s.reject(malformed(err))
	}

	session, err := s.calendar.Resolve(req.SessionID)
	if err != nil {
		return nil, s.reject(err)
	}

	e := s.calendar.Eligibility(session)
	switch {
	case e.Past:
		return nil, s.reject(appErrors.Clone(appErrors.ErrSessionNotRegisterable, "session date has passed"))
	case e.Linked:
		return nil, s.reject(appErrors.Clone(appErrors.ErrSessionNotRegisterable, "register through the first week of the series"))
	case e.Full:
		return nil, s.reject(appErrors.Clone(appErrors.ErrCapacityExceeded, fmt.Sprintf("%s is full", e.CapacityKey)))
	}

	record, err := s.ledger.Register(session, req.StudentInfo())
	if err != nil {
		return nil, s.reject(err)
	}

	result := &dto.RegistrationResult{
		Record:      record,
		CapacityKey: e.CapacityKey,
		Occupancy:   s.ledger.Occupancy(e.CapacityKey),
		Capacity:    s.ledger.Capacity(),
	}
	result.Persisted = s.persist(ctx)
	if s.sync != nil {
		result.SyncQueued = s.sync.Enqueue(record)
	}

	s.metrics.RecordRegistration(record.Course, record.IsSeries)
	s.logger.Info("registration accepted",
		zap.String("session_id", session.ID),
		zap.String("capacity_key", e.CapacityKey),
		zap.Int("occupancy", result.Occupancy),
		zap.Bool("persisted", result.Persisted),
		zap.Bool("sync_queued", result.SyncQueued),
	)
	return result, nil
}

// persist writes the whole record list. A failure is logged and reported but
// the in-memory registration stands.
func (s *RegistrationService) persist(ctx context.Context) bool {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	start := time.Now()
	err := s.store.SaveAll(ctx, s.ledger.Records())
	s.metrics.ObserveStoreWrite(time.Since(start))
	if err != nil {
		s.logger.Error("persist registrations failed", zap.Error(err))
		return false
	}
	return true
}

func (s *RegistrationService) reject(err error) error {
	appErr := appErrors.FromError(err)
	s.metrics.RecordRejection(appErr.Code)
	s.logger.Info("registration rejected", zap.String("code", appErr.Code), zap.String("reason", appErr.Message))
	return err
}

// List returns records newest first.
func (s *RegistrationService) List(req dto.RegistrationListRequest) ([]models.EnrollmentRecord, *models.Pagination, error) {
	var course models.CourseLevel
	if strings.TrimSpace(req.Course) != "" {
		level, err := models.ParseCourseLevel(req.Course)
		if err != nil {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
		}
		course = level
	}

	page := req.Page
	if page <= 0 {
		page = 1
	}
	size := req.PageSize
	if size <= 0 {
		size = defaultListPageSize
	}
	if size > maxListPageSize {
		size = maxListPageSize
	}

	all := s.ledger.Records()
	filtered := make([]models.EnrollmentRecord, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		if course != "" && all[i].Course != course {
			continue
		}
		filtered = append(filtered, all[i])
	}

	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: len(filtered)}
	start := (page - 1) * size
	if start >= len(filtered) {
		return []models.EnrollmentRecord{}, pagination, nil
	}
	end := start + size
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], pagination, nil
}

// Records returns every accepted record in registration order.
func (s *RegistrationService) Records() []models.EnrollmentRecord {
	return s.ledger.Records()
}

func malformed(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return appErrors.Wrap(err, appErrors.ErrMalformedInput.Code, appErrors.ErrMalformedInput.Status, appErrors.ErrMalformedInput.Message)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, lowerFirst(fe.Field()))
	}
	return appErrors.Wrap(err, appErrors.ErrMalformedInput.Code, appErrors.ErrMalformedInput.Status,
		fmt.Sprintf("missing or invalid fields: %s", strings.Join(fields, ", ")))
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
