package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/course-registration-api/internal/models"
	"github.com/noah-isme/course-registration-api/pkg/config"
	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
	"github.com/noah-isme/course-registration-api/pkg/jobs"
)

const syncJobType = "registration.sync"

// SyncService forwards accepted records to the remote spreadsheet webhook.
// Delivery is best effort: failures are logged and counted, never surfaced to
// the registrant.
type SyncService struct {
	cfg     config.SyncConfig
	client  *http.Client
	metrics *MetricsService
	logger  *zap.Logger
	queue   *jobs.Queue
}

// NewSyncService constructs the sync service and its delivery queue.
func NewSyncService(cfg config.SyncConfig, metrics *MetricsService, logger *zap.Logger) *SyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	s := &SyncService{
		cfg:     cfg,
		client:  &http.Client{Timeout: timeout},
		metrics: metrics,
		logger:  logger,
	}
	s.queue = jobs.NewQueue("registration-sync", s.handle, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return s
}

// Enabled reports whether a webhook is configured.
func (s *SyncService) Enabled() bool {
	return s != nil && s.cfg.Enabled()
}

// Start launches the delivery workers. It is a no-op when sync is disabled.
func (s *SyncService) Start(ctx context.Context) {
	if !s.Enabled() {
		s.logger.Warn("remote sync disabled, SYNC_WEBHOOK_URL not set")
		return
	}
	s.queue.Start(ctx)
}

// Stop halts the delivery workers.
func (s *SyncService) Stop() {
	if s == nil {
		return
	}
	s.queue.Stop()
}

// Enqueue schedules record for delivery without blocking. It reports whether
// the record was queued.
func (s *SyncService) Enqueue(record models.EnrollmentRecord) bool {
	if !s.Enabled() {
		s.metrics.RecordSyncDelivery(SyncOutcomeDisabled)
		return false
	}
	if err := s.queue.Enqueue(jobs.Job{Type: syncJobType, Payload: record}); err != nil {
		s.metrics.RecordSyncDelivery(SyncOutcomeDropped)
		s.logger.Warn("sync delivery dropped",
			zap.String("student", record.StudentName),
			zap.String("session_date", record.SessionDate),
			zap.Error(err),
		)
		return false
	}
	return true
}

func (s *SyncService) handle(ctx context.Context, job jobs.Job) error {
	record, ok := job.Payload.(models.EnrollmentRecord)
	if !ok {
		s.logger.Error("unexpected sync payload", zap.String("job_id", job.ID), zap.String("type", fmt.Sprintf("%T", job.Payload)))
		return nil
	}
	return s.Deliver(ctx, record)
}

// Deliver POSTs record as JSON to the webhook. Any transport error or non-2xx
// status is reported as SYNC_DELIVERY_FAILED.
func (s *SyncService) Deliver(ctx context.Context, record models.EnrollmentRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrSyncDeliveryFailed.Code, appErrors.ErrSyncDeliveryFailed.Status, "encode sync payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrSyncDeliveryFailed.Code, appErrors.ErrSyncDeliveryFailed.Status, "build sync request")
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := s.client.Do(req)
	duration := time.Since(start)
	if err != nil {
		return s.failed(record, duration, appErrors.Wrap(err, appErrors.ErrSyncDeliveryFailed.Code, appErrors.ErrSyncDeliveryFailed.Status, "sync request failed"))
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return s.failed(record, duration, appErrors.Clone(appErrors.ErrSyncDeliveryFailed, fmt.Sprintf("webhook responded %d", resp.StatusCode)))
	}

	s.metrics.RecordSyncDelivery(SyncOutcomeDelivered)
	s.logger.Debug("sync delivered",
		zap.String("student", record.StudentName),
		zap.Duration("duration", duration),
	)
	return nil
}

func (s *SyncService) failed(record models.EnrollmentRecord, duration time.Duration, err error) error {
	s.metrics.RecordSyncDelivery(SyncOutcomeFailed)
	s.logger.Warn("sync delivery failed",
		zap.String("code", appErrors.ErrSyncDeliveryFailed.Code),
		zap.String("student", record.StudentName),
		zap.String("session_date", record.SessionDate),
		zap.Duration("duration", duration),
		zap.Error(err),
	)
	return err
}
