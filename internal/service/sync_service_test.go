package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/course-registration-api/internal/models"
	"github.com/noah-isme/course-registration-api/pkg/config"
	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
)

func sampleRecord() models.EnrollmentRecord {
	return models.EnrollmentRecord{
		StudentName:      "Ada",
		ParentEmail:      "ada@example.com",
		ParentPhone:      "5550001111",
		Timestamp:        time.Date(2026, 1, 20, 15, 0, 0, 0, time.UTC),
		SessionDate:      "2026-02-02",
		SessionTime:      "4:00 PM",
		Course:           models.CourseLevel1,
		IsSeries:         true,
		PaymentProcessed: models.PaymentStatusNo,
	}
}

func TestSyncServiceDeliverPostsFlatJSON(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		raw, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(raw, &body))
		_, _ = w.Write([]byte(`{"result":"ok"}`))
	}))
	defer srv.Close()

	metrics := NewMetricsService()
	svc := NewSyncService(config.SyncConfig{WebhookURL: srv.URL, Timeout: time.Second}, metrics, nil)

	require.NoError(t, svc.Deliver(context.Background(), sampleRecord()))
	assert.Equal(t, "Ada", body["studentName"])
	assert.Equal(t, "2026-02-02", body["sessionDate"])
	assert.Equal(t, "4:00 PM", body["sessionTime"])
	assert.Equal(t, "Level 1", body["course"])
	assert.Equal(t, true, body["isSeries"])
	assert.Equal(t, "No", body["paymentProcessed"])
	assert.Equal(t, "2026-01-20T15:00:00Z", body["timestamp"])
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.syncDeliveries.WithLabelValues(SyncOutcomeDelivered)))
}

func TestSyncServiceDeliverNon2xxFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	core, logs := observer.New(zap.WarnLevel)
	svc := NewSyncService(config.SyncConfig{WebhookURL: srv.URL}, nil, zap.New(core))

	err := svc.Deliver(context.Background(), sampleRecord())
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrSyncDeliveryFailed))
	assert.Equal(t, 1, logs.FilterMessage("sync delivery failed").Len())
}

func TestSyncServiceDeliverTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	svc := NewSyncService(config.SyncConfig{WebhookURL: url, Timeout: 200 * time.Millisecond}, nil, nil)
	err := svc.Deliver(context.Background(), sampleRecord())
	assert.True(t, errors.Is(err, appErrors.ErrSyncDeliveryFailed))
}

func TestSyncServiceEnqueueDeliversInBackground(t *testing.T) {
	var hits int32
	received := make(chan struct{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		received <- struct{}{}
	}))
	defer srv.Close()

	svc := NewSyncService(config.SyncConfig{WebhookURL: srv.URL, Workers: 1, BufferSize: 4}, nil, nil)
	svc.Start(context.Background())
	defer svc.Stop()

	assert.True(t, svc.Enqueue(sampleRecord()))
	select {
	case <-received:
	case <-time.After(2 * time.Second):
		t.Fatal("record not delivered")
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestSyncServiceDisabled(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	metrics := NewMetricsService()
	svc := NewSyncService(config.SyncConfig{}, metrics, zap.New(core))
	svc.Start(context.Background())
	defer svc.Stop()

	assert.False(t, svc.Enabled())
	assert.False(t, svc.Enqueue(sampleRecord()))
	assert.Equal(t, 1, logs.FilterMessage("remote sync disabled, SYNC_WEBHOOK_URL not set").Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.syncDeliveries.WithLabelValues(SyncOutcomeDisabled)))
}
