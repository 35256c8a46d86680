package service

import (
	"fmt"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/course-registration-api/internal/models"
)

// Sync delivery outcomes.
const (
	SyncOutcomeDelivered = "delivered"
	SyncOutcomeFailed    = "failed"
	SyncOutcomeDropped   = "dropped"
	SyncOutcomeDisabled  = "disabled"
)

// MetricsService encapsulates Prometheus instrumentation.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	registrations   *prometheus.CounterVec
	rejections      *prometheus.CounterVec
	syncDeliveries  *prometheus.CounterVec
	storeWrite      prometheus.Observer
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	registrations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "registrations_total",
		Help: "Accepted registrations",
	}, []string{"course", "series"})

	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "registration_rejections_total",
		Help: "Rejected registration attempts by error code",
	}, []string{"reason"})

	syncDeliveries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_deliveries_total",
		Help: "Remote sync delivery attempts by outcome",
	}, []string{"outcome"})

	storeWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "store_write_duration_seconds",
		Help:    "Latency of durable store writes",
		Buckets: prometheus.DefBuckets,
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, registrations, rejections, syncDeliveries, storeWrite, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		registrations:   registrations,
		rejections:      rejections,
		syncDeliveries:  syncDeliveries,
		storeWrite:      storeWrite,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordRegistration counts an accepted registration.
func (m *MetricsService) RecordRegistration(course models.CourseLevel, series bool) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(string(course), strconv.FormatBool(series)).Inc()
}

// RecordRejection counts a refused registration by error code.
func (m *MetricsService) RecordRejection(reason string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(reason).Inc()
}

// RecordSyncDelivery counts one remote sync outcome.
func (m *MetricsService) RecordSyncDelivery(outcome string) {
	if m == nil {
		return
	}
	m.syncDeliveries.WithLabelValues(outcome).Inc()
}

// ObserveStoreWrite tracks durable store write latency.
func (m *MetricsService) ObserveStoreWrite(duration time.Duration) {
	if m == nil || m.storeWrite == nil {
		return
	}
	m.storeWrite.Observe(duration.Seconds())
}
