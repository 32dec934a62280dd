package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PasteMetrics tracks paste lifecycle and HTTP activity.
type PasteMetrics struct {
	pastesCreated *prometheus.CounterVec
	pastesViewed  prometheus.Counter
	pastesUpdated prometheus.Counter
	pastesDeleted *prometheus.CounterVec
	uploadBytes   prometheus.Counter

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewPasteMetrics creates a Prometheus-backed PasteMetrics instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewPasteMetrics() *PasteMetrics {
	if !IsEnabled() {
		return nil
	}

	reg := GetRegistry()

	return &PasteMetrics{
		pastesCreated: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "pasteshare_pastes_created_total",
				Help: "Total number of pastes created by representation",
			},
			[]string{"style"}, // "flat", "blocks"
		),
		pastesViewed: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "pasteshare_pastes_viewed_total",
				Help: "Total number of paste content views",
			},
		),
		pastesUpdated: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "pasteshare_pastes_updated_total",
				Help: "Total number of successful paste updates",
			},
		),
		pastesDeleted: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "pasteshare_pastes_deleted_total",
				Help: "Total number of pastes deleted by cause",
			},
			[]string{"cause"}, // "request", "expired"
		),
		uploadBytes: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "pasteshare_upload_bytes_total",
				Help: "Total bytes of file attachments accepted",
			},
		),
		httpRequests: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "pasteshare_http_requests_total",
				Help: "Total HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pasteshare_http_request_duration_seconds",
				Help:    "HTTP request latency by method and route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// RecordPasteCreated records a paste creation. style is "flat" or "blocks".
func (m *PasteMetrics) RecordPasteCreated(style string) {
	if m == nil {
		return
	}
	m.pastesCreated.WithLabelValues(style).Inc()
}

// RecordPasteViewed records a content view.
func (m *PasteMetrics) RecordPasteViewed() {
	if m == nil {
		return
	}
	m.pastesViewed.Inc()
}

// RecordPasteUpdated records a successful update.
func (m *PasteMetrics) RecordPasteUpdated() {
	if m == nil {
		return
	}
	m.pastesUpdated.Inc()
}

// RecordPasteDeleted records a deletion. cause is "request" or "expired".
func (m *PasteMetrics) RecordPasteDeleted(cause string, count int64) {
	if m == nil {
		return
	}
	m.pastesDeleted.WithLabelValues(cause).Add(float64(count))
}

// RecordUploadBytes records accepted attachment bytes.
func (m *PasteMetrics) RecordUploadBytes(n int64) {
	if m == nil {
		return
	}
	m.uploadBytes.Add(float64(n))
}

// RecordHTTPRequest records one served HTTP request.
func (m *PasteMetrics) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
