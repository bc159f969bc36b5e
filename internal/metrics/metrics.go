// Package metrics provides Prometheus observability for the onboarding
// service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the upload pipeline instruments. All methods are nil-safe so
// callers can run without metrics wired (tests, one-off tools).
type Metrics struct {
	// Upload outcomes by result: accepted, rejected, error
	Uploads *prometheus.CounterVec

	// Total rows committed to the collection
	RowsCommitted prometheus.Counter

	// End-to-end duration of accepted uploads
	UploadDuration prometheus.Histogram
}

// New registers the onboarding metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Uploads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "onboard_uploads_total",
			Help: "Total upload requests by outcome",
		}, []string{"outcome"}),

		RowsCommitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "onboard_rows_committed_total",
			Help: "Total user rows committed to the collection",
		}),

		UploadDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "onboard_upload_duration_seconds",
			Help:    "Duration of the upload pipeline for accepted batches",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

// IncUpload records an upload outcome.
func (m *Metrics) IncUpload(outcome string) {
	if m != nil {
		m.Uploads.WithLabelValues(outcome).Inc()
	}
}

// AddRowsCommitted records rows committed in one batch.
func (m *Metrics) AddRowsCommitted(n int) {
	if m != nil {
		m.RowsCommitted.Add(float64(n))
	}
}

// ObserveUploadDuration records the duration of an accepted upload.
func (m *Metrics) ObserveUploadDuration(d time.Duration) {
	if m != nil {
		m.UploadDuration.Observe(d.Seconds())
	}
}
