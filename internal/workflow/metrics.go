package workflow

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/JaimeStill/beacon/internal/aids"
)

// Metrics holds Prometheus metrics for extraction runs.
//
// Metrics:
//   - beacon_documents_processed_total{status,type} - documents by outcome
//   - beacon_extraction_duration_seconds - time spent per document
//   - beacon_extraction_confidence - confidence of non-failed records
type Metrics struct {
	DocumentsTotal *prometheus.CounterVec
	Duration       prometheus.Histogram
	Confidence     prometheus.Histogram
}

// NewMetrics creates extraction metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		DocumentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "beacon_documents_processed_total",
				Help: "Total number of documents processed by extraction status and document type",
			},
			[]string{"status", "type"},
		),

		Duration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "beacon_extraction_duration_seconds",
				Help:    "Duration of single document extraction in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
			},
		),

		Confidence: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "beacon_extraction_confidence",
				Help:    "Confidence score of extracted records",
				Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
			},
		),
	}
}

// Observe records the outcome of one document. A nil Metrics is a no-op.
func (m *Metrics) Observe(rec aids.Record, elapsed time.Duration) {
	if m == nil {
		return
	}

	docType := string(rec.DocType)
	if docType == "" {
		docType = "unknown"
	}

	m.DocumentsTotal.WithLabelValues(string(rec.Status), docType).Inc()
	m.Duration.Observe(elapsed.Seconds())

	if rec.Status != aids.StatusFailed {
		m.Confidence.Observe(rec.Confidence)
	}
}
