package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeAccepted = "accepted"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)

// IngestMetrics counts extraction uploads, persisted records and failed post-commit hooks.
// A nil *IngestMetrics records nothing.
type IngestMetrics struct {
	uploads      *prometheus.CounterVec
	records      prometheus.Counter
	hookFailures *prometheus.CounterVec
}

// NewIngestMetrics registers the ingest collectors on reg.
func NewIngestMetrics(reg prometheus.Registerer) (*IngestMetrics, error) {
	m := &IngestMetrics{
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "alumniapi",
			Subsystem: "ingest",
			Name:      "uploads_total",
			Help:      "Extraction uploads by kind and outcome (accepted, rejected, failed).",
		}, []string{"kind", "outcome"}),
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "alumniapi",
			Subsystem: "ingest",
			Name:      "records_total",
			Help:      "Enrollment records persisted by accepted extractions.",
		}),
		hookFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "alumniapi",
			Subsystem: "ingest",
			Name:      "hook_failures_total",
			Help:      "Post-commit hooks (cleanup, notify) that returned an error.",
		}, []string{"hook"}),
	}

	for _, c := range []prometheus.Collector{m.uploads, m.records, m.hookFailures} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *IngestMetrics) observeUpload(kind, outcome string, records int) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(kind, outcome).Inc()
	if records > 0 {
		m.records.Add(float64(records))
	}
}

func (m *IngestMetrics) observeHookFailure(hook string) {
	if m == nil {
		return
	}
	m.hookFailures.WithLabelValues(hook).Inc()
}
