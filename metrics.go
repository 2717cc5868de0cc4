package gbcd

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run status label values of gbcd_runs_total.
const (
	statusComplete = "complete"
	statusPartial  = "partial"
	statusFailed   = "failed"
)

// Metrics holds the Prometheus collectors updated by an Engine.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	triangles       *prometheus.CounterVec
	representations prometheus.Counter
	chunkDuration   prometheus.Histogram
	runs            *prometheus.CounterVec
}

// NewMetrics creates the engine collectors and registers them with reg.
// A nil reg creates unregistered collectors. Registering twice with the
// same registerer panics, as with promauto.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		triangles: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gbcd_triangles_total",
			Help: "Triangles visited by the GBCD engine, by outcome",
		}, []string{"outcome"}),
		representations: f.NewCounter(prometheus.CounterOpts{
			Name: "gbcd_representations_total",
			Help: "Symmetry-equivalent boundary representations accumulated into histograms",
		}),
		chunkDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "gbcd_chunk_duration_seconds",
			Help:    "Wall time to bin and reduce one chunk of triangles",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gbcd_runs_total",
			Help: "Compute calls, by final status",
		}, []string{"status"}),
	}
}

func (m *Metrics) observeChunk(ex Exclusions, binned, reps int, d time.Duration) {
	if m == nil {
		return
	}
	m.triangles.WithLabelValues(outcomeBinned.String()).Add(float64(binned))
	m.triangles.WithLabelValues(outcomeUnindexed.String()).Add(float64(ex.Unindexed))
	m.triangles.WithLabelValues(outcomeCrossPhase.String()).Add(float64(ex.CrossPhase))
	m.triangles.WithLabelValues(outcomeUnassignedPhase.String()).Add(float64(ex.UnassignedPhase))
	m.representations.Add(float64(reps))
	m.chunkDuration.Observe(d.Seconds())
}

func (m *Metrics) observeRun(status string) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(status).Inc()
}
