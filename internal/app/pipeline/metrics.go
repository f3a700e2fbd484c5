package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Stage outcome labels.
const (
	resultSuccess = "success"
	resultFailure = "failure"
	resultSkipped = "skipped"
)

// Metrics are the Prometheus collectors of the pipeline.
type Metrics struct {
	stageDuration *prometheus.HistogramVec
	stageTotal    *prometheus.CounterVec
	runsTotal     *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg when non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "skill",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"stage"}),
		stageTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skill",
			Name:      "stage_total",
			Help:      "Pipeline stage outcomes.",
		}, []string{"stage", "result"}),
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skill",
			Name:      "runs_total",
			Help:      "Processed files by final status.",
		}, []string{"status"}),
	}
	if reg != nil {
		reg.MustRegister(m.stageDuration, m.stageTotal, m.runsTotal)
	}
	return m
}

func (m *Metrics) observe(stage, result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	if result != resultSkipped {
		m.stageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
	}
	m.stageTotal.WithLabelValues(stage, result).Inc()
}

func (m *Metrics) run(status string) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(status).Inc()
}
