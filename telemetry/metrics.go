package telemetry

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jchevertonwynne/statemachine"
)

// Metrics records search runs in Prometheus. It implements
// statemachine.Observer and is safe to share between concurrent runs.
type Metrics struct {
	config MetricsConfig

	runsStarted    *prometheus.CounterVec
	runsCompleted  *prometheus.CounterVec
	runDuration    *prometheus.HistogramVec
	expansions     *prometheus.CounterVec
	solutions      *prometheus.CounterVec
	pathLength     *prometheus.HistogramVec
	frontierSize   *prometheus.GaugeVec
	successorCount *prometheus.HistogramVec

	mu      sync.Mutex
	started map[string]time.Time
	now     func() time.Time

	registry *prometheus.Registry
}

var _ statemachine.Observer = (*Metrics)(nil)

// NewMetrics creates a collector. A disabled config yields a Metrics whose
// OnEvent does nothing.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		return &Metrics{config: cfg}, nil
	}

	namespace := cfg.Namespace
	buckets := cfg.PathLengthBuckets
	if len(buckets) == 0 {
		buckets = prometheus.ExponentialBuckets(1, 2, 8)
	}

	registry := prometheus.NewRegistry()
	m := &Metrics{
		config:   cfg,
		registry: registry,
		started:  make(map[string]time.Time),
		now:      time.Now,

		runsStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_started_total",
				Help:      "Total number of search runs started",
			},
			[]string{"label"},
		),
		runsCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_completed_total",
				Help:      "Total number of search runs completed",
			},
			[]string{"label", "outcome"},
		),
		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Wall time of search runs in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"label"},
		),
		expansions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "expansions_total",
				Help:      "Total number of states popped and expanded",
			},
			[]string{"label"},
		),
		solutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "solutions_total",
				Help:      "Total number of goal paths recorded",
			},
			[]string{"label"},
		),
		pathLength: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "solution_path_length",
				Help:      "Number of states in recorded goal paths",
				Buckets:   buckets,
			},
			[]string{"label"},
		),
		frontierSize: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "frontier_size",
				Help:      "Pending frontier entries at the last expansion",
			},
			[]string{"label"},
		),
		successorCount: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "successors_per_expansion",
				Help:      "Branching factor observed per expansion",
				Buckets:   prometheus.LinearBuckets(0, 1, 9),
			},
			[]string{"label"},
		),
	}

	registry.MustRegister(
		m.runsStarted,
		m.runsCompleted,
		m.runDuration,
		m.expansions,
		m.solutions,
		m.pathLength,
		m.frontierSize,
		m.successorCount,
	)
	return m, nil
}

// OnEvent implements statemachine.Observer.
func (m *Metrics) OnEvent(event statemachine.Event) {
	if m.registry == nil {
		return
	}

	switch event.Type {
	case statemachine.EventRunStart:
		m.runsStarted.WithLabelValues(event.Label).Inc()
		m.mu.Lock()
		m.started[event.RunID] = m.now()
		m.mu.Unlock()
	case statemachine.EventExpand:
		m.expansions.WithLabelValues(event.Label).Inc()
		m.frontierSize.WithLabelValues(event.Label).Set(float64(event.Frontier))
		m.successorCount.WithLabelValues(event.Label).Observe(float64(event.Successors))
	case statemachine.EventSolution:
		m.solutions.WithLabelValues(event.Label).Inc()
		m.pathLength.WithLabelValues(event.Label).Observe(float64(event.PathLength))
	case statemachine.EventRunFinish:
		outcome := "exhausted"
		if event.Found {
			outcome = "found"
		}
		m.runsCompleted.WithLabelValues(event.Label, outcome).Inc()

		m.mu.Lock()
		start, ok := m.started[event.RunID]
		delete(m.started, event.RunID)
		m.mu.Unlock()
		if ok {
			m.runDuration.WithLabelValues(event.Label).Observe(m.now().Sub(start).Seconds())
		}
	}
}

// Enabled reports whether metrics are being collected.
func (m *Metrics) Enabled() bool { return m.registry != nil }

// Registry returns the underlying registry, or nil when disabled.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
