// Package observability holds the service metrics and logging setup.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Metrics collects the counters and histograms exposed on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	RequestCount       *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
	TurnsTotal         prometheus.Counter
	DebateIterations   prometheus.Histogram
	ConsensusReached   prometheus.Counter
	GenerationFailures prometheus.Counter
}

// NewMetrics creates and registers the service metrics on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		RequestCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests by endpoint and status",
			},
			[]string{"method", "endpoint", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"method", "endpoint"},
		),
		TurnsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "analysis_turns_total",
			Help: "Total conversation turns committed across all analyses",
		}),
		DebateIterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "analysis_iterations_per_conversation",
			Help:    "Turns per finished analysis conversation",
			Buckets: []float64{1, 2, 3, 4, 5, 7, 9, 11},
		}),
		ConsensusReached: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "analysis_consensus_reached_total",
			Help: "Analyses that terminated on detected consensus",
		}),
		GenerationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "llm_generation_failures_total",
			Help: "Failed or timed-out text-generation calls",
		}),
	}

	m.registry.MustRegister(
		m.RequestCount,
		m.RequestDuration,
		m.TurnsTotal,
		m.DebateIterations,
		m.ConsensusReached,
		m.GenerationFailures,
	)

	return m
}

// Handler exposes the registry for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// NewLogger builds the service logger at the configured level.
func NewLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
	return log
}
