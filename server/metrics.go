package server

import (
	"fmt"
	"net/http"
	"time"

	"JerseyFM/core/pipeline"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exports mint pipeline metrics to Prometheus.
type Metrics struct {
	registry *prometheus.Registry
	mints    *prometheus.CounterVec
	failures *prometheus.CounterVec
	inFlight prometheus.Gauge
	duration prometheus.Histogram
}

// NewMetrics registers the mint collectors on a fresh registry.
func NewMetrics() (*Metrics, error) {
	const namespace = "jerseyfm"
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		mints: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mints_total",
			Help:      "Mint requests by outcome.",
		}, []string{"status"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mint_failures_total",
			Help:      "Failed mint runs by the stage they failed in.",
		}, []string{"state"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mints_in_flight",
			Help:      "Pipeline runs currently executing.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "mint_duration_seconds",
			Help:      "Wall time of a pipeline run, uploads included.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
	}
	for _, c := range []prometheus.Collector{m.mints, m.failures, m.inFlight, m.duration} {
		if err := m.registry.Register(c); err != nil {
			return nil, fmt.Errorf("register mint metrics: %w", err)
		}
	}
	return m, nil
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// begin marks a run as started and returns the function that records it.
func (m *Metrics) begin() func(status string, res *pipeline.Result) {
	if m == nil {
		return func(string, *pipeline.Result) {}
	}
	start := time.Now()
	m.inFlight.Inc()
	return func(status string, res *pipeline.Result) {
		m.inFlight.Dec()
		m.duration.Observe(time.Since(start).Seconds())
		m.mints.WithLabelValues(status).Inc()
		if status != statusSuccess && res != nil {
			m.failures.WithLabelValues(res.Failed.String()).Inc()
		}
	}
}
