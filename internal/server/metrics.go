package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for tour searches.
type Metrics struct {
	registry prometheus.Gatherer

	optimizations *prometheus.CounterVec
	duration      prometheus.Histogram
	running       prometheus.Gauge
	bestLength    prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// uses a private registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		registry: reg,
		optimizations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "acotsp_optimizations_total",
			Help: "Tour searches by terminal status.",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "acotsp_optimization_duration_seconds",
			Help:    "Wall time of tour searches that ran.",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
		}),
		running: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "acotsp_running_optimizations",
			Help: "Tour searches currently holding a worker slot.",
		}),
		bestLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "acotsp_best_tour_length",
			Help: "Best tour length of the most recently completed search.",
		}),
	}
	reg.MustRegister(m.optimizations, m.duration, m.running, m.bestLength)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) finished(status string) {
	m.optimizations.WithLabelValues(status).Inc()
}
