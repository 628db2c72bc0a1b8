// Package observability exposes Prometheus metrics for comparison runs.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application's Prometheus collectors. Each instance
// carries its own registry so parallel tests never collide on
// registration.
type Metrics struct {
	registry *prometheus.Registry

	ComparisonsTotal   *prometheus.CounterVec
	ComparisonDuration *prometheus.HistogramVec
	RunsTotal          *prometheus.CounterVec
	FieldMismatches    *prometheus.CounterVec
}

// NewMetrics creates and registers the comparison metrics
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		ComparisonsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "uiparity",
			Name:      "comparisons_total",
			Help:      "Comparisons performed, by category and status",
		}, []string{"category", "status"}),
		ComparisonDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "uiparity",
			Name:      "comparison_duration_seconds",
			Help:      "Time spent collecting and comparing, by category",
			Buckets:   prometheus.DefBuckets,
		}, []string{"category"}),
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "uiparity",
			Name:      "runs_total",
			Help:      "Completed path runs, by outcome",
		}, []string{"status"}),
		FieldMismatches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "uiparity",
			Name:      "field_mismatches_total",
			Help:      "Semantic field mismatches, by kind",
		}, []string{"kind"}),
	}
}

// Handler returns an HTTP handler serving this instance's metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
