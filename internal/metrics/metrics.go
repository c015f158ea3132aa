// Package metrics exposes Prometheus collectors for the scoreboard pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the scoreboard collectors on their own registry
type Metrics struct {
	registry *prometheus.Registry

	recomputes       *prometheus.CounterVec
	recomputeLatency prometheus.Histogram
	unmatched        prometheus.Gauge
	staleDropped     prometheus.Counter
	revision         prometheus.Gauge
	broadcasts       prometheus.Counter
	imports          *prometheus.CounterVec
}

// New creates the collectors and registers them, along with the Go and
// process collectors, in a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		recomputes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scoreboard_recomputes_total",
				Help: "Scoreboard recomputations by outcome.",
			},
			[]string{"status"},
		),
		recomputeLatency: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "scoreboard_recompute_duration_seconds",
				Help:    "Time taken to rebuild the scoreboard from a snapshot.",
				Buckets: prometheus.DefBuckets,
			},
		),
		unmatched: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "scoreboard_unmatched_winners",
				Help: "Winner entries excluded from the last pass because their bucket is unknown.",
			},
		),
		staleDropped: f.NewCounter(
			prometheus.CounterOpts{
				Name: "scoreboard_stale_views_dropped_total",
				Help: "Computed views discarded because a newer revision was already published.",
			},
		),
		revision: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "scoreboard_revision",
				Help: "Data revision of the published scoreboard.",
			},
		),
		broadcasts: f.NewCounter(
			prometheus.CounterOpts{
				Name: "scoreboard_broadcasts_total",
				Help: "Scoreboard updates pushed to live clients.",
			},
		),
		imports: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "legacy_import_events_total",
				Help: "Events read by legacy imports, by document layout.",
			},
			[]string{"shape"},
		),
	}
}

// Registry returns the registry the collectors live in
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRecompute records one recompute attempt
func (m *Metrics) ObserveRecompute(d time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.recomputes.WithLabelValues(status).Inc()
	m.recomputeLatency.Observe(d.Seconds())
}

// SetPublished records the state of a newly published view
func (m *Metrics) SetPublished(revision int64, unmatched int) {
	if m == nil {
		return
	}
	m.revision.Set(float64(revision))
	m.unmatched.Set(float64(unmatched))
}

// StaleDropped counts a view that lost the race to a newer one
func (m *Metrics) StaleDropped() {
	if m == nil {
		return
	}
	m.staleDropped.Inc()
}

// Broadcast counts a pushed update
func (m *Metrics) Broadcast() {
	if m == nil {
		return
	}
	m.broadcasts.Inc()
}

// Imported counts imported events of a layout
func (m *Metrics) Imported(shape string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.imports.WithLabelValues(shape).Add(float64(n))
}
