// Package metrics exposes the Prometheus collectors of the service.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	cacheLookups   *prometheus.CounterVec
	remoteDuration *prometheus.HistogramVec
	listingLoads   *prometheus.CounterVec
	warmRuns       *prometheus.CounterVec
}

func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &Metrics{
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toolhub_cache_lookups_total",
				Help: "Response cache lookups by result",
			},
			[]string{"result"},
		),
		remoteDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "toolhub_remote_request_duration_seconds",
				Help:    "Duration of remote data service requests in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"backend", "op", "table", "status"},
		),
		listingLoads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toolhub_listing_loads_total",
				Help: "Listing page loads by phase and outcome",
			},
			[]string{"phase", "status"},
		),
		warmRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toolhub_cache_warm_runs_total",
				Help: "Cache warm runs by outcome",
			},
			[]string{"status"},
		),
	}
}

// CacheLookup counts a cache hit or miss.
func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveRemote records the duration of one remote request.
func (m *Metrics) ObserveRemote(backend, op, table string, err error, d time.Duration) {
	if m == nil {
		return
	}
	m.remoteDuration.WithLabelValues(backend, op, table, status(err)).Observe(d.Seconds())
}

// ListingLoad counts an initial or incremental page load.
func (m *Metrics) ListingLoad(phase string, err error) {
	if m == nil {
		return
	}
	m.listingLoads.WithLabelValues(phase, status(err)).Inc()
}

// WarmRun counts one cache warm run.
func (m *Metrics) WarmRun(err error) {
	if m == nil {
		return
	}
	m.warmRuns.WithLabelValues(status(err)).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
