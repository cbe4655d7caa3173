package datasheet

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts cache outcomes and renders.
type Metrics struct {
	hits           prometheus.Counter
	misses         prometheus.Counter
	renders        prometheus.Counter
	renderFailures prometheus.Counter
	renderDuration prometheus.Histogram
}

// NewMetrics registers the datasheet collectors. A nil registerer yields
// unregistered collectors, which is what tests want.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_datasheet_cache_hits_total",
			Help: "Datasheet requests served from the on-disk cache.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_datasheet_cache_misses_total",
			Help: "Datasheet requests that required a render.",
		}),
		renders: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_datasheet_renders_total",
			Help: "Datasheets rendered and persisted.",
		}),
		renderFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_datasheet_render_failures_total",
			Help: "Datasheet renders that failed.",
		}),
		renderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "catalog_datasheet_render_duration_seconds",
			Help:    "Time spent rendering one datasheet.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	if registerer != nil {
		registerer.MustRegister(m.hits, m.misses, m.renders, m.renderFailures, m.renderDuration)
	}
	return m
}
