// Package metrics exposes prometheus collectors for the ingest pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector bundles the pipeline counters on a private registry. A nil
// *Collector is valid and records nothing, so components can be wired
// without metrics in tests.
type Collector struct {
	fetches     *prometheus.CounterVec // outcome label: ok|error
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter

	recordsNormalized *prometheus.CounterVec // kind label: position|alert|trip|...
	recordsDropped    *prometheus.CounterVec

	sinkWrites   *prometheus.CounterVec // target label
	sinkFailures *prometheus.CounterVec
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ingest_fetches_total",
			Help: "Total upstream fetches by outcome.",
		}, []string{"outcome"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ingest_response_cache_hits_total",
			Help: "Total response cache hits.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ingest_response_cache_misses_total",
			Help: "Total response cache misses.",
		}),
		recordsNormalized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ingest_records_normalized_total",
			Help: "Domain records produced, by kind.",
		}, []string{"kind"}),
		recordsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ingest_records_dropped_total",
			Help: "Raw entities dropped by validation or filters, by kind.",
		}, []string{"kind"}),
		sinkWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ingest_sink_writes_total",
			Help: "Completed sink writes, by target.",
		}, []string{"target"}),
		sinkFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ingest_sink_write_failures_total",
			Help: "Failed sink writes, by target.",
		}, []string{"target"}),
	}
	reg.MustRegister(c.fetches, c.cacheHits, c.cacheMisses,
		c.recordsNormalized, c.recordsDropped, c.sinkWrites, c.sinkFailures)
	return c
}

func (c *Collector) Fetch(ok bool) {
	if c == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	c.fetches.WithLabelValues(outcome).Inc()
}

func (c *Collector) CacheHit() {
	if c == nil {
		return
	}
	c.cacheHits.Inc()
}

func (c *Collector) CacheMiss() {
	if c == nil {
		return
	}
	c.cacheMisses.Inc()
}

func (c *Collector) Normalized(kind string, n int) {
	if c == nil {
		return
	}
	c.recordsNormalized.WithLabelValues(kind).Add(float64(n))
}

func (c *Collector) Dropped(kind string, n int) {
	if c == nil || n == 0 {
		return
	}
	c.recordsDropped.WithLabelValues(kind).Add(float64(n))
}

func (c *Collector) SinkWrite(target string, err error) {
	if c == nil {
		return
	}
	if err != nil {
		c.sinkFailures.WithLabelValues(target).Inc()
		return
	}
	c.sinkWrites.WithLabelValues(target).Inc()
}
