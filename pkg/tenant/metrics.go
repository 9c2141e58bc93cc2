package tenant

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus counters for tenant resolution. A nil
// *Metrics is valid and records nothing, so wiring stays optional.
type Metrics struct {
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	ResolutionFailed prometheus.Counter
}

// NewMetrics initializes and registers the tenant resolution metrics with
// the default registerer.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith registers the metrics with a caller-provided registerer,
// which tests use to avoid duplicate registration.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "storekit",
			Subsystem: "tenant",
			Name:      "cache_hits_total",
			Help:      "Total number of tenant lookup cache hits.",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "storekit",
			Subsystem: "tenant",
			Name:      "cache_misses_total",
			Help:      "Total number of tenant lookup cache misses.",
		}),
		ResolutionFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "storekit",
			Subsystem: "tenant",
			Name:      "resolution_failures_total",
			Help:      "Total number of requests that resolved to no active tenant.",
		}),
	}
}

func (m *Metrics) cacheHit() {
	if m != nil {
		m.CacheHits.Inc()
	}
}

func (m *Metrics) cacheMiss() {
	if m != nil {
		m.CacheMisses.Inc()
	}
}

func (m *Metrics) resolutionFailed() {
	if m != nil {
		m.ResolutionFailed.Inc()
	}
}
