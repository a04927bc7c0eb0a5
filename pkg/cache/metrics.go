package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks successful cache reads.
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rescache_hits_total",
			Help: "Total number of cache hits",
		},
	)

	// CacheMisses tracks cache reads that found no entry.
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rescache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	// CacheErrors tracks cache command failures by operation.
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rescache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete", "exists"
	)

	// CacheUnavailable tracks operations short-circuited because the
	// connection was not Ready.
	CacheUnavailable = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rescache_unavailable_total",
			Help: "Total number of cache operations skipped while the connection was unavailable",
		},
	)

	// ConnectionUp reports whether the cache connection is Ready (1) or not (0).
	ConnectionUp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rescache_connection_up",
			Help: "Whether the cache service connection is ready",
		},
	)

	// ConnectAttempts tracks connection probes, including retries and
	// supervisory reconnects.
	ConnectAttempts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rescache_connect_attempts_total",
			Help: "Total number of cache connection attempts",
		},
	)
)
