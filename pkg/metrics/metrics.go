// Package metrics provides the centralized Prometheus registry reference for
// the response cache. The metrics themselves are defined next to the code
// they observe (pkg/cache) to maintain modularity.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the cache layer.
// All metrics are automatically registered via promauto in pkg/cache.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - rescache_hits_total (Counter): Cache hits
//   - rescache_misses_total (Counter): Cache misses
//   - rescache_errors_total{operation} (Counter): Command failures by operation
//   - rescache_unavailable_total (Counter): Operations skipped while the connection was not ready
//
// Connection Metrics (pkg/cache):
//   - rescache_connection_up (Gauge): Connection readiness (1 = ready)
//   - rescache_connect_attempts_total (Counter): Connection probes, including retries
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(rescache_hits_total[5m])) /
//   (sum(rate(rescache_hits_total[5m])) + sum(rate(rescache_misses_total[5m])))
//
//   # Outage Detection
//   rescache_connection_up == 0
//
//   # Command Error Rate
//   rate(rescache_errors_total[5m])
