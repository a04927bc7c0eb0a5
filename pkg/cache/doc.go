// Package cache provides a best-effort, cache-aside client backed by Redis.
//
// The cache is a performance optimization, never a correctness dependency.
// The package is built around one invariant: no failure inside the caching
// layer ever reaches a caller as an error. Everything resolves to a typed
// "no value" result, and the worst observable outcome is that a response is
// recomputed instead of served from cache.
//
// # Connection lifecycle
//
// ConnManager owns the only handle to the cache service and drives an
// explicit state machine:
//
//	Disconnected -> Connecting -> Ready
//	Ready -> Degraded (runtime error) -> Connecting
//	Connecting -> ClosedPendingReconnect (retry budget exhausted)
//
// Failed connection attempts retry with a bounded backoff schedule
// (min(attempts*base, cap)); once the budget is exhausted a single
// supervisory timer re-probes periodically, independent of request traffic.
// An unset connection URL is a supported, permanent "caching disabled"
// configuration: the manager stays Disconnected and never starts a timer.
//
// # Basic Usage
//
//	conn := cache.NewConnManager(cache.DefaultConnConfig(os.Getenv("REDIS_URL")))
//	conn.Start()
//	defer conn.Close()
//
//	client := cache.NewClient(conn)
//
//	key := cache.Key("notes", "42")
//	var note Note
//	if client.Get(ctx, key, &note) {
//		// cache hit
//	} else {
//		// miss, unavailable or failed: recompute and write back
//		client.Set(ctx, key, note, 5*time.Minute)
//	}
//
// # Cache keys
//
// Keys are namespaced by resource type. Key builds the scalar form
// ("notes:42"), RequestKey the canonical request form (path plus query
// parameters in stable order), and Pattern the glob covering a whole
// namespace for invalidation.
//
// # Metrics
//
// The package exports Prometheus metrics:
//
//   - rescache_hits_total - Cache hits
//   - rescache_misses_total - Cache misses
//   - rescache_errors_total{operation} - Command failures
//   - rescache_unavailable_total - Operations skipped while unavailable
//   - rescache_connection_up - Connection readiness gauge
//   - rescache_connect_attempts_total - Connection probes
package cache
