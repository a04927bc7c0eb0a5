package cache

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tracknote/rescache/pkg/logging"
)

const (
	// DefaultTTL is used when Set is called with a non-positive TTL.
	DefaultTTL = time.Hour

	// commandTimeout bounds a single cache command so a slow or hanging
	// cache service degrades to unavailable instead of stalling requests.
	commandTimeout = 5 * time.Second
)

// Client provides the cache operations used by request handling. Every
// method is total: it consults the connection manager's availability flag
// before any I/O and resolves all failure modes to its documented
// "unavailable" result. Callers are not written to handle cache errors, so
// none are ever returned.
//
// Safe for concurrent use; the underlying redis client pipelines
// concurrently issued commands itself.
type Client struct {
	conn      *ConnManager
	logger    zerolog.Logger
	errLogger zerolog.Logger
}

// NewClient creates a cache client on top of a connection manager.
func NewClient(conn *ConnManager) *Client {
	if conn == nil {
		panic("connection manager cannot be nil")
	}
	return &Client{
		conn:      conn,
		logger:    logging.NewLogger("cache"),
		errLogger: logging.NewSampledLogger("cache", 5, time.Minute),
	}
}

// Available reports whether the cache connection is currently usable.
func (c *Client) Available() bool {
	return c.conn.IsAvailable()
}

// Get retrieves the value stored under key into dest. Returns false on a
// miss, when the cache is unavailable, or on any I/O or decode error.
func (c *Client) Get(ctx context.Context, key string, dest any) bool {
	rdb, ok := c.ready()
	if !ok {
		return false
	}

	qctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	data, err := rdb.Get(qctx, key).Bytes()
	if err == redis.Nil {
		CacheMisses.Inc()
		return false
	}
	if err != nil {
		c.fail("get", key, err)
		return false
	}

	if err := Unmarshal(data, dest); err != nil {
		// Corrupt entry: treated like a command failure, and dropped so
		// the next read recomputes.
		CacheErrors.WithLabelValues("get").Inc()
		c.errLogger.Warn().Err(err).Str("key", key).Msg("Invalid cache entry")
		rdb.Del(qctx, key)
		return false
	}

	CacheHits.Inc()
	c.logger.Debug().Str("key", key).Msg("Cache hit")
	return true
}

// Set stores value under key with the given TTL (DefaultTTL when ttl <= 0).
// Returns false when the cache is unavailable or the write failed.
func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) bool {
	rdb, ok := c.ready()
	if !ok {
		return false
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	data, err := Marshal(value)
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		c.errLogger.Warn().Err(err).Str("key", key).Msg("Cache value not serializable")
		return false
	}

	qctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	if err := rdb.Set(qctx, key, data, ttl).Err(); err != nil {
		c.fail("set", key, err)
		return false
	}

	c.logger.Debug().Str("key", key).Dur("ttl", ttl).Msg("Cached value")
	return true
}

// Invalidate removes a single key. Returns true when the key is gone,
// including when it never existed; false only when the cache is unavailable
// or the delete failed.
func (c *Client) Invalidate(ctx context.Context, key string) bool {
	rdb, ok := c.ready()
	if !ok {
		return false
	}

	qctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	if err := rdb.Del(qctx, key).Err(); err != nil {
		c.fail("delete", key, err)
		return false
	}
	return true
}

// InvalidatePattern removes every key matching the glob pattern in one
// batch. A pattern matching zero keys is a no-op success.
func (c *Client) InvalidatePattern(ctx context.Context, pattern string) bool {
	rdb, ok := c.ready()
	if !ok {
		return false
	}

	qctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	keys, err := rdb.Keys(qctx, pattern).Result()
	if err != nil {
		c.fail("delete", pattern, err)
		return false
	}
	if len(keys) == 0 {
		return true
	}

	if err := rdb.Del(qctx, keys...).Err(); err != nil {
		c.fail("delete", pattern, err)
		return false
	}

	c.logger.Debug().Str("pattern", pattern).Int("keys", len(keys)).Msg("Invalidated cache entries")
	return true
}

// Exists reports whether key is present. Returns false, not an error, when
// the cache is unavailable.
func (c *Client) Exists(ctx context.Context, key string) bool {
	rdb, ok := c.ready()
	if !ok {
		return false
	}

	qctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	n, err := rdb.Exists(qctx, key).Result()
	if err != nil {
		c.fail("exists", key, err)
		return false
	}
	return n > 0
}

// ready gates every operation on the availability flag. No I/O is attempted
// unless the connection manager reports Ready.
func (c *Client) ready() (*redis.Client, bool) {
	if !c.conn.IsAvailable() {
		CacheUnavailable.Inc()
		return nil, false
	}
	rdb := c.conn.conn()
	if rdb == nil {
		CacheUnavailable.Inc()
		return nil, false
	}
	return rdb, true
}

// fail records a command failure and, for connection-class errors, tells the
// connection manager so it can drop out of Ready.
func (c *Client) fail(operation, key string, err error) {
	CacheErrors.WithLabelValues(operation).Inc()
	c.errLogger.Warn().Err(err).
		Str("operation", operation).
		Str("key", key).
		Msg("Cache command failed")
	if isConnError(err) {
		c.conn.ReportFailure(err)
	}
}

// isConnError distinguishes connection-level trouble (socket errors,
// timeouts) from per-command failures that say nothing about the link.
func isConnError(err error) bool {
	if err == nil || err == redis.Nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, redis.ErrClosed)
}
