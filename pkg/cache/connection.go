package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tracknote/rescache/pkg/logging"
)

// State is the connection lifecycle state of the cache service connection.
type State string

const (
	// StateDisconnected is the initial state. It is also the permanent
	// state when no connection URL is configured (caching disabled) and
	// the final state after Close.
	StateDisconnected State = "disconnected"

	// StateConnecting means a connection probe is in flight or scheduled
	// under the immediate-retry budget.
	StateConnecting State = "connecting"

	// StateReady means the connection is healthy and operations are
	// permitted.
	StateReady State = "ready"

	// StateDegraded means a runtime error was reported while the
	// connection was Ready; a reconnect probe is scheduled.
	StateDegraded State = "degraded"

	// StateClosedPendingReconnect means the immediate-retry budget is
	// exhausted and only the supervisory reconnect timer remains armed.
	StateClosedPendingReconnect State = "closed_pending_reconnect"
)

// ConnConfig holds the connection manager configuration.
type ConnConfig struct {
	// URL is the cache service connection string (e.g.
	// "redis://localhost:6379/0"). Empty disables caching entirely: the
	// manager stays Disconnected forever and never starts a timer.
	URL string

	// ConnectTimeout bounds a single connection probe.
	ConnectTimeout time.Duration

	// MaxRetries is the immediate-retry budget after a failed probe.
	MaxRetries int

	// RetryBaseDelay and RetryCapDelay define the backoff schedule:
	// min(attempts*RetryBaseDelay, RetryCapDelay).
	RetryBaseDelay time.Duration
	RetryCapDelay  time.Duration

	// ReconnectInterval is the supervisory timer interval used once the
	// immediate-retry budget is exhausted.
	ReconnectInterval time.Duration
}

// DefaultConnConfig returns a safe default configuration for the given
// connection URL.
func DefaultConnConfig(url string) ConnConfig {
	return ConnConfig{
		URL:               url,
		ConnectTimeout:    5 * time.Second,
		MaxRetries:        3,
		RetryBaseDelay:    500 * time.Millisecond,
		RetryCapDelay:     5 * time.Second,
		ReconnectInterval: 30 * time.Second,
	}
}

// ConnManager owns the single connection to the external cache service and
// drives its lifecycle state machine. Connection trouble never propagates to
// callers; it only ever flips IsAvailable.
type ConnManager struct {
	cfg       ConnConfig
	logger    zerolog.Logger
	errLogger zerolog.Logger

	// available is read on every cache operation; kept as an atomic so
	// the check is cheap and lock-free.
	available atomic.Bool

	mu       sync.Mutex
	state    State
	client   *redis.Client
	attempts int
	timer    *time.Timer
	closed   bool
	probes   int
}

// NewConnManager creates a connection manager. Call Start to begin
// connecting; a manager without a configured URL is valid and stays
// permanently unavailable.
func NewConnManager(cfg ConnConfig) *ConnManager {
	return &ConnManager{
		cfg:    cfg,
		logger: logging.NewLogger("cache-conn"),
		// Sustained outages produce an error per probe; sample so the
		// log is not flooded.
		errLogger: logging.NewSampledLogger("cache-conn", 3, time.Minute),
		state:     StateDisconnected,
	}
}

// Start begins connecting in the background if a URL is configured.
// It returns immediately; use IsAvailable to observe readiness.
func (m *ConnManager) Start() {
	if m.cfg.URL == "" {
		m.logger.Info().Msg("No cache URL configured, caching disabled")
		return
	}

	opt, err := redis.ParseURL(m.cfg.URL)
	if err != nil {
		m.logger.Error().Err(err).Msg("Invalid cache URL, caching disabled")
		return
	}
	opt.DialTimeout = m.cfg.ConnectTimeout

	m.mu.Lock()
	if m.closed || m.client != nil {
		m.mu.Unlock()
		return
	}
	m.client = redis.NewClient(opt)
	m.state = StateConnecting
	m.mu.Unlock()

	go m.connect(false)
}

// connect runs a single connection probe and schedules the next step on
// failure. supervised marks probes fired by the supervisory timer, which
// re-arm that timer instead of consuming the immediate-retry budget.
func (m *ConnManager) connect(supervised bool) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.state = StateConnecting
	m.probes++
	client := m.client
	m.mu.Unlock()

	ConnectAttempts.Inc()

	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.ConnectTimeout)
	err := client.Ping(ctx).Err()
	cancel()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}

	if err == nil {
		m.state = StateReady
		m.attempts = 0
		m.stopTimerLocked()
		m.available.Store(true)
		ConnectionUp.Set(1)
		m.logger.Info().Msg("Cache connection ready")
		return
	}

	if supervised {
		m.state = StateClosedPendingReconnect
		m.errLogger.Warn().Err(err).
			Dur("interval", m.cfg.ReconnectInterval).
			Msg("Supervisory reconnect failed")
		m.armTimerLocked(m.cfg.ReconnectInterval, func() { m.connect(true) })
		return
	}

	m.attempts++
	m.errLogger.Warn().Err(err).
		Int("attempt", m.attempts).
		Int("max_retries", m.cfg.MaxRetries).
		Msg("Cache connection attempt failed")

	if m.attempts < m.cfg.MaxRetries {
		delay := min(time.Duration(m.attempts)*m.cfg.RetryBaseDelay, m.cfg.RetryCapDelay)
		m.armTimerLocked(delay, func() { m.connect(false) })
		return
	}

	// Budget exhausted: stop retrying per attempt and fall back to the
	// supervisory timer.
	m.state = StateClosedPendingReconnect
	m.logger.Warn().
		Dur("interval", m.cfg.ReconnectInterval).
		Msg("Retry budget exhausted, switching to periodic reconnect")
	m.armTimerLocked(m.cfg.ReconnectInterval, func() { m.connect(true) })
}

// ReportFailure notifies the manager of a runtime error on an otherwise
// Ready connection. The manager drops to Degraded and schedules a reconnect
// probe. Safe to call from any goroutine; no-op unless currently Ready.
func (m *ConnManager) ReportFailure(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || m.state != StateReady {
		return
	}
	m.state = StateDegraded
	m.attempts = 0
	m.available.Store(false)
	ConnectionUp.Set(0)
	// Transition-edge log: one entry per outage, not one per error.
	m.logger.Warn().Err(err).Msg("Cache connection degraded")
	m.armTimerLocked(m.cfg.RetryBaseDelay, func() { m.connect(false) })
}

// IsAvailable reports whether cache operations may be attempted right now.
// Cheap, non-blocking, safe for concurrent use.
func (m *ConnManager) IsAvailable() bool {
	return m.available.Load()
}

// State returns the current connection state.
func (m *ConnManager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Close tears the connection down: cancels all timers, releases the
// connection and leaves the manager Disconnected. No reconnect is ever
// scheduled afterwards. Idempotent.
func (m *ConnManager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.stopTimerLocked()
	m.state = StateDisconnected
	m.available.Store(false)
	ConnectionUp.Set(0)
	client := m.client
	m.client = nil
	m.mu.Unlock()

	m.logger.Info().Msg("Cache connection closed")
	if client != nil {
		return client.Close()
	}
	return nil
}

// conn returns the owned redis client, or nil when disconnected. Only the
// cache Client in this package issues commands through it.
func (m *ConnManager) conn() *redis.Client {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.client
}

// armTimerLocked schedules fn after delay, replacing any pending timer.
// Caller must hold mu.
func (m *ConnManager) armTimerLocked(delay time.Duration, fn func()) {
	m.stopTimerLocked()
	if m.closed {
		return
	}
	m.timer = time.AfterFunc(delay, fn)
}

// stopTimerLocked cancels the pending timer, if any. Caller must hold mu.
func (m *ConnManager) stopTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}
