package redlock

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
)

// SuppressDeprecationWarnings, when set, silences the one-time deprecation
// notice emitted for extendOnlyIfLife/extendLife so test suites do not get
// poisoned by log output.
var SuppressDeprecationWarnings atomic.Bool

var deprecationOnce sync.Once

func warnDeprecatedExtendAlias() {
	if SuppressDeprecationWarnings.Load() {
		return
	}
	deprecationOnce.Do(func() {
		slog.Warn("redlock: extendOnlyIfLife/extendLife are deprecated, use WithExtendOnlyIfLocked")
	})
}

// lockRequest holds the per-call configuration accumulated from LockOptions.
type lockRequest struct {
	extend             *Lock
	extendOnlyIfLocked bool
}

// LockOption configures a single call to Coordinator.Lock.
type LockOption func(*lockRequest)

// WithExtend reuses l.Value as the token instead of minting a fresh one, and
// forces the attempt budget to one try (no retries for extends).
func WithExtend(l *Lock) LockOption {
	return func(r *lockRequest) { r.extend = l }
}

// WithExtendOnlyIfLocked forbids creating a fresh key when extending a lock
// that has already lapsed on a given server; it maps to allowNew="no".
// Default false (allowNew="yes").
func WithExtendOnlyIfLocked(v bool) LockOption {
	return func(r *lockRequest) { r.extendOnlyIfLocked = v }
}

// WithExtendOnlyIfLife is a deprecated alias of WithExtendOnlyIfLocked.
func WithExtendOnlyIfLife(v bool) LockOption {
	return func(r *lockRequest) {
		warnDeprecatedExtendAlias()
		r.extendOnlyIfLocked = v
	}
}

// WithExtendLife is a deprecated alias of WithExtendOnlyIfLocked.
func WithExtendLife(v bool) LockOption {
	return func(r *lockRequest) {
		warnDeprecatedExtendAlias()
		r.extendOnlyIfLocked = v
	}
}

// CoordinatorOption configures a Coordinator at construction time.
type CoordinatorOption func(*Coordinator)

// WithRetryCount sets the number of additional acquisition attempts after
// the first (default 3).
func WithRetryCount(n int) CoordinatorOption {
	return func(c *Coordinator) { c.retryCount = n }
}

// WithRetryDelay sets the per-attempt delay policy (default ConstantDelay(200ms)).
func WithRetryDelay(d RetryDelay) CoordinatorOption {
	return func(c *Coordinator) { c.retryDelay = d }
}

// WithRetryJitter sets the non-negative upper bound (exclusive) of the
// uniform random jitter added to each retry sleep (default 50ms).
func WithRetryJitter(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) { c.retryJitter = d }
}

// WithClock overrides the monotonic time source. Callers wiring in a fake
// clock for tests must ensure it never regresses.
func WithClock(c Clock) CoordinatorOption {
	return func(co *Coordinator) { co.clock = c }
}

// WithMetrics attaches a Metrics set to the Coordinator; every attempt,
// grant, quorum failure, release and script reload increments the
// corresponding counter.
func WithMetrics(m *Metrics) CoordinatorOption {
	return func(c *Coordinator) { c.metrics = m }
}

// WithPrometheusRegisterer is a convenience that builds a fresh Metrics set,
// registers it on reg, and attaches it, mirroring the teacher's
// WithMetrics(reg prometheus.Registerer) shape (v1/cache).
func WithPrometheusRegisterer(reg prometheus.Registerer) CoordinatorOption {
	return func(c *Coordinator) {
		m := NewMetrics()
		m.Register(reg)
		c.metrics = m
	}
}

// WithTracerName overrides the otel tracer name used for Coordinator spans
// (default "github.com/mirkobrombin/redlock/v1/redlock").
func WithTracerName(name string) CoordinatorOption {
	return func(c *Coordinator) { c.tracer = otel.Tracer(name) }
}
