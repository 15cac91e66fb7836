package redlock

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Coordinator owns a set of Instance Adapters and implements the quorum
// acquisition/renewal/release protocol. It is immutable after construction
// except for the Instance Adapters' own script-digest caches.
type Coordinator struct {
	instances []*Instance
	quorum    int

	retryCount  int
	retryDelay  RetryDelay
	retryJitter time.Duration
	clock       Clock

	metrics *Metrics
	tracer  trace.Tracer

	runID string
}

// NewCoordinator builds a Coordinator over the given Instance Adapters. An
// empty instance set is a construction-time error: quorum = 1 with zero
// instances is unsatisfiable, and this must never degrade into a silent
// always-fail runtime.
func NewCoordinator(instances []*Instance, opts ...CoordinatorOption) (*Coordinator, error) {
	if len(instances) == 0 {
		return nil, ErrNoInstances
	}
	c := &Coordinator{
		instances:   append([]*Instance(nil), instances...),
		quorum:      len(instances)/2 + 1,
		retryCount:  3,
		retryDelay:  ConstantDelay(200 * time.Millisecond),
		retryJitter: 50 * time.Millisecond,
		clock:       MonotonicClock,
		tracer:      tracer,
		runID:       newRunID(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.metrics != nil {
		for _, inst := range c.instances {
			inst.OnScriptReload(func() { c.metrics.ScriptReloadsTotal.Inc() })
		}
	}
	return c, nil
}

// Instances returns the number of backing Instance Adapters.
func (c *Coordinator) Instances() int { return len(c.instances) }

// Quorum returns the minimum number of agreeing instances required for a
// grant: floor(N/2)+1.
func (c *Coordinator) Quorum() int { return c.quorum }

// Lock attempts to acquire resource for ttl. On success it returns a Lock
// descriptor whose Validity is a non-negative upper bound, from the moment
// of return, on how long the caller may safely assume exclusivity. On
// failure it returns ErrNotAcquired (wrapped with the resource name) after
// exhausting the configured retry budget.
func (c *Coordinator) Lock(ctx context.Context, resource string, ttl time.Duration, opts ...LockOption) (*Lock, error) {
	req := lockRequest{}
	for _, opt := range opts {
		opt(&req)
	}

	token := newToken()
	tries := c.retryCount + 1
	if req.extend != nil {
		token = req.extend.Value
		tries = 1
	}
	allowNew := !req.extendOnlyIfLocked || req.extend == nil

	ctx, span := c.tracer.Start(ctx, "Coordinator.Lock")
	defer span.End()
	span.SetAttributes(resourceAttr(resource), quorumAttr(c.quorum))

	for attempt := 0; attempt < tries; attempt++ {
		if attempt > 0 {
			if err := c.sleep(ctx, attempt-1); err != nil {
				return nil, err
			}
		}

		lock, ok := c.attempt(ctx, resource, token, ttl, allowNew)
		if ok {
			return lock, nil
		}
	}
	return nil, wrapResource(ErrNotAcquired, resource)
}

// attempt performs a single acquisition attempt: fan out tryAcquire to
// every instance, measure elapsed wall time across the whole fan-out, and
// grant iff granted >= quorum and validity >= 0. On failure it fires a
// compensating release fan-out to every instance (including ones that did
// not grant, since they may have granted without the caller observing it).
func (c *Coordinator) attempt(ctx context.Context, resource, token string, ttl time.Duration, allowNew bool) (*Lock, bool) {
	if c.metrics != nil {
		c.metrics.AttemptsTotal.Inc()
	}

	ctx, span := c.tracer.Start(ctx, "Coordinator.attempt")
	defer span.End()

	t0 := c.clock()
	granted := c.fanOutAcquire(ctx, resource, token, ttl, allowNew)
	elapsed := time.Duration(c.clock()-t0) * time.Millisecond

	validity := ttl - elapsed - drift(ttl)
	span.SetAttributes(resourceAttr(resource), grantedAttr(granted), quorumAttr(c.quorum))

	if granted >= c.quorum && validity >= 0 {
		if c.metrics != nil {
			c.metrics.GrantsTotal.Inc()
		}
		return &Lock{Resource: resource, Value: token, Validity: validity}, true
	}

	if c.metrics != nil {
		c.metrics.QuorumFailuresTotal.Inc()
	}
	// Compensating release: use a background context so a caller-side
	// cancellation that interrupted the fan-out above does not also cut
	// short the cleanup, which would orphan keys on the servers that did
	// grant.
	c.fanOutRelease(detach(ctx), resource, token)
	return nil, false
}

// fanOutAcquire issues tryAcquire against every instance in parallel,
// bounded to one goroutine per instance, and joins before returning so the
// caller's t1 sample covers the slowest adapter, per the concurrency model.
func (c *Coordinator) fanOutAcquire(ctx context.Context, resource, token string, ttl time.Duration, allowNew bool) int {
	results := make([]bool, len(c.instances))
	var g errgroup.Group
	for idx, inst := range c.instances {
		idx, inst := idx, inst
		g.Go(func() error {
			results[idx] = inst.tryAcquire(ctx, resource, token, ttl, allowNew)
			return nil
		})
	}
	_ = g.Wait()

	granted := 0
	for _, ok := range results {
		if ok {
			granted++
		}
	}
	return granted
}

func (c *Coordinator) fanOutRelease(ctx context.Context, resource, token string) {
	if c.metrics != nil {
		c.metrics.ReleasesTotal.Inc()
	}
	var g errgroup.Group
	for _, inst := range c.instances {
		inst := inst
		g.Go(func() error {
			inst.release(ctx, resource, token)
			return nil
		})
	}
	_ = g.Wait()
}

// Unlock unconditionally fans release out to every instance. Errors are
// suppressed: an expired lock whose key was reclaimed by another holder
// must not be disturbed, and unreachable servers will drop the stale key on
// TTL regardless.
func (c *Coordinator) Unlock(ctx context.Context, l *Lock) {
	if l == nil {
		return
	}
	c.fanOutRelease(ctx, l.Resource, l.Value)
}

func (c *Coordinator) sleep(ctx context.Context, attempt int) error {
	d := c.retryDelay(attempt) + jitter(c.retryJitter)
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// detach returns a context that carries no deadline/cancellation from ctx
// but keeps its values, so compensating cleanup is not cut short by the
// caller's own cancellation.
func detach(ctx context.Context) context.Context {
	return detachedContext{ctx}
}

type detachedContext struct{ context.Context }

func (detachedContext) Deadline() (time.Time, bool) { return time.Time{}, false }
func (detachedContext) Done() <-chan struct{}       { return nil }
func (detachedContext) Err() error                  { return nil }

func wrapResource(err error, resource string) error {
	return &resourceError{err: err, resource: resource}
}

type resourceError struct {
	err      error
	resource string
}

func (e *resourceError) Error() string { return e.err.Error() + ": " + e.resource }
func (e *resourceError) Unwrap() error { return e.err }
