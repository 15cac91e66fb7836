package redlock

import (
	"context"
	"time"
)

// Run acquires resource for ttl and, on success, invokes fn with the
// descriptor before unconditionally unlocking on every exit path —
// including a panic inside fn, which is re-raised after cleanup. Run
// returns whether acquisition succeeded; fn's own return value (there is
// none) is not propagated. Use MustRun for the strict form that surfaces a
// failed acquisition as an error and propagates fn's result.
func (c *Coordinator) Run(ctx context.Context, resource string, ttl time.Duration, fn func(*Lock), opts ...LockOption) bool {
	l, err := c.Lock(ctx, resource, ttl, opts...)
	if err != nil {
		return false
	}
	defer c.Unlock(ctx, l)
	fn(l)
	return true
}

// MustRun is the strict scoped form: it returns ErrLockUnavailable (naming
// resource) if the lock cannot be acquired, otherwise it runs fn and
// propagates its result, unlocking on every exit path including a panic.
func MustRun[T any](ctx context.Context, c *Coordinator, resource string, ttl time.Duration, fn func(*Lock) (T, error), opts ...LockOption) (T, error) {
	var zero T
	l, err := c.Lock(ctx, resource, ttl, opts...)
	if err != nil {
		return zero, wrapResource(ErrLockUnavailable, resource)
	}
	defer c.Unlock(ctx, l)
	return fn(l)
}
