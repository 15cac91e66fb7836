package redlock

import "errors"

var (
	// ErrNoInstances is returned by NewCoordinator when constructed with an
	// empty instance set. An empty set makes the quorum threshold
	// unsatisfiable, so this is rejected at construction rather than left to
	// fail silently on every call.
	ErrNoInstances = errors.New("redlock: coordinator requires at least one instance")

	// ErrNotAcquired is returned by Lock when the attempt budget is
	// exhausted without reaching quorum and non-negative validity.
	ErrNotAcquired = errors.New("redlock: lock not acquired")

	// ErrLockUnavailable is surfaced by the strict scoped form (MustRun)
	// when acquisition fails after all retries.
	ErrLockUnavailable = errors.New("redlock: lock unavailable")

	// ErrNoScript is returned when a server rejects a script digest with
	// NOSCRIPT a second time, after the one-shot reload-and-retry already
	// happened.
	ErrNoScript = errors.New("redlock: script cache reload did not recover NOSCRIPT")
)
