package redlock

import "time"

// Lock is the descriptor returned to a successful caller. It is immutable:
// Validity is an upper bound, fixed at the moment of return, on how long the
// holder may safely assume exclusivity.
type Lock struct {
	Resource string
	Value    string
	Validity time.Duration
}
