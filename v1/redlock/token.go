package redlock

import "github.com/google/uuid"

// newToken mints a fresh, cryptographically random lock token: a version-4
// UUID, whose 122 random bits make a collision between two acquisitions
// vanishingly unlikely; byte-equality of this string is the sole proof of
// lock ownership.
func newToken() string {
	return uuid.NewString()
}
