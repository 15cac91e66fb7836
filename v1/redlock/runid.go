package redlock

import huuid "github.com/hashicorp/go-uuid"

// newRunID mints a per-Coordinator correlation identifier used only for log
// and trace attribution; it never participates in lock ownership. Kept in a
// separate identifier space (a different UUID library) from lock tokens so
// the two are never confused for one another, mirroring the teacher's own
// split between lock.Redis's uuid.NewString() tokens and core.LeaseManager's
// hashicorp/go-uuid lease IDs.
func newRunID() string {
	id, err := huuid.GenerateUUID()
	if err != nil {
		// GenerateUUID only fails if the system entropy source itself
		// fails; fall back to a fixed marker rather than blocking
		// construction of a Coordinator over a non-essential ID.
		return "unknown"
	}
	return id
}
