// Package redlock implements the Redlock distributed lock algorithm over a
// set of independent Redis-compatible servers. A Coordinator fans requests
// out to every configured Instance Adapter and grants a lock only when a
// strict majority of them agree within the time remaining on the requested
// TTL, after subtracting acquisition latency and a clock-drift allowance.
//
// The algorithm assumes the backing servers know nothing of each other:
// there is no server-to-server coordination, no fencing token, and no
// durability guarantee across a full loss of the server set. See the
// package's design notes for the safety argument.
package redlock
