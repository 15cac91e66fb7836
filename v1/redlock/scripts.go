package redlock

// The three scripted primitives the Redlock core issues against each
// backing server. All state transitions gate on byte-equality of the token
// argument, which is what makes release and extend safe against a lock that
// has already lapsed and been reclaimed by another holder.

// lockScript sets KEYS[1] to ARGV[1] with a millisecond expiry ARGV[2] iff
// either the key is absent and ARGV[3] == "yes" (fresh acquisition), or the
// key already holds ARGV[1] (extend). Returns the SET reply on success, or
// nil (falsy) otherwise.
const lockScript = `
if (redis.call("exists", KEYS[1]) == 0 and ARGV[3] == "yes")
   or redis.call("get", KEYS[1]) == ARGV[1]
then
    return redis.call("set", KEYS[1], ARGV[1], "PX", ARGV[2])
end
return false
`

// unlockScript deletes KEYS[1] only if it still holds ARGV[1].
const unlockScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
    return redis.call("del", KEYS[1])
else
    return 0
end
`

// pttlScript atomically reads the current value and remaining TTL of
// KEYS[1] so the two cannot drift apart between round trips.
const pttlScript = `
return {redis.call("get", KEYS[1]), redis.call("pttl", KEYS[1])}
`

type scriptKind int

const (
	kindLock scriptKind = iota
	kindUnlock
	kindPTTL
)

func (k scriptKind) source() string {
	switch k {
	case kindLock:
		return lockScript
	case kindUnlock:
		return unlockScript
	case kindPTTL:
		return pttlScript
	default:
		panic("redlock: unknown script kind")
	}
}
