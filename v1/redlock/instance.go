package redlock

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Instance wraps one backing Redis server. It uploads the three scripted
// primitives once at construction and exposes atomic tryAcquire/release/
// readTTL operations, transparently reloading scripts if the server reports
// its script cache was flushed.
type Instance struct {
	pool Pool
	addr string // for logging/metrics attribution only

	mu      sync.RWMutex
	scripts [3]string // sha digests, indexed by scriptKind

	onReload func()
}

// OnScriptReload registers a callback invoked every time a NOSCRIPT reply
// triggers a script cache reload. A Coordinator wires this to its Metrics'
// ScriptReloadsTotal counter, when one is attached.
func (i *Instance) OnScriptReload(fn func()) {
	i.mu.Lock()
	i.onReload = fn
	i.mu.Unlock()
}

// NewInstance builds an Instance Adapter around an already-constructed Pool
// (or a bare Executor wrapped with NewPool) and uploads the three scripts.
func NewInstance(ctx context.Context, pool Pool) (*Instance, error) {
	inst := &Instance{pool: pool}
	if err := inst.loadScripts(ctx); err != nil {
		return nil, err
	}
	return inst, nil
}

// NewInstanceFromClient wraps an already-built *redis.Client, which is
// itself a connection pool, as a pool-of-one Instance Adapter.
func NewInstanceFromClient(ctx context.Context, client *redis.Client) (*Instance, error) {
	inst, err := NewInstance(ctx, NewPool(client))
	if err != nil {
		return nil, err
	}
	inst.addr = client.Options().Addr
	return inst, nil
}

// NewInstanceFromURL parses a redis:// URL, applies timeout as the dial,
// read and write timeout, and builds an Instance Adapter around a fresh
// client. timeout <= 0 selects the default of 100ms.
func NewInstanceFromURL(ctx context.Context, url string, timeout time.Duration) (*Instance, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = 100 * time.Millisecond
	}
	opts.DialTimeout = timeout
	opts.ReadTimeout = timeout
	opts.WriteTimeout = timeout
	return NewInstanceFromClient(ctx, redis.NewClient(opts))
}

func (i *Instance) sha(kind scriptKind) string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.scripts[kind]
}

func (i *Instance) loadScripts(ctx context.Context) error {
	var loaded [3]string
	err := i.pool.Checkout(ctx, func(ex Executor) error {
		for _, kind := range []scriptKind{kindLock, kindUnlock, kindPTTL} {
			sha, err := ex.ScriptLoad(ctx, kind.source()).Result()
			if err != nil {
				return err
			}
			loaded[kind] = sha
		}
		return nil
	})
	if err != nil {
		return err
	}
	i.mu.Lock()
	i.scripts = loaded
	i.mu.Unlock()
	return nil
}

func isNoScript(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "NOSCRIPT")
}

// evalSha runs the named script by digest, transparently reloading and
// retrying exactly once if the server reports NOSCRIPT. A second NOSCRIPT
// propagates as ErrNoScript.
func (i *Instance) evalSha(ctx context.Context, kind scriptKind, keys []string, args ...interface{}) (interface{}, error) {
	res, err := i.evalOnce(ctx, i.sha(kind), keys, args...)
	if isNoScript(err) {
		if reloadErr := i.loadScripts(ctx); reloadErr != nil {
			return nil, reloadErr
		}
		i.mu.RLock()
		hook := i.onReload
		i.mu.RUnlock()
		if hook != nil {
			hook()
		}
		res, err = i.evalOnce(ctx, i.sha(kind), keys, args...)
		if isNoScript(err) {
			return nil, ErrNoScript
		}
	}
	return res, err
}

func (i *Instance) evalOnce(ctx context.Context, sha string, keys []string, args ...interface{}) (interface{}, error) {
	var result interface{}
	err := i.pool.Checkout(ctx, func(ex Executor) error {
		r, err := ex.EvalSha(ctx, sha, keys, args...).Result()
		result = r
		return err
	})
	return result, err
}

// tryAcquire attempts to set resource to token with the given ttl, subject
// to allowNew. It returns true only on an unambiguous grant; any error
// (including redis.Nil, meaning the branch was not taken, and any
// connection failure) is treated as a non-grant, per the spec's open
// question on partial observation: a post-commit network failure still
// counts as zero here and is reconciled by the coordinator's release
// fan-out, never inferred as a success.
func (i *Instance) tryAcquire(ctx context.Context, resource, token string, ttl time.Duration, allowNew bool) bool {
	allow := "no"
	if allowNew {
		allow = "yes"
	}
	_, err := i.evalSha(ctx, kindLock, []string{resource}, token, strconv.FormatInt(ttl.Milliseconds(), 10), allow)
	return err == nil
}

// release deletes resource iff it still holds token. All errors are
// swallowed: release is best-effort, and a server that is unreachable now
// will drop the stale key on TTL expiry regardless.
func (i *Instance) release(ctx context.Context, resource, token string) {
	_, _ = i.evalSha(ctx, kindUnlock, []string{resource}, token)
}

// ttlReading is the result of a successful readTTL.
type ttlReading struct {
	Value string
	PTTL  time.Duration
}

// readTTL reads the current value and remaining TTL of resource atomically.
// It reports ok=false if the key is absent or the call failed for any
// reason (connection failure, script error); the coordinator's quorum
// introspection treats a dropped response as neutral, not disqualifying.
func (i *Instance) readTTL(ctx context.Context, resource string) (ttlReading, bool) {
	res, err := i.evalSha(ctx, kindPTTL, []string{resource})
	if err != nil {
		return ttlReading{}, false
	}
	arr, ok := res.([]interface{})
	if !ok || len(arr) != 2 || arr[0] == nil {
		return ttlReading{}, false
	}
	value, ok := arr[0].(string)
	if !ok {
		return ttlReading{}, false
	}
	pttlMs, err := toInt64(arr[1])
	if err != nil || pttlMs < 0 {
		return ttlReading{}, false
	}
	return ttlReading{Value: value, PTTL: time.Duration(pttlMs) * time.Millisecond}, true
}

func toInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case string:
		return strconv.ParseInt(n, 10, 64)
	default:
		return 0, errors.New("redlock: unexpected reply type")
	}
}
