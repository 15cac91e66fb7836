package redlock

import (
	"context"

	redis "github.com/redis/go-redis/v9"
)

// Executor is the minimal command surface an Instance Adapter needs: enough
// of the Redis scripting API to load and invoke the three scripted
// primitives. *redis.Client satisfies it directly.
type Executor interface {
	EvalSha(ctx context.Context, sha1 string, keys []string, args ...interface{}) *redis.Cmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
	ScriptLoad(ctx context.Context, script string) *redis.StringCmd
}

// Pool exposes scoped checkout of an Executor: fn runs with a connection
// bound for its duration, and the connection is released on every exit path
// once fn returns. A bare *redis.Client is already a thread-safe pool of
// connections, so wrapping it only needs to hand the client itself to fn;
// a genuine pool-like type (e.g. one that checks a single physical
// connection out of a limited set) can implement Pool directly to enforce
// that discipline.
type Pool interface {
	Checkout(ctx context.Context, fn func(Executor) error) error
}

// poolOfOne adapts a single Executor (typically a *redis.Client, which
// already pools internally) into the Pool interface, preserving the uniform
// checkout discipline on every call site without adding real pooling.
type poolOfOne struct {
	exec Executor
}

func (p poolOfOne) Checkout(ctx context.Context, fn func(Executor) error) error {
	return fn(p.exec)
}

// NewPool wraps a bare Executor (e.g. a *redis.Client) as a trivial
// pool-of-one, per the construction guidance in the package design notes:
// a pre-built bare connection is wrapped with a scoped checkout that simply
// yields itself.
func NewPool(exec Executor) Pool {
	return poolOfOne{exec: exec}
}
