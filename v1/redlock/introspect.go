package redlock

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// TTLInfo is the result of a successful quorum TTL introspection: the
// authoritative token and its remaining lifetime.
type TTLInfo struct {
	Value string
	TTL   time.Duration
}

// introspect implements the quorum TTL introspection protocol (spec
// §4.2.5): fan readTTL out to every instance, group surviving readings by
// value, and require the largest group to meet quorum before trusting it.
func (c *Coordinator) introspect(ctx context.Context, resource string) (TTLInfo, bool) {
	t0 := c.clock()

	readings := make([]ttlReading, len(c.instances))
	ok := make([]bool, len(c.instances))
	var g errgroup.Group
	for idx, inst := range c.instances {
		idx, inst := idx, inst
		g.Go(func() error {
			r, valid := inst.readTTL(ctx, resource)
			readings[idx] = r
			ok[idx] = valid
			return nil
		})
	}
	_ = g.Wait()

	elapsed := time.Duration(c.clock()-t0) * time.Millisecond

	byValue := make(map[string][]time.Duration)
	for i, valid := range ok {
		if !valid {
			continue
		}
		byValue[readings[i].Value] = append(byValue[readings[i].Value], readings[i].PTTL)
	}

	var authoritative string
	var ttls []time.Duration
	for value, group := range byValue {
		if len(group) > len(ttls) {
			authoritative = value
			ttls = group
		}
	}

	if len(ttls) < c.quorum {
		return TTLInfo{}, false
	}

	sort.Slice(ttls, func(i, j int) bool { return ttls[i] < ttls[j] })
	// The (|T|-quorum+1)-th order statistic (counting from 1, so index
	// |T|-quorum here): the smallest of the
	// top `quorum` entries, i.e. the largest m such that >= quorum servers
	// report a TTL of at least m.
	m := ttls[len(ttls)-c.quorum]

	return TTLInfo{Value: authoritative, TTL: m - elapsed - drift(m)}, true
}

// RemainingTTLForResource runs the quorum TTL introspection protocol and
// returns the TTL of whichever token is currently authoritative, or
// ok=false if no token is held by a quorum of instances.
func (c *Coordinator) RemainingTTLForResource(ctx context.Context, resource string) (TTLInfo, bool) {
	return c.introspect(ctx, resource)
}

// RemainingTTLForLock runs the quorum TTL introspection protocol and
// returns the authoritative TTL only if the authoritative token matches
// l.Value; otherwise ok=false.
func (c *Coordinator) RemainingTTLForLock(ctx context.Context, l *Lock) (time.Duration, bool) {
	info, ok := c.introspect(ctx, l.Resource)
	if !ok || info.Value != l.Value {
		return 0, false
	}
	return info.TTL, true
}

// LockedQ reports whether resource is currently held (by any token) on a
// quorum of instances, per RemainingTTLForResource.
func (c *Coordinator) LockedQ(ctx context.Context, resource string) bool {
	info, ok := c.RemainingTTLForResource(ctx, resource)
	return ok && info.TTL != 0
}

// ValidQ reports whether l is still held on a quorum of instances.
func (c *Coordinator) ValidQ(ctx context.Context, l *Lock) bool {
	ttl, ok := c.RemainingTTLForLock(ctx, l)
	return ok && ttl != 0
}
