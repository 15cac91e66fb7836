package redlock

import (
	"context"
	"testing"
	"time"
)

func TestRemainingTTLForResourceReflectsGrant(t *testing.T) {
	ctx := context.Background()
	servers, c := newQuorum(t, ctx, 3)
	defer closeAll(servers)

	l, err := c.Lock(ctx, "r", 800*time.Millisecond)
	if err != nil {
		t.Fatalf("lock: %v", err)
	}

	info, ok := c.RemainingTTLForResource(ctx, "r")
	if !ok {
		t.Fatal("expected a quorum TTL reading")
	}
	if info.Value != l.Value {
		t.Fatalf("unexpected authoritative value: %s", info.Value)
	}
	if info.TTL <= 0 || info.TTL > 800*time.Millisecond {
		t.Fatalf("ttl out of expected bounds: %v", info.TTL)
	}
}

func TestRemainingTTLForResourceNoneWhenUnlocked(t *testing.T) {
	ctx := context.Background()
	servers, c := newQuorum(t, ctx, 3)
	defer closeAll(servers)

	if _, ok := c.RemainingTTLForResource(ctx, "never-locked"); ok {
		t.Fatal("expected no quorum reading for an unlocked resource")
	}
}

func TestRemainingTTLForLockRejectsForeignToken(t *testing.T) {
	ctx := context.Background()
	servers, c := newQuorum(t, ctx, 3)
	defer closeAll(servers)

	l, err := c.Lock(ctx, "r", time.Second)
	if err != nil {
		t.Fatalf("lock: %v", err)
	}

	foreign := &Lock{Resource: "r", Value: "not-the-token"}
	if _, ok := c.RemainingTTLForLock(ctx, foreign); ok {
		t.Fatal("expected foreign token to be rejected")
	}
	if _, ok := c.RemainingTTLForLock(ctx, l); !ok {
		t.Fatal("expected the real token to be accepted")
	}
}

func TestLockedQAndValidQ(t *testing.T) {
	ctx := context.Background()
	servers, c := newQuorum(t, ctx, 3)
	defer closeAll(servers)

	if c.LockedQ(ctx, "r") {
		t.Fatal("expected r to be unlocked initially")
	}

	l, err := c.Lock(ctx, "r", time.Second)
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	if !c.LockedQ(ctx, "r") {
		t.Fatal("expected r to be locked")
	}
	if !c.ValidQ(ctx, l) {
		t.Fatal("expected l to be valid")
	}

	c.Unlock(ctx, l)
	if c.LockedQ(ctx, "r") {
		t.Fatal("expected r to be unlocked after Unlock")
	}
	if c.ValidQ(ctx, l) {
		t.Fatal("expected l to be invalid after Unlock")
	}
}

func TestRemainingTTLQuorumRequiresMajorityAgreement(t *testing.T) {
	ctx := context.Background()
	servers, c := newQuorum(t, ctx, 3)
	defer closeAll(servers)

	// Simulate disagreement: two servers hold token A, one holds token B.
	// Only a quorum-sized group counts as authoritative.
	for _, s := range servers[:2] {
		if ok := s.inst.tryAcquire(ctx, "r", "tok-a", time.Second, true); !ok {
			t.Fatal("seed acquire failed")
		}
	}
	if ok := servers[2].inst.tryAcquire(ctx, "r", "tok-b", time.Second, true); !ok {
		t.Fatal("seed acquire failed")
	}

	info, ok := c.RemainingTTLForResource(ctx, "r")
	if !ok {
		t.Fatal("expected quorum on the majority token")
	}
	if info.Value != "tok-a" {
		t.Fatalf("expected majority token tok-a, got %s", info.Value)
	}
}
