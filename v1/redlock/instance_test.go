package redlock

import (
	"context"
	"testing"
	"time"
)

func TestInstanceTryAcquireDenyOnConnectionFailure(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t, ctx)
	s.close() // server gone, subsequent calls must fail closed

	if ok := s.inst.tryAcquire(ctx, "r", "tok", time.Second, true); ok {
		t.Fatal("expected tryAcquire to deny on connection failure")
	}
}

func TestInstanceReleaseSwallowsErrors(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t, ctx)
	s.close()

	// Must not panic and must not block; errors are swallowed by design.
	s.inst.release(ctx, "r", "tok")
}

func TestInstanceReadTTLMissingKey(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t, ctx)
	defer s.close()

	if _, ok := s.inst.readTTL(ctx, "missing"); ok {
		t.Fatal("expected readTTL to report absent key")
	}
}

func TestInstanceReadTTLReflectsGrant(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t, ctx)
	defer s.close()

	if ok := s.inst.tryAcquire(ctx, "r", "tok", time.Second, true); !ok {
		t.Fatal("tryAcquire should succeed on a fresh key")
	}
	reading, ok := s.inst.readTTL(ctx, "r")
	if !ok {
		t.Fatal("expected readTTL to find the granted key")
	}
	if reading.Value != "tok" {
		t.Fatalf("unexpected value: %s", reading.Value)
	}
	if reading.PTTL <= 0 || reading.PTTL > time.Second {
		t.Fatalf("pttl out of expected bounds: %v", reading.PTTL)
	}
}

func TestInstanceTryAcquireExtendRequiresMatchingToken(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t, ctx)
	defer s.close()

	if ok := s.inst.tryAcquire(ctx, "r", "tok-a", time.Second, true); !ok {
		t.Fatal("initial acquire should succeed")
	}
	// A different token cannot "extend" onto someone else's key.
	if ok := s.inst.tryAcquire(ctx, "r", "tok-b", time.Second, false); ok {
		t.Fatal("extend with foreign token must be denied")
	}
	// The owning token can extend even with allowNew=false.
	if ok := s.inst.tryAcquire(ctx, "r", "tok-a", 2*time.Second, false); !ok {
		t.Fatal("extend with matching token must succeed")
	}
}

func TestInstanceTryAcquireDeniesFreshWhenAllowNewFalseAndAbsent(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t, ctx)
	defer s.close()

	if ok := s.inst.tryAcquire(ctx, "r", "tok", time.Second, false); ok {
		t.Fatal("allowNew=false must deny creating a fresh key")
	}
}
