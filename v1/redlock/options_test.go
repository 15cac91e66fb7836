package redlock

import (
	"testing"
	"time"
)

func TestConstantDelay(t *testing.T) {
	d := ConstantDelay(200 * time.Millisecond)
	for attempt := 0; attempt < 5; attempt++ {
		if got := d(attempt); got != 200*time.Millisecond {
			t.Fatalf("attempt %d: got %v, want 200ms", attempt, got)
		}
	}
}

func TestExponentialDelayCapsAtMax(t *testing.T) {
	d := ExponentialDelay(10*time.Millisecond, 100*time.Millisecond)
	if got := d(0); got != 10*time.Millisecond {
		t.Fatalf("attempt 0: got %v, want 10ms", got)
	}
	if got := d(1); got != 20*time.Millisecond {
		t.Fatalf("attempt 1: got %v, want 20ms", got)
	}
	if got := d(10); got != 100*time.Millisecond {
		t.Fatalf("attempt 10: got %v, want cap 100ms", got)
	}
}

func TestJitterBounds(t *testing.T) {
	for i := 0; i < 50; i++ {
		got := jitter(50 * time.Millisecond)
		if got < 0 || got >= 50*time.Millisecond {
			t.Fatalf("jitter out of bounds: %v", got)
		}
	}
	if got := jitter(0); got != 0 {
		t.Fatalf("expected zero jitter for n<=0, got %v", got)
	}
}

func TestDeprecatedExtendAliasesFoldIn(t *testing.T) {
	SuppressDeprecationWarnings.Store(true)
	defer SuppressDeprecationWarnings.Store(false)

	req := lockRequest{}
	WithExtendOnlyIfLife(true)(&req)
	if !req.extendOnlyIfLocked {
		t.Fatal("expected deprecated alias to fold into extendOnlyIfLocked")
	}

	req2 := lockRequest{}
	WithExtendLife(true)(&req2)
	if !req2.extendOnlyIfLocked {
		t.Fatal("expected WithExtendLife to fold into extendOnlyIfLocked")
	}
}

func TestDriftFormula(t *testing.T) {
	cases := []struct {
		ttl  time.Duration
		want time.Duration
	}{
		{time.Second, 12 * time.Millisecond},
		{0, 2 * time.Millisecond},
		{2 * time.Second, 22 * time.Millisecond},
	}
	for _, c := range cases {
		if got := drift(c.ttl); got != c.want {
			t.Fatalf("drift(%v) = %v, want %v", c.ttl, got, c.want)
		}
	}
}
