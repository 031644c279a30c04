package server

import (
	"testing"
	"time"

	"github.com/lawnchairsociety/gowdata/internal/config"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func testLimiter(maxInvalid int) (*InvalidRequestLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 4, 18, 12, 0, 0, 0, time.UTC)}
	rl := newInvalidRequestLimiter(config.RateLimitConfig{
		MaxInvalid:        maxInvalid,
		LockoutSeconds:    10,
		MaxLockoutSeconds: 35,
	}, clock.now)
	return rl, clock
}

func TestInvalidRequestLimiter_Lockout(t *testing.T) {
	rl, clock := testLimiter(3)
	ip := "192.168.1.1"

	for i := 0; i < 2; i++ {
		if locked, _ := rl.Penalize(ip); locked {
			t.Fatalf("invalid request %d should not lock", i+1)
		}
	}
	locked, d := rl.Penalize(ip)
	if !locked || d != 10*time.Second {
		t.Fatalf("third invalid request = %v, %v; want locked for 10s", locked, d)
	}

	if locked, remaining := rl.IsLocked(ip); !locked || remaining != 10*time.Second {
		t.Errorf("IsLocked() = %v, %v", locked, remaining)
	}

	// Requests while locked report the remaining time without counting.
	clock.advance(4 * time.Second)
	if locked, remaining := rl.Penalize(ip); !locked || remaining != 6*time.Second {
		t.Errorf("Penalize() while locked = %v, %v", locked, remaining)
	}
	if got := rl.Invalid(ip); got != 0 {
		t.Errorf("Invalid() = %d while locked, want 0", got)
	}

	clock.advance(6 * time.Second)
	if locked, _ := rl.IsLocked(ip); locked {
		t.Error("lockout should have expired")
	}
}

func TestInvalidRequestLimiter_Backoff(t *testing.T) {
	rl, clock := testLimiter(1)
	ip := "10.0.0.1"

	want := []time.Duration{10 * time.Second, 20 * time.Second, 35 * time.Second, 35 * time.Second}
	for i, w := range want {
		locked, d := rl.Penalize(ip)
		if !locked || d != w {
			t.Errorf("lockout %d = %v, %v; want %v", i+1, locked, d, w)
		}
		clock.advance(d)
	}
}

func TestInvalidRequestLimiter_Forgive(t *testing.T) {
	rl, _ := testLimiter(3)
	ip := "10.0.0.2"

	rl.Penalize(ip)
	rl.Penalize(ip)
	rl.Forgive(ip)
	if got := rl.Invalid(ip); got != 0 {
		t.Errorf("Invalid() = %d after Forgive, want 0", got)
	}
	if locked, _ := rl.Penalize(ip); locked {
		t.Error("count should restart after Forgive")
	}
	rl.Forgive("unknown")
}

func TestInvalidRequestLimiter_Cleanup(t *testing.T) {
	rl, clock := testLimiter(1)
	rl.Penalize("10.0.0.3")
	rl.Penalize("10.0.0.4")

	clock.advance(5 * time.Minute)
	rl.Penalize("10.0.0.4") // still active

	clock.advance(6 * time.Minute)
	rl.cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.offenders["10.0.0.3"]; ok {
		t.Error("quiet offender should be removed")
	}
	if _, ok := rl.offenders["10.0.0.4"]; !ok {
		t.Error("recent offender should be kept")
	}
}

func TestInvalidRequestLimiter_Defaults(t *testing.T) {
	rl := newInvalidRequestLimiter(config.RateLimitConfig{}, time.Now)
	if rl.maxInvalid != 10 || rl.lockout != 30*time.Second || rl.maxLockout != 300*time.Second {
		t.Errorf("defaults = %d, %v, %v", rl.maxInvalid, rl.lockout, rl.maxLockout)
	}
}

func TestInvalidRequestLimiter_StopTwice(t *testing.T) {
	rl := NewInvalidRequestLimiter(config.RateLimitConfig{})
	rl.Stop()
	rl.Stop()
}
