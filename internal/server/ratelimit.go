package server

import (
	"sync"
	"time"

	"github.com/lawnchairsociety/gowdata/internal/config"
)

// InvalidRequestLimiter locks out addresses that keep sending malformed or
// unanswerable requests. Each lockout doubles the previous one up to a cap.
type InvalidRequestLimiter struct {
	mu          sync.Mutex
	offenders   map[string]*offender
	maxInvalid  int
	lockout     time.Duration
	maxLockout  time.Duration
	now         func() time.Time
	stopCleanup chan struct{}
	stopOnce    sync.Once
}

type offender struct {
	invalid     int
	lockedUntil time.Time
	lockouts    int
	lastSeen    time.Time
}

func NewInvalidRequestLimiter(cfg config.RateLimitConfig) *InvalidRequestLimiter {
	rl := newInvalidRequestLimiter(cfg, time.Now)
	go rl.cleanupLoop(5 * time.Minute)
	return rl
}

func newInvalidRequestLimiter(cfg config.RateLimitConfig, now func() time.Time) *InvalidRequestLimiter {
	rl := &InvalidRequestLimiter{
		offenders:   make(map[string]*offender),
		maxInvalid:  cfg.MaxInvalid,
		lockout:     time.Duration(cfg.LockoutSeconds) * time.Second,
		maxLockout:  time.Duration(cfg.MaxLockoutSeconds) * time.Second,
		now:         now,
		stopCleanup: make(chan struct{}),
	}
	if rl.maxInvalid <= 0 {
		rl.maxInvalid = 10
	}
	if rl.lockout <= 0 {
		rl.lockout = 30 * time.Second
	}
	if rl.maxLockout < rl.lockout {
		rl.maxLockout = max(rl.lockout, 300*time.Second)
	}
	return rl
}

// Stop ends the cleanup goroutine. Safe to call more than once.
func (rl *InvalidRequestLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCleanup) })
}

// IsLocked reports whether ip is locked out and for how much longer.
func (rl *InvalidRequestLimiter) IsLocked(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	o, ok := rl.offenders[ip]
	if !ok {
		return false, 0
	}
	if now := rl.now(); now.Before(o.lockedUntil) {
		return true, o.lockedUntil.Sub(now)
	}
	return false, 0
}

// Penalize records an invalid request. It returns true with the lockout
// duration when ip is, or just became, locked out.
func (rl *InvalidRequestLimiter) Penalize(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	o, ok := rl.offenders[ip]
	if !ok {
		o = &offender{}
		rl.offenders[ip] = o
	}
	o.lastSeen = now

	if now.Before(o.lockedUntil) {
		return true, o.lockedUntil.Sub(now)
	}

	o.invalid++
	if o.invalid < rl.maxInvalid {
		return false, 0
	}

	o.lockouts++
	d := rl.lockout
	for i := 1; i < o.lockouts && d < rl.maxLockout; i++ {
		d *= 2
	}
	d = min(d, rl.maxLockout)
	o.lockedUntil = now.Add(d)
	o.invalid = 0
	return true, d
}

// Forgive clears the invalid count of ip after a valid request. Lockout
// history is kept so repeat offenders still back off.
func (rl *InvalidRequestLimiter) Forgive(ip string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if o, ok := rl.offenders[ip]; ok {
		o.invalid = 0
	}
}

// Invalid returns the current invalid request count of ip.
func (rl *InvalidRequestLimiter) Invalid(ip string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if o, ok := rl.offenders[ip]; ok {
		return o.invalid
	}
	return 0
}

func (rl *InvalidRequestLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopCleanup:
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

// cleanup drops offenders that are unlocked and quiet for ten minutes.
func (rl *InvalidRequestLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-10 * time.Minute)
	for ip, o := range rl.offenders {
		if o.lockedUntil.Before(cutoff) && o.lastSeen.Before(cutoff) {
			delete(rl.offenders, ip)
		}
	}
}
