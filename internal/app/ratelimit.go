package app

import (
	"sync"
	"time"
)

//go:generate mockgen -source=ratelimit.go -destination=mocks/mock_limiter.go -package=mocks Limiter

// Limiter is the consume/deny contract of a rate limiter.
type Limiter interface {
	Allow(key string) bool
}

// sweepEvery controls how often idle keys are dropped from the history.
const sweepEvery = 1024

// SlidingWindowLimiter allows at most limit operations per interval per key.
type SlidingWindowLimiter struct {
	mu       sync.Mutex
	history  map[string][]time.Time
	limit    int
	interval time.Duration
	calls    int
	now      func() time.Time
}

// NewSlidingWindowLimiter returns a limiter; a non-positive limit disables it.
func NewSlidingWindowLimiter(limit int, interval time.Duration) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		history:  make(map[string][]time.Time),
		limit:    limit,
		interval: interval,
		now:      time.Now,
	}
}

func (rl *SlidingWindowLimiter) Allow(key string) bool {
	if rl.limit <= 0 {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	windowStart := now.Add(-rl.interval)

	rl.calls++
	if rl.calls%sweepEvery == 0 {
		rl.sweep(windowStart)
	}

	fresh := prune(rl.history[key], windowStart)
	if len(fresh) >= rl.limit {
		rl.history[key] = fresh
		return false
	}

	rl.history[key] = append(fresh, now)
	return true
}

func (rl *SlidingWindowLimiter) sweep(windowStart time.Time) {
	for key, attempts := range rl.history {
		if len(prune(attempts, windowStart)) == 0 {
			delete(rl.history, key)
		}
	}
}

// prune drops attempts at or before windowStart; attempts are in ascending order.
func prune(attempts []time.Time, windowStart time.Time) []time.Time {
	i := 0
	for i < len(attempts) && !attempts[i].After(windowStart) {
		i++
	}
	if i == 0 {
		return attempts
	}
	return append(attempts[:0:0], attempts[i:]...)
}
