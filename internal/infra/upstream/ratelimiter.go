package upstream

import (
	"context"
	"sync"
	"time"

	"availability-engine/internal/pkg/clock"
)

// RateLimitBudget is a point-in-time view of the limiter state.
type RateLimitBudget struct {
	WindowStart  time.Time
	RequestCount int
	MaxPerWindow int
	LastCallAt   time.Time
	MinDelay     time.Duration
}

// RateLimiter is shared by every call made on one upstream account. It
// enforces a minimum gap between consecutive calls and a sliding-window
// ceiling. Slots are handed out in arrival order, so callers for different
// properties queue behind the same budget.
type RateLimiter struct {
	mu          sync.Mutex
	clock       clock.Clock
	minDelay    time.Duration
	maxPerWin   int
	window      time.Duration
	calls       []time.Time // reserved slots, ascending
	lastCall    time.Time
	pausedUntil time.Time
}

func NewRateLimiter(clk clock.Clock, minDelay time.Duration, maxPerWindow int, window time.Duration) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		clock:     clk,
		minDelay:  minDelay,
		maxPerWin: maxPerWindow,
		window:    window,
	}
}

// Wait blocks until the caller may issue one upstream request. A slot that
// was reserved is consumed even if ctx ends first.
func (l *RateLimiter) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	delay := l.reserve().Sub(l.clock.Now())
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Pause holds back every slot until the given instant, used when upstream
// reports throttling with a reset hint.
func (l *RateLimiter) Pause(until time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if until.After(l.pausedUntil) {
		l.pausedUntil = until
	}
}

func (l *RateLimiter) Budget() RateLimitBudget {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	l.prune(now)

	start := now
	if len(l.calls) > 0 && l.calls[0].Before(now) {
		start = l.calls[0]
	}

	return RateLimitBudget{
		WindowStart:  start,
		RequestCount: len(l.calls),
		MaxPerWindow: l.maxPerWin,
		LastCallAt:   l.lastCall,
		MinDelay:     l.minDelay,
	}
}

func (l *RateLimiter) reserve() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()

	slot := l.clock.Now()
	if !l.lastCall.IsZero() {
		if next := l.lastCall.Add(l.minDelay); next.After(slot) {
			slot = next
		}
	}
	if l.pausedUntil.After(slot) {
		slot = l.pausedUntil
	}

	if l.maxPerWin > 0 {
		l.prune(slot)
		for len(l.calls) >= l.maxPerWin {
			// slot must wait for the oldest call that still keeps the window full
			if free := l.calls[len(l.calls)-l.maxPerWin].Add(l.window); free.After(slot) {
				slot = free
			}
			l.prune(slot)
		}
	}

	l.calls = append(l.calls, slot)
	l.lastCall = slot
	return slot
}

// prune drops calls that have left the window ending at at.
func (l *RateLimiter) prune(at time.Time) {
	cutoff := at.Add(-l.window)
	i := 0
	for i < len(l.calls) && !l.calls[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.calls = append(l.calls[:0], l.calls[i:]...)
	}
}
