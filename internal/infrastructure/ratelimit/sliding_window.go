package ratelimit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SlidingWindowLimiter throttles outbound calls per key with a sliding
// window. Acquire blocks until a slot opens or the context is cancelled;
// cancellation is the only way it fails.
type SlidingWindowLimiter struct {
	mu      sync.Mutex
	history map[string][]time.Time
	logger  *zap.Logger

	// now is swapped in tests
	now func() time.Time
}

// NewSlidingWindowLimiter creates a limiter
func NewSlidingWindowLimiter(logger *zap.Logger) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		history: make(map[string][]time.Time),
		logger:  logger,
		now:     time.Now,
	}
}

// Acquire blocks until the call for key fits inside the window, then records
// it. At most maxRequests calls are admitted per window. Waiting is an
// explicit loop: each pass either admits the call or sleeps until the oldest
// recorded call ages out of the window.
func (l *SlidingWindowLimiter) Acquire(ctx context.Context, key string, maxRequests int, window time.Duration) error {
	if maxRequests <= 0 || window <= 0 {
		return nil
	}

	for {
		wait, ok := l.tryAcquire(key, maxRequests, window)
		if ok {
			return nil
		}

		l.logger.Debug("rate limit reached, waiting",
			zap.String("key", key),
			zap.Duration("wait", wait))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// tryAcquire admits the call when the window has room. When full it returns
// how long until the oldest entry expires.
func (l *SlidingWindowLimiter) tryAcquire(key string, maxRequests int, window time.Duration) (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-window)

	recent := l.history[key][:0]
	for _, t := range l.history[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) < maxRequests {
		l.history[key] = append(recent, now)
		return 0, true
	}

	l.history[key] = recent
	wait := recent[0].Sub(cutoff)
	if wait <= 0 {
		wait = time.Millisecond
	}
	return wait, false
}

// InFlight returns how many calls are currently recorded inside the window
// for key. Used by status endpoints.
func (l *SlidingWindowLimiter) InFlight(key string, window time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-window)
	count := 0
	for _, t := range l.history[key] {
		if t.After(cutoff) {
			count++
		}
	}
	return count
}
