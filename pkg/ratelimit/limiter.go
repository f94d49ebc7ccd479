package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter paces requests to the upstream API
type Limiter interface {
	// Wait blocks for the pacing interval or until ctx is done
	Wait(ctx context.Context) error
}

// Interval is a fixed post-request sleep. Every call waits the full interval,
// regardless of how long ago the previous call returned.
type Interval struct {
	period time.Duration
	mu     sync.Mutex
	waits  int
	slept  time.Duration
}

// NewInterval creates a pacer sleeping period on every Wait
func NewInterval(period time.Duration) *Interval {
	return &Interval{period: period}
}

// Wait sleeps one interval. A non-positive interval only checks ctx.
func (iv *Interval) Wait(ctx context.Context) error {
	iv.mu.Lock()
	iv.waits++
	iv.mu.Unlock()

	if iv.period <= 0 {
		return ctx.Err()
	}

	start := time.Now()
	timer := time.NewTimer(iv.period)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		iv.addSlept(time.Since(start))
		return ctx.Err()
	}
	iv.addSlept(time.Since(start))
	return nil
}

func (iv *Interval) addSlept(d time.Duration) {
	iv.mu.Lock()
	iv.slept += d
	iv.mu.Unlock()
}

// Period returns the configured interval
func (iv *Interval) Period() time.Duration {
	return iv.period
}

// Stats returns the number of waits and the total time spent sleeping
func (iv *Interval) Stats() (waits int, slept time.Duration) {
	iv.mu.Lock()
	defer iv.mu.Unlock()
	return iv.waits, iv.slept
}
