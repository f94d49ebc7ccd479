package retry

import (
	"context"
	"time"
)

// Doubling is the run-wide backoff used between users after a request failure.
// It starts at half of the initial delay and doubles on every escalation.
// It is never reset during a run. The run controller drives it from a single
// goroutine, so it is not safe for concurrent use.
type Doubling struct {
	initial time.Duration
	// maxDelay caps the delay; zero means uncapped
	maxDelay time.Duration
	current  time.Duration
}

// NewDoubling returns a backoff whose baseline is initial/2
func NewDoubling(initial, maxDelay time.Duration) *Doubling {
	d := &Doubling{initial: initial, maxDelay: maxDelay}
	d.Reset()
	return d
}

// Current returns the delay the next wait would use without escalating
func (d *Doubling) Current() time.Duration {
	return d.current
}

// Escalate doubles the delay and returns the new value
func (d *Doubling) Escalate() time.Duration {
	next := d.current * 2
	if next < d.current {
		// overflow
		next = time.Duration(1<<63 - 1)
	}
	d.current = d.capped(next)
	return d.current
}

// Reset puts the delay back to its baseline
func (d *Doubling) Reset() {
	d.current = d.capped(d.initial / 2)
}

func (d *Doubling) capped(delay time.Duration) time.Duration {
	if d.maxDelay > 0 && delay > d.maxDelay {
		return d.maxDelay
	}
	return delay
}

// Wait waits for the specified duration or until context is cancelled
func Wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
