// Package retry holds the backoff used by the run controller.
//
// A request failure for one user never retries that user. Instead the
// controller escalates a single run-wide Doubling backoff and waits before
// moving on:
//
//	backoff := retry.NewDoubling(5*time.Second, 0) // baseline 2.5s
//	delay := backoff.Escalate()                    // 5s, then 10s, 20s...
//	if err := retry.Wait(ctx, delay); err != nil {
//		return err // interrupted
//	}
package retry
