package timing

import (
	"context"
	"time"
)

// RetryUntilOk calls f until it succeeds and returns the successful result.
// It sleeps between attempts with exponential backoff: the first delay is
// base, doubling after each failure and capped at max. There is no attempt
// ceiling; during bootstrap the node blocks until the validator answers.
func RetryUntilOk[T any](base, max time.Duration, f func() (T, error)) T {
	delay := base
	for {
		v, err := f()
		if err == nil {
			return v
		}
		time.Sleep(delay)
		delay = nextDelay(delay, max)
	}
}

// RetryUntilOkCtx is RetryUntilOk with a way out: the context is checked
// while waiting between attempts, and cancellation aborts the loop with
// ctx.Err(). A call already in flight is not interrupted.
func RetryUntilOkCtx[T any](ctx context.Context, base, max time.Duration, f func() (T, error)) (T, error) {
	delay := base
	for {
		v, err := f()
		if err == nil {
			return v, nil
		}
		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case <-time.After(delay):
		}
		delay = nextDelay(delay, max)
	}
}

func nextDelay(delay, max time.Duration) time.Duration {
	delay *= 2
	if delay > max {
		delay = max
	}
	return delay
}
