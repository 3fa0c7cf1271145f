package pipeline

import (
	"context"
	"time"
)

// withRetry calls fn until it succeeds, waiting delays[i] before attempt
// i+2. onRetry, if set, is called before each wait. The last error is
// returned when attempts run out; ctx ending stops the loop early.
func withRetry(ctx context.Context, delays []time.Duration, fn func() error, onRetry func(attempt int, err error)) error {
	var lastErr error
	for attempt := 0; attempt <= len(delays); attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == len(delays) {
			break
		}
		if ctx.Err() != nil {
			return lastErr
		}
		if onRetry != nil {
			onRetry(attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return lastErr
		case <-time.After(delays[attempt]):
		}
	}
	return lastErr
}

// BackoffDelays returns n delays doubling from one second.
func BackoffDelays(n int) []time.Duration {
	delays := make([]time.Duration, n)
	d := time.Second
	for i := range delays {
		delays[i] = d
		d *= 2
	}
	return delays
}
