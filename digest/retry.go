package digest

import (
	"context"
	"time"
)

// DefaultRetryDelays returns the backoff delays between attempts of a
// model call: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// retry calls fn until it succeeds, waiting delays[i] after the i-th
// failure. It gives up after len(delays)+1 attempts and returns the last
// error. onRetry, if set, is called before each wait.
func retry[T any](ctx context.Context, delays []time.Duration, fn func(context.Context) (T, error), onRetry func(attempt int, err error)) (T, error) {
	var (
		zero    T
		lastErr error
	)
	for attempt := 0; attempt <= len(delays); attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if attempt == len(delays) {
			break
		}
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		if onRetry != nil {
			onRetry(attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}
	return zero, lastErr
}
