package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/jpillora/backoff"
	"go.uber.org/zap"
)

// newConnectBackoff returns the delay schedule between connection attempts
func newConnectBackoff() *backoff.Backoff {
	return &backoff.Backoff{
		Min:    200 * time.Millisecond,
		Max:    5 * time.Second,
		Factor: 2,
		Jitter: true,
	}
}

// connectWithRetry calls connect up to attempts times, sleeping with
// exponential backoff in between. It gives up early when ctx is done.
func connectWithRetry[T any](ctx context.Context, l *zap.Logger, what string, attempts int, b *backoff.Backoff, connect func(context.Context) (T, error)) (T, error) {
	var zero T
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		conn, err := connect(ctx)
		if err == nil {
			return conn, nil
		}
		lastErr = err

		if attempt == attempts {
			break
		}

		wait := b.Duration()
		l.Warn("connection attempt failed, retrying",
			zap.String("target", what),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Duration("retry_in", wait),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("%s: %w (last error: %v)", what, ctx.Err(), lastErr)
		case <-time.After(wait):
		}
	}

	return zero, fmt.Errorf("%s unreachable after %d attempts: %w", what, attempts, lastErr)
}
