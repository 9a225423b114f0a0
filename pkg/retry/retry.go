package retry

import (
	"context"
	"time"

	"github.com/shuldan/ioc/pkg/errors"
)

var newRetryCode = errors.WithPrefix("RETRY")

var ErrAttemptsExhausted = newRetryCode().New("gave up on {{.operation}} after {{.attempts}} attempts")

// Do calls fn until it succeeds, ctx is done, or attempts calls have failed.
// The last error is kept as the cause.
func Do(ctx context.Context, operation string, attempts int, backoff Backoff, fn func(ctx context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}
	if backoff == nil {
		backoff = None
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt == attempts-1 {
			break
		}

		timer := time.NewTimer(backoff.Delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ErrAttemptsExhausted.
				WithDetail("operation", operation).
				WithDetail("attempts", attempt+1).
				WithCause(errors.Join(err, ctx.Err()))
		case <-timer.C:
		}
	}
	return ErrAttemptsExhausted.
		WithDetail("operation", operation).
		WithDetail("attempts", attempts).
		WithCause(err)
}
