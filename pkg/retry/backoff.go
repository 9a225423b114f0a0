package retry

import "time"

// Backoff returns the pause before the attempt following the given one,
// counting from zero.
type Backoff interface {
	Delay(attempt int) time.Duration
}

type BackoffFunc func(attempt int) time.Duration

func (f BackoffFunc) Delay(attempt int) time.Duration { return f(attempt) }

// None retries immediately.
var None Backoff = Constant(0)

func Constant(d time.Duration) Backoff {
	return BackoffFunc(func(int) time.Duration { return d })
}

// Exponential starts at base, doubles per attempt and never exceeds limit.
func Exponential(base, limit time.Duration) Backoff {
	return BackoffFunc(func(attempt int) time.Duration {
		delay := base
		for i := 0; i < attempt && delay < limit; i++ {
			delay *= 2
		}
		return min(delay, limit)
	})
}
