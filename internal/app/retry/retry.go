// Package retry runs an operation a bounded number of times with a backoff
// policy between attempts.
package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Backoff returns the wait before the attempt that follows attempt (0-based)
type Backoff func(attempt int) time.Duration

// Policy bounds a retry loop
type Policy struct {
	MaxAttempts int
	Backoff     Backoff
	// Retryable decides whether an error is worth another attempt.
	// Nil retries everything except Permanent errors.
	Retryable func(error) bool
}

// LinearBackoff waits initial, initial+step, initial+2*step, ...
func LinearBackoff(initial, step time.Duration) Backoff {
	return func(attempt int) time.Duration {
		return initial + time.Duration(attempt)*step
	}
}

// ExponentialBackoff multiplies the wait after every attempt, capped at max
func ExponentialBackoff(initial, max time.Duration, multiplier float64) Backoff {
	return func(attempt int) time.Duration {
		wait := float64(initial)
		for i := 0; i < attempt; i++ {
			wait *= multiplier
			if max > 0 && time.Duration(wait) >= max {
				return max
			}
		}
		return time.Duration(wait)
	}
}

type permanentError struct {
	err error
}

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent marks err so that Do stops immediately
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// StatusError is a non-2xx HTTP response seen inside a retried call
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Body)
}

// IsRetryableStatus reports whether an HTTP status is worth another attempt
func IsRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// IsTransient treats throttling, 5xx and network errors as retryable
func IsTransient(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return IsRetryableStatus(se.StatusCode)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// Do calls fn until it succeeds, the attempts run out, the error is not
// retryable, or ctx is done.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context, attempt int) (T, error)) (T, error) {
	var zero T
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn(ctx, attempt)
		if err == nil {
			return result, nil
		}
		lastErr = err

		var perm *permanentError
		if errors.As(err, &perm) {
			return zero, perm.err
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return zero, err
		}
		if attempt == attempts-1 {
			break
		}

		var wait time.Duration
		if p.Backoff != nil {
			wait = p.Backoff(attempt)
		}
		if wait <= 0 {
			continue
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	return zero, fmt.Errorf("gave up after %d attempts: %w", attempts, lastErr)
}
