package retry

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy(attempts int) Policy {
	return Policy{MaxAttempts: attempts, Backoff: LinearBackoff(time.Millisecond, time.Millisecond)}
}

func TestDoSuccessFirstAttempt(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), fastPolicy(3), func(ctx context.Context, attempt int) (string, error) {
		calls++
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 1, calls)
}

func TestDoRetryThenSuccess(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), fastPolicy(5), func(ctx context.Context, attempt int) (int, error) {
		calls++
		if attempt < 2 {
			return 0, errors.New("not ready")
		}
		return attempt, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, got)
	assert.Equal(t, 3, calls)
}

func TestDoExhausted(t *testing.T) {
	sentinel := errors.New("still empty")
	calls := 0
	_, err := Do(context.Background(), fastPolicy(4), func(ctx context.Context, attempt int) (int, error) {
		calls++
		return 0, sentinel
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), "gave up after 4 attempts")
	assert.Equal(t, 4, calls)
}

func TestDoPermanentStops(t *testing.T) {
	sentinel := errors.New("bad request")
	calls := 0
	_, err := Do(context.Background(), fastPolicy(5), func(ctx context.Context, attempt int) (int, error) {
		calls++
		return 0, Permanent(sentinel)
	})

	assert.Equal(t, sentinel, err)
	assert.Equal(t, 1, calls)
}

func TestDoNonRetryable(t *testing.T) {
	p := fastPolicy(5)
	p.Retryable = IsTransient
	calls := 0
	_, err := Do(context.Background(), p, func(ctx context.Context, attempt int) (int, error) {
		calls++
		return 0, &StatusError{StatusCode: 404, Body: "missing"}
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoContextCanceledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := Policy{MaxAttempts: 3, Backoff: LinearBackoff(time.Hour, 0)}

	_, err := Do(ctx, p, func(ctx context.Context, attempt int) (int, error) {
		cancel()
		return 0, errors.New("retry me")
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestBackoffPolicies(t *testing.T) {
	linear := LinearBackoff(1000*time.Millisecond, 500*time.Millisecond)
	assert.Equal(t, 1000*time.Millisecond, linear(0))
	assert.Equal(t, 1500*time.Millisecond, linear(1))
	assert.Equal(t, 5500*time.Millisecond, linear(9))

	exp := ExponentialBackoff(100*time.Millisecond, time.Second, 2)
	assert.Equal(t, 100*time.Millisecond, exp(0))
	assert.Equal(t, 400*time.Millisecond, exp(2))
	assert.Equal(t, time.Second, exp(10))
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"http 429", &StatusError{StatusCode: 429}, true},
		{"http 503", &StatusError{StatusCode: 503}, true},
		{"http 400", &StatusError{StatusCode: 400}, false},
		{"regular error", errors.New("something"), false},
		{"timeout", &net.DNSError{IsTimeout: true}, true},
		{"op error", &net.OpError{Op: "dial", Err: errors.New("refused")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}
