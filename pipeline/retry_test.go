package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emostyz/marketing-sub014/errors"
)

func TestDefaultClassifierMatchesTransientSignals(t *testing.T) {
	retryable := []string{
		"network error",
		"request timeout",
		"upstream rate limit hit",
		"HTTP 503 Service Unavailable",
		"HTTP 502 Bad Gateway",
		"NETWORK unreachable", // case-insensitive
	}
	for _, msg := range retryable {
		assert.True(t, DefaultClassifier(errors.New(msg)), "%q should be retryable", msg)
	}

	fatal := []string{
		"Analysis failed",
		"invalid JSON in response",
		"HTTP 401 Unauthorized",
	}
	for _, msg := range fatal {
		assert.False(t, DefaultClassifier(errors.New(msg)), "%q should be fatal", msg)
	}

	assert.False(t, DefaultClassifier(nil))
}

func TestRetryBoundKFailuresThenSuccess(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}

	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls <= 2 {
			return errors.New("timeout talking to model")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryExhaustionReturnsLastErrorUnchanged(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}

	last := errors.New("network error #3")
	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls == 3 {
			return last
		}
		return errors.New("network error")
	})

	assert.Equal(t, 3, calls)
	assert.Same(t, last, err)
}

func TestRetryFatalErrorReturnsImmediately(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 5, BaseDelay: time.Millisecond}

	fatal := errors.New("schema validation failed")
	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return fatal
	})

	assert.Equal(t, 1, calls)
	assert.Same(t, fatal, err)
}

func TestRetryLinearBackoff(t *testing.T) {
	base := 20 * time.Millisecond
	p := RetryPolicy{MaxAttempts: 3, BaseDelay: base}

	start := time.Now()
	calls := 0
	_ = p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return errors.New("timeout")
	})
	elapsed := time.Since(start)

	assert.Equal(t, 3, calls)
	// attempt 1 waits base, attempt 2 waits 2*base: 3*base total
	assert.GreaterOrEqual(t, elapsed, 3*base)
}

func TestRetryHonorsContextDuringBackoff(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Hour}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	calls := 0
	err := p.Do(ctx, func(ctx context.Context) error {
		calls++
		return errors.New("network error")
	})

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetryCustomClassifier(t *testing.T) {
	sentinel := errors.New("flaky")
	p := RetryPolicy{
		MaxAttempts: 2,
		BaseDelay:   time.Millisecond,
		Retryable:   func(err error) bool { return errors.Is(err, sentinel) },
	}

	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return sentinel
	})

	assert.Equal(t, 2, calls)
	assert.Same(t, sentinel, err)
}

func TestRetryZeroAttemptsStillInvokesOnce(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 0, BaseDelay: time.Millisecond}

	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
