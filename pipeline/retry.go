package pipeline

import (
	"context"
	"strings"
	"time"
)

// Classifier decides whether a stage error is transient and worth
// another attempt. Fatal errors propagate immediately.
type Classifier func(err error) bool

// retryablePatterns are the transient failure signals recognized by the
// default classifier: network flakes, timeouts, rate limiting and
// gateway errors.
var retryablePatterns = []string{
	"network",
	"timeout",
	"rate limit",
	"503",
	"502",
}

// DefaultClassifier substring-matches the error message against the
// transient patterns, case-insensitively.
func DefaultClassifier(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, pattern := range retryablePatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// RetryPolicy executes an operation with bounded linear-backoff retry
// for transient failures. Attempt n waits n*BaseDelay before retrying;
// there is no jitter and no shared state between call sites.
type RetryPolicy struct {
	MaxAttempts int           // total invocations, not re-invocations
	BaseDelay   time.Duration // backoff unit; attempt n waits n*BaseDelay
	Retryable   Classifier    // nil means DefaultClassifier
}

// DefaultRetryPolicy returns the standard policy: 3 attempts, 1s base
// delay, substring classification.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		Retryable:   DefaultClassifier,
	}
}

// Do invokes op until it succeeds, fails fatally, or MaxAttempts is
// exhausted. The last error is returned unchanged so callers see the
// stage function's own message. The backoff sleep honors ctx.
func (p RetryPolicy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	classify := p.Retryable
	if classify == nil {
		classify = DefaultClassifier
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if !classify(lastErr) {
			return lastErr // fatal, propagate immediately
		}
		if attempt == maxAttempts {
			break
		}
		// Linear backoff: attempt 1 waits BaseDelay, attempt 2 waits
		// 2*BaseDelay, and so on.
		delay := time.Duration(attempt) * p.BaseDelay
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}
