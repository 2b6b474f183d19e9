package sazito

import (
	"net/http"
	"time"

	"github.com/Sazito/client-sdk/internal/backoff"
)

// RetryPolicy decides whether a finished attempt is retried. attempt counts
// the retries already made; limit is the effective retry count for the call.
type RetryPolicy interface {
	ShouldRetry(resp *http.Response, err error, attempt, limit int) (time.Duration, bool)
}

// LinearRetryPolicy retries 5xx responses only, waiting delay * n before
// retry n. Transport errors and timeouts are never retried.
type LinearRetryPolicy struct {
	calc *backoff.Calculator
}

// NewLinearRetryPolicy returns the stock policy. jitter > 0 adds up to that
// fraction of each delay at random.
func NewLinearRetryPolicy(delay time.Duration, jitter float64) *LinearRetryPolicy {
	calc := backoff.Linear(delay)
	if jitter > 0 {
		calc = backoff.LinearJitter(delay, jitter)
	}
	return &LinearRetryPolicy{calc: calc}
}

// ShouldRetry implements the RetryPolicy interface.
func (p *LinearRetryPolicy) ShouldRetry(resp *http.Response, err error, attempt, limit int) (time.Duration, bool) {
	if err != nil || resp == nil {
		return 0, false
	}
	if !IsRetryableStatus(resp.StatusCode) || attempt >= limit {
		return 0, false
	}
	return p.calc.Delay(attempt + 1), true
}

// IsRetryableStatus reports whether status is in the 5xx range.
func IsRetryableStatus(status int) bool {
	return status >= http.StatusInternalServerError && status < 600
}
