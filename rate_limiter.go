package sazito

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter is a client-side token bucket applied before every transport
// attempt, retries included.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter allows rps requests per second with bursts of burst.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Allow checks if a request is allowed by the rate limiter
func (rl *RateLimiter) Allow() bool {
	return rl.limiter.Allow()
}

// Wait blocks until a token is available or ctx ends. It returns how long
// it waited.
func (rl *RateLimiter) Wait(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	err := rl.limiter.Wait(ctx)
	return time.Since(start), err
}

// Tokens reports the tokens currently available.
func (rl *RateLimiter) Tokens() float64 {
	return rl.limiter.Tokens()
}
