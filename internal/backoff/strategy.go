package backoff

import (
	"math/rand"
	"time"
)

// Strategy computes the wait before a retry. retry is 1 for the first retry.
type Strategy interface {
	Calculate(retry int, base time.Duration) time.Duration
}

// LinearStrategy waits base * retry.
type LinearStrategy struct{}

// Calculate implements Strategy.
func (LinearStrategy) Calculate(retry int, base time.Duration) time.Duration {
	if retry < 1 || base <= 0 {
		return 0
	}
	if retry > maxRetryFactor {
		retry = maxRetryFactor
	}
	return base * time.Duration(retry)
}

// LinearJitterStrategy adds up to Jitter * delay of uniform random time on top
// of the linear delay. The delay never shrinks below the linear value.
type LinearJitterStrategy struct {
	Jitter float64
	// Rand returns a value in [0, 1). Nil uses math/rand.
	Rand func() float64
}

// Calculate implements Strategy.
func (s LinearJitterStrategy) Calculate(retry int, base time.Duration) time.Duration {
	delay := LinearStrategy{}.Calculate(retry, base)
	jitter := clampJitter(s.Jitter)
	if delay == 0 || jitter == 0 {
		return delay
	}
	random := s.Rand
	if random == nil {
		random = rand.Float64
	}
	return delay + time.Duration(float64(delay)*jitter*random())
}

// maxRetryFactor keeps base * retry from overflowing.
const maxRetryFactor = 1000

func clampJitter(jitter float64) float64 {
	if jitter < 0 {
		return 0
	}
	if jitter > 1 {
		return 1
	}
	return jitter
}
