package backoff

import (
	"time"
)

// Calculator applies a Strategy with a fixed base delay and an optional cap.
type Calculator struct {
	strategy Strategy
	base     time.Duration
	max      time.Duration
}

// NewCalculator creates a calculator. A zero max disables the cap.
func NewCalculator(strategy Strategy, base, max time.Duration) *Calculator {
	if strategy == nil {
		strategy = LinearStrategy{}
	}
	return &Calculator{strategy: strategy, base: base, max: max}
}

// Linear returns a calculator without jitter.
func Linear(base time.Duration) *Calculator {
	return NewCalculator(LinearStrategy{}, base, 0)
}

// LinearJitter returns a calculator adding up to jitter * delay of random time.
func LinearJitter(base time.Duration, jitter float64) *Calculator {
	return NewCalculator(LinearJitterStrategy{Jitter: jitter}, base, 0)
}

// Delay returns the wait before the given retry.
func (c *Calculator) Delay(retry int) time.Duration {
	d := c.strategy.Calculate(retry, c.base)
	if c.max > 0 && d > c.max {
		return c.max
	}
	return d
}

// Base returns the configured base delay.
func (c *Calculator) Base() time.Duration {
	return c.base
}

// Strategy returns the configured strategy.
func (c *Calculator) Strategy() Strategy {
	return c.strategy
}
