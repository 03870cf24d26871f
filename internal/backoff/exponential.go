package backoff

import (
	"sync"
	"time"
)

// Exponential doubles the delay after every failure, starting at the initial delay and never exceeding the maximum.
type Exponential struct {
	initial time.Duration
	max     time.Duration

	mu       sync.Mutex
	failures uint
}

// NewExponential creates a new exponential backoff.
func NewExponential(initial, max time.Duration) *Exponential {
	return &Exponential{
		initial: initial,
		max:     max,
	}
}

// Reset resets exponential backoff failures.
func (e *Exponential) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.failures = 0
}

// Failures returns the number of failures since the last reset.
func (e *Exponential) Failures() uint {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.failures
}

// Next increases failure counter and calculates next backoff duration.
func (e *Exponential) Next() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.failures++

	if e.initial <= 0 {
		return 0
	}

	delay := e.initial

	for i := uint(1); i < e.failures; i++ {
		if delay >= e.max/2 {
			return e.max
		}

		delay *= 2
	}

	if delay > e.max {
		return e.max
	}

	return delay
}
