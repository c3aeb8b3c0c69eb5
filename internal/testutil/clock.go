// Package testutil holds deterministic stand-ins used by tests and the
// regression harness.
package testutil

import "sync/atomic"

// DeterministicClock is a resettable logical clock for event recorders.
// A scenario replayed against a fresh or reset clock stamps its events
// with the same sequence numbers, so golden traces stay stable.
type DeterministicClock struct {
	seq atomic.Int64
}

// NewDeterministicClock creates a clock whose first Next returns 1.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{}
}

// Next advances the clock and returns the new stamp.
func (c *DeterministicClock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last stamp handed out, 0 before the first Next.
func (c *DeterministicClock) Current() int64 {
	return c.seq.Load()
}

// Reset rewinds the clock to 0.
func (c *DeterministicClock) Reset() {
	c.seq.Store(0)
}
