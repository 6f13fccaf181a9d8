// Package counter provides a non-negative integer aggregate used to track how
// many members of a set currently hold a boolean property without re-scanning
// the set. Counters never trigger renders.
package counter

import "go.uber.org/atomic"

// Counter is a non-negative integer with a default value. All methods are safe
// for concurrent use so aggregate flags can be read off the form's loop.
type Counter struct {
	def   int64
	value *atomic.Int64
}

// New returns a counter initialised to def. Negative defaults are clamped to
// zero.
func New(def int64) *Counter {
	if def < 0 {
		def = 0
	}
	return &Counter{def: def, value: atomic.NewInt64(def)}
}

// Increment adds one and returns the new count.
func (c *Counter) Increment() int64 {
	return c.value.Inc()
}

// Decrement subtracts one unless the counter is already zero, and returns the
// resulting count.
func (c *Counter) Decrement() int64 {
	for {
		current := c.value.Load()
		if current <= 0 {
			return 0
		}
		if c.value.CompareAndSwap(current, current-1) {
			return current - 1
		}
	}
}

// Set stores v, clamped to zero.
func (c *Counter) Set(v int64) {
	if v < 0 {
		v = 0
	}
	c.value.Store(v)
}

// Count returns the current value.
func (c *Counter) Count() int64 {
	return c.value.Load()
}

// Reset restores the default value.
func (c *Counter) Reset() {
	c.value.Store(c.def)
}

// FromBool increments when b is true and decrements otherwise. It toggles a
// member in or out of the aggregate without tracking membership itself.
func (c *Counter) FromBool(b bool) int64 {
	if b {
		return c.Increment()
	}
	return c.Decrement()
}

// IsZero reports whether the count is zero.
func (c *Counter) IsZero() bool {
	return c.value.Load() == 0
}

// IsDefault reports whether the count equals the default value.
func (c *Counter) IsDefault() bool {
	return c.value.Load() == c.def
}
