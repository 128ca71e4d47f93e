package unwind

// Counter counts failures currently propagating through a chain of scopes.
//
// Contract:
// - Concurrency: a Counter belongs to a single goroutine; no locking.
// - Values: monotonically non-decreasing while a failure is in flight,
//   stable otherwise. Consumers must only compare deltas against a
//   baseline captured earlier on the same counter.
type Counter struct {
	n int
}

// NewCounter creates a counter with no failures in flight.
func NewCounter() *Counter {
	return &Counter{}
}

// Count returns the number of failures currently in flight.
func (c *Counter) Count() int {
	return c.n
}

// Raise marks one more failure as in flight.
func (c *Counter) Raise() {
	c.n++
}

// Lower marks one failure as handled. Lowering an idle counter is a no-op.
func (c *Counter) Lower() {
	if c.n > 0 {
		c.n--
	}
}
