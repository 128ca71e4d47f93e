package scope

// cell stores a guard action or a resource payload either by value or by
// reference to an externally-owned location. Which of the two is active is
// fixed at construction and never switches.
type cell[T any] struct {
	val T
	ref *T
}

// newCell adopts v by value.
func newCell[T any](v T) cell[T] {
	return cell[T]{val: v}
}

// newCellRef stores a reference to an externally-owned value. The cell
// never copies the referent; reads and writes go through the pointer.
func newCellRef[T any](p *T) cell[T] {
	return cell[T]{ref: p}
}

// newCellGuarded stores v and releases the companion guard only once the
// payload is in place. Used for ownership transfers where the source's
// fallback cleanup must stay armed until the destination holds the payload.
func newCellGuarded[T any](v T, g *Guard) cell[T] {
	c := cell[T]{val: v}
	g.Release()
	return c
}

// get returns the current payload.
func (c *cell[T]) get() T {
	if c.ref != nil {
		return *c.ref
	}
	return c.val
}

// ptr returns mutable access to the payload.
func (c *cell[T]) ptr() *T {
	if c.ref != nil {
		return c.ref
	}
	return &c.val
}

// set replaces the payload.
func (c *cell[T]) set(v T) {
	if c.ref != nil {
		*c.ref = v
		return
	}
	c.val = v
}

// take yields the payload and leaves a value cell zeroed (moved-from but
// still usable). A reference cell is non-owning, so its referent is left
// untouched.
func (c *cell[T]) take() T {
	if c.ref != nil {
		return *c.ref
	}
	v := c.val
	var zero T
	c.val = zero
	return v
}
