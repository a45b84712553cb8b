// Package pool provides free-list recycled linked cells and the small containers built on them.
// The containers here are frame-scoped working structures; none of them are safe for concurrent use.
package pool

// Cell is a singly linked cell holding a value and a link to the next cell.
type Cell[T any] struct {
	Value T
	Next  *Cell[T]
}

// Pool recycles released cells through a stack so per-frame structures do not allocate once warm.
// A released cell is owned by the pool until it is handed out again by Create.
type Pool[T any] struct {
	free *Cell[T]
	size int
}

// NewPool creates an empty Pool.
//
// Returns:
//   - *Pool[T]: the new pool
func NewPool[T any]() *Pool[T] {
	return &Pool[T]{}
}

// Create pops a released cell when one is available, otherwise allocates a new one.
//
// Parameters:
//   - value: the value stored in the cell
//   - next: the link stored in the cell
//
// Returns:
//   - *Cell[T]: a cell owned by the caller
func (p *Pool[T]) Create(value T, next *Cell[T]) *Cell[T] {
	c := p.free
	if c == nil {
		return &Cell[T]{Value: value, Next: next}
	}
	p.free = c.Next
	p.size--
	c.Value = value
	c.Next = next
	return c
}

// Release hands a cell back to the pool. The value is zeroed so the pool does not keep it reachable.
// The caller must not read or release the cell again until it comes back from Create.
//
// Parameters:
//   - c: the cell to release
func (p *Pool[T]) Release(c *Cell[T]) {
	if c == nil {
		panic("pool: release of nil cell")
	}
	var zero T
	c.Value = zero
	c.Next = p.free
	p.free = c
	p.size++
}

// Free returns the number of cells currently held by the pool.
func (p *Pool[T]) Free() int {
	return p.size
}
