package pool

// chain is the head and tail of one key's value list.
type chain[V any] struct {
	head, tail *Cell[V]
}

// Pouch is a multimap from a key to a list of values, with destructive retrieval.
// Values for a key come back in the order they were added. Cells are recycled through a Pool,
// so rebuilding the pouch every frame does not allocate once warm.
type Pouch[K comparable, V any] struct {
	cells  *Pool[V]
	chains map[K]chain[V]
	count  int
}

// NewPouch creates an empty pouch drawing cells from cells.
// A nil pool gives the pouch a private one.
//
// Parameters:
//   - cells: the pool to draw cells from
//
// Returns:
//   - *Pouch[K, V]: the new pouch
func NewPouch[K comparable, V any](cells *Pool[V]) *Pouch[K, V] {
	if cells == nil {
		cells = NewPool[V]()
	}
	return &Pouch[K, V]{
		cells:  cells,
		chains: make(map[K]chain[V]),
	}
}

// Len returns the total number of values held across all keys.
func (p *Pouch[K, V]) Len() int {
	return p.count
}

// Keys returns the number of keys with at least one value.
func (p *Pouch[K, V]) Keys() int {
	return len(p.chains)
}

// Add appends value to the list held under key.
func (p *Pouch[K, V]) Add(key K, value V) {
	c := p.cells.Create(value, nil)
	ch, ok := p.chains[key]
	if !ok {
		ch.head = c
	} else {
		ch.tail.Next = c
	}
	ch.tail = c
	p.chains[key] = ch
	p.count++
}

// Retrieve removes and returns the first value held under key.
//
// Parameters:
//   - key: the key to pull from
//
// Returns:
//   - V: the removed value, or the zero value when the key holds nothing
//   - bool: true if a value was removed
func (p *Pouch[K, V]) Retrieve(key K) (V, bool) {
	ch, ok := p.chains[key]
	if !ok {
		var zero V
		return zero, false
	}
	c := ch.head
	v := c.Value
	if c.Next == nil {
		delete(p.chains, key)
	} else {
		ch.head = c.Next
		p.chains[key] = ch
	}
	p.count--
	p.cells.Release(c)
	return v, true
}

// Clear releases every value of every key back to the pool.
func (p *Pouch[K, V]) Clear() {
	for key, ch := range p.chains {
		for c := ch.head; c != nil; {
			next := c.Next
			p.cells.Release(c)
			c = next
		}
		delete(p.chains, key)
	}
	p.count = 0
}
