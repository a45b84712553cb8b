// Package priority implements a Fibonacci heap keyed by float64.
//
// Insert and DecreaseKey run in O(1) amortized time and RemoveMin in O(log n) amortized time.
// Equal keys are extracted in insertion order. The heap is not safe for concurrent use.
package priority

import (
	"math"
)

// generation ties node handles to the heap state they were inserted into.
// Clear starts a new generation; Union forwards the absorbed heap's generation to the receiver's.
type generation struct {
	into *generation
}

func (g *generation) resolve() *generation {
	for g.into != nil {
		g = g.into
	}
	return g
}

// Node is a handle to a value stored in a Heap.
// Handles stay valid until the value is removed or the heap is cleared.
type Node[V any] struct {
	key   float64
	seq   uint64
	value V

	parent, child, left, right *Node[V]
	degree                     int
	marked                     bool

	gen *generation
}

// Key returns the node's current priority key.
func (n *Node[V]) Key() float64 {
	return n.key
}

// Value returns the value stored in the node.
func (n *Node[V]) Value() V {
	return n.value
}

// Heap is a Fibonacci heap ordering values by ascending key, ties by insertion order.
type Heap[V any] struct {
	min   *Node[V]
	count int
	seq   uint64
	gen   *generation

	// scratch buffers reused by consolidate
	roots   []*Node[V]
	degrees []*Node[V]
}

// NewHeap creates an empty Heap.
//
// Returns:
//   - *Heap[V]: the new heap
func NewHeap[V any]() *Heap[V] {
	return &Heap[V]{gen: &generation{}}
}

// Len returns the number of values in the heap.
func (h *Heap[V]) Len() int {
	return h.count
}

// Insert adds value with the given key to the root list.
//
// Parameters:
//   - key: the priority, lower keys are removed first; NaN panics
//   - value: the value to store
//
// Returns:
//   - *Node[V]: a handle usable with DecreaseKey and Delete
func (h *Heap[V]) Insert(key float64, value V) *Node[V] {
	if math.IsNaN(key) {
		panic("priority: NaN key")
	}
	h.seq++
	n := &Node[V]{key: key, seq: h.seq, value: value, gen: h.gen}
	n.left, n.right = n, n
	h.addRoot(n)
	h.count++
	return n
}

// Min returns the node with the smallest key without removing it. Panics if the heap is empty.
func (h *Heap[V]) Min() *Node[V] {
	if h.min == nil {
		panic("priority: min of empty heap")
	}
	return h.min
}

// RemoveMin removes and returns the node with the smallest key. Panics if the heap is empty.
//
// The minimum's children are promoted to the root list, then roots of equal degree are linked
// pairwise until every root has a distinct degree.
//
// Returns:
//   - *Node[V]: the removed node; its handle is no longer valid for this heap
func (h *Heap[V]) RemoveMin() *Node[V] {
	z := h.min
	if z == nil {
		panic("priority: remove from empty heap")
	}

	if c := z.child; c != nil {
		for x := c; ; {
			x.parent = nil
			x = x.right
			if x == c {
				break
			}
		}
		splice(z, c)
		z.child = nil
		z.degree = 0
	}

	h.count--
	if z.right == z {
		h.min = nil
	} else {
		h.min = z.right
		z.left.right = z.right
		z.right.left = z.left
		h.consolidate()
	}

	z.left, z.right, z.gen = z, z, nil
	return z
}

// Clear empties the heap in constant time. Nodes are not walked; outstanding handles become invalid.
func (h *Heap[V]) Clear() {
	h.min = nil
	h.count = 0
	h.gen = &generation{}
	clear(h.roots)
	clear(h.degrees)
}

// DecreaseKey lowers the key of a node in the heap.
// Panics if key is greater than the node's current key, or if n is not a live node of this heap.
//
// Parameters:
//   - n: the node handle returned by Insert
//   - key: the new key
func (h *Heap[V]) DecreaseKey(n *Node[V], key float64) {
	h.check(n)
	if math.IsNaN(key) {
		panic("priority: NaN key")
	}
	if key > n.key {
		panic("priority: new key is greater than current key")
	}
	h.decrease(n, key, n.seq)
}

// Delete removes a node from the heap. Panics if n is not a live node of this heap.
//
// Parameters:
//   - n: the node handle returned by Insert
func (h *Heap[V]) Delete(n *Node[V]) {
	h.check(n)
	// sequence 0 is never assigned by Insert, so n orders before any other -Inf key
	h.decrease(n, math.Inf(-1), 0)
	h.RemoveMin()
}

// Union moves every node of other into h in constant time and leaves other empty.
// Handles from other remain valid as handles into h.
//
// Parameters:
//   - other: the heap to absorb
func (h *Heap[V]) Union(other *Heap[V]) {
	if other == nil || other == h || other.min == nil {
		return
	}
	other.gen.into = h.gen
	if h.min == nil {
		h.min = other.min
	} else {
		splice(h.min, other.min)
		if h.less(other.min, h.min) {
			h.min = other.min
		}
	}
	// keep insertion order meaningful across the merged heap
	h.seq = max(h.seq, other.seq)
	h.count += other.count

	other.min = nil
	other.count = 0
	other.gen = &generation{}
}

// less orders by key, then by insertion sequence.
func (h *Heap[V]) less(a, b *Node[V]) bool {
	if a.key != b.key {
		return a.key < b.key
	}
	return a.seq < b.seq
}

func (h *Heap[V]) check(n *Node[V]) {
	if n == nil || n.gen == nil || n.gen.resolve() != h.gen {
		panic("priority: node is not in this heap")
	}
}

// addRoot splices a detached node into the root list and updates the minimum.
func (h *Heap[V]) addRoot(n *Node[V]) {
	if h.min == nil {
		n.left, n.right = n, n
		h.min = n
		return
	}
	splice(h.min, n)
	if h.less(n, h.min) {
		h.min = n
	}
}

func (h *Heap[V]) decrease(n *Node[V], key float64, seq uint64) {
	n.key = key
	n.seq = seq
	if p := n.parent; p != nil && h.less(n, p) {
		h.cut(n, p)
		h.cascadingCut(p)
	}
	if h.less(n, h.min) {
		h.min = n
	}
}

// cut detaches x from its parent y and moves it to the root list.
func (h *Heap[V]) cut(x, y *Node[V]) {
	if x.right == x {
		y.child = nil
	} else {
		x.left.right = x.right
		x.right.left = x.left
		if y.child == x {
			y.child = x.right
		}
	}
	y.degree--
	x.parent = nil
	x.marked = false
	x.left, x.right = x, x
	h.addRoot(x)
}

func (h *Heap[V]) cascadingCut(y *Node[V]) {
	for z := y.parent; z != nil; y, z = z, z.parent {
		if !y.marked {
			y.marked = true
			return
		}
		h.cut(y, z)
	}
}

// consolidate links roots of equal degree until all root degrees are distinct, then rebuilds
// the root list and the minimum.
func (h *Heap[V]) consolidate() {
	h.roots = h.roots[:0]
	for x := h.min; ; {
		h.roots = append(h.roots, x)
		x = x.right
		if x == h.min {
			break
		}
	}

	bound := maxDegree(h.count) + 1
	if cap(h.degrees) < bound {
		h.degrees = make([]*Node[V], bound)
	}
	h.degrees = h.degrees[:bound]
	clear(h.degrees)

	for _, x := range h.roots {
		d := x.degree
		for d < len(h.degrees) && h.degrees[d] != nil {
			y := h.degrees[d]
			if h.less(y, x) {
				x, y = y, x
			}
			link(y, x)
			h.degrees[d] = nil
			d++
		}
		for d >= len(h.degrees) {
			h.degrees = append(h.degrees, nil)
		}
		h.degrees[d] = x
	}

	h.min = nil
	for _, x := range h.degrees {
		if x == nil {
			continue
		}
		x.left, x.right = x, x
		h.addRoot(x)
	}
	clear(h.roots)
}

// link makes y a child of x.
func link[V any](y, x *Node[V]) {
	y.parent = x
	y.marked = false
	y.left, y.right = y, y
	if x.child == nil {
		x.child = y
	} else {
		splice(x.child, y)
	}
	x.degree++
}

// splice joins the circular list containing b into the circular list containing a, right of a.
func splice[V any](a, b *Node[V]) {
	aRight := a.right
	bLeft := b.left
	a.right = b
	b.left = a
	bLeft.right = aRight
	aRight.left = bLeft
}

// maxDegree bounds the degree of any node in a heap of n nodes: floor(log_phi(n)).
func maxDegree(n int) int {
	if n < 2 {
		return 1
	}
	return int(math.Log(float64(n)) / math.Log(math.Phi))
}
