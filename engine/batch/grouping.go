// Package batch groups drawable values by shader, mesh and material so that issuing them in
// traversal order rebinds each level key at most once per run.
package batch

import (
	"iter"

	"github.com/Carmen-Shannon/oxy-scene/engine/pool"
)

// slot is the payload of every cell in the grouping. Level 1 to 3 cells use child to point at the
// head of the next level's list; level 4 cells carry the grouped value.
type slot[V any] struct {
	child *pool.Cell[slot[V]]
	value V
}

type key2[S, M comparable] struct {
	shader S
	mesh   M
}

type key3[S, M, Mt comparable] struct {
	shader   S
	mesh     M
	material Mt
}

// Grouping is a three-key multimap: shader -> mesh -> material -> values.
//
// Every keyed cell is registered in its level index and in a reverse index from cell to
// composite key, so the destructive drain can remove it from the indexes it is in.
// Values under one key triple come back most recently added first.
type Grouping[S, M, Mt comparable, V any] struct {
	cells *pool.Pool[slot[V]]
	head  *pool.Cell[slot[V]]
	count int

	level1 map[S]*pool.Cell[slot[V]]
	level2 map[key2[S, M]]*pool.Cell[slot[V]]
	level3 map[key3[S, M, Mt]]*pool.Cell[slot[V]]
	keys   map[*pool.Cell[slot[V]]]key3[S, M, Mt]
}

// NewGrouping creates an empty Grouping with its own cell pool.
//
// Returns:
//   - *Grouping[S, M, Mt, V]: the new grouping
func NewGrouping[S, M, Mt comparable, V any]() *Grouping[S, M, Mt, V] {
	return &Grouping[S, M, Mt, V]{
		cells:  pool.NewPool[slot[V]](),
		level1: make(map[S]*pool.Cell[slot[V]]),
		level2: make(map[key2[S, M]]*pool.Cell[slot[V]]),
		level3: make(map[key3[S, M, Mt]]*pool.Cell[slot[V]]),
		keys:   make(map[*pool.Cell[slot[V]]]key3[S, M, Mt]),
	}
}

// Len returns the number of grouped values.
func (g *Grouping[S, M, Mt, V]) Len() int {
	return g.count
}

// Groups returns the number of distinct shader, (shader, mesh) and (shader, mesh, material) keys.
func (g *Grouping[S, M, Mt, V]) Groups() (shaders, meshes, materials int) {
	return len(g.level1), len(g.level2), len(g.level3)
}

// Add files value under the key triple, creating any missing level cells.
//
// Parameters:
//   - shader: level 1 key
//   - mesh: level 2 key
//   - material: level 3 key
//   - value: the value to group
func (g *Grouping[S, M, Mt, V]) Add(shader S, mesh M, material Mt, value V) {
	g.count++

	l4 := g.cells.Create(slot[V]{value: value}, nil)
	k3 := key3[S, M, Mt]{shader, mesh, material}
	if node, ok := g.level3[k3]; ok {
		l4.Next = node.Value.child
		node.Value.child = l4
		return
	}

	l3 := g.cells.Create(slot[V]{child: l4}, nil)
	g.level3[k3] = l3
	g.keys[l3] = k3

	k2 := key2[S, M]{shader, mesh}
	if node, ok := g.level2[k2]; ok {
		l3.Next = node.Value.child
		node.Value.child = l3
		return
	}

	l2 := g.cells.Create(slot[V]{child: l3}, nil)
	g.level2[k2] = l2
	g.keys[l2] = k3

	if node, ok := g.level1[shader]; ok {
		l2.Next = node.Value.child
		node.Value.child = l2
		return
	}

	g.head = g.cells.Create(slot[V]{child: l2}, g.head)
	g.level1[shader] = g.head
	g.keys[g.head] = k3
}

// Retrieve lazily yields every grouped value in nesting order without removing anything.
// Repeated calls without an intervening Add or Recover yield the same sequence.
//
// Returns:
//   - iter.Seq[V]: the traversal
func (g *Grouping[S, M, Mt, V]) Retrieve() iter.Seq[V] {
	return func(yield func(V) bool) {
		for i1 := g.head; i1 != nil; i1 = i1.Next {
			for i2 := i1.Value.child; i2 != nil; i2 = i2.Next {
				for i3 := i2.Value.child; i3 != nil; i3 = i3.Next {
					for i4 := i3.Value.child; i4 != nil; i4 = i4.Next {
						if !yield(i4.Value.value) {
							return
						}
					}
				}
			}
		}
	}
}

// Recover lazily yields every grouped value in the same order as Retrieve, releasing each traversed
// cell to the pool and removing it from every index. Once iteration starts the grouping is emptied
// completely, even if the consumer stops early; the remaining cells are released without being yielded.
//
// Returns:
//   - iter.Seq[V]: the destructive traversal
func (g *Grouping[S, M, Mt, V]) Recover() iter.Seq[V] {
	return func(yield func(V) bool) {
		head := g.head
		g.head = nil
		g.count = 0

		draining := true
		for i1 := head; i1 != nil; {
			for i2 := i1.Value.child; i2 != nil; {
				for i3 := i2.Value.child; i3 != nil; {
					for i4 := i3.Value.child; i4 != nil; {
						if draining && !yield(i4.Value.value) {
							draining = false
						}
						next := i4.Next
						g.cells.Release(i4)
						i4 = next
					}
					k := g.keys[i3]
					delete(g.keys, i3)
					delete(g.level3, k)
					i3 = g.release(i3)
				}
				k := g.keys[i2]
				delete(g.keys, i2)
				delete(g.level2, key2[S, M]{k.shader, k.mesh})
				i2 = g.release(i2)
			}
			k := g.keys[i1]
			delete(g.keys, i1)
			delete(g.level1, k.shader)
			i1 = g.release(i1)
		}
	}
}

// Redeem drains destructively on the last pass of a frame and non-destructively otherwise.
//
// Parameters:
//   - last: true on the final pass
//
// Returns:
//   - iter.Seq[V]: Recover() when last, Retrieve() otherwise
func (g *Grouping[S, M, Mt, V]) Redeem(last bool) iter.Seq[V] {
	if last {
		return g.Recover()
	}
	return g.Retrieve()
}

// Clear empties the grouping without yielding anything.
func (g *Grouping[S, M, Mt, V]) Clear() {
	for range g.Recover() {
	}
}

// release hands a level cell back to the pool and returns the next cell on its level.
func (g *Grouping[S, M, Mt, V]) release(c *pool.Cell[slot[V]]) *pool.Cell[slot[V]] {
	next := c.Next
	g.cells.Release(c)
	return next
}
