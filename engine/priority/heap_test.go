package priority

import (
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain[V any](h *Heap[V]) []V {
	var out []V
	for h.Len() > 0 {
		out = append(out, h.RemoveMin().Value())
	}
	return out
}

func TestHeapExtractsInKeyOrder(t *testing.T) {
	h := NewHeap[float64]()
	keys := []float64{5, 3, 9, -1, 0, 7, 3.5, 12, -4}
	for _, k := range keys {
		h.Insert(k, k)
	}
	require.Equal(t, len(keys), h.Len())
	assert.Equal(t, -4.0, h.Min().Key())

	want := slices.Clone(keys)
	slices.Sort(want)
	assert.Equal(t, want, drain(h))
}

func TestHeapTiesKeepInsertionOrder(t *testing.T) {
	h := NewHeap[string]()
	h.Insert(1, "a")
	h.Insert(0, "first")
	h.Insert(1, "b")
	h.Insert(1, "c")
	h.Insert(2, "last")
	h.Insert(1, "d")
	assert.Equal(t, []string{"first", "a", "b", "c", "d", "last"}, drain(h))
}

func TestHeapEmptyPanics(t *testing.T) {
	h := NewHeap[int]()
	assert.PanicsWithValue(t, "priority: remove from empty heap", func() { h.RemoveMin() })
	assert.PanicsWithValue(t, "priority: min of empty heap", func() { h.Min() })
	assert.Panics(t, func() { h.Insert(math.NaN(), 1) })
}

func TestHeapDecreaseKey(t *testing.T) {
	h := NewHeap[string]()
	nodes := map[string]*Node[string]{}
	for i, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		nodes[name] = h.Insert(float64(10+i), name)
	}
	// build some tree structure before decreasing
	assert.Equal(t, "a", h.RemoveMin().Value())

	h.DecreaseKey(nodes["h"], 1)
	assert.Equal(t, "h", h.Min().Value())
	h.DecreaseKey(nodes["e"], 2)
	h.DecreaseKey(nodes["f"], 2)
	assert.Equal(t, []string{"h", "e", "f", "b", "c", "d", "g"}, drain(h))
}

func TestHeapDecreaseKeyContract(t *testing.T) {
	h := NewHeap[int]()
	n := h.Insert(5, 1)
	assert.PanicsWithValue(t, "priority: new key is greater than current key", func() {
		h.DecreaseKey(n, 6)
	})
	h.DecreaseKey(n, 5)
	assert.Equal(t, 5.0, n.Key())

	other := NewHeap[int]()
	assert.PanicsWithValue(t, "priority: node is not in this heap", func() {
		other.DecreaseKey(n, 1)
	})

	h.RemoveMin()
	assert.Panics(t, func() { h.DecreaseKey(n, 1) }, "removed handles are dead")
}

func TestHeapDelete(t *testing.T) {
	h := NewHeap[int]()
	var nodes []*Node[int]
	for i := range 10 {
		nodes = append(nodes, h.Insert(float64(i), i))
	}
	h.RemoveMin()
	h.Delete(nodes[5])
	h.Delete(nodes[9])
	h.Delete(nodes[1])
	assert.Equal(t, []int{2, 3, 4, 6, 7, 8}, drain(h))
}

func TestHeapDeleteBeatsUserNegativeInfinity(t *testing.T) {
	h := NewHeap[string]()
	h.Insert(math.Inf(-1), "user")
	n := h.Insert(3, "victim")
	h.Delete(n)
	assert.Equal(t, []string{"user"}, drain(h))
}

func TestHeapClear(t *testing.T) {
	h := NewHeap[int]()
	n := h.Insert(1, 1)
	h.Insert(2, 2)
	h.Clear()
	assert.Equal(t, 0, h.Len())
	assert.Panics(t, func() { h.Delete(n) })

	h.Insert(4, 4)
	h.Insert(3, 3)
	assert.Equal(t, []int{3, 4}, drain(h))
}

func TestHeapUnion(t *testing.T) {
	a, b := NewHeap[int](), NewHeap[int]()
	a.Insert(4, 4)
	a.Insert(1, 1)
	moved := b.Insert(3, 3)
	b.Insert(0, 0)
	b.Insert(6, 6)

	a.Union(b)
	assert.Equal(t, 5, a.Len())
	assert.Equal(t, 0, b.Len())
	assert.Panics(t, func() { b.Min() })

	a.DecreaseKey(moved, -1)
	assert.Equal(t, []int{3, 0, 1, 4, 6}, drain(a))

	b.Insert(2, 2)
	assert.Equal(t, []int{2}, drain(b))
}

func TestHeapRandomized(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	h := NewHeap[int]()
	type entry struct {
		key  float64
		id   int
		node *Node[int]
	}
	live := map[int]*entry{}
	id := 0

	for round := range 2000 {
		switch op := rng.IntN(10); {
		case op < 5:
			e := &entry{key: float64(rng.IntN(100)), id: id}
			e.node = h.Insert(e.key, id)
			live[id] = e
			id++
		case op < 7 && len(live) > 0:
			n := h.RemoveMin()
			best := math.Inf(1)
			for _, e := range live {
				best = min(best, e.key)
			}
			require.Equal(t, best, n.Key(), "round %d", round)
			delete(live, n.Value())
		case op < 9 && len(live) > 0:
			for _, e := range live {
				e.key -= float64(rng.IntN(50))
				h.DecreaseKey(e.node, e.key)
				break
			}
		case len(live) > 0:
			for k, e := range live {
				h.Delete(e.node)
				delete(live, k)
				break
			}
		}
		require.Equal(t, len(live), h.Len())
	}

	prev := math.Inf(-1)
	for h.Len() > 0 {
		n := h.RemoveMin()
		assert.GreaterOrEqual(t, n.Key(), prev)
		prev = n.Key()
	}
}
