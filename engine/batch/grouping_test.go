package batch

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	shader, mesh, material string
	id                     int
}

func fill(g *Grouping[string, string, string, item], items []item) {
	for _, it := range items {
		g.Add(it.shader, it.mesh, it.material, it)
	}
}

var sample = []item{
	{"lit", "cube", "red", 0},
	{"lit", "sphere", "red", 1},
	{"unlit", "cube", "blue", 2},
	{"lit", "cube", "red", 3},
	{"lit", "cube", "green", 4},
	{"unlit", "quad", "blue", 5},
	{"lit", "sphere", "red", 6},
	{"lit", "cube", "red", 7},
}

func ids(seq func(func(item) bool)) []int {
	var out []int
	for it := range seq {
		out = append(out, it.id)
	}
	return out
}

func TestGroupingClustersKeys(t *testing.T) {
	g := NewGrouping[string, string, string, item]()
	fill(g, sample)
	require.Equal(t, len(sample), g.Len())

	shaders, meshes, materials := g.Groups()
	assert.Equal(t, 2, shaders)
	assert.Equal(t, 4, meshes)
	assert.Equal(t, 5, materials)

	// each key triple is one contiguous run, and each shader / mesh prefix is contiguous too
	var order []item
	for it := range g.Retrieve() {
		order = append(order, it)
	}
	require.Len(t, order, len(sample))

	shaderChanges, meshChanges, materialChanges := 0, 0, 0
	for i, it := range order {
		if i == 0 || it.shader != order[i-1].shader {
			shaderChanges++
		}
		if i == 0 || it.shader != order[i-1].shader || it.mesh != order[i-1].mesh {
			meshChanges++
		}
		if i == 0 || it.shader != order[i-1].shader || it.mesh != order[i-1].mesh || it.material != order[i-1].material {
			materialChanges++
		}
	}
	assert.Equal(t, shaders, shaderChanges)
	assert.Equal(t, meshes, meshChanges)
	assert.Equal(t, materials, materialChanges)
}

func TestGroupingRetrieveIsRepeatable(t *testing.T) {
	g := NewGrouping[string, string, string, item]()
	fill(g, sample)

	first := ids(g.Retrieve())
	second := ids(g.Retrieve())
	assert.Equal(t, first, second)
	assert.Equal(t, len(sample), g.Len())
}

func TestGroupingRecoverEmptiesEverything(t *testing.T) {
	g := NewGrouping[string, string, string, item]()
	fill(g, sample)
	want := ids(g.Retrieve())

	got := ids(g.Recover())
	assert.Equal(t, want, got, "destructive drain keeps the traversal order")

	assert.Equal(t, 0, g.Len())
	assert.Empty(t, g.level1)
	assert.Empty(t, g.level2)
	assert.Empty(t, g.level3)
	assert.Empty(t, g.keys)
	assert.Nil(t, g.head)
	assert.Empty(t, ids(g.Retrieve()))

	// 8 values + 5 material + 4 mesh + 2 shader cells
	assert.Equal(t, 19, g.cells.Free())
}

func TestGroupingReuseAfterRecover(t *testing.T) {
	g := NewGrouping[string, string, string, item]()
	fill(g, sample)
	for range g.Recover() {
	}

	fresh := NewGrouping[string, string, string, item]()
	fill(g, sample[:3])
	fill(fresh, sample[:3])
	assert.Equal(t, ids(fresh.Retrieve()), ids(g.Retrieve()))
	assert.Equal(t, 3, g.Len())
	assert.Equal(t, 19-(3+3+3+2), g.cells.Free(), "cells come from the pool")
}

func TestGroupingRecoverEarlyStopStillEmpties(t *testing.T) {
	g := NewGrouping[string, string, string, item]()
	fill(g, sample)
	n := 0
	for range g.Recover() {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
	assert.Equal(t, 0, g.Len())
	assert.Empty(t, g.keys)
	assert.Equal(t, 19, g.cells.Free())
}

func TestGroupingRedeem(t *testing.T) {
	g := NewGrouping[string, string, string, item]()
	fill(g, sample)
	all := ids(g.Redeem(false))
	assert.Equal(t, len(sample), g.Len())
	last := ids(g.Redeem(true))
	assert.Equal(t, all, last)
	assert.Equal(t, 0, g.Len())

	sorted := slices.Clone(last)
	slices.Sort(sorted)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, sorted, "every value exactly once")
}

func TestGroupingLazyRecover(t *testing.T) {
	g := NewGrouping[string, string, string, item]()
	fill(g, sample)
	seq := g.Recover()
	assert.Equal(t, len(sample), g.Len(), "nothing happens until iteration")
	g.Clear()
	assert.Equal(t, 0, g.Len())
	assert.Empty(t, ids(seq))
}
