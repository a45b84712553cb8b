package game_object

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-scene/engine/model"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

const eps = 1e-4

func assertVec(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	assert.InDeltaSlice(t, want[:], got[:], eps)
}

func TestNewGameObjectDefaults(t *testing.T) {
	g := NewGameObject("root")
	assert.Equal(t, "root", g.Name())
	assert.Nil(t, g.Parent())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, g.Scale())
	assert.Equal(t, mgl32.Ident4(), g.World())
	assert.False(t, g.Drawable())
	assert.False(t, g.Hidden())
}

func TestSyncRoot(t *testing.T) {
	g := NewGameObject("root", WithPosition(1, 2, 3), WithRotation(0, 90, 0), WithScale(2, 2, 2))
	g.Sync()

	assertVec(t, mgl32.Vec3{1, 2, 3}, g.WorldPosition())
	assertVec(t, mgl32.Vec3{2, 2, 2}, g.TotalScale())
	// Y 90 turns -Z into -X.
	assertVec(t, mgl32.Vec3{-1, 0, 0}, g.Forward())
	assertVec(t, mgl32.Vec3{0, 0, -1}, g.Right())
	assertVec(t, mgl32.Vec3{0, 1, 0}, g.Up())

	p := g.World().Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	assertVec(t, mgl32.Vec3{1, 2, 1}, p)
}

func TestSyncChildIgnoresParentScaleForPlacement(t *testing.T) {
	parent := NewGameObject("parent", WithPosition(10, 0, 0), WithScale(4, 1, 1))
	child := NewGameObject("child", WithParent(parent), WithPosition(0, 0, 1), WithScale(1, 2, 1))
	parent.Sync()
	child.Sync()

	// The parent's non-uniform scale does not stretch the child's offset.
	assertVec(t, mgl32.Vec3{10, 0, 1}, child.WorldPosition())
	assertVec(t, mgl32.Vec3{4, 2, 1}, child.TotalScale())

	corner := child.World().Mul4x1(mgl32.Vec4{1, 1, 0, 1}).Vec3()
	assertVec(t, mgl32.Vec3{14, 2, 1}, corner)
}

func TestSyncComposesRotation(t *testing.T) {
	parent := NewGameObject("parent", WithRotation(0, 90, 0))
	child := NewGameObject("child", WithParent(parent), WithPosition(0, 0, -2), WithRotation(0, 90, 0))
	parent.Sync()
	child.Sync()

	assertVec(t, mgl32.Vec3{-2, 0, 0}, child.WorldPosition())
	assertVec(t, mgl32.Vec3{0, 0, 1}, child.Forward())
	wantRot, gotRot := mgl32.HomogRotate3DY(mgl32.DegToRad(180)), child.RotationOnly()
	assert.InDeltaSlice(t, wantRot[:], gotRot[:], eps)
}

func TestSyncUsesParentsLastSyncedState(t *testing.T) {
	parent := NewGameObject("parent", WithPosition(1, 0, 0))
	child := NewGameObject("child", WithParent(parent))
	parent.Sync()
	parent.SetPosition(mgl32.Vec3{5, 0, 0})
	child.Sync()
	assertVec(t, mgl32.Vec3{1, 0, 0}, child.WorldPosition())

	parent.Sync()
	child.Sync()
	assertVec(t, mgl32.Vec3{5, 0, 0}, child.WorldPosition())
}

func TestSetParentRejectsCycles(t *testing.T) {
	a := NewGameObject("a")
	b := NewGameObject("b", WithParent(a))
	c := NewGameObject("c", WithParent(b))

	assert.Panics(t, func() { a.SetParent(c) })
	assert.Panics(t, func() { a.SetParent(a) })
	assert.Nil(t, a.Parent())

	c.SetParent(nil)
	assert.Nil(t, c.Parent())
	assert.NotPanics(t, func() { a.SetParent(c) })
}

func TestDrawable(t *testing.T) {
	s := shader.NewShader("lit", "src")
	g := NewGameObject("cube", WithMesh(model.Cube("cube", 1)))
	assert.False(t, g.Drawable())
	g.SetMaterial(material.NewMaterial("white", s))
	assert.True(t, g.Drawable())

	g.SetHidden(true)
	assert.True(t, g.Hidden())
}

func TestBehaviourLifecycle(t *testing.T) {
	var calls []string
	b := &BehaviourFuncs{
		OnAwake:   func(GameObject) { calls = append(calls, "awake") },
		OnStart:   func(GameObject) { calls = append(calls, "start") },
		OnUpdate:  func(_ GameObject, dt float32) { calls = append(calls, "update") },
		OnLate:    func(GameObject, float32) { calls = append(calls, "late") },
		OnDestroy: func(GameObject) { calls = append(calls, "destroy") },
	}
	g := NewGameObject("scripted", WithBehaviours(b, &BehaviourFuncs{}))
	g.Awake()
	g.Start()
	g.Update(0.016)
	g.Late(0.016)
	g.Destroy()
	assert.Equal(t, []string{"awake", "start", "update", "late", "destroy"}, calls)

	assert.True(t, g.RemoveBehaviour(b))
	assert.False(t, g.RemoveBehaviour(b))
	assert.Len(t, g.Behaviours(), 1)
}

func TestSpin(t *testing.T) {
	g := NewGameObject("spinner", WithBehaviours(Spin(0, 90, 0)))
	g.Update(0.5)
	g.Update(0.5)
	assertVec(t, mgl32.Vec3{0, 90, 0}, g.Rotation())
}
