package game_object

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/model"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	forward = mgl32.Vec4{0, 0, -1, 0}
	right   = mgl32.Vec4{1, 0, 0, 0}
	up      = mgl32.Vec4{0, 1, 0, 0}
)

type gameObject struct {
	id     uint64
	name   string
	parent GameObject
	hidden atomic.Bool

	mesh     model.Model
	material material.Material

	// local transform
	position mgl32.Vec3
	rotation mgl32.Vec3
	scale    mgl32.Vec3

	// world state written by Sync
	scaleInvariant mgl32.Mat4
	rotationOnly   mgl32.Mat4
	totalScale     mgl32.Vec3
	world          mgl32.Mat4

	behaviours []Behaviour
}

// GameObject defines the interface for a node of the scene hierarchy. A GameObject holds a local
// transform relative to its optional parent and, after Sync, the derived world transforms used for
// rendering. Parents are non-owning references; the scene owns every object.
type GameObject interface {
	// ID returns the identifier the scene assigned when the object was added.
	//
	// Returns:
	//   - uint64: the object ID, 0 if the object was never added to a scene
	ID() uint64

	// SetID sets the object's identifier. Called by the scene.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id uint64)

	// Name returns the object's name.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Parent returns the parent object, or nil for a root.
	//
	// Returns:
	//   - GameObject: the parent or nil
	Parent() GameObject

	// SetParent re-parents the object. Panics if the new parent is the object itself or one of its
	// descendants.
	//
	// Parameters:
	//   - parent: the new parent, or nil to make the object a root
	SetParent(parent GameObject)

	// Position returns the local translation.
	//
	// Returns:
	//   - mgl32.Vec3: the translation
	Position() mgl32.Vec3

	// SetPosition sets the local translation.
	//
	// Parameters:
	//   - p: the new translation
	SetPosition(p mgl32.Vec3)

	// Translate offsets the local translation.
	//
	// Parameters:
	//   - delta: the offset
	Translate(delta mgl32.Vec3)

	// Rotation returns the local Euler rotation in degrees.
	//
	// Returns:
	//   - mgl32.Vec3: rotation around X, Y and Z
	Rotation() mgl32.Vec3

	// SetRotation sets the local Euler rotation in degrees.
	//
	// Parameters:
	//   - r: rotation around X, Y and Z
	SetRotation(r mgl32.Vec3)

	// Rotate adds to the local Euler rotation.
	//
	// Parameters:
	//   - delta: degrees to add around X, Y and Z
	Rotate(delta mgl32.Vec3)

	// Scale returns the local per-axis scale.
	//
	// Returns:
	//   - mgl32.Vec3: the scale
	Scale() mgl32.Vec3

	// SetScale sets the local per-axis scale.
	//
	// Parameters:
	//   - s: the new scale
	SetScale(s mgl32.Vec3)

	// Mesh returns the model drawn for this object.
	//
	// Returns:
	//   - model.Model: the model or nil
	Mesh() model.Model

	// SetMesh sets the model drawn for this object.
	//
	// Parameters:
	//   - m: the model, or nil
	SetMesh(m model.Model)

	// Material returns the material drawn for this object.
	//
	// Returns:
	//   - material.Material: the material or nil
	Material() material.Material

	// SetMaterial sets the material drawn for this object.
	//
	// Parameters:
	//   - m: the material, or nil
	SetMaterial(m material.Material)

	// Drawable reports whether the object has both a mesh and a material.
	//
	// Returns:
	//   - bool: true if the object can be drawn
	Drawable() bool

	// Hidden reports whether rendering of this object is disabled.
	//
	// Returns:
	//   - bool: true if hidden
	Hidden() bool

	// SetHidden enables or disables rendering of this object. Safe to call from any goroutine.
	//
	// Parameters:
	//   - hidden: true to skip the object when drawing
	SetHidden(hidden bool)

	// Sync recomputes the world transforms from the parent's last synced state and the local
	// transform. The parent must be synced first in the same frame.
	Sync()

	// World returns the model transform computed by the last Sync.
	//
	// Returns:
	//   - mgl32.Mat4: the model transform
	World() mgl32.Mat4

	// ScaleInvariant returns the world transform without any scale.
	//
	// Returns:
	//   - mgl32.Mat4: translation and rotation only
	ScaleInvariant() mgl32.Mat4

	// RotationOnly returns the accumulated world rotation.
	//
	// Returns:
	//   - mgl32.Mat4: the rotation
	RotationOnly() mgl32.Mat4

	// TotalScale returns the accumulated per-axis scale.
	//
	// Returns:
	//   - mgl32.Vec3: the scale
	TotalScale() mgl32.Vec3

	// WorldPosition returns the world position computed by the last Sync.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	WorldPosition() mgl32.Vec3

	// Forward returns the world -Z axis of the object.
	//
	// Returns:
	//   - mgl32.Vec3: unit direction
	Forward() mgl32.Vec3

	// Right returns the world +X axis of the object.
	//
	// Returns:
	//   - mgl32.Vec3: unit direction
	Right() mgl32.Vec3

	// Up returns the world +Y axis of the object.
	//
	// Returns:
	//   - mgl32.Vec3: unit direction
	Up() mgl32.Vec3

	// AddBehaviour attaches a behaviour. Behaviours run in attachment order.
	//
	// Parameters:
	//   - b: the behaviour
	AddBehaviour(b Behaviour)

	// RemoveBehaviour detaches a behaviour.
	//
	// Parameters:
	//   - b: the behaviour
	//
	// Returns:
	//   - bool: true if the behaviour was attached
	RemoveBehaviour(b Behaviour) bool

	// Behaviours returns the attached behaviours.
	//
	// Returns:
	//   - []Behaviour: the behaviours, owned by the object
	Behaviours() []Behaviour

	// Awake runs every behaviour's Awake hook.
	Awake()

	// Start runs every behaviour's Start hook.
	Start()

	// Update runs every behaviour's Update hook.
	//
	// Parameters:
	//   - dt: frame time in seconds
	Update(dt float32)

	// Late runs every behaviour's Late hook.
	//
	// Parameters:
	//   - dt: frame time in seconds
	Late(dt float32)

	// Destroy runs every behaviour's Destroy hook.
	Destroy()
}

var _ GameObject = &gameObject{}

// NewGameObject creates a root GameObject at the origin with unit scale.
//
// Parameters:
//   - name: the object name, used by Scene.Find
//   - options: variadic list of GameObjectBuilderOption functions
//
// Returns:
//   - GameObject: the new object
func NewGameObject(name string, options ...GameObjectBuilderOption) GameObject {
	g := &gameObject{
		name:           name,
		scale:          mgl32.Vec3{1, 1, 1},
		scaleInvariant: mgl32.Ident4(),
		rotationOnly:   mgl32.Ident4(),
		totalScale:     mgl32.Vec3{1, 1, 1},
		world:          mgl32.Ident4(),
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) SetID(id uint64) {
	g.id = id
}

func (g *gameObject) Name() string {
	return g.name
}

func (g *gameObject) Parent() GameObject {
	return g.parent
}

func (g *gameObject) SetParent(parent GameObject) {
	for p := parent; p != nil; p = p.Parent() {
		if p == GameObject(g) {
			panic("game_object: " + g.name + " cannot be parented to itself or a descendant")
		}
	}
	g.parent = parent
}

func (g *gameObject) Position() mgl32.Vec3 {
	return g.position
}

func (g *gameObject) SetPosition(p mgl32.Vec3) {
	g.position = p
}

func (g *gameObject) Translate(delta mgl32.Vec3) {
	g.position = g.position.Add(delta)
}

func (g *gameObject) Rotation() mgl32.Vec3 {
	return g.rotation
}

func (g *gameObject) SetRotation(r mgl32.Vec3) {
	g.rotation = r
}

func (g *gameObject) Rotate(delta mgl32.Vec3) {
	g.rotation = g.rotation.Add(delta)
}

func (g *gameObject) Scale() mgl32.Vec3 {
	return g.scale
}

func (g *gameObject) SetScale(s mgl32.Vec3) {
	g.scale = s
}

func (g *gameObject) Mesh() model.Model {
	return g.mesh
}

func (g *gameObject) SetMesh(m model.Model) {
	g.mesh = m
}

func (g *gameObject) Material() material.Material {
	return g.material
}

func (g *gameObject) SetMaterial(m material.Material) {
	g.material = m
}

func (g *gameObject) Drawable() bool {
	return g.mesh != nil && g.material != nil
}

func (g *gameObject) Hidden() bool {
	return g.hidden.Load()
}

func (g *gameObject) SetHidden(hidden bool) {
	g.hidden.Store(hidden)
}

func (g *gameObject) Sync() {
	tsi, rot, total := mgl32.Ident4(), mgl32.Ident4(), mgl32.Vec3{1, 1, 1}
	if g.parent != nil {
		tsi = g.parent.ScaleInvariant()
		rot = g.parent.RotationOnly()
		total = g.parent.TotalScale()
	}

	g.scaleInvariant = common.Euler(common.Translate(tsi, g.position), g.rotation)
	g.rotationOnly = common.Euler(rot, g.rotation)
	g.totalScale = mgl32.Vec3{total[0] * g.scale[0], total[1] * g.scale[1], total[2] * g.scale[2]}
	g.world = common.Scale(g.scaleInvariant, g.totalScale)
}

func (g *gameObject) World() mgl32.Mat4 {
	return g.world
}

func (g *gameObject) ScaleInvariant() mgl32.Mat4 {
	return g.scaleInvariant
}

func (g *gameObject) RotationOnly() mgl32.Mat4 {
	return g.rotationOnly
}

func (g *gameObject) TotalScale() mgl32.Vec3 {
	return g.totalScale
}

func (g *gameObject) WorldPosition() mgl32.Vec3 {
	return common.Position(g.world)
}

func (g *gameObject) Forward() mgl32.Vec3 {
	return g.rotationOnly.Mul4x1(forward).Vec3()
}

func (g *gameObject) Right() mgl32.Vec3 {
	return g.rotationOnly.Mul4x1(right).Vec3()
}

func (g *gameObject) Up() mgl32.Vec3 {
	return g.rotationOnly.Mul4x1(up).Vec3()
}
