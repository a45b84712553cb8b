package game_object

import (
	"github.com/Carmen-Shannon/oxy-scene/engine/model"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithParent sets the parent of the GameObject.
//
// Parameters:
//   - parent: the parent object
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the parent
func WithParent(parent GameObject) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.SetParent(parent)
	}
}

// WithHidden sets whether the GameObject is skipped when drawing.
//
// Parameters:
//   - hidden: true to skip the object
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the hidden state
func WithHidden(hidden bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.hidden.Store(hidden)
	}
}

// WithMesh sets the model drawn for the GameObject.
//
// Parameters:
//   - m: the model
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the mesh
func WithMesh(m model.Model) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.mesh = m
	}
}

// WithMaterial sets the material drawn for the GameObject.
//
// Parameters:
//   - m: the material
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the material
func WithMaterial(m material.Material) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.material = m
	}
}

// WithPosition sets the local translation of the GameObject.
//
// Parameters:
//   - x, y, z: translation components
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the position
func WithPosition(x, y, z float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.position = mgl32.Vec3{x, y, z}
	}
}

// WithScale sets the local per-axis scale of the GameObject.
//
// Parameters:
//   - sx, sy, sz: scale components
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the scale
func WithScale(sx, sy, sz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.scale = mgl32.Vec3{sx, sy, sz}
	}
}

// WithRotation sets the local Euler rotation of the GameObject in degrees.
//
// Parameters:
//   - rx, ry, rz: rotation around X, Y and Z
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the rotation
func WithRotation(rx, ry, rz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.rotation = mgl32.Vec3{rx, ry, rz}
	}
}

// WithBehaviours attaches behaviours to the GameObject.
//
// Parameters:
//   - behaviours: the behaviours, run in order
//
// Returns:
//   - GameObjectBuilderOption: functional option to attach the behaviours
func WithBehaviours(behaviours ...Behaviour) GameObjectBuilderOption {
	return func(obj *gameObject) {
		for _, b := range behaviours {
			obj.AddBehaviour(b)
		}
	}
}
