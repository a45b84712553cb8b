package camera

import (
	"github.com/Carmen-Shannon/oxy-scene/engine/game_object"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraBuilderOption is a functional option for configuring a Camera during construction.
type CameraBuilderOption func(*cameraImpl)

// WithProjection sets the camera's projection parameters. Non-positive values keep the default.
//
// Parameters:
//   - fov: vertical field of view in degrees
//   - aspect: width / height
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the projection
func WithProjection(fov, aspect, near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if fov > 0 {
			c.fov = fov
		}
		if aspect > 0 {
			c.aspect = aspect
		}
		if near > 0 {
			c.near = near
		}
		if far > 0 {
			c.far = far
		}
	}
}

// WithFollow attaches the camera to a GameObject.
//
// Parameters:
//   - obj: the object to follow
//
// Returns:
//   - CameraBuilderOption: a function that sets the followed object
func WithFollow(obj game_object.GameObject) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.following = obj
	}
}

// WithLocalPosition sets the camera's offset from the followed object.
//
// Parameters:
//   - x, y, z: the offset
//
// Returns:
//   - CameraBuilderOption: a function that sets the local position
func WithLocalPosition(x, y, z float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.localPosition = mgl32.Vec3{x, y, z}
	}
}

// WithLocalRotation sets the camera's Euler rotation in degrees relative to the followed object.
//
// Parameters:
//   - rx, ry, rz: rotation around X, Y and Z
//
// Returns:
//   - CameraBuilderOption: a function that sets the local rotation
func WithLocalRotation(rx, ry, rz float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.localRotation = mgl32.Vec3{rx, ry, rz}
	}
}
