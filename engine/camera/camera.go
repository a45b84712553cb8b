package camera

import (
	"errors"
	"sync"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/game_object"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvalidProjection is returned when a projection parameter is not strictly positive.
var ErrInvalidProjection = errors.New("camera: projection parameters must be positive")

const (
	DefaultFov    = 60
	DefaultAspect = 1
	DefaultNear   = 0.1
	DefaultFar    = 1000
)

var (
	forward = mgl32.Vec4{0, 0, -1, 0}
	right   = mgl32.Vec4{1, 0, 0, 0}
	up      = mgl32.Vec4{0, 1, 0, 0}
	origin  = mgl32.Vec4{0, 0, 0, 1}
)

type cameraImpl struct {
	mu *sync.Mutex

	fov    float32
	aspect float32
	near   float32
	far    float32

	following     game_object.GameObject
	localPosition mgl32.Vec3
	localRotation mgl32.Vec3

	position        mgl32.Vec3
	rotation        mgl32.Vec3
	viewDirection   mgl32.Vec3
	strafeDirection mgl32.Vec3
	flyDirection    mgl32.Vec3

	view       mgl32.Mat4
	projection mgl32.Mat4
}

// Camera defines the interface for the scene camera. The camera either follows a GameObject, taking
// its synced transforms as a base, or stands on its own local transform. Adjust recomputes the
// world placement and view matrix once per frame after the scene hierarchy has been synced.
type Camera interface {
	// Fov returns the vertical field of view in degrees.
	//
	// Returns:
	//   - float32: field of view in degrees
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// SetProjection replaces every projection parameter at once and rebuilds the projection matrix
	// if any of them changed.
	//
	// Parameters:
	//   - fov: vertical field of view in degrees
	//   - aspect: width / height
	//   - near: near plane distance
	//   - far: far plane distance
	//
	// Returns:
	//   - error: ErrInvalidProjection if any value is not strictly positive
	SetProjection(fov, aspect, near, far float32) error

	// SetAspect changes the aspect ratio only. Used on window resize.
	//
	// Parameters:
	//   - aspect: width / height
	//
	// Returns:
	//   - error: ErrInvalidProjection if aspect is not strictly positive
	SetAspect(aspect float32) error

	// Following returns the followed object, or nil.
	//
	// Returns:
	//   - game_object.GameObject: the followed object
	Following() game_object.GameObject

	// Follow attaches the camera to an object. Nil detaches it.
	//
	// Parameters:
	//   - obj: the object to follow
	Follow(obj game_object.GameObject)

	// LocalPosition returns the offset from the followed object, or the world position when free.
	//
	// Returns:
	//   - mgl32.Vec3: the offset
	LocalPosition() mgl32.Vec3

	// SetLocalPosition sets the offset from the followed object.
	//
	// Parameters:
	//   - p: the offset
	SetLocalPosition(p mgl32.Vec3)

	// LocalRotation returns the Euler rotation in degrees relative to the followed object.
	//
	// Returns:
	//   - mgl32.Vec3: the rotation
	LocalRotation() mgl32.Vec3

	// SetLocalRotation sets the Euler rotation in degrees relative to the followed object.
	//
	// Parameters:
	//   - r: the rotation
	SetLocalRotation(r mgl32.Vec3)

	// Adjust recomputes the world placement, the direction vectors and the view matrix.
	Adjust()

	// Reset restores the default projection, detaches the camera and clears its local transform.
	Reset()

	// Position returns the world position computed by the last Adjust.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// Rotation returns the accumulated Euler rotation of the camera and every followed ancestor.
	//
	// Returns:
	//   - mgl32.Vec3: the rotation in degrees
	Rotation() mgl32.Vec3

	// ViewDirection returns the world direction the camera looks at.
	//
	// Returns:
	//   - mgl32.Vec3: unit direction
	ViewDirection() mgl32.Vec3

	// StrafeDirection returns the camera's world right axis.
	//
	// Returns:
	//   - mgl32.Vec3: unit direction
	StrafeDirection() mgl32.Vec3

	// FlyDirection returns the camera's world up axis.
	//
	// Returns:
	//   - mgl32.Vec3: unit direction
	FlyDirection() mgl32.Vec3

	// View returns the world to view matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	View() mgl32.Mat4

	// Projection returns the view to clip matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	Projection() mgl32.Mat4

	// ScreenToWorldRay converts a point in window pixels into a world direction from the camera.
	//
	// Parameters:
	//   - x, y: pixel coordinates, origin at the top-left
	//   - width, height: window size in pixels
	//
	// Returns:
	//   - mgl32.Vec3: unit direction
	ScreenToWorldRay(x, y, width, height float32) mgl32.Vec3

	// Uniform packs the camera for GPU upload.
	//
	// Returns:
	//   - GPUCameraUniform: the packed uniform
	Uniform() GPUCameraUniform
}

var _ Camera = &cameraImpl{}

// NewCamera creates a free camera at the origin looking down -Z.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{mu: &sync.Mutex{}}
	c.reset()
	for _, option := range options {
		option(c)
	}
	c.projection = common.Perspective(mgl32.DegToRad(c.fov), c.aspect, c.near, c.far)
	c.adjust()
	return c
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) SetProjection(fov, aspect, near, far float32) error {
	if fov <= 0 || aspect <= 0 || near <= 0 || far <= 0 {
		return ErrInvalidProjection
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if fov == c.fov && aspect == c.aspect && near == c.near && far == c.far {
		return nil
	}
	c.fov, c.aspect, c.near, c.far = fov, aspect, near, far
	c.projection = common.Perspective(mgl32.DegToRad(fov), aspect, near, far)
	return nil
}

func (c *cameraImpl) SetAspect(aspect float32) error {
	c.mu.Lock()
	fov, near, far := c.fov, c.near, c.far
	c.mu.Unlock()
	return c.SetProjection(fov, aspect, near, far)
}

func (c *cameraImpl) Following() game_object.GameObject {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.following
}

func (c *cameraImpl) Follow(obj game_object.GameObject) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.following = obj
}

func (c *cameraImpl) LocalPosition() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.localPosition
}

func (c *cameraImpl) SetLocalPosition(p mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.localPosition = p
}

func (c *cameraImpl) LocalRotation() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.localRotation
}

func (c *cameraImpl) SetLocalRotation(r mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.localRotation = r
}

func (c *cameraImpl) Adjust() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.adjust()
}

func (c *cameraImpl) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
	c.projection = common.Perspective(mgl32.DegToRad(c.fov), c.aspect, c.near, c.far)
	c.adjust()
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) Rotation() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rotation
}

func (c *cameraImpl) ViewDirection() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewDirection
}

func (c *cameraImpl) StrafeDirection() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.strafeDirection
}

func (c *cameraImpl) FlyDirection() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flyDirection
}

func (c *cameraImpl) View() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

func (c *cameraImpl) Projection() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

func (c *cameraImpl) ScreenToWorldRay(x, y, width, height float32) mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	clip := mgl32.Vec4{2*x/width - 1, 1 - 2*y/height, 0, 1}
	eye := c.projection.Inv().Mul4x1(clip)
	eye = mgl32.Vec4{eye[0], eye[1], -1, 0}
	return c.view.Inv().Mul4x1(eye).Vec3().Normalize()
}

func (c *cameraImpl) Uniform() GPUCameraUniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return GPUCameraUniform{
		ViewProj:       c.projection.Mul4(c.view),
		CameraPosition: c.position,
	}
}

// reset restores the construction defaults. Caller must hold the mutex.
func (c *cameraImpl) reset() {
	c.fov, c.aspect, c.near, c.far = DefaultFov, DefaultAspect, DefaultNear, DefaultFar
	c.following = nil
	c.localPosition = mgl32.Vec3{}
	c.localRotation = mgl32.Vec3{}
}

// adjust derives the world placement from the followed object's last synced transforms.
// Caller must hold the mutex.
func (c *cameraImpl) adjust() {
	transform, rotate := mgl32.Ident4(), mgl32.Ident4()
	rotation := c.localRotation
	if c.following != nil {
		transform = c.following.ScaleInvariant()
		rotate = c.following.RotationOnly()
		for p := c.following; p != nil; p = p.Parent() {
			rotation = rotation.Add(p.Rotation())
		}
	}
	transform = common.Euler(common.Translate(transform, c.localPosition), c.localRotation)
	rotate = common.Euler(rotate, c.localRotation)

	c.position = transform.Mul4x1(origin).Vec3()
	c.rotation = rotation
	c.viewDirection = rotate.Mul4x1(forward).Vec3()
	c.strafeDirection = rotate.Mul4x1(right).Vec3()
	c.flyDirection = rotate.Mul4x1(up).Vec3()
	c.view = mgl32.LookAtV(c.position, c.position.Add(c.viewDirection), c.flyDirection)
}
