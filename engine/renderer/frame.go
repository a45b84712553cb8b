package renderer

import (
	"encoding/binary"
	"math"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/camera"
	"github.com/Carmen-Shannon/oxy-scene/engine/sky"
	"github.com/go-gl/mathgl/mgl32"
)

// ObjectUniformSize is the packed size of one ObjectUniform in bytes.
const ObjectUniformSize = 208

// ObjectStride is the distance between consecutive object uniforms in the object buffer.
// It matches the minimum uniform buffer offset alignment guaranteed by WebGPU.
const ObjectStride = 256

// FrameState is the read side of a scene that backends consult when a shader is bound.
// The three counters advance whenever the matching uniform data changes, so a backend
// only re-uploads what a shader has not seen yet.
type FrameState interface {
	// CameraState returns the camera version counter.
	CameraState() uint64

	// AmbientState returns the ambient (sky, fog, ambient light) version counter.
	AmbientState() uint64

	// LightingState returns the selected-lights version counter.
	LightingState() uint64

	// CameraUniform returns the packed camera uniform for the current frame.
	CameraUniform() camera.GPUCameraUniform

	// AmbientUniform returns the packed ambient uniform for the current frame.
	AmbientUniform() sky.GPUAmbient

	// LightsUniform returns the packed selected-light array.
	LightsUniform() []byte

	// ClipPlane returns the active clip plane, or the zero vector when clipping is off.
	ClipPlane() mgl32.Vec4
}

// Target is an off-screen render target created by a backend.
type Target interface {
	// Label returns the debug label the target was created with.
	Label() string

	// Width returns the target width in pixels.
	Width() int

	// Height returns the target height in pixels.
	Height() int
}

// ObjectUniform is the per-draw uniform block (208 bytes, 16-byte aligned).
type ObjectUniform struct {
	Model    [16]float32 // offset   0: model matrix
	Rotation [16]float32 // offset  64: rotation-only matrix
	Normal   [16]float32 // offset 128: inverse-transpose of the model matrix
	Color    [4]float32  // offset 192: material color
}

// NewObjectUniform builds the uniform for one draw.
//
// Parameters:
//   - model: the synced model matrix
//   - rotation: the synced rotation-only matrix
//   - color: the material color
//
// Returns:
//   - ObjectUniform: the packed uniform with its normal matrix derived from model
func NewObjectUniform(model, rotation mgl32.Mat4, color common.Color) ObjectUniform {
	return ObjectUniform{
		Model:    model,
		Rotation: rotation,
		Normal:   common.NormalMatrix(model),
		Color:    color.Array(),
	}
}

// Marshal serializes the uniform into buf, which must hold at least ObjectUniformSize bytes.
//
// Parameters:
//   - buf: destination buffer
func (u *ObjectUniform) Marshal(buf []byte) {
	_ = buf[ObjectUniformSize-1]
	off := 0
	for _, m := range [][]float32{u.Model[:], u.Rotation[:], u.Normal[:], u.Color[:]} {
		for _, f := range m {
			binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(f))
			off += 4
		}
	}
}
