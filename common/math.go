package common

import (
	"unsafe"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), int(size)*len(data))
}

// EulerRotation builds the rotation matrix for Euler angles given in degrees.
// The axes are composed as Ry * Rx * Rz, so Z is applied first and Y last.
//
// Parameters:
//   - degrees: rotation around X, Y and Z in degrees
//
// Returns:
//   - mgl32.Mat4: the composed rotation matrix
func EulerRotation(degrees mgl32.Vec3) mgl32.Mat4 {
	rx := mgl32.HomogRotate3DX(mgl32.DegToRad(degrees.X()))
	ry := mgl32.HomogRotate3DY(mgl32.DegToRad(degrees.Y()))
	rz := mgl32.HomogRotate3DZ(mgl32.DegToRad(degrees.Z()))
	return ry.Mul4(rx).Mul4(rz)
}

// Euler post-multiplies m by the Euler rotation for the given degrees.
//
// Parameters:
//   - m: base transform
//   - degrees: rotation around X, Y and Z in degrees
//
// Returns:
//   - mgl32.Mat4: m * EulerRotation(degrees)
func Euler(m mgl32.Mat4, degrees mgl32.Vec3) mgl32.Mat4 {
	if degrees == (mgl32.Vec3{}) {
		return m
	}
	return m.Mul4(EulerRotation(degrees))
}

// Translate post-multiplies m by a translation.
//
// Parameters:
//   - m: base transform
//   - v: translation
//
// Returns:
//   - mgl32.Mat4: m * T(v)
func Translate(m mgl32.Mat4, v mgl32.Vec3) mgl32.Mat4 {
	return m.Mul4(mgl32.Translate3D(v.X(), v.Y(), v.Z()))
}

// Scale post-multiplies m by a per-axis scale.
//
// Parameters:
//   - m: base transform
//   - s: scale factors for X, Y and Z
//
// Returns:
//   - mgl32.Mat4: m * S(s)
func Scale(m mgl32.Mat4, s mgl32.Vec3) mgl32.Mat4 {
	return m.Mul4(mgl32.Scale3D(s.X(), s.Y(), s.Z()))
}

// NormalMatrix returns the inverse transpose of the model matrix, used to carry normals
// into world space under non-uniform scale. A singular model yields the identity.
//
// Parameters:
//   - model: the world transform
//
// Returns:
//   - mgl32.Mat4: the normal matrix with translation cleared
func NormalMatrix(model mgl32.Mat4) mgl32.Mat4 {
	if model.Det() == 0 {
		return mgl32.Ident4()
	}
	n := model.Inv().Transpose()
	n[3], n[7], n[11] = 0, 0, 0
	n[12], n[13], n[14] = 0, 0, 0
	n[15] = 1
	return n
}

// Position extracts the translation column of a transform.
//
// Parameters:
//   - m: the transform
//
// Returns:
//   - mgl32.Vec3: the translation part
func Position(m mgl32.Mat4) mgl32.Vec3 {
	return mgl32.Vec3{m[12], m[13], m[14]}
}

// Perspective builds a right-handed perspective projection with a [0, 1] depth range,
// matching WebGPU clip space.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: width / height
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - mgl32.Mat4: the projection matrix
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1 / math32.Tan(fovY/2)
	var out mgl32.Mat4
	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1
	out[14] = (near * far) / (near - far)
	return out
}
