package material

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUMaterial is the GPU-aligned material uniform read by the lit shader's fragment stage.
// Size: 32 bytes (vec4 color, two scalars, 8 bytes padding).
type GPUMaterial struct {
	Color     [4]float32 // offset 0: RGBA base color
	Specular  float32    // offset 16: specular intensity
	Shininess float32    // offset 20: specular exponent
	_         [2]float32 // offset 24: padding to 16-byte alignment
}

// Size returns the size of the GPUMaterial struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUMaterial) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMaterial struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload.
func (g *GPUMaterial) Marshal() []byte {
	buf := make([]byte, 32)
	for i, v := range g.Color {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.Specular))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(g.Shininess))
	return buf
}
