package light

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// MaxGPULights is the capacity of the light array in the frame uniform buffer.
// Scenes cannot expose more active light slots than this.
const MaxGPULights = 32

// GPULightSize is the size in bytes of one packed GPULight.
const GPULightSize = 48

// GPULightHeaderSize is the size in bytes of the header preceding the light array.
const GPULightHeaderSize = 16

// GPULight is the GPU-aligned representation of one selected light.
// Matches the WGSL Light struct in the renderer's lit shader (48 bytes, 16-byte aligned).
type GPULight struct {
	Position    [3]float32 // offset  0
	LightType   uint32     // offset 12: 0 = directional, 1 = point
	Color       [4]float32 // offset 16
	Attenuation [3]float32 // offset 32: constant, linear, quadratic
	Power       float32    // offset 44
}

// NewGPULight packs a light snapshot.
//
// Parameters:
//   - src: the snapshot
//
// Returns:
//   - GPULight: the packed light
func NewGPULight(src Source) GPULight {
	return GPULight{
		Position:    src.Position,
		LightType:   uint32(src.Type),
		Color:       src.Color.Array(),
		Attenuation: [3]float32{src.Attenuation.Constant, src.Attenuation.Linear, src.Attenuation.Quadratic},
		Power:       src.Power,
	}
}

// Size returns the size of the GPULight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (48)
func (g *GPULight) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULight into buf, which must hold at least GPULightSize bytes.
//
// Parameters:
//   - buf: destination buffer
func (g *GPULight) Marshal(buf []byte) {
	_ = buf[GPULightSize-1]
	putFloats(buf[0:12], g.Position[:])
	binary.LittleEndian.PutUint32(buf[12:16], g.LightType)
	putFloats(buf[16:32], g.Color[:])
	putFloats(buf[32:44], g.Attenuation[:])
	binary.LittleEndian.PutUint32(buf[44:48], math.Float32bits(g.Power))
}

// MarshalLights packs a header followed by MaxGPULights slots. Slots past len(lights) are zeroed.
// The header holds the number of lights followed by padding.
//
// Parameters:
//   - lights: the selected lights, at most MaxGPULights are packed
//
// Returns:
//   - []byte: GPULightHeaderSize + MaxGPULights*GPULightSize bytes
func MarshalLights(lights []Source) []byte {
	n := min(len(lights), MaxGPULights)
	buf := make([]byte, GPULightHeaderSize+MaxGPULights*GPULightSize)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(n))
	for i := range n {
		g := NewGPULight(lights[i])
		off := GPULightHeaderSize + i*GPULightSize
		g.Marshal(buf[off : off+GPULightSize])
	}
	return buf
}

func putFloats(dst []byte, src []float32) {
	for i, f := range src {
		binary.LittleEndian.PutUint32(dst[i*4:i*4+4], math.Float32bits(f))
	}
}
