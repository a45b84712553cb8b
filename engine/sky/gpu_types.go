package sky

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUAmbient is the per-frame ambient uniform: ambient color and power, fog and the sky color used
// as the fog target. Size: 48 bytes.
type GPUAmbient struct {
	Ambient     [4]float32 // offset 0
	Power       float32    // offset 16
	FogDensity  float32    // offset 20
	FogGradient float32    // offset 24
	_           float32    // offset 28
	SkyColor    [4]float32 // offset 32
}

// Size returns the size of the GPUAmbient struct in bytes.
func (g *GPUAmbient) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUAmbient struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 48-byte buffer
func (g *GPUAmbient) Marshal() []byte {
	buf := make([]byte, 48)
	put := func(off int, v float32) {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
	}
	for i, v := range g.Ambient {
		put(i*4, v)
	}
	put(16, g.Power)
	put(20, g.FogDensity)
	put(24, g.FogGradient)
	for i, v := range g.SkyColor {
		put(32+i*4, v)
	}
	return buf
}
