// Package common contains plain value types and helpers shared across the engine.
// They are not interface-wrapped; they express commonly used data only.
package common

import "github.com/go-gl/mathgl/mgl32"

// Color is a linear RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

var (
	// ColorBlack is opaque black.
	ColorBlack = Color{0, 0, 0, 1}
	// ColorWhite is opaque white.
	ColorWhite = Color{1, 1, 1, 1}
	// ColorGray is opaque mid gray.
	ColorGray = Color{0.5, 0.5, 0.5, 1}
	// ColorDeepSky is the light blue used by the default skybox.
	ColorDeepSky = Color{0.529, 0.808, 0.922, 1}
)

// NewColor returns an opaque color from RGB components.
func NewColor(r, g, b float32) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// Lerp interpolates between c and o component-wise.
//
// Parameters:
//   - o: the target color
//   - t: interpolation factor, 0 returns c and 1 returns o
//
// Returns:
//   - Color: the interpolated color
func (c Color) Lerp(o Color, t float32) Color {
	return Color{
		R: c.R + (o.R-c.R)*t,
		G: c.G + (o.G-c.G)*t,
		B: c.B + (o.B-c.B)*t,
		A: c.A + (o.A-c.A)*t,
	}
}

// Vec4 returns the color as an mgl32 vector.
func (c Color) Vec4() mgl32.Vec4 {
	return mgl32.Vec4{c.R, c.G, c.B, c.A}
}

// Array returns the color as a flat array for GPU packing.
func (c Color) Array() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}
