package material

import "github.com/Carmen-Shannon/oxy-scene/common"

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithColor is an option builder that sets the base color of the material.
//
// Parameters:
//   - color: the base color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the color option to a material
func WithColor(color common.Color) MaterialBuilderOption {
	return func(m *material) {
		m.color = color
	}
}

// WithSpecular is an option builder that sets the specular intensity, clamped to [0,1].
//
// Parameters:
//   - specular: the specular intensity
//
// Returns:
//   - MaterialBuilderOption: a function that applies the specular option to a material
func WithSpecular(specular float32) MaterialBuilderOption {
	return func(m *material) {
		m.specular = common.Clamp(specular, 0, 1)
	}
}

// WithShininess is an option builder that sets the specular exponent. Values below 1 are raised to 1.
//
// Parameters:
//   - shininess: the specular exponent
//
// Returns:
//   - MaterialBuilderOption: a function that applies the shininess option to a material
func WithShininess(shininess float32) MaterialBuilderOption {
	return func(m *material) {
		m.shininess = max(shininess, 1)
	}
}
