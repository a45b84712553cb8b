package material

import (
	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/shader"
)

// material is the implementation of the Material interface.
type material struct {
	name      string
	shader    shader.Shader
	color     common.Color
	specular  float32
	shininess float32
	version   uint64
	resources bind_group_provider.BindGroupProvider
}

// Material defines the surface of a drawable: the shader that renders it and the uniform values that
// shader reads. Materials are the third grouping key when batching draws, so objects sharing a
// material reuse one bind group.
//
// Surface properties may change at runtime; every change bumps Version so the backend knows to
// rewrite the material's uniform buffer.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Shader retrieves the shader this material is drawn with.
	//
	// Returns:
	//   - shader.Shader: the shader, never nil
	Shader() shader.Shader

	// Color retrieves the base color of the material.
	//
	// Returns:
	//   - common.Color: the base color
	Color() common.Color

	// Specular retrieves the specular intensity.
	//
	// Returns:
	//   - float32: the specular intensity in [0,1]
	Specular() float32

	// Shininess retrieves the specular exponent.
	//
	// Returns:
	//   - float32: the exponent
	Shininess() float32

	// Version returns a counter bumped by every surface change.
	//
	// Returns:
	//   - uint64: the version
	Version() uint64

	// SetColor sets the base color.
	//
	// Parameters:
	//   - c: the new color
	SetColor(c common.Color)

	// SetSpecular sets the specular intensity, clamped to [0,1].
	//
	// Parameters:
	//   - s: the new intensity
	SetSpecular(s float32)

	// SetShininess sets the specular exponent. Values below 1 are raised to 1.
	//
	// Parameters:
	//   - s: the new exponent
	SetShininess(s float32)

	// Uniform packs the surface properties for GPU upload.
	//
	// Returns:
	//   - GPUMaterial: the packed uniform
	Uniform() GPUMaterial

	// Resources retrieves the GPU resources the backend created for this material.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the resources, or nil if not yet initialized
	Resources() bind_group_provider.BindGroupProvider

	// SetResources stores the GPU resources for this material.
	//
	// Parameters:
	//   - provider: the resources
	SetResources(provider bind_group_provider.BindGroupProvider)
}

var _ Material = &material{}

// NewMaterial creates a new Material drawn with the given shader. Panics if the shader is nil.
//
// Parameters:
//   - name: the identifier for the material
//   - s: the shader to draw with
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(name string, s shader.Shader, options ...MaterialBuilderOption) Material {
	if s == nil {
		panic("material: shader must not be nil")
	}
	m := &material{
		name:      name,
		shader:    s,
		color:     common.ColorWhite,
		specular:  0.5,
		shininess: 32,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Shader() shader.Shader {
	return m.shader
}

func (m *material) Color() common.Color {
	return m.color
}

func (m *material) Specular() float32 {
	return m.specular
}

func (m *material) Shininess() float32 {
	return m.shininess
}

func (m *material) Version() uint64 {
	return m.version
}

func (m *material) SetColor(c common.Color) {
	if c == m.color {
		return
	}
	m.color = c
	m.version++
}

func (m *material) SetSpecular(s float32) {
	s = common.Clamp(s, 0, 1)
	if s == m.specular {
		return
	}
	m.specular = s
	m.version++
}

func (m *material) SetShininess(s float32) {
	s = max(s, 1)
	if s == m.shininess {
		return
	}
	m.shininess = s
	m.version++
}

func (m *material) Uniform() GPUMaterial {
	return GPUMaterial{
		Color:     m.color.Array(),
		Specular:  m.specular,
		Shininess: m.shininess,
	}
}

func (m *material) Resources() bind_group_provider.BindGroupProvider {
	return m.resources
}

func (m *material) SetResources(provider bind_group_provider.BindGroupProvider) {
	m.resources = provider
}
