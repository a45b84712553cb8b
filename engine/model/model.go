package model

import (
	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/bind_group_provider"
	"github.com/chewxy/math32"
)

// model is the implementation of the Model interface.
type model struct {
	name           string
	vertices       []Vertex
	indices        []uint32
	boundingRadius float32
	meshProvider   bind_group_provider.BindGroupProvider
}

// Model defines the interface for an indexed triangle mesh. A Model is the second grouping key when
// batching draws: every object sharing a model is drawn from the same vertex and index buffers.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Vertices returns the mesh vertices.
	//
	// Returns:
	//   - []Vertex: the vertices, owned by the model
	Vertices() []Vertex

	// Indices returns the triangle list indices.
	//
	// Returns:
	//   - []uint32: the indices, owned by the model
	Indices() []uint32

	// VertexData returns the vertex data packed for GPU upload.
	//
	// Returns:
	//   - []byte: the vertex data
	VertexData() []byte

	// IndexData returns the index data packed for GPU upload.
	//
	// Returns:
	//   - []byte: the index data
	IndexData() []byte

	// IndexCount returns the number of indices in the model's mesh.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// BoundingRadius returns the distance from the model origin to its farthest vertex.
	//
	// Returns:
	//   - float32: the radius
	BoundingRadius() float32

	// MeshProvider retrieves the GPU mesh resources created by the renderer backend.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the mesh provider, or nil before the first draw
	MeshProvider() bind_group_provider.BindGroupProvider

	// SetMeshProvider stores the GPU mesh resources.
	//
	// Parameters:
	//   - provider: the mesh provider
	SetMeshProvider(provider bind_group_provider.BindGroupProvider)
}

var _ Model = &model{}

// NewModel creates a new Model. Panics if an index references a vertex that does not exist or if the
// index count is not a multiple of three.
//
// Parameters:
//   - name: the model identifier
//   - options: variadic list of ModelBuilderOption functions
//
// Returns:
//   - Model: the new model
func NewModel(name string, options ...ModelBuilderOption) Model {
	m := &model{name: name}
	for _, opt := range options {
		opt(m)
	}
	if len(m.indices)%3 != 0 {
		panic("model: index count must be a multiple of 3")
	}
	for _, i := range m.indices {
		if int(i) >= len(m.vertices) {
			panic("model: index out of range")
		}
	}
	for _, v := range m.vertices {
		p := v.Position
		m.boundingRadius = math32.Max(m.boundingRadius, math32.Sqrt(p[0]*p[0]+p[1]*p[1]+p[2]*p[2]))
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Vertices() []Vertex {
	return m.vertices
}

func (m *model) Indices() []uint32 {
	return m.indices
}

func (m *model) VertexData() []byte {
	return common.SliceToBytes(m.vertices)
}

func (m *model) IndexData() []byte {
	return common.SliceToBytes(m.indices)
}

func (m *model) IndexCount() int {
	return len(m.indices)
}

func (m *model) BoundingRadius() float32 {
	return m.boundingRadius
}

func (m *model) MeshProvider() bind_group_provider.BindGroupProvider {
	return m.meshProvider
}

func (m *model) SetMeshProvider(provider bind_group_provider.BindGroupProvider) {
	m.meshProvider = provider
}
