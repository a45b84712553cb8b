package model

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithVertices is an option builder that sets the mesh vertices.
//
// Parameters:
//   - vertices: the vertices
//
// Returns:
//   - ModelBuilderOption: a function that applies the vertices to a model
func WithVertices(vertices []Vertex) ModelBuilderOption {
	return func(m *model) {
		m.vertices = vertices
	}
}

// WithIndices is an option builder that sets the triangle list indices.
//
// Parameters:
//   - indices: the indices, three per triangle
//
// Returns:
//   - ModelBuilderOption: a function that applies the indices to a model
func WithIndices(indices []uint32) ModelBuilderOption {
	return func(m *model) {
		m.indices = indices
	}
}
