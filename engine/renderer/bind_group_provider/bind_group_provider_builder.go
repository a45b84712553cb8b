package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithBindGroupLayout sets the bind group layout for this provider.
//
// Parameters:
//   - bgl: the bind group layout to use for this provider
//
// Returns:
//   - BindGroupProviderOption: a function that sets the bind group layout for this provider
func WithBindGroupLayout(bgl *wgpu.BindGroupLayout) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.bindGroupLayout = bgl
	}
}

// WithBuffer sets a buffer for a specific binding index.
//
// Parameters:
//   - binding: the binding index for this buffer
//   - buf: the buffer to associate with this binding
//
// Returns:
//   - BindGroupProviderOption: a function that sets the buffer for the specified binding
func WithBuffer(binding int, buf *wgpu.Buffer) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.buffers[binding] = buf
	}
}

// WithMesh sets the vertex and index buffers of a mesh provider.
//
// Parameters:
//   - vertices: the vertex buffer
//   - indices: the index buffer
//   - count: the number of indices
//
// Returns:
//   - BindGroupProviderOption: a function that sets the mesh buffers
func WithMesh(vertices, indices *wgpu.Buffer, count int) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.vertexBuffer = vertices
		p.indexBuffer = indices
		p.indexCount = count
	}
}
