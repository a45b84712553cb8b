package bind_group_provider

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	label string

	// GPU allocated resources, populated by the renderer backend and released through Release.
	bindGroup       *wgpu.BindGroup
	bindGroupLayout *wgpu.BindGroupLayout
	buffers         map[int]*wgpu.Buffer

	// Mesh resources. Only set for providers that back a model.
	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	indexCount   int

	// uploaded is the source version last written into the buffers.
	uploaded uint64
	written  bool
}

// BindGroupProvider holds the GPU resources the wgpu backend creates on behalf of a material, a model
// or the per-frame scene uniforms. The owning object stores the provider so the backend can find its
// resources again on the next frame without a lookup table.
//
// Usage pattern:
//  1. The backend creates a provider the first time it sees a material or model
//  2. The owner stores it via SetMeshProvider / SetResources
//  3. The backend compares Uploaded against the owner's version and rewrites buffers when stale
//  4. Release frees every GPU object when the owner is discarded or the backend shuts down
type BindGroupProvider interface {
	// Release releases any GPU resources held by this provider.
	Release()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// BindGroup returns the created bind group, or nil if GPU resources have not been initialized.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group
	BindGroup() *wgpu.BindGroup

	// BindGroupLayout returns the layout the bind group was created with.
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the layout, or nil
	BindGroupLayout() *wgpu.BindGroupLayout

	// Buffer returns the buffer at the given binding index.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer, or nil if none is set
	Buffer(binding int) *wgpu.Buffer

	// VertexBuffer returns the vertex buffer of a mesh provider.
	//
	// Returns:
	//   - *wgpu.Buffer: the vertex buffer, or nil
	VertexBuffer() *wgpu.Buffer

	// IndexBuffer returns the index buffer of a mesh provider.
	//
	// Returns:
	//   - *wgpu.Buffer: the index buffer, or nil
	IndexBuffer() *wgpu.Buffer

	// IndexCount returns the number of indices to draw.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// Uploaded reports the source version last written into the provider's buffers.
	//
	// Returns:
	//   - uint64: the version
	//   - bool: false if nothing has been written yet
	Uploaded() (uint64, bool)

	// MarkUploaded records that the buffers now hold the given source version.
	//
	// Parameters:
	//   - version: the version that was written
	MarkUploaded(version uint64)

	// SetBindGroup sets the bind group.
	//
	// Parameters:
	//   - bg: the bind group
	SetBindGroup(bg *wgpu.BindGroup)

	// SetBindGroupLayout sets the bind group layout.
	//
	// Parameters:
	//   - bgl: the layout
	SetBindGroupLayout(bgl *wgpu.BindGroupLayout)

	// SetBuffer sets the buffer at a binding index.
	//
	// Parameters:
	//   - binding: the binding index
	//   - buf: the buffer
	SetBuffer(binding int, buf *wgpu.Buffer)

	// SetVertexBuffer sets the vertex buffer.
	//
	// Parameters:
	//   - buf: the vertex buffer
	SetVertexBuffer(buf *wgpu.Buffer)

	// SetIndexBuffer sets the index buffer.
	//
	// Parameters:
	//   - buf: the index buffer
	SetIndexBuffer(buf *wgpu.Buffer)

	// SetIndexCount sets the number of indices for draw calls.
	//
	// Parameters:
	//   - count: the index count
	SetIndexCount(count int)
}

var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new BindGroupProvider with the provided options.
//
// Parameters:
//   - label: debug label of the provider
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: the new provider
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:   label,
		buffers: make(map[int]*wgpu.Buffer),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout {
	return p.bindGroupLayout
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) VertexBuffer() *wgpu.Buffer {
	return p.vertexBuffer
}

func (p *bindGroupProvider) IndexBuffer() *wgpu.Buffer {
	return p.indexBuffer
}

func (p *bindGroupProvider) IndexCount() int {
	return p.indexCount
}

func (p *bindGroupProvider) Uploaded() (uint64, bool) {
	return p.uploaded, p.written
}

func (p *bindGroupProvider) MarkUploaded(version uint64) {
	p.uploaded = version
	p.written = true
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBindGroupLayout(bgl *wgpu.BindGroupLayout) {
	p.bindGroupLayout = bgl
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	if p.buffers == nil {
		p.buffers = make(map[int]*wgpu.Buffer)
	}
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) SetVertexBuffer(buf *wgpu.Buffer) {
	p.vertexBuffer = buf
}

func (p *bindGroupProvider) SetIndexBuffer(buf *wgpu.Buffer) {
	p.indexBuffer = buf
}

func (p *bindGroupProvider) SetIndexCount(count int) {
	p.indexCount = count
}

func (p *bindGroupProvider) Release() {
	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, i)
	}
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	// The layout belongs to the pipeline that created it.
	p.bindGroupLayout = nil
	if p.vertexBuffer != nil {
		p.vertexBuffer.Release()
		p.vertexBuffer = nil
	}
	if p.indexBuffer != nil {
		p.indexBuffer.Release()
		p.indexBuffer = nil
	}
	p.indexCount = 0
	p.written = false
}
