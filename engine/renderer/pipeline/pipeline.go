package pipeline

import (
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	// shader is the WGSL program both stages are compiled from.
	shader shader.Shader

	// renderPipeline is the compiled GPU pipeline, set by the backend once created.
	renderPipeline *wgpu.RenderPipeline

	// frame holds the per-shader frame uniform buffers (camera, ambient, lights, clip) and their bind group.
	frame bind_group_provider.BindGroupProvider

	depthTestEnabled  bool
	depthWriteEnabled bool
	blendEnabled      bool
	cullMode          wgpu.CullMode
	topology          wgpu.PrimitiveTopology
	frontFace         wgpu.FrontFace
	writeMask         wgpu.ColorWriteMask
	blendState        *wgpu.BlendState
}

// Pipeline describes the fixed-function state of one render pipeline and owns the GPU objects
// the backend creates for it. There is one Pipeline per shader.
type Pipeline interface {
	// Key returns the pipeline key, which is the shader key.
	//
	// Returns:
	//   - string: the key
	Key() string

	// Shader returns the shader the pipeline is compiled from.
	//
	// Returns:
	//   - shader.Shader: the shader
	Shader() shader.Shader

	// Pipeline returns the compiled render pipeline, or nil before the backend created it.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the GPU pipeline
	Pipeline() *wgpu.RenderPipeline

	// Frame returns the frame uniform provider, or nil before the backend created it.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the frame uniforms
	Frame() bind_group_provider.BindGroupProvider

	// DepthTestEnabled reports whether fragments are depth tested.
	DepthTestEnabled() bool

	// DepthWriteEnabled reports whether fragments write depth.
	DepthWriteEnabled() bool

	// BlendEnabled reports whether alpha blending is applied.
	BlendEnabled() bool

	// CullMode returns the face culling mode.
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology.
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding.
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask.
	WriteMask() wgpu.ColorWriteMask

	// BlendState returns the blend state used when blending is enabled.
	BlendState() *wgpu.BlendState

	// SetRenderPipeline stores the compiled GPU pipeline.
	//
	// Parameters:
	//   - p: the compiled pipeline
	SetRenderPipeline(p *wgpu.RenderPipeline)

	// SetFrame stores the frame uniform provider.
	//
	// Parameters:
	//   - provider: the frame uniforms
	SetFrame(provider bind_group_provider.BindGroupProvider)

	// Release frees the GPU pipeline and the frame uniforms.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates the pipeline description for a shader.
// Depth writes, blending and back-face culling start from the shader's own flags;
// options applied afterwards override them.
//
// Parameters:
//   - s: the shader to build the pipeline from
//   - opts: functional options to configure the pipeline
//
// Returns:
//   - Pipeline: the pipeline description, not yet compiled
func NewPipeline(s shader.Shader, opts ...PipelineBuilderOption) Pipeline {
	if s == nil {
		panic("pipeline: shader must not be nil")
	}
	cull := wgpu.CullModeNone
	if s.CullBackFaces() {
		cull = wgpu.CullModeBack
	}
	p := &pipeline{
		shader:            s,
		depthTestEnabled:  true,
		depthWriteEnabled: s.DepthWrite(),
		blendEnabled:      s.Blend(),
		cullMode:          cull,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) Key() string {
	return p.shader.Key()
}

func (p *pipeline) Shader() shader.Shader {
	return p.shader
}

func (p *pipeline) Pipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) Frame() bind_group_provider.BindGroupProvider {
	return p.frame
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

func (p *pipeline) SetFrame(provider bind_group_provider.BindGroupProvider) {
	p.frame = provider
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
	if p.frame != nil {
		p.frame.Release()
		p.frame = nil
	}
	// the shader's versions described the released buffers
	p.shader.Invalidate()
}
