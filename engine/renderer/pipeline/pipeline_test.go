package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestNewPipelineFollowsShaderFlags(t *testing.T) {
	s := shader.NewShader("lit", "src")
	p := NewPipeline(s)

	assert.Equal(t, "lit", p.Key())
	assert.Same(t, s, p.Shader())
	assert.True(t, p.DepthTestEnabled())
	assert.True(t, p.DepthWriteEnabled())
	assert.False(t, p.BlendEnabled())
	assert.Equal(t, wgpu.CullModeBack, p.CullMode())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology())
	assert.Equal(t, wgpu.FrontFaceCCW, p.FrontFace())
	assert.Equal(t, wgpu.ColorWriteMaskAll, p.WriteMask())
	assert.NotNil(t, p.BlendState())
	assert.Nil(t, p.Pipeline())
	assert.Nil(t, p.Frame())

	glass := shader.NewShader("glass", "src",
		shader.WithBlend(true),
		shader.WithDepthWrite(false),
		shader.WithCullBackFaces(false),
	)
	gp := NewPipeline(glass)
	assert.True(t, gp.BlendEnabled())
	assert.False(t, gp.DepthWriteEnabled())
	assert.Equal(t, wgpu.CullModeNone, gp.CullMode())
}

func TestPipelineOptionsOverrideShader(t *testing.T) {
	blend := &wgpu.BlendState{}
	p := NewPipeline(shader.NewShader("lit", "src"),
		WithDepthTestEnabled(false),
		WithDepthWriteEnabled(false),
		WithBlendEnabled(true),
		WithCullMode(wgpu.CullModeFront),
		WithTopology(wgpu.PrimitiveTopologyLineList),
		WithFrontFace(wgpu.FrontFaceCW),
		WithWriteMask(wgpu.ColorWriteMaskRed),
		WithBlendState(blend),
	)

	assert.False(t, p.DepthTestEnabled())
	assert.False(t, p.DepthWriteEnabled())
	assert.True(t, p.BlendEnabled())
	assert.Equal(t, wgpu.CullModeFront, p.CullMode())
	assert.Equal(t, wgpu.PrimitiveTopologyLineList, p.Topology())
	assert.Equal(t, wgpu.FrontFaceCW, p.FrontFace())
	assert.Equal(t, wgpu.ColorWriteMaskRed, p.WriteMask())
	assert.Same(t, blend, p.BlendState())

	kept := NewPipeline(shader.NewShader("lit", "src"), WithBlendState(nil))
	assert.NotNil(t, kept.BlendState())
}

func TestPipelineReleaseInvalidatesShader(t *testing.T) {
	s := shader.NewShader("lit", "src")
	p := NewPipeline(s)
	p.SetFrame(bind_group_provider.NewBindGroupProvider("frame"))
	s.States().Refresh(3, 3, 3)

	p.Release()

	assert.Nil(t, p.Frame())
	assert.True(t, s.States().Refresh(3, 3, 3).Any())
}

func TestNewPipelinePanicsWithoutShader(t *testing.T) {
	assert.PanicsWithValue(t, "pipeline: shader must not be nil", func() { NewPipeline(nil) })
}
