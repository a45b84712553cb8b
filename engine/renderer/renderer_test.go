package renderer

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/camera"
	"github.com/Carmen-Shannon/oxy-scene/engine/model"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-scene/engine/sky"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testFrame struct {
	camera, ambient, lighting uint64
	clip                      mgl32.Vec4
}

func (f *testFrame) CameraState() uint64                    { return f.camera }
func (f *testFrame) AmbientState() uint64                   { return f.ambient }
func (f *testFrame) LightingState() uint64                  { return f.lighting }
func (f *testFrame) CameraUniform() camera.GPUCameraUniform { return camera.GPUCameraUniform{} }
func (f *testFrame) AmbientUniform() sky.GPUAmbient         { return sky.GPUAmbient{} }
func (f *testFrame) LightsUniform() []byte                  { return nil }
func (f *testFrame) ClipPlane() mgl32.Vec4                  { return f.clip }

func newHeadless(t *testing.T) (Renderer, *HeadlessBackend) {
	t.Helper()
	r := NewRenderer(BackendTypeHeadless, nil, WithSize(320, 240))
	hb, ok := r.Backend().(*HeadlessBackend)
	require.True(t, ok)
	return r, hb
}

func ops(cmds []Command) []Op {
	out := make([]Op, len(cmds))
	for i, c := range cmds {
		out[i] = c.Op
	}
	return out
}

func TestNewRendererHeadless(t *testing.T) {
	r, hb := newHeadless(t)
	assert.Equal(t, BackendTypeHeadless, r.BackendType())
	assert.Equal(t, "headless", r.BackendType().String())

	w, h := r.Size()
	assert.Equal(t, 320, w)
	assert.Equal(t, 240, h)
	bw, bh := hb.Size()
	assert.Equal(t, 320, bw)
	assert.Equal(t, 240, bh)

	require.NoError(t, r.Resize(640, 480))
	bw, bh = hb.Size()
	assert.Equal(t, 640, bw)
	assert.Equal(t, 480, bh)

	r.Release()
	assert.True(t, hb.Released())
}

func TestNewRendererPanics(t *testing.T) {
	assert.PanicsWithValue(t, "renderer: the wgpu backend requires a window", func() {
		NewRenderer(BackendTypeWGPU, nil)
	})
	assert.Panics(t, func() { NewRenderer(RendererBackendType(42), nil) })
}

func TestPassStateIsChecked(t *testing.T) {
	r, _ := newHeadless(t)
	lit := LitShader()
	cube := model.Cube("cube", 1)

	assert.ErrorIs(t, r.SetViewport(0, 0, 1, 1), ErrNoPass)
	assert.ErrorIs(t, r.UseShader(lit, &testFrame{}), ErrNoPass)
	assert.ErrorIs(t, r.BindMesh(cube), ErrNoPass)
	assert.ErrorIs(t, r.EndPass(), ErrNoPass)

	require.NoError(t, r.Reserve(2))
	require.NoError(t, r.BeginPass(nil, common.ColorBlack))
	assert.True(t, r.DefaultTargetBound())
	assert.ErrorIs(t, r.BeginPass(nil, common.ColorBlack), ErrPassActive)
	assert.ErrorIs(t, r.Resize(10, 10), ErrPassActive)
	assert.ErrorIs(t, r.Reserve(10), ErrPassActive)
	assert.ErrorIs(t, r.Draw(ObjectUniform{}), ErrUnbound)

	require.NoError(t, r.UseShader(lit, &testFrame{}))
	require.NoError(t, r.BindMesh(cube))
	require.NoError(t, r.Draw(ObjectUniform{}))
	require.NoError(t, r.Draw(ObjectUniform{}))
	assert.ErrorIs(t, r.Draw(ObjectUniform{}), ErrObjectCapacity)
	require.NoError(t, r.EndPass())

	draws, binds := r.Stats()
	assert.Equal(t, 2, draws)
	assert.Equal(t, 2, binds)
	r.Present()
	draws, binds = r.Stats()
	assert.Zero(t, draws)
	assert.Zero(t, binds)
}

func TestUseShaderUploadsOnlyStaleState(t *testing.T) {
	r, hb := newHeadless(t)
	lit := LitShader()
	frame := &testFrame{}

	require.NoError(t, r.BeginPass(nil, common.ColorBlack))
	require.NoError(t, r.UseShader(lit, frame))
	require.NoError(t, r.EndPass())
	assert.Equal(t, []Op{OpBeginPass, OpUseShader, OpUploadCamera, OpUploadAmbient, OpUploadLights, OpUploadClip, OpEndPass}, ops(hb.Commands()))

	hb.Reset()
	frame.camera++
	require.NoError(t, r.BeginPass(nil, common.ColorBlack))
	require.NoError(t, r.UseShader(lit, frame))
	require.NoError(t, r.UseShader(lit, frame))
	require.NoError(t, r.EndPass())
	assert.Equal(t, []Op{OpBeginPass, OpUseShader, OpUploadCamera, OpUseShader, OpEndPass}, ops(hb.Commands()))

	hb.Reset()
	frame.lighting += 3
	frame.clip = mgl32.Vec4{0, 1, 0, 0}
	require.NoError(t, r.BeginPass(nil, common.ColorBlack))
	require.NoError(t, r.UseShader(lit, frame))
	require.NoError(t, r.EndPass())
	assert.Equal(t, []Op{OpBeginPass, OpUseShader, OpUploadLights, OpUploadClip, OpEndPass}, ops(hb.Commands()))
}

func TestMaterialUploadFollowsVersion(t *testing.T) {
	r, hb := newHeadless(t)
	lit := LitShader()
	mat := material.NewMaterial("red", lit)
	cube := model.Cube("cube", 1)

	require.NoError(t, r.BeginPass(nil, common.ColorBlack))
	require.NoError(t, r.BindMesh(cube))
	require.NoError(t, r.BindMesh(cube))
	require.NoError(t, r.BindMaterial(mat))
	require.NoError(t, r.BindMaterial(mat))
	mat.SetColor(common.NewColor(1, 0, 0))
	require.NoError(t, r.BindMaterial(mat))
	require.NoError(t, r.EndPass())

	assert.Equal(t, []Op{
		OpBeginPass,
		OpCreateMesh, OpBindMesh, OpBindMesh,
		OpUploadMaterial, OpBindMaterial, OpBindMaterial,
		OpUploadMaterial, OpBindMaterial,
		OpEndPass,
	}, ops(hb.Commands()))
}

func TestOffscreenTargetPassDoesNotPresent(t *testing.T) {
	r, hb := newHeadless(t)

	_, err := r.CreateTarget("mirror", 0, 10)
	require.Error(t, err)

	target, err := r.CreateTarget("mirror", 256, 128)
	require.NoError(t, err)
	assert.Equal(t, "mirror", target.Label())
	assert.Equal(t, 256, target.Width())
	assert.Equal(t, 128, target.Height())

	require.NoError(t, r.BeginPass(target, common.ColorWhite))
	assert.False(t, r.DefaultTargetBound())
	require.NoError(t, r.EndPass())
	r.Present()
	assert.Zero(t, hb.Count(OpPresent))

	require.NoError(t, r.BeginPass(nil, common.ColorDeepSky))
	require.NoError(t, r.SetViewport(0, 0, 320, 240))
	require.NoError(t, r.EndPass())
	r.Present()
	assert.Equal(t, 1, hb.Count(OpPresent))

	cmds := hb.Commands()
	assert.Equal(t, "mirror", cmds[0].Label)
	assert.Equal(t, common.ColorWhite, cmds[0].Clear)
	assert.Equal(t, [4]int{0, 0, 320, 240}, cmds[3].Viewport)
}

func TestObjectUniformMarshal(t *testing.T) {
	m := mgl32.Translate3D(1, 2, 3)
	u := NewObjectUniform(m, mgl32.Ident4(), common.NewColor(0.25, 0.5, 0.75))
	assert.Equal(t, [16]float32(common.NormalMatrix(m)), u.Normal)

	buf := make([]byte, ObjectStride)
	u.Marshal(buf)
	read := func(i int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:])) }
	assert.Equal(t, float32(1), read(12))
	assert.Equal(t, float32(3), read(14))
	assert.Equal(t, float32(1), read(16))
	assert.Equal(t, float32(0.25), read(48))
	assert.Equal(t, float32(1), read(51))
	assert.Panics(t, func() { u.Marshal(make([]byte, ObjectUniformSize-1)) })
}

func TestLitShaderSourceEmbedded(t *testing.T) {
	s := LitShader()
	assert.Equal(t, LitShaderKey, s.Key())
	assert.Contains(t, s.Source(), "fn vs_main")
	assert.Contains(t, s.Source(), "fn fs_main")
	assert.Contains(t, s.Source(), "array<Light, 32>")
}

func TestOpString(t *testing.T) {
	assert.Equal(t, "Draw", OpDraw.String())
	assert.Equal(t, "Unknown", Op(99).String())
}
