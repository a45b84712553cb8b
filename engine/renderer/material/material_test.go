package material

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/shader"
	"github.com/stretchr/testify/assert"
)

func testShader() shader.Shader {
	return shader.NewShader("lit", "fn vs_main() {}")
}

func TestNewMaterialDefaults(t *testing.T) {
	s := testShader()
	m := NewMaterial("plain", s)
	assert.Equal(t, "plain", m.Name())
	assert.Same(t, s, m.Shader())
	assert.Equal(t, common.ColorWhite, m.Color())
	assert.Equal(t, float32(0.5), m.Specular())
	assert.Equal(t, float32(32), m.Shininess())
	assert.Nil(t, m.Resources())
}

func TestNewMaterialPanicsWithoutShader(t *testing.T) {
	assert.PanicsWithValue(t, "material: shader must not be nil", func() { NewMaterial("x", nil) })
}

func TestMaterialOptionsClamp(t *testing.T) {
	m := NewMaterial("m", testShader(), WithSpecular(3), WithShininess(0), WithColor(common.ColorGray))
	assert.Equal(t, float32(1), m.Specular())
	assert.Equal(t, float32(1), m.Shininess())
	assert.Equal(t, common.ColorGray, m.Color())
}

func TestMaterialVersionBumpsOnlyOnChange(t *testing.T) {
	m := NewMaterial("m", testShader())
	assert.Zero(t, m.Version())

	m.SetColor(common.ColorWhite)
	assert.Zero(t, m.Version(), "same color is not a change")

	m.SetColor(common.NewColor(1, 0, 0))
	m.SetSpecular(0.25)
	m.SetShininess(8)
	assert.Equal(t, uint64(3), m.Version())

	m.SetShininess(8)
	assert.Equal(t, uint64(3), m.Version())
}

func TestGPUMaterialMarshal(t *testing.T) {
	m := NewMaterial("m", testShader(), WithColor(common.NewColor(0.25, 0.5, 0.75)), WithSpecular(0.1), WithShininess(16))
	u := m.Uniform()
	assert.Equal(t, 32, u.Size())

	buf := u.Marshal()
	f := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:])) }
	assert.Equal(t, float32(0.25), f(0))
	assert.Equal(t, float32(0.5), f(4))
	assert.Equal(t, float32(0.75), f(8))
	assert.Equal(t, float32(1), f(12))
	assert.Equal(t, float32(0.1), f(16))
	assert.Equal(t, float32(16), f(20))
}
