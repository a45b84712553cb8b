package shader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateCacheReportsChangedCategories(t *testing.T) {
	var c StateCache
	assert.Equal(t, Stale{true, true, true}, c.Refresh(0, 0, 0), "fresh cache uploads everything")
	assert.False(t, c.Refresh(0, 0, 0).Any())

	st := c.Refresh(1, 0, 0)
	assert.Equal(t, Stale{Camera: true}, st)

	st = c.Refresh(1, 4, 2)
	assert.Equal(t, Stale{Ambient: true, Lighting: true}, st)

	c.Invalidate()
	assert.Equal(t, Stale{true, true, true}, c.Refresh(1, 4, 2))
}

func TestNewShaderDefaults(t *testing.T) {
	s := NewShader("lit", "@vertex fn vs_main() {}")
	assert.Equal(t, "lit", s.Key())
	assert.Equal(t, DefaultVertexEntryPoint, s.VertexEntryPoint())
	assert.Equal(t, DefaultFragmentEntryPoint, s.FragmentEntryPoint())
	assert.True(t, s.DepthWrite())
	assert.True(t, s.CullBackFaces())
	assert.False(t, s.Blend())

	s.States().Refresh(1, 1, 1)
	s.Invalidate()
	assert.True(t, s.States().Refresh(1, 1, 1).Any())
}

func TestNewShaderOptions(t *testing.T) {
	s := NewShader("glass", "src", WithEntryPoints("v", "f"), WithBlend(true), WithDepthWrite(false), WithCullBackFaces(false))
	assert.Equal(t, "v", s.VertexEntryPoint())
	assert.Equal(t, "f", s.FragmentEntryPoint())
	assert.True(t, s.Blend())
	assert.False(t, s.DepthWrite())
	assert.False(t, s.CullBackFaces())
}

func TestNewShaderPanics(t *testing.T) {
	assert.PanicsWithValue(t, "shader: key must not be empty", func() { NewShader("", "src") })
	assert.PanicsWithValue(t, "shader: lit must have source", func() { NewShader("lit", "") })
}

func TestLoadShader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lit.wgsl")
	require.NoError(t, os.WriteFile(path, []byte("fn main() {}"), 0o644))

	s, err := LoadShader("lit", path)
	require.NoError(t, err)
	assert.Equal(t, "fn main() {}", s.Source())

	_, err = LoadShader("missing", filepath.Join(dir, "nope.wgsl"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	empty := filepath.Join(dir, "empty.wgsl")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = LoadShader("empty", empty)
	assert.Error(t, err)
}
