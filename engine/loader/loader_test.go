package loader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/light"
	"github.com/Carmen-Shannon/oxy-scene/engine/model"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-scene/engine/scene"
	"github.com/Carmen-Shannon/oxy-scene/engine/sky"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const harbour = `
name: harbour
sky:
  skybox: black
  ambient_percent: 40
  fog_density: 0.01
camera:
  position: [0, 2, -6]
  follow: boat
lights:
  - name: lighthouse
    position: [10, 20, 0]
    color: [1, 0.9, 0.7]
    power: 0.8
    important: true
  - name: moon
    type: directional
    position: [0, 100, 0]
objects:
  - name: mast
    parent: boat
    position: [0, 3, 0]
    mesh: cube
    material: wood
  - name: boat
    position: [4, 0, 0]
    scale: [2, 1, 1]
    mesh: cube
    material: wood
    spin: [0, 45, 0]
  - name: anchor
    parent: boat
    hidden: true
`

func newTestLoader() Loader {
	lit := shader.NewShader("lit", "src")
	return NewLoader(BackendTypeYAML,
		WithModel(model.Cube("cube", 1)),
		WithMaterial(material.NewMaterial("wood", lit, material.WithColor(common.NewColor(0.5, 0.3, 0.1)))),
	)
}

func TestLoadReaderDecodesDescription(t *testing.T) {
	l := newTestLoader()
	d, err := l.LoadReader("harbour", strings.NewReader(harbour))
	require.NoError(t, err)

	assert.Equal(t, "harbour", d.Name)
	require.Len(t, d.Lights, 2)
	assert.Equal(t, "directional", d.Lights[1].Type)
	require.Len(t, d.Objects, 3)
	assert.Equal(t, "boat", d.Objects[0].Parent)
	assert.Equal(t, &[3]float32{2, 1, 1}, d.Objects[1].Scale)
	assert.Same(t, d, l.Get("harbour"))
	assert.Len(t, l.Descriptions(), 1)
}

func TestLoadReaderRejectsUnknownFields(t *testing.T) {
	_, err := newTestLoader().LoadReader("bad", strings.NewReader("name: x\nobjekts: []\n"))
	assert.Error(t, err)
}

func TestLoadCachesByPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "harbour.yaml")
	require.NoError(t, os.WriteFile(path, []byte(harbour), 0o644))

	l := newTestLoader()
	first, err := l.Load(path)
	require.NoError(t, err)
	second, err := l.Load(path)
	require.NoError(t, err)
	assert.Same(t, first, second)

	reloaded, err := l.Reload(path)
	require.NoError(t, err)
	assert.NotSame(t, first, reloaded)

	_, err = l.Load(filepath.Join(dir, "harbour.json"))
	assert.Error(t, err)
	_, err = l.Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestApplyPopulatesScene(t *testing.T) {
	l := newTestLoader()
	d, err := l.LoadReader("harbour", strings.NewReader(harbour))
	require.NoError(t, err)

	var applyErr error
	s := scene.NewScene("harbour", scene.WithInit(func(sc scene.Scene) { applyErr = l.Apply(sc, d) }))
	t.Cleanup(s.Release)
	s.Init()
	require.NoError(t, applyErr)

	lights := s.Lights()
	require.Len(t, lights, 2)
	assert.Equal(t, "lighthouse", lights[0].Name())
	assert.True(t, lights[0].Important())
	assert.Equal(t, float32(0.8), lights[0].Power())
	assert.Equal(t, light.LightTypeDirectional, lights[1].Type())

	objects := s.GameObjects()
	require.Len(t, objects, 3)
	boat, mast, anchor := s.Find("boat"), s.Find("mast"), s.Find("anchor")
	require.NotNil(t, boat)
	assert.Same(t, boat, mast.Parent())
	assert.Same(t, boat, anchor.Parent())
	assert.True(t, anchor.Hidden())
	assert.False(t, anchor.Drawable())
	assert.True(t, mast.Drawable())
	assert.Same(t, l.Material("wood"), mast.Material())
	assert.Same(t, l.Model("cube"), mast.Mesh())
	assert.Len(t, boat.Behaviours(), 1)

	sk := s.Sky()
	assert.Equal(t, sky.SkyboxBlack, sk.StaticSkybox())
	assert.InDelta(t, 0.4, sk.Ambient().Power, 1e-6)
	assert.Equal(t, float32(0.01), sk.FogDensity())

	assert.Same(t, boat, s.Camera().Following())
	assert.Equal(t, mgl32.Vec3{0, 2, -6}, s.Camera().LocalPosition())

	require.NoError(t, s.Draw(0))
	world := mast.WorldPosition()
	assert.InDeltaSlice(t, []float32{4, 3, 0}, world[:], 1e-5)
}

func TestApplyRejectsUnresolvedNames(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"unknown parent", "objects:\n  - name: a\n    parent: ghost\n", ErrUnknownParent},
		{"unknown mesh", "objects:\n  - name: a\n    mesh: sphere\n    material: wood\n", ErrUnknownMesh},
		{"unknown material", "objects:\n  - name: a\n    mesh: cube\n    material: marble\n", ErrUnknownMaterial},
		{"mesh without material", "objects:\n  - name: a\n    mesh: cube\n", ErrUnknownMaterial},
		{"duplicate object", "objects:\n  - name: a\n  - name: a\n", ErrInvalidDescription},
		{"parent cycle", "objects:\n  - name: a\n    parent: b\n  - name: b\n    parent: a\n", ErrInvalidDescription},
		{"unknown light type", "lights:\n  - name: l\n    type: spot\n", ErrInvalidDescription},
		{"unknown skybox", "sky:\n  skybox: nebula\n", ErrInvalidDescription},
		{"unknown camera target", "camera:\n  follow: ghost\n", ErrInvalidDescription},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLoader()
			d, err := l.LoadReader(tt.name, strings.NewReader(tt.doc))
			require.NoError(t, err)

			s := scene.NewScene("empty")
			t.Cleanup(s.Release)
			assert.ErrorIs(t, l.Apply(s, d), tt.want)
			assert.Empty(t, s.GameObjects())
			assert.Empty(t, s.Lights())
		})
	}
}

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: first\n"), 0o644))

	l := newTestLoader()
	_, err := l.Load(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	reloaded := make(chan string, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, l, path, func(d *Description, err error) {
			if err != nil {
				return
			}
			select {
			case reloaded <- d.Name:
			default:
			}
		})
	}()

	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("name: second\n"), 0o644)
		select {
		case name := <-reloaded:
			return name == "second"
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 100*time.Millisecond)
	assert.Equal(t, "second", l.Get(path).Name)

	cancel()
	assert.NoError(t, <-done)
}

func TestNewLoaderPanicsOnUnknownBackend(t *testing.T) {
	assert.Panics(t, func() { NewLoader(LoaderBackendType(7)) })
}
