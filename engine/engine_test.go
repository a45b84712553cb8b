package engine

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-scene/engine/game_object"
	"github.com/Carmen-Shannon/oxy-scene/engine/model"
	"github.com/Carmen-Shannon/oxy-scene/engine/profiler"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-scene/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHeadlessEngine(t *testing.T, options ...EngineBuilderOption) (Engine, *renderer.HeadlessBackend) {
	t.Helper()
	r := renderer.NewRenderer(renderer.BackendTypeHeadless, nil, renderer.WithSize(320, 240))
	hb, ok := r.Backend().(*renderer.HeadlessBackend)
	require.True(t, ok)

	mat := material.NewMaterial("white", renderer.LitShader())
	m := scene.NewManager(scene.WithScene("main", func() scene.Scene {
		obj := game_object.NewGameObject("cube",
			game_object.WithMesh(model.Cube("cube", 1)),
			game_object.WithMaterial(mat),
		)
		return scene.NewScene("main", scene.WithObjects(obj))
	}))

	e := NewEngine(append([]EngineBuilderOption{WithRenderer(r), WithSceneManager(m)}, options...)...)
	return e, hb
}

func TestFrameDrawsCurrentScene(t *testing.T) {
	e, hb := newHeadlessEngine(t)
	t.Cleanup(e.Scenes().Release)

	// nothing loaded yet
	require.NoError(t, e.Frame(0.016))
	assert.Empty(t, hb.Commands())

	s, err := e.Scenes().LoadMain()
	require.NoError(t, err)
	assert.Same(t, e.Renderer(), s.Renderer())

	require.NoError(t, e.Frame(0.016))
	assert.Equal(t, 1, hb.Count(renderer.OpBeginPass))
	assert.Equal(t, 1, hb.Count(renderer.OpDraw))
	assert.Equal(t, 1, hb.Count(renderer.OpPresent))
}

// presentCounter counts Present calls on the renderer it wraps.
type presentCounter struct {
	renderer.Renderer
	presents int
}

func (p *presentCounter) Present() {
	p.presents++
	p.Renderer.Present()
}

func TestFrameSkipsPresentForUninitializedScene(t *testing.T) {
	pc := &presentCounter{Renderer: renderer.NewRenderer(renderer.BackendTypeHeadless, nil)}
	m := scene.NewManager(scene.WithScene("main", func() scene.Scene { return scene.NewScene("main") }))
	e := NewEngine(WithRenderer(pc), WithSceneManager(m))
	t.Cleanup(m.Release)

	var callbacks int
	e.SetRenderCallback(func(float32) { callbacks++ })

	s, err := m.LoadMain()
	require.NoError(t, err)
	require.NoError(t, e.Frame(0))
	assert.Equal(t, 1, pc.presents)
	assert.Equal(t, 1, callbacks)

	s.Exit()
	require.NoError(t, e.Frame(0))
	assert.Equal(t, 1, pc.presents)
	assert.Equal(t, 1, callbacks)
}

func TestPostRunsBeforeFrame(t *testing.T) {
	e, hb := newHeadlessEngine(t)
	t.Cleanup(e.Scenes().Release)
	_, err := e.Scenes().LoadMain()
	require.NoError(t, err)

	var order []string
	e.Post(func() {
		order = append(order, "posted")
		assert.Zero(t, hb.Count(renderer.OpBeginPass))
	})
	e.Post(nil)
	e.SetRenderCallback(func(float32) { order = append(order, "frame") })

	require.NoError(t, e.Frame(0))
	require.NoError(t, e.Frame(0))
	assert.Equal(t, []string{"posted", "frame", "frame"}, order)
}

func TestResizeAppliesOnNextFrame(t *testing.T) {
	e, _ := newHeadlessEngine(t)
	t.Cleanup(e.Scenes().Release)
	s, err := e.Scenes().LoadMain()
	require.NoError(t, err)

	e.Resize(640, 480)
	e.Resize(0, 480)
	w, h := e.Renderer().Size()
	assert.Equal(t, 320, w)
	assert.Equal(t, 240, h)

	require.NoError(t, e.Frame(0))
	w, h = e.Renderer().Size()
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
	assert.InDelta(t, 640.0/480.0, s.Camera().Aspect(), 1e-6)
}

func TestProfilerRecordsSceneStats(t *testing.T) {
	e, _ := newHeadlessEngine(t, WithProfiling(true), WithProfilerOptions(profiler.WithInterval(0)))
	t.Cleanup(e.Scenes().Release)
	_, err := e.Scenes().LoadMain()
	require.NoError(t, err)

	require.NoError(t, e.Frame(0))
	r := e.Profiler().LastReport()
	assert.Equal(t, 1, r.Frames)
	assert.Equal(t, 1.0, r.Drawn)
	assert.Equal(t, 1, r.Objects)
	assert.Equal(t, 1, r.Passes)

	e.ToggleProfiler()
	require.NoError(t, e.Frame(0))
	assert.Equal(t, r, e.Profiler().LastReport())
}

func TestRunStopsOnQuit(t *testing.T) {
	e, hb := newHeadlessEngine(t, WithRenderFrameLimit(1000))
	_, err := e.Scenes().LoadMain()
	require.NoError(t, err)

	var frames atomic.Int32
	e.SetRenderCallback(func(float32) {
		if frames.Add(1) == 3 {
			e.Quit()
		}
	})

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Quit")
	}
	assert.NoError(t, e.Err())
	assert.GreaterOrEqual(t, frames.Load(), int32(3))
	assert.True(t, hb.Released())
	assert.Nil(t, e.Scenes().Current())

	// quitting twice is harmless
	e.Quit()
}

func TestRunRecoversFramePanic(t *testing.T) {
	e, _ := newHeadlessEngine(t)
	_, err := e.Scenes().LoadMain()
	require.NoError(t, err)
	e.SetRenderCallback(func(float32) { panic("boom") })

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after a frame panic")
	}
	assert.True(t, errors.Is(e.Err(), ErrFramePanic))
}
