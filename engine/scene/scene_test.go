package scene

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/game_object"
	"github.com/Carmen-Shannon/oxy-scene/engine/light"
	"github.com/Carmen-Shannon/oxy-scene/engine/model"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHeadlessScene(t *testing.T, options ...SceneBuilderOption) (Scene, *renderer.HeadlessBackend) {
	t.Helper()
	r := renderer.NewRenderer(renderer.BackendTypeHeadless, nil, renderer.WithSize(320, 240))
	hb, ok := r.Backend().(*renderer.HeadlessBackend)
	require.True(t, ok)

	s := NewScene("test", append([]SceneBuilderOption{WithRenderer(r)}, options...)...)
	t.Cleanup(s.Release)
	return s, hb
}

func opsOf(cmds []renderer.Command) []renderer.Op {
	out := make([]renderer.Op, len(cmds))
	for i, c := range cmds {
		out[i] = c.Op
	}
	return out
}

type lifecycle struct {
	awake, start, update, late, destroy int
}

func (l *lifecycle) behaviour() game_object.Behaviour {
	return &game_object.BehaviourFuncs{
		OnAwake:   func(game_object.GameObject) { l.awake++ },
		OnStart:   func(game_object.GameObject) { l.start++ },
		OnUpdate:  func(game_object.GameObject, float32) { l.update++ },
		OnLate:    func(game_object.GameObject, float32) { l.late++ },
		OnDestroy: func(game_object.GameObject) { l.destroy++ },
	}
}

func TestSyncVisitsParentsBeforeChildren(t *testing.T) {
	root := game_object.NewGameObject("root", game_object.WithPosition(1, 0, 0))
	child := game_object.NewGameObject("child", game_object.WithParent(root), game_object.WithPosition(0, 1, 0))
	leaf := game_object.NewGameObject("leaf", game_object.WithParent(child), game_object.WithPosition(0, 0, 1))

	// children listed before their parents
	s := NewScene("sync", WithObjects(leaf, child, root))
	t.Cleanup(s.Release)
	s.Init()
	require.NoError(t, s.Draw(0))

	world := leaf.WorldPosition()
	assert.InDeltaSlice(t, []float32{1, 1, 1}, world[:], 1e-5)

	root.SetPosition(mgl32.Vec3{5, 0, 0})
	require.NoError(t, s.Draw(0))
	world = leaf.WorldPosition()
	assert.InDeltaSlice(t, []float32{5, 1, 1}, world[:], 1e-5)

	impl := s.(*scene)
	assert.Zero(t, impl.parents.Len())
	assert.Zero(t, impl.queue.Len())
}

// syncRecorder logs every Sync call of the object it wraps.
type syncRecorder struct {
	game_object.GameObject
	visits *[]string
}

func (r *syncRecorder) Sync() {
	*r.visits = append(*r.visits, r.Name())
	r.GameObject.Sync()
}

func TestSyncVisitsEveryNodeOnceAfterItsParent(t *testing.T) {
	var visits []string
	nodes := map[string]game_object.GameObject{}
	add := func(name, parent string) game_object.GameObject {
		var opts []game_object.GameObjectBuilderOption
		if parent != "" {
			opts = append(opts, game_object.WithParent(nodes[parent]))
		}
		opts = append(opts, game_object.WithPosition(1, 0, 0))
		obj := &syncRecorder{GameObject: game_object.NewGameObject(name, opts...), visits: &visits}
		nodes[name] = obj
		return obj
	}

	// two roots, a wide first level and three levels under "a"
	add("r1", "")
	add("r2", "")
	for _, n := range []string{"a", "b", "c", "d", "e"} {
		add(n, "r1")
	}
	add("f", "r2")
	add("a1", "a")
	add("a2", "a")
	add("b1", "b")
	add("a1x", "a1")
	add("a1y", "a1")
	add("f1", "f")

	listed := []string{"a1y", "f1", "b1", "a1x", "c", "a2", "r2", "e", "a1", "f", "a", "d", "b", "r1"}
	objects := make([]game_object.GameObject, len(listed))
	for i, n := range listed {
		objects[i] = nodes[n]
	}
	parentOf := func(name string) string {
		if p := nodes[name].Parent(); p != nil {
			return p.Name()
		}
		return ""
	}

	s := NewScene("wide", WithObjects(objects...))
	t.Cleanup(s.Release)
	s.Init()

	for frame := 1; frame <= 2; frame++ {
		visits = visits[:0]
		require.NoError(t, s.Draw(0))

		require.Len(t, visits, len(listed), "frame %d", frame)
		order := map[string]int{}
		for i, n := range visits {
			_, seen := order[n]
			require.False(t, seen, "%s synced twice in frame %d", n, frame)
			order[n] = i
		}
		for _, n := range listed {
			if p := parentOf(n); p != "" {
				assert.Less(t, order[p], order[n], "%s synced before its parent %s", n, p)
			}
		}
	}

	world := nodes["a1x"].WorldPosition()
	assert.InDeltaSlice(t, []float32{4, 0, 0}, world[:], 1e-5)
}

func TestSyncSkipsChildrenOfForeignParents(t *testing.T) {
	outside := game_object.NewGameObject("outside")
	orphan := game_object.NewGameObject("orphan", game_object.WithParent(outside))

	s := NewScene("orphans", WithObjects(orphan))
	t.Cleanup(s.Release)
	s.Init()
	require.NoError(t, s.Draw(0))
	require.NoError(t, s.Draw(0))

	assert.Zero(t, s.(*scene).parents.Len())
}

func TestDrawRebindsOnlyOnKeyChange(t *testing.T) {
	lit := renderer.LitShader()
	red := material.NewMaterial("red", lit, material.WithColor(common.NewColor(1, 0, 0)))
	blue := material.NewMaterial("blue", lit, material.WithColor(common.NewColor(0, 0, 1)))
	cube := model.Cube("cube", 1)
	plane := model.Plane("plane", 10)

	a := game_object.NewGameObject("a", game_object.WithMesh(cube), game_object.WithMaterial(red))
	b := game_object.NewGameObject("b", game_object.WithMesh(cube), game_object.WithMaterial(red))
	c := game_object.NewGameObject("c", game_object.WithMesh(plane), game_object.WithMaterial(blue))
	hidden := game_object.NewGameObject("hidden", game_object.WithMesh(cube), game_object.WithMaterial(red), game_object.WithHidden(true))
	empty := game_object.NewGameObject("empty")

	s, hb := newHeadlessScene(t, WithObjects(a, b, c, hidden, empty))
	s.Init()
	require.NoError(t, s.Frame(0.016))

	assert.Equal(t, []renderer.Op{
		renderer.OpBeginPass, renderer.OpViewport,
		renderer.OpUseShader, renderer.OpUploadCamera, renderer.OpUploadAmbient, renderer.OpUploadLights, renderer.OpUploadClip,
		renderer.OpCreateMesh, renderer.OpBindMesh,
		renderer.OpUploadMaterial, renderer.OpBindMaterial,
		renderer.OpDraw,
		renderer.OpCreateMesh, renderer.OpBindMesh,
		renderer.OpUploadMaterial, renderer.OpBindMaterial,
		renderer.OpDraw, renderer.OpDraw,
		renderer.OpEndPass,
	}, opsOf(hb.Commands()))

	stats := s.Stats()
	assert.Equal(t, 5, stats.Objects)
	assert.Equal(t, 3, stats.Drawn)
	assert.Equal(t, 5, stats.Rebinds)
	assert.Equal(t, 1, stats.Passes)
	assert.Equal(t, 1, stats.Lights)
	assert.Zero(t, s.(*scene).grouping.Len())

	// nothing changed: only the camera counter advanced
	hb.Reset()
	require.NoError(t, s.Frame(0.016))
	assert.Equal(t, 1, hb.Count(renderer.OpUseShader))
	assert.Equal(t, 1, hb.Count(renderer.OpUploadCamera))
	assert.Zero(t, hb.Count(renderer.OpUploadAmbient))
	assert.Zero(t, hb.Count(renderer.OpUploadLights))
	assert.Zero(t, hb.Count(renderer.OpUploadMaterial))
	assert.Equal(t, 3, hb.Count(renderer.OpDraw))
}

func TestDrawStagesObjectUniforms(t *testing.T) {
	lit := renderer.LitShader()
	mat := material.NewMaterial("green", lit, material.WithColor(common.NewColor(0, 1, 0)))
	cube := model.Cube("cube", 1)

	const n = 300
	var objects []game_object.GameObject
	for i := range n {
		objects = append(objects, game_object.NewGameObject(fmt.Sprintf("cube-%d", i),
			game_object.WithMesh(cube), game_object.WithMaterial(mat), game_object.WithPosition(float32(i), 0, 0)))
	}

	s, hb := newHeadlessScene(t, WithObjects(objects...), WithComputeWorkers(4))
	s.Init()
	require.NoError(t, s.Draw(0))

	seen := make(map[float32]bool)
	for _, c := range hb.Commands() {
		if c.Op != renderer.OpDraw {
			continue
		}
		seen[c.Object.Model[12]] = true
		assert.Equal(t, [4]float32{0, 1, 0, 1}, c.Object.Color)
	}
	assert.Len(t, seen, n)
	for i := range n {
		assert.True(t, seen[float32(i)], "missing object %d", i)
	}
}

func TestInitAddsSunAndResets(t *testing.T) {
	var hooked int
	s := NewScene("init", WithInit(func(Scene) { hooked++ }))
	t.Cleanup(s.Release)
	assert.Equal(t, StateUninitialized, s.State())

	s.Init()
	s.Init()
	assert.Equal(t, StateInitialized, s.State())
	assert.Equal(t, 1, hooked)

	lights := s.Lights()
	require.Len(t, lights, 1)
	assert.Equal(t, "Sun", lights[0].Name())
	assert.Equal(t, DefaultActiveLights, s.ActiveLights())
	assert.Zero(t, s.CameraState())
	assert.Zero(t, s.LightingState())

	require.NoError(t, s.Draw(0))
	assert.Equal(t, uint64(1), s.CameraState())
	assert.Equal(t, uint64(1), s.LightingState())

	s.Exit()
	s.Init()
	assert.Zero(t, s.CameraState())
	assert.Zero(t, s.LightingState())
	assert.Equal(t, 2, hooked)
}

func TestInitKeepsHookLights(t *testing.T) {
	lamp := light.NewLight(light.LightTypePoint, light.WithName("lamp"))
	s := NewScene("lamp", WithInit(func(sc Scene) { sc.AddLight(lamp) }))
	t.Cleanup(s.Release)
	s.Init()

	lights := s.Lights()
	require.Len(t, lights, 1)
	assert.Equal(t, "lamp", lights[0].Name())
}

func TestLightingStateAdvancesOnChange(t *testing.T) {
	near := light.NewLight(light.LightTypePoint, light.WithName("near"), light.WithPosition(0, 0, 1))
	far := light.NewLight(light.LightTypePoint, light.WithName("far"), light.WithPosition(0, 0, 50))
	s := NewScene("lights", WithLights(near, far), WithActiveLights(3))
	t.Cleanup(s.Release)
	s.Init()

	require.NoError(t, s.Draw(0))
	require.NoError(t, s.Draw(0))
	assert.Equal(t, uint64(1), s.LightingState())
	assert.Equal(t, 2, s.LightCount())
	assert.Equal(t, "near", s.GetLight(0).Name)
	assert.Equal(t, "far", s.GetLight(1).Name)
	assert.Equal(t, light.PitchBlack, s.GetLight(2))
	assert.Panics(t, func() { s.GetLight(3) })

	near.SetPosition(0, 0, 100)
	require.NoError(t, s.Draw(0))
	assert.Equal(t, uint64(2), s.LightingState())
	assert.Equal(t, "far", s.GetLight(0).Name)

	s.SetLightIntensity("far", 50)
	assert.Equal(t, uint64(3), s.LightingState())
	assert.InDelta(t, far.Power()*0.5, s.GetLight(0).Power, 1e-6)
	s.ClearLightIntensity("far")
	assert.InDelta(t, far.Power(), s.GetLight(0).Power, 1e-6)

	assert.Len(t, s.LightsUniform(), light.GPULightHeaderSize+light.MaxGPULights*light.GPULightSize)

	s.SetActiveLights(100)
	assert.Equal(t, light.MaxGPULights, s.ActiveLights())
	s.SetActiveLights(-1)
	assert.Zero(t, s.ActiveLights())
}

func TestFrameSkippedUntilInit(t *testing.T) {
	var l lifecycle
	obj := game_object.NewGameObject("obj", game_object.WithBehaviours(l.behaviour()))
	s, hb := newHeadlessScene(t, WithObjects(obj))

	require.NoError(t, s.Frame(0.1))
	assert.Empty(t, hb.Commands())
	assert.Zero(t, l.update)
}

func TestBehaviourLifecycle(t *testing.T) {
	var first, late lifecycle
	a := game_object.NewGameObject("a", game_object.WithBehaviours(first.behaviour()))
	s := NewScene("behaviours", WithObjects(a))
	t.Cleanup(s.Release)

	s.Init()
	assert.Equal(t, lifecycle{awake: 1, start: 1}, first)

	require.NoError(t, s.Frame(0.1))
	require.NoError(t, s.Frame(0.1))
	assert.Equal(t, 2, first.update)
	assert.Equal(t, 2, first.late)

	b := game_object.NewGameObject("b", game_object.WithBehaviours(late.behaviour()))
	s.Add(b)
	assert.Equal(t, lifecycle{awake: 1, start: 1}, late)
	assert.Same(t, b, s.Find("b"))
	assert.Nil(t, s.Find("missing"))

	assert.True(t, s.Remove(b))
	assert.False(t, s.Remove(b))
	assert.Equal(t, 1, late.destroy)

	s.Exit()
	assert.Equal(t, 1, first.destroy)
	assert.Equal(t, StateUninitialized, s.State())
	assert.Empty(t, s.GameObjects())
	assert.Empty(t, s.Lights())

	s.Exit()
	assert.Equal(t, 1, first.destroy)
}

func TestClipPlaneIsZeroWhenDisabled(t *testing.T) {
	s := NewScene("clip")
	t.Cleanup(s.Release)
	plane := mgl32.Vec4{0, 1, 0, -2}

	s.SetClipPlane(plane)
	assert.Equal(t, mgl32.Vec4{}, s.ClipPlane())
	s.SetClipDistance(true)
	assert.True(t, s.ClipDistance())
	assert.Equal(t, plane, s.ClipPlane())

	s.Init()
	assert.False(t, s.ClipDistance())
	assert.Equal(t, mgl32.Vec4{}, s.ClipPlane())
}

func TestMultiPassDrawsEveryPass(t *testing.T) {
	lit := renderer.LitShader()
	mat := material.NewMaterial("white", lit)
	cube := model.Cube("cube", 1)
	a := game_object.NewGameObject("a", game_object.WithMesh(cube), game_object.WithMaterial(mat))
	b := game_object.NewGameObject("b", game_object.WithMesh(cube), game_object.WithMaterial(mat))

	s, hb := newHeadlessScene(t, WithObjects(a, b))
	target, err := s.Renderer().CreateTarget("reflection", 128, 128)
	require.NoError(t, err)

	var before []mgl32.Vec4
	plane := mgl32.Vec4{0, 1, 0, 0}
	s.SetPasses(
		Pass{Target: target, Clip: true, ClipPlane: plane, Before: func(sc Scene) { before = append(before, sc.ClipPlane()) }},
		Pass{Before: func(sc Scene) { before = append(before, sc.ClipPlane()) }},
	)
	s.Init()
	require.NoError(t, s.Draw(0))

	assert.Equal(t, []mgl32.Vec4{plane, {}}, before)
	assert.Equal(t, 2, hb.Count(renderer.OpBeginPass))
	assert.Equal(t, 1, hb.Count(renderer.OpViewport))
	assert.Equal(t, 4, hb.Count(renderer.OpDraw))
	assert.Equal(t, 2, hb.Count(renderer.OpUploadClip))
	assert.Equal(t, 2, s.Stats().Passes)
	assert.Equal(t, 4, s.Stats().Drawn)
	assert.Zero(t, s.(*scene).grouping.Len())

	cmds := hb.Commands()
	assert.Equal(t, "reflection", cmds[0].Label)
	assert.Len(t, s.Passes(), 2)
}

func TestDrawWithoutRendererDrainsGrouping(t *testing.T) {
	mat := material.NewMaterial("white", renderer.LitShader())
	obj := game_object.NewGameObject("obj", game_object.WithMesh(model.Cube("cube", 1)), game_object.WithMaterial(mat))
	s := NewScene("bare", WithObjects(obj))
	t.Cleanup(s.Release)
	s.Init()

	require.NoError(t, s.Draw(0))
	assert.Zero(t, s.(*scene).grouping.Len())
	assert.Zero(t, s.Stats().Drawn)
}

func TestFrameSetsCameraAspect(t *testing.T) {
	s, _ := newHeadlessScene(t)
	s.Init()
	require.NoError(t, s.Frame(0))
	assert.InDelta(t, 320.0/240.0, s.Camera().Aspect(), 1e-6)
}

func TestViewportOutsidePassLogsError(t *testing.T) {
	s, hb := newHeadlessScene(t)
	s.Init()
	require.NoError(t, s.Frame(0))
	hb.Reset()

	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	require.NotPanics(t, s.Viewport)
	assert.Zero(t, hb.Count(renderer.OpViewport))
	assert.Contains(t, buf.String(), "[Scene] test: viewport 320x240 failed")
	assert.Contains(t, buf.String(), renderer.ErrNoPass.Error())
}
