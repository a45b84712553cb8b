package scene

import (
	"fmt"
	"log"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-scene/engine/batch"
	"github.com/Carmen-Shannon/oxy-scene/engine/camera"
	"github.com/Carmen-Shannon/oxy-scene/engine/game_object"
	"github.com/Carmen-Shannon/oxy-scene/engine/light"
	"github.com/Carmen-Shannon/oxy-scene/engine/model"
	"github.com/Carmen-Shannon/oxy-scene/engine/pool"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-scene/engine/sky"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultActiveLights is the number of light slots a scene selects each frame unless configured otherwise.
const DefaultActiveLights = 8

// State is the lifecycle state of a Scene.
type State int

const (
	// StateUninitialized is the state before Init and after Exit. Frames are skipped.
	StateUninitialized State = iota

	// StateInitialized is the state between Init and Exit.
	StateInitialized
)

func (s State) String() string {
	if s == StateInitialized {
		return "initialized"
	}
	return "uninitialized"
}

// Pass describes one draw of the scene within a frame.
type Pass struct {
	// Target is the render target of the pass, nil for the default surface.
	Target renderer.Target

	// Clip enables ClipPlane for the pass.
	Clip bool

	// ClipPlane is the plane (normal xyz, distance w) fragments behind which are discarded.
	ClipPlane mgl32.Vec4

	// Before runs after the pass state is applied and before the target is bound.
	Before func(s Scene)
}

// Stats summarizes the last drawn frame.
type Stats struct {
	Objects int // objects in the scene
	Drawn   int // draws issued across every pass
	Lights  int // lights selected
	Rebinds int // shader, mesh and material binds issued across every pass
	Passes  int // passes drawn
}

// Scene owns a flat list of game objects and lights and turns them into draw calls once per frame.
//
// Each frame runs Prepare (group drawables, index children by parent), Sync (propagate transforms
// breadth-first from every root, adjust the camera, advance the sky, select lights) and then one
// DrawScene per configured pass. The scene is also the renderer.FrameState backends consult to
// decide which frame uniforms a shader still needs.
type Scene interface {
	renderer.FrameState

	// Name returns the scene name.
	//
	// Returns:
	//   - string: the name
	Name() string

	// State returns the lifecycle state.
	//
	// Returns:
	//   - State: the current state
	State() State

	// Init resets the scene's transient state and wakes every object. No-op when already initialized.
	Init()

	// Frame runs behaviour Update then Late on every object, then draws. Skipped when not initialized.
	//
	// Parameters:
	//   - dt: the frame delta in seconds
	//
	// Returns:
	//   - error: the first issuance error of the frame
	Frame(dt float32) error

	// Draw runs Prepare and Sync, then binds each pass target and draws the scene into it.
	//
	// Parameters:
	//   - dt: the frame delta in seconds
	//
	// Returns:
	//   - error: the first issuance error of the frame
	Draw(dt float32) error

	// Prepare indexes children by parent and groups drawable, visible objects by shader, mesh and material.
	Prepare()

	// Sync propagates transforms from every root, adjusts the camera, advances the sky and selects lights.
	//
	// Parameters:
	//   - dt: the frame delta in seconds
	Sync(dt float32)

	// Viewport sets a full-size viewport when the default target is bound.
	Viewport()

	// DrawScene issues the grouped draws for one pass. The last pass drains the grouping.
	//
	// Returns:
	//   - error: the first issuance error
	DrawScene() error

	// Exit destroys every object, clears objects and lights and returns to StateUninitialized.
	// No-op when not initialized.
	Exit()

	// Camera returns the scene camera.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// Sky returns the current sky. Init replaces it with a fresh one.
	//
	// Returns:
	//   - sky.Sky: the sky
	Sky() sky.Sky

	// Renderer returns the renderer the scene draws through, or nil.
	//
	// Returns:
	//   - renderer.Renderer: the renderer
	Renderer() renderer.Renderer

	// SetRenderer sets the renderer the scene draws through.
	//
	// Parameters:
	//   - r: the renderer, nil to only prepare and sync
	SetRenderer(r renderer.Renderer)

	// Add appends an object. Awake and Start run immediately when the scene is initialized.
	//
	// Parameters:
	//   - obj: the object to add
	Add(obj game_object.GameObject)

	// Remove removes an object, destroying it when the scene is initialized.
	//
	// Parameters:
	//   - obj: the object to remove
	//
	// Returns:
	//   - bool: true if the object was in the scene
	Remove(obj game_object.GameObject) bool

	// ClearGameObjects destroys and removes every object.
	ClearGameObjects()

	// Clear removes every object and light.
	Clear()

	// Find returns the first object with the given name.
	//
	// Parameters:
	//   - name: the object name
	//
	// Returns:
	//   - game_object.GameObject: the object, or nil
	Find(name string) game_object.GameObject

	// GameObjects returns a copy of the object list.
	//
	// Returns:
	//   - []game_object.GameObject: the objects in insertion order
	GameObjects() []game_object.GameObject

	// AddLight appends a light.
	//
	// Parameters:
	//   - l: the light
	AddLight(l light.Light)

	// RemoveLight removes a light.
	//
	// Parameters:
	//   - l: the light
	//
	// Returns:
	//   - bool: true if the light was in the scene
	RemoveLight(l light.Light) bool

	// ClearLights removes every light.
	ClearLights()

	// Lights returns a copy of the light list.
	//
	// Returns:
	//   - []light.Light: the lights in insertion order
	Lights() []light.Light

	// GetLight returns the selected light in slot i with intensity overrides applied.
	// Slots past LightCount hold light.PitchBlack. Panics when i >= ActiveLights.
	//
	// Parameters:
	//   - i: the slot
	//
	// Returns:
	//   - light.Source: the light
	GetLight(i int) light.Source

	// SetLightIntensity scales lights with the given name by pct percent.
	//
	// Parameters:
	//   - name: the light name
	//   - pct: the intensity in percent, clamped to [0, 100]
	SetLightIntensity(name string, pct float32)

	// ClearLightIntensity removes the intensity override for name.
	//
	// Parameters:
	//   - name: the light name
	ClearLightIntensity(name string)

	// ActiveLights returns the number of light slots selected per frame.
	ActiveLights() int

	// SetActiveLights sets the number of light slots, clamped to [0, light.MaxGPULights].
	//
	// Parameters:
	//   - n: the slot count
	SetActiveLights(n int)

	// LightCount returns the number of slots filled by the last selection.
	LightCount() int

	// SetClipPlane sets the clip plane used while clipping is enabled.
	//
	// Parameters:
	//   - plane: the plane (normal xyz, distance w)
	SetClipPlane(plane mgl32.Vec4)

	// SetClipDistance enables or disables the clip plane.
	//
	// Parameters:
	//   - enabled: true to clip
	SetClipDistance(enabled bool)

	// ClipDistance reports whether clipping is enabled.
	ClipDistance() bool

	// Passes returns the configured passes.
	Passes() []Pass

	// SetPasses replaces the configured passes. With none, a frame draws once to the default target.
	//
	// Parameters:
	//   - passes: the passes in draw order
	SetPasses(passes ...Pass)

	// Stats returns the statistics of the last drawn frame.
	Stats() Stats

	// Release stops the staging workers. The scene must not be drawn afterwards.
	Release()
}

// scene is the implementation of the Scene interface.
type scene struct {
	mu *sync.RWMutex

	name  string
	state State

	cam camera.Camera
	sk  sky.Sky
	r   renderer.Renderer

	skyOptions   []sky.SkyBuilderOption
	activeLights int
	onInit       func(Scene)
	onExit       func(Scene)

	objects  []game_object.GameObject
	lights   []light.Light
	snapshot []game_object.GameObject

	cameraState uint64
	selector    *light.Selector

	cells    *pool.Pool[game_object.GameObject]
	parents  *pool.Pouch[game_object.GameObject, game_object.GameObject]
	queue    *pool.Queue[game_object.GameObject]
	grouping *batch.Grouping[shader.Shader, model.Model, material.Material, game_object.GameObject]

	clip      bool
	clipPlane mgl32.Vec4

	passes    []Pass
	remaining int

	drawList []game_object.GameObject
	uniforms []renderer.ObjectUniform

	stats Stats

	// stagePool stages object uniforms in parallel chunks. Workers persist across frames.
	stagePool      worker.DynamicWorkerPool
	computeWorkers int
}

var _ Scene = &scene{}

// NewScene creates an uninitialized Scene.
//
// Parameters:
//   - name: the name of the scene
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:             &sync.RWMutex{},
		name:           name,
		activeLights:   DefaultActiveLights,
		computeWorkers: max(runtime.NumCPU()-1, 1),
		selector:       light.NewSelector(DefaultActiveLights),
		grouping:       batch.NewGrouping[shader.Shader, model.Model, material.Material, game_object.GameObject](),
	}
	s.cells = pool.NewPool[game_object.GameObject]()
	s.parents = pool.NewPouch[game_object.GameObject](s.cells)
	s.queue = pool.NewQueue(s.cells)

	for _, opt := range options {
		opt(s)
	}
	if s.cam == nil {
		s.cam = camera.NewCamera()
	}
	s.sk = sky.NewSky(s.skyOptions...)
	s.selector.SetActive(s.activeLights)

	// Queue size of 256 leaves room for one chunk per worker.
	s.stagePool = worker.NewDynamicWorkerPool(s.computeWorkers, 256, 1*time.Second)
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// invalidate resets every transient structure and counter.
func (s *scene) invalidate() {
	s.cameraState = 0
	s.selector.Invalidate()
	s.selector.SetActive(s.activeLights)
	s.parents.Clear()
	s.queue.Clear()
	s.grouping.Clear()
	s.remaining = 0
	s.clip = false
	s.clipPlane = mgl32.Vec4{}
	s.cam.SetLocalPosition(mgl32.Vec3{})
	s.cam.SetLocalRotation(mgl32.Vec3{})
	s.cam.Reset()
	s.sk = sky.NewSky(s.skyOptions...)
	s.stats = Stats{}
}

func (s *scene) Init() {
	s.mu.Lock()
	if s.state == StateInitialized {
		s.mu.Unlock()
		return
	}
	s.invalidate()
	s.mu.Unlock()

	if s.onInit != nil {
		s.onInit(s)
	}

	s.mu.Lock()
	if len(s.lights) == 0 {
		s.lights = append(s.lights, light.Sun())
	}
	// counters restarted at zero, so every shader must upload again
	for _, obj := range s.objects {
		if m := obj.Material(); m != nil {
			m.Shader().Invalidate()
		}
	}
	s.sk.BeginCycle()
	s.state = StateInitialized
	objects := slices.Clone(s.objects)
	s.mu.Unlock()

	for _, obj := range objects {
		obj.Awake()
	}
	for _, obj := range objects {
		obj.Start()
	}
	log.Printf("[Scene] %s initialized with %d objects", s.name, len(objects))
}

func (s *scene) Frame(dt float32) error {
	s.mu.Lock()
	if s.state != StateInitialized {
		s.mu.Unlock()
		return nil
	}
	s.snapshot = append(s.snapshot[:0], s.objects...)
	s.mu.Unlock()

	if s.r != nil {
		if w, h := s.r.Size(); w > 0 && h > 0 {
			if err := s.cam.SetAspect(float32(w) / float32(h)); err != nil {
				log.Printf("[Scene] %s: camera aspect for %dx%d rejected: %v", s.name, w, h, err)
			}
		}
	}

	for _, obj := range s.snapshot {
		obj.Update(dt)
	}
	for _, obj := range s.snapshot {
		obj.Late(dt)
	}
	clear(s.snapshot)
	return s.Draw(dt)
}

func (s *scene) Draw(dt float32) error {
	passes := max(len(s.passes), 1)
	s.remaining = passes
	s.stats = Stats{Passes: passes}

	s.Prepare()
	s.Sync(dt)

	// A failed pass leaves the grouping undrained; never carry it into the next frame.
	defer func() {
		if s.grouping.Len() > 0 {
			s.grouping.Clear()
		}
		s.remaining = 0
	}()

	if s.r == nil {
		return nil
	}
	if err := s.r.Reserve(s.grouping.Len()); err != nil {
		return fmt.Errorf("scene %s: %w", s.name, err)
	}

	for i := range passes {
		var target renderer.Target
		if len(s.passes) > 0 {
			p := s.passes[i]
			target = p.Target
			s.clip, s.clipPlane = p.Clip, p.ClipPlane
			if p.Before != nil {
				p.Before(s)
			}
		}
		if err := s.r.BeginPass(target, s.sk.SkyColor()); err != nil {
			return fmt.Errorf("scene %s: pass %d: %w", s.name, i, err)
		}
		s.Viewport()
		drawErr := s.DrawScene()
		endErr := s.r.EndPass()
		if drawErr != nil {
			return fmt.Errorf("scene %s: pass %d: %w", s.name, i, drawErr)
		}
		if endErr != nil {
			return fmt.Errorf("scene %s: pass %d: %w", s.name, i, endErr)
		}
	}
	return nil
}

func (s *scene) Prepare() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, obj := range s.objects {
		if parent := obj.Parent(); parent != nil {
			s.parents.Add(parent, obj)
		}
		if obj.Drawable() && !obj.Hidden() {
			m := obj.Material()
			s.grouping.Add(m.Shader(), obj.Mesh(), m, obj)
		}
	}
	s.stats.Objects = len(s.objects)
}

func (s *scene) Sync(dt float32) {
	s.mu.RLock()
	for _, obj := range s.objects {
		if obj.Parent() != nil {
			continue
		}
		s.queue.Enqueue(obj)
		for s.queue.Len() > 0 {
			current := s.queue.Dequeue()
			current.Sync()
			for child, ok := s.parents.Retrieve(current); ok; child, ok = s.parents.Retrieve(current) {
				s.queue.Enqueue(child)
			}
		}
	}
	// children of parents outside the scene are never reached
	s.parents.Clear()

	s.cam.Adjust()
	s.cameraState++

	s.sk.Update(dt)
	s.selector.Update(s.lights, s.cam.Position())
	s.mu.RUnlock()

	s.stats.Lights = s.selector.Count()
}

func (s *scene) Viewport() {
	if s.r == nil || !s.r.DefaultTargetBound() {
		return
	}
	w, h := s.r.Size()
	if err := s.r.SetViewport(0, 0, w, h); err != nil {
		log.Printf("[Scene] %s: viewport %dx%d failed: %v", s.name, w, h, err)
	}
}

func (s *scene) DrawScene() error {
	if s.remaining == 0 {
		return nil
	}
	s.remaining--

	s.drawList = s.drawList[:0]
	for obj := range s.grouping.Redeem(s.remaining == 0) {
		s.drawList = append(s.drawList, obj)
	}
	if s.r == nil || len(s.drawList) == 0 {
		clear(s.drawList)
		return nil
	}

	s.stage(s.drawList)

	var (
		boundShader   shader.Shader
		boundMesh     model.Model
		boundMaterial material.Material
	)
	for i, obj := range s.drawList {
		mat := obj.Material()
		sh, mesh := mat.Shader(), obj.Mesh()
		if sh != boundShader {
			if err := s.r.UseShader(sh, s); err != nil {
				return err
			}
			boundShader, boundMesh, boundMaterial = sh, nil, nil
			s.stats.Rebinds++
		}
		if mesh != boundMesh {
			if err := s.r.BindMesh(mesh); err != nil {
				return err
			}
			boundMesh, boundMaterial = mesh, nil
			s.stats.Rebinds++
		}
		if mat != boundMaterial {
			if err := s.r.BindMaterial(mat); err != nil {
				return err
			}
			boundMaterial = mat
			s.stats.Rebinds++
		}
		if err := s.r.Draw(s.uniforms[i]); err != nil {
			return err
		}
		s.stats.Drawn++
	}
	clear(s.drawList)
	return nil
}

func (s *scene) Exit() {
	s.mu.Lock()
	if s.state != StateInitialized {
		s.mu.Unlock()
		return
	}
	objects := s.objects
	s.objects = nil
	s.lights = nil
	s.mu.Unlock()

	for _, obj := range objects {
		obj.Destroy()
	}
	if s.onExit != nil {
		s.onExit(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sk.EndCycle()
	for range s.grouping.Recover() {
	}
	s.parents.Clear()
	s.queue.Clear()
	s.state = StateUninitialized
	log.Printf("[Scene] %s exited", s.name)
}

func (s *scene) Camera() camera.Camera {
	return s.cam
}

func (s *scene) Sky() sky.Sky {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sk
}

func (s *scene) Renderer() renderer.Renderer {
	return s.r
}

func (s *scene) SetRenderer(r renderer.Renderer) {
	s.r = r
}

func (s *scene) Add(obj game_object.GameObject) {
	if obj == nil {
		panic("scene: cannot add a nil game object")
	}
	s.mu.Lock()
	s.objects = append(s.objects, obj)
	initialized := s.state == StateInitialized
	s.mu.Unlock()

	if initialized {
		obj.Awake()
		obj.Start()
	}
}

func (s *scene) Remove(obj game_object.GameObject) bool {
	s.mu.Lock()
	i := slices.Index(s.objects, obj)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.objects = slices.Delete(s.objects, i, i+1)
	initialized := s.state == StateInitialized
	s.mu.Unlock()

	if initialized {
		obj.Destroy()
	}
	return true
}

func (s *scene) ClearGameObjects() {
	s.mu.Lock()
	objects := s.objects
	s.objects = nil
	s.mu.Unlock()

	for _, obj := range objects {
		obj.Destroy()
	}
}

func (s *scene) Clear() {
	s.ClearGameObjects()
	s.ClearLights()
}

func (s *scene) Find(name string) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, obj := range s.objects {
		if obj.Name() == name {
			return obj
		}
	}
	return nil
}

func (s *scene) GameObjects() []game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.objects)
}

func (s *scene) AddLight(l light.Light) {
	if l == nil {
		panic("scene: cannot add a nil light")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lights = append(s.lights, l)
}

func (s *scene) RemoveLight(l light.Light) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.Index(s.lights, l)
	if i < 0 {
		return false
	}
	s.lights = slices.Delete(s.lights, i, i+1)
	return true
}

func (s *scene) ClearLights() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lights = nil
}

func (s *scene) Lights() []light.Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.lights)
}

func (s *scene) GetLight(i int) light.Source {
	return s.selector.Light(i)
}

func (s *scene) SetLightIntensity(name string, pct float32) {
	s.selector.SetIntensity(name, pct)
}

func (s *scene) ClearLightIntensity(name string) {
	s.selector.ClearIntensity(name)
}

func (s *scene) ActiveLights() int {
	return s.selector.Active()
}

func (s *scene) SetActiveLights(n int) {
	n = min(max(n, 0), light.MaxGPULights)
	s.activeLights = n
	s.selector.SetActive(n)
}

func (s *scene) LightCount() int {
	return s.selector.Count()
}

func (s *scene) SetClipPlane(plane mgl32.Vec4) {
	s.clipPlane = plane
}

func (s *scene) SetClipDistance(enabled bool) {
	s.clip = enabled
}

func (s *scene) ClipDistance() bool {
	return s.clip
}

func (s *scene) Passes() []Pass {
	return slices.Clone(s.passes)
}

func (s *scene) SetPasses(passes ...Pass) {
	s.passes = slices.Clone(passes)
}

func (s *scene) Stats() Stats {
	return s.stats
}

func (s *scene) Release() {
	s.stagePool.Stop()
}

func (s *scene) CameraState() uint64 {
	return s.cameraState
}

func (s *scene) AmbientState() uint64 {
	return s.sk.AmbientState()
}

func (s *scene) LightingState() uint64 {
	return s.selector.State()
}

func (s *scene) CameraUniform() camera.GPUCameraUniform {
	return s.cam.Uniform()
}

func (s *scene) AmbientUniform() sky.GPUAmbient {
	return s.sk.Uniform()
}

func (s *scene) LightsUniform() []byte {
	selected := make([]light.Source, 0, s.selector.Count())
	for _, src := range s.selector.Selected {
		selected = append(selected, src)
	}
	return light.MarshalLights(selected)
}

func (s *scene) ClipPlane() mgl32.Vec4 {
	if !s.clip {
		return mgl32.Vec4{}
	}
	return s.clipPlane
}
