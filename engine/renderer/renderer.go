package renderer

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/model"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// Surface is what the WGPU backend needs from a window. window.Window satisfies it.
type Surface interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

var (
	// ErrPassActive is returned when a pass is begun while another is still open,
	// or when the surface is resized or objects are reserved mid-pass.
	ErrPassActive = errors.New("renderer: a pass is already active")

	// ErrNoPass is returned by issuance calls made outside BeginPass/EndPass.
	ErrNoPass = errors.New("renderer: no active pass")

	// ErrUnbound is returned by Draw when no shader or mesh has been bound in the pass.
	ErrUnbound = errors.New("renderer: draw without a bound shader and mesh")

	// ErrObjectCapacity is returned by Draw when the pass has used every reserved object slot.
	ErrObjectCapacity = errors.New("renderer: object capacity exceeded")
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	width, height int

	inPass        bool
	defaultBound  bool
	shaderBound   bool
	meshBound     bool
	draws         int
	capacity      int
	frameDraws    int
	frameBindings int

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
}

// Renderer is the narrow issuance interface the scene draws through.
//
// A frame is a sequence of passes. Each pass begins on a target (nil for the window surface),
// binds shaders, meshes and materials, and draws objects; Present shows the surface once the
// frame's passes are done. The Renderer checks pass state and forwards to the backend selected
// at construction.
type Renderer interface {
	// BackendType returns the backend implementation in use.
	//
	// Returns:
	//   - RendererBackendType: the backend type
	BackendType() RendererBackendType

	// Backend returns the backend itself, mostly for inspection in tests.
	//
	// Returns:
	//   - RendererBackend: the active backend
	Backend() RendererBackend

	// Size returns the size of the default target.
	//
	// Returns:
	//   - int: width in pixels
	//   - int: height in pixels
	Size() (int, int)

	// Resize configures the underlying backend to handle a new surface size.
	// This should be called when re-sizing the window or when the surface size should change.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: ErrPassActive if called while a pass is open
	Resize(width, height int) error

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// Reserve makes room for at least the given number of draws per pass.
	//
	// Parameters:
	//   - objects: the number of draws a pass will issue
	//
	// Returns:
	//   - error: ErrPassActive if a pass is open, or the backend's allocation error
	Reserve(objects int) error

	// CreateTarget allocates an off-screen render target.
	//
	// Parameters:
	//   - label: a debug label for the target
	//   - width: the target width in pixels
	//   - height: the target height in pixels
	//
	// Returns:
	//   - Target: the created target
	//   - error: an error if the dimensions are invalid or allocation failed
	CreateTarget(label string, width, height int) (Target, error)

	// BeginPass opens a pass on the target, cleared to the given color.
	//
	// Parameters:
	//   - target: the target to draw into, nil for the default surface
	//   - clear: the clear color
	//
	// Returns:
	//   - error: ErrPassActive if a pass is open, or the backend's acquisition error
	BeginPass(target Target, clear common.Color) error

	// DefaultTargetBound reports whether the open pass (or the last one) draws to the default surface.
	//
	// Returns:
	//   - bool: true when the default surface is the current target
	DefaultTargetBound() bool

	// SetViewport sets the viewport of the open pass.
	//
	// Parameters:
	//   - x, y: the top-left corner in pixels
	//   - width, height: the viewport size in pixels
	//
	// Returns:
	//   - error: ErrNoPass outside a pass
	SetViewport(x, y, width, height int) error

	// UseShader binds a shader and brings its frame uniforms up to date with state.
	//
	// Parameters:
	//   - s: the shader to bind
	//   - state: the frame state to read versions and uniforms from
	//
	// Returns:
	//   - error: ErrNoPass outside a pass, or the backend's pipeline error
	UseShader(s shader.Shader, state FrameState) error

	// BindMesh binds a model's geometry.
	//
	// Parameters:
	//   - m: the model to bind
	//
	// Returns:
	//   - error: ErrNoPass outside a pass, or the backend's buffer error
	BindMesh(m model.Model) error

	// BindMaterial binds a material's uniform.
	//
	// Parameters:
	//   - m: the material to bind
	//
	// Returns:
	//   - error: ErrNoPass outside a pass, or the backend's buffer error
	BindMaterial(m material.Material) error

	// Draw issues one draw of the bound mesh.
	//
	// Parameters:
	//   - u: the per-object uniform
	//
	// Returns:
	//   - error: ErrNoPass, ErrUnbound or ErrObjectCapacity when issuance is not possible
	Draw(u ObjectUniform) error

	// EndPass finishes and submits the open pass.
	//
	// Returns:
	//   - error: ErrNoPass outside a pass, or the backend's submission error
	EndPass() error

	// Present shows the default surface and resets the per-frame counters.
	Present()

	// Stats returns the draws and bind calls issued since the last Present.
	//
	// Returns:
	//   - int: draws issued
	//   - int: shader, mesh and material binds issued
	Stats() (int, int)

	// Release frees the backend's resources.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer with the specified backend type and options.
// The WGPU backend needs a window to create its surface; the headless backend ignores it.
//
// Parameters:
//   - backendType: the type of rendering backend to use
//   - win: the surface to render into (may be nil for BackendTypeHeadless)
//   - options: functional options to configure the renderer
//
// Returns:
//   - Renderer: the newly created Renderer instance
func NewRenderer(backendType RendererBackendType, win Surface, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		width:       1280,
		height:      720,
	}
	for _, opt := range options {
		opt(r)
	}
	if win != nil {
		r.width, r.height = win.Width(), win.Height()
	}

	switch backendType {
	case BackendTypeWGPU:
		if win == nil {
			panic("renderer: the wgpu backend requires a window")
		}
		sampleCount := MSAA4x
		if r.pendingMSAA != nil {
			sampleCount = *r.pendingMSAA
		}
		r.backend = newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter, sampleCount)
	case BackendTypeHeadless:
		r.backend = NewHeadlessBackend()
	default:
		panic(fmt.Sprintf("renderer: unsupported backend type %d", backendType))
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	r.backend.ConfigureSurface(r.width, r.height)

	log.Printf("[Renderer] %s backend ready at %dx%d", backendType, r.width, r.height)
	return r
}

func (r *renderer) BackendType() RendererBackendType {
	return r.backendType
}

func (r *renderer) Backend() RendererBackend {
	return r.backend
}

func (r *renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *renderer) Resize(width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inPass {
		return ErrPassActive
	}
	if width <= 0 || height <= 0 || (width == r.width && height == r.height) {
		return nil
	}
	r.width, r.height = width, height
	r.backend.ConfigureSurface(width, height)
	return nil
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) Reserve(objects int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inPass {
		return ErrPassActive
	}
	if objects <= r.capacity {
		return nil
	}
	if err := r.backend.Reserve(objects); err != nil {
		return fmt.Errorf("reserve %d objects: %w", objects, err)
	}
	r.capacity = objects
	return nil
}

func (r *renderer) CreateTarget(label string, width, height int) (Target, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("renderer: invalid target size %dx%d for %q", width, height, label)
	}
	t, err := r.backend.CreateTarget(label, width, height)
	if err != nil {
		return nil, fmt.Errorf("create target %q: %w", label, err)
	}
	return t, nil
}

func (r *renderer) BeginPass(target Target, clear common.Color) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inPass {
		return ErrPassActive
	}
	if err := r.backend.BeginPass(target, clear); err != nil {
		return fmt.Errorf("begin pass: %w", err)
	}
	r.inPass = true
	r.defaultBound = target == nil
	r.shaderBound, r.meshBound = false, false
	r.draws = 0
	return nil
}

func (r *renderer) DefaultTargetBound() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.defaultBound
}

func (r *renderer) SetViewport(x, y, width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.inPass {
		return ErrNoPass
	}
	r.backend.SetViewport(x, y, width, height)
	return nil
}

func (r *renderer) UseShader(s shader.Shader, state FrameState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.inPass {
		return ErrNoPass
	}
	if err := r.backend.UseShader(s, state); err != nil {
		return fmt.Errorf("use shader %q: %w", s.Key(), err)
	}
	r.shaderBound = true
	r.frameBindings++
	return nil
}

func (r *renderer) BindMesh(m model.Model) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.inPass {
		return ErrNoPass
	}
	if err := r.backend.BindMesh(m); err != nil {
		return fmt.Errorf("bind mesh %q: %w", m.Name(), err)
	}
	r.meshBound = true
	r.frameBindings++
	return nil
}

func (r *renderer) BindMaterial(m material.Material) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.inPass {
		return ErrNoPass
	}
	if err := r.backend.BindMaterial(m); err != nil {
		return fmt.Errorf("bind material %q: %w", m.Name(), err)
	}
	r.frameBindings++
	return nil
}

func (r *renderer) Draw(u ObjectUniform) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.inPass {
		return ErrNoPass
	}
	if !r.shaderBound || !r.meshBound {
		return ErrUnbound
	}
	if r.draws >= r.capacity {
		return ErrObjectCapacity
	}
	if err := r.backend.Draw(u); err != nil {
		return err
	}
	r.draws++
	r.frameDraws++
	return nil
}

func (r *renderer) EndPass() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.inPass {
		return ErrNoPass
	}
	r.inPass = false
	if err := r.backend.EndPass(); err != nil {
		return fmt.Errorf("end pass: %w", err)
	}
	return nil
}

func (r *renderer) Present() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.Present()
	r.frameDraws, r.frameBindings = 0, 0
}

func (r *renderer) Stats() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frameDraws, r.frameBindings
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.Release()
	log.Printf("[Renderer] %s backend released", r.backendType)
}
