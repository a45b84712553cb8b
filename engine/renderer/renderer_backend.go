package renderer

import (
	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/model"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/shader"
)

// RendererBackendType identifies the backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota

	// BackendTypeHeadless selects a backend that records every issued call instead of talking to a GPU.
	// It needs no window and is what tests and off-screen runs use.
	BackendTypeHeadless
)

// String returns the lowercase name of the backend type.
func (t RendererBackendType) String() string {
	switch t {
	case BackendTypeWGPU:
		return "wgpu"
	case BackendTypeHeadless:
		return "headless"
	default:
		return "unknown"
	}
}

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// Only specific power-of-two values are valid for GPU hardware. WebGPU guarantees support for
// 1 (off) and 4; higher values (8, 16) are adapter-dependent and may not be available.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4

	// MSAA8x enables 8× multisample anti-aliasing. Adapter-dependent; not all hardware supports this.
	MSAA8x MSAASampleCount = 8

	// MSAA16x enables 16× multisample anti-aliasing. Adapter-dependent; not all hardware supports this.
	MSAA16x MSAASampleCount = 16
)

// RendererBackend is the contract every backend implements.
// The Renderer validates pass state before forwarding, so backends may assume
// a pass is open whenever a bind or draw call arrives.
type RendererBackend interface {
	// ConfigureSurface (re)creates size-dependent resources for the default target.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// Reserve makes room for at least the given number of object uniforms per pass.
	//
	// Parameters:
	//   - objects: the number of draws the next passes will issue
	//
	// Returns:
	//   - error: an error if the object buffer could not be grown
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
	//   - error: an error if the target resources could not be created
	CreateTarget(label string, width, height int) (Target, error)

	// BeginPass opens a render pass that clears the target to the given color.
	//
	// Parameters:
	//   - target: the target to render into, nil for the default surface
	//   - clear: the clear color
	//
	// Returns:
	//   - error: an error if the target could not be acquired
	BeginPass(target Target, clear common.Color) error

	// SetViewport sets the viewport rectangle of the open pass.
	//
	// Parameters:
	//   - x, y: the top-left corner in pixels
	//   - width, height: the viewport size in pixels
	SetViewport(x, y, width, height int)

	// UseShader binds the shader's pipeline and re-uploads whichever frame uniforms the
	// shader's StateCache reports as stale.
	//
	// Parameters:
	//   - s: the shader to bind
	//   - state: the frame state providing versions and uniform data
	//
	// Returns:
	//   - error: an error if the pipeline could not be created
	UseShader(s shader.Shader, state FrameState) error

	// BindMesh binds the model's vertex and index buffers, creating them on first use.
	//
	// Parameters:
	//   - m: the model to bind
	//
	// Returns:
	//   - error: an error if the mesh buffers could not be created
	BindMesh(m model.Model) error

	// BindMaterial binds the material's uniform, re-uploading it when its version changed.
	//
	// Parameters:
	//   - m: the material to bind
	//
	// Returns:
	//   - error: an error if the material resources could not be created
	BindMaterial(m material.Material) error

	// Draw issues one indexed draw of the bound mesh with the given object uniform.
	//
	// Parameters:
	//   - u: the per-object uniform
	//
	// Returns:
	//   - error: an error if the object buffer is full
	Draw(u ObjectUniform) error

	// EndPass finishes and submits the open pass.
	//
	// Returns:
	//   - error: an error if the command buffer could not be finished
	EndPass() error

	// Present displays the default surface if a pass rendered into it this frame.
	Present()

	// Release frees every resource the backend owns.
	Release()
}
