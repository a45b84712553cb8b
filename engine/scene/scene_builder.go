package scene

import (
	"github.com/Carmen-Shannon/oxy-scene/engine/camera"
	"github.com/Carmen-Shannon/oxy-scene/engine/game_object"
	"github.com/Carmen-Shannon/oxy-scene/engine/light"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer"
	"github.com/Carmen-Shannon/oxy-scene/engine/sky"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithCamera sets the scene camera.
//
// Parameters:
//   - c: the camera
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCamera(c camera.Camera) SceneBuilderOption {
	return func(s *scene) {
		s.cam = c
	}
}

// WithSkyOptions sets the options every sky built for this scene is created with.
// Init builds a fresh sky from them.
//
// Parameters:
//   - options: the sky options
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSkyOptions(options ...sky.SkyBuilderOption) SceneBuilderOption {
	return func(s *scene) {
		s.skyOptions = append(s.skyOptions, options...)
	}
}

// WithActiveLights sets the number of light slots selected per frame, clamped to [0, light.MaxGPULights].
//
// Parameters:
//   - n: the slot count
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActiveLights(n int) SceneBuilderOption {
	return func(s *scene) {
		s.activeLights = min(max(n, 0), light.MaxGPULights)
	}
}

// WithComputeWorkers sets the number of worker goroutines that stage object uniforms.
// Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithComputeWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		s.computeWorkers = max(n, 1)
	}
}

// WithPasses sets the passes drawn every frame.
//
// Parameters:
//   - passes: the passes in draw order
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithPasses(passes ...Pass) SceneBuilderOption {
	return func(s *scene) {
		s.passes = append(s.passes, passes...)
	}
}

// WithRenderer sets the renderer the scene draws through.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) SceneBuilderOption {
	return func(s *scene) {
		s.r = r
	}
}

// WithInit sets a hook run by Init after the scene state is reset and before objects wake.
// Lights added here suppress the default sun.
//
// Parameters:
//   - fn: the hook
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithInit(fn func(Scene)) SceneBuilderOption {
	return func(s *scene) {
		s.onInit = fn
	}
}

// WithExit sets a hook run by Exit after every object is destroyed.
//
// Parameters:
//   - fn: the hook
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithExit(fn func(Scene)) SceneBuilderOption {
	return func(s *scene) {
		s.onExit = fn
	}
}

// WithObjects adds initial objects to the scene.
//
// Parameters:
//   - objects: the objects to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithObjects(objects ...game_object.GameObject) SceneBuilderOption {
	return func(s *scene) {
		for _, obj := range objects {
			if obj != nil {
				s.objects = append(s.objects, obj)
			}
		}
	}
}

// WithLights adds initial lights to the scene.
//
// Parameters:
//   - lights: the lights to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLights(lights ...light.Light) SceneBuilderOption {
	return func(s *scene) {
		for _, l := range lights {
			if l != nil {
				s.lights = append(s.lights, l)
			}
		}
	}
}
