// Package config loads engine settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/light"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer"
	"github.com/Carmen-Shannon/oxy-scene/engine/scene"
	"github.com/Carmen-Shannon/oxy-scene/engine/sky"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid is returned when a decoded configuration fails validation.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the root of a configuration file.
type Config struct {
	Window   Window   `toml:"window"`
	Engine   Engine   `toml:"engine"`
	Renderer Renderer `toml:"renderer"`
	Scene    Scene    `toml:"scene"`
	Sky      Sky      `toml:"sky"`
}

// Window configures the native window.
type Window struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	MinWidth  int    `toml:"min_width"`
	MinHeight int    `toml:"min_height"`
}

// Engine configures the frame loop.
type Engine struct {
	// FrameLimit caps frames per second, 0 for uncapped.
	FrameLimit float64 `toml:"frame_limit"`
	Profiling  bool    `toml:"profiling"`
}

// Renderer configures the rendering backend.
type Renderer struct {
	Backend       string `toml:"backend"`        // "wgpu" or "headless"
	PresentMode   string `toml:"present_mode"`   // "vsync" or "uncapped"
	MSAA          int    `toml:"msaa"`           // 1, 4, 8 or 16
	ForceSoftware bool   `toml:"force_software"` // fallback adapter
}

// Scene configures the per-frame pipeline.
type Scene struct {
	Name           string `toml:"name"`
	ActiveLights   int    `toml:"active_lights"`
	ComputeWorkers int    `toml:"compute_workers"`
}

// Sky configures fog, ambient light and the skybox cycle.
type Sky struct {
	FogDensity         float32    `toml:"fog_density"`
	FogGradient        float32    `toml:"fog_gradient"`
	AmbientColor       [3]float32 `toml:"ambient_color"`
	AmbientPercent     float32    `toml:"ambient_percent"`
	RotationSpeed      float32    `toml:"rotation_speed"`
	TransitionSpeed    float32    `toml:"transition_speed"`
	SkyboxDuration     float32    `toml:"skybox_duration"`
	TransitionDuration float32    `toml:"transition_duration"`
}

// Default returns the configuration used when no file is given.
//
// Returns:
//   - Config: the default configuration
func Default() Config {
	return Config{
		Window: Window{
			Title:     "oxy-scene",
			Width:     1280,
			Height:    720,
			MinWidth:  320,
			MinHeight: 240,
		},
		Engine: Engine{
			FrameLimit: 144,
		},
		Renderer: Renderer{
			Backend:     "wgpu",
			PresentMode: "vsync",
			MSAA:        4,
		},
		Scene: Scene{
			Name:         "main",
			ActiveLights: scene.DefaultActiveLights,
		},
		Sky: Sky{
			FogDensity:         0.005,
			FogGradient:        10,
			AmbientColor:       [3]float32{1, 1, 1},
			AmbientPercent:     25,
			RotationSpeed:      0.5,
			TransitionSpeed:    0.1,
			SkyboxDuration:     10,
			TransitionDuration: 2,
		},
	}
}

// Load reads and validates the TOML file at path. Keys missing from the file keep their defaults.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - Config: the configuration
//   - error: an error if the file cannot be read, decoded or validated
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads a TOML document over Default and validates the result. Unknown keys are rejected.
//
// Parameters:
//   - r: the TOML source
//
// Returns:
//   - Config: the configuration
//   - error: an error if decoding or validation fails
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("config: %w: %s", ErrInvalid, strict.String())
		}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return Config{}, fmt.Errorf("config: decode at %d:%d: %w", row, col, err)
		}
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every value for range and enumeration errors.
//
// Returns:
//   - error: ErrInvalid wrapping every problem found, or nil
func (c Config) Validate() error {
	var problems []string
	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Sprintf(format, args...))
		}
	}

	check(c.Window.Width > 0 && c.Window.Height > 0, "window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	check(c.Window.MinWidth >= 0 && c.Window.MinHeight >= 0, "window minimum size must not be negative")
	check(c.Engine.FrameLimit >= 0, "engine.frame_limit %v must not be negative", c.Engine.FrameLimit)

	_, err := c.Renderer.BackendType()
	check(err == nil, "renderer.backend %q must be wgpu or headless", c.Renderer.Backend)
	_, err = c.Renderer.Present()
	check(err == nil, "renderer.present_mode %q must be vsync or uncapped", c.Renderer.PresentMode)
	switch c.Renderer.MSAA {
	case 1, 4, 8, 16:
	default:
		check(false, "renderer.msaa %d must be 1, 4, 8 or 16", c.Renderer.MSAA)
	}

	check(c.Scene.Name != "", "scene.name must not be empty")
	check(c.Scene.ActiveLights >= 0 && c.Scene.ActiveLights <= light.MaxGPULights,
		"scene.active_lights %d must be within [0, %d]", c.Scene.ActiveLights, light.MaxGPULights)
	check(c.Scene.ComputeWorkers >= 0, "scene.compute_workers %d must not be negative", c.Scene.ComputeWorkers)

	check(c.Sky.FogDensity >= 0, "sky.fog_density must not be negative")
	check(c.Sky.AmbientPercent >= 0 && c.Sky.AmbientPercent <= 100, "sky.ambient_percent %v must be within [0, 100]", c.Sky.AmbientPercent)
	check(c.Sky.SkyboxDuration > 0 && c.Sky.TransitionDuration > 0, "sky durations must be positive")

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// BackendType maps Backend to a renderer backend.
//
// Returns:
//   - renderer.RendererBackendType: the backend
//   - error: ErrInvalid for an unknown name
func (r Renderer) BackendType() (renderer.RendererBackendType, error) {
	switch strings.ToLower(r.Backend) {
	case "wgpu", "":
		return renderer.BackendTypeWGPU, nil
	case "headless":
		return renderer.BackendTypeHeadless, nil
	}
	return 0, fmt.Errorf("%w: unknown backend %q", ErrInvalid, r.Backend)
}

// Present maps PresentMode to a renderer present mode.
//
// Returns:
//   - renderer.PresentMode: the present mode
//   - error: ErrInvalid for an unknown name
func (r Renderer) Present() (renderer.PresentMode, error) {
	switch strings.ToLower(r.PresentMode) {
	case "vsync", "":
		return renderer.PresentModeVSync, nil
	case "uncapped":
		return renderer.PresentModeUncapped, nil
	}
	return 0, fmt.Errorf("%w: unknown present mode %q", ErrInvalid, r.PresentMode)
}

// Options returns the renderer options for a validated configuration.
//
// Parameters:
//   - w: the window section, used for the headless target size
//
// Returns:
//   - []renderer.RendererBuilderOption: the options
func (r Renderer) Options(w Window) []renderer.RendererBuilderOption {
	mode, _ := r.Present()
	return []renderer.RendererBuilderOption{
		renderer.WithSize(w.Width, w.Height),
		renderer.WithPresentMode(mode),
		renderer.WithMSAA(renderer.MSAASampleCount(r.MSAA)),
		renderer.WithForceSoftwareRenderer(r.ForceSoftware),
	}
}

// Options returns the sky options of the section.
//
// Returns:
//   - []sky.SkyBuilderOption: the options
func (s Sky) Options() []sky.SkyBuilderOption {
	c := s.AmbientColor
	return []sky.SkyBuilderOption{
		sky.WithFog(s.FogDensity, s.FogGradient),
		sky.WithAmbient(sky.NewAmbient(common.NewColor(c[0], c[1], c[2]), s.AmbientPercent)),
		sky.WithCycleTimings(s.RotationSpeed, s.TransitionSpeed, s.SkyboxDuration, s.TransitionDuration),
	}
}

// SceneOptions returns the scene options for the scene and sky sections.
//
// Returns:
//   - []scene.SceneBuilderOption: the options
func (c Config) SceneOptions() []scene.SceneBuilderOption {
	opts := []scene.SceneBuilderOption{
		scene.WithActiveLights(c.Scene.ActiveLights),
		scene.WithSkyOptions(c.Sky.Options()...),
	}
	if c.Scene.ComputeWorkers > 0 {
		opts = append(opts, scene.WithComputeWorkers(c.Scene.ComputeWorkers))
	}
	return opts
}
