package sky

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// ErrTexturedStaticSkybox is returned when a textured skybox is used as the static background.
var ErrTexturedStaticSkybox = errors.New("sky: static skybox must be plain")

const (
	DefaultFogDensity         = 0.005
	DefaultFogGradient        = 10
	DefaultRotationSpeed      = 0.5
	DefaultTransitionSpeed    = 0.1
	DefaultSkyboxDuration     = 10
	DefaultTransitionDuration = 2
)

type sky struct {
	ambientState uint64
	static       Skybox
	ambient      Ambient
	fogDensity   float32
	fogGradient  float32

	cycle     *Cycle
	tween     *gween.Tween
	remaining float32

	rotationSpeed      float32
	transitionSpeed    float32
	skyboxDuration     float32
	transitionDuration float32
}

// Sky defines the ambient environment of a scene: the static background or skybox cycle, the
// ambient light and the fog. Every visible change increments AmbientState exactly once.
type Sky interface {
	// AmbientState returns the version of the ambient data.
	//
	// Returns:
	//   - uint64: the version, starting at 0
	AmbientState() uint64

	// StaticSkybox returns the plain background used when no cycle is present.
	//
	// Returns:
	//   - Skybox: the background
	StaticSkybox() Skybox

	// SetStaticSkybox replaces the plain background.
	//
	// Parameters:
	//   - s: the new background
	//
	// Returns:
	//   - error: ErrTexturedStaticSkybox if s is textured
	SetStaticSkybox(s Skybox) error

	// Ambient returns the ambient light.
	//
	// Returns:
	//   - Ambient: the ambient light
	Ambient() Ambient

	// SetAmbient replaces the ambient light.
	//
	// Parameters:
	//   - a: the new ambient light
	SetAmbient(a Ambient)

	// FogDensity returns the exponential fog density.
	//
	// Returns:
	//   - float32: the density
	FogDensity() float32

	// SetFogDensity sets the exponential fog density.
	//
	// Parameters:
	//   - d: the density
	SetFogDensity(d float32)

	// FogGradient returns the exponential fog gradient.
	//
	// Returns:
	//   - float32: the gradient
	FogGradient() float32

	// SetFogGradient sets the exponential fog gradient.
	//
	// Parameters:
	//   - g: the gradient
	SetFogGradient(g float32)

	// SkyColor returns the clear color: the static skybox color, or the cycle's blended color when
	// the cycle holds skyboxes.
	//
	// Returns:
	//   - common.Color: the color
	SkyColor() common.Color

	// Cycle returns the skybox cycle.
	//
	// Returns:
	//   - *Cycle: the cycle, owned by the sky
	Cycle() *Cycle

	// BeginCycle starts the skybox cycle. No-op if the cycle is empty or already running.
	BeginCycle()

	// EndCycle stops the skybox cycle.
	EndCycle()

	// Update advances the skybox cycle.
	//
	// Parameters:
	//   - dt: frame time in seconds
	Update(dt float32)

	// Uniform packs the ambient, fog and sky color for GPU upload.
	//
	// Returns:
	//   - GPUAmbient: the packed uniform
	Uniform() GPUAmbient
}

var _ Sky = &sky{}

// NewSky creates a Sky with the deep sky background, bright ambient light and default fog.
//
// Parameters:
//   - options: variadic list of SkyBuilderOption functions
//
// Returns:
//   - Sky: the new sky
func NewSky(options ...SkyBuilderOption) Sky {
	s := &sky{
		static:             SkyboxDefault,
		ambient:            AmbientBright,
		fogDensity:         DefaultFogDensity,
		fogGradient:        DefaultFogGradient,
		cycle:              newCycle(),
		rotationSpeed:      DefaultRotationSpeed,
		transitionSpeed:    DefaultTransitionSpeed,
		skyboxDuration:     DefaultSkyboxDuration,
		transitionDuration: DefaultTransitionDuration,
	}
	for _, opt := range options {
		opt(s)
	}
	s.tween = gween.New(0, 1, s.transitionDuration, ease.Linear)
	return s
}

func (s *sky) AmbientState() uint64 {
	return s.ambientState
}

func (s *sky) StaticSkybox() Skybox {
	return s.static
}

func (s *sky) SetStaticSkybox(sb Skybox) error {
	if sb.Textured() {
		return ErrTexturedStaticSkybox
	}
	if sb.ID == s.static.ID {
		return nil
	}
	s.static = sb
	s.ambientState++
	return nil
}

func (s *sky) Ambient() Ambient {
	return s.ambient
}

func (s *sky) SetAmbient(a Ambient) {
	if a == s.ambient {
		return
	}
	s.ambient = a
	s.ambientState++
}

func (s *sky) FogDensity() float32 {
	return s.fogDensity
}

func (s *sky) SetFogDensity(d float32) {
	if d == s.fogDensity {
		return
	}
	s.fogDensity = d
	s.ambientState++
}

func (s *sky) FogGradient() float32 {
	return s.fogGradient
}

func (s *sky) SetFogGradient(g float32) {
	if g == s.fogGradient {
		return
	}
	s.fogGradient = g
	s.ambientState++
}

func (s *sky) SkyColor() common.Color {
	if s.cycle.Len() == 0 {
		return s.static.Color
	}
	return s.cycle.SkyColor()
}

func (s *sky) Cycle() *Cycle {
	return s.cycle
}

func (s *sky) BeginCycle() {
	if s.cycle.Len() == 0 || s.cycle.active {
		return
	}
	s.remaining = s.skyboxDuration
	s.cycle.transition = 0
	s.tween.Reset()
	s.cycle.active = true
}

func (s *sky) EndCycle() {
	s.cycle.active = false
}

// Update counts down the current skybox's display time, then advances the blend toward the next
// skybox. Both clocks run at transitionSpeed. When the blend completes the queue rotates and the
// countdown restarts.
func (s *sky) Update(dt float32) {
	if !s.cycle.active {
		return
	}
	s.cycle.rotation += s.rotationSpeed * dt
	delta := s.transitionSpeed * dt
	s.remaining -= delta
	if s.remaining >= 0 {
		return
	}

	t, done := s.tween.Update(delta)
	s.cycle.transition = t
	s.ambientState++
	if !done {
		return
	}
	s.cycle.transition = 0
	s.cycle.swap()
	s.tween.Reset()
	s.remaining = s.skyboxDuration
}

func (s *sky) Uniform() GPUAmbient {
	return GPUAmbient{
		Ambient:     s.ambient.Color.Array(),
		Power:       s.ambient.Power,
		FogDensity:  s.fogDensity,
		FogGradient: s.fogGradient,
		SkyColor:    s.SkyColor().Array(),
	}
}
