package light

import (
	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/go-gl/mathgl/mgl32"
)

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeDirectional represents a distant source such as the sun. It is shaded without
	// distance attenuation and its position only matters for prioritization and direction.
	LightTypeDirectional LightType = iota

	// LightTypePoint represents a light that emits in all directions from a position and
	// attenuates with distance.
	LightTypePoint
)

const (
	// DefaultPointPower is the normalized power given to point lights that do not set one.
	DefaultPointPower float32 = 0.6

	// DefaultDirectionalPower is the normalized power given to directional lights that do not set one.
	DefaultDirectionalPower float32 = 1
)

// Attenuation holds the constant, linear and quadratic falloff coefficients of a light.
type Attenuation struct {
	Constant, Linear, Quadratic float32
}

var (
	// AttenuationNone keeps full intensity at any distance.
	AttenuationNone = Attenuation{Constant: 1}

	// AttenuationDefault is the falloff used by point lights unless overridden.
	AttenuationDefault = Attenuation{Constant: 1.05, Quadratic: 0.05}
)

// Source is an immutable snapshot of a light's shading parameters.
// The selector keeps snapshots so that a light mutated in place is seen as a change on the next frame.
type Source struct {
	// Name is optional and keys the scene's intensity overrides.
	Name        string
	Type        LightType
	Position    mgl32.Vec3
	Color       common.Color
	Power       float32
	Attenuation Attenuation
	Important   bool
}

// Equal reports whether two snapshots shade identically: position, color, power and attenuation.
// Name, type and importance do not take part.
//
// Parameters:
//   - o: the snapshot to compare against
//
// Returns:
//   - bool: true if both snapshots shade the same
func (s Source) Equal(o Source) bool {
	return s.Position == o.Position &&
		s.Color == o.Color &&
		s.Power == o.Power &&
		s.Attenuation == o.Attenuation
}

// PitchBlack is the zero-intensity light returned for light slots past the selected count.
var PitchBlack = Source{
	Type:        LightTypePoint,
	Color:       common.ColorBlack,
	Attenuation: AttenuationNone,
}

// Light defines a light source owned by a scene.
// Lights are mutable in place; the scene snapshots them through Source every frame.
type Light interface {
	// Name returns the light's name, used to target intensity overrides. May be empty.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: directional or point
	Type() LightType

	// Position returns the world-space position of the light.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// Color returns the light color.
	//
	// Returns:
	//   - common.Color: the color
	Color() common.Color

	// Power returns the normalized intensity in [0, 1].
	//
	// Returns:
	//   - float32: the power
	Power() float32

	// Attenuation returns the falloff coefficients.
	//
	// Returns:
	//   - Attenuation: the coefficients
	Attenuation() Attenuation

	// Important reports whether the light sorts ahead of every ordinary light.
	//
	// Returns:
	//   - bool: true if important
	Important() bool

	// Enabled reports whether the light takes part in selection.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetPosition moves the light.
	//
	// Parameters:
	//   - x, y, z: position components
	SetPosition(x, y, z float32)

	// SetColor sets the light color.
	//
	// Parameters:
	//   - c: the color
	SetColor(c common.Color)

	// SetPower sets the normalized intensity.
	//
	// Parameters:
	//   - power: the power
	SetPower(power float32)

	// SetAttenuation sets the falloff coefficients.
	//
	// Parameters:
	//   - a: the coefficients
	SetAttenuation(a Attenuation)

	// SetImportant marks or clears the light as important.
	//
	// Parameters:
	//   - important: true to prioritize the light
	SetImportant(important bool)

	// SetEnabled enables or disables the light.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// Source returns a snapshot of the light's current parameters.
	//
	// Returns:
	//   - Source: the snapshot
	Source() Source
}

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	name        string
	lightType   LightType
	position    mgl32.Vec3
	color       common.Color
	power       float32
	attenuation Attenuation
	important   bool
	enabled     bool
}

var _ Light = &lightImpl{}

// NewLight creates a Light of the given type. Point lights default to DefaultPointPower with
// AttenuationDefault; directional lights to DefaultDirectionalPower with AttenuationNone.
// Both default to white and enabled.
//
// Parameters:
//   - lightType: the kind of light
//   - options: functional options applied after the defaults
//
// Returns:
//   - Light: the new light
func NewLight(lightType LightType, options ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType: lightType,
		color:     common.ColorWhite,
		enabled:   true,
	}
	switch lightType {
	case LightTypeDirectional:
		l.power = DefaultDirectionalPower
		l.attenuation = AttenuationNone
	default:
		l.power = DefaultPointPower
		l.attenuation = AttenuationDefault
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

// Sun returns a new important directional light high above the origin, named "Sun".
// Scenes without lights receive one at initialization.
func Sun() Light {
	return NewLight(LightTypeDirectional,
		WithName("Sun"),
		WithPosition(100, 500, 25),
		WithImportant(true),
	)
}

func (l *lightImpl) Name() string {
	return l.name
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() mgl32.Vec3 {
	return l.position
}

func (l *lightImpl) Color() common.Color {
	return l.color
}

func (l *lightImpl) Power() float32 {
	return l.power
}

func (l *lightImpl) Attenuation() Attenuation {
	return l.attenuation
}

func (l *lightImpl) Important() bool {
	return l.important
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) SetPosition(x, y, z float32) {
	l.position = mgl32.Vec3{x, y, z}
}

func (l *lightImpl) SetColor(c common.Color) {
	l.color = c
}

func (l *lightImpl) SetPower(power float32) {
	l.power = power
}

func (l *lightImpl) SetAttenuation(a Attenuation) {
	l.attenuation = a
}

func (l *lightImpl) SetImportant(important bool) {
	l.important = important
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
}

func (l *lightImpl) Source() Source {
	return Source{
		Name:        l.name,
		Type:        l.lightType,
		Position:    l.position,
		Color:       l.color,
		Power:       l.power,
		Attenuation: l.attenuation,
		Important:   l.important,
	}
}
