package light

import "github.com/Carmen-Shannon/oxy-scene/common"

// LightBuilderOption is a functional option for configuring a light.
type LightBuilderOption func(*lightImpl)

// WithName sets the light's name, used to target intensity overrides.
//
// Parameters:
//   - name: the light name
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithName(name string) LightBuilderOption {
	return func(l *lightImpl) {
		l.name = name
	}
}

// WithPosition sets the world-space position of the light.
//
// Parameters:
//   - x, y, z: position components
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithPosition(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.SetPosition(x, y, z)
	}
}

// WithColor sets the light color.
//
// Parameters:
//   - c: the color
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithColor(c common.Color) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = c
	}
}

// WithPower sets the normalized intensity, overriding the type's default.
//
// Parameters:
//   - power: the power, normally in [0, 1]
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithPower(power float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.power = power
	}
}

// WithAttenuation sets the falloff coefficients, overriding the type's default.
//
// Parameters:
//   - a: the coefficients
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithAttenuation(a Attenuation) LightBuilderOption {
	return func(l *lightImpl) {
		l.attenuation = a
	}
}

// WithImportant marks the light to sort ahead of every ordinary light.
//
// Parameters:
//   - important: true to prioritize
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithImportant(important bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.important = important
	}
}

// WithEnabled sets whether the light takes part in selection. Lights are enabled by default.
//
// Parameters:
//   - enabled: false to skip the light
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithEnabled(enabled bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.enabled = enabled
	}
}
