package sky

// SkyBuilderOption is a functional option for configuring a Sky during construction.
type SkyBuilderOption func(*sky)

// WithStaticSkybox sets the plain background. Textured skyboxes are ignored.
//
// Parameters:
//   - s: the background
//
// Returns:
//   - SkyBuilderOption: option function to apply
func WithStaticSkybox(s Skybox) SkyBuilderOption {
	return func(sk *sky) {
		if !s.Textured() {
			sk.static = s
		}
	}
}

// WithAmbient sets the ambient light.
//
// Parameters:
//   - a: the ambient light
//
// Returns:
//   - SkyBuilderOption: option function to apply
func WithAmbient(a Ambient) SkyBuilderOption {
	return func(sk *sky) {
		sk.ambient = a
	}
}

// WithFog sets the fog density and gradient.
//
// Parameters:
//   - density: the exponential density
//   - gradient: the exponential gradient
//
// Returns:
//   - SkyBuilderOption: option function to apply
func WithFog(density, gradient float32) SkyBuilderOption {
	return func(sk *sky) {
		sk.fogDensity = density
		sk.fogGradient = gradient
	}
}

// WithCycleTimings sets the skybox cycle speeds and durations. Panics on negative values.
//
// Parameters:
//   - rotationSpeed: skybox rotation in degrees per second
//   - transitionSpeed: rate at which both the display countdown and the blend advance
//   - skyboxDuration: display time of each skybox, in transition units
//   - transitionDuration: blend time between skyboxes, in transition units
//
// Returns:
//   - SkyBuilderOption: option function to apply
func WithCycleTimings(rotationSpeed, transitionSpeed, skyboxDuration, transitionDuration float32) SkyBuilderOption {
	if transitionSpeed < 0 || skyboxDuration < 0 || transitionDuration < 0 {
		panic("sky: cycle timings cannot be negative")
	}
	return func(sk *sky) {
		sk.rotationSpeed = rotationSpeed
		sk.transitionSpeed = transitionSpeed
		sk.skyboxDuration = skyboxDuration
		sk.transitionDuration = transitionDuration
	}
}

// WithSkyboxes fills the cycle with textured skyboxes. Plain skyboxes are skipped.
//
// Parameters:
//   - skyboxes: the skyboxes in display order
//
// Returns:
//   - SkyBuilderOption: option function to apply
func WithSkyboxes(skyboxes ...Skybox) SkyBuilderOption {
	return func(sk *sky) {
		for _, s := range skyboxes {
			_ = sk.cycle.Add(s)
		}
	}
}
