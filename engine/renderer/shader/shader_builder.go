package shader

// ShaderBuilderOption is a functional option for configuring a shader.
type ShaderBuilderOption func(*shader)

// WithEntryPoints overrides the vertex and fragment entry point names.
//
// Parameters:
//   - vertex: vertex stage function name
//   - fragment: fragment stage function name
//
// Returns:
//   - ShaderBuilderOption: option function to apply
func WithEntryPoints(vertex, fragment string) ShaderBuilderOption {
	return func(s *shader) {
		s.vertexEntry = vertex
		s.fragmentEntry = fragment
	}
}

// WithDepthWrite toggles depth writes. Enabled by default.
//
// Parameters:
//   - enabled: true to write depth
//
// Returns:
//   - ShaderBuilderOption: option function to apply
func WithDepthWrite(enabled bool) ShaderBuilderOption {
	return func(s *shader) {
		s.depthWrite = enabled
	}
}

// WithBlend toggles alpha blending. Disabled by default.
//
// Parameters:
//   - enabled: true to blend
//
// Returns:
//   - ShaderBuilderOption: option function to apply
func WithBlend(enabled bool) ShaderBuilderOption {
	return func(s *shader) {
		s.blend = enabled
	}
}

// WithCullBackFaces toggles back-face culling. Enabled by default.
//
// Parameters:
//   - enabled: true to cull back faces
//
// Returns:
//   - ShaderBuilderOption: option function to apply
func WithCullBackFaces(enabled bool) ShaderBuilderOption {
	return func(s *shader) {
		s.cullBackFaces = enabled
	}
}
