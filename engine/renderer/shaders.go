package renderer

import (
	_ "embed"

	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/shader"
)

// LitShaderKey is the key of the built-in lit shader.
const LitShaderKey = "builtin/lit"

// LitShaderSource is the WGSL source of the built-in lit shader.
// Its bind groups follow the layout every backend pipeline uses:
// group 0 frame uniforms (camera, ambient, lights, clip plane), group 1 material, group 2 object.
//
//go:embed assets/lit.wgsl
var LitShaderSource string

// LitShader creates a shader from the built-in lit source.
//
// Parameters:
//   - options: shader options such as blending or culling overrides
//
// Returns:
//   - shader.Shader: a new shader keyed LitShaderKey
func LitShader(options ...shader.ShaderBuilderOption) shader.Shader {
	return shader.NewShader(LitShaderKey, LitShaderSource, options...)
}
