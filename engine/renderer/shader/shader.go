package shader

import (
	"fmt"
	"os"
)

const (
	// DefaultVertexEntryPoint is the vertex stage entry point used unless overridden.
	DefaultVertexEntryPoint = "vs_main"

	// DefaultFragmentEntryPoint is the fragment stage entry point used unless overridden.
	DefaultFragmentEntryPoint = "fs_main"
)

// shader is the implementation of the Shader interface.
type shader struct {
	key            string
	source         string
	vertexEntry    string
	fragmentEntry  string
	states         StateCache
	depthWrite     bool
	blend          bool
	cullBackFaces  bool
	renderPriority int
}

// Shader is a WGSL program with a vertex and a fragment stage, used as the first grouping key
// when batching draws. Each shader remembers which scene versions it last uploaded through its
// StateCache so backends can skip redundant frame uniform writes.
type Shader interface {
	// Key returns the unique identifier of the shader.
	//
	// Returns:
	//   - string: the key
	Key() string

	// Source returns the WGSL source code.
	//
	// Returns:
	//   - string: the source
	Source() string

	// VertexEntryPoint returns the name of the vertex stage function.
	//
	// Returns:
	//   - string: the entry point
	VertexEntryPoint() string

	// FragmentEntryPoint returns the name of the fragment stage function.
	//
	// Returns:
	//   - string: the entry point
	FragmentEntryPoint() string

	// DepthWrite reports whether draws with this shader write depth.
	//
	// Returns:
	//   - bool: true if depth is written
	DepthWrite() bool

	// Blend reports whether draws with this shader alpha blend.
	//
	// Returns:
	//   - bool: true if blending is enabled
	Blend() bool

	// CullBackFaces reports whether back faces are culled.
	//
	// Returns:
	//   - bool: true if back faces are culled
	CullBackFaces() bool

	// States returns the shader's cache of uploaded scene versions.
	//
	// Returns:
	//   - *StateCache: the cache, owned by the shader
	States() *StateCache

	// Invalidate forgets every uploaded version so the next use re-uploads everything.
	Invalidate()
}

var _ Shader = &shader{}

// NewShader creates a Shader from WGSL source. Panics if key or source is empty.
//
// Parameters:
//   - key: unique identifier of the shader
//   - source: WGSL source code
//   - options: functional options for the shader
//
// Returns:
//   - Shader: the new shader
func NewShader(key, source string, options ...ShaderBuilderOption) Shader {
	if key == "" {
		panic("shader: key must not be empty")
	}
	if source == "" {
		panic(fmt.Sprintf("shader: %s must have source", key))
	}
	s := &shader{
		key:           key,
		source:        source,
		vertexEntry:   DefaultVertexEntryPoint,
		fragmentEntry: DefaultFragmentEntryPoint,
		depthWrite:    true,
		cullBackFaces: true,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// LoadShader reads WGSL source from a file and creates a Shader from it.
//
// Parameters:
//   - key: unique identifier of the shader
//   - path: path of the WGSL file
//   - options: functional options for the shader
//
// Returns:
//   - Shader: the new shader
//   - error: error if the file cannot be read or is empty
func LoadShader(key, path string, options ...ShaderBuilderOption) (Shader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("shader: read %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("shader: %s is empty", path)
	}
	return NewShader(key, string(data), options...), nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) VertexEntryPoint() string {
	return s.vertexEntry
}

func (s *shader) FragmentEntryPoint() string {
	return s.fragmentEntry
}

func (s *shader) DepthWrite() bool {
	return s.depthWrite
}

func (s *shader) Blend() bool {
	return s.blend
}

func (s *shader) CullBackFaces() bool {
	return s.cullBackFaces
}

func (s *shader) States() *StateCache {
	return &s.states
}

func (s *shader) Invalidate() {
	s.states.Invalidate()
}
