package renderer

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/model"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// Op identifies a recorded headless command.
type Op int

const (
	OpBeginPass Op = iota
	OpViewport
	OpUseShader
	OpUploadCamera
	OpUploadAmbient
	OpUploadLights
	OpUploadClip
	OpCreateMesh
	OpBindMesh
	OpUploadMaterial
	OpBindMaterial
	OpDraw
	OpEndPass
	OpPresent
)

var opNames = [...]string{
	OpBeginPass:      "BeginPass",
	OpViewport:       "Viewport",
	OpUseShader:      "UseShader",
	OpUploadCamera:   "UploadCamera",
	OpUploadAmbient:  "UploadAmbient",
	OpUploadLights:   "UploadLights",
	OpUploadClip:     "UploadClip",
	OpCreateMesh:     "CreateMesh",
	OpBindMesh:       "BindMesh",
	OpUploadMaterial: "UploadMaterial",
	OpBindMaterial:   "BindMaterial",
	OpDraw:           "Draw",
	OpEndPass:        "EndPass",
	OpPresent:        "Present",
}

func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return "Unknown"
	}
	return opNames[o]
}

// Command is one call recorded by the HeadlessBackend.
// Only the fields relevant to Op are set.
type Command struct {
	Op       Op
	Label    string // shader key, mesh name, material name or target label
	Clear    common.Color
	Viewport [4]int
	Object   ObjectUniform
}

type headlessTarget struct {
	label         string
	width, height int
}

func (t *headlessTarget) Label() string { return t.label }
func (t *headlessTarget) Width() int    { return t.width }
func (t *headlessTarget) Height() int   { return t.height }

// HeadlessBackend records every call it receives and performs the same version gating
// the GPU backend does, without touching a device.
type HeadlessBackend struct {
	mu *sync.Mutex

	width, height int
	presentMode   PresentMode
	capacity      int

	commands []Command

	meshes    map[string]bool
	materials map[string]uint64
	clips     map[string]mgl32.Vec4

	defaultBound bool
	released     bool
}

var _ RendererBackend = &HeadlessBackend{}

// NewHeadlessBackend creates an empty recorder.
//
// Returns:
//   - *HeadlessBackend: the recorder
func NewHeadlessBackend() *HeadlessBackend {
	return &HeadlessBackend{
		mu:        &sync.Mutex{},
		meshes:    make(map[string]bool),
		materials: make(map[string]uint64),
		clips:     make(map[string]mgl32.Vec4),
	}
}

// Commands returns a copy of every command recorded since the last Reset.
//
// Returns:
//   - []Command: the recorded commands in issue order
func (b *HeadlessBackend) Commands() []Command {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Command, len(b.commands))
	copy(out, b.commands)
	return out
}

// Count returns how many commands with the given op were recorded since the last Reset.
//
// Parameters:
//   - op: the op to count
//
// Returns:
//   - int: the number of matching commands
func (b *HeadlessBackend) Count(op Op) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.commands {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Reset forgets the recorded commands. Upload bookkeeping is kept.
func (b *HeadlessBackend) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.commands = b.commands[:0]
}

// Size returns the last configured surface size.
//
// Returns:
//   - int: width in pixels
//   - int: height in pixels
func (b *HeadlessBackend) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

// Capacity returns the reserved object capacity.
//
// Returns:
//   - int: the number of object uniforms one pass can hold
func (b *HeadlessBackend) Capacity() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.capacity
}

// Released reports whether Release was called.
//
// Returns:
//   - bool: true once released
func (b *HeadlessBackend) Released() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.released
}

func (b *HeadlessBackend) record(c Command) {
	b.commands = append(b.commands, c)
}

func (b *HeadlessBackend) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.width, b.height = width, height
}

func (b *HeadlessBackend) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.presentMode = mode
}

func (b *HeadlessBackend) Reserve(objects int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if objects > b.capacity {
		b.capacity = objects
	}
	return nil
}

func (b *HeadlessBackend) CreateTarget(label string, width, height int) (Target, error) {
	return &headlessTarget{label: label, width: width, height: height}, nil
}

func (b *HeadlessBackend) BeginPass(target Target, clear common.Color) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	label := ""
	if target != nil {
		label = target.Label()
	} else {
		b.defaultBound = true
	}
	b.record(Command{Op: OpBeginPass, Label: label, Clear: clear})
	return nil
}

func (b *HeadlessBackend) SetViewport(x, y, width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(Command{Op: OpViewport, Viewport: [4]int{x, y, width, height}})
}

func (b *HeadlessBackend) UseShader(s shader.Shader, state FrameState) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := s.Key()
	b.record(Command{Op: OpUseShader, Label: key})

	stale := s.States().Refresh(state.CameraState(), state.AmbientState(), state.LightingState())
	if stale.Camera {
		b.record(Command{Op: OpUploadCamera, Label: key})
	}
	if stale.Ambient {
		b.record(Command{Op: OpUploadAmbient, Label: key})
	}
	if stale.Lighting {
		b.record(Command{Op: OpUploadLights, Label: key})
	}
	clip := state.ClipPlane()
	if last, ok := b.clips[key]; !ok || last != clip {
		b.clips[key] = clip
		b.record(Command{Op: OpUploadClip, Label: key})
	}
	return nil
}

func (b *HeadlessBackend) BindMesh(m model.Model) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.meshes[m.Name()] {
		b.meshes[m.Name()] = true
		b.record(Command{Op: OpCreateMesh, Label: m.Name()})
	}
	b.record(Command{Op: OpBindMesh, Label: m.Name()})
	return nil
}

func (b *HeadlessBackend) BindMaterial(m material.Material) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if v, ok := b.materials[m.Name()]; !ok || v != m.Version() {
		b.materials[m.Name()] = m.Version()
		b.record(Command{Op: OpUploadMaterial, Label: m.Name()})
	}
	b.record(Command{Op: OpBindMaterial, Label: m.Name()})
	return nil
}

func (b *HeadlessBackend) Draw(u ObjectUniform) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(Command{Op: OpDraw, Object: u})
	return nil
}

func (b *HeadlessBackend) EndPass() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(Command{Op: OpEndPass})
	return nil
}

func (b *HeadlessBackend) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.defaultBound {
		return
	}
	b.defaultBound = false
	b.record(Command{Op: OpPresent})
}

func (b *HeadlessBackend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.released = true
	b.commands = nil
	clear(b.meshes)
	clear(b.materials)
	clear(b.clips)
}
