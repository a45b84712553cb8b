package loader

import (
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/game_object"
	"github.com/Carmen-Shannon/oxy-scene/engine/light"
	"github.com/Carmen-Shannon/oxy-scene/engine/model"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-scene/engine/scene"
	"github.com/Carmen-Shannon/oxy-scene/engine/sky"
	"github.com/go-gl/mathgl/mgl32"
)

// LoaderBackendType identifies the description file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeYAML selects the YAML description backend.
	BackendTypeYAML LoaderBackendType = iota
)

var (
	// ErrUnknownParent is returned when an object names a parent missing from the description.
	ErrUnknownParent = errors.New("loader: unknown parent")

	// ErrUnknownMesh is returned when an object names a mesh missing from the library.
	ErrUnknownMesh = errors.New("loader: unknown mesh")

	// ErrUnknownMaterial is returned when an object names a material missing from the library.
	ErrUnknownMaterial = errors.New("loader: unknown material")

	// ErrInvalidDescription is returned for descriptions that cannot be applied for any other reason.
	ErrInvalidDescription = errors.New("loader: invalid description")
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	descriptions map[string]*Description
	meshes       map[string]model.Model
	materials    map[string]material.Material

	backend loaderBackend
}

// Loader decodes scene descriptions, caches them by path and applies them to scenes.
// Meshes and materials are resolved by name from the loader's library, filled with WithModel and WithMaterial.
type Loader interface {
	// Load decodes the description file at path and caches the result.
	// If the path is already cached, the cached description is returned.
	//
	// Parameters:
	//   - path: the file path to the description
	//
	// Returns:
	//   - *Description: the description
	//   - error: error if loading fails
	Load(path string) (*Description, error)

	// Reload decodes the file at path again and replaces the cached description.
	//
	// Parameters:
	//   - path: the file path to the description
	//
	// Returns:
	//   - *Description: the description
	//   - error: error if loading fails, in which case the cache is left unchanged
	Reload(path string) (*Description, error)

	// LoadReader decodes a description from a reader stream and caches it by the given name.
	//
	// Parameters:
	//   - name: the cache key for the description
	//   - r: the reader providing the description
	//
	// Returns:
	//   - *Description: the description
	//   - error: error if decoding fails
	LoadReader(name string, r io.Reader) (*Description, error)

	// Get retrieves a cached description by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - *Description: the cached description or nil
	Get(name string) *Description

	// Descriptions returns a copy of the description cache.
	//
	// Returns:
	//   - map[string]*Description: every cached description keyed by name
	Descriptions() map[string]*Description

	// Model returns the library mesh with the given name, or nil.
	Model(name string) model.Model

	// Material returns the library material with the given name, or nil.
	Material(name string) material.Material

	// Apply adds the description's lights and objects to s and applies its sky and camera settings.
	// The description is checked completely before s is touched. Call it from an Init hook so that
	// sky settings land on the fresh sky.
	//
	// Parameters:
	//   - s: the scene to populate
	//   - d: the description
	//
	// Returns:
	//   - error: ErrUnknownParent, ErrUnknownMesh, ErrUnknownMaterial or ErrInvalidDescription
	Apply(s scene.Scene, d *Description) error
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeYAML)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		descriptions: make(map[string]*Description),
		meshes:       make(map[string]model.Model),
		materials:    make(map[string]material.Material),
	}

	switch backendType {
	case BackendTypeYAML:
		l.backend = newYAMLLoaderBackend()
	default:
		panic(fmt.Sprintf("loader: unsupported backend type %d", backendType))
	}

	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string) (*Description, error) {
	l.mu.RLock()
	if cached, ok := l.descriptions[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()
	return l.Reload(path)
}

func (l *loader) Reload(path string) (*Description, error) {
	if err := resolveFormat(path); err != nil {
		return nil, err
	}
	d, err := l.backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	l.mu.Lock()
	l.descriptions[path] = d
	l.mu.Unlock()

	log.Printf("[Loader] loaded %s: %d objects, %d lights", path, len(d.Objects), len(d.Lights))
	return d, nil
}

func (l *loader) LoadReader(name string, r io.Reader) (*Description, error) {
	d, err := l.backend.LoadReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}

	l.mu.Lock()
	l.descriptions[name] = d
	l.mu.Unlock()
	return d, nil
}

func (l *loader) Get(name string) *Description {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.descriptions[name]
}

func (l *loader) Descriptions() map[string]*Description {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return maps.Clone(l.descriptions)
}

func (l *loader) Model(name string) model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.meshes[name]
}

func (l *loader) Material(name string) material.Material {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.materials[name]
}

func (l *loader) Apply(s scene.Scene, d *Description) error {
	if d == nil {
		return fmt.Errorf("%w: nil description", ErrInvalidDescription)
	}
	if err := l.check(d); err != nil {
		return err
	}

	if d.Sky != nil {
		if err := applySky(s.Sky(), d.Sky); err != nil {
			return err
		}
	}

	for _, ld := range d.Lights {
		s.AddLight(newLight(ld))
	}

	objects := make(map[string]game_object.GameObject, len(d.Objects))
	ordered := make([]game_object.GameObject, 0, len(d.Objects))
	for _, od := range d.Objects {
		obj := l.newObject(od)
		objects[od.Name] = obj
		ordered = append(ordered, obj)
	}
	for i, od := range d.Objects {
		if od.Parent != "" {
			ordered[i].SetParent(objects[od.Parent])
		}
	}
	for _, obj := range ordered {
		s.Add(obj)
	}

	if c := d.Camera; c != nil {
		cam := s.Camera()
		cam.SetLocalPosition(mgl32.Vec3(c.Position))
		cam.SetLocalRotation(mgl32.Vec3(c.Rotation))
		if c.Follow != "" {
			cam.Follow(objects[c.Follow])
		}
		cam.Adjust()
	}
	return nil
}

// check resolves every name the description refers to.
func (l *loader) check(d *Description) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make(map[string]bool, len(d.Objects))
	for _, od := range d.Objects {
		if od.Name == "" {
			return fmt.Errorf("%w: object without a name", ErrInvalidDescription)
		}
		if names[od.Name] {
			return fmt.Errorf("%w: duplicate object %q", ErrInvalidDescription, od.Name)
		}
		names[od.Name] = true
	}

	for _, od := range d.Objects {
		if od.Parent != "" && !names[od.Parent] {
			return fmt.Errorf("%w: %q for object %q", ErrUnknownParent, od.Parent, od.Name)
		}
		if od.Parent == od.Name && od.Parent != "" {
			return fmt.Errorf("%w: object %q is its own parent", ErrInvalidDescription, od.Name)
		}
		if od.Mesh != "" {
			if _, ok := l.meshes[od.Mesh]; !ok {
				return fmt.Errorf("%w: %q for object %q", ErrUnknownMesh, od.Mesh, od.Name)
			}
		}
		if od.Material != "" || od.Mesh != "" {
			if _, ok := l.materials[od.Material]; !ok {
				return fmt.Errorf("%w: %q for object %q", ErrUnknownMaterial, od.Material, od.Name)
			}
		}
	}
	if err := checkCycles(d.Objects); err != nil {
		return err
	}

	for _, ld := range d.Lights {
		switch strings.ToLower(ld.Type) {
		case "", "point", "directional":
		default:
			return fmt.Errorf("%w: light %q has unknown type %q", ErrInvalidDescription, ld.Name, ld.Type)
		}
	}

	if d.Sky != nil {
		if _, err := skybox(d.Sky.Skybox); err != nil {
			return err
		}
	}
	if d.Camera != nil && d.Camera.Follow != "" && !names[d.Camera.Follow] {
		return fmt.Errorf("%w: camera follows unknown object %q", ErrInvalidDescription, d.Camera.Follow)
	}
	return nil
}

// checkCycles rejects parent chains that loop, which would leave every object in the loop unsynced.
func checkCycles(objects []ObjectDescription) error {
	parents := make(map[string]string, len(objects))
	for _, od := range objects {
		parents[od.Name] = od.Parent
	}
	for _, od := range objects {
		seen := map[string]bool{od.Name: true}
		for p := parents[od.Name]; p != ""; p = parents[p] {
			if seen[p] {
				return fmt.Errorf("%w: parent cycle through %q", ErrInvalidDescription, od.Name)
			}
			seen[p] = true
		}
	}
	return nil
}

func (l *loader) newObject(od ObjectDescription) game_object.GameObject {
	opts := []game_object.GameObjectBuilderOption{
		game_object.WithPosition(od.Position[0], od.Position[1], od.Position[2]),
		game_object.WithRotation(od.Rotation[0], od.Rotation[1], od.Rotation[2]),
		game_object.WithHidden(od.Hidden),
	}
	if sc := od.Scale; sc != nil {
		opts = append(opts, game_object.WithScale(sc[0], sc[1], sc[2]))
	}
	l.mu.RLock()
	if od.Mesh != "" {
		opts = append(opts, game_object.WithMesh(l.meshes[od.Mesh]))
	}
	if m, ok := l.materials[od.Material]; ok {
		opts = append(opts, game_object.WithMaterial(m))
	}
	l.mu.RUnlock()
	if sp := od.Spin; sp != nil {
		opts = append(opts, game_object.WithBehaviours(game_object.Spin(sp[0], sp[1], sp[2])))
	}
	return game_object.NewGameObject(od.Name, opts...)
}

func newLight(ld LightDescription) light.Light {
	lightType := light.LightTypePoint
	if strings.EqualFold(ld.Type, "directional") {
		lightType = light.LightTypeDirectional
	}
	opts := []light.LightBuilderOption{
		light.WithName(ld.Name),
		light.WithPosition(ld.Position[0], ld.Position[1], ld.Position[2]),
		light.WithImportant(ld.Important),
		light.WithEnabled(!ld.Disabled),
	}
	if c := ld.Color; c != nil {
		opts = append(opts, light.WithColor(common.NewColor(c[0], c[1], c[2])))
	}
	if ld.Power != nil {
		opts = append(opts, light.WithPower(*ld.Power))
	}
	if a := ld.Attenuation; a != nil {
		opts = append(opts, light.WithAttenuation(light.Attenuation{Constant: a[0], Linear: a[1], Quadratic: a[2]}))
	}
	return light.NewLight(lightType, opts...)
}

func applySky(sk sky.Sky, sd *SkyDescription) error {
	if sd.Skybox != "" {
		sb, _ := skybox(sd.Skybox)
		if err := sk.SetStaticSkybox(sb); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidDescription, err)
		}
	}
	if sd.AmbientColor != nil || sd.AmbientPercent != nil {
		ambient := sk.Ambient()
		if c := sd.AmbientColor; c != nil {
			ambient.Color = common.NewColor(c[0], c[1], c[2])
		}
		if sd.AmbientPercent != nil {
			ambient.Power = sky.NewAmbient(ambient.Color, *sd.AmbientPercent).Power
		}
		sk.SetAmbient(ambient)
	}
	if sd.FogDensity != nil {
		sk.SetFogDensity(*sd.FogDensity)
	}
	if sd.FogGradient != nil {
		sk.SetFogGradient(*sd.FogGradient)
	}
	return nil
}

func skybox(name string) (sky.Skybox, error) {
	switch strings.ToLower(name) {
	case "", "default":
		return sky.SkyboxDefault, nil
	case "black":
		return sky.SkyboxBlack, nil
	}
	return sky.Skybox{}, fmt.Errorf("%w: unknown skybox %q", ErrInvalidDescription, name)
}

// resolveFormat checks the file extension against the supported formats.
func resolveFormat(path string) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return nil
	default:
		return fmt.Errorf("unsupported description format: %s", ext)
	}
}
