package scene

import (
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"
)

// ErrUnknownScene is returned when a scene id has no registered factory.
var ErrUnknownScene = errors.New("scene: unknown scene")

// Factory builds a fresh Scene for a registered id.
type Factory func() Scene

// Manager is a registration table of scene factories that keeps one scene current.
// Loading a scene exits the current one before initializing the next.
type Manager interface {
	// Register adds or replaces the factory for id.
	//
	// Parameters:
	//   - id: the scene id
	//   - factory: the factory building the scene
	Register(id string, factory Factory)

	// Registered returns the registered ids in sorted order.
	//
	// Returns:
	//   - []string: the ids
	Registered() []string

	// Resolve returns the scene for id, building it on first use. Scenes are cached until Unregister.
	//
	// Parameters:
	//   - id: the scene id
	//
	// Returns:
	//   - Scene: the scene
	//   - error: ErrUnknownScene if nothing is registered under id
	Resolve(id string) (Scene, error)

	// Unregister removes the factory and cached scene for id. The current scene cannot be unregistered.
	//
	// Parameters:
	//   - id: the scene id
	//
	// Returns:
	//   - bool: true if id was registered and removed
	Unregister(id string) bool

	// Load exits the current scene, initializes the scene for id and makes it current.
	// Loading the current id again re-initializes it.
	//
	// Parameters:
	//   - id: the scene id
	//
	// Returns:
	//   - Scene: the new current scene
	//   - error: ErrUnknownScene if nothing is registered under id
	Load(id string) (Scene, error)

	// LoadMain loads MainSceneID.
	//
	// Returns:
	//   - Scene: the new current scene
	//   - error: ErrUnknownScene if no main scene is registered
	LoadMain() (Scene, error)

	// Current returns the current scene, or nil.
	//
	// Returns:
	//   - Scene: the current scene
	Current() Scene

	// CurrentID returns the id of the current scene, or "".
	//
	// Returns:
	//   - string: the id
	CurrentID() string

	// MainSceneID returns the id LoadMain loads.
	//
	// Returns:
	//   - string: the id
	MainSceneID() string

	// SetMainSceneID sets the id LoadMain loads.
	//
	// Parameters:
	//   - id: the scene id
	SetMainSceneID(id string)

	// OnSceneChanged registers a callback fired after every Load and Unload with the previous and next scene.
	// Either may be nil.
	//
	// Parameters:
	//   - fn: the callback
	OnSceneChanged(fn func(previous, next Scene))

	// Unload exits the current scene and leaves none current.
	Unload()

	// Release unloads the current scene and releases every cached scene.
	Release()
}

// manager is the implementation of the Manager interface.
type manager struct {
	mu *sync.Mutex

	factories map[string]Factory
	scenes    map[string]Scene
	mainID    string
	currentID string
	current   Scene
	onChanged []func(previous, next Scene)
}

var _ Manager = &manager{}

// NewManager creates an empty Manager.
//
// Parameters:
//   - options: functional options to configure the manager
//
// Returns:
//   - Manager: the newly created manager
func NewManager(options ...ManagerBuilderOption) Manager {
	m := &manager{
		mu:        &sync.Mutex{},
		factories: make(map[string]Factory),
		scenes:    make(map[string]Scene),
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *manager) Register(id string, factory Factory) {
	if factory == nil {
		panic("scene: factory must not be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.factories[id] = factory
	if m.mainID == "" {
		m.mainID = id
	}
}

func (m *manager) Registered() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.factories))
	for id := range m.factories {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (m *manager) Resolve(id string) (Scene, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resolve(id)
}

func (m *manager) resolve(id string) (Scene, error) {
	if s, ok := m.scenes[id]; ok {
		return s, nil
	}
	factory, ok := m.factories[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, id)
	}
	s := factory()
	m.scenes[id] = s
	return s, nil
}

func (m *manager) Unregister(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.factories[id]; !ok || id == m.currentID {
		return false
	}
	delete(m.factories, id)
	if s, ok := m.scenes[id]; ok {
		s.Release()
		delete(m.scenes, id)
	}
	if m.mainID == id {
		m.mainID = ""
	}
	return true
}

func (m *manager) Load(id string) (Scene, error) {
	m.mu.Lock()
	next, err := m.resolve(id)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	previous := m.current
	m.current, m.currentID = next, id
	callbacks := slices.Clone(m.onChanged)
	m.mu.Unlock()

	if previous != nil {
		previous.Exit()
	}
	next.Init()
	log.Printf("[SceneManager] loaded scene %q", id)

	for _, fn := range callbacks {
		fn(previous, next)
	}
	return next, nil
}

func (m *manager) LoadMain() (Scene, error) {
	return m.Load(m.MainSceneID())
}

func (m *manager) Current() Scene {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

func (m *manager) CurrentID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentID
}

func (m *manager) MainSceneID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mainID
}

func (m *manager) SetMainSceneID(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mainID = id
}

func (m *manager) OnSceneChanged(fn func(previous, next Scene)) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChanged = append(m.onChanged, fn)
}

func (m *manager) Unload() {
	m.mu.Lock()
	previous, id := m.current, m.currentID
	m.current, m.currentID = nil, ""
	callbacks := slices.Clone(m.onChanged)
	m.mu.Unlock()

	if previous == nil {
		return
	}
	previous.Exit()
	log.Printf("[SceneManager] unloaded scene %q", id)
	for _, fn := range callbacks {
		fn(previous, nil)
	}
}

func (m *manager) Release() {
	m.Unload()
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.scenes {
		s.Release()
		delete(m.scenes, id)
	}
}
