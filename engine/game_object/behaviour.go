package game_object

import "github.com/go-gl/mathgl/mgl32"

// Behaviour is a script attached to a GameObject. Implementations must be comparable, usually a pointer. The scene calls the hooks in this order: Awake
// and Start once when the object enters an initialized scene, Update then Late every frame, and
// Destroy when the object leaves the scene or the scene exits.
type Behaviour interface {
	Awake(obj GameObject)
	Start(obj GameObject)
	Update(obj GameObject, dt float32)
	Late(obj GameObject, dt float32)
	Destroy(obj GameObject)
}

// BehaviourFuncs adapts plain functions to the Behaviour interface. Nil hooks are skipped.
type BehaviourFuncs struct {
	OnAwake   func(obj GameObject)
	OnStart   func(obj GameObject)
	OnUpdate  func(obj GameObject, dt float32)
	OnLate    func(obj GameObject, dt float32)
	OnDestroy func(obj GameObject)
}

var _ Behaviour = &BehaviourFuncs{}

func (b *BehaviourFuncs) Awake(obj GameObject) {
	if b.OnAwake != nil {
		b.OnAwake(obj)
	}
}

func (b *BehaviourFuncs) Start(obj GameObject) {
	if b.OnStart != nil {
		b.OnStart(obj)
	}
}

func (b *BehaviourFuncs) Update(obj GameObject, dt float32) {
	if b.OnUpdate != nil {
		b.OnUpdate(obj, dt)
	}
}

func (b *BehaviourFuncs) Late(obj GameObject, dt float32) {
	if b.OnLate != nil {
		b.OnLate(obj, dt)
	}
}

func (b *BehaviourFuncs) Destroy(obj GameObject) {
	if b.OnDestroy != nil {
		b.OnDestroy(obj)
	}
}

// Spin returns a behaviour that rotates its object by the given degrees per second.
//
// Parameters:
//   - x, y, z: angular speed around each axis
//
// Returns:
//   - Behaviour: the behaviour
func Spin(x, y, z float32) Behaviour {
	return &BehaviourFuncs{
		OnUpdate: func(obj GameObject, dt float32) {
			obj.Rotate(mgl32.Vec3{x * dt, y * dt, z * dt})
		},
	}
}

func (g *gameObject) AddBehaviour(b Behaviour) {
	if b == nil {
		panic("game_object: nil behaviour")
	}
	g.behaviours = append(g.behaviours, b)
}

func (g *gameObject) RemoveBehaviour(b Behaviour) bool {
	for i, have := range g.behaviours {
		if have == b {
			g.behaviours = append(g.behaviours[:i], g.behaviours[i+1:]...)
			return true
		}
	}
	return false
}

func (g *gameObject) Behaviours() []Behaviour {
	return g.behaviours
}

func (g *gameObject) Awake() {
	for _, b := range g.behaviours {
		b.Awake(g)
	}
}

func (g *gameObject) Start() {
	for _, b := range g.behaviours {
		b.Start(g)
	}
}

func (g *gameObject) Update(dt float32) {
	for _, b := range g.behaviours {
		b.Update(g, dt)
	}
}

func (g *gameObject) Late(dt float32) {
	for _, b := range g.behaviours {
		b.Late(g, dt)
	}
}

func (g *gameObject) Destroy() {
	for _, b := range g.behaviours {
		b.Destroy(g)
	}
}
