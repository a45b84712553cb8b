package sky

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/pool"
)

var (
	// ErrCycleActive is returned when the skybox list is edited while the cycle is running.
	ErrCycleActive = errors.New("sky: skybox cycle is active")
	// ErrUntexturedSkybox is returned when a plain skybox is added to the cycle.
	ErrUntexturedSkybox = errors.New("sky: cycle skyboxes must be textured")
)

// DefaultCycleScale is the edge length of the skybox cube drawn around the camera.
const DefaultCycleScale = 750

// Cycle rotates through a queue of textured skyboxes, blending the front one into the next.
type Cycle struct {
	skyboxes   *pool.Queue[Skybox]
	active     bool
	rotation   float32
	transition float32
	scale      float32
}

func newCycle() *Cycle {
	return &Cycle{
		skyboxes: pool.NewQueue[Skybox](nil),
		scale:    DefaultCycleScale,
	}
}

// Len returns the number of skyboxes in the cycle.
func (c *Cycle) Len() int {
	return c.skyboxes.Len()
}

// Active reports whether the cycle is running.
func (c *Cycle) Active() bool {
	return c.active
}

// Rotation returns the accumulated rotation of the skybox around Y, in degrees.
func (c *Cycle) Rotation() float32 {
	return c.rotation
}

// Transition returns the blend factor between the current and the next skybox, in [0,1].
func (c *Cycle) Transition() float32 {
	return c.transition
}

// Scale returns the edge length of the skybox cube.
func (c *Cycle) Scale() float32 {
	return c.scale
}

// Add appends a textured skybox to the cycle.
//
// Parameters:
//   - s: the skybox
//
// Returns:
//   - error: ErrCycleActive while running, ErrUntexturedSkybox for plain skyboxes
func (c *Cycle) Add(s Skybox) error {
	if c.active {
		return ErrCycleActive
	}
	if !s.Textured() {
		return ErrUntexturedSkybox
	}
	c.skyboxes.Enqueue(s)
	return nil
}

// Clear removes every skybox.
//
// Returns:
//   - error: ErrCycleActive while running
func (c *Cycle) Clear() error {
	if c.active {
		return ErrCycleActive
	}
	c.skyboxes.Clear()
	return nil
}

// Current returns the skybox being shown and the one it blends toward. With a single skybox both
// are the same. Panics if the cycle is empty.
//
// Returns:
//   - Skybox: the current skybox
//   - Skybox: the next skybox
func (c *Cycle) Current() (Skybox, Skybox) {
	if c.skyboxes.Len() == 0 {
		panic("sky: skybox cycle is empty")
	}
	first := c.skyboxes.Peek()
	if c.skyboxes.Len() == 1 {
		return first, first
	}
	return first, c.skyboxes.Second()
}

// SkyColor returns the blended color of the current and next skybox, or black when empty.
func (c *Cycle) SkyColor() common.Color {
	if c.skyboxes.Len() == 0 {
		return common.ColorBlack
	}
	a, b := c.Current()
	return a.Color.Lerp(b.Color, c.transition)
}

func (c *Cycle) swap() {
	if c.skyboxes.Len() == 0 {
		panic("sky: skybox cycle is empty")
	}
	c.skyboxes.Enqueue(c.skyboxes.Dequeue())
}
