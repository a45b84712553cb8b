package light

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine/priority"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultActiveLights is the number of light slots a scene exposes unless configured otherwise.
	DefaultActiveLights = 8

	// ImportantScale is the numerator of an important light's key, -ImportantScale / distance.
	// Any such key is negative, so important lights sort before every ordinary light.
	ImportantScale = 1_000_000

	// MinPriorityDistance is the smallest camera distance used when keying a light.
	MinPriorityDistance float32 = 1e-4
)

// PriorityKey returns the selection key of a light seen from the camera. Lower keys are selected first.
// Ordinary lights are keyed by their distance to the camera. Important lights are keyed by
// -ImportantScale / distance, which is always negative and orders nearer important lights first.
// The distance is clamped to MinPriorityDistance so a light at the camera position keys finitely.
//
// Parameters:
//   - src: the light snapshot
//   - camera: the camera's world position
//
// Returns:
//   - float64: the key
func PriorityKey(src Source, camera mgl32.Vec3) float64 {
	distance := math32.Max(src.Position.Sub(camera).Len(), MinPriorityDistance)
	if src.Important {
		return -ImportantScale / float64(distance)
	}
	return float64(distance)
}

// Selector picks the most relevant lights for a camera position every frame and keeps a version
// counter that advances once per frame in which the selection changed.
type Selector struct {
	heap    *priority.Heap[Source]
	ordered []Source
	count   int
	active  int
	state   uint64

	// intensity holds per-name overrides in percent
	intensity map[string]float32
}

// NewSelector creates a Selector exposing the given number of light slots.
//
// Parameters:
//   - active: the number of slots, negative values are treated as zero
//
// Returns:
//   - *Selector: the new selector
func NewSelector(active int) *Selector {
	active = max(active, 0)
	return &Selector{
		heap:      priority.NewHeap[Source](),
		ordered:   make([]Source, 0, active),
		active:    active,
		intensity: make(map[string]float32),
	}
}

// Active returns the number of light slots exposed to consumers.
func (s *Selector) Active() int {
	return s.active
}

// SetActive changes the number of light slots. The selection itself is refreshed on the next Update.
func (s *Selector) SetActive(active int) {
	s.active = max(active, 0)
}

// Count returns the number of slots filled by the last Update.
func (s *Selector) Count() int {
	return s.count
}

// State returns the lighting version counter.
func (s *Selector) State() uint64 {
	return s.state
}

// Invalidate resets the counter and the selection. Intensity overrides are kept.
func (s *Selector) Invalidate() {
	s.state = 0
	s.count = 0
	clear(s.ordered)
	s.ordered = s.ordered[:0]
	s.heap.Clear()
}

// Update selects up to Active() enabled lights ordered by PriorityKey and advances the version
// counter once if any selected slot differs from the previous frame or the filled count changed.
//
// Parameters:
//   - lights: the scene's lights
//   - camera: the camera's world position
//
// Returns:
//   - bool: true if the selection changed
func (s *Selector) Update(lights []Light, camera mgl32.Vec3) bool {
	s.heap.Clear()
	for _, l := range lights {
		if l == nil || !l.Enabled() {
			continue
		}
		src := l.Source()
		s.heap.Insert(PriorityKey(src, camera), src)
	}

	changed := false
	previous := s.count
	n := 0
	for ; n < s.active && s.heap.Len() > 0; n++ {
		src := s.heap.RemoveMin().Value()
		if n < len(s.ordered) {
			old := s.ordered[n]
			if n >= previous || !src.Equal(old) || src.Name != old.Name || src.Type != old.Type {
				changed = true
			}
			s.ordered[n] = src
		} else {
			s.ordered = append(s.ordered, src)
			changed = true
		}
	}
	s.count = n
	if n != previous {
		changed = true
	}
	if changed {
		s.state++
	}
	return changed
}

// Light returns the light in slot i, with any intensity override applied to its power.
// Slots past Count() hold PitchBlack. Panics if i is outside [0, Active()).
//
// Parameters:
//   - i: the slot index
//
// Returns:
//   - Source: the light in the slot
func (s *Selector) Light(i int) Source {
	if i < 0 || i >= s.active {
		panic(fmt.Sprintf("light: slot %d requested with %d active lights", i, s.active))
	}
	if i >= s.count {
		return PitchBlack
	}
	src := s.ordered[i]
	if src.Name != "" {
		if pct, ok := s.intensity[src.Name]; ok {
			src.Power *= common.Clamp(pct, 0, 100) / 100
		}
	}
	return src
}

// Selected returns every filled slot in order, with intensity overrides applied.
func (s *Selector) Selected(yield func(int, Source) bool) {
	for i := range s.count {
		if !yield(i, s.Light(i)) {
			return
		}
	}
}

// SetIntensity scales the power of lights with the given name by pct percent, clamped to [0, 100].
// Advances the version counter.
//
// Parameters:
//   - name: the light name
//   - pct: the intensity in percent
func (s *Selector) SetIntensity(name string, pct float32) {
	s.intensity[name] = pct
	s.state++
}

// ClearIntensity removes the override for name. Advances the version counter.
//
// Parameters:
//   - name: the light name
func (s *Selector) ClearIntensity(name string) {
	delete(s.intensity, name)
	s.state++
}
