package shader

// Stale reports which categories of scene data a consumer must re-upload.
type Stale struct {
	Camera   bool
	Ambient  bool
	Lighting bool
}

// Any reports whether anything must be re-uploaded.
func (s Stale) Any() bool {
	return s.Camera || s.Ambient || s.Lighting
}

// StateCache remembers the camera, ambient and lighting versions a consumer last uploaded.
// A fresh or invalidated cache reports every category stale.
type StateCache struct {
	camera, ambient, lighting uint64
	primed                    bool
}

// Refresh compares the current versions against the cached ones, records the current versions and
// reports which categories changed since the last Refresh.
//
// Parameters:
//   - camera: the current camera version
//   - ambient: the current ambient version
//   - lighting: the current lighting version
//
// Returns:
//   - Stale: the categories to re-upload
func (c *StateCache) Refresh(camera, ambient, lighting uint64) Stale {
	if !c.primed {
		c.camera, c.ambient, c.lighting, c.primed = camera, ambient, lighting, true
		return Stale{Camera: true, Ambient: true, Lighting: true}
	}
	st := Stale{
		Camera:   camera != c.camera,
		Ambient:  ambient != c.ambient,
		Lighting: lighting != c.lighting,
	}
	c.camera, c.ambient, c.lighting = camera, ambient, lighting
	return st
}

// Invalidate forgets the cached versions.
func (c *StateCache) Invalidate() {
	*c = StateCache{}
}
