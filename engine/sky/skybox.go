// Package sky holds the scene's ambient light, fog and skybox state and versions every change
// through an ambient counter consumed by renderer backends.
package sky

import "github.com/Carmen-Shannon/oxy-scene/common"

// Skybox is a sky background. A plain skybox is a solid clear color; a textured skybox names a cube
// map and may only take part in a cycle.
type Skybox struct {
	ID      string
	Color   common.Color
	Texture string
}

var (
	// SkyboxDefault is the plain deep sky background.
	SkyboxDefault = Skybox{ID: "builtin/default", Color: common.ColorDeepSky}
	// SkyboxBlack is the plain black background.
	SkyboxBlack = Skybox{ID: "builtin/black", Color: common.ColorBlack}
)

// NewSkybox returns a textured skybox for the named cube map.
//
// Parameters:
//   - name: cube map name, resolved under "skyboxes/"
//   - color: the color the sky blends toward while drawing and clearing
//
// Returns:
//   - Skybox: the textured skybox
func NewSkybox(name string, color common.Color) Skybox {
	return Skybox{ID: name, Color: color, Texture: "skyboxes/" + name}
}

// Textured reports whether the skybox carries a cube map.
func (s Skybox) Textured() bool {
	return s.Texture != ""
}

// Ambient is the uniform light applied to every surface.
type Ambient struct {
	Color common.Color
	Power float32
}

// AmbientBright is white ambient light at 25%.
var AmbientBright = NewAmbient(common.ColorWhite, 25)

// NewAmbient returns ambient light from a percentage power.
//
// Parameters:
//   - color: the light color
//   - percent: power on a 0 to 100 scale
//
// Returns:
//   - Ambient: the ambient light with Power in [0,1]
func NewAmbient(color common.Color, percent float32) Ambient {
	return Ambient{Color: color, Power: percent / 100}
}
