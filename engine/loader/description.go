package loader

// Description is a scene description file.
type Description struct {
	Name    string              `yaml:"name"`
	Sky     *SkyDescription     `yaml:"sky,omitempty"`
	Camera  *CameraDescription  `yaml:"camera,omitempty"`
	Lights  []LightDescription  `yaml:"lights,omitempty"`
	Objects []ObjectDescription `yaml:"objects,omitempty"`
}

// SkyDescription overrides the fresh sky a scene builds on Init.
type SkyDescription struct {
	// Skybox names a plain skybox: "default" or "black".
	Skybox string `yaml:"skybox,omitempty"`

	AmbientColor   *[3]float32 `yaml:"ambient_color,omitempty"`
	AmbientPercent *float32    `yaml:"ambient_percent,omitempty"`
	FogDensity     *float32    `yaml:"fog_density,omitempty"`
	FogGradient    *float32    `yaml:"fog_gradient,omitempty"`
}

// CameraDescription places the scene camera.
type CameraDescription struct {
	Position [3]float32 `yaml:"position"`
	Rotation [3]float32 `yaml:"rotation"`

	// Follow names an object the camera is attached to; Position and Rotation become offsets.
	Follow string `yaml:"follow,omitempty"`
}

// LightDescription describes one light.
type LightDescription struct {
	Name string `yaml:"name"`

	// Type is "point" (default) or "directional".
	Type        string      `yaml:"type,omitempty"`
	Position    [3]float32  `yaml:"position"`
	Color       *[3]float32 `yaml:"color,omitempty"`
	Power       *float32    `yaml:"power,omitempty"`
	Attenuation *[3]float32 `yaml:"attenuation,omitempty"`
	Important   bool        `yaml:"important,omitempty"`
	Disabled    bool        `yaml:"disabled,omitempty"`
}

// ObjectDescription describes one game object.
type ObjectDescription struct {
	Name     string      `yaml:"name"`
	Parent   string      `yaml:"parent,omitempty"`
	Position [3]float32  `yaml:"position"`
	Rotation [3]float32  `yaml:"rotation"`
	Scale    *[3]float32 `yaml:"scale,omitempty"`
	Mesh     string      `yaml:"mesh,omitempty"`
	Material string      `yaml:"material,omitempty"`
	Hidden   bool        `yaml:"hidden,omitempty"`

	// Spin is an angular speed in degrees per second.
	Spin *[3]float32 `yaml:"spin,omitempty"`
}
