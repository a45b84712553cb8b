package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-scene/engine/renderer"
	"github.com/Carmen-Shannon/oxy-scene/engine/scene"
	"github.com/Carmen-Shannon/oxy-scene/engine/sky"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
[window]
title = "harbour"
width = 800
height = 600

[renderer]
backend = "headless"
present_mode = "uncapped"
msaa = 1

[scene]
name = "harbour"
active_lights = 4
compute_workers = 2

[sky]
fog_density = 0.02
ambient_color = [1.0, 0.5, 0.25]
ambient_percent = 40
`

func TestDecodeOverridesDefaults(t *testing.T) {
	cfg, err := Decode(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, "harbour", cfg.Window.Title)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 240, cfg.Window.MinHeight)
	assert.Equal(t, 144.0, cfg.Engine.FrameLimit)
	assert.Equal(t, 4, cfg.Scene.ActiveLights)
	assert.Equal(t, [3]float32{1, 0.5, 0.25}, cfg.Sky.AmbientColor)
	assert.Equal(t, float32(10), cfg.Sky.FogGradient)

	backend, err := cfg.Renderer.BackendType()
	require.NoError(t, err)
	assert.Equal(t, renderer.BackendTypeHeadless, backend)
	mode, err := cfg.Renderer.Present()
	require.NoError(t, err)
	assert.Equal(t, renderer.PresentModeUncapped, mode)
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	_, err := Decode(strings.NewReader("[scene]\nactive_light = 3\n"))
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "active_light")
}

func TestDecodeRejectsMalformedDocument(t *testing.T) {
	_, err := Decode(strings.NewReader("[scene\n"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Default().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"negative frame limit", func(c *Config) { c.Engine.FrameLimit = -1 }},
		{"unknown backend", func(c *Config) { c.Renderer.Backend = "vulkan" }},
		{"unknown present mode", func(c *Config) { c.Renderer.PresentMode = "mailbox" }},
		{"bad msaa", func(c *Config) { c.Renderer.MSAA = 2 }},
		{"too many lights", func(c *Config) { c.Scene.ActiveLights = 33 }},
		{"empty scene name", func(c *Config) { c.Scene.Name = "" }},
		{"ambient over 100", func(c *Config) { c.Sky.AmbientPercent = 120 }},
		{"zero skybox duration", func(c *Config) { c.Sky.SkyboxDuration = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oxy.toml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "harbour", cfg.Scene.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOptionsApply(t *testing.T) {
	cfg, err := Decode(strings.NewReader(sample))
	require.NoError(t, err)

	sk := sky.NewSky(cfg.Sky.Options()...)
	assert.Equal(t, float32(0.02), sk.FogDensity())
	assert.InDelta(t, 0.4, sk.Ambient().Power, 1e-6)

	s := scene.NewScene(cfg.Scene.Name, cfg.SceneOptions()...)
	t.Cleanup(s.Release)
	assert.Equal(t, 4, s.ActiveLights())

	r := renderer.NewRenderer(renderer.BackendTypeHeadless, nil, cfg.Renderer.Options(cfg.Window)...)
	w, h := r.Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
}
