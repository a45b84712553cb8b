// Command viewer draws a scene description through the engine, optionally reloading it when the file changes.
package main

import (
	"bytes"
	"context"
	_ "embed"
	"flag"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine"
	"github.com/Carmen-Shannon/oxy-scene/engine/config"
	"github.com/Carmen-Shannon/oxy-scene/engine/loader"
	"github.com/Carmen-Shannon/oxy-scene/engine/model"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-scene/engine/scene"
	"github.com/Carmen-Shannon/oxy-scene/engine/sky"
	"github.com/Carmen-Shannon/oxy-scene/engine/window"
)

//go:embed demo.yaml
var demoScene []byte

const demoKey = "demo"

func main() {
	configPath := flag.String("config", "", "TOML configuration file (defaults are used when empty)")
	scenePath := flag.String("scene", "", "YAML scene description (the built-in demo is used when empty)")
	watch := flag.Bool("watch", false, "reload the scene description whenever it changes on disk")
	frames := flag.Int("frames", 0, "quit after this many frames, 0 to run until closed")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("[Viewer] %v", err)
		}
	}
	backend, err := cfg.Renderer.BackendType()
	if err != nil {
		log.Fatalf("[Viewer] %v", err)
	}

	// ── Window + Renderer ───────────────────────────────────────────────
	var win window.Window
	var surface renderer.Surface
	if backend == renderer.BackendTypeWGPU {
		win = window.NewWindow(
			window.WithTitle(cfg.Window.Title),
			window.WithSize(cfg.Window.Width, cfg.Window.Height),
			window.WithSizeLimits(cfg.Window.MinWidth, cfg.Window.MinHeight, 0, 0),
		)
		surface = win
	}
	r := renderer.NewRenderer(backend, surface, cfg.Renderer.Options(cfg.Window)...)

	// ── Library ─────────────────────────────────────────────────────────
	l := newLibrary()
	key := demoKey
	if *scenePath != "" {
		key = *scenePath
		if _, err := l.Load(key); err != nil {
			log.Fatalf("[Viewer] %v", err)
		}
	} else if _, err := l.LoadReader(demoKey, bytes.NewReader(demoScene)); err != nil {
		log.Fatalf("[Viewer] %v", err)
	}

	// ── Scene ───────────────────────────────────────────────────────────
	// The description is applied on every Init, so reloading the scene picks up the latest one.
	m := scene.NewManager()
	m.Register(cfg.Scene.Name, func() scene.Scene {
		options := append(cfg.SceneOptions(), scene.WithInit(func(s scene.Scene) {
			d := l.Get(key)
			if d == nil {
				return
			}
			if err := l.Apply(s, d); err != nil {
				log.Printf("[Viewer] failed to apply %s: %v", key, err)
			}
		}))
		return scene.NewScene(cfg.Scene.Name, options...)
	})

	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithRenderer(r),
		engine.WithSceneManager(m),
		engine.WithProfiling(cfg.Engine.Profiling),
		engine.WithRenderFrameLimit(cfg.Engine.FrameLimit),
	)
	if _, err := m.LoadMain(); err != nil {
		log.Fatalf("[Viewer] %v", err)
	}

	reload := func() {
		eng.Post(func() {
			if _, err := m.Load(cfg.Scene.Name); err != nil {
				log.Printf("[Viewer] reload failed: %v", err)
			}
		})
	}

	// ── Input ───────────────────────────────────────────────────────────
	if win != nil {
		dark := false
		win.SetKeyCallback(func(k window.Key) {
			switch k {
			case window.KeyF5:
				if *scenePath != "" {
					if _, err := l.Reload(key); err != nil {
						log.Printf("[Viewer] %v", err)
						return
					}
				}
				reload()
			case window.KeyP:
				eng.Post(eng.ToggleProfiler)
			case window.KeySpace:
				dark = !dark
				d := dark
				eng.Post(func() { toggleSky(m.Current(), d) })
			}
		})
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	go func() {
		<-ctx.Done()
		eng.Quit()
	}()

	if *watch && *scenePath != "" {
		go func() {
			err := loader.Watch(ctx, l, key, func(_ *loader.Description, err error) {
				if err != nil {
					log.Printf("[Viewer] %v", err)
					return
				}
				reload()
			})
			if err != nil {
				log.Printf("[Viewer] %v", err)
			}
		}()
	}

	if *frames > 0 {
		var drawn atomic.Int64
		eng.SetRenderCallback(func(float32) {
			if drawn.Add(1) >= int64(*frames) {
				eng.Quit()
			}
		})
	}

	eng.Run()
	if err := eng.Err(); err != nil {
		log.Fatalf("[Viewer] %v", err)
	}
}

// newLibrary registers the meshes and materials scene descriptions may reference.
func newLibrary() loader.Loader {
	lit := renderer.LitShader()
	return loader.NewLoader(loader.BackendTypeYAML,
		loader.WithModel(model.Cube("cube", 1)),
		loader.WithModel(model.Plane("plane", 1)),
		loader.WithMaterial(material.NewMaterial("white", lit)),
		loader.WithMaterial(material.NewMaterial("grey", lit,
			material.WithColor(common.NewColor(0.5, 0.5, 0.5)),
			material.WithSpecular(0.1),
		)),
		loader.WithMaterial(material.NewMaterial("red", lit, material.WithColor(common.NewColor(0.9, 0.15, 0.1)))),
		loader.WithMaterial(material.NewMaterial("green", lit, material.WithColor(common.NewColor(0.1, 0.8, 0.2)))),
		loader.WithMaterial(material.NewMaterial("blue", lit,
			material.WithColor(common.NewColor(0.1, 0.3, 0.9)),
			material.WithShininess(64),
		)),
	)
}

// toggleSky starts or stops the skybox cycle when it has skyboxes, otherwise swaps the plain skybox.
func toggleSky(s scene.Scene, dark bool) {
	if s == nil {
		return
	}
	sk := s.Sky()
	if sk.Cycle().Len() > 0 {
		if sk.Cycle().Active() {
			sk.EndCycle()
		} else {
			sk.BeginCycle()
		}
		return
	}
	sb := sky.SkyboxDefault
	if dark {
		sb = sky.SkyboxBlack
	}
	if err := sk.SetStaticSkybox(sb); err != nil {
		log.Printf("[Viewer] %v", err)
	}
}
