// Command bench ramps the number of spinning cubes in a scene until the frame rate drops below a threshold.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/Carmen-Shannon/oxy-scene/engine"
	"github.com/Carmen-Shannon/oxy-scene/engine/game_object"
	"github.com/Carmen-Shannon/oxy-scene/engine/light"
	"github.com/Carmen-Shannon/oxy-scene/engine/model"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-scene/engine/scene"
	"github.com/Carmen-Shannon/oxy-scene/engine/window"
	"github.com/go-gl/mathgl/mgl32"
)

// ── Benchmark Configuration ────────────────────────────────────────
const (
	// benchCubeSpacing determines how far apart cubes are placed in the grid.
	benchCubeSpacing = 3.0
	// benchRampFactor is the multiplier applied each step (1.5 = +50%).
	benchRampFactor = 1.5
	// benchMaxSide is the maximum number of cubes per side on the XZ plane
	// before new objects start stacking upward in layers.
	benchMaxSide = 200
	// benchLights is the number of point lights scattered over the grid.
	benchLights = 64
)

func main() {
	initial := flag.Int("initial", 1000, "number of cubes in the first ramp step")
	interval := flag.Duration("interval", 2*time.Second, "how long each ramp step runs before increasing")
	threshold := flag.Float64("threshold", 30, "stop ramping once the average FPS falls below this value")
	maxStep := flag.Int("max-step", 100_000, "cap on the number of cubes added per ramp step")
	materials := flag.Int("materials", 8, "number of distinct materials the cubes are spread over")
	workers := flag.Int("workers", 4, "uniform staging workers")
	windowed := flag.Bool("window", false, "render into a window with the wgpu backend instead of headless")
	flag.Parse()

	// ── Window + Renderer (uncapped FPS) ────────────────────────────
	var win window.Window
	var surface renderer.Surface
	backend := renderer.BackendTypeHeadless
	if *windowed {
		win = window.NewWindow(window.WithTitle("oxy-scene bench: many cubes"), window.WithSize(1920, 1080))
		surface = win
		backend = renderer.BackendTypeWGPU
	}
	r := renderer.NewRenderer(backend, surface, renderer.WithPresentMode(renderer.PresentModeUncapped))

	// ── Library ─────────────────────────────────────────────────────
	cube := model.Cube("cube", 1)
	palette := buildPalette(max(*materials, 1))

	// ── Scene ───────────────────────────────────────────────────────
	sc := scene.NewScene("bench",
		scene.WithComputeWorkers(*workers),
		scene.WithInit(func(s scene.Scene) {
			s.Camera().SetLocalPosition(mgl32.Vec3{0, 40, 80})
			s.Camera().SetLocalRotation(mgl32.Vec3{-25, 0, 0})
			for _, l := range scatterLights(benchLights) {
				s.AddLight(l)
			}
		}),
	)
	m := scene.NewManager(scene.WithScene("bench", func() scene.Scene { return sc }))

	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithRenderer(r),
		engine.WithSceneManager(m),
		engine.WithProfiling(true),
	)
	if _, err := m.LoadMain(); err != nil {
		log.Fatalf("[Bench] %v", err)
	}

	// ── Spawn initial batch ─────────────────────────────────────────
	spawnCubes(sc, cube, palette, *initial)
	currentCount := *initial

	// ── Benchmark tracking ──────────────────────────────────────────
	var (
		rampStart  = time.Now()
		frameCount int
		bestCount  int
		bestFPS    float64
	)

	fmt.Println("oxy-scene bench: many cubes")
	fmt.Printf("  initial count: %d cubes\n", *initial)
	fmt.Printf("  ramp interval: %v\n", *interval)
	fmt.Printf("  fps threshold: %.0f\n", *threshold)
	fmt.Printf("  materials:     %d\n", len(palette))
	log.Printf("[Bench] Starting with %d cubes", currentCount)

	// ── Per-frame render callback for FPS sampling ──────────────────
	// the headless recorder is emptied every frame so it does not grow with the run
	hb, _ := r.Backend().(*renderer.HeadlessBackend)
	eng.SetRenderCallback(func(_ float32) {
		frameCount++
		if hb != nil {
			hb.Reset()
		}

		elapsed := time.Since(rampStart)
		if elapsed < *interval {
			return
		}
		fps := float64(frameCount) / elapsed.Seconds()
		stats := sc.Stats()
		log.Printf("[Bench] %d cubes → %.1f FPS (%.2f ms/frame, %d rebinds)", currentCount, fps, 1000.0/fps, stats.Rebinds)

		if fps > bestFPS {
			bestFPS = fps
			bestCount = currentCount
		}

		if fps < *threshold {
			log.Printf("[Bench] RESULT: Below %.0f FPS threshold at %d cubes (%.1f FPS)", *threshold, currentCount, fps)
			log.Printf("[Bench] Best sustained: %d cubes @ %.1f FPS", bestCount, bestFPS)
			eng.Quit()
			return
		}

		// Compute next count: multiply by ramp factor, cap the delta
		nextCount := int(math.Ceil(float64(currentCount) * benchRampFactor))
		delta := min(nextCount-currentCount, *maxStep)

		spawnStart := time.Now()
		spawnCubes(sc, cube, palette, delta)
		currentCount += delta
		log.Printf("[Bench] Ramping → %d cubes (+%d, spawn took %v)", currentCount, delta, time.Since(spawnStart).Round(time.Millisecond))

		// Reset timer AFTER spawning so spawn cost doesn't eat into measurement
		rampStart = time.Now()
		frameCount = 0
	})

	eng.Run()
	if err := eng.Err(); err != nil {
		log.Fatalf("[Bench] %v", err)
	}
}

// spawnCubes adds count spinning cubes into the scene using a stable grid layout.
// Objects fill an XZ grid (up to benchMaxSide per axis) and once a layer is full,
// new objects stack upward on subsequent layers. Materials are assigned round-robin.
func spawnCubes(sc scene.Scene, cube model.Model, palette []material.Material, count int) {
	existing := len(sc.GameObjects())

	for i := range count {
		idx := existing + i
		col := idx % benchMaxSide
		row := (idx / benchMaxSide) % benchMaxSide
		layer := idx / (benchMaxSide * benchMaxSide)

		cx := (float32(col) - float32(benchMaxSide-1)/2.0) * benchCubeSpacing
		cz := (float32(row) - float32(benchMaxSide-1)/2.0) * benchCubeSpacing
		cy := float32(layer) * benchCubeSpacing

		sc.Add(game_object.NewGameObject(fmt.Sprintf("cube-%d", idx),
			game_object.WithMesh(cube),
			game_object.WithMaterial(palette[idx%len(palette)]),
			game_object.WithPosition(cx, cy, cz),
			game_object.WithBehaviours(game_object.Spin(
				rand.Float32()*120-60,
				rand.Float32()*120-60,
				rand.Float32()*120-60,
			)),
		))
	}
}

// buildPalette creates n lit materials with hues spread around the color wheel.
func buildPalette(n int) []material.Material {
	lit := renderer.LitShader()
	out := make([]material.Material, n)
	for i := range out {
		h := float64(i) / float64(n) * 2 * math.Pi
		c := common.NewColor(
			float32(0.5+0.5*math.Cos(h)),
			float32(0.5+0.5*math.Cos(h-2*math.Pi/3)),
			float32(0.5+0.5*math.Cos(h+2*math.Pi/3)),
		)
		out[i] = material.NewMaterial(fmt.Sprintf("hue-%d", i), lit, material.WithColor(c))
	}
	return out
}

// scatterLights places n point lights at random over the grid, marking the first one important.
func scatterLights(n int) []light.Light {
	half := float32(benchMaxSide) * benchCubeSpacing / 2
	out := make([]light.Light, n)
	for i := range out {
		out[i] = light.NewLight(light.LightTypePoint,
			light.WithName(fmt.Sprintf("light-%d", i)),
			light.WithPosition(rand.Float32()*2*half-half, 6, rand.Float32()*2*half-half),
			light.WithColor(common.NewColor(rand.Float32(), rand.Float32(), rand.Float32())),
			light.WithPower(4),
			light.WithImportant(i == 0),
		)
	}
	return out
}
