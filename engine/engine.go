package engine

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-scene/engine/profiler"
	"github.com/Carmen-Shannon/oxy-scene/engine/renderer"
	"github.com/Carmen-Shannon/oxy-scene/engine/scene"
	"github.com/Carmen-Shannon/oxy-scene/engine/window"
)

// ErrFramePanic is returned by Err when the frame goroutine recovered from a panic.
var ErrFramePanic = errors.New("engine: frame panicked")

// engine implements the Engine interface.
// Coordinates the frame goroutine, the quit goroutine and the window message loop.
type engine struct {
	mu *sync.Mutex

	wg sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window window.Window
	r      renderer.Renderer
	scenes scene.Manager

	profiler         *profiler.Profiler
	profilingEnabled bool

	renderCallback func(deltaTime float32)
	posted         []func()
	err            error

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine is the main entry point for the engine.
// It drives the current scene of its scene manager once per frame on a dedicated goroutine,
// presents through its renderer and runs the window message loop.
type Engine interface {
	// Window returns the window, or nil for a windowless engine.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer every loaded scene draws through.
	//
	// Returns:
	//   - renderer.Renderer: the renderer
	Renderer() renderer.Renderer

	// Scenes returns the scene manager.
	//
	// Returns:
	//   - scene.Manager: the manager
	Scenes() scene.Manager

	// Profiler returns the profiler.
	//
	// Returns:
	//   - *profiler.Profiler: the profiler
	Profiler() *profiler.Profiler

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// ToggleProfiler flips profiling output.
	ToggleProfiler()

	// SetRenderCallback registers the function called after each frame is presented.
	//
	// Parameters:
	//   - callback: function to call each frame, receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the frame loop.
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Post queues fn to run on the frame goroutine before the next frame.
	// Use it for anything that touches the current scene or the renderer from another goroutine.
	//
	// Parameters:
	//   - fn: the function to run
	Post(fn func())

	// Resize queues a renderer resize and a camera aspect update for the next frame.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	Resize(width, height int)

	// Frame runs posted functions, draws the current scene once and presents.
	//
	// Parameters:
	//   - dt: the frame delta in seconds
	//
	// Returns:
	//   - error: the scene's draw error
	Frame(dt float32) error

	// Run starts the frame and quit goroutines. With a window it runs the message loop until the
	// window closes; without one it blocks until Quit. Releases the scenes and the renderer on return.
	Run()

	// Quit signals all engine goroutines to stop and shuts down the engine.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()

	// Err returns the error that ended the frame loop, or nil.
	//
	// Returns:
	//   - error: the error
	Err() error
}

// NewEngine creates a new Engine instance with the provided options.
// Without WithSceneManager an empty manager is created.
//
// Parameters:
//   - options: functional options for engine configuration (window, renderer, profiling, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:          &sync.Mutex{},
		quitChannel: make(chan struct{}),
		profiler:    profiler.NewProfiler(),
	}

	for _, opt := range options {
		opt(e)
	}
	if e.scenes == nil {
		e.scenes = scene.NewManager()
	}

	// every scene the manager loads draws through the engine's renderer
	e.scenes.OnSceneChanged(func(_, next scene.Scene) {
		if next != nil && next.Renderer() == nil && e.r != nil {
			next.SetRenderer(e.r)
		}
	})
	if s := e.scenes.Current(); s != nil && s.Renderer() == nil && e.r != nil {
		s.SetRenderer(e.r)
	}

	if e.window != nil {
		e.window.SetResizeCallback(e.Resize)
		// the window is closed from the message loop goroutine once quit is signalled
		e.window.SetUpdateCallback(func() {
			select {
			case <-e.quitChannel:
				if err := e.window.Close(); err != nil {
					log.Printf("[Engine] failed to close window: %v", err)
				}
			default:
			}
		})
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.r
}

func (e *engine) Scenes() scene.Manager {
	return e.scenes
}

func (e *engine) Profiler() *profiler.Profiler {
	return e.profiler
}

func (e *engine) Run() {
	e.handle()
	if e.window != nil {
		e.window.ProcessMessages()
		e.signalQuit()
	}
	e.wg.Wait()

	e.scenes.Release()
	if e.r != nil {
		e.r.Release()
	}
	log.Printf("[Engine] stopped")
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

func (e *engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// signalQuit closes the quit channel to signal all goroutines to exit.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// fail records the first error that ends the frame loop and signals quit.
func (e *engine) fail(err error) {
	e.mu.Lock()
	if e.err == nil {
		e.err = err
	}
	e.mu.Unlock()
	e.signalQuit()
}

// handle launches the frame and quit goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(2)
	go e.handleFrames()
	go e.handleQuit()
}

// handleFrames runs the uncapped (or frame-limited) frame loop in its own goroutine.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleFrames() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] frame goroutine recovered from panic: %v", r)
			e.fail(fmt.Errorf("%w: %v", ErrFramePanic, r))
		}
	}()

	lastFrame := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			now := time.Now()
			dt := float32(now.Sub(lastFrame).Seconds())
			lastFrame = now

			if err := e.Frame(dt); err != nil {
				log.Printf("[Engine] frame failed: %v", err)
				e.fail(err)
				return
			}

			// Frame rate limiting
			if e.renderFrameLimit > 0 {
				elapsed := time.Since(lastFrame)
				if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

// handleQuit blocks until the quit channel is closed.
func (e *engine) handleQuit() {
	defer e.wg.Done()
	<-e.quitChannel
	log.Printf("[Engine] quit requested")
}

func (e *engine) Frame(dt float32) error {
	e.mu.Lock()
	posted := e.posted
	e.posted = nil
	e.mu.Unlock()
	for _, fn := range posted {
		fn()
	}

	s := e.scenes.Current()
	if s == nil {
		return nil
	}

	// a scene that is not initialized draws nothing, so there is nothing to present
	if s.State() != scene.StateInitialized {
		return nil
	}

	err := s.Frame(dt)
	if e.r != nil {
		e.r.Present()
	}

	if e.profilingEnabled && e.profiler != nil {
		st := s.Stats()
		e.profiler.Record(profiler.Sample{
			Objects: st.Objects,
			Drawn:   st.Drawn,
			Lights:  st.Lights,
			Rebinds: st.Rebinds,
			Passes:  st.Passes,
		})
		e.profiler.Tick()
	}

	if e.renderCallback != nil {
		e.renderCallback(dt)
	}
	return err
}

func (e *engine) Post(fn func()) {
	if fn == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.posted = append(e.posted, fn)
}

func (e *engine) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	e.Post(func() {
		if e.r != nil {
			if err := e.r.Resize(width, height); err != nil {
				log.Printf("[Engine] resize to %dx%d failed: %v", width, height, err)
			}
		}
		if s := e.scenes.Current(); s != nil {
			if err := s.Camera().SetAspect(float32(width) / float32(height)); err != nil {
				log.Printf("[Engine] camera aspect for %dx%d rejected: %v", width, height, err)
			}
		}
	})
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) ToggleProfiler() {
	e.profilingEnabled = !e.profilingEnabled
}

// SetRenderCallback registers the function called each frame.
func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

// SetRenderFrameLimit sets an optional frame rate cap.
// Pass 0 to uncap the frame loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}
