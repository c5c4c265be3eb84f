package engine

import (
	"log"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-spine/engine/profiler"
	"github.com/Carmen-Shannon/oxy-spine/engine/scene"
	"github.com/Carmen-Shannon/oxy-spine/engine/window"
)

// FrameRenderer is the part of renderer.Renderer the engine drives once per frame.
type FrameRenderer interface {
	Resize(width, height int)
	BeginFrame() error
	EndFrame()
	Present()
}

// engine implements the Engine interface.
// Coordinates the tick, render, and window threads.
type engine struct {
	mu *sync.RWMutex

	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates
	resizeChannel   chan [2]int        // Latest framebuffer size, applied by the render goroutine

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window   window.Window
	renderer FrameRenderer

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	scenes []scene.Scene

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine is the main entry point for the engine.
// It owns the frame loop: every frame, on a single render goroutine, each active scene is updated, then
// all of them are drawn into one render pass in ascending z-index order and the frame is presented.
type Engine interface {
	// Window returns the underlying window, nil for a headless engine.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in frames per second.
	// The tick callback will be called at this rate for input and logic updates.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called on the render goroutine after each presented frame.
	//
	// Parameters:
	//   - callback: function to call each render frame, receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// AddScene registers a scene. Scenes are drawn in ascending ZIndex order, ties in the order added.
	//
	// Parameters:
	//   - s: the Scene to register
	AddScene(s scene.Scene)

	// RemoveScene unregisters the scene with the given name. The scene is not released.
	//
	// Parameters:
	//   - name: the scene's name
	//
	// Returns:
	//   - scene.Scene: the removed scene, or nil if none matched
	RemoveScene(name string) scene.Scene

	// Scene retrieves a registered scene by name.
	//
	// Parameters:
	//   - name: the scene's name
	//
	// Returns:
	//   - scene.Scene: the scene, or nil if not found
	Scene(name string) scene.Scene

	// Scenes returns the registered scenes in draw order.
	//
	// Returns:
	//   - []scene.Scene: a copy of the scene list
	Scenes() []scene.Scene

	// Resize queues a framebuffer resize. The render goroutine applies it before the next frame.
	//
	// Parameters:
	//   - width, height: the new size in pixels
	Resize(width, height int)

	// Run starts the tick and render goroutines and pumps window events on the calling goroutine.
	// Blocks until the window closes or Quit is called. Without a window it blocks until Quit.
	Run()

	// Quit signals all engine goroutines to stop. Safe to call multiple times.
	Quit()
}

// NewEngine creates a new Engine. Panics if no renderer is supplied.
//
// Parameters:
//   - r: the renderer every scene draws through, normally a renderer.Renderer
//   - options: functional options for engine configuration (window, scenes, profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(r FrameRenderer, options ...EngineBuilderOption) Engine {
	if r == nil {
		panic("engine: NewEngine requires a non-nil renderer")
	}
	e := &engine{
		mu:              &sync.RWMutex{},
		tickRateChannel: make(chan time.Duration, 1),
		resizeChannel:   make(chan [2]int, 1),
		quitChannel:     make(chan struct{}),
		renderer:        r,
		profiler:        profiler.NewProfiler(),
		engineTickRate:  time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window != nil {
		e.window.SetResizeCallback(e.Resize)
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Run() {
	e.mu.Lock()
	e.running = true
	e.mu.Unlock()

	e.wg.Add(2)
	go e.handleEngine()
	go e.handleRender()

	if e.window != nil {
		e.pumpWindow()
		e.signalQuit()
	} else {
		<-e.quitChannel
	}
	e.wg.Wait()
}

// pumpWindow polls window events until the window closes or the engine quits.
func (e *engine) pumpWindow() {
	for {
		select {
		case <-e.quitChannel:
			return
		default:
		}
		if !e.window.PollEvents() {
			return
		}
		runtime.Gosched()
	}
}

func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
		close(e.quitChannel)
	})
}

// handleEngine runs the fixed-rate tick loop in its own goroutine.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// handleRender runs the render loop in its own goroutine.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] render goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			now := time.Now()
			dt := float32(now.Sub(lastRender).Seconds())
			lastRender = now

			if e.frame(dt) && e.renderCallback != nil {
				e.renderCallback(dt)
			}

			if e.renderFrameLimit > 0 {
				if remaining := e.renderFrameLimit - time.Since(lastRender); remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

// frame runs one update, draw and present cycle. Must be called on the render goroutine.
//
// Returns:
//   - bool: true if a frame was presented
func (e *engine) frame(dt float32) bool {
	e.applyResize()

	active := e.activeScenes()
	for _, s := range active {
		if err := s.Update(dt); err != nil {
			log.Printf("[Engine] %v", err)
		}
	}

	presented := false
	if err := e.renderer.BeginFrame(); err != nil {
		log.Printf("[Engine] failed to begin frame: %v", err)
	} else {
		for _, s := range active {
			if err := s.Render(); err != nil {
				log.Printf("[Engine] %v", err)
			}
		}
		e.renderer.EndFrame()
		e.renderer.Present()
		presented = true
	}

	var total scene.FrameStats
	slots := 0
	for _, s := range active {
		st := s.Stats()
		slots += st.Slots
		total.Add(st)
		s.ResetStats()
	}
	total.Slots = slots

	if e.profilingEnabled.Load() && e.profiler != nil {
		e.profiler.Tick(total)
	}
	return presented
}

// applyResize forwards the latest queued size to the renderer and every scene camera.
func (e *engine) applyResize() {
	select {
	case size := <-e.resizeChannel:
		w, h := size[0], size[1]
		if w <= 0 || h <= 0 {
			return
		}
		e.renderer.Resize(w, h)
		e.mu.RLock()
		defer e.mu.RUnlock()
		for _, s := range e.scenes {
			if cam := s.Camera(); cam != nil {
				cam.SetViewport(float32(w), float32(h))
			}
		}
	default:
	}
}

func (e *engine) activeScenes() []scene.Scene {
	e.mu.RLock()
	defer e.mu.RUnlock()
	active := make([]scene.Scene, 0, len(e.scenes))
	for _, s := range e.scenes {
		if s.Active() {
			active = append(active, s)
		}
	}
	return active
}

func (e *engine) Resize(width, height int) {
	size := [2]int{width, height}
	select {
	case e.resizeChannel <- size:
	default:
		select {
		case <-e.resizeChannel:
		default:
		}
		e.resizeChannel <- size
	}
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

// SetTickRate sets the engine tick rate in frames per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	newRate := tickInterval(fps)

	e.mu.RLock()
	running := e.running
	e.mu.RUnlock()

	if !running {
		e.engineTickRate = newRate
		return
	}
	// replace any pending update
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameInterval(fps)
}

// tickInterval converts a tick rate to a ticker period, 60Hz when fps <= 0.
func tickInterval(fps float64) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Duration(float64(time.Second) / fps)
}

// frameInterval converts a frame cap to a minimum frame duration, 0 when uncapped.
func frameInterval(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}

func (e *engine) AddScene(s scene.Scene) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.addScene(s)
}

// addScene inserts s after every scene with a ZIndex <= its own. Caller must hold the lock.
func (e *engine) addScene(s scene.Scene) {
	z := s.ZIndex()
	i := len(e.scenes)
	for i > 0 && e.scenes[i-1].ZIndex() > z {
		i--
	}
	e.scenes = slices.Insert(e.scenes, i, s)
}

func (e *engine) RemoveScene(name string) scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, s := range e.scenes {
		if s.Name() == name {
			e.scenes = slices.Delete(e.scenes, i, i+1)
			return s
		}
	}
	return nil
}

func (e *engine) Scene(name string) scene.Scene {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, s := range e.scenes {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

func (e *engine) Scenes() []scene.Scene {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.scenes)
}
