package engine

import (
	"github.com/Carmen-Shannon/oxy-spine/engine/profiler"
	"github.com/Carmen-Shannon/oxy-spine/engine/scene"
	"github.com/Carmen-Shannon/oxy-spine/engine/window"
)

// EngineBuilderOption configures an Engine at construction.
type EngineBuilderOption func(*engine)

// WithProfiling turns the per-interval frame statistics log on or off. Off by default.
//
// Parameters:
//   - enabled: whether the profiler is ticked each frame
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled.Store(enabled)
	}
}

// WithProfiler replaces the default profiler, e.g. to change its interval.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithTickRate sets how often the tick callback runs. Scene updates are not tied to it; they run once per
// rendered frame.
//
// Parameters:
//   - fps: ticks per second, 60 when <= 0
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.engineTickRate = tickInterval(fps)
	}
}

// WithWindow attaches the window whose events Run pumps and whose resizes reach the renderer.
//
// Parameters:
//   - w: the window the renderer's surface was created from
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithScene registers a scene during engine construction.
//
// Parameters:
//   - s: the Scene to register
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScene(s scene.Scene) EngineBuilderOption {
	return func(e *engine) {
		e.addScene(s)
	}
}

// WithRenderFrameLimit caps the render loop. With vsync the present mode already paces frames,
// so this mostly matters for PresentModeUncapped.
//
// Parameters:
//   - fps: frame cap, 0 for none
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.renderFrameLimit = frameInterval(fps)
	}
}
