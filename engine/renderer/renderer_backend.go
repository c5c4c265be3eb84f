package renderer

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how frames reach the display.
type PresentMode int

const (
	// PresentModeVSync queues frames behind the vertical blank (Fifo). Always supported.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents immediately and may tear.
	PresentModeUncapped
)

func (m PresentMode) String() string {
	switch m {
	case PresentModeVSync:
		return "vsync"
	case PresentModeUncapped:
		return "uncapped"
	default:
		return fmt.Sprintf("PresentMode(%d)", int(m))
	}
}

// wgpuPresentMode maps the mode onto the surface setting. Unknown modes fall back to Fifo.
func (m PresentMode) wgpuPresentMode() wgpu.PresentMode {
	if m == PresentModeUncapped {
		return wgpu.PresentModeImmediate
	}
	return wgpu.PresentModeFifo
}

// MSAASampleCount is the sample count of the color target. Only the two counts every WebGPU
// adapter supports are offered.
type MSAASampleCount uint32

const (
	// MSAAOff renders straight into the swapchain texture.
	MSAAOff MSAASampleCount = 1

	// MSAA4x renders into a 4-sample target resolved into the swapchain texture. This is the default.
	MSAA4x MSAASampleCount = 4
)

// Valid reports whether the count is one of MSAAOff or MSAA4x.
func (c MSAASampleCount) Valid() bool {
	return c == MSAAOff || c == MSAA4x
}

// RendererBackend is the top-level backend interface for the Renderer.
type RendererBackend interface {
	wgpuRendererBackend
}
