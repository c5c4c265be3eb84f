package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-spine/common"
	"github.com/Carmen-Shannon/oxy-spine/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-spine/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-spine/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// Keys of the pipelines NewRenderer registers when none are supplied.
const (
	StripPipelineKey              = "attachment_strip"
	ListPipelineKey               = "attachment_list"
	PremultipliedStripPipelineKey = "attachment_strip_pma"
	PremultipliedListPipelineKey  = "attachment_list_pma"
)

// pipelineRoute picks a pipeline by topology and by the blend equation of the bound page.
type pipelineRoute struct {
	topology      Topology
	premultiplied bool
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline
	byTopology    map[pipelineRoute]pipeline.Pipeline

	// Draw state of the open frame.
	topology      Topology
	topologySet   bool
	premultiplied bool

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	pendingClearColor    *common.Color
	pendingPipelines     []pipeline.Pipeline
	premultipliedAlpha   bool
}

// Renderer is the GPU facade the scene layer draws through.
//
// It owns the attachment pipelines (one per primitive topology), creates and maps the per-attachment
// vertex and index buffers, uploads atlas pages as textures and records one render pass per frame.
// All methods are expected to be called from the render goroutine.
type Renderer interface {
	// Pipeline retrieves the cached Pipeline associated with the given key, nil if none exists.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// RegisterPipelines compiles and caches one or more pipelines. Keys that are already registered are
	// skipped. The first pipeline registered for a topology and blend equation is the one SetTopology
	// selects. Pipelines using pipeline.PremultipliedAlphaBlend serve premultiplied pages.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error if pipeline creation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// Resize reconfigures the surface for a new size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode changes the present mode. Applied on the next Resize.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// SetClearColor changes the background color.
	//
	// Parameters:
	//   - c: the clear color
	SetClearColor(c common.Color)

	// CreateBuffer allocates a GPU buffer of the given size.
	//
	// Parameters:
	//   - label: debug label
	//   - usage: BufferUsageVertex or BufferUsageIndex
	//   - size: size in bytes, greater than zero
	//
	// Returns:
	//   - Buffer: the created buffer
	//   - error: an error if allocation fails
	CreateBuffer(label string, usage BufferUsage, size uint64) (Buffer, error)

	// MapBuffer gives write access to the whole buffer. The previous contents are undefined.
	//
	// Parameters:
	//   - buf: the buffer to map
	//
	// Returns:
	//   - []byte: exactly buf.Size() bytes
	//   - error: ErrBufferMapped if already mapped, ErrBufferReleased if released
	MapBuffer(buf Buffer) ([]byte, error)

	// UnmapBuffer commits the bytes written since MapBuffer.
	//
	// Parameters:
	//   - buf: the mapped buffer
	UnmapBuffer(buf Buffer)

	// CreateTexture uploads an RGBA8 atlas page.
	//
	// Parameters:
	//   - key: the page name
	//   - data: the decoded pixels
	//
	// Returns:
	//   - Texture: the GPU texture
	//   - error: an error if the upload fails
	CreateTexture(key string, data common.TextureStagingData) (Texture, error)

	// CreateUniform allocates a scene uniform initialised to the identity matrix.
	//
	// Parameters:
	//   - label: debug label
	//
	// Returns:
	//   - Uniform: the uniform
	//   - error: an error if allocation fails
	CreateUniform(label string) (Uniform, error)

	// WriteUniform uploads new scene uniform values.
	//
	// Parameters:
	//   - u: the uniform to write
	//   - data: the values
	WriteUniform(u Uniform, data SceneUniform)

	// BeginFrame acquires the next swapchain image and opens the render pass.
	//
	// Returns:
	//   - error: an error if the swapchain image could not be acquired
	BeginFrame() error

	// SetTopology binds the registered pipeline for the given topology and the blend equation of the
	// last bound texture.
	//
	// Parameters:
	//   - t: the primitive topology
	//
	// Returns:
	//   - error: ErrPipelineNotFound or ErrNoFrame
	SetTopology(t Topology) error

	// BindUniform binds the scene uniform for subsequent draws.
	//
	// Parameters:
	//   - u: the uniform
	//
	// Returns:
	//   - error: ErrNoFrame outside a frame
	BindUniform(u Uniform) error

	// BindTexture binds an atlas page for subsequent draws. A page whose alpha mode differs from the
	// previous one rebinds the pipeline of the current topology.
	//
	// Parameters:
	//   - t: the texture
	//
	// Returns:
	//   - error: ErrNoFrame outside a frame
	BindTexture(t Texture) error

	// SetVertexBuffers binds the three vertex streams of an attachment.
	//
	// Parameters:
	//   - position: float32x2 positions
	//   - tint: packed RGBA tints
	//   - uv: float32x2 texture coordinates
	//
	// Returns:
	//   - error: ErrNoFrame or ErrBufferReleased
	SetVertexBuffers(position, tint, uv Buffer) error

	// SetIndexBuffer binds a uint16 index buffer.
	//
	// Parameters:
	//   - index: the index buffer
	//
	// Returns:
	//   - error: ErrNoFrame or ErrBufferReleased
	SetIndexBuffer(index Buffer) error

	// Draw issues a non-indexed draw of vertexCount vertices.
	Draw(vertexCount uint32) error

	// DrawIndexed issues an indexed draw of indexCount indices.
	DrawIndexed(indexCount uint32) error

	// EndFrame closes the render pass and submits it.
	EndFrame()

	// Present displays the submitted frame.
	Present()

	// Release frees the pipelines and the GPU device.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer for the given window. Unless WithPipelines supplies custom pipelines,
// the attachment strip and list pipelines are built from the embedded shader and registered.
// Panics if no adapter or device is available, or if the default pipelines fail to compile.
//
// Parameters:
//   - backendType: the type of rendering backend to use
//   - window: the window whose surface is drawn to
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the configured Renderer
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) Renderer {
	r := newRenderer(backendType, options...)

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(window.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	}

	r.applyPending()
	r.backend.ConfigureSurface(window.Width(), window.Height())

	pipelines := r.pendingPipelines
	if len(pipelines) == 0 {
		pipelines = DefaultPipelines()
	}
	if err := r.RegisterPipelines(pipelines...); err != nil {
		panic(fmt.Errorf("failed to register attachment pipelines: %w", err))
	}
	return r
}

func newRenderer(backendType RendererBackendType, options ...RendererBuilderOption) *renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		byTopology:    make(map[pipelineRoute]pipeline.Pipeline),
		backendType:   backendType,
	}
	// Options first so config flags are available before the backend requests an adapter.
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *renderer) applyPending() {
	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	if r.pendingClearColor != nil {
		r.backend.SetClearColor(*r.pendingClearColor)
	}
}

// DefaultPipelines builds the triangle-strip and triangle-list attachment pipelines over the embedded shader,
// once with straight alpha blending and once for premultiplied pages.
//
// Returns:
//   - []pipeline.Pipeline: the strip and list pipelines for both blend equations
func DefaultPipelines() []pipeline.Pipeline {
	vs, fs := shader.NewSpineShaders()
	build := func(key string, t Topology, blend wgpu.BlendState) pipeline.Pipeline {
		return pipeline.NewPipeline(key,
			pipeline.WithShaders(vs, fs),
			pipeline.WithTopology(t.wgpuTopology()),
			pipeline.WithBlendState(blend),
		)
	}
	return []pipeline.Pipeline{
		build(StripPipelineKey, TopologyTriangleStrip, pipeline.AlphaBlend),
		build(ListPipelineKey, TopologyTriangleList, pipeline.AlphaBlend),
		build(PremultipliedStripPipelineKey, TopologyTriangleStrip, pipeline.PremultipliedAlphaBlend),
		build(PremultipliedListPipelineKey, TopologyTriangleList, pipeline.PremultipliedAlphaBlend),
	}
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) SetClearColor(c common.Color) {
	r.backend.SetClearColor(c)
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.Key()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("pipeline %q: %w", key, err)
		}
		r.pipelineCache[key] = p
		premultiplied := p.BlendState() != nil && *p.BlendState() == pipeline.PremultipliedAlphaBlend
		for _, t := range []Topology{TopologyTriangleStrip, TopologyTriangleList} {
			route := pipelineRoute{topology: t, premultiplied: premultiplied}
			if _, taken := r.byTopology[route]; !taken && p.Topology() == t.wgpuTopology() {
				r.byTopology[route] = p
			}
		}
	}
	return nil
}

func (r *renderer) CreateBuffer(label string, usage BufferUsage, size uint64) (Buffer, error) {
	return r.backend.CreateBuffer(label, usage, size)
}

func (r *renderer) MapBuffer(buf Buffer) ([]byte, error) {
	return r.backend.MapBuffer(buf)
}

func (r *renderer) UnmapBuffer(buf Buffer) {
	r.backend.UnmapBuffer(buf)
}

func (r *renderer) CreateTexture(key string, data common.TextureStagingData) (Texture, error) {
	return r.backend.CreateTexture(key, data)
}

func (r *renderer) CreateUniform(label string) (Uniform, error) {
	return r.backend.CreateUniform(label)
}

func (r *renderer) WriteUniform(u Uniform, data SceneUniform) {
	r.backend.WriteUniform(u, data)
}

func (r *renderer) BeginFrame() error {
	r.mu.Lock()
	r.topologySet = false
	r.mu.Unlock()
	return r.backend.BeginFrame()
}

func (r *renderer) SetTopology(t Topology) error {
	r.mu.Lock()
	p, err := r.routeLocked(t, r.premultiplied)
	if err == nil {
		r.topology, r.topologySet = t, true
	}
	r.mu.Unlock()

	if err != nil {
		return err
	}
	return r.backend.BindPipeline(p)
}

// routeLocked finds the pipeline for a topology and blend equation. Premultiplied draws fall back to the
// straight pipeline when no premultiplied one is registered. Callers hold r.mu.
func (r *renderer) routeLocked(t Topology, premultiplied bool) (pipeline.Pipeline, error) {
	if p, ok := r.byTopology[pipelineRoute{topology: t, premultiplied: premultiplied}]; ok {
		return p, nil
	}
	if premultiplied {
		if p, ok := r.byTopology[pipelineRoute{topology: t}]; ok {
			return p, nil
		}
	}
	return nil, fmt.Errorf("topology %s: %w", t, ErrPipelineNotFound)
}

func (r *renderer) BindUniform(u Uniform) error {
	return r.backend.BindUniform(u)
}

func (r *renderer) BindTexture(t Texture) error {
	premultiplied := r.premultipliedAlpha || (t != nil && t.PremultipliedAlpha())

	var rebind pipeline.Pipeline
	r.mu.Lock()
	if premultiplied != r.premultiplied {
		r.premultiplied = premultiplied
		if r.topologySet {
			rebind, _ = r.routeLocked(r.topology, premultiplied)
		}
	}
	r.mu.Unlock()

	if rebind != nil {
		if err := r.backend.BindPipeline(rebind); err != nil {
			return err
		}
	}
	return r.backend.BindTexture(t)
}

func (r *renderer) SetVertexBuffers(position, tint, uv Buffer) error {
	return r.backend.SetVertexBuffers(position, tint, uv)
}

func (r *renderer) SetIndexBuffer(index Buffer) error {
	return r.backend.SetIndexBuffer(index)
}

func (r *renderer) Draw(vertexCount uint32) error {
	return r.backend.Draw(vertexCount)
}

func (r *renderer) DrawIndexed(indexCount uint32) error {
	return r.backend.DrawIndexed(indexCount)
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, p := range r.pipelineCache {
		if rp := p.RenderPipeline(); rp != nil {
			rp.Release()
		}
		delete(r.pipelineCache, key)
	}
	clear(r.byTopology)
	r.backend.Release()
}
