package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-spine/common"
	"github.com/Carmen-Shannon/oxy-spine/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-spine/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

const sceneUniformSize = 64

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat        *wgpu.TextureFormat
	msaaTexture          *wgpu.Texture
	msaaTextureView      *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor
	clearColor           wgpu.Color

	presentMode wgpu.PresentMode
	sampleCount MSAASampleCount

	// Layouts shared by every attachment pipeline: group 0 scene uniform, group 1 page texture + sampler.
	uniformLayout  *wgpu.BindGroupLayout
	textureLayout  *wgpu.BindGroupLayout
	pipelineLayout *wgpu.PipelineLayout
	samplers       map[common.SamplerStagingData]*wgpu.Sampler

	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
	boundPipe    *wgpu.RenderPipeline
}

type wgpuRendererBackend interface {
	// ConfigureSurface (re)configures the swapchain and the MSAA color target for a new surface size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets the surface present mode. Takes effect on the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the color the frame is cleared to.
	//
	// Parameters:
	//   - c: the clear color
	SetClearColor(c common.Color)

	// RegisterRenderPipeline compiles the pipeline's shaders against the shared attachment layout
	// and stores the result on the pipeline.
	//
	// Parameters:
	//   - p: the pipeline description
	//
	// Returns:
	//   - error: an error if a shader module or the pipeline could not be created
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// CreateBuffer allocates a GPU buffer with a CPU staging copy.
	//
	// Parameters:
	//   - label: debug label
	//   - usage: vertex or index
	//   - size: requested size in bytes
	//
	// Returns:
	//   - Buffer: the buffer
	//   - error: an error if the GPU allocation failed
	CreateBuffer(label string, usage BufferUsage, size uint64) (Buffer, error)

	// MapBuffer exposes the buffer's writable bytes until UnmapBuffer.
	//
	// Parameters:
	//   - buf: a buffer created by CreateBuffer
	//
	// Returns:
	//   - []byte: exactly Size() writable bytes
	//   - error: ErrBufferMapped or ErrBufferReleased
	MapBuffer(buf Buffer) ([]byte, error)

	// UnmapBuffer uploads the mapped bytes to the GPU.
	//
	// Parameters:
	//   - buf: a buffer previously mapped with MapBuffer
	UnmapBuffer(buf Buffer)

	// CreateTexture uploads RGBA8 pixels and builds the group 1 bind group for them.
	//
	// Parameters:
	//   - key: the texture name
	//   - data: the staged pixels and size
	//
	// Returns:
	//   - Texture: the uploaded texture
	//   - error: an error if the texture or bind group could not be created
	CreateTexture(key string, data common.TextureStagingData) (Texture, error)

	// CreateUniform allocates a group 0 uniform buffer and bind group.
	//
	// Parameters:
	//   - label: debug label
	//
	// Returns:
	//   - Uniform: the uniform
	//   - error: an error if the buffer or bind group could not be created
	CreateUniform(label string) (Uniform, error)

	// WriteUniform uploads a new scene uniform.
	//
	// Parameters:
	//   - u: a uniform created by CreateUniform
	//   - data: the values to write
	WriteUniform(u Uniform, data SceneUniform)

	// BeginFrame acquires the next swapchain texture and begins the main render pass.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// BindPipeline sets the render pipeline for subsequent draws.
	//
	// Parameters:
	//   - p: a registered pipeline
	//
	// Returns:
	//   - error: ErrNoFrame outside a frame
	BindPipeline(p pipeline.Pipeline) error

	// BindUniform sets group 0.
	BindUniform(u Uniform) error

	// BindTexture sets group 1.
	BindTexture(t Texture) error

	// SetVertexBuffers binds the position, tint and UV streams.
	SetVertexBuffers(position, tint, uv Buffer) error

	// SetIndexBuffer binds a uint16 index buffer.
	SetIndexBuffer(index Buffer) error

	// Draw issues a non-indexed draw.
	Draw(vertexCount uint32) error

	// DrawIndexed issues an indexed draw.
	DrawIndexed(indexCount uint32) error

	// EndFrame ends the render pass and submits the command buffer. Call Present afterwards.
	EndFrame()

	// Present presents the surface and releases the swapchain texture.
	Present()

	// Release frees every GPU object owned by the backend.
	Release()
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount) wgpuRendererBackend {
	runtime.LockOSThread()
	w := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		sampleCount: sampleCount,
		clearColor:  wgpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1.0},
		samplers:    make(map[common.SamplerStagingData]*wgpu.Sampler),
	}
	w.surface = w.instance.CreateSurface(surfaceDescriptor)

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    w.surface,
	})
	if err != nil {
		panic(err)
	}
	w.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		panic(err)
	}
	w.device = d
	w.queue = d.GetQueue()

	if err := w.initSharedLayouts(); err != nil {
		panic(err)
	}
	return w
}

// initSharedLayouts creates the bind group layouts and pipeline layout every attachment draw uses.
func (b *wgpuRendererBackendImpl) initSharedLayouts() error {
	var err error
	b.uniformLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Scene Uniform Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: sceneUniformSize,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create scene uniform layout: %w", err)
	}

	b.textureLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Page Texture Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create page texture layout: %w", err)
	}

	b.pipelineLayout, err = b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Attachment Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{b.uniformLayout, b.textureLayout},
	})
	if err != nil {
		return fmt.Errorf("failed to create attachment pipeline layout: %w", err)
	}

	return nil
}

// samplerFor returns the cached sampler for the given settings, creating it on first use. Callers hold b.mu.
func (b *wgpuRendererBackendImpl) samplerFor(data common.SamplerStagingData) (*wgpu.Sampler, error) {
	if s, ok := b.samplers[data]; ok {
		return s, nil
	}
	s, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Page Sampler",
		AddressModeU:  data.AddressModeU,
		AddressModeV:  data.AddressModeV,
		AddressModeW:  data.AddressModeW,
		MagFilter:     data.MagFilter,
		MinFilter:     data.MinFilter,
		MipmapFilter:  data.MipmapFilter,
		LodMinClamp:   data.LodMinClamp,
		LodMaxClamp:   data.LodMaxClamp,
		MaxAnisotropy: common.Coalesce(data.MaxAnisotropy, 1),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create page sampler: %w", err)
	}
	b.samplers[data] = s
	return s, nil
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if width <= 0 || height <= 0 {
		return
	}

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = &capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTexture.Release()
		b.msaaTextureView = nil
		b.msaaTexture = nil
	}

	msaaEnabled := b.sampleCount > 1
	if msaaEnabled {
		tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "MSAA Texture",
			Size: wgpu.Extent3D{
				Width:              uint32(width),
				Height:             uint32(height),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   uint32(b.sampleCount),
			Dimension:     wgpu.TextureDimension2D,
			Format:        *b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			panic(err)
		}
		view, err := tex.CreateView(nil)
		if err != nil {
			panic(err)
		}
		b.msaaTexture = tex
		b.msaaTextureView = view
	}

	// Attachments are painted in draw order, so there is no depth attachment.
	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard
	}
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       b.msaaTextureView,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    storeOp,
				ClearValue: b.clearColor,
			},
		},
	}
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.presentMode = mode.wgpuPresentMode()
}

func (b *wgpuRendererBackendImpl) SetClearColor(c common.Color) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.clearColor = wgpu.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B), A: float64(c.A)}
	if b.renderPassDescriptor != nil {
		b.renderPassDescriptor.ColorAttachments[0].ClearValue = b.clearColor
	}
}

func (b *wgpuRendererBackendImpl) RegisterRenderPipeline(p pipeline.Pipeline) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	vertexShader := p.Shader(shader.ShaderTypeVertex)
	fragmentShader := p.Shader(shader.ShaderTypeFragment)
	if vertexShader == nil || fragmentShader == nil {
		return errors.New("both vertex and fragment shaders must be set to create a render pipeline")
	}
	if b.surfaceFormat == nil {
		return errors.New("surface must be configured before registering a render pipeline")
	}

	vs, err := b.device.CreateShaderModule(vertexShader.Module())
	if err != nil {
		return fmt.Errorf("failed to create vertex module %q: %w", vertexShader.Key(), err)
	}
	defer vs.Release()
	fs, err := b.device.CreateShaderModule(fragmentShader.Module())
	if err != nil {
		return fmt.Errorf("failed to create fragment module %q: %w", fragmentShader.Key(), err)
	}
	defer fs.Release()

	target := wgpu.ColorTargetState{
		Format:    *b.surfaceFormat,
		WriteMask: p.WriteMask(),
	}
	if p.BlendEnabled() {
		target.Blend = p.BlendState()
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.Key() + " Render Pipeline",
		Layout: b.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: vertexShader.EntryPoint(),
			Buffers:    vertexShader.VertexLayouts(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: fragmentShader.EntryPoint(),
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: p.FrontFace(),
			CullMode:  p.CullMode(),
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return err
	}

	p.SetRenderPipeline(created)
	return nil
}

func (b *wgpuRendererBackendImpl) CreateBuffer(label string, usage BufferUsage, size uint64) (Buffer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if size == 0 {
		return nil, fmt.Errorf("buffer %q: size must be greater than zero", label)
	}
	gpu, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  alignedSize(size),
		Usage: usage.wgpuUsage(),
	})
	if err != nil {
		return nil, fmt.Errorf("buffer %q: %w", label, err)
	}
	return newWGPUBuffer(label, usage, size, gpu), nil
}

func (b *wgpuRendererBackendImpl) MapBuffer(buf Buffer) ([]byte, error) {
	wb, ok := buf.(*wgpuBuffer)
	if !ok {
		return nil, fmt.Errorf("buffer %q was not created by this backend", buf.Label())
	}
	return wb.mapRange()
}

func (b *wgpuRendererBackendImpl) UnmapBuffer(buf Buffer) {
	wb, ok := buf.(*wgpuBuffer)
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	wb.unmap(func(gpu *wgpu.Buffer, data []byte) {
		b.queue.WriteBuffer(gpu, 0, data)
	})
}

func (b *wgpuRendererBackendImpl) CreateTexture(key string, data common.TextureStagingData) (Texture, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if data.Width == 0 || data.Height == 0 || len(data.Pixels) < int(data.Width*data.Height*4) {
		return nil, fmt.Errorf("texture %q: invalid staging data %dx%d with %d bytes", key, data.Width, data.Height, len(data.Pixels))
	}

	size := wgpu.Extent3D{
		Width:              data.Width,
		Height:             data.Height,
		DepthOrArrayLayers: 1,
	}
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         key,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		Size:          size,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, err
	}

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		data.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  data.Width * 4,
			RowsPerImage: data.Height,
		},
		&size,
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, err
	}
	sampler, err := b.samplerFor(data.Sampler)
	if err != nil {
		view.Release()
		tex.Release()
		return nil, err
	}

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  key + " Bind Group",
		Layout: b.textureLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: view},
			{Binding: 1, Sampler: sampler},
		},
	})
	if err != nil {
		view.Release()
		tex.Release()
		return nil, err
	}

	return &wgpuTexture{
		key:           key,
		width:         data.Width,
		height:        data.Height,
		premultiplied: data.PremultipliedAlpha,
		texture:       tex,
		view:          view,
		bindGroup:     bindGroup,
	}, nil
}

func (b *wgpuRendererBackendImpl) CreateUniform(label string) (Uniform, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  sceneUniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  label + " Bind Group",
		Layout: b.uniformLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: buf, Offset: 0, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		buf.Release()
		return nil, err
	}
	u := &wgpuUniform{label: label, buffer: buf, bindGroup: bindGroup}
	identity := make([]float32, 16)
	common.Identity(identity)
	b.queue.WriteBuffer(buf, 0, common.SliceToBytes(identity))
	return u, nil
}

func (b *wgpuRendererBackendImpl) WriteUniform(u Uniform, data SceneUniform) {
	wu, ok := u.(*wgpuUniform)
	if !ok || wu.released {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queue.WriteBuffer(wu.buffer, 0, common.SliceToBytes(data.MVP[:]))
}

func (b *wgpuRendererBackendImpl) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface != nil {
		return fmt.Errorf("previous frame surface not yet presented")
	}
	if b.renderPassDescriptor == nil {
		return fmt.Errorf("surface is not configured")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	// With MSAA the swapchain view is the resolve target, otherwise it is drawn to directly.
	if b.sampleCount > 1 {
		b.renderPassDescriptor.ColorAttachments[0].ResolveTarget = view
	} else {
		b.renderPassDescriptor.ColorAttachments[0].View = view
	}
	pass := encoder.BeginRenderPass(b.renderPassDescriptor)

	b.frameEncoder = encoder
	b.framePass = pass
	b.frameSurface = surfaceTexture
	b.frameView = view
	b.boundPipe = nil

	return nil
}

func (b *wgpuRendererBackendImpl) BindPipeline(p pipeline.Pipeline) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return ErrNoFrame
	}
	rp := p.RenderPipeline()
	if rp == nil {
		return fmt.Errorf("pipeline %q: %w", p.Key(), ErrPipelineNotFound)
	}
	if rp != b.boundPipe {
		b.framePass.SetPipeline(rp)
		b.boundPipe = rp
	}
	return nil
}

func (b *wgpuRendererBackendImpl) BindUniform(u Uniform) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return ErrNoFrame
	}
	wu, ok := u.(*wgpuUniform)
	if !ok || wu.released {
		return fmt.Errorf("uniform %q is not bindable", u.Label())
	}
	b.framePass.SetBindGroup(0, wu.bindGroup, nil)
	return nil
}

func (b *wgpuRendererBackendImpl) BindTexture(t Texture) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return ErrNoFrame
	}
	wt, ok := t.(*wgpuTexture)
	if !ok || wt.released {
		return fmt.Errorf("texture %q is not bindable", t.Key())
	}
	b.framePass.SetBindGroup(1, wt.bindGroup, nil)
	return nil
}

func (b *wgpuRendererBackendImpl) SetVertexBuffers(position, tint, uv Buffer) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return ErrNoFrame
	}
	streams := [...]Buffer{
		shader.PositionBufferSlot: position,
		shader.TintBufferSlot:     tint,
		shader.UVBufferSlot:       uv,
	}
	for slot, buf := range streams {
		gpu, err := gpuHandle(buf)
		if err != nil {
			return err
		}
		b.framePass.SetVertexBuffer(uint32(slot), gpu, 0, wgpu.WholeSize)
	}
	return nil
}

func (b *wgpuRendererBackendImpl) SetIndexBuffer(index Buffer) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return ErrNoFrame
	}
	gpu, err := gpuHandle(index)
	if err != nil {
		return err
	}
	b.framePass.SetIndexBuffer(gpu, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
	return nil
}

func (b *wgpuRendererBackendImpl) Draw(vertexCount uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return ErrNoFrame
	}
	b.framePass.Draw(vertexCount, 1, 0, 0)
	return nil
}

func (b *wgpuRendererBackendImpl) DrawIndexed(indexCount uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return ErrNoFrame
	}
	b.framePass.DrawIndexed(indexCount, 1, 0, 0, 0)
	return nil
}

func (b *wgpuRendererBackendImpl) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return
	}
	b.framePass.End()
	b.framePass = nil

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err != nil {
		b.frameEncoder.Release()
		b.frameView.Release()
		b.frameSurface.Release()
		b.frameEncoder = nil
		b.frameSurface = nil
		b.frameView = nil
		return
	}

	b.queue.Submit(commandBuffer)

	commandBuffer.Release()
	b.frameEncoder.Release()
	b.frameEncoder = nil
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return
	}

	b.surface.Present()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	b.frameSurface.Release()
	b.frameSurface = nil
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTexture.Release()
	}
	for key, s := range b.samplers {
		s.Release()
		delete(b.samplers, key)
	}
	if b.pipelineLayout != nil {
		b.pipelineLayout.Release()
	}
	if b.textureLayout != nil {
		b.textureLayout.Release()
	}
	if b.uniformLayout != nil {
		b.uniformLayout.Release()
	}
	b.queue.Release()
	b.device.Release()
	b.adapter.Release()
	b.surface.Release()
	b.instance.Release()
}

func gpuHandle(buf Buffer) (*wgpu.Buffer, error) {
	wb, ok := buf.(*wgpuBuffer)
	if !ok {
		return nil, fmt.Errorf("buffer was not created by this backend")
	}
	gpu := wb.handle()
	if gpu == nil {
		return nil, fmt.Errorf("buffer %q: %w", wb.Label(), ErrBufferReleased)
	}
	return gpu, nil
}
