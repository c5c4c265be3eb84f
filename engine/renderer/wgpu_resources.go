package renderer

import (
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// wgpuBuffer keeps a CPU staging copy of the GPU buffer. Mapping hands out the staging bytes and
// unmapping uploads them through the queue, since WebGPU has no write-discard map for vertex buffers.
type wgpuBuffer struct {
	mu       sync.Mutex
	label    string
	size     uint64
	usage    BufferUsage
	gpu      *wgpu.Buffer
	staging  []byte
	mapped   bool
	released bool
}

var _ Buffer = &wgpuBuffer{}

// alignedSize rounds size up to the 4 byte multiple required by queue writes.
func alignedSize(size uint64) uint64 {
	return (size + 3) &^ 3
}

func newWGPUBuffer(label string, usage BufferUsage, size uint64, gpu *wgpu.Buffer) *wgpuBuffer {
	return &wgpuBuffer{
		label:   label,
		size:    size,
		usage:   usage,
		gpu:     gpu,
		staging: make([]byte, alignedSize(size)),
	}
}

func (b *wgpuBuffer) Label() string {
	return b.label
}

func (b *wgpuBuffer) Size() uint64 {
	return b.size
}

func (b *wgpuBuffer) Usage() BufferUsage {
	return b.usage
}

// mapRange returns the writable staging bytes for the requested size.
func (b *wgpuBuffer) mapRange() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.released {
		return nil, ErrBufferReleased
	}
	if b.mapped {
		return nil, ErrBufferMapped
	}
	b.mapped = true
	return b.staging[:b.size], nil
}

// unmap ends the mapping and passes the padded staging bytes to upload.
func (b *wgpuBuffer) unmap(upload func(gpu *wgpu.Buffer, data []byte)) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.mapped || b.released {
		return
	}
	b.mapped = false
	upload(b.gpu, b.staging)
}

// handle returns the GPU buffer, nil once released.
func (b *wgpuBuffer) handle() *wgpu.Buffer {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return nil
	}
	return b.gpu
}

func (b *wgpuBuffer) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.released {
		return
	}
	b.released = true
	b.mapped = false
	b.staging = nil
	if b.gpu != nil {
		b.gpu.Release()
		b.gpu = nil
	}
}

type wgpuTexture struct {
	key           string
	width         uint32
	height        uint32
	premultiplied bool
	texture       *wgpu.Texture
	view          *wgpu.TextureView
	bindGroup     *wgpu.BindGroup
	released      bool
}

var _ Texture = &wgpuTexture{}

func (t *wgpuTexture) Key() string {
	return t.key
}

func (t *wgpuTexture) Width() uint32 {
	return t.width
}

func (t *wgpuTexture) Height() uint32 {
	return t.height
}

func (t *wgpuTexture) PremultipliedAlpha() bool {
	return t.premultiplied
}

func (t *wgpuTexture) Release() {
	if t.released {
		return
	}
	t.released = true
	if t.bindGroup != nil {
		t.bindGroup.Release()
	}
	if t.view != nil {
		t.view.Release()
	}
	if t.texture != nil {
		t.texture.Release()
	}
}

type wgpuUniform struct {
	label     string
	buffer    *wgpu.Buffer
	bindGroup *wgpu.BindGroup
	released  bool
}

var _ Uniform = &wgpuUniform{}

func (u *wgpuUniform) Label() string {
	return u.label
}

func (u *wgpuUniform) Release() {
	if u.released {
		return
	}
	u.released = true
	if u.bindGroup != nil {
		u.bindGroup.Release()
	}
	if u.buffer != nil {
		u.buffer.Release()
	}
}
