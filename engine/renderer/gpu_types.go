package renderer

import (
	"errors"

	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrBufferMapped is returned by MapBuffer when the buffer is already mapped.
	ErrBufferMapped = errors.New("renderer: buffer is already mapped")

	// ErrBufferReleased is returned when a released buffer is mapped or bound.
	ErrBufferReleased = errors.New("renderer: buffer has been released")

	// ErrPipelineNotFound is returned when no registered pipeline matches a requested topology or key.
	ErrPipelineNotFound = errors.New("renderer: pipeline not found")

	// ErrNoFrame is returned by draw commands issued outside BeginFrame/EndFrame.
	ErrNoFrame = errors.New("renderer: no frame in progress")
)

// BufferUsage identifies what a GPU buffer is bound as during drawing.
type BufferUsage int

const (
	// BufferUsageVertex marks a buffer bound through SetVertexBuffers.
	BufferUsageVertex BufferUsage = iota

	// BufferUsageIndex marks a buffer of uint16 indices bound through SetIndexBuffer.
	BufferUsageIndex
)

func (u BufferUsage) String() string {
	switch u {
	case BufferUsageVertex:
		return "vertex"
	case BufferUsageIndex:
		return "index"
	default:
		return "unknown"
	}
}

func (u BufferUsage) wgpuUsage() wgpu.BufferUsage {
	if u == BufferUsageIndex {
		return wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst
	}
	return wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst
}

// Topology is the primitive topology an attachment is drawn with.
type Topology int

const (
	// TopologyTriangleStrip draws consecutive vertex triples as a strip. Used by region quads.
	TopologyTriangleStrip Topology = iota

	// TopologyTriangleList draws indexed triangles. Used by meshes.
	TopologyTriangleList
)

func (t Topology) String() string {
	switch t {
	case TopologyTriangleStrip:
		return "triangle-strip"
	case TopologyTriangleList:
		return "triangle-list"
	default:
		return "unknown"
	}
}

func (t Topology) wgpuTopology() wgpu.PrimitiveTopology {
	if t == TopologyTriangleStrip {
		return wgpu.PrimitiveTopologyTriangleStrip
	}
	return wgpu.PrimitiveTopologyTriangleList
}

// Buffer is a GPU buffer with CPU-side write access through Renderer.MapBuffer.
type Buffer interface {
	// Label returns the debug label the buffer was created with.
	Label() string

	// Size returns the requested size in bytes. The GPU allocation may be padded.
	Size() uint64

	// Usage returns how the buffer is bound.
	Usage() BufferUsage

	// Release frees the GPU allocation. Releasing twice is a no-op.
	Release()
}

// Texture is an uploaded atlas page ready to be bound for drawing.
type Texture interface {
	// Key returns the name the texture was created under.
	Key() string

	// Width returns the texture width in pixels.
	Width() uint32

	// Height returns the texture height in pixels.
	Height() uint32

	// PremultipliedAlpha reports whether the texel colors are premultiplied by alpha.
	PremultipliedAlpha() bool

	// Release frees the GPU texture and its bind group. Releasing twice is a no-op.
	Release()
}

// Uniform holds one view-projection matrix bound at group 0.
type Uniform interface {
	// Label returns the debug label the uniform was created with.
	Label() string

	// Release frees the GPU buffer and bind group. Releasing twice is a no-op.
	Release()
}

// SceneUniform is the layout of the group 0 uniform buffer.
type SceneUniform struct {
	MVP [16]float32
}
