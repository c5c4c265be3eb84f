// Package buffer_slot holds the GPU buffers of one drawn attachment.
package buffer_slot

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-spine/engine/animation"
	"github.com/Carmen-Shannon/oxy-spine/engine/renderer"
)

// Bytes per element of each stream.
const (
	PositionStride = 8
	UVStride       = 8
	TintStride     = 4
	IndexStride    = 2
)

// ErrEmptySlot is returned when a slot is requested for zero vertices, or for a mesh with no indices.
var ErrEmptySlot = errors.New("buffer_slot: slot has nothing to draw")

// BufferAllocator creates GPU buffers. renderer.Renderer satisfies it.
type BufferAllocator interface {
	CreateBuffer(label string, usage renderer.BufferUsage, size uint64) (renderer.Buffer, error)
}

// bufferSlot is the implementation of the BufferSlot interface.
type bufferSlot struct {
	label       string
	drawOrder   int
	kind        animation.ShapeKind
	vertexCount int
	indexCount  int
	topology    renderer.Topology

	position renderer.Buffer
	tint     renderer.Buffer
	uv       renderer.Buffer
	index    renderer.Buffer

	released bool
}

// BufferSlot owns the position, tint and UV vertex buffers and the optional index buffer of the
// attachment at one draw-order index. Buffer sizes always match the counts the slot was created with:
// a slot is never resized, it is replaced.
type BufferSlot interface {
	// Label returns the debug label prefix used for the slot's buffers.
	//
	// Returns:
	//   - string: the label
	Label() string

	// DrawOrder returns the draw-order index the slot was created for.
	//
	// Returns:
	//   - int: the draw-order index
	DrawOrder() int

	// Kind returns the shape kind the slot was sized for.
	//
	// Returns:
	//   - animation.ShapeKind: the shape kind
	Kind() animation.ShapeKind

	// VertexCount returns the number of vertices each vertex buffer holds.
	//
	// Returns:
	//   - int: the vertex count
	VertexCount() int

	// IndexCount returns the number of uint16 indices the index buffer holds, 0 if there is none.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// Topology returns TopologyTriangleList when the slot has an index buffer, TopologyTriangleStrip otherwise.
	//
	// Returns:
	//   - renderer.Topology: the draw topology
	Topology() renderer.Topology

	// Matches reports whether the slot already has the sizing an attachment needs.
	//
	// Parameters:
	//   - kind: the attachment's shape kind
	//   - vertexCount: the attachment's vertex count
	//   - indexCount: the attachment's index count
	//
	// Returns:
	//   - bool: true if the slot can be reused as is
	Matches(kind animation.ShapeKind, vertexCount, indexCount int) bool

	// PositionBuffer returns the float32x2 position stream.
	PositionBuffer() renderer.Buffer

	// TintBuffer returns the packed RGBA tint stream.
	TintBuffer() renderer.Buffer

	// UVBuffer returns the float32x2 texture coordinate stream.
	UVBuffer() renderer.Buffer

	// IndexBuffer returns the uint16 index buffer, nil for strip slots.
	IndexBuffer() renderer.Buffer

	// Release releases every buffer of the slot. Releasing twice is a no-op.
	Release()

	// Released reports whether Release has been called.
	Released() bool
}

var _ BufferSlot = &bufferSlot{}

// stream describes one buffer NewBufferSlot allocates.
type stream struct {
	name  string
	usage renderer.BufferUsage
	size  uint64
	dst   *renderer.Buffer
}

// NewBufferSlot allocates the buffers for an attachment of the given sizing. Either every buffer is
// created or none is: on failure the buffers created so far are released before returning.
//
// Parameters:
//   - alloc: the buffer allocator, normally the Renderer
//   - drawOrder: the draw-order index the slot serves
//   - kind: the attachment's shape kind
//   - vertexCount: the number of vertices, greater than zero
//   - indexCount: the number of indices, zero for strip-drawn shapes and positive for meshes
//   - options: functional options applied before allocation
//
// Returns:
//   - BufferSlot: the slot
//   - error: ErrEmptySlot, or the allocator's error wrapped with the failing buffer's label
func NewBufferSlot(alloc BufferAllocator, drawOrder int, kind animation.ShapeKind, vertexCount, indexCount int, options ...BufferSlotBuilderOption) (BufferSlot, error) {
	if indexCount < 0 {
		indexCount = 0
	}
	if vertexCount <= 0 || (kind == animation.ShapeKindMesh && indexCount == 0) {
		return nil, ErrEmptySlot
	}

	s := &bufferSlot{
		label:       fmt.Sprintf("slot %d", drawOrder),
		drawOrder:   drawOrder,
		kind:        kind,
		vertexCount: vertexCount,
		indexCount:  indexCount,
		topology:    renderer.TopologyTriangleStrip,
	}
	for _, opt := range options {
		opt(s)
	}
	if indexCount > 0 {
		s.topology = renderer.TopologyTriangleList
	}

	vc := uint64(vertexCount)
	streams := []stream{
		{"position", renderer.BufferUsageVertex, vc * PositionStride, &s.position},
		{"tint", renderer.BufferUsageVertex, vc * TintStride, &s.tint},
		{"uv", renderer.BufferUsageVertex, vc * UVStride, &s.uv},
	}
	if indexCount > 0 {
		streams = append(streams, stream{"index", renderer.BufferUsageIndex, uint64(indexCount) * IndexStride, &s.index})
	}

	for _, st := range streams {
		label := s.label + " " + st.name
		buf, err := alloc.CreateBuffer(label, st.usage, st.size)
		if err != nil {
			s.Release()
			return nil, fmt.Errorf("failed to create %s buffer: %w", label, err)
		}
		*st.dst = buf
	}
	return s, nil
}

func (s *bufferSlot) Label() string {
	return s.label
}

func (s *bufferSlot) DrawOrder() int {
	return s.drawOrder
}

func (s *bufferSlot) Kind() animation.ShapeKind {
	return s.kind
}

func (s *bufferSlot) VertexCount() int {
	return s.vertexCount
}

func (s *bufferSlot) IndexCount() int {
	return s.indexCount
}

func (s *bufferSlot) Topology() renderer.Topology {
	return s.topology
}

func (s *bufferSlot) Matches(kind animation.ShapeKind, vertexCount, indexCount int) bool {
	return !s.released && s.kind == kind && s.vertexCount == vertexCount && s.indexCount == indexCount
}

func (s *bufferSlot) PositionBuffer() renderer.Buffer {
	return s.position
}

func (s *bufferSlot) TintBuffer() renderer.Buffer {
	return s.tint
}

func (s *bufferSlot) UVBuffer() renderer.Buffer {
	return s.uv
}

func (s *bufferSlot) IndexBuffer() renderer.Buffer {
	return s.index
}

func (s *bufferSlot) Release() {
	if s.released {
		return
	}
	s.released = true
	for _, buf := range []*renderer.Buffer{&s.position, &s.tint, &s.uv, &s.index} {
		if *buf != nil {
			(*buf).Release()
			*buf = nil
		}
	}
}

func (s *bufferSlot) Released() bool {
	return s.released
}
