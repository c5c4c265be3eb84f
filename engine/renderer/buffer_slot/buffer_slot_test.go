package buffer_slot

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-spine/engine/animation"
	"github.com/Carmen-Shannon/oxy-spine/engine/renderer"
)

type fakeBuffer struct {
	label    string
	usage    renderer.BufferUsage
	size     uint64
	released int
}

func (b *fakeBuffer) Label() string               { return b.label }
func (b *fakeBuffer) Size() uint64                { return b.size }
func (b *fakeBuffer) Usage() renderer.BufferUsage { return b.usage }
func (b *fakeBuffer) Release()                    { b.released++ }

type fakeAllocator struct {
	created []*fakeBuffer
	failAt  int
}

func (a *fakeAllocator) CreateBuffer(label string, usage renderer.BufferUsage, size uint64) (renderer.Buffer, error) {
	if a.failAt > 0 && len(a.created)+1 == a.failAt {
		return nil, errors.New("out of memory")
	}
	b := &fakeBuffer{label: label, usage: usage, size: size}
	a.created = append(a.created, b)
	return b, nil
}

func TestNewBufferSlotSizes(t *testing.T) {
	tests := []struct {
		name         string
		kind         animation.ShapeKind
		vertices     int
		indices      int
		wantBuffers  int
		wantTopology renderer.Topology
	}{
		{"region", animation.ShapeKindRegion, 4, 0, 3, renderer.TopologyTriangleStrip},
		{"mesh", animation.ShapeKindMesh, 6, 12, 4, renderer.TopologyTriangleList},
		{"mesh without triangles", animation.ShapeKindMesh, 3, 0, 3, renderer.TopologyTriangleStrip},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alloc := &fakeAllocator{}
			s, err := NewBufferSlot(alloc, 2, tt.kind, tt.vertices, tt.indices)
			if err != nil {
				t.Fatalf("NewBufferSlot: %v", err)
			}
			if len(alloc.created) != tt.wantBuffers {
				t.Fatalf("created %d buffers, want %d", len(alloc.created), tt.wantBuffers)
			}
			if s.Topology() != tt.wantTopology {
				t.Errorf("Topology() = %v, want %v", s.Topology(), tt.wantTopology)
			}
			v := uint64(tt.vertices)
			if s.PositionBuffer().Size() != v*PositionStride || s.UVBuffer().Size() != v*UVStride || s.TintBuffer().Size() != v*TintStride {
				t.Errorf("vertex buffer sizes %d/%d/%d for %d vertices",
					s.PositionBuffer().Size(), s.UVBuffer().Size(), s.TintBuffer().Size(), tt.vertices)
			}
			if tt.indices > 0 {
				if s.IndexBuffer() == nil || s.IndexBuffer().Size() != uint64(tt.indices)*IndexStride {
					t.Errorf("index buffer = %v, want %d bytes", s.IndexBuffer(), tt.indices*IndexStride)
				}
				if s.IndexBuffer().Usage() != renderer.BufferUsageIndex {
					t.Errorf("index buffer usage = %v", s.IndexBuffer().Usage())
				}
			} else if s.IndexBuffer() != nil {
				t.Errorf("unexpected index buffer")
			}
			if !s.Matches(tt.kind, tt.vertices, tt.indices) {
				t.Errorf("slot does not match its own sizing")
			}
			if s.DrawOrder() != 2 || s.Label() != "slot 2" {
				t.Errorf("DrawOrder() = %d, Label() = %q", s.DrawOrder(), s.Label())
			}
		})
	}
}

func TestMatchesRejectsDifferentSizing(t *testing.T) {
	s, err := NewBufferSlot(&fakeAllocator{}, 0, animation.ShapeKindMesh, 6, 12)
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		kind      animation.ShapeKind
		vtx, idx  int
		wantMatch bool
	}{
		{animation.ShapeKindMesh, 6, 12, true},
		{animation.ShapeKindRegion, 6, 12, false},
		{animation.ShapeKindMesh, 7, 12, false},
		{animation.ShapeKindMesh, 6, 9, false},
	}
	for _, c := range cases {
		if got := s.Matches(c.kind, c.vtx, c.idx); got != c.wantMatch {
			t.Errorf("Matches(%v, %d, %d) = %v, want %v", c.kind, c.vtx, c.idx, got, c.wantMatch)
		}
	}
	s.Release()
	if s.Matches(animation.ShapeKindMesh, 6, 12) {
		t.Errorf("released slot should never match")
	}
}

func TestNewBufferSlotRejectsEmpty(t *testing.T) {
	alloc := &fakeAllocator{}
	if _, err := NewBufferSlot(alloc, 0, animation.ShapeKindMesh, 0, 0); !errors.Is(err, ErrEmptySlot) {
		t.Fatalf("err = %v, want ErrEmptySlot", err)
	}
	if _, err := NewBufferSlot(alloc, 0, animation.ShapeKindMesh, 4, 0); !errors.Is(err, ErrEmptySlot) {
		t.Fatalf("mesh without indices: err = %v, want ErrEmptySlot", err)
	}
	if len(alloc.created) != 0 {
		t.Fatalf("allocated %d buffers for an empty slot", len(alloc.created))
	}
}

func TestNewBufferSlotReleasesPartialBuffersOnFailure(t *testing.T) {
	alloc := &fakeAllocator{failAt: 4}
	s, err := NewBufferSlot(alloc, 1, animation.ShapeKindMesh, 6, 12)
	if err == nil || s != nil {
		t.Fatalf("expected failure, got slot %v err %v", s, err)
	}
	if len(alloc.created) != 3 {
		t.Fatalf("created %d buffers before failing, want 3", len(alloc.created))
	}
	for _, b := range alloc.created {
		if b.released != 1 {
			t.Errorf("buffer %q released %d times, want 1", b.label, b.released)
		}
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	alloc := &fakeAllocator{}
	s, err := NewBufferSlot(alloc, 0, animation.ShapeKindRegion, 4, 0, WithLabel("head"))
	if err != nil {
		t.Fatal(err)
	}
	if alloc.created[0].label != "head position" {
		t.Errorf("label = %q", alloc.created[0].label)
	}
	s.Release()
	s.Release()
	if !s.Released() {
		t.Fatalf("Released() = false")
	}
	for _, b := range alloc.created {
		if b.released != 1 {
			t.Errorf("buffer %q released %d times, want 1", b.label, b.released)
		}
	}
}
