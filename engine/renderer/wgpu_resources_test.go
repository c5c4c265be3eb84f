package renderer

import (
	"errors"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestAlignedSize(t *testing.T) {
	tests := []struct {
		in, want uint64
	}{
		{0, 0},
		{1, 4},
		{4, 4},
		{6, 8},
		{32, 32},
		{33, 36},
	}
	for _, tt := range tests {
		if got := alignedSize(tt.in); got != tt.want {
			t.Errorf("alignedSize(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestBufferMapExposesRequestedSize(t *testing.T) {
	b := newWGPUBuffer("idx", BufferUsageIndex, 6, nil)
	if b.Size() != 6 || b.Usage() != BufferUsageIndex || b.Label() != "idx" {
		t.Fatalf("unexpected buffer metadata %q %d %v", b.Label(), b.Size(), b.Usage())
	}
	data, err := b.mapRange()
	if err != nil {
		t.Fatalf("mapRange: %v", err)
	}
	if len(data) != 6 {
		t.Fatalf("mapped %d bytes, want 6", len(data))
	}
	copy(data, []byte{1, 2, 3, 4, 5, 6})

	var uploaded []byte
	b.unmap(func(_ *wgpu.Buffer, d []byte) { uploaded = append([]byte(nil), d...) })
	if len(uploaded) != 8 {
		t.Fatalf("uploaded %d bytes, want 8 (padded)", len(uploaded))
	}
	if uploaded[5] != 6 || uploaded[6] != 0 {
		t.Fatalf("uploaded = %v", uploaded)
	}
}

func TestBufferMapTwiceFails(t *testing.T) {
	b := newWGPUBuffer("pos", BufferUsageVertex, 32, nil)
	if _, err := b.mapRange(); err != nil {
		t.Fatal(err)
	}
	if _, err := b.mapRange(); !errors.Is(err, ErrBufferMapped) {
		t.Fatalf("second map err = %v, want ErrBufferMapped", err)
	}
	b.unmap(func(*wgpu.Buffer, []byte) {})
	if _, err := b.mapRange(); err != nil {
		t.Fatalf("map after unmap: %v", err)
	}
}

func TestReleasedBufferRejectsMap(t *testing.T) {
	b := newWGPUBuffer("uv", BufferUsageVertex, 32, nil)
	b.Release()
	b.Release()
	if _, err := b.mapRange(); !errors.Is(err, ErrBufferReleased) {
		t.Fatalf("map err = %v, want ErrBufferReleased", err)
	}
	called := false
	b.unmap(func(*wgpu.Buffer, []byte) { called = true })
	if called {
		t.Fatalf("unmap uploaded a released buffer")
	}
	if b.handle() != nil {
		t.Fatalf("released buffer still exposes a handle")
	}
}

func TestTopologyMapping(t *testing.T) {
	if TopologyTriangleStrip.wgpuTopology() != wgpu.PrimitiveTopologyTriangleStrip {
		t.Errorf("strip maps to %v", TopologyTriangleStrip.wgpuTopology())
	}
	if TopologyTriangleList.wgpuTopology() != wgpu.PrimitiveTopologyTriangleList {
		t.Errorf("list maps to %v", TopologyTriangleList.wgpuTopology())
	}
	if TopologyTriangleList.String() != "triangle-list" || BufferUsageVertex.String() != "vertex" {
		t.Errorf("unexpected String() output")
	}
}
