package scene

import (
	"errors"
	"strings"

	"github.com/Carmen-Shannon/oxy-spine/common"
	"github.com/Carmen-Shannon/oxy-spine/engine/animation"
	"github.com/Carmen-Shannon/oxy-spine/engine/renderer"
)

type fakeBuffer struct {
	label    string
	usage    renderer.BufferUsage
	size     uint64
	data     []byte
	mapped   bool
	released bool
	writes   int
}

func (b *fakeBuffer) Label() string               { return b.label }
func (b *fakeBuffer) Size() uint64                { return b.size }
func (b *fakeBuffer) Usage() renderer.BufferUsage { return b.usage }
func (b *fakeBuffer) Release()                    { b.released = true }

type fakeTexture struct{ key string }

func (t *fakeTexture) Key() string              { return t.key }
func (t *fakeTexture) Width() uint32            { return 64 }
func (t *fakeTexture) Height() uint32           { return 64 }
func (t *fakeTexture) PremultipliedAlpha() bool { return false }
func (t *fakeTexture) Release()                 {}

type fakeUniform struct{ released bool }

func (u *fakeUniform) Label() string { return "mvp" }
func (u *fakeUniform) Release()      { u.released = true }

type drawCall struct {
	indexed  bool
	count    uint32
	topology renderer.Topology
	texture  string
	position *fakeBuffer
	index    *fakeBuffer
}

// fakeRenderer records what a scene asks of the GPU.
type fakeRenderer struct {
	buffers []*fakeBuffer

	failCreate  bool
	failMapName string

	topology renderer.Topology
	texture  string
	position *fakeBuffer
	index    *fakeBuffer

	uniform      *fakeUniform
	lastUniform  renderer.SceneUniform
	boundUniform int
	draws        []drawCall
}

var errOutOfMemory = errors.New("out of device memory")

func (r *fakeRenderer) CreateBuffer(label string, usage renderer.BufferUsage, size uint64) (renderer.Buffer, error) {
	if r.failCreate {
		return nil, errOutOfMemory
	}
	b := &fakeBuffer{label: label, usage: usage, size: size}
	r.buffers = append(r.buffers, b)
	return b, nil
}

func (r *fakeRenderer) MapBuffer(buf renderer.Buffer) ([]byte, error) {
	b := buf.(*fakeBuffer)
	switch {
	case b.released:
		return nil, renderer.ErrBufferReleased
	case b.mapped:
		return nil, renderer.ErrBufferMapped
	case r.failMapName != "" && strings.HasSuffix(b.label, r.failMapName):
		return nil, errors.New("map failed")
	}
	b.mapped = true
	b.data = make([]byte, b.size)
	return b.data, nil
}

func (r *fakeRenderer) UnmapBuffer(buf renderer.Buffer) {
	b := buf.(*fakeBuffer)
	if b.mapped {
		b.mapped = false
		b.writes++
	}
}

func (r *fakeRenderer) SetTopology(t renderer.Topology) error {
	r.topology = t
	return nil
}

func (r *fakeRenderer) BindTexture(t renderer.Texture) error {
	r.texture = t.Key()
	return nil
}

func (r *fakeRenderer) SetVertexBuffers(position, tint, uv renderer.Buffer) error {
	for _, b := range []renderer.Buffer{position, tint, uv} {
		if b.(*fakeBuffer).released {
			return renderer.ErrBufferReleased
		}
	}
	r.position = position.(*fakeBuffer)
	r.index = nil
	return nil
}

func (r *fakeRenderer) SetIndexBuffer(index renderer.Buffer) error {
	r.index = index.(*fakeBuffer)
	return nil
}

func (r *fakeRenderer) Draw(vertexCount uint32) error {
	r.draws = append(r.draws, drawCall{count: vertexCount, topology: r.topology, texture: r.texture, position: r.position})
	return nil
}

func (r *fakeRenderer) DrawIndexed(indexCount uint32) error {
	r.draws = append(r.draws, drawCall{indexed: true, count: indexCount, topology: r.topology, texture: r.texture, position: r.position, index: r.index})
	return nil
}

func (r *fakeRenderer) CreateUniform(string) (renderer.Uniform, error) {
	r.uniform = &fakeUniform{}
	return r.uniform, nil
}

func (r *fakeRenderer) WriteUniform(_ renderer.Uniform, data renderer.SceneUniform) {
	r.lastUniform = data
}

func (r *fakeRenderer) BindUniform(renderer.Uniform) error {
	r.boundUniform++
	return nil
}

func (r *fakeRenderer) live() int {
	n := 0
	for _, b := range r.buffers {
		if !b.released {
			n++
		}
	}
	return n
}

type fakeTextures map[string]renderer.Texture

func (f fakeTextures) Texture(name string) (renderer.Texture, bool) {
	t, ok := f[name]
	return t, ok
}

func pages(names ...string) fakeTextures {
	out := fakeTextures{}
	for _, n := range names {
		out[n] = &fakeTexture{key: n}
	}
	return out
}

// fakeSource serves whatever draw order the test assigns.
type fakeSource struct {
	order    []animation.DrawEntry
	color    common.Color
	advanced float32
}

func (s *fakeSource) Advance(dt float32)               { s.advanced += dt }
func (s *fakeSource) DrawOrder() []animation.DrawEntry { return s.order }
func (s *fakeSource) SkeletonColor() common.Color      { return s.color }

type fixedVertices []float32

func (v fixedVertices) ComputeWorldVertices(dst []float32) { copy(dst, v) }

func region(name, page string, color common.Color) *animation.Attachment {
	return &animation.Attachment{
		Name:    name,
		Kind:    animation.ShapeKindRegion,
		Color:   color,
		Texture: page,
		Region: &animation.RegionAttachment{
			UVs:       [8]float32{0, 1, 0, 0, 1, 1, 1, 0},
			Transform: fixedVertices{-1, -1, -1, 1, 1, -1, 1, 1},
		},
	}
}

func mesh(name, page string, vertexCount, indexCount int) *animation.Attachment {
	world := make(fixedVertices, vertexCount*2)
	uvs := make([]float32, vertexCount*2)
	for i := range world {
		world[i] = float32(i)
		uvs[i] = float32(i) / float32(len(uvs))
	}
	triangles := make([]uint16, indexCount)
	for i := range triangles {
		triangles[i] = uint16(i % vertexCount)
	}
	return &animation.Attachment{
		Name:    name,
		Kind:    animation.ShapeKindMesh,
		Color:   common.White,
		Texture: page,
		Mesh: &animation.MeshAttachment{
			WorldVerticesLength: vertexCount * 2,
			UVs:                 uvs,
			Triangles:           triangles,
			Transform:           world,
		},
	}
}

func entry(name string, att *animation.Attachment) animation.DrawEntry {
	return animation.DrawEntry{SlotName: name, SlotColor: common.White, Attachment: att}
}
