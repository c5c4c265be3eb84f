package scene

import (
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-spine/common"
	"github.com/Carmen-Shannon/oxy-spine/engine/animation"
	"github.com/Carmen-Shannon/oxy-spine/engine/renderer"
	"github.com/Carmen-Shannon/oxy-spine/engine/renderer/buffer_slot"
)

// SlotRenderer is the part of renderer.Renderer the slot table drives.
type SlotRenderer interface {
	buffer_slot.BufferAllocator
	MapBuffer(buf renderer.Buffer) ([]byte, error)
	UnmapBuffer(buf renderer.Buffer)
	SetTopology(t renderer.Topology) error
	BindTexture(t renderer.Texture) error
	SetVertexBuffers(position, tint, uv renderer.Buffer) error
	SetIndexBuffer(index renderer.Buffer) error
	Draw(vertexCount uint32) error
	DrawIndexed(indexCount uint32) error
}

// TextureSource resolves the atlas page an attachment samples from.
type TextureSource interface {
	// Texture returns the uploaded page with the given name.
	//
	// Parameters:
	//   - name: the page name
	//
	// Returns:
	//   - renderer.Texture: the page texture
	//   - bool: false if no such page is loaded
	Texture(name string) (renderer.Texture, bool)
}

// FrameStats counts slot table activity since the last ResetStats.
type FrameStats struct {
	// Slots is the number of live slots after the last reconciliation.
	Slots int
	// Allocations counts slots created, including replacements after a sizing change.
	Allocations int
	// Releases counts slots released because their attachment changed or disappeared.
	Releases int
	// SkippedWrites counts slot writes skipped for a missing texture or vertex transform.
	SkippedWrites int
	// FailedMaps counts buffer writes skipped because the buffer could not be mapped.
	FailedMaps int
	// DrawCalls counts issued draws.
	DrawCalls int
}

// Add accumulates o into s. Slots takes o's value.
func (s *FrameStats) Add(o FrameStats) {
	s.Slots = o.Slots
	s.Allocations += o.Allocations
	s.Releases += o.Releases
	s.SkippedWrites += o.SkippedWrites
	s.FailedMaps += o.FailedMaps
	s.DrawCalls += o.DrawCalls
}

// tableEntry is a slot plus the texture resolved for it by the last Write.
type tableEntry struct {
	slot    buffer_slot.BufferSlot
	texture renderer.Texture
}

// slotTable is the implementation of the SlotTable interface.
type slotTable struct {
	r        SlotRenderer
	textures TextureSource
	alloc    common.Allocator

	entries map[int]*tableEntry
	order   []int
	stats   FrameStats
}

// SlotTable maps draw-order indices to buffer slots and keeps them in step with an animation's draw order.
// A frame is Reconcile, then Write, then Draw, all on one goroutine.
type SlotTable interface {
	// Reconcile makes the table match the draw order. A slot whose sizing still matches its attachment
	// is kept with its buffers untouched. A slot whose sizing changed is replaced by a new one, built
	// before the old one is released. Slots for missing, empty or unrecognized attachments are released.
	// A buffer creation failure aborts reconciliation and is returned; the slot at that index is left
	// as it was.
	//
	// Parameters:
	//   - drawOrder: the current draw order, indexed by draw-order index
	//
	// Returns:
	//   - error: the wrapped buffer creation error, if any
	Reconcile(drawOrder []animation.DrawEntry) error

	// Write fills every slot's buffers from its attachment. Slots whose texture or vertex transform is
	// missing are skipped and not drawn this frame. A buffer that cannot be mapped keeps its previous contents.
	//
	// Parameters:
	//   - drawOrder: the same draw order passed to Reconcile
	//   - skeletonColor: the skeleton-wide tint
	Write(drawOrder []animation.DrawEntry, skeletonColor common.Color)

	// Draw issues one draw per written slot in ascending draw-order index.
	//
	// Returns:
	//   - error: the first binding or draw error, wrapped with the slot label
	Draw() error

	// Slot returns the slot at a draw-order index, nil if there is none.
	//
	// Parameters:
	//   - drawOrder: the draw-order index
	//
	// Returns:
	//   - buffer_slot.BufferSlot: the slot
	Slot(drawOrder int) buffer_slot.BufferSlot

	// Slots returns the live slots in ascending draw-order index.
	//
	// Returns:
	//   - []buffer_slot.BufferSlot: a snapshot of the table
	Slots() []buffer_slot.BufferSlot

	// Len returns the number of live slots.
	Len() int

	// Stats returns the counters accumulated since the last ResetStats.
	Stats() FrameStats

	// ResetStats zeroes the counters except Slots.
	ResetStats()

	// Release releases every slot and empties the table.
	Release()
}

var _ SlotTable = &slotTable{}

// NewSlotTable creates an empty SlotTable.
//
// Parameters:
//   - r: the renderer that creates, maps and draws buffers
//   - textures: resolves attachment page names
//   - options: functional options
//
// Returns:
//   - SlotTable: the table
func NewSlotTable(r SlotRenderer, textures TextureSource, options ...SlotTableBuilderOption) SlotTable {
	t := &slotTable{
		r:        r,
		textures: textures,
		alloc:    common.NewHeapAllocator(),
		entries:  make(map[int]*tableEntry),
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

func (t *slotTable) Reconcile(drawOrder []animation.DrawEntry) error {
	defer t.rebuildOrder()

	for idx, e := range t.entries {
		if idx >= len(drawOrder) {
			t.remove(idx, e)
		}
	}

	for i, entry := range drawOrder {
		att := entry.Attachment
		existing := t.entries[i]

		if !att.Drawable() {
			if existing != nil {
				t.remove(i, existing)
			}
			continue
		}

		kind, vertexCount, indexCount := att.Kind, att.VertexCount(), att.IndexCount()
		if existing != nil && existing.slot.Matches(kind, vertexCount, indexCount) {
			continue
		}

		slot, err := buffer_slot.NewBufferSlot(t.r, i, kind, vertexCount, indexCount)
		if err != nil {
			return fmt.Errorf("draw order %d (%s): %w", i, entry.SlotName, err)
		}
		if existing != nil {
			existing.slot.Release()
			t.stats.Releases++
		}
		t.entries[i] = &tableEntry{slot: slot}
		t.stats.Allocations++
	}
	return nil
}

func (t *slotTable) remove(idx int, e *tableEntry) {
	e.slot.Release()
	delete(t.entries, idx)
	t.stats.Releases++
}

func (t *slotTable) rebuildOrder() {
	t.order = t.order[:0]
	for idx := range t.entries {
		t.order = append(t.order, idx)
	}
	slices.Sort(t.order)
	t.stats.Slots = len(t.order)
}

func (t *slotTable) Write(drawOrder []animation.DrawEntry, skeletonColor common.Color) {
	for _, idx := range t.order {
		e := t.entries[idx]
		e.texture = nil
		if idx >= len(drawOrder) {
			continue
		}
		entry := drawOrder[idx]
		att := entry.Attachment
		if att == nil || !e.slot.Matches(att.Kind, att.VertexCount(), att.IndexCount()) {
			continue
		}

		tr := att.Transformer()
		tex, ok := t.lookupTexture(att.Texture)
		if !ok || tr == nil {
			t.stats.SkippedWrites++
			continue
		}
		e.texture = tex
		t.writeSlot(e.slot, att, tr, entry.SlotColor.Mul(att.Color).Mul(skeletonColor).Pack())
	}
}

func (t *slotTable) lookupTexture(name string) (renderer.Texture, bool) {
	if name == "" || t.textures == nil {
		return nil, false
	}
	return t.textures.Texture(name)
}

func (t *slotTable) writeSlot(slot buffer_slot.BufferSlot, att *animation.Attachment, tr animation.VertexTransformer, tint uint32) {
	vertexCount := slot.VertexCount()

	world := t.alloc.Floats(vertexCount * 2)
	tr.ComputeWorldVertices(world)
	t.fill(slot.PositionBuffer(), func(dst []byte) { common.PutFloat32s(dst, world) })
	t.alloc.Free(world)

	uvs := att.UVs()
	t.fill(slot.UVBuffer(), func(dst []byte) { common.PutFloat32s(dst, uvs) })
	t.fill(slot.TintBuffer(), func(dst []byte) { common.FillUint32(dst, tint, vertexCount) })

	if idx := slot.IndexBuffer(); idx != nil {
		triangles := att.Mesh.Triangles
		t.fill(idx, func(dst []byte) { common.PutUint16s(dst, triangles) })
	}
}

// fill maps buf, lets write populate it and unmaps it. A map failure skips the buffer.
func (t *slotTable) fill(buf renderer.Buffer, write func(dst []byte)) {
	dst, err := t.r.MapBuffer(buf)
	if err != nil {
		t.stats.FailedMaps++
		return
	}
	write(dst)
	t.r.UnmapBuffer(buf)
}

func (t *slotTable) Draw() error {
	for _, idx := range t.order {
		e := t.entries[idx]
		if e.texture == nil {
			continue
		}
		if err := t.drawSlot(e); err != nil {
			return fmt.Errorf("%s: %w", e.slot.Label(), err)
		}
		t.stats.DrawCalls++
	}
	return nil
}

func (t *slotTable) drawSlot(e *tableEntry) error {
	s := e.slot
	if err := t.r.SetTopology(s.Topology()); err != nil {
		return err
	}
	if err := t.r.BindTexture(e.texture); err != nil {
		return err
	}
	if err := t.r.SetVertexBuffers(s.PositionBuffer(), s.TintBuffer(), s.UVBuffer()); err != nil {
		return err
	}
	if idx := s.IndexBuffer(); idx != nil {
		if err := t.r.SetIndexBuffer(idx); err != nil {
			return err
		}
		return t.r.DrawIndexed(uint32(s.IndexCount()))
	}
	return t.r.Draw(uint32(s.VertexCount()))
}

func (t *slotTable) Slot(drawOrder int) buffer_slot.BufferSlot {
	if e, ok := t.entries[drawOrder]; ok {
		return e.slot
	}
	return nil
}

func (t *slotTable) Slots() []buffer_slot.BufferSlot {
	out := make([]buffer_slot.BufferSlot, 0, len(t.order))
	for _, idx := range t.order {
		out = append(out, t.entries[idx].slot)
	}
	return out
}

func (t *slotTable) Len() int {
	return len(t.entries)
}

func (t *slotTable) Stats() FrameStats {
	return t.stats
}

func (t *slotTable) ResetStats() {
	t.stats = FrameStats{Slots: t.stats.Slots}
}

func (t *slotTable) Release() {
	for idx, e := range t.entries {
		e.slot.Release()
		delete(t.entries, idx)
	}
	t.order = t.order[:0]
	t.stats.Slots = 0
}
