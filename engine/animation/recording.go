package animation

import (
	"fmt"
	"io"
	"os"

	"github.com/Carmen-Shannon/oxy-spine/common"
	"gopkg.in/yaml.v3"
)

// Recording is the YAML form of a captured sequence of draw orders.
//
// Example:
//
//	fps: 30
//	skeleton_color: [1, 1, 1, 1]
//	frames:
//	  - slots:
//	      - name: torso
//	        attachment:
//	          name: torso
//	          kind: region
//	          texture: hero.png
//	          vertices: [0, 0, 0, 10, 10, 0, 10, 10]
//	          uvs: [0, 1, 0, 0, 1, 1, 1, 0]
type Recording struct {
	FPS           float32          `yaml:"fps"`
	SkeletonColor []float32        `yaml:"skeleton_color,omitempty"`
	Frames        []RecordingFrame `yaml:"frames"`
}

// RecordingFrame is one captured draw order.
type RecordingFrame struct {
	Slots []RecordingSlot `yaml:"slots"`
}

// RecordingSlot is one captured draw-order entry.
type RecordingSlot struct {
	Name       string               `yaml:"name"`
	Color      []float32            `yaml:"color,omitempty"`
	Attachment *RecordingAttachment `yaml:"attachment,omitempty"`
}

// RecordingAttachment is a captured attachment with its world vertices already computed.
type RecordingAttachment struct {
	Name      string    `yaml:"name"`
	Kind      string    `yaml:"kind"`
	Texture   string    `yaml:"texture,omitempty"`
	Color     []float32 `yaml:"color,omitempty"`
	Vertices  []float32 `yaml:"vertices"`
	UVs       []float32 `yaml:"uvs"`
	Triangles []uint16  `yaml:"triangles,omitempty"`
}

// LoadRecording reads and decodes a YAML recording file.
//
// Parameters:
//   - path: the file to read
//
// Returns:
//   - *Recording: the decoded recording
//   - error: an error if the file cannot be read or decoded
func LoadRecording(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open recording %s: %w", path, err)
	}
	defer f.Close()

	rec, err := DecodeRecording(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode recording %s: %w", path, err)
	}
	return rec, nil
}

// DecodeRecording decodes a YAML recording from r.
//
// Parameters:
//   - r: the YAML input
//
// Returns:
//   - *Recording: the decoded recording
//   - error: an error if decoding fails
func DecodeRecording(r io.Reader) (*Recording, error) {
	var rec Recording
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// recordedVertices is a VertexTransformer that copies precomputed world coordinates.
type recordedVertices []float32

func (v recordedVertices) ComputeWorldVertices(dst []float32) {
	copy(dst, v)
}

// drawOrders converts the recording into per-frame draw orders.
//
// Returns:
//   - [][]DrawEntry: one draw order per frame
//   - error: an error naming the first malformed frame/slot
func (rec *Recording) drawOrders() ([][]DrawEntry, error) {
	frames := make([][]DrawEntry, len(rec.Frames))
	for fi, frame := range rec.Frames {
		entries := make([]DrawEntry, len(frame.Slots))
		for si, slot := range frame.Slots {
			slotColor, err := colorFromSlice(slot.Color)
			if err != nil {
				return nil, fmt.Errorf("frame %d slot %q: %w", fi, slot.Name, err)
			}
			att, err := slot.Attachment.attachment()
			if err != nil {
				return nil, fmt.Errorf("frame %d slot %q: %w", fi, slot.Name, err)
			}
			entries[si] = DrawEntry{
				SlotName:   slot.Name,
				SlotColor:  slotColor,
				Attachment: att,
			}
		}
		frames[fi] = entries
	}
	return frames, nil
}

func (ra *RecordingAttachment) attachment() (*Attachment, error) {
	if ra == nil {
		return nil, nil
	}
	color, err := colorFromSlice(ra.Color)
	if err != nil {
		return nil, err
	}
	att := &Attachment{
		Name:    ra.Name,
		Color:   color,
		Texture: ra.Texture,
	}

	switch ra.Kind {
	case "region":
		if len(ra.Vertices) != RegionVertexCount*2 || len(ra.UVs) != RegionVertexCount*2 {
			return nil, fmt.Errorf("region %q needs %d vertex and uv floats, got %d and %d",
				ra.Name, RegionVertexCount*2, len(ra.Vertices), len(ra.UVs))
		}
		att.Kind = ShapeKindRegion
		att.Region = &RegionAttachment{Transform: recordedVertices(ra.Vertices)}
		copy(att.Region.UVs[:], ra.UVs)
	case "mesh":
		if len(ra.Vertices)%2 != 0 || len(ra.UVs) != len(ra.Vertices) {
			return nil, fmt.Errorf("mesh %q has %d vertex floats and %d uv floats", ra.Name, len(ra.Vertices), len(ra.UVs))
		}
		if len(ra.Triangles)%3 != 0 {
			return nil, fmt.Errorf("mesh %q has %d triangle indices, not a multiple of 3", ra.Name, len(ra.Triangles))
		}
		vertexCount := len(ra.Vertices) / 2
		for _, idx := range ra.Triangles {
			if int(idx) >= vertexCount {
				return nil, fmt.Errorf("mesh %q index %d out of range (%d vertices)", ra.Name, idx, vertexCount)
			}
		}
		att.Kind = ShapeKindMesh
		att.Mesh = &MeshAttachment{
			WorldVerticesLength: len(ra.Vertices),
			UVs:                 ra.UVs,
			Triangles:           ra.Triangles,
			Transform:           recordedVertices(ra.Vertices),
		}
	default:
		// Anything else (bounding boxes, clipping, ...) is kept as an undrawable attachment.
		att.Kind = ShapeKindUnknown
	}
	return att, nil
}

func colorFromSlice(c []float32) (common.Color, error) {
	switch len(c) {
	case 0:
		return common.White, nil
	case 4:
		return common.Color{R: c[0], G: c[1], B: c[2], A: c[3]}, nil
	default:
		return common.Color{}, fmt.Errorf("color needs 4 channels, got %d", len(c))
	}
}
