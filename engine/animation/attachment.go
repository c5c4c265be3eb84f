package animation

import (
	"github.com/Carmen-Shannon/oxy-spine/common"
)

// ShapeKind identifies which payload of an Attachment is populated.
type ShapeKind int

const (
	// ShapeKindUnknown marks an attachment the renderer cannot draw (bounding boxes, paths, clipping, points, ...).
	ShapeKindUnknown ShapeKind = iota

	// ShapeKindRegion is a fixed-size textured quad with exactly RegionVertexCount vertices and no indices.
	ShapeKindRegion

	// ShapeKindMesh is an arbitrary triangle mesh with its own vertex and index counts.
	ShapeKindMesh
)

// RegionVertexCount is the number of vertices of a region quad, drawn as a triangle strip.
const RegionVertexCount = 4

func (k ShapeKind) String() string {
	switch k {
	case ShapeKindRegion:
		return "region"
	case ShapeKindMesh:
		return "mesh"
	default:
		return "unknown"
	}
}

// VertexTransformer is the animation runtime's routine that combines attachment-local geometry with the
// current bone transforms.
type VertexTransformer interface {
	// ComputeWorldVertices writes 2*VertexCount world-space coordinates (x0, y0, x1, y1, ...) into dst.
	//
	// Parameters:
	//   - dst: destination slice, at least 2*VertexCount long
	ComputeWorldVertices(dst []float32)
}

// RegionAttachment is the payload of a ShapeKindRegion attachment.
type RegionAttachment struct {
	// UVs holds the four texture coordinate pairs in strip order.
	UVs [RegionVertexCount * 2]float32
	// Transform computes the four world-space corner positions.
	Transform VertexTransformer
}

// MeshAttachment is the payload of a ShapeKindMesh attachment.
type MeshAttachment struct {
	// WorldVerticesLength is the number of floats the transform writes, two per vertex.
	WorldVerticesLength int
	// UVs holds one texture coordinate pair per vertex.
	UVs []float32
	// Triangles holds the triangle list indices.
	Triangles []uint16
	// Transform computes the world-space vertex positions.
	Transform VertexTransformer
}

// Attachment is one drawable shape attached to a skeletal slot. Kind selects which payload is valid;
// the other payload pointer is nil.
type Attachment struct {
	// Name is the attachment name, used for labels and logging.
	Name string
	// Kind selects the populated payload.
	Kind ShapeKind
	// Color is the attachment tint.
	Color common.Color
	// Texture names the atlas page the attachment samples from. Empty when the region is missing.
	Texture string

	Region *RegionAttachment
	Mesh   *MeshAttachment
}

// VertexCount returns the number of vertices the attachment draws, or 0 if it is not drawable.
//
// Returns:
//   - int: the vertex count
func (a *Attachment) VertexCount() int {
	if a == nil {
		return 0
	}
	switch a.Kind {
	case ShapeKindRegion:
		if a.Region == nil {
			return 0
		}
		return RegionVertexCount
	case ShapeKindMesh:
		if a.Mesh == nil {
			return 0
		}
		return a.Mesh.WorldVerticesLength / 2
	default:
		return 0
	}
}

// IndexCount returns the number of triangle indices the attachment draws. Regions have none.
//
// Returns:
//   - int: the index count
func (a *Attachment) IndexCount() int {
	if a == nil || a.Kind != ShapeKindMesh || a.Mesh == nil {
		return 0
	}
	return len(a.Mesh.Triangles)
}

// Drawable reports whether the attachment has a recognized kind, a matching payload and at least one vertex.
// Meshes also need at least one triangle index.
//
// Returns:
//   - bool: true if the renderer can allocate buffers for it
func (a *Attachment) Drawable() bool {
	if a.VertexCount() == 0 {
		return false
	}
	return a.Kind != ShapeKindMesh || a.IndexCount() > 0
}

// UVs returns the texture coordinates of whichever payload is populated.
//
// Returns:
//   - []float32: two floats per vertex, or nil if the attachment is not drawable
func (a *Attachment) UVs() []float32 {
	switch {
	case a == nil:
		return nil
	case a.Kind == ShapeKindRegion && a.Region != nil:
		return a.Region.UVs[:]
	case a.Kind == ShapeKindMesh && a.Mesh != nil:
		return a.Mesh.UVs
	default:
		return nil
	}
}

// Transformer returns the world-vertex routine of whichever payload is populated.
//
// Returns:
//   - VertexTransformer: the transform, or nil if the attachment is not drawable
func (a *Attachment) Transformer() VertexTransformer {
	switch {
	case a == nil:
		return nil
	case a.Kind == ShapeKindRegion && a.Region != nil:
		return a.Region.Transform
	case a.Kind == ShapeKindMesh && a.Mesh != nil:
		return a.Mesh.Transform
	default:
		return nil
	}
}
