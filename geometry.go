package facet

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Errors returned by geometry construction and packing.
var (
	// ErrNoVertices is returned when a geometry is created with an empty
	// vertex list.
	ErrNoVertices = errors.New("facet: geometry has no vertices")

	// ErrIndexCount is returned when the index count is not a multiple
	// of three. Shapes are always drawn as triangle lists.
	ErrIndexCount = errors.New("facet: index count is not a multiple of 3")

	// ErrIndexRange is returned when an index references a vertex that
	// does not exist.
	ErrIndexRange = errors.New("facet: index out of range")

	// ErrIndexFormatTooNarrow is returned when an index format cannot
	// address every vertex of a geometry.
	ErrIndexFormatTooNarrow = errors.New("facet: index format too narrow for vertex count")
)

// IndexFormat selects the on-device width of index values.
//
// WebGPU has no 8-bit index format, so small geometries use Uint16 as the
// narrowest width. The format is chosen automatically from the vertex
// count: up to 65536 vertices fit Uint16 (indices 0..65535), anything
// larger requires Uint32.
type IndexFormat uint8

const (
	// IndexFormatUint16 stores indices as 2-byte little-endian values.
	IndexFormatUint16 IndexFormat = iota

	// IndexFormatUint32 stores indices as 4-byte little-endian values.
	IndexFormatUint32
)

// maxUint16Vertices is the largest vertex count addressable by Uint16
// indices (0..65535).
const maxUint16Vertices = 1 << 16

// Bytes returns the byte width of a single index value.
func (f IndexFormat) Bytes() int {
	if f == IndexFormatUint32 {
		return 4
	}
	return 2
}

// String returns the format name.
func (f IndexFormat) String() string {
	if f == IndexFormatUint32 {
		return "uint32"
	}
	return "uint16"
}

// indexFormatFor returns the narrowest format that addresses vertexCount
// vertices.
func indexFormatFor(vertexCount int) IndexFormat {
	if vertexCount > maxUint16Vertices {
		return IndexFormatUint32
	}
	return IndexFormatUint16
}

// Geometry is an immutable set of vertices plus indices grouping them into
// triangles. It is validated once at construction; a non-nil *Geometry
// always satisfies the triangle-list invariants.
type Geometry struct {
	vertices []Vertex
	indices  []uint32
	format   IndexFormat
}

// NewGeometry creates a geometry from vertices and triangle-list indices.
// The slices are copied; the caller may reuse them afterwards.
//
// Returns an error when the vertex list is empty, the index count is not a
// multiple of three, or any index references a missing vertex.
func NewGeometry(vertices []Vertex, indices []uint32) (*Geometry, error) {
	if len(vertices) == 0 {
		return nil, ErrNoVertices
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("%w: %d indices", ErrIndexCount, len(indices))
	}
	for i, idx := range indices {
		if int(idx) >= len(vertices) {
			return nil, fmt.Errorf("%w: index %d at position %d, %d vertices",
				ErrIndexRange, idx, i, len(vertices))
		}
	}
	g := &Geometry{
		vertices: append([]Vertex(nil), vertices...),
		indices:  append([]uint32(nil), indices...),
		format:   indexFormatFor(len(vertices)),
	}
	return g, nil
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int { return len(g.vertices) }

// IndexCount returns the number of indices. Always a multiple of three.
func (g *Geometry) IndexCount() int { return len(g.indices) }

// Vertex returns the vertex at position i.
func (g *Geometry) Vertex(i int) Vertex { return g.vertices[i] }

// Indices returns a copy of the triangle-list indices.
func (g *Geometry) Indices() []uint32 {
	return append([]uint32(nil), g.indices...)
}

// IndexFormat returns the narrowest index format that addresses every
// vertex of this geometry.
func (g *Geometry) IndexFormat() IndexFormat { return g.format }

// VertexData packs all vertices into the interleaved little-endian GPU
// layout (VertexStride bytes per vertex).
func (g *Geometry) VertexData() []byte {
	data := make([]byte, len(g.vertices)*VertexStride)
	offset := 0
	for _, v := range g.vertices {
		putVertex(data[offset:], v)
		offset += VertexStride
	}
	return data
}

// IndexData packs all indices as little-endian values of the given format.
// Returns ErrIndexFormatTooNarrow if the format cannot represent every
// vertex of the geometry.
func (g *Geometry) IndexData(format IndexFormat) ([]byte, error) {
	if format == IndexFormatUint16 && len(g.vertices) > maxUint16Vertices {
		return nil, fmt.Errorf("%w: %s with %d vertices",
			ErrIndexFormatTooNarrow, format, len(g.vertices))
	}
	data := make([]byte, len(g.indices)*format.Bytes())
	switch format {
	case IndexFormatUint32:
		for i, idx := range g.indices {
			binary.LittleEndian.PutUint32(data[i*4:], idx)
		}
	default:
		for i, idx := range g.indices {
			binary.LittleEndian.PutUint16(data[i*2:], uint16(idx)) //nolint:gosec // range checked above
		}
	}
	return data, nil
}
