package facet

import (
	"encoding/binary"
	"math"
)

// VertexStride is the byte stride per vertex in the interleaved GPU layout.
// Layout per vertex:
//
//	position (vec4<f32>) = 16 bytes (location 0, offset 0)
//	color    (vec4<f32>) = 16 bytes (location 1, offset 16)
//
// Total = 32 bytes per vertex, little-endian.
const VertexStride = 32

// Vertex is a single point of shape geometry: a clip-space position and a
// non-premultiplied RGBA color. Vertex is a plain value type; copying it
// copies the data.
type Vertex struct {
	// X, Y, Z, W is the homogeneous clip-space position. W is 1 for
	// ordinary 2D shapes.
	X, Y, Z, W float32

	// R, G, B, A is the vertex color in [0, 1], interpolated across
	// triangles by the fragment stage.
	R, G, B, A float32
}

// putVertex writes a single vertex into buf in the interleaved GPU layout.
// buf must have at least VertexStride bytes.
func putVertex(buf []byte, v Vertex) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v.X))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(v.Y))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(v.Z))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(v.W))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(v.R))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(v.G))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(v.B))
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(v.A))
}
