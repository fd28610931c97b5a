package facet

// quadIndices is the fixed triangle decomposition of a four-vertex quad:
// (v0, v1, v2) and (v2, v3, v0).
var quadIndices = []uint32{0, 1, 2, 2, 3, 0}

// NewQuad creates the geometry for a quadrilateral from four corner
// vertices in winding order. The quad is split into two triangles sharing
// the v0-v2 diagonal, six indices total.
func NewQuad(v0, v1, v2, v3 Vertex) *Geometry {
	g, err := NewGeometry([]Vertex{v0, v1, v2, v3}, quadIndices)
	if err != nil {
		// Four vertices and the fixed index list always validate.
		panic("facet: quad geometry invalid: " + err.Error())
	}
	return g
}

// NewRect creates an axis-aligned rectangle from one corner vertex plus a
// width and height. The remaining corners are derived by offsetting X and
// Y; all four share the corner's Z, W, and color:
//
//	(x, y) -> (x, y+h) -> (x+w, y+h) -> (x+w, y)
//
// Negative width or height simply flips the winding.
func NewRect(corner Vertex, width, height float32) *Geometry {
	v1 := corner
	v1.Y += height
	v2 := v1
	v2.X += width
	v3 := corner
	v3.X += width
	return NewQuad(corner, v1, v2, v3)
}
