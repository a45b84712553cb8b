package model

// Cube builds an axis-aligned cube centered on the origin with flat per-face normals.
//
// Parameters:
//   - name: the model identifier
//   - size: the edge length
//
// Returns:
//   - Model: the cube
func Cube(name string, size float32) Model {
	h := size / 2
	faces := [6]struct {
		normal [3]float32
		corner [4][3]float32
	}{
		{[3]float32{0, 0, 1}, [4][3]float32{{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{h, -h, -h}, {-h, -h, -h}, {-h, h, -h}, {h, h, -h}}},
		{[3]float32{1, 0, 0}, [4][3]float32{{h, -h, h}, {h, -h, -h}, {h, h, -h}, {h, h, h}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{-h, -h, -h}, {-h, -h, h}, {-h, h, h}, {-h, h, -h}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{-h, h, h}, {h, h, h}, {h, h, -h}, {-h, h, -h}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{-h, -h, -h}, {h, -h, -h}, {h, -h, h}, {-h, -h, h}}},
	}
	vertices := make([]Vertex, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, f := range faces {
		base := uint32(len(vertices))
		for _, c := range f.corner {
			vertices = append(vertices, Vertex{Position: c, Normal: f.normal})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return NewModel(name, WithVertices(vertices), WithIndices(indices))
}

// Plane builds a square in the XZ plane centered on the origin, facing +Y.
//
// Parameters:
//   - name: the model identifier
//   - size: the edge length
//
// Returns:
//   - Model: the plane
func Plane(name string, size float32) Model {
	h := size / 2
	up := [3]float32{0, 1, 0}
	vertices := []Vertex{
		{Position: [3]float32{-h, 0, h}, Normal: up},
		{Position: [3]float32{h, 0, h}, Normal: up},
		{Position: [3]float32{h, 0, -h}, Normal: up},
		{Position: [3]float32{-h, 0, -h}, Normal: up},
	}
	return NewModel(name, WithVertices(vertices), WithIndices([]uint32{0, 1, 2, 0, 2, 3}))
}
