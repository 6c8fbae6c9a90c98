package mesh

// Cube returns a unit cube spanning [0,1] on every axis: 8 vertices, 12 outward-facing triangles.
func Cube() *Mesh {
	return &Mesh{
		Name: "cube",
		Vertices: [][3]float32{
			{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}, // bottom
			{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}, // top
		},
		Faces: [][3]uint32{
			{0, 2, 1}, {0, 3, 2}, // bottom
			{4, 5, 6}, {4, 6, 7}, // top
			{0, 1, 5}, {0, 5, 4}, // front
			{1, 2, 6}, {1, 6, 5}, // right
			{2, 3, 7}, {2, 7, 6}, // back
			{3, 0, 4}, {3, 4, 7}, // left
		},
	}
}
