// Package mesh provides the in-memory triangle mesh handed between importers and exporters.
package mesh

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh errors.
var (
	ErrEmptyMesh           = errors.New("mesh has no geometry")
	ErrFaceIndexOutOfRange = errors.New("face references a missing vertex")
)

// Mesh is an indexed triangle mesh.
type Mesh struct {
	Name     string
	Vertices [][3]float32 // Vertex positions
	Faces    [][3]uint32  // Triangles as indices into Vertices
}

// New creates a mesh from vertex and face slices. The slices are not copied.
func New(vertices [][3]float32, faces [][3]uint32) *Mesh {
	return &Mesh{Vertices: vertices, Faces: faces}
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// FaceCount returns the number of triangles.
func (m *Mesh) FaceCount() int {
	return len(m.Faces)
}

// IsEmpty returns true if the mesh has no vertices or no faces.
func (m *Mesh) IsEmpty() bool {
	return m == nil || len(m.Vertices) == 0 || len(m.Faces) == 0
}

// Validate checks that the mesh has geometry and every face index is in range.
func (m *Mesh) Validate() error {
	if m.IsEmpty() {
		return ErrEmptyMesh
	}
	n := uint32(len(m.Vertices))
	for i, f := range m.Faces {
		if f[0] >= n || f[1] >= n || f[2] >= n {
			return fmt.Errorf("%w: face %d %v (vertices: %d)", ErrFaceIndexOutOfRange, i, f, n)
		}
	}
	return nil
}

// Triangle returns face i as a gonum triangle in float64 space.
func (m *Mesh) Triangle(i int) r3.Triangle {
	f := m.Faces[i]
	return r3.Triangle{
		vec(m.Vertices[f[0]]),
		vec(m.Vertices[f[1]]),
		vec(m.Vertices[f[2]]),
	}
}

// FaceNormal returns the unit normal of face i following its winding order.
// Degenerate faces yield a zero vector.
func (m *Mesh) FaceNormal(i int) [3]float32 {
	t := m.Triangle(i)
	n := r3.Cross(r3.Sub(t[1], t[0]), r3.Sub(t[2], t[0]))
	l := r3.Norm(n)
	if l < 1e-12 {
		return [3]float32{}
	}
	n = r3.Scale(1/l, n)
	return [3]float32{float32(n.X), float32(n.Y), float32(n.Z)}
}

func vec(v [3]float32) r3.Vec {
	return r3.Vec{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
}

// Builder assembles a mesh from loose triangles, merging coincident vertices.
type Builder struct {
	name  string
	index map[[3]float32]uint32
	verts [][3]float32
	faces [][3]uint32
}

// NewBuilder creates an empty builder.
func NewBuilder(name string) *Builder {
	return &Builder{
		name:  name,
		index: make(map[[3]float32]uint32),
	}
}

// AddTriangle appends a triangle given by its three corner positions.
func (b *Builder) AddTriangle(a, c, d [3]float32) {
	b.faces = append(b.faces, [3]uint32{b.vertex(a), b.vertex(c), b.vertex(d)})
}

func (b *Builder) vertex(v [3]float32) uint32 {
	// -0 and +0 must share an index
	for i := range v {
		if v[i] == 0 {
			v[i] = 0
		}
	}
	if idx, ok := b.index[v]; ok {
		return idx
	}
	idx := uint32(len(b.verts))
	b.verts = append(b.verts, v)
	b.index[v] = idx
	return idx
}

// Mesh returns the assembled mesh.
func (b *Builder) Mesh() *Mesh {
	return &Mesh{Name: b.name, Vertices: b.verts, Faces: b.faces}
}
