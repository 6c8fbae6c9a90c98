package mesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min, Max r3.Vec
}

// Size returns the box extents along each axis.
func (b Bounds) Size() r3.Vec {
	return r3.Sub(b.Max, b.Min)
}

// Volume returns the box volume.
func (b Bounds) Volume() float64 {
	s := b.Size()
	return s.X * s.Y * s.Z
}

// Edge is an undirected edge stored with the smaller index first.
type Edge [2]uint32

func makeEdge(a, b uint32) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{a, b}
}

// Volume returns the signed enclosed volume. It is positive for closed meshes
// wound counter-clockwise when seen from outside.
func (m *Mesh) Volume() float64 {
	var sum float64
	for i := range m.Faces {
		t := m.Triangle(i)
		sum += r3.Dot(t[0], r3.Cross(t[1], t[2]))
	}
	return sum / 6
}

// Area returns the total surface area.
func (m *Mesh) Area() float64 {
	var sum float64
	for i := range m.Faces {
		sum += triangleArea(m.Triangle(i))
	}
	return sum
}

// Bounds returns the bounding box of all vertices. An empty mesh yields a zero box.
func (m *Mesh) Bounds() Bounds {
	if len(m.Vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: vec(m.Vertices[0]), Max: vec(m.Vertices[0])}
	for _, v := range m.Vertices[1:] {
		p := vec(v)
		b.Min = r3.Vec{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y), Z: math.Min(b.Min.Z, p.Z)}
		b.Max = r3.Vec{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y), Z: math.Max(b.Max.Z, p.Z)}
	}
	return b
}

// Centroid returns the centre of mass for a closed mesh, falling back to the
// area-weighted surface centroid when the enclosed volume vanishes.
func (m *Mesh) Centroid() r3.Vec {
	if vol := m.Volume(); math.Abs(vol) > 1e-12 {
		var c r3.Vec
		for i := range m.Faces {
			t := m.Triangle(i)
			tetVol := r3.Dot(t[0], r3.Cross(t[1], t[2])) / 6
			c = r3.Add(c, r3.Scale(tetVol/4, r3.Add(r3.Add(t[0], t[1]), t[2])))
		}
		return r3.Scale(1/vol, c)
	}

	var c r3.Vec
	var area float64
	for i := range m.Faces {
		t := m.Triangle(i)
		a := triangleArea(t)
		c = r3.Add(c, r3.Scale(a/3, r3.Add(r3.Add(t[0], t[1]), t[2])))
		area += a
	}
	if area == 0 {
		return m.Bounds().center()
	}
	return r3.Scale(1/area, c)
}

func (b Bounds) center() r3.Vec {
	return r3.Scale(0.5, r3.Add(b.Min, b.Max))
}

func triangleArea(t r3.Triangle) float64 {
	return 0.5 * r3.Norm(r3.Cross(r3.Sub(t[1], t[0]), r3.Sub(t[2], t[0])))
}

// EdgeCount returns the number of directed face edges (three per face).
func (m *Mesh) EdgeCount() int {
	return 3 * len(m.Faces)
}

// UniqueEdges returns how many faces use each undirected edge.
func (m *Mesh) UniqueEdges() map[Edge]int {
	edges := make(map[Edge]int, len(m.Faces)*3/2)
	for _, f := range m.Faces {
		edges[makeEdge(f[0], f[1])]++
		edges[makeEdge(f[1], f[2])]++
		edges[makeEdge(f[2], f[0])]++
	}
	return edges
}

// IsWatertight returns true if every edge is shared by exactly two faces.
func (m *Mesh) IsWatertight() bool {
	if m.IsEmpty() {
		return false
	}
	for _, n := range m.UniqueEdges() {
		if n != 2 {
			return false
		}
	}
	return true
}

// IsWindingConsistent returns true if every shared edge is traversed once in
// each direction by its neighbouring faces.
func (m *Mesh) IsWindingConsistent() bool {
	if m.IsEmpty() {
		return false
	}
	directed := make(map[[2]uint32]int, len(m.Faces)*3)
	for _, f := range m.Faces {
		directed[[2]uint32{f[0], f[1]}]++
		directed[[2]uint32{f[1], f[2]}]++
		directed[[2]uint32{f[2], f[0]}]++
	}
	for e, n := range directed {
		if n != 1 {
			return false
		}
		if _, ok := directed[[2]uint32{e[1], e[0]}]; !ok {
			return false
		}
	}
	return true
}

// IsVolume returns true if the mesh encloses a well-defined positive volume.
func (m *Mesh) IsVolume() bool {
	return m.IsWatertight() && m.IsWindingConsistent() && m.Volume() > 0
}

// IsConvex returns true if the mesh is closed and no vertex lies in front of any face plane.
func (m *Mesh) IsConvex() bool {
	if !m.IsWatertight() || !m.IsWindingConsistent() {
		return false
	}
	orient := 1.0
	if m.Volume() < 0 {
		orient = -1
	}
	size := m.Bounds().Size()
	tol := 1e-9 * math.Max(1, math.Max(size.X, math.Max(size.Y, size.Z)))

	for i := range m.Faces {
		t := m.Triangle(i)
		n := r3.Cross(r3.Sub(t[1], t[0]), r3.Sub(t[2], t[0]))
		l := r3.Norm(n)
		if l < 1e-12 {
			continue
		}
		n = r3.Scale(orient/l, n)
		for _, v := range m.Vertices {
			if r3.Dot(n, r3.Sub(vec(v), t[0])) > tol {
				return false
			}
		}
	}
	return true
}

// EulerNumber returns V - E + F using undirected edges.
func (m *Mesh) EulerNumber() int {
	return len(m.Vertices) - len(m.UniqueEdges()) + len(m.Faces)
}

// Genus returns the number of handles implied by the Euler number of a closed surface.
func (m *Mesh) Genus() int {
	return int(1 - float64(m.EulerNumber())/2)
}

// Stats is a snapshot of the geometric queries used by reports.
type Stats struct {
	Vertices     int
	Faces        int
	Edges        int
	UniqueEdges  int
	Volume       float64
	Area         float64
	Bounds       Bounds
	Centroid     r3.Vec
	EulerNumber  int
	Genus        int
	IsWatertight bool
	IsConvex     bool
	IsVolume     bool
	BoxFillRatio float64 // Volume / bounding box volume; zero unless IsVolume
}

// Analyze collects every geometric query into a Stats value.
func (m *Mesh) Analyze() Stats {
	s := Stats{
		Vertices:     len(m.Vertices),
		Faces:        len(m.Faces),
		Edges:        m.EdgeCount(),
		UniqueEdges:  len(m.UniqueEdges()),
		Volume:       m.Volume(),
		Area:         m.Area(),
		Bounds:       m.Bounds(),
		Centroid:     m.Centroid(),
		EulerNumber:  m.EulerNumber(),
		Genus:        m.Genus(),
		IsWatertight: m.IsWatertight(),
		IsConvex:     m.IsConvex(),
		IsVolume:     m.IsVolume(),
	}
	if bv := s.Bounds.Volume(); s.IsVolume && bv > 0 {
		s.BoxFillRatio = s.Volume / bv
	}
	return s
}
