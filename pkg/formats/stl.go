package formats

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hschendel/stl"

	"github.com/Faultbox/cadconv/pkg/encoding"
	"github.com/Faultbox/cadconv/pkg/mesh"
)

const (
	stlHeaderSize   = 80
	stlHeaderPrefix = "cadconv "
)

// LoadSTL reads an ASCII or binary STL file. Coincident corners are merged so
// the result is an indexed mesh rather than a triangle soup.
func LoadSTL(path string) (*mesh.Mesh, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading STL file: %w", err)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading STL file: %w", err)
	}
	defer f.Close()

	m, err := ReadSTL(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ReadSTL reads STL data. The reader must be seekable: binary files whose
// header starts with "solid" are detected by reading ahead and rewinding.
func ReadSTL(r io.ReadSeeker) (*mesh.Mesh, error) {
	solid, err := stl.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("parsing STL: %w", err)
	}
	return meshFromSolid(solid)
}

func meshFromSolid(solid *stl.Solid) (*mesh.Mesh, error) {
	b := mesh.NewBuilder(solidName(solid))
	for _, t := range solid.Triangles {
		b.AddTriangle(
			[3]float32(t.Vertices[0]),
			[3]float32(t.Vertices[1]),
			[3]float32(t.Vertices[2]),
		)
	}
	m := b.Mesh()
	if m.IsEmpty() {
		return nil, mesh.ErrEmptyMesh
	}
	return m, nil
}

// solidName prefers the raw binary header, which may hold a legacy-encoded
// name, over the parser's ASCII rendition of it.
func solidName(solid *stl.Solid) string {
	name := encoding.LegacyToUTF8([]byte(solid.Name))
	if len(solid.BinaryHeader) > 0 {
		name = encoding.HeaderName(solid.BinaryHeader)
	}
	return strings.TrimSpace(strings.TrimPrefix(name, stlHeaderPrefix))
}

// SaveSTL writes a binary STL file with facet normals derived from the winding order.
func SaveSTL(m *mesh.Mesh, path string) error {
	if err := m.Validate(); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing STL %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	if err := WriteSTL(m, w); err != nil {
		f.Close()
		return fmt.Errorf("writing STL %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("writing STL %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing STL %s: %w", path, err)
	}
	return nil
}

// WriteSTL writes binary STL data to a writer.
func WriteSTL(m *mesh.Mesh, w io.Writer) error {
	solid, err := solidFromMesh(m)
	if err != nil {
		return err
	}
	return solid.WriteAll(w)
}

func solidFromMesh(m *mesh.Mesh) (*stl.Solid, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	// A binary header must not start with "solid" or readers take it for ASCII.
	header := encoding.FixedHeader(stlHeaderPrefix+m.Name, stlHeaderSize)

	solid := &stl.Solid{
		Name:         m.Name,
		BinaryHeader: header,
		Triangles:    make([]stl.Triangle, len(m.Faces)),
	}
	for i, f := range m.Faces {
		solid.Triangles[i] = stl.Triangle{
			Normal: stl.Vec3(m.FaceNormal(i)),
			Vertices: [3]stl.Vec3{
				stl.Vec3(m.Vertices[f[0]]),
				stl.Vec3(m.Vertices[f[1]]),
				stl.Vec3(m.Vertices[f[2]]),
			},
		}
	}
	return solid, nil
}
