package formats

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/Faultbox/cadconv/pkg/mesh"
)

// SaveOBJ writes the mesh as a Wavefront OBJ file.
func SaveOBJ(m *mesh.Mesh, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating OBJ file: %w", err)
	}
	if err := WriteOBJ(m, f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// WriteOBJ writes vertices and 1-based faces in OBJ text form.
func WriteOBJ(m *mesh.Mesh, w io.Writer) error {
	if err := m.Validate(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	if m.Name != "" {
		fmt.Fprintf(bw, "o %s\n", m.Name)
	}
	for _, v := range m.Vertices {
		bw.WriteString("v ")
		bw.WriteString(formatFloat(v[0]))
		bw.WriteByte(' ')
		bw.WriteString(formatFloat(v[1]))
		bw.WriteByte(' ')
		bw.WriteString(formatFloat(v[2]))
		bw.WriteByte('\n')
	}
	for _, f := range m.Faces {
		fmt.Fprintf(bw, "f %d %d %d\n", f[0]+1, f[1]+1, f[2]+1)
	}
	return bw.Flush()
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}
