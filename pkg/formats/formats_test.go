package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Faultbox/cadconv/pkg/mesh"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"model.stl", FormatSTL, false},
		{"MODEL.STL", FormatSTL, false},
		{"part.step", FormatSTEP, false},
		{"5X8_COUPLER.STEP", FormatSTEP, false},
		{"part.stp", FormatSTEP, false},
		{"scene.glb", FormatGLB, false},
		{"dir.v2/mesh.obj", FormatOBJ, false},
		{"archive.zip", "", true},
		{"noext", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_Extensions(t *testing.T) {
	assert.Equal(t, []string{".step", ".stp"}, FormatSTEP.Extensions())
	assert.Equal(t, []string{".stl"}, FormatSTL.Extensions())
	assert.Empty(t, Format("ply").Extensions())
}

func TestSTL_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cube.stl")
	require.NoError(t, SaveSTL(mesh.Cube(), path))

	// 12 triangles * 50 bytes + 80 header + 4 count
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.EqualValues(t, 684, info.Size())

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, m.VertexCount())
	assert.Equal(t, 12, m.FaceCount())
	assert.InDelta(t, 1.0, m.Volume(), 1e-6)
	assert.True(t, m.IsWatertight())
}

func TestSTL_ASCII(t *testing.T) {
	const ascii = `solid tri
facet normal 0 0 1
  outer loop
    vertex 0 0 0
    vertex 1 0 0
    vertex 0 1 0
  endloop
endfacet
facet normal 0 0 1
  outer loop
    vertex 1 0 0
    vertex 1 1 0
    vertex 0 1 0
  endloop
endfacet
endsolid tri
`
	m, err := ReadSTL(strings.NewReader(ascii))
	require.NoError(t, err)
	assert.Equal(t, "tri", m.Name)
	assert.Equal(t, 4, m.VertexCount())
	assert.Equal(t, 2, m.FaceCount())
	assert.InDelta(t, 1.0, m.Area(), 1e-6)
}

// Some exporters start binary headers with "solid"; the reader has to
// rewind and take the size check over the keyword.
func TestSTL_BinaryWithSolidHeader(t *testing.T) {
	var buf bytes.Buffer
	header := make([]byte, 80)
	copy(header, "solid exported by a CAD package")
	buf.Write(header)
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(1)))
	tri := [12]float32{
		0, 0, 1, // normal
		0, 0, 0,
		1, 0, 0,
		0, 1, 0,
	}
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, tri))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint16(0)))

	m, err := ReadSTL(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 3, m.VertexCount())
	assert.Equal(t, 1, m.FaceCount())
	assert.InDelta(t, 0.5, m.Area(), 1e-6)
}

func TestSTL_WriteReadStream(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSTL(mesh.Cube(), &buf))
	assert.Equal(t, 684, buf.Len())

	m, err := ReadSTL(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "cube", m.Name)
	assert.Equal(t, 8, m.VertexCount())
	assert.Equal(t, 12, m.FaceCount())
}

func TestSTL_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.stl")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	_, err := LoadSTL(path)
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestSTL_MissingFile(t *testing.T) {
	_, err := LoadSTL("/nonexistent/path/model.stl")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestSTL_WriteRejectsEmptyMesh(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSTL(&mesh.Mesh{}, &buf)
	assert.ErrorIs(t, err, mesh.ErrEmptyMesh)
	assert.Zero(t, buf.Len())
}

func TestGLB_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cube.glb")
	require.NoError(t, Export(mesh.Cube(), path, FormatGLB))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(data), 12)
	assert.Equal(t, "glTF", string(data[:4]))

	m, err := LoadGLB(path)
	require.NoError(t, err)
	assert.Equal(t, "cube", m.Name)
	assert.Equal(t, 8, m.VertexCount())
	assert.Equal(t, 12, m.FaceCount())
	assert.InDelta(t, 1.0, m.Volume(), 1e-6)
	assert.True(t, m.IsWatertight())
}

func TestGLB_DefaultName(t *testing.T) {
	m := mesh.Cube()
	m.Name = ""
	doc, err := Document(m)
	require.NoError(t, err)
	require.Len(t, doc.Meshes, 1)
	assert.Equal(t, defaultMeshName, doc.Meshes[0].Name)
	require.Len(t, doc.Nodes, 1)
	assert.Equal(t, []int{0}, doc.Scenes[0].Nodes)
}

func TestOBJ_Write(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOBJ(mesh.Cube(), &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1+8+12)
	assert.Equal(t, "o cube", lines[0])
	assert.Equal(t, "v 0 0 0", lines[1])
	assert.Equal(t, "v 1 1 1", lines[7])
	assert.Equal(t, "f 1 3 2", lines[9])
}

func TestExport_Unsupported(t *testing.T) {
	err := Export(mesh.Cube(), filepath.Join(t.TempDir(), "x.step"), FormatSTEP)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load("part.step")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

// STL -> GLB must preserve the loaded mesh exactly.
func TestSTLToGLB_PreservesCounts(t *testing.T) {
	dir := t.TempDir()
	rapid.Check(t, func(t *rapid.T) {
		nv := rapid.IntRange(3, 40).Draw(t, "vertices")
		verts := make([][3]float32, nv)
		for i := range verts {
			verts[i] = [3]float32{
				float32(rapid.IntRange(-50, 50).Draw(t, "x")) / 4,
				float32(rapid.IntRange(-50, 50).Draw(t, "y")) / 4,
				float32(rapid.IntRange(-50, 50).Draw(t, "z")) / 4,
			}
		}
		nf := rapid.IntRange(1, 60).Draw(t, "faces")
		faces := make([][3]uint32, nf)
		for i := range faces {
			faces[i] = [3]uint32{
				uint32(rapid.IntRange(0, nv-1).Draw(t, "a")),
				uint32(rapid.IntRange(0, nv-1).Draw(t, "b")),
				uint32(rapid.IntRange(0, nv-1).Draw(t, "c")),
			}
		}

		stlPath := filepath.Join(dir, "src.stl")
		glbPath := filepath.Join(dir, "dst.glb")
		require.NoError(t, SaveSTL(mesh.New(verts, faces), stlPath))
		src, err := LoadSTL(stlPath)
		require.NoError(t, err)
		require.NoError(t, SaveGLB(src, glbPath))
		dst, err := LoadGLB(glbPath)
		require.NoError(t, err)

		require.Equal(t, src.VertexCount(), dst.VertexCount())
		require.Equal(t, src.FaceCount(), dst.FaceCount())
		assert.Equal(t, src.Vertices, dst.Vertices)
		assert.Equal(t, src.Faces, dst.Faces)
	})
}

func TestSTL_LegacyHeaderName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gehaeuse.stl")
	m := mesh.Cube()
	m.Name = "Gehäuse"
	require.NoError(t, SaveSTL(m, path))

	// The header carries the Windows-1252 form of the name.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("cadconv Geh\xe4use"), data[:15])

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Gehäuse", loaded.Name)
}
