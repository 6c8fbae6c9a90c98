package convert

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/cadconv/pkg/formats"
	"github.com/Faultbox/cadconv/pkg/mesh"
)

func TestTempFilesScoped(t *testing.T) {
	dir := t.TempDir()
	temps := NewTempFiles(dir, nil)

	a, releaseA, err := temps.Scoped(".stl")
	require.NoError(t, err)
	b, releaseB, err := temps.Scoped(".stl")
	require.NoError(t, err)
	defer releaseB()

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(a, ".stl"))
	assert.Equal(t, dir, filepath.Dir(a))

	info, err := os.Stat(a)
	require.NoError(t, err)
	assert.Zero(t, info.Size())

	releaseA()
	releaseA()
	_, err = os.Stat(a)
	assert.True(t, os.IsNotExist(err))
}

func TestTempFilesReleaseToleratesMissingFile(t *testing.T) {
	temps := NewTempFiles(t.TempDir(), nil)
	path, release, err := temps.Scoped(".py")
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))
	assert.NotPanics(t, release)
}

func TestTempFilesWith(t *testing.T) {
	dir := t.TempDir()
	temps := NewTempFiles(dir, nil)
	boom := errors.New("boom")

	var seen string
	err := temps.With(".stl", func(path string) error {
		seen = path
		require.NoError(t, os.WriteFile(path, []byte("solid"), 0o644))
		return boom
	})
	assert.Same(t, boom, err)
	_, statErr := os.Stat(seen)
	assert.True(t, os.IsNotExist(statErr), "released after error")

	assert.Panics(t, func() {
		_ = temps.With(".stl", func(path string) error {
			seen = path
			panic("kernel binding crashed")
		})
	})
	_, statErr = os.Stat(seen)
	assert.True(t, os.IsNotExist(statErr), "released after panic")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTempFilesBadDir(t *testing.T) {
	temps := NewTempFiles(filepath.Join(t.TempDir(), "missing"), nil)
	_, _, err := temps.Scoped(".stl")
	assert.Error(t, err)
}

func TestArtifactReleaseOnce(t *testing.T) {
	calls := 0
	a := FileArtifact("/nonexistent.stl", func() { calls++ })
	a.Release()
	a.Release()
	assert.Equal(t, 1, calls)
	assert.True(t, a.Empty())

	var nilArtifact *Artifact
	assert.NotPanics(t, nilArtifact.Release)
	assert.True(t, nilArtifact.Empty())

	assert.False(t, MeshArtifact(mesh.Cube()).Empty())
	assert.True(t, MeshArtifact(nil).Empty())
}

func TestExporterWritesAtomically(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "cube.glb")

	m, err := NewExporter(nil).Export(MeshArtifact(mesh.Cube()), target, formats.FormatGLB)
	require.NoError(t, err)
	assert.Equal(t, 12, m.FaceCount())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cube.glb", entries[0].Name())
}

func TestExporterOutputIsWorldReadable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}
	for _, format := range []formats.Format{formats.FormatGLB, formats.FormatOBJ, formats.FormatSTL} {
		t.Run(format.String(), func(t *testing.T) {
			target := filepath.Join(t.TempDir(), "cube"+format.Extensions()[0])
			_, err := NewExporter(nil).Export(MeshArtifact(mesh.Cube()), target, format)
			require.NoError(t, err)

			info, err := os.Stat(target)
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
		})
	}
}

func TestExporterLoadsFileArtifacts(t *testing.T) {
	dir := t.TempDir()
	stl := filepath.Join(dir, "in.stl")
	require.NoError(t, formats.SaveSTL(mesh.Cube(), stl))

	target := filepath.Join(dir, "out.obj")
	_, err := NewExporter(nil).Export(FileArtifact(stl, nil), target, formats.FormatOBJ)
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, 12, strings.Count(string(data), "\nf "))
}

func TestExporterFailureKeepsExistingTarget(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.glb")
	require.NoError(t, os.WriteFile(target, []byte("previous"), 0o644))

	broken := mesh.New([][3]float32{{0, 0, 0}}, [][3]uint32{{0, 0, 5}})
	_, err := NewExporter(nil).Export(MeshArtifact(broken), target, formats.FormatGLB)
	require.ErrorIs(t, err, mesh.ErrFaceIndexOutOfRange)

	_, err = NewExporter(nil).Export(MeshArtifact(mesh.Cube()), target, formats.FormatSTEP)
	require.ErrorIs(t, err, formats.ErrUnsupportedFormat)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no partial files left behind")
}

func TestFailureKindString(t *testing.T) {
	assert.Equal(t, "timeout", Timeout.String())
	assert.Equal(t, "ok", Succeeded.String())
	assert.Equal(t, "FailureKind(42)", FailureKind(42).String())
}
