// Package formats provides loaders and exporters for triangle mesh file formats.
package formats

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Faultbox/cadconv/pkg/mesh"
)

// Format identifies a 3D file format.
type Format string

const (
	FormatSTL  Format = "stl"  // Stereolithography, ASCII or binary
	FormatGLB  Format = "glb"  // Binary glTF 2.0 container
	FormatOBJ  Format = "obj"  // Wavefront OBJ
	FormatSTEP Format = "step" // ISO 10303 CAD exchange; needs a CAD kernel to tessellate
)

// Format errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrEmptyFile         = errors.New("file is empty")
)

var extensions = map[string]Format{
	".stl":  FormatSTL,
	".glb":  FormatGLB,
	".obj":  FormatOBJ,
	".step": FormatSTEP,
	".stp":  FormatSTEP,
}

// String returns the format name.
func (f Format) String() string {
	return string(f)
}

// Extensions returns the lower-case file extensions that map to the format.
func (f Format) Extensions() []string {
	var exts []string
	for ext, format := range extensions {
		if format == f {
			exts = append(exts, ext)
		}
	}
	sort.Strings(exts)
	return exts
}

// FormatFromPath detects the format from a file extension, case-insensitively.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extensions[ext]; ok {
		return f, nil
	}
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, path)
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
}

// Load reads a mesh file, choosing the decoder from the file extension.
func Load(path string) (*mesh.Mesh, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	return LoadAs(path, f)
}

// LoadAs reads a mesh file in an explicit format.
func LoadAs(path string, f Format) (*mesh.Mesh, error) {
	switch f {
	case FormatSTL:
		return LoadSTL(path)
	case FormatGLB:
		return LoadGLB(path)
	default:
		return nil, fmt.Errorf("%w: cannot load %s", ErrUnsupportedFormat, f)
	}
}

// Export writes a mesh to path in the given format.
func Export(m *mesh.Mesh, path string, f Format) error {
	switch f {
	case FormatSTL:
		return SaveSTL(m, path)
	case FormatGLB:
		return SaveGLB(m, path)
	case FormatOBJ:
		return SaveOBJ(m, path)
	default:
		return fmt.Errorf("%w: cannot export %s", ErrUnsupportedFormat, f)
	}
}
