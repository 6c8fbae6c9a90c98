package convert

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/cadconv/pkg/formats"
	"github.com/Faultbox/cadconv/pkg/mesh"
)

// outputMode is the permission of exported files.
const outputMode os.FileMode = 0o644

// Exporter writes an artifact to its final location. The target only ever
// appears fully written: output goes to a sibling temp file that is renamed
// into place.
type Exporter struct {
	logger *zap.Logger
}

// NewExporter creates an exporter.
func NewExporter(logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{logger: logger}
}

// Export loads the artifact and writes it to target in format. It returns
// the exported mesh.
func (e *Exporter) Export(a *Artifact, target string, format formats.Format) (*mesh.Mesh, error) {
	m, err := e.load(a)
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	dir := filepath.Dir(target)
	f, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("creating output in %s: %w", dir, err)
	}
	tmp := f.Name()
	// CreateTemp makes the file owner-only; the result is a normal output file.
	err = f.Chmod(outputMode)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		e.discard(tmp)
		return nil, fmt.Errorf("preparing output in %s: %w", dir, err)
	}

	if err := formats.Export(m, tmp, format); err != nil {
		e.discard(tmp)
		return nil, fmt.Errorf("writing %s: %w", format, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		e.discard(tmp)
		return nil, fmt.Errorf("moving output into place: %w", err)
	}

	e.logger.Debug("exported mesh",
		zap.String("target", target),
		zap.Stringer("format", format),
		zap.Int("vertices", m.VertexCount()),
		zap.Int("faces", m.FaceCount()),
	)
	return m, nil
}

func (e *Exporter) load(a *Artifact) (*mesh.Mesh, error) {
	if a.Path == "" {
		if a.Mesh.IsEmpty() {
			return nil, mesh.ErrEmptyMesh
		}
		return a.Mesh, nil
	}
	m, err := formats.Load(a.Path)
	if err != nil {
		return nil, fmt.Errorf("loading intermediate mesh: %w", err)
	}
	return m, nil
}

func (e *Exporter) discard(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		e.logger.Debug("failed to remove partial output", zap.String("path", path), zap.Error(err))
	}
}
