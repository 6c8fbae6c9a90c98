package convert

import (
	"os"
	"sync"

	"github.com/Faultbox/cadconv/pkg/mesh"
)

// Artifact is the intermediate mesh a strategy hands to the exporter: either
// a transient mesh file or an in-memory mesh. The orchestrator consumes it
// once and then calls Release.
type Artifact struct {
	Path string     // transient mesh file, format taken from its extension
	Mesh *mesh.Mesh // in-memory mesh, used when Path is empty

	release func()
	once    sync.Once
}

// FileArtifact wraps a transient mesh file. release, if non-nil, removes it.
func FileArtifact(path string, release func()) *Artifact {
	return &Artifact{Path: path, release: release}
}

// MeshArtifact wraps an in-memory mesh.
func MeshArtifact(m *mesh.Mesh) *Artifact {
	return &Artifact{Mesh: m}
}

// Empty reports whether the artifact carries no geometry: a missing or
// zero-byte file, or a mesh without faces.
func (a *Artifact) Empty() bool {
	if a == nil {
		return true
	}
	if a.Path != "" {
		info, err := os.Stat(a.Path)
		return err != nil || info.Size() == 0
	}
	return a.Mesh.IsEmpty()
}

// Release frees transient resources. It is safe to call more than once.
func (a *Artifact) Release() {
	if a == nil {
		return
	}
	a.once.Do(func() {
		if a.release != nil {
			a.release()
		}
	})
}
