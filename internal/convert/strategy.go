package convert

import (
	"context"
	"errors"
	"fmt"

	"github.com/Faultbox/cadconv/internal/cad"
	"github.com/Faultbox/cadconv/pkg/formats"
)

// NameMeshDirect is the strategy that loads a mesh file without a CAD kernel.
const NameMeshDirect = "mesh-direct"

// Strategy is one candidate backend. Strategies hold no per-request state.
type Strategy interface {
	Name() string
	// Available reports nil when the backing toolchain is usable.
	Available(ctx context.Context) error
	// Run produces an intermediate mesh for the request. On error, the
	// strategy must already have released anything it created.
	Run(ctx context.Context, req *Request) (*Artifact, error)
}

// kernelStrategy imports a STEP file with a CAD kernel and tessellates it
// into a scoped STL file.
type kernelStrategy struct {
	kernel cad.Kernel
	temps  *TempFiles
}

// KernelStrategy adapts a CAD kernel to a Strategy.
func KernelStrategy(kernel cad.Kernel, temps *TempFiles) Strategy {
	return &kernelStrategy{kernel: kernel, temps: temps}
}

func (s *kernelStrategy) Name() string {
	return s.kernel.Name()
}

func (s *kernelStrategy) Available(ctx context.Context) error {
	return s.kernel.Available(ctx)
}

func (s *kernelStrategy) Run(ctx context.Context, req *Request) (*Artifact, error) {
	stlPath, release, err := s.temps.Scoped(".stl")
	if err != nil {
		return nil, err
	}

	doc, err := s.kernel.Import(ctx, req.SourcePath())
	if err != nil {
		release()
		return nil, err
	}
	defer doc.Close()

	if err := doc.ExportMesh(ctx, stlPath); err != nil {
		release()
		if errors.Is(err, cad.ErrEmptyOutput) {
			return nil, fmt.Errorf("%w: %w", ErrEmptyArtifact, err)
		}
		return nil, err
	}
	return FileArtifact(stlPath, release), nil
}

// meshStrategy loads a mesh file directly with the in-process mesh codecs.
type meshStrategy struct{}

// MeshStrategy returns the direct mesh-load strategy.
func MeshStrategy() Strategy {
	return meshStrategy{}
}

func (meshStrategy) Name() string {
	return NameMeshDirect
}

// Available is always nil: the codecs are compiled in.
func (meshStrategy) Available(context.Context) error {
	return nil
}

func (meshStrategy) Run(_ context.Context, req *Request) (*Artifact, error) {
	m, err := formats.LoadAs(req.SourcePath(), req.SourceFormat())
	if err != nil {
		return nil, err
	}
	return MeshArtifact(m), nil
}
