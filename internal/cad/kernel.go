// Package cad drives external CAD kernels that import STEP solids and
// tessellate them into STL meshes.
//
// The kernels (FreeCAD, CadQuery) live in Python; every call crosses a
// process boundary through a time-bounded Runner, so a hung kernel can be
// killed instead of stalling the conversion.
package cad

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Kernel names, in the order the STEP pipeline tries them.
const (
	NameFreeCADModule = "freecad-module"
	NameCadQuery      = "cadquery"
	NameFreeCADCLI    = "freecad-cli"
)

var (
	// ErrUnavailable is returned when a kernel is not installed or not importable.
	ErrUnavailable = errors.New("cad kernel unavailable")
	// ErrEmptyOutput is returned when a kernel exits cleanly but writes no mesh.
	ErrEmptyOutput = errors.New("kernel produced no mesh data")
	// ErrDocumentClosed is returned when a closed document is used.
	ErrDocumentClosed = errors.New("document is closed")
)

// Kernel is a CAD toolkit able to import STEP files.
type Kernel interface {
	Name() string
	// Available reports nil when the kernel can be used on this machine.
	Available(ctx context.Context) error
	// Import opens a STEP file and returns a handle to its solids.
	Import(ctx context.Context, stepPath string) (*Document, error)
}

// exportFunc tessellates source into an STL file at target.
type exportFunc func(ctx context.Context, source, target string) error

// Document is an imported STEP file owned by the caller. It replaces the
// kernels' notion of a process-wide active document: every export names the
// document it works on.
type Document struct {
	kernel string
	source string
	export exportFunc
	closed bool
}

func newDocument(kernel, stepPath string, export exportFunc) (*Document, error) {
	abs, err := filepath.Abs(stepPath)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: resolve %s", kernel, stepPath)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: open document", kernel)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %s is not a regular file", kernel, abs)
	}
	return &Document{kernel: kernel, source: abs, export: export}, nil
}

// ExportMesh tessellates the document's solids into an STL file.
// An export that leaves stlPath empty fails with ErrEmptyOutput.
func (d *Document) ExportMesh(ctx context.Context, stlPath string) error {
	if d.closed {
		return ErrDocumentClosed
	}
	target, err := filepath.Abs(stlPath)
	if err != nil {
		return errors.Wrapf(err, "%s: resolve %s", d.kernel, stlPath)
	}
	if err := d.export(ctx, d.source, target); err != nil {
		return errors.Wrapf(err, "%s: export mesh", d.kernel)
	}
	return checkMeshFile(d.kernel, target)
}

// Close releases the document. It is safe to call more than once.
func (d *Document) Close() {
	d.closed = true
}

func checkMeshFile(kernel, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(ErrEmptyOutput, "%s: %s was not written", kernel, path)
		}
		return errors.Wrapf(err, "%s: stat mesh", kernel)
	}
	if info.Size() == 0 {
		return errors.Wrapf(ErrEmptyOutput, "%s: %s is empty", kernel, path)
	}
	return nil
}

// unavailable joins ErrUnavailable with the probe failure so both stay
// visible to errors.Is.
func unavailable(kernel string, cause error) error {
	return errors.Wrap(multierr.Append(ErrUnavailable, cause), kernel)
}
