package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/google/uuid"

	"github.com/Faultbox/cadconv/pkg/formats"
)

// Request is a validated conversion job. It is immutable once created.
type Request struct {
	id           uuid.UUID
	sourcePath   string
	targetPath   string
	sourceFormat formats.Format
	targetFormat formats.Format
}

// NewRequest validates a source/target pair. The source must be an existing
// regular file whose extension is one of accepted, and the target's
// directory must exist. The target format follows the target extension when
// it names a mesh format, and is GLB otherwise.
func NewRequest(source, target string, accepted ...formats.Format) (*Request, error) {
	if source == "" || target == "" {
		return nil, fmt.Errorf("%w: input and output paths are required", ErrUsage)
	}

	info, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, source)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrInputNotFound, source)
	}

	sourceFormat, err := formats.FormatFromPath(source)
	if err != nil || !slices.Contains(accepted, sourceFormat) {
		return nil, fmt.Errorf("%w: %s must be %s", ErrUnsupportedInput, source, describe(accepted))
	}

	// The output directory is checked before any backend runs.
	dir := filepath.Dir(target)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrOutputDirNotFound, dir)
	}

	return &Request{
		id:           uuid.New(),
		sourcePath:   source,
		targetPath:   target,
		sourceFormat: sourceFormat,
		targetFormat: targetFormat(target),
	}, nil
}

func targetFormat(path string) formats.Format {
	f, err := formats.FormatFromPath(path)
	if err != nil {
		return formats.FormatGLB
	}
	switch f {
	case formats.FormatSTL, formats.FormatOBJ:
		return f
	default:
		return formats.FormatGLB
	}
}

// describe renders accepted formats as their extensions, e.g. ".step or .stp".
func describe(accepted []formats.Format) string {
	var exts []string
	for _, f := range accepted {
		exts = append(exts, f.Extensions()...)
	}
	switch len(exts) {
	case 0:
		return "a supported format"
	case 1:
		return exts[0]
	}
	out := exts[0]
	for i, ext := range exts[1:] {
		if i == len(exts)-2 {
			out += " or " + ext
		} else {
			out += ", " + ext
		}
	}
	return out
}

// ID identifies the request in logs.
func (r *Request) ID() uuid.UUID { return r.id }

// SourcePath returns the input file path.
func (r *Request) SourcePath() string { return r.sourcePath }

// TargetPath returns the output file path.
func (r *Request) TargetPath() string { return r.targetPath }

// SourceFormat returns the input format.
func (r *Request) SourceFormat() formats.Format { return r.sourceFormat }

// TargetFormat returns the output format.
func (r *Request) TargetFormat() formats.Format { return r.targetFormat }
