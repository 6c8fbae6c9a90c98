package convert

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/cadconv/internal/cad"
)

// TempFiles hands out uniquely named scratch files and guarantees their
// removal. Removal is best effort: failures are logged, never returned.
type TempFiles struct {
	dir    string
	logger *zap.Logger
}

// NewTempFiles creates scratch files in dir, or the OS temp dir when empty.
func NewTempFiles(dir string, logger *zap.Logger) *TempFiles {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TempFiles{dir: dir, logger: logger}
}

// Scoped creates an empty file ending in suffix. The returned release
// removes it; release is idempotent.
func (t *TempFiles) Scoped(suffix string) (string, func(), error) {
	f, err := os.CreateTemp(t.dir, "cadconv-*"+suffix)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		t.remove(path)
		return "", nil, fmt.Errorf("closing temp file: %w", err)
	}

	released := false
	release := func() {
		if released {
			return
		}
		released = true
		t.remove(path)
	}
	return path, release, nil
}

// With runs fn with a scoped temp file and removes the file afterwards, even
// when fn panics. fn's error is returned unchanged.
func (t *TempFiles) With(suffix string, fn func(path string) error) error {
	path, release, err := t.Scoped(suffix)
	if err != nil {
		return err
	}
	defer release()
	return fn(path)
}

func (t *TempFiles) remove(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		t.logger.Debug("failed to remove temp file", zap.String("path", path), zap.Error(err))
	}
}

var _ cad.Scratch = (*TempFiles)(nil)
