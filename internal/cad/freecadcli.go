package cad

import (
	"context"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/cadconv/internal/config"
)

// Scratch hands out files that exist only for the duration of fn.
type Scratch interface {
	With(suffix string, fn func(path string) error) error
}

// FreeCADCLI drives a FreeCAD command-line executable with a generated
// script. The first configured command that resolves is the one used.
type FreeCADCLI struct {
	commands []string
	scratch  Scratch
	run      *Runner
	logger   *zap.Logger
}

// NewFreeCADCLI returns the kernel backed by FreeCAD's command-line binary.
// Generated scripts are written to files taken from scratch.
func NewFreeCADCLI(cfg *config.Config, scratch Scratch, logger *zap.Logger) *FreeCADCLI {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named(NameFreeCADCLI)
	return &FreeCADCLI{
		commands: cfg.FreeCAD.Commands,
		scratch:  scratch,
		run:      NewRunner(cfg.Converter.SubprocessTimeout, logger),
		logger:   logger,
	}
}

func (k *FreeCADCLI) Name() string {
	return NameFreeCADCLI
}

// Command returns the executable that would be used, probing the configured
// commands in order.
func (k *FreeCADCLI) Command() (string, error) {
	for _, name := range k.commands {
		path, err := LookPath(name)
		if err == nil {
			return path, nil
		}
		k.logger.Debug("FreeCAD command not found", zap.String("command", name))
	}
	return "", errors.Wrapf(ErrNotFound, "none of %s", strings.Join(k.commands, ", "))
}

// Available reports whether any configured command resolves. The binary is
// not started: launching FreeCAD costs more than a conversion attempt.
func (k *FreeCADCLI) Available(ctx context.Context) error {
	if _, err := k.Command(); err != nil {
		return unavailable(NameFreeCADCLI, err)
	}
	return nil
}

func (k *FreeCADCLI) Import(ctx context.Context, stepPath string) (*Document, error) {
	return newDocument(NameFreeCADCLI, stepPath, k.export)
}

func (k *FreeCADCLI) export(ctx context.Context, source, target string) error {
	command, err := k.Command()
	if err != nil {
		return err
	}

	script, err := render(freecadCLIScript, scriptData{Source: source, Target: target})
	if err != nil {
		return err
	}

	return k.scratch.With(".py", func(scriptPath string) error {
		if err := os.WriteFile(scriptPath, []byte(script), 0o600); err != nil {
			return errors.Wrap(err, "write script file")
		}
		out, err := k.run.Run(ctx, command, scriptPath)
		if err != nil {
			return err
		}
		k.logger.Debug("mesh exported",
			zap.String("command", command),
			zap.String("target", target),
			zap.Duration("duration", out.Duration),
		)
		return nil
	})
}

var _ Kernel = (*FreeCADCLI)(nil)
