package cad

import (
	"context"

	"go.uber.org/zap"

	"github.com/Faultbox/cadconv/internal/config"
)

// PythonKernel reaches a kernel through its Python bindings. Each call runs
// a short script in a fresh interpreter.
type PythonKernel struct {
	name   string
	python string
	probe  string // import check, run under the probe budget
	script string // export script taking source and target in argv
	run    *Runner
	check  *Runner
	logger *zap.Logger
}

// NewFreeCADModule returns the kernel backed by FreeCAD's Python modules,
// loaded into the configured interpreter via freecad.lib_paths.
func NewFreeCADModule(cfg *config.Config, logger *zap.Logger) (*PythonKernel, error) {
	data := scriptData{LibPaths: cfg.FreeCAD.LibPaths}
	probe, err := render(freecadProbeScript, data)
	if err != nil {
		return nil, err
	}
	script, err := render(freecadModuleScript, data)
	if err != nil {
		return nil, err
	}
	return newPythonKernel(NameFreeCADModule, cfg.FreeCAD.Python, probe, script, cfg, logger), nil
}

// NewCadQuery returns the kernel backed by the CadQuery package.
func NewCadQuery(cfg *config.Config, logger *zap.Logger) *PythonKernel {
	return newPythonKernel(NameCadQuery, cfg.CadQuery.Python, cadqueryProbeScript, cadqueryScript, cfg, logger)
}

func newPythonKernel(name, python, probe, script string, cfg *config.Config, logger *zap.Logger) *PythonKernel {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named(name)
	return &PythonKernel{
		name:   name,
		python: python,
		probe:  probe,
		script: script,
		run:    NewRunner(cfg.Converter.SubprocessTimeout, logger),
		check:  NewRunner(cfg.Converter.ProbeTimeout, logger),
		logger: logger,
	}
}

func (k *PythonKernel) Name() string {
	return k.name
}

// Available checks that the interpreter exists and can import the kernel.
func (k *PythonKernel) Available(ctx context.Context) error {
	python, err := LookPath(k.python)
	if err != nil {
		return unavailable(k.name, err)
	}
	if _, err := k.check.Run(ctx, python, "-c", k.probe); err != nil {
		return unavailable(k.name, err)
	}
	return nil
}

func (k *PythonKernel) Import(ctx context.Context, stepPath string) (*Document, error) {
	return newDocument(k.name, stepPath, k.export)
}

func (k *PythonKernel) export(ctx context.Context, source, target string) error {
	python, err := LookPath(k.python)
	if err != nil {
		return err
	}
	out, err := k.run.Run(ctx, python, "-c", k.script, source, target)
	if err != nil {
		return err
	}
	k.logger.Debug("mesh exported",
		zap.String("source", source),
		zap.String("target", target),
		zap.Duration("duration", out.Duration),
	)
	return nil
}

var _ Kernel = (*PythonKernel)(nil)
