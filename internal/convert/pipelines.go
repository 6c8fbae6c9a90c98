package convert

import (
	"go.uber.org/zap"

	"github.com/Faultbox/cadconv/internal/cad"
	"github.com/Faultbox/cadconv/internal/config"
	"github.com/Faultbox/cadconv/pkg/formats"
)

// NewSTEPPipeline converts STEP/STP files, trying the FreeCAD Python
// modules, then CadQuery, then the FreeCAD command-line binary.
func NewSTEPPipeline(cfg *config.Config, logger *zap.Logger) (*Orchestrator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	temps := NewTempFiles(cfg.Converter.TempDir, logger)

	freecad, err := cad.NewFreeCADModule(cfg, logger)
	if err != nil {
		return nil, err
	}
	strategies := []Strategy{
		KernelStrategy(freecad, temps),
		KernelStrategy(cad.NewCadQuery(cfg, logger), temps),
		KernelStrategy(cad.NewFreeCADCLI(cfg, temps, logger), temps),
	}
	return NewOrchestrator(strategies, []formats.Format{formats.FormatSTEP}, logger.Named("step")), nil
}

// NewSTLPipeline converts STL files with the in-process mesh codecs.
func NewSTLPipeline(logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return NewOrchestrator([]Strategy{MeshStrategy()}, []formats.Format{formats.FormatSTL}, logger.Named("stl"))
}
