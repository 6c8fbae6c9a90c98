package cli

import (
	"go.uber.org/zap"

	"github.com/Faultbox/cadconv/internal/config"
	"github.com/Faultbox/cadconv/internal/convert"
)

const stepUsage = `
╔════════════════════════════════════════════════════════════════╗
║           Direct STEP to GLB Converter                         ║
╚════════════════════════════════════════════════════════════════╝

Usage:
    step2glb [flags] input.step output.glb

Example:
    step2glb 5X8_COUPLER.STEP 5X8_COUPLER.glb

Backends (install at least one; tried in this order):

1. FreeCAD Python modules (Recommended):
   macOS:    brew install --cask freecad
   Linux:    sudo apt install freecad
   Windows:  Download from freecadweb.org

2. CadQuery:
   conda install -c conda-forge cadquery

3. FreeCAD command line (freecadcmd), installed with FreeCAD

Run "step2glb --backends" to see which are available here.

Online Alternative (No Installation):
   - https://anyconv.com/step-to-stl-converter/
   - Convert STEP to STL
   - Then use: stl2glb input.stl output.glb`

const stlUsage = `
╔════════════════════════════════════════════════════════════════╗
║              STL to GLB Converter                              ║
╚════════════════════════════════════════════════════════════════╝

Usage:
    stl2glb [flags] input.stl output.glb

Example:
    stl2glb model.stl model.glb`

// STEPToGLB is the STEP/STP converter behind step2glb.
func STEPToGLB() *Converter {
	return &Converter{
		Name:     "step2glb",
		Short:    "Convert STEP/STP CAD files to GLB",
		Usage:    stepUsage,
		Title:    "STEP to GLB Direct Conversion",
		Pipeline: convert.NewSTEPPipeline,
		Hints: []string{
			"No suitable converter found!",
			"",
			"Please install one of the following:",
			"  1. FreeCAD:  brew install --cask freecad  (Linux: sudo apt install freecad)",
			"  2. CadQuery: conda install -c conda-forge cadquery",
			"",
			"Or use an online converter:",
			"  - https://anyconv.com/step-to-stl-converter/",
		},
		Backends: true,
	}
}

// STLToGLB is the STL converter behind stl2glb.
func STLToGLB() *Converter {
	return &Converter{
		Name:  "stl2glb",
		Short: "Convert STL meshes to GLB",
		Usage: stlUsage,
		Title: "STL to GLB Conversion",
		Pipeline: func(_ *config.Config, log *zap.Logger) (*convert.Orchestrator, error) {
			return convert.NewSTLPipeline(log), nil
		},
	}
}
