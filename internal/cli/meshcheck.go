package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/cadconv/internal/config"
	"github.com/Faultbox/cadconv/internal/convert"
	"github.com/Faultbox/cadconv/internal/logger"
	"github.com/Faultbox/cadconv/pkg/formats"
	"github.com/Faultbox/cadconv/pkg/mesh"
)

// SampleName is the cube meshcheck writes when no input is given.
const SampleName = "sample_cube.stl"

// MeshCheck builds the meshcheck command: it pushes an STL file through the
// STL pipeline to OBJ and GLB and prints the mesh analysis.
func MeshCheck() *cobra.Command {
	var (
		overrides config.Overrides
		dir       string
	)

	cmd := &cobra.Command{
		Use:           "meshcheck [flags] [input.stl]",
		Short:         "Exercise the STL conversion pipeline and print mesh statistics",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := setup(overrides); err != nil {
				return err
			}
			defer logger.Sync()

			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return runMeshCheck(cmd.Context(), cmd.OutOrStdout(), dir, input)
		},
	}

	overrides.BindFlags(cmd.Flags())
	cmd.Flags().StringVar(&dir, "dir", ".", "Directory for the sample cube and generated files")
	return cmd
}

func runMeshCheck(ctx context.Context, out io.Writer, dir, input string) error {
	fmt.Fprintln(out, rule)
	fmt.Fprintln(out, "3D File Conversion Pipeline Test")
	fmt.Fprintln(out, rule)

	if input == "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
		input = filepath.Join(dir, SampleName)
		if err := formats.SaveSTL(mesh.Cube(), input); err != nil {
			return fmt.Errorf("creating sample: %w", err)
		}
		fmt.Fprintf(out, "Created sample STL: %s\n", input)
	}

	orch := convert.NewSTLPipeline(logger.Named("meshcheck"))
	base := strings.TrimSuffix(input, filepath.Ext(input))
	outputs := []string{base + ".obj", base + ".glb"}

	fmt.Fprintln(out, "\nTesting conversion pipeline...")
	for i, target := range outputs {
		req, err := convert.NewRequest(input, target, orch.Accepts()...)
		if err != nil {
			return err
		}
		res := orch.Convert(ctx, req)
		if !res.Success {
			return fmt.Errorf("converting to %s: %w", req.TargetFormat(), res.Err)
		}
		fmt.Fprintf(out, "  %d. %s: %d vertices, %d faces -> %s\n",
			i+1, strings.ToUpper(req.TargetFormat().String()), res.Vertices, res.Faces, target)
	}

	m, err := formats.Load(input)
	if err != nil {
		return err
	}
	printAnalysis(out, m.Analyze())

	fmt.Fprintln(out)
	fmt.Fprintln(out, rule)
	fmt.Fprintln(out, "Test completed successfully!")
	fmt.Fprintln(out, rule)
	fmt.Fprintln(out, "\nGenerated files:")
	fmt.Fprintf(out, "  - %s (STL)\n", input)
	fmt.Fprintf(out, "  - %s (OBJ)\n", outputs[0])
	fmt.Fprintf(out, "  - %s (GLB)\n", outputs[1])
	return nil
}

func printAnalysis(out io.Writer, s mesh.Stats) {
	fmt.Fprintln(out, "\nGeometric data:")
	fmt.Fprintf(out, "  Volume:       %.4f\n", s.Volume)
	fmt.Fprintf(out, "  Surface Area: %.4f\n", s.Area)
	fmt.Fprintf(out, "  Bounds:       %s - %s\n", formatVec(s.Bounds.Min), formatVec(s.Bounds.Max))
	fmt.Fprintf(out, "  Centroid:     %s\n", formatVec(s.Centroid))

	fmt.Fprintln(out, "\nMesh Analysis:")
	fmt.Fprintf(out, "  Vertices:     %d\n", s.Vertices)
	fmt.Fprintf(out, "  Faces:        %d\n", s.Faces)
	fmt.Fprintf(out, "  Edges:        %d (%d unique)\n", s.Edges, s.UniqueEdges)
	fmt.Fprintf(out, "  Euler Number: %d\n", s.EulerNumber)
	fmt.Fprintf(out, "  Genus:        %d\n", s.Genus)

	size := s.Bounds.Size()
	fmt.Fprintln(out, "\nDimensions:")
	fmt.Fprintf(out, "  X: %.4f\n", size.X)
	fmt.Fprintf(out, "  Y: %.4f\n", size.Y)
	fmt.Fprintf(out, "  Z: %.4f\n", size.Z)

	if s.IsVolume && s.Volume > 0 {
		fmt.Fprintln(out, "\nSpace Utilization:")
		fmt.Fprintf(out, "  Model fills %.2f%% of bounding box\n", s.BoxFillRatio*100)
	}

	fmt.Fprintln(out, "\nQuality Checks:")
	fmt.Fprintf(out, "  Watertight: %s\n", yesNo(s.IsWatertight))
	fmt.Fprintf(out, "  Convex:     %s\n", yesNo(s.IsConvex))
}

func formatVec(v r3.Vec) string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", v.X, v.Y, v.Z)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
