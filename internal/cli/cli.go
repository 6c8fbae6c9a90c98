// Package cli builds the cobra commands behind the cadconv binaries.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/cadconv/internal/config"
	"github.com/Faultbox/cadconv/internal/convert"
	"github.com/Faultbox/cadconv/internal/logger"
)

// ErrConversionFailed is returned after the failure report has been printed.
var ErrConversionFailed = errors.New("conversion failed")

// PipelineFunc builds the orchestrator a converter command runs.
type PipelineFunc func(cfg *config.Config, log *zap.Logger) (*convert.Orchestrator, error)

// Converter describes one input-to-GLB command.
type Converter struct {
	Name     string // binary name, also the logger name
	Short    string
	Usage    string // banner printed on usage errors
	Title    string // report heading
	Pipeline PipelineFunc
	Hints    []string // printed when every backend failed
	Backends bool     // register --backends
}

// Execute runs cmd and returns the process exit code.
func Execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, ErrConversionFailed) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// Command builds the cobra command for the converter.
func (c *Converter) Command() *cobra.Command {
	var (
		overrides   config.Overrides
		writeConfig string
		backends    bool
	)

	cmd := &cobra.Command{
		Use:           c.Name + " [flags] <input> <output.glb>",
		Short:         c.Short,
		Long:          c.Usage,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(overrides)
			if err != nil {
				return err
			}
			defer logger.Sync()

			out := cmd.OutOrStdout()
			if writeConfig != "" {
				if err := cfg.SaveTo(writeConfig); err != nil {
					return fmt.Errorf("writing config: %w", err)
				}
				fmt.Fprintf(out, "Wrote config to %s\n", writeConfig)
				return nil
			}

			orch, err := c.Pipeline(cfg, logger.Named(c.Name))
			if err != nil {
				return err
			}

			if backends {
				printBackends(out, orch.Probe(cmd.Context()))
				return nil
			}

			if len(args) != 2 {
				fmt.Fprintln(out, c.Usage)
				return fmt.Errorf("%w: expected 2 arguments, got %d", convert.ErrUsage, len(args))
			}
			return c.run(cmd.Context(), out, orch, args[0], args[1])
		},
	}

	overrides.BindFlags(cmd.Flags())
	cmd.Flags().StringVar(&writeConfig, "write-config", "", "Write the effective config to this path and exit")
	if c.Backends {
		cmd.Flags().BoolVar(&backends, "backends", false, "Report which conversion backends are available and exit")
	}
	return cmd
}

func (c *Converter) run(ctx context.Context, out io.Writer, orch *convert.Orchestrator, input, output string) error {
	req, err := convert.NewRequest(input, output, orch.Accepts()...)
	if err != nil {
		return err
	}

	printHeader(out, c.Title, req)
	res := orch.Convert(ctx, req)
	printAttempts(out, res.Attempts)

	if !res.Success {
		printFailure(out, res, c.Hints)
		if errors.Is(res.Err, convert.ErrAllStrategiesExhausted) {
			return ErrConversionFailed
		}
		return res.Err
	}
	printSuccess(out, res)
	return nil
}

// setup loads the config and starts logging.
func setup(o config.Overrides) (*config.Config, error) {
	cfg, err := config.Load(o)
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	return cfg, nil
}

func fileSizeMB(path string) float64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return float64(info.Size()) / 1024 / 1024
}
