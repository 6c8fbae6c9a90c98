// Package convert turns an input file into a mesh file by trying an ordered
// list of backend strategies until one succeeds.
package convert

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/cadconv/pkg/formats"
	"github.com/Faultbox/cadconv/pkg/mesh"
)

// Orchestrator runs a fixed, ordered strategy list for one kind of input.
// Strategies run one at a time; the first to produce output wins and none
// is retried.
type Orchestrator struct {
	strategies []Strategy
	accepts    []formats.Format
	exporter   *Exporter
	logger     *zap.Logger
}

// NewOrchestrator creates an orchestrator for inputs in accepts, trying
// strategies in the given order.
func NewOrchestrator(strategies []Strategy, accepts []formats.Format, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		strategies: strategies,
		accepts:    accepts,
		exporter:   NewExporter(logger),
		logger:     logger,
	}
}

// Accepts returns the source formats this orchestrator converts.
func (o *Orchestrator) Accepts() []formats.Format {
	return slices.Clone(o.accepts)
}

// Strategies returns the strategy names in priority order.
func (o *Orchestrator) Strategies() []string {
	names := make([]string, len(o.strategies))
	for i, s := range o.strategies {
		names[i] = s.Name()
	}
	return names
}

// Convert runs the strategies against req. Per-strategy failures are
// recorded in Result.Attempts; Result.Err is set only when no strategy
// succeeded, and then no file has been written at the target path.
func (o *Orchestrator) Convert(ctx context.Context, req *Request) *Result {
	start := time.Now()
	log := o.logger.With(zap.Stringer("request", req.ID()))
	res := &Result{RequestID: req.ID()}
	defer func() { res.Duration = time.Since(start) }()

	if !slices.Contains(o.accepts, req.SourceFormat()) {
		res.Err = fmt.Errorf("%w: %s", ErrUnsupportedInput, req.SourceFormat())
		return res
	}

	log.Info("starting conversion",
		zap.String("source", req.SourcePath()),
		zap.String("target", req.TargetPath()),
		zap.Stringer("format", req.TargetFormat()),
	)

	for _, s := range o.strategies {
		if err := ctx.Err(); err != nil {
			res.Err = err
			return res
		}

		attemptStart := time.Now()
		m, kind, err := o.try(ctx, s, req)
		attempt := Attempt{Strategy: s.Name(), Kind: kind, Duration: time.Since(attemptStart)}

		if kind == Succeeded {
			res.Attempts = append(res.Attempts, attempt)
			res.Success = true
			res.OutputPath = req.TargetPath()
			res.Strategy = s.Name()
			res.Vertices = m.VertexCount()
			res.Faces = m.FaceCount()
			log.Info("conversion succeeded",
				zap.String("strategy", s.Name()),
				zap.Int("vertices", res.Vertices),
				zap.Int("faces", res.Faces),
				zap.Duration("duration", attempt.Duration),
			)
			return res
		}

		attempt.Err = fmt.Errorf("%s: %w: %w", s.Name(), kind.category(), err)
		res.Attempts = append(res.Attempts, attempt)
		if kind == Unavailable {
			log.Info("strategy unavailable", zap.String("strategy", s.Name()), zap.Error(err))
		} else {
			log.Warn("strategy failed",
				zap.String("strategy", s.Name()),
				zap.Stringer("kind", kind),
				zap.Duration("duration", attempt.Duration),
				zap.Error(err),
			)
		}
	}

	res.Err = newExhaustedError(res.Attempts)
	log.Error("conversion failed", zap.Int("attempts", len(res.Attempts)))
	return res
}

// try runs one strategy end to end. A panic inside the strategy is
// reported as an execution error.
func (o *Orchestrator) try(ctx context.Context, s Strategy, req *Request) (m *mesh.Mesh, kind FailureKind, err error) {
	defer func() {
		if r := recover(); r != nil {
			m, kind, err = nil, ExecutionError, fmt.Errorf("strategy panicked: %v", r)
		}
	}()

	if err := s.Available(ctx); err != nil {
		return nil, Unavailable, err
	}

	artifact, err := s.Run(ctx, req)
	if err != nil {
		return nil, classify(err), err
	}
	defer artifact.Release()

	if artifact.Empty() {
		return nil, EmptyOutput, ErrEmptyArtifact
	}

	m, err = o.exporter.Export(artifact, req.TargetPath(), req.TargetFormat())
	if err != nil {
		if errors.Is(err, mesh.ErrEmptyMesh) {
			return nil, EmptyOutput, err
		}
		return nil, ExportError, err
	}
	return m, Succeeded, nil
}

// Probe reports each strategy's availability without converting anything.
func (o *Orchestrator) Probe(ctx context.Context) []Availability {
	out := make([]Availability, 0, len(o.strategies))
	for _, s := range o.strategies {
		out = append(out, Availability{Strategy: s.Name(), Err: s.Available(ctx)})
	}
	return out
}
