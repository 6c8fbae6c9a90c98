package convert

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// Conversion errors. Usage and input errors are raised before any strategy
// runs; backend errors are recorded per attempt and never abort the request.
var (
	ErrUsage                  = errors.New("usage error")
	ErrInputNotFound          = errors.New("input file not found")
	ErrUnsupportedInput       = errors.New("unsupported input format")
	ErrOutputDirNotFound      = errors.New("output directory not found")
	ErrBackendUnavailable     = errors.New("backend unavailable")
	ErrBackendExecution       = errors.New("backend execution failed")
	ErrEmptyArtifact          = errors.New("strategy produced no geometry")
	ErrAllStrategiesExhausted = errors.New("all conversion strategies failed")
)

// FailureKind classifies why a strategy attempt did not produce output.
type FailureKind int

const (
	Succeeded      FailureKind = iota
	Unavailable                // backend not installed or not importable
	ExecutionError             // backend ran and failed
	Timeout                    // backend exceeded its time budget
	EmptyOutput                // backend finished without geometry
	ExportError                // artifact could not be written as the target format
)

var kindNames = [...]string{
	Succeeded:      "ok",
	Unavailable:    "unavailable",
	ExecutionError: "execution error",
	Timeout:        "timeout",
	EmptyOutput:    "empty output",
	ExportError:    "export error",
}

func (k FailureKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("FailureKind(%d)", int(k))
	}
	return kindNames[k]
}

// classify maps a strategy run error to a failure kind.
func classify(err error) FailureKind {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return Timeout
	case errors.Is(err, ErrEmptyArtifact):
		return EmptyOutput
	default:
		return ExecutionError
	}
}

// category returns the taxonomy sentinel an attempt error is filed under.
func (k FailureKind) category() error {
	if k == Unavailable {
		return ErrBackendUnavailable
	}
	return ErrBackendExecution
}

// ExhaustedError is returned when every strategy of a pipeline failed.
// It matches ErrAllStrategiesExhausted and each attempt's cause under errors.Is.
type ExhaustedError struct {
	Attempts []Attempt
	causes   error
}

func newExhaustedError(attempts []Attempt) *ExhaustedError {
	var causes error
	for _, a := range attempts {
		causes = multierr.Append(causes, a.Err)
	}
	return &ExhaustedError{Attempts: attempts, causes: causes}
}

func (e *ExhaustedError) Error() string {
	if len(e.Attempts) == 0 {
		return ErrAllStrategiesExhausted.Error() + ": no strategies configured"
	}
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s (%s): %v", a.Strategy, a.Kind, a.Err))
	}
	return ErrAllStrategiesExhausted.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ExhaustedError) Is(target error) bool {
	return target == ErrAllStrategiesExhausted
}

func (e *ExhaustedError) Unwrap() error {
	return e.causes
}
