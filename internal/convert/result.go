package convert

import (
	"time"

	"github.com/google/uuid"
)

// Attempt records one strategy's turn within a request.
type Attempt struct {
	Strategy string
	Kind     FailureKind // Succeeded for the winning attempt
	Err      error
	Duration time.Duration
}

// Failed reports whether the attempt did not produce output.
func (a Attempt) Failed() bool {
	return a.Kind != Succeeded
}

// Result is the outcome of a conversion request.
type Result struct {
	RequestID  uuid.UUID
	Success    bool
	OutputPath string
	Strategy   string // name of the winning strategy
	Vertices   int
	Faces      int
	Attempts   []Attempt
	Err        error
	Duration   time.Duration
}

// Availability is one strategy's answer to a probe.
type Availability struct {
	Strategy string
	Err      error // nil when available
}

// Available reports whether the strategy can run on this machine.
func (a Availability) Available() bool {
	return a.Err == nil
}
