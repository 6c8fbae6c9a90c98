package cad

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrTimeout is returned when a backend process outlives its time budget.
// It matches context.DeadlineExceeded under errors.Is.
var ErrTimeout = errors.Wrap(context.DeadlineExceeded, "backend time budget exceeded")

// ErrNotFound is returned when no executable can be resolved for a backend.
var ErrNotFound = errors.New("executable not found")

// stderrTailLines bounds how much backend chatter ends up in an error.
const stderrTailLines = 8

// Output is the captured result of a finished backend process.
type Output struct {
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// ExitError reports a backend process that ran but exited non-zero.
type ExitError struct {
	Command string
	Code    int
	Stderr  string // last lines of stderr
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s exited with code %d", e.Command, e.Code)
	}
	return fmt.Sprintf("%s exited with code %d: %s", e.Command, e.Code, e.Stderr)
}

// Runner invokes external executables under a wall-clock budget.
type Runner struct {
	timeout time.Duration
	logger  *zap.Logger
}

// NewRunner creates a runner that kills processes after timeout.
func NewRunner(timeout time.Duration, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{timeout: timeout, logger: logger}
}

// Run executes name with args and waits for it to exit or for the budget to
// elapse. A timed out process is killed and ErrTimeout is returned.
func (r *Runner) Run(ctx context.Context, name string, args ...string) (*Output, error) {
	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, name, args...)
	// Children that inherit the pipes must not hold Wait open past the kill.
	cmd.WaitDelay = time.Second

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	r.logger.Debug("running backend process",
		zap.String("command", name),
		zap.Int("args", len(args)),
		zap.Duration("timeout", r.timeout),
	)

	start := time.Now()
	err := cmd.Run()
	out := &Output{
		Stdout:   stdoutBuf.String(),
		Stderr:   stderrBuf.String(),
		Duration: time.Since(start),
	}

	if err == nil {
		r.logger.Debug("backend process finished",
			zap.String("command", name),
			zap.Duration("duration", out.Duration),
		)
		return out, nil
	}

	if runCtx.Err() == context.DeadlineExceeded {
		r.logger.Warn("backend process timed out",
			zap.String("command", name),
			zap.Duration("timeout", r.timeout),
		)
		return out, errors.Wrapf(ErrTimeout, "%s after %s", name, r.timeout)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return out, errors.Wrapf(ctxErr, "%s interrupted", name)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return out, &ExitError{
			Command: name,
			Code:    exitErr.ExitCode(),
			Stderr:  tail(out.Stderr, stderrTailLines),
		}
	}
	return out, errors.Wrapf(err, "start %s", name)
}

// LookPath resolves a command name or path to an executable.
func LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", errors.Wrapf(ErrNotFound, "%s", name)
	}
	return path, nil
}

func tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
