package cli

import (
	"errors"

	"github.com/computacionparalela/tiny-md/internal/harness"
	"github.com/computacionparalela/tiny-md/internal/stats"
	"github.com/computacionparalela/tiny-md/internal/table"
)

// Exit codes of the mdverify binary. Anything non-zero is a failure: either
// the statistical verdict itself or a fatal error before a verdict.
const (
	ExitPass              = 0
	ExitFail              = 1
	ExitInvalidInvocation = 2
	ExitConfigError       = 3
	ExitRuntimeError      = 4
)

// ExitError carries the semantic exit code for an error produced inside a
// command. Errors without one (cobra's own flag errors) map to
// ExitInvalidInvocation.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

func exitErrorf(code int, err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: code, Err: err}
}

// ExitCode maps an error returned by the command tree to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitPass
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	switch {
	case errors.Is(err, harness.ErrInsufficientSamples):
		return ExitInvalidInvocation
	case errors.Is(err, harness.ErrExecution),
		errors.Is(err, table.ErrMalformedTable),
		errors.Is(err, stats.ErrShapeMismatch):
		return ExitRuntimeError
	default:
		return ExitInvalidInvocation
	}
}
