// Package harness drives repeated simulation runs and decides whether their
// output stays within tolerance of a recorded baseline.
package harness

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrExecution is the kind wrapped by every ExecutionError.
	ErrExecution = errors.New("simulation execution failed")

	// ErrInsufficientSamples is the kind wrapped by every InsufficientSamplesError.
	ErrInsufficientSamples = errors.New("insufficient samples")
)

// ExecutionError reports a simulation invocation that did not complete
// successfully. It is fatal: the harness aborts with no retry and no
// partial results.
type ExecutionError struct {
	Program  string
	ExitCode int
	// Stderr holds the tail of the program's standard error, if any.
	Stderr string
}

func (e *ExecutionError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("%s: %s exited with code %d", ErrExecution.Error(), e.Program, e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *ExecutionError) Unwrap() error { return ErrExecution }

// InsufficientSamplesError rejects a calibration request with too few runs,
// before any invocation happens. Pairwise comparison needs at least 2.
type InsufficientSamplesError struct {
	Got int
}

func (e *InsufficientSamplesError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: calibration needs at least 2 runs, got %d", ErrInsufficientSamples.Error(), e.Got)
}

func (e *InsufficientSamplesError) Unwrap() error { return ErrInsufficientSamples }
