package harness

import (
	"bytes"
	"context"
	"os/exec"
	"syscall"
)

// stderrTailLimit bounds how much captured stderr an ExecutionError carries.
const stderrTailLimit = 2048

// RunFunc invokes the external simulation once and returns its raw standard
// output. The Sampler consumes it; tests substitute closures for it.
type RunFunc func(ctx context.Context) ([]byte, error)

// Invoker runs the simulation binary and captures its standard output.
//
// The program needs no input by contract: it is invoked with no arguments
// and an inherited environment, and success means exit code 0.
type Invoker struct {
	// Program is the path of the simulation executable.
	Program string

	// Dir is the working directory for the invocation. Empty means the
	// harness process's own working directory.
	Dir string
}

// NewInvoker creates an Invoker for the given executable path.
func NewInvoker(program string) *Invoker {
	return &Invoker{Program: program}
}

// Invoke runs the program once, blocking until it exits.
//
// A non-zero exit is an ExecutionError regardless of partial output.
// Context cancellation kills the whole process group and also surfaces as
// an ExecutionError.
func (v *Invoker) Invoke(ctx context.Context) ([]byte, error) {
	cmd := exec.CommandContext(ctx, v.Program)
	cmd.Dir = v.Dir

	// Own process group so cancellation kills the simulation's children too.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, &ExecutionError{
			Program:  v.Program,
			ExitCode: -1,
			Stderr:   err.Error(),
		}
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	var err error
	select {
	case <-ctx.Done():
		if cmd.Process != nil {
			syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		}
		<-done
		return nil, &ExecutionError{
			Program:  v.Program,
			ExitCode: -1,
			Stderr:   ctx.Err().Error(),
		}
	case err = <-done:
	}

	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			return nil, &ExecutionError{
				Program:  v.Program,
				ExitCode: -1,
				Stderr:   err.Error(),
			}
		}
		return nil, &ExecutionError{
			Program:  v.Program,
			ExitCode: exitErr.ExitCode(),
			Stderr:   stderrTail(stderr.Bytes()),
		}
	}

	return stdout.Bytes(), nil
}

func stderrTail(b []byte) string {
	if len(b) > stderrTailLimit {
		b = b[len(b)-stderrTailLimit:]
	}
	return string(b)
}
