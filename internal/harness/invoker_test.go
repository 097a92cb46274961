package harness

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript drops an executable shell stub standing in for the simulation.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tiny_md")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestInvoker_CapturesStdout(t *testing.T) {
	prog := writeScript(t, `echo "# header"
echo "0.9 284.4 -1117.3 1.9"`)

	out, err := NewInvoker(prog).Invoke(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(out), "0.9 284.4 -1117.3 1.9")
}

func TestInvoker_NonZeroExit(t *testing.T) {
	prog := writeScript(t, `echo "0.9 284.4 -1117.3 1.9"
echo "lattice blew up" >&2
exit 3`)

	_, err := NewInvoker(prog).Invoke(context.Background())
	require.ErrorIs(t, err, ErrExecution)

	var ee *ExecutionError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 3, ee.ExitCode)
	assert.Contains(t, ee.Stderr, "lattice blew up")
}

func TestInvoker_MissingProgram(t *testing.T) {
	prog := filepath.Join(t.TempDir(), "does-not-exist")

	_, err := NewInvoker(prog).Invoke(context.Background())
	require.ErrorIs(t, err, ErrExecution)
}

func TestInvoker_ContextCancellation(t *testing.T) {
	prog := writeScript(t, "sleep 10")

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewInvoker(prog).Invoke(ctx)
	require.ErrorIs(t, err, ErrExecution)
	assert.Less(t, time.Since(start), 5*time.Second)
}
