package harness

import (
	"context"
	"fmt"
	"io"

	"github.com/computacionparalela/tiny-md/internal/table"
)

// Sampler produces parsed tables from sequential simulation runs.
//
// It keeps no state across calls: each run is invoked, parsed immediately,
// and handed to the caller, who owns the resulting table.
type Sampler struct {
	// Invoke performs one external run.
	Invoke RunFunc

	// Progress, when non-nil, receives a "Run i/n... OK" line per run
	// during Collect.
	Progress io.Writer
}

// NewSampler wraps an invocation function.
func NewSampler(invoke RunFunc) *Sampler {
	return &Sampler{Invoke: invoke}
}

// Run performs a single invoke-and-parse step.
//
// An execution failure or malformed output propagates immediately; a
// malformed run indicates a broken environment, not noise, and is never
// skipped.
func (s *Sampler) Run(ctx context.Context) (table.Table, error) {
	out, err := s.Invoke(ctx)
	if err != nil {
		return table.Table{}, err
	}
	t, err := table.Parse(string(out))
	if err != nil {
		return table.Table{}, fmt.Errorf("parsing run output: %w", err)
	}
	return t, nil
}

// Collect performs n sequential runs and returns their tables in invocation
// order. Any failure aborts the whole collection with no partial results.
//
// Order matters: calibration performs ordered pairwise comparison over the
// result.
func (s *Sampler) Collect(ctx context.Context, n int) ([]table.Table, error) {
	if n < 1 {
		return nil, fmt.Errorf("sample count must be at least 1, got %d", n)
	}
	tables := make([]table.Table, 0, n)
	for i := 1; i <= n; i++ {
		if s.Progress != nil {
			fmt.Fprintf(s.Progress, "Run %d/%d... ", i, n)
		}
		t, err := s.Run(ctx)
		if err != nil {
			if s.Progress != nil {
				fmt.Fprintln(s.Progress, "ERROR")
			}
			return nil, err
		}
		if s.Progress != nil {
			fmt.Fprintln(s.Progress, "OK")
		}
		tables = append(tables, t)
	}
	return tables, nil
}
