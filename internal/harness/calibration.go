package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/computacionparalela/tiny-md/internal/stats"
	"github.com/computacionparalela/tiny-md/internal/table"
)

// CalibrationReport carries the derived statistics of a calibration run.
// It is advisory only; calibration never produces a pass/fail verdict.
type CalibrationReport struct {
	// Mean is the elementwise mean table across all runs (diagnostic).
	Mean table.Table

	// Stats aggregates the C(n,2) pairwise DiffVectors.
	Stats stats.CalibrationStats

	// Recommended is Stats widened by Sigma standard deviations.
	Recommended stats.EpsilonProfile

	Runs  int
	Sigma float64
}

// Calibration estimates the simulation's inherent run-to-run noise without a
// baseline, to recommend epsilon bounds.
type Calibration struct {
	// Runs is the number of invocations, at least 2.
	Runs int

	// Sigma is the multiplier k in recommended = mean + k·std.
	Sigma float64

	// Out receives user-facing progress.
	Out io.Writer

	// Log receives structured diagnostics.
	Log *slog.Logger

	state evalState
}

// Evaluate collects n runs, diffs every unordered pair, and aggregates the
// pairwise statistics into a recommended epsilon profile.
//
// All n run tables stay live until the pairwise pass completes; the
// accumulation buffer belongs to this procedure, not the sampler.
func (c *Calibration) Evaluate(ctx context.Context, sampler *Sampler) (*CalibrationReport, error) {
	if c.state != evalIdle {
		return nil, fmt.Errorf("calibration evaluator already used")
	}
	if c.Runs < 2 {
		return nil, &InsufficientSamplesError{Got: c.Runs}
	}
	c.state = evalRunning

	log := c.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	sampler.Progress = c.Out
	runs, err := sampler.Collect(ctx, c.Runs)
	if err != nil {
		return nil, err
	}

	mean, err := stats.MeanTable(runs)
	if err != nil {
		return nil, err
	}

	var diffs []stats.DiffVector
	for i := 0; i < len(runs); i++ {
		for j := i + 1; j < len(runs); j++ {
			d, err := stats.Diff(runs[i], runs[j])
			if err != nil {
				return nil, fmt.Errorf("comparing runs %d and %d: %w", i+1, j+1, err)
			}
			diffs = append(diffs, d)
		}
	}
	c.state = evalDone

	agg := stats.Aggregate(diffs)
	log.Debug("calibration aggregated", "runs", c.Runs, "pairs", agg.Pairs)

	return &CalibrationReport{
		Mean:        mean,
		Stats:       agg,
		Recommended: agg.Recommend(c.Sigma),
		Runs:        c.Runs,
		Sigma:       c.Sigma,
	}, nil
}
