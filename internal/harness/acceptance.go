package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/computacionparalela/tiny-md/internal/stats"
	"github.com/computacionparalela/tiny-md/internal/table"
)

// evalState tracks an evaluator through its lifecycle. An evaluator runs
// exactly once; the allowed transitions are idle -> running -> done.
type evalState int

const (
	evalIdle evalState = iota
	evalRunning
	evalDone
)

// RunOutcome records one acceptance iteration.
type RunOutcome struct {
	Index      int
	Diff       stats.DiffVector
	Violations []stats.Violation
	Accepted   bool
}

// AcceptanceReport is the final result of an acceptance evaluation.
type AcceptanceReport struct {
	Outcomes    []RunOutcome
	Accepted    int
	Total       int
	SuccessRate float64
	Threshold   float64
	Passed      bool
}

// Acceptance compares n independent runs against a fixed baseline and gates
// the overall verdict on the fraction of accepted runs.
type Acceptance struct {
	// Baseline is the reference table every run is compared against.
	Baseline table.Table

	// Profile holds the per-column tolerance bounds.
	Profile stats.EpsilonProfile

	// Runs is the number of invocations, at least 1.
	Runs int

	// Threshold is the success rate required to pass, in [0,1].
	Threshold float64

	// Out receives user-facing per-run progress and rejection details.
	Out io.Writer

	// Log receives structured diagnostics.
	Log *slog.Logger

	state evalState
}

// Evaluate drives the full acceptance loop: one run at a time, diff against
// the baseline, gate each run on the epsilon profile, then gate the whole
// evaluation on the success rate.
//
// A run whose every column statistic is at or below its bound is accepted;
// any single column exceeding either bound rejects that run but never aborts
// the loop. Execution and parse failures do abort, with no partial report.
//
// The verdict passes when the success rate meets or exceeds the threshold.
func (a *Acceptance) Evaluate(ctx context.Context, sampler *Sampler) (*AcceptanceReport, error) {
	if a.state != evalIdle {
		return nil, errors.New("acceptance evaluator already used")
	}
	if a.Runs < 1 {
		return nil, fmt.Errorf("acceptance needs at least 1 run, got %d", a.Runs)
	}
	if err := a.Profile.Validate(); err != nil {
		return nil, err
	}
	a.state = evalRunning

	out := a.Out
	if out == nil {
		out = io.Discard
	}
	log := a.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	report := &AcceptanceReport{
		Total:     a.Runs,
		Threshold: a.Threshold,
	}
	for i := 1; i <= a.Runs; i++ {
		fmt.Fprintf(out, "Run %d/%d... ", i, a.Runs)
		run, err := sampler.Run(ctx)
		if err != nil {
			fmt.Fprintln(out, "ERROR")
			return nil, err
		}
		d, err := stats.Diff(a.Baseline, run)
		if err != nil {
			fmt.Fprintln(out, "ERROR")
			return nil, err
		}

		violations := a.Profile.Check(d)
		accepted := len(violations) == 0
		if accepted {
			fmt.Fprintln(out, "OK")
			report.Accepted++
		} else {
			fmt.Fprintln(out, "REJECTED")
			for _, v := range violations {
				fmt.Fprintf(out, "  %s\n", v)
			}
		}
		log.Debug("run evaluated",
			"run", i,
			"accepted", accepted,
			"mean_diff", d.Mean,
			"std_diff", d.Std,
		)
		report.Outcomes = append(report.Outcomes, RunOutcome{
			Index:      i,
			Diff:       d,
			Violations: violations,
			Accepted:   accepted,
		})
	}
	a.state = evalDone

	report.SuccessRate = float64(report.Accepted) / float64(report.Total)
	report.Passed = report.SuccessRate >= a.Threshold
	return report, nil
}
