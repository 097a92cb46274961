package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/computacionparalela/tiny-md/internal/harness"
	"github.com/computacionparalela/tiny-md/internal/table"
)

func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Compare repeated runs against the recorded baseline",
		Long: `test invokes the simulation N times, diffs each run against the
baseline, and accepts a run when every column's mean and standard deviation
of absolute differences stays within the epsilon bounds. The harness passes
when the fraction of accepted runs meets or exceeds the success threshold.`,
		Args: cobra.NoArgs,
		RunE: runTest,
	}
	cmd.Flags().String("baseline", "", "Path of the expected-output file")
	cmd.Flags().Float64("threshold", 0, "Required success rate in [0,1]")
	cmd.Flags().Float64Slice("mean-epsilon", nil, "Per-column mean difference bounds (4 values)")
	cmd.Flags().Float64Slice("std-epsilon", nil, "Per-column std difference bounds (4 values)")
	return cmd
}

func runTest(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	log := newLogger(cmd)

	baseline, err := table.LoadBaseline(cfg.Baseline)
	if err != nil {
		return exitErrorf(ExitConfigError, err)
	}

	sampler := harness.NewSampler(harness.NewInvoker(cfg.Program).Invoke)
	acceptance := &harness.Acceptance{
		Baseline:  baseline,
		Profile:   cfg.Epsilon,
		Runs:      cfg.Runs,
		Threshold: cfg.SuccessThreshold,
		Out:       out,
		Log:       log,
	}

	fmt.Fprintf(out, "Running test for %s %d times...\n", cfg.Program, cfg.Runs)
	report, err := acceptance.Evaluate(cmd.Context(), sampler)
	if err != nil {
		return exitErrorf(ExitRuntimeError, err)
	}

	renderAcceptance(out, report)

	if cfg.History != "" {
		if err := appendTestHistory(cmd.Context(), cfg, report); err != nil {
			log.Warn("recording history failed", "error", err)
		}
	}

	if !report.Passed {
		return exitErrorf(ExitFail, fmt.Errorf(
			"success rate %.1f%% below threshold %.1f%%",
			report.SuccessRate*100, report.Threshold*100))
	}
	return nil
}
