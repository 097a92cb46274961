package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/computacionparalela/tiny-md/internal/harness"
)

func newCalibrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Estimate run-to-run noise and recommend epsilon bounds",
		Long: `calibrate invokes the simulation N times (at least 2), diffs every
unordered pair of runs, and aggregates the pairwise statistics. The
recommended epsilon bounds are mean + sigma·std of those statistics; with
the default sigma of 2 they cover roughly 95% of runs under a normality
assumption. The output is advisory: calibrate never passes or fails.`,
		Args: cobra.NoArgs,
		RunE: runCalibrate,
	}
	cmd.Flags().Float64("sigma", 0, "Standard-deviation multiplier for recommended bounds")
	return cmd
}

func runCalibrate(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	log := newLogger(cmd)

	calibration := &harness.Calibration{
		Runs:  cfg.Runs,
		Sigma: cfg.Sigma,
		Out:   out,
		Log:   log,
	}
	sampler := harness.NewSampler(harness.NewInvoker(cfg.Program).Invoke)

	fmt.Fprintf(out, "Computing statistics for %s after %d runs...\n", cfg.Program, cfg.Runs)
	// Evaluate's failures are all typed: insufficient samples maps to an
	// invalid invocation, execution/parse/shape failures to a runtime error.
	report, err := calibration.Evaluate(cmd.Context(), sampler)
	if err != nil {
		return err
	}

	renderCalibration(out, report)

	if cfg.History != "" {
		if err := appendCalibrateHistory(cmd.Context(), cfg, report); err != nil {
			log.Warn("recording history failed", "error", err)
		}
	}
	return nil
}
