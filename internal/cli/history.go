package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/computacionparalela/tiny-md/internal/config"
	"github.com/computacionparalela/tiny-md/internal/harness"
	"github.com/computacionparalela/tiny-md/internal/history"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded harness invocations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.History == "" {
				return exitErrorf(ExitInvalidInvocation,
					fmt.Errorf("no history database configured; pass --history"))
			}
			limit, _ := cmd.Flags().GetInt("limit")

			store, err := history.Open(cfg.History)
			if err != nil {
				return exitErrorf(ExitConfigError, err)
			}
			defer store.Close()

			recs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return exitErrorf(ExitRuntimeError, err)
			}
			out := cmd.OutOrStdout()
			for _, r := range recs {
				line := fmt.Sprintf("%s  %-9s runs=%d", r.RecordedAt.Format("2006-01-02 15:04:05"), r.Mode, r.NumRuns)
				if r.SuccessRate != nil {
					line += fmt.Sprintf("  rate=%.1f%%", *r.SuccessRate*100)
				}
				if r.Verdict != "" {
					line += "  " + r.Verdict
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	cmd.Flags().Int("limit", 20, "Maximum number of records to show")
	return cmd
}

// testDetails is the JSON persisted for a test-mode record.
type testDetails struct {
	Rejected []rejectedRun `json:"rejected,omitempty"`
}

type rejectedRun struct {
	Run        int      `json:"run"`
	Violations []string `json:"violations"`
}

func appendTestHistory(ctx context.Context, cfg config.Config, report *harness.AcceptanceReport) error {
	store, err := history.Open(cfg.History)
	if err != nil {
		return err
	}
	defer store.Close()

	var details testDetails
	for _, o := range report.Outcomes {
		if o.Accepted {
			continue
		}
		rr := rejectedRun{Run: o.Index}
		for _, v := range o.Violations {
			rr.Violations = append(rr.Violations, v.String())
		}
		details.Rejected = append(details.Rejected, rr)
	}
	payload, err := json.Marshal(details)
	if err != nil {
		return err
	}

	verdict := "FAIL"
	if report.Passed {
		verdict = "PASS"
	}
	rate := report.SuccessRate
	return store.Append(ctx, history.Record{
		Mode:        "test",
		NumRuns:     report.Total,
		SuccessRate: &rate,
		Verdict:     verdict,
		Details:     string(payload),
	})
}

// calibrateDetails is the JSON persisted for a calibrate-mode record.
type calibrateDetails struct {
	Sigma       float64   `json:"sigma"`
	MeanEpsilon []float64 `json:"mean_epsilon"`
	StdEpsilon  []float64 `json:"std_epsilon"`
}

func appendCalibrateHistory(ctx context.Context, cfg config.Config, report *harness.CalibrationReport) error {
	store, err := history.Open(cfg.History)
	if err != nil {
		return err
	}
	defer store.Close()

	payload, err := json.Marshal(calibrateDetails{
		Sigma:       report.Sigma,
		MeanEpsilon: report.Recommended.Mean,
		StdEpsilon:  report.Recommended.Std,
	})
	if err != nil {
		return err
	}
	return store.Append(ctx, history.Record{
		Mode:    "calibrate",
		NumRuns: report.Runs,
		Details: string(payload),
	})
}
