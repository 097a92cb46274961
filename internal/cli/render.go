package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/computacionparalela/tiny-md/internal/harness"
	"github.com/computacionparalela/tiny-md/internal/table"
)

// renderAcceptance prints the final test-mode summary. It always runs before
// exit, whatever the verdict.
func renderAcceptance(w io.Writer, r *harness.AcceptanceReport) {
	fmt.Fprintf(w, "Success rate: %.1f%% (%d/%d runs accepted)\n",
		r.SuccessRate*100, r.Accepted, r.Total)
	fmt.Fprintf(w, "Success threshold: %.1f%%\n", r.Threshold*100)
	if r.Passed {
		fmt.Fprintln(w, "PASS")
	} else {
		fmt.Fprintln(w, "FAIL")
	}
}

// renderCalibration prints the diagnostic mean table, the four aggregate
// statistics per column, and the recommended epsilon profile.
func renderCalibration(w io.Writer, r *harness.CalibrationReport) {
	fmt.Fprintln(w, "average output:")
	for i := 0; i < r.Mean.NumRows(); i++ {
		fmt.Fprintln(w, formatRow(r.Mean.Row(i)))
	}

	fmt.Fprintf(w, "pairwise differences over %d pairs:\n", r.Stats.Pairs)
	fmt.Fprintf(w, "  mean of means: %s\n", formatRow(r.Stats.MeanOfMeans[:]))
	fmt.Fprintf(w, "  std of means:  %s\n", formatRow(r.Stats.StdOfMeans[:]))
	fmt.Fprintf(w, "  mean of stds:  %s\n", formatRow(r.Stats.MeanOfStds[:]))
	fmt.Fprintf(w, "  std of stds:   %s\n", formatRow(r.Stats.StdOfStds[:]))

	fmt.Fprintf(w, "recommended epsilon (mean + %g·std):\n", r.Sigma)
	for c := 0; c < table.ColumnCount; c++ {
		fmt.Fprintf(w, "  %-24s mean=%.6f std=%.6f\n",
			table.ColumnNames[c], r.Recommended.Mean[c], r.Recommended.Std[c])
	}
}

func formatRow(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprintf("%.6f", v)
	}
	return strings.Join(parts, " ")
}
