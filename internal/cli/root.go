// Package cli wires the statistical harness into the mdverify command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/computacionparalela/tiny-md/internal/config"
)

var version = "0.2.0-dev"

// NewRootCommand builds the mdverify command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "mdverify",
		Short: "Statistical acceptance harness for the tiny_md simulation",
		Long: `mdverify repeatedly runs the tiny_md simulation and checks that its
output stays statistically close to a recorded baseline, despite the
run-to-run variance inherent in floating-point reductions.

Modes:
  test       compare runs against the baseline and gate on a success rate
  calibrate  estimate run-to-run noise and recommend epsilon bounds`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "Path to a YAML config file")
	root.PersistentFlags().String("program", "", "Path of the simulation executable")
	root.PersistentFlags().Int("runs", 0, "Number of simulation runs")
	root.PersistentFlags().String("history", "", "Path of a SQLite run-history database")
	root.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	root.AddCommand(
		newTestCmd(),
		newCalibrateCmd(),
		newHistoryCmd(),
		newVersionCmd(),
	)
	return root
}

// Run is the black-box CLI entrypoint: it executes args against a fresh
// command tree and returns the process exit code. Errors other than a FAIL
// verdict are printed to stderr.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(stderr, "mdverify:", err)
	}
	return ExitCode(err)
}

// resolveConfig layers defaults, the optional YAML file, then explicitly set
// flags, and validates the result.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()

	path, _ := flags.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, exitErrorf(ExitConfigError, err)
	}

	if flags.Changed("program") {
		cfg.Program, _ = flags.GetString("program")
	}
	if flags.Changed("runs") {
		cfg.Runs, _ = flags.GetInt("runs")
	}
	if flags.Changed("history") {
		cfg.History, _ = flags.GetString("history")
	}
	if flags.Changed("baseline") {
		cfg.Baseline, _ = flags.GetString("baseline")
	}
	if flags.Changed("threshold") {
		cfg.SuccessThreshold, _ = flags.GetFloat64("threshold")
	}
	if flags.Changed("mean-epsilon") {
		cfg.Epsilon.Mean, _ = flags.GetFloat64Slice("mean-epsilon")
	}
	if flags.Changed("std-epsilon") {
		cfg.Epsilon.Std, _ = flags.GetFloat64Slice("std-epsilon")
	}
	if flags.Changed("sigma") {
		cfg.Sigma, _ = flags.GetFloat64("sigma")
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, exitErrorf(ExitInvalidInvocation, err)
	}
	return cfg, nil
}

// newLogger builds the diagnostic logger; user-facing output goes through
// the command's stdout instead.
func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
