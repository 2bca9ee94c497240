package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rpgo/investment-calculator/internal/calculation"
)

type rootOptions struct {
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "invcalc",
		Short:         "Investment projection calculator",
		Long:          "Project a savings plan month by month under conservative, moderate and aggressive return scenarios.",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(
		newProjectCmd(opts),
		newValidateCmd(),
		newExampleCmd(),
		newRebatesCmd(),
		newServeCmd(opts),
	)
	return cmd
}

// textLogger builds the CLI logger on stderr.
func (o *rootOptions) textLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: o.level()}))
}

func (o *rootOptions) level() slog.Level {
	if o.verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func newEngine(logger *slog.Logger) *calculation.CalculationEngine {
	engine := calculation.NewCalculationEngine()
	engine.SetLogger(calculation.NewSlogLogger(logger))
	return engine
}
