package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rpgo/investment-calculator/internal/calculation"
	"github.com/rpgo/investment-calculator/internal/config"
	"github.com/rpgo/investment-calculator/pkg/dateutil"
)

func newValidateCmd() *cobra.Command {
	var configFile string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewInputParser().LoadFromFile(configFile)
			if err != nil {
				return err
			}

			plan := cfg.Plan
			termMonths := plan.TermYears * 12
			schedule, rejected := calculation.NormalizeContributions(cfg.ExtraContributions, plan.StartDate, termMonths)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "  Configuration is valid: %s\n", configFile)
			fmt.Fprintf(out, "    Start:     %s\n", dateutil.DateOnly(plan.StartDate).Format("2006-01-02"))
			fmt.Fprintf(out, "    Term:      %d years (%d months)\n", plan.TermYears, termMonths)
			fmt.Fprintf(out, "    Fee model: %s\n", plan.FeeModel)
			fmt.Fprintf(out, "    Scenarios: %d\n", len(cfg.Scenarios))
			fmt.Fprintf(out, "    Extras:    %d scheduled, %d rejected\n", schedule.Len(), len(rejected))
			for _, r := range rejected {
				fmt.Fprintf(out, "      row %d: %s %s\n", r.Index+1, r.Reason, r.Detail)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Configuration file (YAML, TOML or JSON)")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}
