package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rpgo/investment-calculator/internal/config"
	"github.com/rpgo/investment-calculator/internal/output"
)

func newExampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example [file]",
		Short: "Write an example configuration",
		Long:  "Write an example configuration. The extension picks the format: .toml, .json, otherwise YAML.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := "example_config.yaml"
			if len(args) == 1 {
				filename = args[0]
			}
			cfg := config.NewInputParser().CreateExampleConfiguration()
			if err := output.SaveConfiguration(cfg, filename); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  Example configuration written to %s\n", filename)
			return nil
		},
	}
}
