package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rpgo/investment-calculator/internal/calculation"
	"github.com/rpgo/investment-calculator/internal/output"
)

func newRebatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebates",
		Short: "Show the fee-rebate table used by the rebate fee model",
		RunE: func(cmd *cobra.Command, _ []string) error {
			m := calculation.DefaultRebateMatrix()

			headers := append([]string{"Account age"}, m.BalanceLabels()...)
			rows := make([][]string, 0, len(m.Rates))
			for i, label := range m.AgeLabels() {
				row := []string{label}
				for _, r := range m.Rates[i] {
					row = append(row, output.FormatPercentage(r))
				}
				rows = append(rows, row)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out)
			fmt.Fprintln(out, output.RenderTitle("FEE REBATES  % of fee refunded"))
			fmt.Fprintln(out)
			fmt.Fprint(out, output.RenderTable(output.Table{Headers: headers, Rows: rows}))
			return nil
		},
	}
}
