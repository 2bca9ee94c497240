package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	calc "github.com/rpgo/investment-calculator/internal/calculation"
	"github.com/rpgo/investment-calculator/internal/config"
)

// Prints the yearly fee and rebate totals of every scenario, then the
// cumulative gap between the first two scenarios.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: debug_fee_drag <config-file>")
		return
	}
	f := os.Args[1]
	p := config.NewInputParser()
	cfg, err := p.LoadFromFile(f)
	if err != nil {
		panic(err)
	}
	engine := calc.NewCalculationEngine()
	res, err := engine.RunScenarios(context.Background(), cfg, true)
	if err != nil {
		panic(err)
	}
	if len(res.Scenarios) < 1 {
		fmt.Println("no scenarios")
		return
	}

	// Header
	header := "Year"
	for i := range res.Scenarios {
		header += fmt.Sprintf(",S%d_Return,S%d_Fee,S%d_Rebate,S%d_Closing", i+1, i+1, i+1, i+1)
	}
	fmt.Println(header)

	years := cfg.Plan.TermYears
	for y := 1; y <= years; y++ {
		row := fmt.Sprintf("%d", y)
		for _, s := range res.Scenarios {
			var ret, fee, rebate decimal.Decimal
			ledger := s.Result.Ledger
			for m := (y-1)*12 + 1; m <= y*12 && m < len(ledger); m++ {
				ret = ret.Add(decimal.NewFromFloat(ledger[m].GrossReturn))
				fee = fee.Add(decimal.NewFromFloat(ledger[m].NetFee))
				rebate = rebate.Add(decimal.NewFromFloat(ledger[m].RebateAmount))
			}
			closing := decimal.NewFromFloat(s.Result.NominalSeries[y*12])
			row += fmt.Sprintf(",%s,%s,%s,%s", ret.StringFixed(0), fee.StringFixed(0), rebate.StringFixed(0), closing.StringFixed(0))
		}
		fmt.Println(row)
	}

	// If at least two scenarios, show how the real gap opens up year by year
	if len(res.Scenarios) >= 2 {
		a := res.Scenarios[0].Result.RealSeries
		b := res.Scenarios[1].Result.RealSeries
		for i := 12; i < len(a) && i < len(b); i += 12 {
			gap := decimal.NewFromFloat(b[i]).Sub(decimal.NewFromFloat(a[i]))
			fmt.Printf("Year %d: realA=%.0f realB=%.0f gap=%s\n", i/12, a[i], b[i], gap.StringFixed(0))
		}
	}
}
