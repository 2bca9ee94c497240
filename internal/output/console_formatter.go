package output

import (
	"bytes"
	"fmt"

	"github.com/rpgo/investment-calculator/internal/domain"
)

// ConsoleFormatter renders the scenario comparison as terminal tables.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *domain.ProjectionReport) ([]byte, error) {
	var buf bytes.Buffer
	p := report.Parameters
	cur := report.Currency

	fmt.Fprintln(&buf, RenderTitle("INVESTMENT PLAN PROJECTION"))
	fmt.Fprintln(&buf, mutedStyle.Render(fmt.Sprintf("  Start %s · %d years · %s fee model · run %s",
		p.StartDate.Format("2006-01-02"), p.TermYears, report.FeeModel, report.RunID)))
	fmt.Fprintln(&buf, mutedStyle.Render(fmt.Sprintf("  Initial %s · Monthly %s · Extra %s · Fee %s · Inflation %s",
		FormatCurrency(p.InitialBalance, cur), FormatCurrency(p.MonthlyContribution, cur),
		FormatCurrency(report.ExtraTotal, cur), FormatPercentage(p.FeeRatePct), FormatPercentage(p.AnnualInflationPct))))
	fmt.Fprintln(&buf)

	summary := Table{
		Title:   "Scenario comparison",
		Headers: []string{"Scenario", "Gross", "Net", "Real net", "Final nominal", "Final real", "Contributed", "Gain", "ROI"},
	}
	for _, sc := range report.Scenarios {
		s := sc.Summary
		summary.Rows = append(summary.Rows, []string{
			s.Name,
			FormatPercentage(s.GrossAnnualRatePct),
			FormatPercentage(s.NetAnnualRatePct),
			FormatPercentage(s.RealNetAnnualRatePct),
			FormatCurrency(s.FinalNominalBalance, cur),
			FormatCurrency(s.FinalRealBalance, cur),
			FormatCurrency(s.TotalContributed, cur),
			FormatCurrency(s.TotalGain, cur),
			FormatPercentage(s.ReturnOnContributions * 100),
		})
	}
	buf.WriteString(RenderTable(summary))
	fmt.Fprintln(&buf)

	buf.WriteString(RenderTable(annualTable(report)))
	for _, sc := range report.Scenarios {
		fmt.Fprintf(&buf, "  %-14s %s\n", sc.Summary.Name, gainStyle.Render(RenderSparkline(sc.Summary.AnnualNominal)))
	}
	fmt.Fprintln(&buf)

	if len(report.RejectedEntries) > 0 {
		rejected := Table{
			Title:   fmt.Sprintf("Ignored extra contributions (%d)", len(report.RejectedEntries)),
			Headers: []string{"Row", "Date", "Amount", "Reason"},
		}
		for _, r := range report.RejectedEntries {
			rejected.Rows = append(rejected.Rows, []string{
				intToString(r.Index + 1),
				r.Entry.Date.String(),
				r.Entry.Amount.String(),
				string(r.Reason),
			})
		}
		buf.WriteString(warnStyle.Render(RenderTable(rejected)))
		fmt.Fprintln(&buf)
	}

	rec := AnalyzeScenarios(report)
	if rec.ScenarioName != "" {
		fmt.Fprintf(&buf, "Highest real outcome: %s (%s, +%s / %s over the weakest scenario)\n",
			rec.ScenarioName, FormatCurrency(rec.FinalRealBalance, cur),
			FormatCurrency(rec.AdvantageOverWorst, cur), FormatPercentage(rec.PercentageAdvantage))
		fmt.Fprintln(&buf)
	}

	fmt.Fprintln(&buf, headerStyle.Render("  Assumptions"))
	for _, a := range reportAssumptions(report) {
		fmt.Fprintln(&buf, mutedStyle.Render("  • "+a))
	}
	return buf.Bytes(), nil
}

// annualTable lays out the nominal balance of every scenario at each
// anniversary of the start date.
func annualTable(report *domain.ProjectionReport) Table {
	t := Table{
		Title:   "Nominal balance by year",
		Headers: []string{"Year"},
	}
	for _, sc := range report.Scenarios {
		t.Headers = append(t.Headers, sc.Summary.Name)
	}
	for _, year := range report.Years() {
		row := []string{intToString(year)}
		for _, sc := range report.Scenarios {
			cell := ""
			if year < len(sc.Summary.AnnualNominal) {
				cell = FormatCurrency(sc.Summary.AnnualNominal[year], report.Currency)
			}
			row = append(row, cell)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
