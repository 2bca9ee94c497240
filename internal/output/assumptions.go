package output

import "github.com/rpgo/investment-calculator/internal/domain"

// DefaultAssumptions lists key modeling assumptions rendered when a report
// carries none of its own.
var DefaultAssumptions = []string{
	"Returns compound monthly at the effective monthly equivalent of the annual rate",
	"Contributions are deposited at the end of each month",
	"Extra contributions are credited at the end of their calendar month",
	"Real balances are deflated by monthly-compounded inflation",
	"Rates are constant user assumptions, not historical data; projections are advisory",
}

// reportAssumptions returns the report's own assumptions, or the defaults.
func reportAssumptions(report *domain.ProjectionReport) []string {
	if len(report.Assumptions) > 0 {
		return report.Assumptions
	}
	return DefaultAssumptions
}
