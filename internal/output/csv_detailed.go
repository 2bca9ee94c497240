package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/investment-calculator/internal/domain"
	"github.com/rpgo/investment-calculator/pkg/dateutil"
)

// CSVDetailedExporter provides the monthly ledger per scenario. Reports built
// without a ledger fall back to the balance series, leaving the fee columns
// empty.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "detailed-csv" }

func (c CSVDetailedExporter) Format(report *domain.ProjectionReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Month", "Date", "OpeningBalance", "GrossReturn", "GrossFee", "RebatePct", "RebateAmount", "NetFee", "NetReturn", "Contribution", "ClosingBalance", "RealBalance", "CumulativeContributed"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, sc := range report.Scenarios {
		res := sc.Result
		if res == nil {
			continue
		}
		if len(res.Ledger) > 0 {
			for _, r := range res.Ledger {
				row := []string{
					sc.Summary.Name,
					intToString(r.MonthIndex),
					r.Date.Format("2006-01-02"),
					formatAmount(r.OpeningBalance),
					formatAmount(r.GrossReturn),
					formatAmount(r.GrossFee),
					formatRate(r.RebatePct),
					formatAmount(r.RebateAmount),
					formatAmount(r.NetFee),
					formatAmount(r.NetReturn),
					formatAmount(r.TotalContributionThisMonth),
					formatAmount(r.ClosingBalance),
					formatAmount(r.RealBalance),
					formatAmount(res.CumulativeContributionSeries[r.MonthIndex]),
				}
				if err := w.Write(row); err != nil {
					return nil, err
				}
			}
			continue
		}
		for i := range res.NominalSeries {
			row := []string{
				sc.Summary.Name,
				intToString(i),
				dateutil.AddMonths(report.Parameters.StartDate, i).Format("2006-01-02"),
				"", "", "", "", "", "", "", "",
				formatAmount(res.NominalSeries[i]),
				formatAmount(res.RealSeries[i]),
				formatAmount(res.CumulativeContributionSeries[i]),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
