package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/investment-calculator/internal/domain"
	"github.com/rpgo/investment-calculator/pkg/dateutil"
)

// CSVAnnualExporter writes the year-by-scenario balance grid used for charts:
// one row per anniversary, nominal and real columns per scenario.
type CSVAnnualExporter struct{}

func (c CSVAnnualExporter) Name() string { return "annual-csv" }

func (c CSVAnnualExporter) Format(report *domain.ProjectionReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Year", "Date"}
	for _, sc := range report.Scenarios {
		header = append(header, sc.Summary.Name+" Nominal", sc.Summary.Name+" Real")
	}
	header = append(header, "Contributed")
	if err := w.Write(header); err != nil {
		return nil, err
	}

	var contributed []float64
	if len(report.Scenarios) > 0 && report.Scenarios[0].Result != nil {
		contributed = domain.AnnualView(report.Scenarios[0].Result.CumulativeContributionSeries)
	}

	for _, year := range report.Years() {
		row := []string{
			intToString(year),
			dateutil.AddMonths(report.Parameters.StartDate, year*12).Format("2006-01-02"),
		}
		for _, sc := range report.Scenarios {
			row = append(row, annualCell(sc.Summary.AnnualNominal, year), annualCell(sc.Summary.AnnualReal, year))
		}
		row = append(row, annualCell(contributed, year))
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func annualCell(series []float64, year int) string {
	if year >= len(series) {
		return ""
	}
	return formatAmount(series[year])
}
