package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/investment-calculator/internal/domain"
)

// CSVSummarizer implements the simple summary CSV output (one row per scenario).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(report *domain.ProjectionReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "GrossAnnualRatePct", "NetAnnualRatePct", "RealNetAnnualRatePct", "FinalNominalBalance", "FinalRealBalance", "TotalContributed", "TotalGain", "ReturnOnContributions", "Currency"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, sc := range report.Scenarios {
		s := sc.Summary
		row := []string{
			s.Name,
			formatRate(s.GrossAnnualRatePct),
			formatRate(s.NetAnnualRatePct),
			formatRate(s.RealNetAnnualRatePct),
			formatAmount(s.FinalNominalBalance),
			formatAmount(s.FinalRealBalance),
			formatAmount(s.TotalContributed),
			formatAmount(s.TotalGain),
			formatRate(s.ReturnOnContributions),
			report.Currency,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
