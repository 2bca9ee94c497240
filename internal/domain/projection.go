package domain

import (
	"time"
)

// MonthlyLedgerRow captures every intermediate quantity of one projection month.
type MonthlyLedgerRow struct {
	MonthIndex                 int       `json:"month_index"`
	Date                       time.Time `json:"date"`
	OpeningBalance             float64   `json:"opening_balance"`
	GrossReturn                float64   `json:"gross_return"`
	GrossFee                   float64   `json:"gross_fee"`
	RebatePct                  float64   `json:"rebate_pct"`
	RebateAmount               float64   `json:"rebate_amount"`
	NetFee                     float64   `json:"net_fee"`
	NetReturn                  float64   `json:"net_return"`
	TotalContributionThisMonth float64   `json:"total_contribution_this_month"`
	ClosingBalance             float64   `json:"closing_balance"`
	RealBalance                float64   `json:"real_balance"`
}

// ProjectionResult is the output of a single projection. All series have
// TermMonths+1 entries and index 0 is the starting position. A result is
// never mutated after it is returned, so it may be shared between callers.
type ProjectionResult struct {
	NominalSeries                []float64          `json:"nominal_series"`
	RealSeries                   []float64          `json:"real_series"`
	CumulativeContributionSeries []float64          `json:"cumulative_contribution_series"`
	FinalNominalBalance          float64            `json:"final_nominal_balance"`
	FinalRealBalance             float64            `json:"final_real_balance"`
	TotalContributed             float64            `json:"total_contributed"`
	RejectedEntries              []RejectedEntry    `json:"rejected_entries"`
	Ledger                       []MonthlyLedgerRow `json:"ledger,omitempty"`
}

// TermMonths returns the number of projected months.
func (r *ProjectionResult) TermMonths() int {
	if len(r.NominalSeries) == 0 {
		return 0
	}
	return len(r.NominalSeries) - 1
}

// TotalGain is the nominal growth above everything contributed.
func (r *ProjectionResult) TotalGain() float64 {
	return r.FinalNominalBalance - r.TotalContributed
}

// ReturnOnContributions is TotalGain relative to TotalContributed, or 0 when
// nothing was contributed.
func (r *ProjectionResult) ReturnOnContributions() float64 {
	return SafeRatio(r.TotalGain(), r.TotalContributed)
}

// AnnualView samples a monthly series at month 0 and every 12th month after.
func AnnualView(series []float64) []float64 {
	if len(series) == 0 {
		return nil
	}
	out := make([]float64, 0, len(series)/12+1)
	for i := 0; i < len(series); i += 12 {
		out = append(out, series[i])
	}
	return out
}

// SafeRatio divides num by den, returning 0 when den is 0.
func SafeRatio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// ScenarioSummary provides the key metrics of a projected scenario
type ScenarioSummary struct {
	Name                  string    `json:"name"`
	GrossAnnualRatePct    float64   `json:"gross_annual_rate_pct"`
	NetAnnualRatePct      float64   `json:"net_annual_rate_pct"`
	RealNetAnnualRatePct  float64   `json:"real_net_annual_rate_pct"`
	FinalNominalBalance   float64   `json:"final_nominal_balance"`
	FinalRealBalance      float64   `json:"final_real_balance"`
	TotalContributed      float64   `json:"total_contributed"`
	TotalGain             float64   `json:"total_gain"`
	ReturnOnContributions float64   `json:"return_on_contributions"`
	AnnualNominal         []float64 `json:"annual_nominal"`
	AnnualReal            []float64 `json:"annual_real"`
}

// ScenarioOutcome pairs a scenario summary with its full projection.
type ScenarioOutcome struct {
	Summary ScenarioSummary   `json:"summary"`
	Result  *ProjectionResult `json:"result"`
}

// ProjectionReport is the complete output of a run over all scenarios.
type ProjectionReport struct {
	RunID           string             `json:"run_id"`
	GeneratedAt     time.Time          `json:"generated_at"`
	Currency        string             `json:"currency"`
	FeeModel        FeeModel           `json:"fee_model"`
	Parameters      ScenarioParameters `json:"parameters"`
	ExtraTotal      float64            `json:"extra_contributions_total"`
	Scenarios       []ScenarioOutcome  `json:"scenarios"`
	RejectedEntries []RejectedEntry    `json:"rejected_entries"`
	Assumptions     []string           `json:"assumptions"`
}

// Years returns the labels of the annual view (0..TermYears).
func (r *ProjectionReport) Years() []int {
	years := make([]int, r.Parameters.TermYears+1)
	for i := range years {
		years[i] = i
	}
	return years
}
