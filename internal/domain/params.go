package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidParameters marks a violated projection precondition. Callers are
// expected to validate configuration first; the engine refuses to run on it.
var ErrInvalidParameters = errors.New("invalid projection parameters")

// Term limits accepted by the projection engine.
const (
	MinTermYears = 1
	MaxTermYears = 50
)

// FeeModel selects how management fees are charged.
type FeeModel string

const (
	// FeeModelSimple nets the fee out of the annual gross rate up front.
	FeeModelSimple FeeModel = "simple"
	// FeeModelRebate charges the fee monthly on gross return and refunds part
	// of it according to the fee-rebate matrix.
	FeeModelRebate FeeModel = "rebate"
)

// ScenarioParameters holds the scalar inputs of a single projection run.
// Values are immutable for the duration of a run.
type ScenarioParameters struct {
	GrossAnnualRatePct  float64   `json:"gross_annual_rate_pct"`
	TermYears           int       `json:"term_years"`
	MonthlyContribution float64   `json:"monthly_contribution"`
	InitialBalance      float64   `json:"initial_balance"`
	FeeRatePct          float64   `json:"fee_rate_pct"`
	AnnualInflationPct  float64   `json:"annual_inflation_pct"`
	StartDate           time.Time `json:"start_date"`
}

// TermMonths returns the projection length in months.
func (p ScenarioParameters) TermMonths() int {
	return int(math.Round(float64(p.TermYears) * 12))
}

// WithRate returns a copy of the parameters using a different gross rate.
func (p ScenarioParameters) WithRate(grossAnnualRatePct float64) ScenarioParameters {
	p.GrossAnnualRatePct = grossAnnualRatePct
	return p
}

// Validate checks the engine preconditions. The returned error wraps
// ErrInvalidParameters.
func (p ScenarioParameters) Validate() error {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidParameters, fmt.Sprintf(format, args...))
	}
	for name, v := range map[string]float64{
		"gross annual rate":    p.GrossAnnualRatePct,
		"monthly contribution": p.MonthlyContribution,
		"initial balance":      p.InitialBalance,
		"fee rate":             p.FeeRatePct,
		"annual inflation":     p.AnnualInflationPct,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fail("%s must be a finite number", name)
		}
	}
	if p.GrossAnnualRatePct < 0 {
		return fail("gross annual rate cannot be negative")
	}
	if p.TermYears < MinTermYears || p.TermYears > MaxTermYears {
		return fail("term must be between %d and %d years, got %d", MinTermYears, MaxTermYears, p.TermYears)
	}
	if p.MonthlyContribution < 0 {
		return fail("monthly contribution cannot be negative")
	}
	if p.InitialBalance < 0 {
		return fail("initial balance cannot be negative")
	}
	if p.FeeRatePct < 0 || p.FeeRatePct >= 100 {
		return fail("fee rate must be in [0, 100), got %g", p.FeeRatePct)
	}
	if p.AnnualInflationPct < 0 {
		return fail("annual inflation cannot be negative")
	}
	if p.StartDate.IsZero() {
		return fail("start date is required")
	}
	if p.InitialBalance <= 0 && p.MonthlyContribution <= 0 {
		return fail("initial balance or monthly contribution must be positive")
	}
	return nil
}
