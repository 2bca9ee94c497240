package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rpgo/investment-calculator/pkg/dateutil"
)

// Configuration is the on-disk and over-the-wire input of a projection run.
type Configuration struct {
	Plan               PlanSettings             `yaml:"plan" json:"plan" toml:"plan"`
	Scenarios          []ScenarioSpec           `yaml:"scenarios" json:"scenarios" toml:"scenarios"`
	ExtraContributions []ExtraContributionEntry `yaml:"extra_contributions,omitempty" json:"extra_contributions,omitempty" toml:"extra_contributions,omitempty"`
}

// PlanSettings holds the inputs shared by every scenario.
type PlanSettings struct {
	Currency            string          `yaml:"currency" json:"currency" toml:"currency"`
	StartDate           time.Time       `yaml:"start_date" json:"start_date" toml:"start_date"`
	TermYears           int             `yaml:"term_years" json:"term_years" toml:"term_years"`
	InitialBalance      decimal.Decimal `yaml:"initial_balance" json:"initial_balance" toml:"initial_balance"`
	MonthlyContribution decimal.Decimal `yaml:"monthly_contribution" json:"monthly_contribution" toml:"monthly_contribution"`
	FeeRatePct          decimal.Decimal `yaml:"fee_rate_pct" json:"fee_rate_pct" toml:"fee_rate_pct"`
	AnnualInflationPct  decimal.Decimal `yaml:"annual_inflation_pct" json:"annual_inflation_pct" toml:"annual_inflation_pct"`
	FeeModel            FeeModel        `yaml:"fee_model" json:"fee_model" toml:"fee_model"`
}

// planJSON mirrors PlanSettings with the start date left as text.
type planJSON struct {
	Currency            string          `json:"currency"`
	StartDate           string          `json:"start_date"`
	TermYears           int             `json:"term_years"`
	InitialBalance      decimal.Decimal `json:"initial_balance"`
	MonthlyContribution decimal.Decimal `json:"monthly_contribution"`
	FeeRatePct          decimal.Decimal `json:"fee_rate_pct"`
	AnnualInflationPct  decimal.Decimal `json:"annual_inflation_pct"`
	FeeModel            FeeModel        `json:"fee_model"`
}

// UnmarshalJSON accepts the start date in any layout dateutil.ParseFlexible
// understands, so API clients can send "2025-01-15".
func (p *PlanSettings) UnmarshalJSON(data []byte) error {
	var aux planJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	start, err := parseStartDate(aux.StartDate)
	if err != nil {
		return err
	}
	*p = PlanSettings{
		Currency:            aux.Currency,
		StartDate:           start,
		TermYears:           aux.TermYears,
		InitialBalance:      aux.InitialBalance,
		MonthlyContribution: aux.MonthlyContribution,
		FeeRatePct:          aux.FeeRatePct,
		AnnualInflationPct:  aux.AnnualInflationPct,
		FeeModel:            aux.FeeModel,
	}
	return nil
}

// UnmarshalYAML decodes start_date from a YAML timestamp or any flexible
// date string; the other keys decode as usual.
func (p *PlanSettings) UnmarshalYAML(value *yaml.Node) error {
	type plain PlanSettings
	if value.Kind != yaml.MappingNode {
		return value.Decode((*plain)(p))
	}
	rest := *value
	rest.Content = nil
	var startText string
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		if key.Value != "start_date" {
			rest.Content = append(rest.Content, key, val)
			continue
		}
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: start_date must be a scalar", val.Line)
		}
		if val.Tag != "!!null" {
			startText = val.Value
		}
	}
	var decoded plain
	if err := rest.Decode(&decoded); err != nil {
		return err
	}
	start, err := parseStartDate(startText)
	if err != nil {
		return err
	}
	decoded.StartDate = start
	*p = PlanSettings(decoded)
	return nil
}

// UnmarshalTOML accepts start_date as a TOML date or a flexible date string.
func (p *PlanSettings) UnmarshalTOML(v interface{}) error {
	table, ok := v.(map[string]interface{})
	if !ok {
		return fmt.Errorf("plan must be a table, got %T", v)
	}
	fields := make(map[string]interface{}, len(table))
	for k, val := range table {
		fields[k] = val
	}
	if t, ok := fields["start_date"].(time.Time); ok {
		fields["start_date"] = t.Format("2006-01-02")
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	return p.UnmarshalJSON(data)
}

func parseStartDate(text string) (time.Time, error) {
	if strings.TrimSpace(text) == "" {
		return time.Time{}, nil
	}
	start, err := dateutil.ParseFlexible(text)
	if err != nil {
		return time.Time{}, fmt.Errorf("start_date: %w", err)
	}
	return start, nil
}

// ScenarioSpec names a risk scenario and its gross annual rate.
type ScenarioSpec struct {
	Name               string          `yaml:"name" json:"name" toml:"name"`
	GrossAnnualRatePct decimal.Decimal `yaml:"gross_annual_rate_pct" json:"gross_annual_rate_pct" toml:"gross_annual_rate_pct"`
}

// Parameters converts the plan into engine parameters. The gross rate is
// left at zero; the runner sets it per scenario.
func (p PlanSettings) Parameters() ScenarioParameters {
	return ScenarioParameters{
		TermYears:           p.TermYears,
		MonthlyContribution: p.MonthlyContribution.InexactFloat64(),
		InitialBalance:      p.InitialBalance.InexactFloat64(),
		FeeRatePct:          p.FeeRatePct.InexactFloat64(),
		AnnualInflationPct:  p.AnnualInflationPct.InexactFloat64(),
		StartDate:           p.StartDate,
	}
}

// DefaultScenarios returns the reference Conservative / Moderate / Aggressive set.
func DefaultScenarios() []ScenarioSpec {
	return []ScenarioSpec{
		{Name: "Conservative", GrossAnnualRatePct: decimal.NewFromInt(9)},
		{Name: "Moderate", GrossAnnualRatePct: decimal.NewFromInt(10)},
		{Name: "Aggressive", GrossAnnualRatePct: decimal.NewFromInt(17)},
	}
}

// Assumptions lists the modeling assumptions of the plan for reports.
func (p PlanSettings) Assumptions() []string {
	model := p.FeeModel
	if model == "" {
		model = FeeModelSimple
	}
	out := []string{
		fmt.Sprintf("Annual inflation: %s%% (compounded monthly when deflating balances)", p.AnnualInflationPct.StringFixed(2)),
		fmt.Sprintf("Management fee: %s%% of returns", p.FeeRatePct.StringFixed(2)),
		fmt.Sprintf("Monthly contribution: %s, initial balance: %s", p.MonthlyContribution.StringFixed(2), p.InitialBalance.StringFixed(2)),
		fmt.Sprintf("Term: %d years starting %s", p.TermYears, p.StartDate.Format("2006-01-02")),
	}
	switch model {
	case FeeModelRebate:
		out = append(out, "Fees charged monthly on gross return, partially refunded by account age and balance tier")
	default:
		out = append(out, "Fees netted from the annual gross rate before monthly compounding")
	}
	return append(out, "Rates are constant user assumptions, not historical data; projections are advisory")
}
