package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rpgo/investment-calculator/internal/calculation"
	"github.com/rpgo/investment-calculator/internal/domain"
	"github.com/rpgo/investment-calculator/pkg/dateutil"
)

// DefaultCurrency is the display label used when a plan names none.
const DefaultCurrency = "₡"

// InputParser handles parsing of input configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads configuration from a YAML, TOML or JSON file. The format
// follows the file extension; anything unrecognized is read as YAML.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var config domain.Configuration
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &config); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	ip.ApplyDefaults(&config)

	// Validate the configuration
	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// ApplyDefaults fills the optional plan fields: currency, fee model, start
// date (today) and the reference scenarios.
func (ip *InputParser) ApplyDefaults(config *domain.Configuration) {
	plan := &config.Plan
	if strings.TrimSpace(plan.Currency) == "" {
		plan.Currency = DefaultCurrency
	}
	if plan.FeeModel == "" {
		plan.FeeModel = domain.FeeModelSimple
	}
	if plan.StartDate.IsZero() {
		plan.StartDate = dateutil.DateOnly(calculation.Now())
	}
	if len(config.Scenarios) == 0 {
		config.Scenarios = domain.DefaultScenarios()
	}
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if config == nil {
		return errors.New("no configuration provided")
	}

	if err := ip.validatePlan(&config.Plan); err != nil {
		return fmt.Errorf("plan validation failed: %w", err)
	}

	// Validate scenarios
	if len(config.Scenarios) == 0 {
		return fmt.Errorf("no scenarios provided")
	}

	seen := make(map[string]bool, len(config.Scenarios))
	for i, scenario := range config.Scenarios {
		if err := ip.validateScenario(&scenario); err != nil {
			return fmt.Errorf("scenario %d validation failed: %w", i, err)
		}
		key := strings.ToLower(strings.TrimSpace(scenario.Name))
		if seen[key] {
			return fmt.Errorf("scenario %d validation failed: duplicate name %q", i, scenario.Name)
		}
		seen[key] = true
	}

	return nil
}

// validatePlan checks the shared plan inputs. Range checks mirror the engine
// preconditions so a valid file never fails at projection time.
func (ip *InputParser) validatePlan(plan *domain.PlanSettings) error {
	switch plan.FeeModel {
	case domain.FeeModelSimple, domain.FeeModelRebate:
	default:
		return fmt.Errorf("unknown fee model %q (want %s or %s)", plan.FeeModel, domain.FeeModelSimple, domain.FeeModelRebate)
	}
	if plan.InitialBalance.IsNegative() {
		return fmt.Errorf("initial balance cannot be negative")
	}
	if plan.MonthlyContribution.IsNegative() {
		return fmt.Errorf("monthly contribution cannot be negative")
	}
	if !plan.InitialBalance.IsPositive() && !plan.MonthlyContribution.IsPositive() {
		return fmt.Errorf("initial balance or monthly contribution must be positive")
	}
	if plan.FeeRatePct.IsNegative() || plan.FeeRatePct.GreaterThanOrEqual(decimal.NewFromInt(100)) {
		return fmt.Errorf("fee rate must be at least 0%% and below 100%%")
	}
	if plan.AnnualInflationPct.IsNegative() {
		return fmt.Errorf("annual inflation cannot be negative")
	}

	return plan.Parameters().Validate()
}

// validateScenario validates a single scenario
func (ip *InputParser) validateScenario(scenario *domain.ScenarioSpec) error {
	if strings.TrimSpace(scenario.Name) == "" {
		return fmt.Errorf("scenario name is required")
	}
	if scenario.GrossAnnualRatePct.IsNegative() {
		return fmt.Errorf("gross annual rate cannot be negative")
	}
	return nil
}

// CreateExampleConfiguration creates an example configuration file
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	start := dateutil.BeginningOfMonth(dateutil.DateOnly(calculation.Now()))

	return &domain.Configuration{
		Plan: domain.PlanSettings{
			Currency:            DefaultCurrency,
			StartDate:           start,
			TermYears:           30,
			InitialBalance:      decimal.Zero,
			MonthlyContribution: decimal.NewFromInt(20000),
			FeeRatePct:          decimal.NewFromInt(10),
			AnnualInflationPct:  decimal.NewFromInt(3),
			FeeModel:            domain.FeeModelSimple,
		},
		Scenarios: domain.DefaultScenarios(),
		ExtraContributions: []domain.ExtraContributionEntry{
			{
				Date:   domain.DateValue(start.AddDate(1, 2, 0)),
				Amount: domain.AmountValue(100000),
				Note:   "Annual bonus",
			},
			{
				Date:   domain.DateValue(start.AddDate(5, 0, 0)),
				Amount: domain.AmountValue(500000),
				Note:   "Savings transfer",
			},
		},
	}
}
