package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rpgo/investment-calculator/internal/config"
	"github.com/rpgo/investment-calculator/internal/domain"
	"github.com/rpgo/investment-calculator/internal/output"
	"github.com/rpgo/investment-calculator/pkg/dateutil"
)

type projectOptions struct {
	configFile   string
	initial      float64
	monthly      float64
	years        int
	inflation    float64
	fee          float64
	conservative float64
	moderate     float64
	aggressive   float64
	start        string
	currency     string
	feeModel     string
	extras       []string
	format       string
	outputDir    string
	ledger       bool
}

func newProjectCmd(root *rootOptions) *cobra.Command {
	opts := &projectOptions{}
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Run the scenario projections",
		Long: "Run every scenario of a configuration file, or of a plan described by flags, " +
			"and render the comparison. The console format prints to stdout; other formats write files.",
		Example: `  invcalc project --monthly 25000 --years 25
  invcalc project --config plan.yaml --format all --output-dir reports
  invcalc project --extra 2026-12-15=150000 --extra "01/06/2027=₡ 80,000"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProject(cmd, root, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configFile, "config", "c", "", "Configuration file (YAML, TOML or JSON)")
	f.Float64Var(&opts.initial, "initial", 0, "Initial balance")
	f.Float64Var(&opts.monthly, "monthly", 20000, "Monthly contribution")
	f.IntVar(&opts.years, "years", 30, "Term in years")
	f.Float64Var(&opts.inflation, "inflation", 3, "Annual inflation (%)")
	f.Float64Var(&opts.fee, "fee", 10, "Management fee on returns (%)")
	f.Float64Var(&opts.conservative, "conservative", 9, "Conservative gross annual rate (%)")
	f.Float64Var(&opts.moderate, "moderate", 10, "Moderate gross annual rate (%)")
	f.Float64Var(&opts.aggressive, "aggressive", 17, "Aggressive gross annual rate (%)")
	f.StringVar(&opts.start, "start", "", "Plan start date (default today)")
	f.StringVar(&opts.currency, "currency", config.DefaultCurrency, "Currency label")
	f.StringVar(&opts.feeModel, "fee-model", string(domain.FeeModelSimple), "Fee model: simple or rebate")
	f.StringArrayVar(&opts.extras, "extra", nil, "Extra contribution as DATE=AMOUNT (repeatable)")
	f.StringVarP(&opts.format, "format", "f", "console", "Output format ("+strings.Join(output.AvailableFormatterNames(), ", ")+", all)")
	f.StringVarP(&opts.outputDir, "output-dir", "o", ".", "Directory for file outputs")
	f.BoolVar(&opts.ledger, "ledger", false, "Include the monthly ledger")
	return cmd
}

func runProject(cmd *cobra.Command, root *rootOptions, opts *projectOptions) error {
	logger := root.textLogger(cmd.ErrOrStderr())
	parser := config.NewInputParser()

	var (
		cfg *domain.Configuration
		err error
	)
	if opts.configFile != "" {
		cfg, err = parser.LoadFromFile(opts.configFile)
		if err != nil {
			return err
		}
		logger.Debug("configuration loaded", "file", opts.configFile, "scenarios", len(cfg.Scenarios))
	} else {
		cfg, err = opts.configuration()
		if err != nil {
			return err
		}
		parser.ApplyDefaults(cfg)
		if err := parser.ValidateConfiguration(cfg); err != nil {
			return fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	format := output.NormalizeFormatName(opts.format)
	report, err := newEngine(logger).RunScenarios(cmd.Context(), cfg, opts.ledger || output.NeedsLedger(format))
	if err != nil {
		return fmt.Errorf("projection failed: %w", err)
	}
	for _, r := range report.RejectedEntries {
		logger.Warn("extra contribution ignored", "row", r.Index+1, "reason", r.Reason, "detail", r.Detail)
	}

	if format == "console" {
		b, err := output.ConsoleFormatter{}.Format(report)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(b)
		return err
	}

	files, err := output.GenerateReport(report, format, opts.outputDir)
	if err != nil {
		return err
	}
	for _, name := range files {
		fmt.Fprintf(cmd.OutOrStdout(), "  Wrote %s\n", name)
	}
	return nil
}

// configuration builds a plan from the command-line flags.
func (o *projectOptions) configuration() (*domain.Configuration, error) {
	cfg := &domain.Configuration{
		Plan: domain.PlanSettings{
			Currency:            o.currency,
			TermYears:           o.years,
			InitialBalance:      decimal.NewFromFloat(o.initial),
			MonthlyContribution: decimal.NewFromFloat(o.monthly),
			FeeRatePct:          decimal.NewFromFloat(o.fee),
			AnnualInflationPct:  decimal.NewFromFloat(o.inflation),
			FeeModel:            domain.FeeModel(strings.ToLower(strings.TrimSpace(o.feeModel))),
		},
		Scenarios: []domain.ScenarioSpec{
			{Name: "Conservative", GrossAnnualRatePct: decimal.NewFromFloat(o.conservative)},
			{Name: "Moderate", GrossAnnualRatePct: decimal.NewFromFloat(o.moderate)},
			{Name: "Aggressive", GrossAnnualRatePct: decimal.NewFromFloat(o.aggressive)},
		},
	}
	if o.start != "" {
		start, err := dateutil.ParseFlexible(o.start)
		if err != nil {
			return nil, fmt.Errorf("--start: %w", err)
		}
		cfg.Plan.StartDate = start
	}
	for _, raw := range o.extras {
		date, amount, ok := strings.Cut(raw, "=")
		if !ok {
			return nil, fmt.Errorf("--extra %q: want DATE=AMOUNT", raw)
		}
		cfg.ExtraContributions = append(cfg.ExtraContributions, domain.ExtraContributionEntry{
			Date:   domain.DateCell{Text: strings.TrimSpace(date)},
			Amount: domain.AmountCell{Text: strings.TrimSpace(amount)},
		})
	}
	return cfg, nil
}
