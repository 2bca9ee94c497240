package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/investment-calculator/internal/calculation"
	"github.com/rpgo/investment-calculator/internal/config"
	"github.com/rpgo/investment-calculator/internal/domain"
)

func TestEndToEndCalculation(t *testing.T) {
	// Test that we can load a configuration and run calculations
	parser := config.NewInputParser()
	cfg, err := parser.LoadFromFile("../testdata/example_config.yaml")
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Len(t, cfg.Scenarios, 3)

	engine := calculation.NewCalculationEngine()
	require.NotNil(t, engine)

	report, err := engine.RunScenarios(context.Background(), cfg, false)
	require.NoError(t, err)
	require.Len(t, report.Scenarios, 3)

	// Verify basic results
	assert.NotEmpty(t, report.RunID)
	assert.InDelta(t, 600000.0, report.ExtraTotal, 1e-6)
	assert.Len(t, report.RejectedEntries, 4)
	for _, s := range report.Scenarios {
		assert.Len(t, s.Result.NominalSeries, 361)
		assert.InDelta(t, 20000.0*360+600000, s.Summary.TotalContributed, 1e-6)
		assert.Greater(t, s.Summary.FinalNominalBalance, s.Summary.FinalRealBalance)
		assert.Greater(t, s.Summary.FinalRealBalance, 0.0)
	}

	// Higher gross rate, larger balance
	assert.Less(t, report.Scenarios[0].Summary.FinalNominalBalance, report.Scenarios[1].Summary.FinalNominalBalance)
	assert.Less(t, report.Scenarios[1].Summary.FinalNominalBalance, report.Scenarios[2].Summary.FinalNominalBalance)
}

func TestRejectedEntriesReported(t *testing.T) {
	parser := config.NewInputParser()
	cfg, err := parser.LoadFromFile("../testdata/example_config.yaml")
	require.NoError(t, err)

	report, err := calculation.NewCalculationEngine().RunScenarios(context.Background(), cfg, false)
	require.NoError(t, err)

	var reasons []domain.RejectReason
	for _, r := range report.RejectedEntries {
		reasons = append(reasons, r.Reason)
	}
	assert.Equal(t, []domain.RejectReason{
		domain.RejectInvalidDate,
		domain.RejectBeforeStart,
		domain.RejectAfterTerm,
		domain.RejectInvalidAmount,
	}, reasons)
}

func TestRebateConfiguration(t *testing.T) {
	parser := config.NewInputParser()
	cfg, err := parser.LoadFromFile("../testdata/rebate_config.toml")
	require.NoError(t, err)
	assert.Equal(t, domain.FeeModelRebate, cfg.Plan.FeeModel)
	assert.Len(t, cfg.Scenarios, 3, "default scenarios are filled in")

	report, err := calculation.NewCalculationEngine().RunScenarios(context.Background(), cfg, true)
	require.NoError(t, err)
	assert.Empty(t, report.RejectedEntries)
	assert.Equal(t, "$", report.Currency)

	for _, s := range report.Scenarios {
		ledger := s.Result.Ledger
		require.Len(t, ledger, 121)
		assert.InDelta(t, 1500000.0, ledger[0].TotalContributionThisMonth, 1e-6)

		var rebated bool
		for _, row := range ledger[1:] {
			assert.InDelta(t, row.GrossFee-row.RebateAmount, row.NetFee, 1e-6)
			if row.RebateAmount > 0 {
				rebated = true
			}
		}
		assert.True(t, rebated, "%s earned no rebate", s.Summary.Name)
	}
}

func TestConfigurationValidation(t *testing.T) {
	parser := config.NewInputParser()

	// Test valid configuration
	cfg, err := parser.LoadFromFile("../testdata/example_config.yaml")
	require.NoError(t, err)

	// Test that validation works
	assert.NoError(t, parser.ValidateConfiguration(cfg))

	cfg.Scenarios = append(cfg.Scenarios, domain.ScenarioSpec{Name: "moderate"})
	assert.ErrorContains(t, parser.ValidateConfiguration(cfg), "duplicate name")
}
