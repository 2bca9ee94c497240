package calculation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/rpgo/investment-calculator/internal/cache"
	"github.com/rpgo/investment-calculator/internal/domain"
	"github.com/rpgo/investment-calculator/internal/metrics"
)

// defaultParallelism bounds concurrent scenario projections.
const defaultParallelism = 4

// CalculationEngine orchestrates a scenario comparison run: it normalizes the
// extra contributions once and projects every scenario against them.
type CalculationEngine struct {
	Projector   Projector
	Rebates     *RebateMatrix
	Logger      Logger
	Parallelism int
}

// NewCalculationEngine creates an engine computing every projection directly.
func NewCalculationEngine() *CalculationEngine {
	return &CalculationEngine{
		Projector:   PureProjector{},
		Rebates:     DefaultRebateMatrix(),
		Logger:      NopLogger{},
		Parallelism: defaultParallelism,
	}
}

// NewCachedCalculationEngine creates an engine memoizing projections in c.
func NewCachedCalculationEngine(c cache.Cache, logger Logger) *CalculationEngine {
	ce := NewCalculationEngine()
	ce.SetLogger(logger)
	ce.Projector = NewCachedProjector(PureProjector{}, c, ce.Logger)
	return ce
}

// SetLogger sets the logger for the calculation engine. If nil is provided, a no-op logger is used.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

// Options returns the projection options for a fee model.
func (ce *CalculationEngine) Options(model domain.FeeModel, includeLedger bool) (ProjectionOptions, error) {
	opts := ProjectionOptions{IncludeLedger: includeLedger}
	switch model {
	case "", domain.FeeModelSimple:
	case domain.FeeModelRebate:
		opts.Rebates = ce.Rebates
		if opts.Rebates == nil {
			opts.Rebates = DefaultRebateMatrix()
		}
	default:
		return opts, fmt.Errorf("%w: unknown fee model %q", domain.ErrInvalidParameters, model)
	}
	return opts, nil
}

// RunScenarios projects every configured scenario (the three reference
// scenarios when none are configured) and assembles a report. Scenarios are
// independent and run concurrently; report order follows configuration order.
func (ce *CalculationEngine) RunScenarios(ctx context.Context, config *domain.Configuration, includeLedger bool) (*domain.ProjectionReport, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: no configuration", domain.ErrInvalidParameters)
	}
	base := config.Plan.Parameters()
	if err := base.Validate(); err != nil {
		return nil, err
	}
	opts, err := ce.Options(config.Plan.FeeModel, includeLedger)
	if err != nil {
		return nil, err
	}

	scenarios := config.Scenarios
	if len(scenarios) == 0 {
		scenarios = domain.DefaultScenarios()
	}

	schedule, rejected := NormalizeContributions(config.ExtraContributions, base.StartDate, base.TermMonths())
	for _, r := range rejected {
		metrics.RejectedEntries.WithLabelValues(string(r.Reason)).Inc()
		ce.Logger.Debugf("extra contribution %d rejected (%s): %s", r.Index, r.Reason, r.Detail)
	}
	ce.Logger.Infof("projecting %d scenarios over %d months with %d extra contribution months (%d rejected)",
		len(scenarios), base.TermMonths(), schedule.Len(), len(rejected))

	parallel := ce.Parallelism
	if parallel <= 0 {
		parallel = defaultParallelism
	}

	outcomes := make([]domain.ScenarioOutcome, len(scenarios))
	errs := make([]error, len(scenarios))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, parallel) // Limit concurrency

	for i, sc := range scenarios {
		wg.Add(1)
		go func(idx int, sc domain.ScenarioSpec) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire semaphore
			defer func() { <-semaphore }() // Release semaphore

			if err := ctx.Err(); err != nil {
				errs[idx] = err
				return
			}
			params := base.WithRate(sc.GrossAnnualRatePct.InexactFloat64())
			res, err := ce.Projector.Project(ctx, params, schedule, opts)
			if err != nil {
				errs[idx] = fmt.Errorf("scenario %q: %w", sc.Name, err)
				return
			}
			outcomes[idx] = domain.ScenarioOutcome{
				Summary: Summarize(sc.Name, params, res),
				Result:  res,
			}
		}(i, sc)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		ce.Logger.Errorf("scenario run failed: %v", err)
		return nil, err
	}
	metrics.ScenarioRuns.Inc()

	currency := config.Plan.Currency
	model := opts.FeeModel()
	if rejected == nil {
		rejected = []domain.RejectedEntry{}
	}
	return &domain.ProjectionReport{
		RunID:           uuid.NewString(),
		GeneratedAt:     nowFunc(),
		Currency:        currency,
		FeeModel:        model,
		Parameters:      base,
		ExtraTotal:      schedule.Total(),
		Scenarios:       outcomes,
		RejectedEntries: rejected,
		Assumptions:     config.Plan.Assumptions(),
	}, nil
}

// Summarize derives the headline metrics of one scenario.
func Summarize(name string, params domain.ScenarioParameters, res *domain.ProjectionResult) domain.ScenarioSummary {
	net := NetAnnualRate(params.GrossAnnualRatePct, params.FeeRatePct)
	return domain.ScenarioSummary{
		Name:                  name,
		GrossAnnualRatePct:    params.GrossAnnualRatePct,
		NetAnnualRatePct:      net,
		RealNetAnnualRatePct:  RealAnnualRate(net, params.AnnualInflationPct),
		FinalNominalBalance:   res.FinalNominalBalance,
		FinalRealBalance:      res.FinalRealBalance,
		TotalContributed:      res.TotalContributed,
		TotalGain:             res.TotalGain(),
		ReturnOnContributions: res.ReturnOnContributions(),
		AnnualNominal:         domain.AnnualView(res.NominalSeries),
		AnnualReal:            domain.AnnualView(res.RealSeries),
	}
}
