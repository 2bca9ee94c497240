package calculation

import (
	"context"
	"strconv"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/rpgo/investment-calculator/internal/cache"
	"github.com/rpgo/investment-calculator/internal/domain"
	"github.com/rpgo/investment-calculator/internal/metrics"
)

// CachedProjector memoizes another Projector on the full input tuple.
// Cache failures fall back to computing the projection.
type CachedProjector struct {
	next   Projector
	cache  cache.Cache
	logger Logger
}

// NewCachedProjector wraps next with the given cache.
func NewCachedProjector(next Projector, c cache.Cache, logger Logger) *CachedProjector {
	if logger == nil {
		logger = NopLogger{}
	}
	return &CachedProjector{next: next, cache: c, logger: logger}
}

// projectionKey is everything a projection result depends on.
type projectionKey struct {
	GrossAnnualRatePct  float64
	TermYears           int
	MonthlyContribution float64
	InitialBalance      float64
	FeeRatePct          float64
	AnnualInflationPct  float64
	StartDate           string
	Extras              map[int]float64
	FeeModel            string
	Rebates             *RebateMatrix
	IncludeLedger       bool
}

// ProjectionKey hashes the full projection input into a cache key.
func ProjectionKey(params domain.ScenarioParameters, schedule *ContributionSchedule, opts ProjectionOptions) (string, error) {
	k := projectionKey{
		GrossAnnualRatePct:  params.GrossAnnualRatePct,
		TermYears:           params.TermYears,
		MonthlyContribution: params.MonthlyContribution,
		InitialBalance:      params.InitialBalance,
		FeeRatePct:          params.FeeRatePct,
		AnnualInflationPct:  params.AnnualInflationPct,
		StartDate:           params.StartDate.Format("2006-01-02"),
		Extras:              schedule.Amounts(),
		FeeModel:            string(opts.FeeModel()),
		Rebates:             opts.Rebates,
		IncludeLedger:       opts.IncludeLedger,
	}
	h, err := hashstructure.Hash(k, hashstructure.FormatV2, nil)
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(h, 16), nil
}

func (cp *CachedProjector) Project(ctx context.Context, params domain.ScenarioParameters, schedule *ContributionSchedule, opts ProjectionOptions) (*domain.ProjectionResult, error) {
	key, err := ProjectionKey(params, schedule, opts)
	if err != nil {
		cp.logger.Warnf("projection cache key failed, computing directly: %v", err)
		return cp.next.Project(ctx, params, schedule, opts)
	}

	cached, ok, err := cp.cache.Get(ctx, key)
	switch {
	case err != nil:
		metrics.CacheLookups.WithLabelValues("error").Inc()
		cp.logger.Warnf("projection cache get %s: %v", key, err)
	case ok:
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		cp.logger.Debugf("projection cache hit %s", key)
		// Series are shared; diagnostics belong to this caller's entries.
		out := *cached
		out.RejectedEntries = schedule.Rejected()
		return &out, nil
	default:
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	res, err := cp.next.Project(ctx, params, schedule, opts)
	if err != nil {
		return nil, err
	}
	if err := cp.cache.Set(ctx, key, res); err != nil {
		cp.logger.Warnf("projection cache set %s: %v", key, err)
	}
	return res, nil
}
