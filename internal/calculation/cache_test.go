package calculation

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/investment-calculator/internal/cache"
	"github.com/rpgo/investment-calculator/internal/domain"
)

type countingProjector struct {
	calls atomic.Int32
}

func (c *countingProjector) Project(ctx context.Context, params domain.ScenarioParameters, schedule *ContributionSchedule, opts ProjectionOptions) (*domain.ProjectionResult, error) {
	c.calls.Add(1)
	return PureProjector{}.Project(ctx, params, schedule, opts)
}

type failingCache struct{}

func (failingCache) Get(context.Context, string) (*domain.ProjectionResult, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (failingCache) Set(context.Context, string, *domain.ProjectionResult) error {
	return errors.New("connection refused")
}

func TestProjectionKey(t *testing.T) {
	params := baseParams()
	schedule := NewContributionSchedule(testStart, params.TermMonths(), map[int]float64{4: 1000})

	k1, err := ProjectionKey(params, schedule, ProjectionOptions{})
	require.NoError(t, err)
	k2, err := ProjectionKey(params, NewContributionSchedule(testStart, params.TermMonths(), map[int]float64{4: 1000}), ProjectionOptions{})
	require.NoError(t, err)
	assert.Equal(t, k1, k2)

	variants := map[string]func() (string, error){
		"rate": func() (string, error) {
			return ProjectionKey(params.WithRate(11), schedule, ProjectionOptions{})
		},
		"extras": func() (string, error) {
			other := NewContributionSchedule(testStart, params.TermMonths(), map[int]float64{5: 1000})
			return ProjectionKey(params, other, ProjectionOptions{})
		},
		"fee model": func() (string, error) {
			return ProjectionKey(params, schedule, ProjectionOptions{Rebates: DefaultRebateMatrix()})
		},
		"ledger": func() (string, error) {
			return ProjectionKey(params, schedule, ProjectionOptions{IncludeLedger: true})
		},
	}
	for name, fn := range variants {
		t.Run(name, func(t *testing.T) {
			k, err := fn()
			require.NoError(t, err)
			assert.NotEqual(t, k1, k)
		})
	}
}

func TestCachedProjector_Memoizes(t *testing.T) {
	ctx := context.Background()
	inner := &countingProjector{}
	mem := cache.NewMemoryCache(cache.DefaultMemoryEntries)
	cp := NewCachedProjector(inner, mem, nil)

	params := baseParams()
	first, err := cp.Project(ctx, params, nil, ProjectionOptions{})
	require.NoError(t, err)
	second, err := cp.Project(ctx, params, nil, ProjectionOptions{})
	require.NoError(t, err)

	assert.Equal(t, int32(1), inner.calls.Load())
	assert.Equal(t, 1, mem.Len())
	assert.Equal(t, first.NominalSeries, second.NominalSeries)

	_, err = cp.Project(ctx, params.WithRate(12), nil, ProjectionOptions{})
	require.NoError(t, err)
	assert.Equal(t, int32(2), inner.calls.Load())
}

func TestCachedProjector_HitCarriesCurrentRejections(t *testing.T) {
	ctx := context.Background()
	cp := NewCachedProjector(PureProjector{}, cache.NewMemoryCache(4), nil)
	params := baseParams()

	clean, _ := NormalizeContributions(nil, testStart, params.TermMonths())
	_, err := cp.Project(ctx, params, clean, ProjectionOptions{})
	require.NoError(t, err)

	dirty, rejected := NormalizeContributions([]domain.ExtraContributionEntry{
		{Date: domain.DateText("garbage"), Amount: domain.AmountValue(5)},
	}, testStart, params.TermMonths())
	require.Len(t, rejected, 1)

	res, err := cp.Project(ctx, params, dirty, ProjectionOptions{})
	require.NoError(t, err)
	assert.Equal(t, rejected, res.RejectedEntries)
}

func TestCachedProjector_CacheFailureFallsBack(t *testing.T) {
	inner := &countingProjector{}
	cp := NewCachedProjector(inner, failingCache{}, nil)
	res, err := cp.Project(context.Background(), baseParams(), nil, ProjectionOptions{})
	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.Equal(t, int32(1), inner.calls.Load())
}

func TestCachedProjector_PropagatesInvalidParameters(t *testing.T) {
	cp := NewCachedProjector(PureProjector{}, cache.NewMemoryCache(4), nil)
	params := baseParams()
	params.TermYears = 0
	_, err := cp.Project(context.Background(), params, nil, ProjectionOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidParameters)
}
