package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/investment-calculator/internal/domain"
)

func result(final float64) *domain.ProjectionResult {
	return &domain.ProjectionResult{
		NominalSeries:       []float64{0, final},
		FinalNominalBalance: final,
	}
}

func TestMemoryCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(4)

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "a", result(1)))
	got, ok, err := c.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1.0, got.FinalNominalBalance)

	require.NoError(t, c.Set(ctx, "a", result(2)))
	got, _, _ = c.Get(ctx, "a")
	assert.Equal(t, 2.0, got.FinalNominalBalance)
	assert.Equal(t, 1, c.Len())
}

func TestMemoryCache_EvictsOldest(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(2)
	require.NoError(t, c.Set(ctx, "a", result(1)))
	require.NoError(t, c.Set(ctx, "b", result(2)))
	require.NoError(t, c.Set(ctx, "c", result(3)))

	assert.Equal(t, 2, c.Len())
	_, ok, _ := c.Get(ctx, "a")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "c")
	assert.True(t, ok)
}

func TestMemoryCache_DefaultSize(t *testing.T) {
	c := NewMemoryCache(0)
	assert.Equal(t, DefaultMemoryEntries, c.max)
}

func TestMemoryCache_Concurrent(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(32)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%8)
			assert.NoError(t, c.Set(ctx, key, result(float64(i))))
			_, _, err := c.Get(ctx, key)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 8, c.Len())
}
