// Package cache holds memoized projection results. Implementations include
// an in-process LRU-style map and Redis for sharing across server replicas.
// Results are pure functions of their key, so a cache may drop entries at
// any time without affecting correctness.
package cache

import (
	"context"

	"github.com/rpgo/investment-calculator/internal/domain"
)

// Cache stores projection results by input hash.
type Cache interface {
	// Get returns the cached result for key; ok is false on a miss.
	Get(ctx context.Context, key string) (result *domain.ProjectionResult, ok bool, err error)

	// Set stores result under key.
	Set(ctx context.Context, key string, result *domain.ProjectionResult) error
}
