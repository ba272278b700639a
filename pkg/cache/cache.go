package cache

import (
	"context"
	"time"

	"github.com/amirasaad/fxconverter/pkg/domain"
)

// RateTableCache defines the interface for caching fetched rate tables.
// Get returns (nil, nil) on a miss or an expired entry.
type RateTableCache interface {
	Get(ctx context.Context, key string) (*domain.RateSnapshot, error)
	Set(ctx context.Context, key string, snap *domain.RateSnapshot, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
