package provider

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/fxconverter/pkg/cache"
	"github.com/amirasaad/fxconverter/pkg/domain"
	"github.com/amirasaad/fxconverter/pkg/metrics"
	"github.com/amirasaad/fxconverter/pkg/provider"
)

// CachedRateTableProvider serves rate tables from a cache while they are
// fresh and falls through to the next provider otherwise. Failures of the
// next provider are returned as is; an expired table is never served.
type CachedRateTableProvider struct {
	next    provider.RateTableProvider
	cache   cache.RateTableCache
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewCachedRateTableProvider creates a new CachedRateTableProvider.
func NewCachedRateTableProvider(
	next provider.RateTableProvider,
	cache cache.RateTableCache,
	ttl time.Duration,
	logger *slog.Logger,
	m *metrics.Metrics,
) *CachedRateTableProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedRateTableProvider{
		next:    next,
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
		metrics: m,
	}
}

func cacheKey(source, base string) string {
	return fmt.Sprintf("%s:%s", source, base)
}

// FetchRates fetches the rate table for base, using cache.
func (c *CachedRateTableProvider) FetchRates(
	ctx context.Context,
	base string,
) (*domain.RateSnapshot, error) {
	key := cacheKey(c.next.Name(), base)

	snap, err := c.cache.Get(ctx, key)
	switch {
	case err != nil:
		c.logger.Error("Error getting from cache", "key", key, "error", err)
	case snap != nil && snap.Rates.Validate(base) == nil:
		c.logger.Debug("Cache hit for FetchRates", "key", key)
		c.metrics.ObserveCache(true)
		return snap, nil
	}
	c.metrics.ObserveCache(false)
	c.logger.Debug("Cache miss for FetchRates, fetching from next provider", "key", key)

	snap, err = c.next.FetchRates(ctx, base)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, snap, c.ttl); err != nil {
		c.logger.Error("Error setting cache for FetchRates", "key", key, "error", err)
	}
	return snap, nil
}

// Name returns the provider's name.
func (c *CachedRateTableProvider) Name() string {
	return fmt.Sprintf("cached(%s)", c.next.Name())
}

// Ensure CachedRateTableProvider implements provider.RateTableProvider
var _ provider.RateTableProvider = (*CachedRateTableProvider)(nil)
