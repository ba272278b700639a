package provider

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	infra_cache "github.com/amirasaad/fxconverter/infra/cache"
	"github.com/amirasaad/fxconverter/infra/provider/mockprovider"
	"github.com/amirasaad/fxconverter/pkg/domain"
	"github.com/amirasaad/fxconverter/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// expiringCache wraps MemoryCache so a test can force entries to expire.
type expiringCache struct {
	*infra_cache.MemoryCache
	expired bool
}

func (c *expiringCache) Get(ctx context.Context, key string) (*domain.RateSnapshot, error) {
	if c.expired {
		return nil, nil
	}
	return c.MemoryCache.Get(ctx, key)
}

// failingCache errors on every call.
type failingCache struct{}

func (failingCache) Get(context.Context, string) (*domain.RateSnapshot, error) {
	return nil, errors.New("cache down")
}

func (failingCache) Set(context.Context, string, *domain.RateSnapshot, time.Duration) error {
	return errors.New("cache down")
}

func (failingCache) Delete(context.Context, string) error {
	return errors.New("cache down")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func snapshot() *domain.RateSnapshot {
	return &domain.RateSnapshot{
		Base:      "USD",
		Rates:     domain.RateTable{"USD": 1, "EUR": 0.9},
		UpdatedAt: time.Now().UTC(),
		Source:    "mock-provider",
	}
}

func TestCachedRateTableProvider_HitWithinTTL(t *testing.T) {
	ctx := context.Background()
	next := new(mockprovider.MockRateTableProvider)
	next.On("FetchRates", mock.Anything, "USD").Return(snapshot(), nil).Once()
	m := metrics.New(prometheus.NewRegistry())
	p := NewCachedRateTableProvider(next, infra_cache.NewMemoryCache(), time.Minute, discardLogger(), m)

	first, err := p.FetchRates(ctx, "USD")
	require.NoError(t, err)
	second, err := p.FetchRates(ctx, "USD")
	require.NoError(t, err)

	assert.Equal(t, first.Rates, second.Rates)
	next.AssertExpectations(t)
	assert.InDelta(t, 1, testutil.ToFloat64(m.RateCacheTotal.WithLabelValues(metrics.CacheHit)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.RateCacheTotal.WithLabelValues(metrics.CacheMiss)), 0)
	assert.Equal(t, "cached(mock-provider)", p.Name())
}

func TestCachedRateTableProvider_ExpiredGoesToNext(t *testing.T) {
	ctx := context.Background()
	next := new(mockprovider.MockRateTableProvider)
	next.On("FetchRates", mock.Anything, "USD").Return(snapshot(), nil).Twice()
	c := &expiringCache{MemoryCache: infra_cache.NewMemoryCache()}
	p := NewCachedRateTableProvider(next, c, time.Minute, discardLogger(), nil)

	_, err := p.FetchRates(ctx, "USD")
	require.NoError(t, err)
	c.expired = true
	_, err = p.FetchRates(ctx, "USD")
	require.NoError(t, err)

	next.AssertExpectations(t)
}

func TestCachedRateTableProvider_FailureIsNotMasked(t *testing.T) {
	ctx := context.Background()
	next := new(mockprovider.MockRateTableProvider)
	next.On("FetchRates", mock.Anything, "USD").Return(nil, domain.ErrFetchFailed).Once()
	c := &expiringCache{MemoryCache: infra_cache.NewMemoryCache()}
	require.NoError(t, c.Set(ctx, cacheKey("mock-provider", "USD"), snapshot(), time.Minute))
	c.expired = true
	p := NewCachedRateTableProvider(next, c, time.Minute, discardLogger(), nil)

	snap, err := p.FetchRates(ctx, "USD")
	assert.Nil(t, snap)
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
}

func TestCachedRateTableProvider_ZeroTTLAlwaysFetches(t *testing.T) {
	ctx := context.Background()
	next := new(mockprovider.MockRateTableProvider)
	next.On("FetchRates", mock.Anything, "USD").Return(snapshot(), nil).Times(3)
	p := NewCachedRateTableProvider(next, infra_cache.NewMemoryCache(), 0, discardLogger(), nil)

	for range 3 {
		_, err := p.FetchRates(ctx, "USD")
		require.NoError(t, err)
	}
	next.AssertExpectations(t)
}

func TestCachedRateTableProvider_CacheErrorsFallThrough(t *testing.T) {
	ctx := context.Background()
	next := new(mockprovider.MockRateTableProvider)
	next.On("FetchRates", mock.Anything, "USD").Return(snapshot(), nil).Once()
	p := NewCachedRateTableProvider(next, failingCache{}, time.Minute, discardLogger(), nil)

	snap, err := p.FetchRates(ctx, "USD")
	require.NoError(t, err)
	assert.Len(t, snap.Rates, 2)
	next.AssertExpectations(t)
}

func TestStaticProvider(t *testing.T) {
	p := NewStaticProvider("USD", DefaultStaticRates)

	snap, err := p.FetchRates(context.Background(), "USD")
	require.NoError(t, err)
	assert.Equal(t, "static", snap.Source)
	assert.Equal(t, DefaultStaticRates, snap.Rates)

	// Callers cannot mutate the fixed table.
	snap.Rates["EUR"] = 5
	again, err := p.FetchRates(context.Background(), "USD")
	require.NoError(t, err)
	assert.InEpsilon(t, 0.92, again.Rates["EUR"], 0.0001)

	_, err = p.FetchRates(context.Background(), "EUR")
	assert.ErrorIs(t, err, domain.ErrFetchFailed)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.FetchRates(ctx, "USD")
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
}

func TestStaticProvider_Rebase(t *testing.T) {
	p := NewStaticProvider("EUR", DefaultStaticRates)

	snap, err := p.FetchRates(context.Background(), "EUR")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, snap.Rates["EUR"], 0)
	assert.InEpsilon(t, 1/0.92, snap.Rates["USD"], 0.0001)
	assert.InEpsilon(t, 151.6/0.92, snap.Rates["JPY"], 0.0001)
	assert.InEpsilon(t, 1.0, DefaultStaticRates["USD"], 0.0001)
}
