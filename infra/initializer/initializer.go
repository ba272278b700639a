package initializer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	infra_cache "github.com/amirasaad/fxconverter/infra/cache"
	infra_provider "github.com/amirasaad/fxconverter/infra/provider"
	"github.com/amirasaad/fxconverter/infra/provider/exchangerateapi"
	currencyfixtures "github.com/amirasaad/fxconverter/internal/fixtures/currency"
	"github.com/amirasaad/fxconverter/pkg/app"
	"github.com/amirasaad/fxconverter/pkg/cache"
	"github.com/amirasaad/fxconverter/pkg/config"
	"github.com/amirasaad/fxconverter/pkg/metrics"
	"github.com/amirasaad/fxconverter/pkg/provider"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const redisPingTimeout = 5 * time.Second

// InitializeDependencies initializes all the application dependencies
func InitializeDependencies(cfg *config.App) (*app.Deps, error) {
	return initializeWithLogger(cfg, SetupLogger(cfg.Log))
}

func initializeWithLogger(cfg *config.App, logger *slog.Logger) (deps *app.Deps, err error) {
	deps = &app.Deps{Logger: logger}

	deps.Registry = prometheus.NewRegistry()
	deps.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	deps.Metrics = metrics.New(deps.Registry)

	deps.Catalog, err = currencyfixtures.LoadCurrencyMetaCSV("")
	if err != nil {
		return nil, fmt.Errorf("failed to load currency metadata: %w", err)
	}
	logger.Info("Loaded currency metadata", "count", len(deps.Catalog))

	rateProvider, err := newRateProvider(cfg.ExchangeRateProvider, logger)
	if err != nil {
		return nil, err
	}

	rateCache, closer, err := newRateCache(cfg.ExchangeRateCache, logger)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		deps.Closers = append(deps.Closers, closer)
	}
	if rateCache != nil {
		rateProvider = infra_provider.NewCachedRateTableProvider(
			rateProvider,
			rateCache,
			cfg.ExchangeRateCache.TTL,
			logger,
			deps.Metrics,
		)
	}
	deps.RateProvider = rateProvider

	logger.Info("Rate provider ready",
		"provider", rateProvider.Name(),
		"base", cfg.ExchangeRateProvider.Base,
	)
	return deps, nil
}

func newRateProvider(
	cfg *config.ExchangeRateProviders,
	logger *slog.Logger,
) (provider.RateTableProvider, error) {
	switch cfg.Kind {
	case config.ProviderStatic:
		return infra_provider.NewStaticProvider(cfg.Base, infra_provider.DefaultStaticRates), nil
	case config.ProviderExchangeRate, "":
		if cfg.ExchangeRateApi == nil || cfg.ExchangeRateApi.ApiKey == "" {
			return nil, config.ErrMissingAPIKey
		}
		return exchangerateapi.New(cfg.ExchangeRateApi, logger), nil
	default:
		return nil, fmt.Errorf("unknown exchange rate provider %q", cfg.Kind)
	}
}

// newRateCache returns nil when caching is disabled.
func newRateCache(
	cfg *config.ExchangeRateCache,
	logger *slog.Logger,
) (cache.RateTableCache, io.Closer, error) {
	if cfg == nil || cfg.TTL <= 0 {
		logger.Info("Rate cache disabled")
		return nil, nil, nil
	}
	if cfg.Url == "" {
		logger.Info("Using in-memory rate cache", "ttl", cfg.TTL)
		return infra_cache.NewMemoryCache(), nil, nil
	}

	redisCache, err := infra_cache.NewRedisCache(cfg.Url, cfg.Prefix, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Redis cache: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := redisCache.Ping(ctx); err != nil {
		_ = redisCache.Close()
		return nil, nil, fmt.Errorf("failed to connect to Redis cache: %w", err)
	}
	logger.Info("Using Redis rate cache", "ttl", cfg.TTL, "prefix", cfg.Prefix)
	return redisCache, redisCache, nil
}
