package app

import (
	"io"
	"log/slog"

	"github.com/amirasaad/fxconverter/internal/fixtures/currency"
	"github.com/amirasaad/fxconverter/pkg/config"
	"github.com/amirasaad/fxconverter/pkg/controller"
	"github.com/amirasaad/fxconverter/pkg/metrics"
	"github.com/amirasaad/fxconverter/pkg/provider"
	"github.com/prometheus/client_golang/prometheus"
)

// Deps contains all the dependencies needed to build an App
type Deps struct {
	RateProvider provider.RateTableProvider
	Catalog      currency.Catalog
	Registry     *prometheus.Registry
	Metrics      *metrics.Metrics
	Logger       *slog.Logger
	// Closers are released by App.Close in reverse order.
	Closers []io.Closer
}

type App struct {
	Deps       *Deps
	Config     *config.App
	Controller *controller.Controller
}

func New(deps *Deps, cfg *config.App) *App {
	opts := []controller.Option{
		controller.WithLogger(deps.Logger),
		controller.WithMetrics(deps.Metrics),
	}
	if cfg != nil && cfg.ExchangeRateProvider != nil {
		opts = append(opts,
			controller.WithBase(cfg.ExchangeRateProvider.Base),
			controller.WithTimeout(cfg.ExchangeRateProvider.FetchTimeout),
		)
	}
	return &App{
		Deps:       deps,
		Config:     cfg,
		Controller: controller.New(deps.RateProvider, opts...),
	}
}

// Close tears down the controller and releases the dependencies.
func (a *App) Close() error {
	a.Controller.Close()
	var firstErr error
	for i := len(a.Deps.Closers) - 1; i >= 0; i-- {
		if err := a.Deps.Closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
