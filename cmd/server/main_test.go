package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/amirasaad/fxconverter/pkg/config"
	"github.com/stretchr/testify/suite"
)

// TestMain runs before any tests and applies globally for all tests in the package.
func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	log.SetOutput(io.Discard)

	exitVal := m.Run()
	os.Exit(exitVal)
}

type MainTestSuite struct {
	suite.Suite
}

func TestMainTestSuite(t *testing.T) {
	suite.Run(t, new(MainTestSuite))
}

func staticConfig() *config.App {
	return &config.App{
		Env:    "test",
		Server: &config.Server{Scheme: "http", Host: "localhost", Port: 3000},
		Log:    &config.Log{Format: "text", Level: 8},
		ExchangeRateProvider: &config.ExchangeRateProviders{
			Kind:            config.ProviderStatic,
			Base:            "USD",
			ExchangeRateApi: &config.ExchangeRateApi{ApiUrl: "https://v6.exchangerate-api.com/v6"},
		},
		ExchangeRateCache: &config.ExchangeRateCache{},
		RateLimit:         &config.RateLimit{MaxRequests: 100, Window: time.Minute},
	}
}

func (s *MainTestSuite) TestSetup_RootRoute() {
	application, app, err := setup(context.Background(), staticConfig())
	s.Require().NoError(err)
	defer application.Close() //nolint:errcheck

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	s.Require().NoError(err)
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *MainTestSuite) TestSetup_InitialFetch() {
	application, app, err := setup(context.Background(), staticConfig())
	s.Require().NoError(err)
	defer application.Close() //nolint:errcheck

	s.True(application.Controller.State().Ready())

	req := httptest.NewRequest(http.MethodGet, "/api/rates", nil)
	resp, err := app.Test(req)
	s.Require().NoError(err)
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *MainTestSuite) TestNotFoundRoute() {
	application, app, err := setup(context.Background(), staticConfig())
	s.Require().NoError(err)
	defer application.Close() //nolint:errcheck

	req := httptest.NewRequest(http.MethodGet, "/does-not-exist", nil)
	resp, err := app.Test(req)
	s.Require().NoError(err)
	defer resp.Body.Close() //nolint:errcheck
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *MainTestSuite) TestSetup_MissingAPIKey() {
	cfg := staticConfig()
	cfg.ExchangeRateProvider.Kind = config.ProviderExchangeRate

	_, _, err := setup(context.Background(), cfg)
	s.ErrorIs(err, config.ErrMissingAPIKey)
}
