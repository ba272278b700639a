package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ErrMissingAPIKey is returned when the exchangerate provider has no API key.
var ErrMissingAPIKey = errors.New("EXCHANGE_RATE_PROVIDER_EXCHANGERATE_API_KEY is required for the exchangerate provider")

// Load reads the configuration from the environment, after loading the first
// of envFilePath found in the working directory or one of its parents.
func Load(envFilePath ...string) (*App, error) {
	logger := slog.Default()
	logger.Info("Loading environment variables")

	// If no specific paths provided, try default .env
	if len(envFilePath) == 0 {
		logger.Debug("No environment file specified, trying default .env")
		if err := godotenv.Load(); err != nil {
			logger.Warn("No .env file found in current directory")
		}
		return loadFromEnv()
	}

	for _, path := range envFilePath {
		logger.Debug("Looking for environment file", "path", path)
		foundPath, err := FindEnvFile(path)
		if err != nil {
			logger.Debug("Environment file not found", "path", path, "error", err)
			continue
		}

		logger.Info("Loading environment from file", "path", foundPath)
		if err := godotenv.Load(foundPath); err != nil {
			logger.Error("Failed to load environment file", "path", foundPath, "error", err)
			continue
		}
		return loadFromEnv()
	}

	logger.Info("No valid environment files found, using process environment")
	return loadFromEnv()
}

func loadFromEnv() (*App, error) {
	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Default().Info("App config loaded",
		"env", cfg.Env,
		"provider", cfg.ExchangeRateProvider.Kind,
		"base", cfg.ExchangeRateProvider.Base,
		"exchange_api_url", cfg.ExchangeRateProvider.ExchangeRateApi.ApiUrl,
		"exchange_api_key", maskValue(cfg.ExchangeRateProvider.ExchangeRateApi.ApiKey),
		"exchange_cache_ttl", cfg.ExchangeRateCache.TTL,
		"exchange_cache_url", maskURL(cfg.ExchangeRateCache.Url),
		"rate_limit_max_requests", cfg.RateLimit.MaxRequests,
		"rate_limit_window", cfg.RateLimit.Window,
	)
	return &cfg, nil
}

// Validate checks field constraints and the provider specific requirements.
func (cfg *App) Validate() error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	p := cfg.ExchangeRateProvider
	if p.Kind == ProviderExchangeRate && p.ExchangeRateApi.ApiKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}
