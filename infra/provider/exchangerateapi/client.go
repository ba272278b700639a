// Package exchangerateapi fetches rate tables from exchangerate-api.com.
package exchangerateapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/amirasaad/fxconverter/pkg/config"
	"github.com/amirasaad/fxconverter/pkg/domain"
	"github.com/amirasaad/fxconverter/pkg/provider"
)

// Name identifies this provider in logs, metrics and snapshots.
const Name = "exchangerate-api"

// maxBodySize bounds the bytes read from a response.
const maxBodySize = 1 << 20

// LatestResponse is the v6 "latest" response of exchangerate-api.com.
// See: https://www.exchangerate-api.com/docs/standard-requests
type LatestResponse struct {
	Result             string             `json:"result"`
	Documentation      string             `json:"documentation"`
	TermsOfUse         string             `json:"terms_of_use"`
	TimeLastUpdateUnix int64              `json:"time_last_update_unix"`
	TimeLastUpdateUTC  string             `json:"time_last_update_utc"`
	TimeNextUpdateUnix int64              `json:"time_next_update_unix"`
	TimeNextUpdateUTC  string             `json:"time_next_update_utc"`
	BaseCode           string             `json:"base_code"`
	ConversionRates    map[string]float64 `json:"conversion_rates"`
	// Error fields (if any)
	ErrorType string `json:"error-type,omitempty"`
}

// Client implements provider.RateTableProvider against the v6 API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a client from config. A zero HTTPTimeout leaves requests unbounded
// apart from the caller's context.
func New(cfg *config.ExchangeRateApi, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		apiKey:  cfg.ApiKey,
		baseURL: strings.TrimRight(cfg.ApiUrl, "/"), // https://v6.exchangerate-api.com/v6
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		logger: logger,
	}
}

func (c *Client) latestURL(base string) string {
	return fmt.Sprintf("%s/%s/latest/%s", c.baseURL, url.PathEscape(c.apiKey), url.PathEscape(base))
}

// FetchRates fetches all rates for base.
func (c *Client) FetchRates(ctx context.Context, base string) (*domain.RateSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.latestURL(base), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", domain.ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Fetching exchange rates from API", "base", base, "api_url", c.baseURL)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to make request: %w", domain.ErrFetchFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body := io.LimitReader(resp.Body, maxBodySize)
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(body, 256))
		return nil, fmt.Errorf("%w: API returned status %d: %s",
			domain.ErrFetchFailed, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var apiResp LatestResponse
	if err := json.NewDecoder(body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %w", domain.ErrFetchFailed, err)
	}

	return toSnapshot(&apiResp, base)
}

func toSnapshot(apiResp *LatestResponse, base string) (*domain.RateSnapshot, error) {
	if apiResp.Result != "" && apiResp.Result != "success" {
		return nil, fmt.Errorf("%w: API returned result=%s error-type=%s",
			domain.ErrFetchFailed, apiResp.Result, apiResp.ErrorType)
	}
	if len(apiResp.ConversionRates) == 0 {
		return nil, fmt.Errorf("%w: response has no conversion_rates", domain.ErrFetchFailed)
	}
	if apiResp.BaseCode != "" && apiResp.BaseCode != base {
		return nil, fmt.Errorf("%w: API returned base %s, want %s",
			domain.ErrFetchFailed, apiResp.BaseCode, base)
	}

	rates := domain.RateTable(apiResp.ConversionRates)
	if err := rates.Validate(base); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}

	updated := time.Now().UTC()
	if apiResp.TimeLastUpdateUnix > 0 {
		updated = time.Unix(apiResp.TimeLastUpdateUnix, 0).UTC()
	}
	return &domain.RateSnapshot{
		Base:      base,
		Rates:     rates,
		UpdatedAt: updated,
		Source:    Name,
	}, nil
}

// Name returns the provider's name
func (c *Client) Name() string {
	return Name
}

// Ensure Client implements provider.RateTableProvider
var _ provider.RateTableProvider = (*Client)(nil)
