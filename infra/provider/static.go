package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/amirasaad/fxconverter/pkg/domain"
	"github.com/amirasaad/fxconverter/pkg/provider"
)

// DefaultStaticRates is a USD based table for development without an API key.
var DefaultStaticRates = domain.RateTable{
	"USD": 1,
	"EUR": 0.92,
	"GBP": 0.79,
	"JPY": 151.6,
	"CHF": 0.9,
	"CAD": 1.36,
	"AUD": 1.52,
	"INR": 83.4,
	"CNY": 7.23,
	"MXN": 16.9,
}

// StaticProvider serves a fixed rate table.
type StaticProvider struct {
	rates domain.RateTable
	base  string
}

// NewStaticProvider creates a provider serving rates expressed against base.
// A table quoted against another currency is rebased when it contains base.
func NewStaticProvider(base string, rates domain.RateTable) *StaticProvider {
	return &StaticProvider{rates: rebase(rates, base), base: base}
}

func rebase(rates domain.RateTable, base string) domain.RateTable {
	pivot, ok := rates[base]
	if !ok || pivot == 1 || pivot <= 0 {
		return rates.Clone()
	}
	out := make(domain.RateTable, len(rates))
	for code, rate := range rates {
		out[code] = rate / pivot
	}
	out[base] = 1
	return out
}

// FetchRates returns a copy of the fixed table.
func (p *StaticProvider) FetchRates(ctx context.Context, base string) (*domain.RateSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	if base != p.base {
		return nil, fmt.Errorf("%w: static rates are based on %s, not %s", domain.ErrFetchFailed, p.base, base)
	}
	if err := p.rates.Validate(base); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	return &domain.RateSnapshot{
		Base:      base,
		Rates:     p.rates.Clone(),
		UpdatedAt: time.Now().UTC(),
		Source:    p.Name(),
	}, nil
}

// Name returns the provider's name
func (p *StaticProvider) Name() string {
	return "static"
}

var _ provider.RateTableProvider = (*StaticProvider)(nil)
