package provider

import (
	"context"

	"github.com/amirasaad/fxconverter/pkg/domain"
)

// RateTableProvider fetches the full rate table for a base currency.
type RateTableProvider interface {
	// FetchRates returns a snapshot whose table passed Validate(base).
	// Every failure wraps domain.ErrFetchFailed.
	FetchRates(ctx context.Context, base string) (*domain.RateSnapshot, error)

	// Name returns the provider's name for logging and identification.
	Name() string
}
