package domain

// CurrencyMeta describes a currency for listings.
type CurrencyMeta struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol,omitempty"`
}
