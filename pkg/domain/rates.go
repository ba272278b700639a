package domain

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// DefaultBase is the currency every rate in a RateTable is expressed against.
const DefaultBase = "USD"

// RateTable maps an ISO 4217 code to its rate relative to the base currency.
type RateTable map[string]float64

// Has reports whether code is present in the table.
func (t RateTable) Has(code string) bool {
	_, ok := t[code]
	return ok
}

// Rate returns the rate for code.
func (t RateTable) Rate(code string) (float64, bool) {
	r, ok := t[code]
	return r, ok
}

// Codes returns the currency codes in ascending order.
func (t RateTable) Codes() []string {
	codes := make([]string, 0, len(t))
	for code := range t {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Clone returns a copy that shares no storage with t. A nil table stays nil.
func (t RateTable) Clone() RateTable {
	if t == nil {
		return nil
	}
	out := make(RateTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Validate checks the table against base: non-empty, well-formed codes,
// finite positive rates and a base entry equal to 1.
func (t RateTable) Validate(base string) error {
	if len(t) == 0 {
		return fmt.Errorf("%w: no rates", ErrInvalidRateTable)
	}
	for code, rate := range t {
		if !IsCurrencyCode(code) {
			return fmt.Errorf("%w: %w %q", ErrInvalidRateTable, ErrInvalidCurrencyCode, code)
		}
		if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
			return fmt.Errorf("%w: rate for %s is %v", ErrInvalidRateTable, code, rate)
		}
	}
	rate, ok := t[base]
	if !ok {
		return fmt.Errorf("%w: base %s missing", ErrInvalidRateTable, base)
	}
	if rate != 1 {
		return fmt.Errorf("%w: base %s has rate %v", ErrInvalidRateTable, base, rate)
	}
	return nil
}

// IsCurrencyCode reports whether code looks like an ISO 4217 alphabetic code.
func IsCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}

// NormalizeCode trims and upper-cases a user supplied code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// RateSnapshot is a rate table as returned by a provider.
type RateSnapshot struct {
	Base      string    `json:"base"`
	Rates     RateTable `json:"rates"`
	UpdatedAt time.Time `json:"updated_at"`
	Source    string    `json:"source"`
}
