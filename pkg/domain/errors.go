package domain

import "errors"

// Rate retrieval errors
var (
	// ErrFetchFailed is returned when the rate table could not be retrieved from a provider
	ErrFetchFailed = errors.New("failed to fetch rate table")
	// ErrInvalidRateTable is returned when a fetched table breaks the rate table invariants
	ErrInvalidRateTable = errors.New("invalid rate table")
	// ErrInvalidCurrencyCode is returned when a code is not three uppercase letters
	ErrInvalidCurrencyCode = errors.New("invalid currency code")
)

// User-facing messages. The cause of a failure is never shown beyond these.
const (
	MsgFetchFailed     = "Failed to fetch currency data."
	MsgInvalidInput    = "Please provide valid input"
	MsgInvalidCurrency = "Invalid currency selected"
)
