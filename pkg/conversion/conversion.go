// Package conversion converts an amount between two currencies of a rate table.
package conversion

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/amirasaad/fxconverter/pkg/domain"
	"github.com/shopspring/decimal"
)

var (
	// ErrRatesUnavailable is returned when no rate table has been fetched yet.
	ErrRatesUnavailable = errors.New("rate table unavailable")
	// ErrMissingInput is returned when the amount or one of the codes is empty.
	ErrMissingInput = errors.New("amount, from and to are required")
	// ErrInvalidAmount is returned when the amount is not a positive decimal number.
	ErrInvalidAmount = errors.New("amount must be a positive number")
	// ErrUnknownCurrency is returned when a code is not present in the rate table.
	ErrUnknownCurrency = errors.New("currency not in rate table")
)

const (
	// Places is the number of decimal places of a converted amount.
	Places = 2
	// divisionPrecision bounds the digits kept by amount / fromRate before rounding.
	divisionPrecision = 20
	// MaxAmountLength bounds the characters of an amount as entered.
	MaxAmountLength = 64
)

// plainAmount matches unsigned decimals without exponent notation.
var plainAmount = regexp.MustCompile(`^(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)$`)

// Request is the user input of a single conversion.
type Request struct {
	Amount string `json:"amount"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// Result is the outcome of a conversion. Message is displayable in every case.
type Result struct {
	Message   string          `json:"message"`
	OK        bool            `json:"ok"`
	Amount    string          `json:"amount"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	Converted decimal.Decimal `json:"converted"`
	Err       error           `json:"-"`
}

func failure(req Request, msg string, err error) Result {
	return Result{
		Message: msg,
		Amount:  req.Amount,
		From:    strings.TrimSpace(req.From),
		To:      strings.TrimSpace(req.To),
		Err:     err,
	}
}

// Convert converts req.Amount from req.From to req.To using table.
//
// Checks run in order and the first failing one decides the message:
// missing table, missing field, invalid amount, unknown currency.
func Convert(table domain.RateTable, req Request) Result {
	if len(table) == 0 {
		return failure(req, domain.MsgInvalidInput, ErrRatesUnavailable)
	}

	from := strings.TrimSpace(req.From)
	to := strings.TrimSpace(req.To)
	raw := strings.TrimSpace(req.Amount)
	if raw == "" || from == "" || to == "" {
		return failure(req, domain.MsgInvalidInput, ErrMissingInput)
	}

	if len(raw) > MaxAmountLength || !plainAmount.MatchString(raw) {
		return failure(req, domain.MsgInvalidInput, ErrInvalidAmount)
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return failure(req, domain.MsgInvalidInput, fmt.Errorf("%w: %w", ErrInvalidAmount, err))
	}
	if !amount.IsPositive() {
		return failure(req, domain.MsgInvalidInput, ErrInvalidAmount)
	}

	fromRate, okFrom := table.Rate(from)
	toRate, okTo := table.Rate(to)
	if !okFrom || !okTo {
		missing := from
		if okFrom {
			missing = to
		}
		return failure(req, domain.MsgInvalidCurrency, fmt.Errorf("%w: %s", ErrUnknownCurrency, missing))
	}

	converted := ConvertAmount(amount, fromRate, toRate)
	return Result{
		Message:   fmt.Sprintf("%s %s = %s %s", req.Amount, from, converted.StringFixed(Places), to),
		OK:        true,
		Amount:    req.Amount,
		From:      from,
		To:        to,
		Converted: converted,
	}
}

// ConvertAmount computes (amount / fromRate) * toRate rounded half away from zero
// to Places decimals. Equal rates return the rounded amount unchanged.
func ConvertAmount(amount decimal.Decimal, fromRate, toRate float64) decimal.Decimal {
	if fromRate == toRate {
		return amount.Round(Places)
	}
	f := decimal.NewFromFloat(fromRate)
	t := decimal.NewFromFloat(toRate)
	return amount.DivRound(f, divisionPrecision).Mul(t).Round(Places)
}
