package webapi

import (
	"time"

	"github.com/amirasaad/fxconverter/internal/fixtures/currency"
	"github.com/amirasaad/fxconverter/pkg/controller"
	"github.com/amirasaad/fxconverter/pkg/conversion"
	"github.com/amirasaad/fxconverter/pkg/domain"
	"github.com/gofiber/fiber/v2"
)

// MsgRatesLoading is the detail returned while no fetch has completed.
const MsgRatesLoading = "Rates are loading"

// ConvertRequest is the body of POST /api/convert.
type ConvertRequest struct {
	Amount string `json:"amount" validate:"max=64"`
	From   string `json:"from" validate:"max=8"`
	To     string `json:"to" validate:"max=8"`
}

// StateDTO describes the current fetch state without the table itself.
type StateDTO struct {
	Status     controller.FetchStatus `json:"status"`
	Reason     string                 `json:"reason,omitempty"`
	FetchedAt  *time.Time             `json:"fetched_at,omitempty"`
	Source     string                 `json:"source,omitempty"`
	Base       string                 `json:"base"`
	Currencies int                    `json:"currencies"`
}

// RatesDTO is the payload of GET /api/rates.
type RatesDTO struct {
	Base      string           `json:"base"`
	Source    string           `json:"source"`
	FetchedAt time.Time        `json:"fetched_at"`
	Rates     domain.RateTable `json:"rates"`
}

func toStateDTO(s controller.FetchState) StateDTO {
	dto := StateDTO{
		Status:     s.Status,
		Reason:     s.Reason,
		Source:     s.Source,
		Base:       s.Base,
		Currencies: len(s.Rates),
	}
	if !s.FetchedAt.IsZero() {
		fetchedAt := s.FetchedAt
		dto.FetchedAt = &fetchedAt
	}
	return dto
}

// notReady writes the 503 matching a state that has no table.
func notReady(c *fiber.Ctx, s controller.FetchState) error {
	if s.Status == controller.StatusFailed {
		return ErrorResponseJSON(c, fiber.StatusServiceUnavailable, "Rates unavailable", s.Reason)
	}
	return ErrorResponseJSON(c, fiber.StatusServiceUnavailable, "Rates unavailable", MsgRatesLoading)
}

// GetState returns the current fetch state.
func GetState(ctrl *controller.Controller) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(Response{
			Status:  fiber.StatusOK,
			Message: "State fetched successfully",
			Data:    toStateDTO(ctrl.State()),
		})
	}
}

// GetRates returns the current rate table.
func GetRates(ctrl *controller.Controller) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := ctrl.State()
		if !s.Ready() {
			return notReady(c, s)
		}
		return c.JSON(Response{
			Status:  fiber.StatusOK,
			Message: "Rates fetched successfully",
			Data: RatesDTO{
				Base:      s.Base,
				Source:    s.Source,
				FetchedAt: s.FetchedAt,
				Rates:     s.Rates,
			},
		})
	}
}

// RefreshRates re-fetches the rate table and returns the resulting state.
func RefreshRates(ctrl *controller.Controller) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := ctrl.FetchRates(c.UserContext())
		if !s.Ready() {
			return notReady(c, s)
		}
		return c.JSON(Response{
			Status:  fiber.StatusOK,
			Message: "Rates refreshed successfully",
			Data:    toStateDTO(s),
		})
	}
}

// ListCurrencies returns the selectable currencies of the current table,
// sorted by code.
func ListCurrencies(ctrl *controller.Controller, catalog currency.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := ctrl.State()
		if !s.Ready() {
			return notReady(c, s)
		}
		return c.JSON(Response{
			Status:  fiber.StatusOK,
			Message: "Currencies fetched successfully",
			Data:    catalog.Describe(s.Rates.Codes()),
		})
	}
}

// Convert converts an amount between two currencies of the current table.
func Convert(ctrl *controller.Controller) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[ConvertRequest](c)
		if input == nil {
			return err // error response already written
		}
		res := ctrl.Convert(conversion.Request{
			Amount: input.Amount,
			From:   input.From,
			To:     input.To,
		})
		if !res.OK {
			return ErrorResponseJSON(c, ErrorToStatusCode(res.Err), "Conversion failed", res.Message)
		}
		return c.JSON(Response{
			Status:  fiber.StatusOK,
			Message: res.Message,
			Data:    res,
		})
	}
}
