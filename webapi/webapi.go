// Package webapi exposes the conversion controller over HTTP:
// fetch state, the rate table, the currency picker and conversions.
package webapi

import (
	"errors"
	"strings"

	"github.com/amirasaad/fxconverter/internal/fixtures/currency"
	"github.com/amirasaad/fxconverter/pkg/config"
	"github.com/amirasaad/fxconverter/pkg/controller"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupApp Initialize Fiber with custom configuration
func SetupApp(
	ctrl *controller.Controller,
	cfg *config.App,
	registry *prometheus.Registry,
	catalog currency.Catalog,
) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
			return ErrorResponseJSON(c, status, "Internal Server Error", err.Error())
		},
	})

	rateLimit := &config.RateLimit{MaxRequests: 100}
	if cfg != nil && cfg.RateLimit != nil {
		rateLimit = cfg.RateLimit
	}

	// Configure rate limiting middleware
	// Uses X-Forwarded-For header when behind a proxy
	// Falls back to X-Real-IP or direct IP if needed
	fiberApp.Use(limiter.New(limiter.Config{
		Max:        rateLimit.MaxRequests,
		Expiration: rateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
				// Take the first IP in the chain
				if commaIndex := strings.Index(forwardedFor, ","); commaIndex != -1 {
					return strings.TrimSpace(forwardedFor[:commaIndex])
				}
				return strings.TrimSpace(forwardedFor)
			}
			if realIP := c.Get("X-Real-IP"); realIP != "" {
				return realIP
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return ErrorResponseJSON(
				c,
				fiber.StatusTooManyRequests,
				"Too Many Requests",
				"rate limit exceeded",
			)
		},
	}))
	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())

	// Health check endpoint
	fiberApp.Get(
		"/",
		func(c *fiber.Ctx) error {
			return c.SendString("FX converter is running! 💱")
		},
	)

	if registry != nil {
		fiberApp.Get("/metrics", adaptor.HTTPHandler(
			promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		))
	}

	Routes(fiberApp, ctrl, catalog)
	return fiberApp
}

// Routes registers the rate and conversion endpoints.
func Routes(app *fiber.App, ctrl *controller.Controller, catalog currency.Catalog) {
	api := app.Group("/api")
	api.Get("/state", GetState(ctrl))
	api.Get("/rates", GetRates(ctrl))
	api.Post("/rates/refresh", RefreshRates(ctrl))
	api.Get("/currencies", ListCurrencies(ctrl, catalog))
	api.Post("/convert", Convert(ctrl))
}
