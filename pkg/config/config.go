package config

import (
	"time"
)

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"text" validate:"oneof=json text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[fxconverter]"`
}

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http" validate:"oneof=http https"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT" default:"3000" validate:"min=1,max=65535"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100" validate:"min=1"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m" validate:"gt=0"`
}

//revive:disable
type ExchangeRateApi struct {
	ApiKey      string        `envconfig:"API_KEY"`
	ApiUrl      string        `envconfig:"API_URL" default:"https://v6.exchangerate-api.com/v6" validate:"required,url"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s" validate:"gte=0"`
}

//revive:enable

// Provider kinds.
const (
	ProviderExchangeRate = "exchangerate"
	ProviderStatic       = "static"
)

type ExchangeRateProviders struct {
	Kind            string           `envconfig:"KIND" default:"exchangerate" validate:"oneof=exchangerate static"`
	Base            string           `envconfig:"BASE" default:"USD" validate:"len=3,uppercase"`
	FetchTimeout    time.Duration    `envconfig:"FETCH_TIMEOUT" default:"15s" validate:"gte=0"`
	ExchangeRateApi *ExchangeRateApi `envconfig:"EXCHANGERATE" validate:"required"`
}

// ExchangeRateCache configures the rate table cache. A zero TTL disables it;
// an empty URL keeps it in memory.
type ExchangeRateCache struct {
	TTL    time.Duration `envconfig:"TTL" default:"0s" validate:"gte=0"`
	Prefix string        `envconfig:"CACHE_PREFIX" default:"fx:rates:"`
	Url    string        `envconfig:"URL" validate:"omitempty,url"`
}

type App struct {
	Env                  string                 `envconfig:"APP_ENV" default:"development"`
	Server               *Server                `envconfig:"SERVER" validate:"required"`
	Log                  *Log                   `envconfig:"LOG" validate:"required"`
	ExchangeRateProvider *ExchangeRateProviders `envconfig:"EXCHANGE_RATE_PROVIDER" validate:"required"`
	ExchangeRateCache    *ExchangeRateCache     `envconfig:"EXCHANGE_RATE_CACHE" validate:"required"`
	RateLimit            *RateLimit             `envconfig:"RATE_LIMIT" validate:"required"`
}
