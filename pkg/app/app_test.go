package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/amirasaad/fxconverter/infra/provider/mockprovider"
	"github.com/amirasaad/fxconverter/pkg/config"
	"github.com/amirasaad/fxconverter/pkg/controller"
	"github.com/amirasaad/fxconverter/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func testConfig(fetchTimeout time.Duration) *config.App {
	return &config.App{
		ExchangeRateProvider: &config.ExchangeRateProviders{
			Kind:         config.ProviderStatic,
			Base:         "EUR",
			FetchTimeout: fetchTimeout,
		},
	}
}

func TestNew_FetchTimeoutBoundsProviderCall(t *testing.T) {
	p := mockprovider.NewMockRateTableProvider(t)
	var deadlineSet bool
	p.On("FetchRates", mock.Anything, "EUR").
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			_, deadlineSet = ctx.Deadline()
			<-ctx.Done()
		}).
		Return(nil, context.DeadlineExceeded).
		Once()

	a := New(&Deps{
		RateProvider: p,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, testConfig(50*time.Millisecond))
	defer a.Close() //nolint:errcheck

	start := time.Now()
	state := a.Controller.Initialize(context.Background())

	assert.True(t, deadlineSet)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, controller.StatusFailed, state.Status)
	assert.Equal(t, domain.MsgFetchFailed, state.Reason)
	assert.Equal(t, "EUR", a.Controller.Base())
}

func TestNew_ZeroFetchTimeoutLeavesCallUnbounded(t *testing.T) {
	p := mockprovider.NewMockRateTableProvider(t)
	var deadlineSet bool
	p.On("FetchRates", mock.Anything, "EUR").
		Run(func(args mock.Arguments) {
			_, deadlineSet = args.Get(0).(context.Context).Deadline()
		}).
		Return(&domain.RateSnapshot{Base: "EUR", Rates: domain.RateTable{"EUR": 1, "USD": 1.1}}, nil).
		Once()

	a := New(&Deps{RateProvider: p}, testConfig(0))
	defer a.Close() //nolint:errcheck

	state := a.Controller.Initialize(context.Background())
	assert.False(t, deadlineSet)
	assert.True(t, state.Ready())
}

func TestApp_CloseReleasesInReverseOrder(t *testing.T) {
	var order []string
	boom := errors.New("boom")
	a := New(&Deps{
		RateProvider: mockprovider.NewMockRateTableProvider(t),
		Closers: []io.Closer{
			closerFunc(func() error { order = append(order, "first"); return boom }),
			closerFunc(func() error { order = append(order, "second"); return nil }),
		},
	}, nil)

	err := a.Close()
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"second", "first"}, order)
}
