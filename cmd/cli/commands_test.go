package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	infra_provider "github.com/amirasaad/fxconverter/infra/provider"
	"github.com/amirasaad/fxconverter/infra/provider/mockprovider"
	"github.com/amirasaad/fxconverter/internal/fixtures/currency"
	"github.com/amirasaad/fxconverter/pkg/controller"
	"github.com/amirasaad/fxconverter/pkg/domain"
	"github.com/amirasaad/fxconverter/pkg/provider"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestCLI(t *testing.T, p provider.RateTableProvider, input string) (*cli, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true
	ctrl := controller.New(p, controller.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	t.Cleanup(ctrl.Close)
	out := &bytes.Buffer{}
	return &cli{
		ctrl:    ctrl,
		catalog: currency.MustLoadEmbedded(),
		in:      strings.NewReader(input),
		out:     out,
	}, out
}

func staticProvider() provider.RateTableProvider {
	return infra_provider.NewStaticProvider("USD", infra_provider.DefaultStaticRates)
}

func failingProvider() provider.RateTableProvider {
	p := new(mockprovider.MockRateTableProvider)
	p.On("FetchRates", mock.Anything, "USD").Return(nil, errors.New("boom"))
	return p
}

func TestCLI_Convert(t *testing.T) {
	c, out := newTestCLI(t, staticProvider(), "")

	code := c.dispatch(context.Background(), []string{"convert", "100", "USD", "EUR"})
	assert.Equal(t, 0, code)
	assert.Equal(t, "100 USD = 92.00 EUR\n", out.String())
}

func TestCLI_ConvertExponentAmount(t *testing.T) {
	c, out := newTestCLI(t, staticProvider(), "")

	code := c.dispatch(context.Background(), []string{"convert", "1e5000000", "USD", "EUR"})
	assert.Equal(t, 1, code)
	assert.Equal(t, domain.MsgInvalidInput+"\n", out.String())
}

func TestCLI_ConvertInvalidInput(t *testing.T) {
	c, out := newTestCLI(t, staticProvider(), "")

	code := c.dispatch(context.Background(), []string{"convert", "100", "USD", "XYZ"})
	assert.Equal(t, 1, code)
	assert.Equal(t, domain.MsgInvalidCurrency+"\n", out.String())
}

func TestCLI_FetchFailure(t *testing.T) {
	for _, cmd := range [][]string{{"rates"}, {"currencies"}, {"convert", "1", "USD", "EUR"}} {
		c, out := newTestCLI(t, failingProvider(), "")
		assert.Equal(t, 1, c.dispatch(context.Background(), cmd), cmd[0])
		assert.Contains(t, out.String(), domain.MsgFetchFailed)
	}
}

func TestCLI_Rates(t *testing.T) {
	c, out := newTestCLI(t, staticProvider(), "")

	require.Equal(t, 0, c.dispatch(context.Background(), []string{"rates"}))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, len(infra_provider.DefaultStaticRates)+1)
	assert.True(t, strings.HasPrefix(lines[0], "Rates against USD (static"))
	assert.True(t, strings.HasPrefix(lines[1], "AUD"))
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "USD"))
}

func TestCLI_Currencies(t *testing.T) {
	c, out := newTestCLI(t, staticProvider(), "")

	require.Equal(t, 0, c.dispatch(context.Background(), []string{"currencies"}))
	assert.Contains(t, out.String(), "Japanese Yen")
	assert.Contains(t, out.String(), "Euro")
}

func TestCLI_Usage(t *testing.T) {
	c, out := newTestCLI(t, staticProvider(), "")

	assert.Equal(t, 2, c.dispatch(context.Background(), []string{"convert", "1"}))
	assert.Equal(t, 2, c.dispatch(context.Background(), []string{"bogus"}))
	assert.Contains(t, out.String(), "Unknown command")
}

func TestCLI_Interactive(t *testing.T) {
	input := strings.Join([]string{
		"USD", "100", "EUR",
		"USD", "", "EUR",
		"EUR", ":refresh",
		"EUR", "10", "JPY",
		":quit",
	}, "\n")
	c, out := newTestCLI(t, staticProvider(), input)

	assert.Equal(t, 0, c.dispatch(context.Background(), []string{"interactive"}))
	text := out.String()
	assert.Contains(t, text, "10 currencies loaded")
	assert.Contains(t, text, "100 USD = 92.00 EUR")
	assert.Contains(t, text, domain.MsgInvalidInput)
	assert.Contains(t, text, "Fetched 10 rates from static")
	assert.Contains(t, text, "10 EUR = 1647.83 JPY")
}

func TestCLI_InteractiveAfterFailure(t *testing.T) {
	c, out := newTestCLI(t, failingProvider(), "USD\n1\nEUR\n")

	assert.Equal(t, 0, c.dispatch(context.Background(), []string{"interactive"}))
	assert.Contains(t, out.String(), domain.MsgFetchFailed)
	assert.Contains(t, out.String(), domain.MsgInvalidInput)
}
