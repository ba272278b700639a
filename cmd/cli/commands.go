package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/amirasaad/fxconverter/internal/fixtures/currency"
	"github.com/amirasaad/fxconverter/pkg/controller"
	"github.com/amirasaad/fxconverter/pkg/conversion"
	"github.com/fatih/color"
)

const (
	cmdRefresh = ":refresh"
	cmdQuit    = ":quit"
)

var (
	okColor    = color.New(color.FgGreen, color.Bold)
	errColor   = color.New(color.FgRed)
	codeColor  = color.New(color.FgCyan)
	promptText = color.New(color.FgYellow)
)

type cli struct {
	ctrl    *controller.Controller
	catalog currency.Catalog
	in      io.Reader
	out     io.Writer
}

func (c *cli) dispatch(ctx context.Context, args []string) int {
	switch args[0] {
	case "rates":
		return c.rates(ctx)
	case "currencies":
		return c.currencies(ctx)
	case "convert":
		if len(args) < 4 {
			_, _ = fmt.Fprintln(c.out, "Usage: convert <amount> <from> <to>")
			return 2
		}
		return c.convert(ctx, args[1], args[2], args[3])
	case "interactive":
		return c.interactive(ctx)
	default:
		_, _ = fmt.Fprintf(c.out, "Unknown command %q\n%s\n", args[0], usage)
		return 2
	}
}

// ready performs the initial fetch and reports its failure.
func (c *cli) ready(ctx context.Context) (controller.FetchState, bool) {
	s := c.ctrl.Initialize(ctx)
	if !s.Ready() {
		_, _ = errColor.Fprintln(c.out, s.Reason)
		return s, false
	}
	return s, true
}

func (c *cli) rates(ctx context.Context) int {
	s, ok := c.ready(ctx)
	if !ok {
		return 1
	}
	_, _ = fmt.Fprintf(c.out, "Rates against %s (%s, %s)\n",
		s.Base, s.Source, s.FetchedAt.Format("2006-01-02 15:04:05 MST"))
	for _, code := range s.Rates.Codes() {
		_, _ = fmt.Fprintf(c.out, "%s %12.6f\n", codeColor.Sprint(code), s.Rates[code])
	}
	return 0
}

func (c *cli) currencies(ctx context.Context) int {
	s, ok := c.ready(ctx)
	if !ok {
		return 1
	}
	for _, meta := range c.catalog.Describe(s.Rates.Codes()) {
		_, _ = fmt.Fprintf(c.out, "%s  %-4s %s\n", codeColor.Sprint(meta.Code), meta.Symbol, meta.Name)
	}
	return 0
}

func (c *cli) printResult(res conversion.Result) {
	if res.OK {
		_, _ = okColor.Fprintln(c.out, res.Message)
		return
	}
	_, _ = errColor.Fprintln(c.out, res.Message)
}

func (c *cli) convert(ctx context.Context, amount, from, to string) int {
	if _, ok := c.ready(ctx); !ok {
		return 1
	}
	res := c.ctrl.Convert(conversion.Request{Amount: amount, From: from, To: to})
	c.printResult(res)
	if !res.OK {
		return 1
	}
	return 0
}

// interactive mirrors the conversion form: from currency, amount and to
// currency are read in turn and the result is printed after each
// submission. A failed fetch leaves the form usable so the user sees the
// input error messages and can :refresh.
func (c *cli) interactive(ctx context.Context) int {
	if _, ok := c.ready(ctx); ok {
		_, _ = fmt.Fprintf(c.out, "%d currencies loaded. Type %s to re-fetch, %s to exit.\n",
			len(c.ctrl.State().Rates), cmdRefresh, cmdQuit)
	}

	scanner := bufio.NewScanner(c.in)
	for {
		fields, action := c.readForm(scanner)
		switch action {
		case cmdQuit:
			return 0
		case cmdRefresh:
			c.refresh(ctx)
			continue
		}
		c.printResult(c.ctrl.Convert(conversion.Request{
			From:   fields[0],
			Amount: fields[1],
			To:     fields[2],
		}))
	}
}

// readForm prompts for the three form fields. It stops early and returns
// the command when one is typed; end of input counts as :quit.
func (c *cli) readForm(scanner *bufio.Scanner) ([]string, string) {
	fields := make([]string, 0, 3)
	for _, label := range []string{"From currency", "Amount", "To currency"} {
		_, _ = promptText.Fprintf(c.out, "%s: ", label)
		if !scanner.Scan() {
			_, _ = fmt.Fprintln(c.out)
			return nil, cmdQuit
		}
		line := strings.TrimSpace(scanner.Text())
		if line == cmdQuit || line == cmdRefresh {
			return nil, line
		}
		fields = append(fields, line)
	}
	return fields, ""
}

func (c *cli) refresh(ctx context.Context) {
	s := c.ctrl.FetchRates(ctx)
	if !s.Ready() {
		_, _ = errColor.Fprintln(c.out, s.Reason)
		return
	}
	_, _ = okColor.Fprintf(c.out, "Fetched %d rates from %s\n", len(s.Rates), s.Source)
}
