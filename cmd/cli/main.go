package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/amirasaad/fxconverter/infra/initializer"
	"github.com/amirasaad/fxconverter/pkg/app"
	"github.com/amirasaad/fxconverter/pkg/config"
	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"golang.org/x/term"
)

const usage = `Usage: fxconverter-cli <command> [arguments]
Commands:
  rates                          print the rate table
  currencies                     print the selectable currencies
  convert <amount> <from> <to>   convert an amount
  interactive                    fill in the conversion form repeatedly`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

func run(args []string, in io.Reader, out io.Writer) int {
	if len(args) < 1 {
		_, _ = fmt.Fprintln(out, usage)
		return 2
	}
	if f, ok := out.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		color.NoColor = true
	}

	slog.SetLogLoggerLevel(slog.LevelWarn)
	cfg, err := config.Load(".env")
	if err != nil {
		_, _ = fmt.Fprintln(out, "Failed to load configuration:", err)
		return 1
	}
	// Keep informational logs out of the command output.
	if cfg.Log.Level < int(log.WarnLevel) {
		cfg.Log.Level = int(log.WarnLevel)
	}

	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		_, _ = fmt.Fprintln(out, "Failed to initialize:", err)
		return 1
	}
	application := app.New(deps, cfg)
	defer application.Close() //nolint:errcheck

	c := &cli{
		ctrl:    application.Controller,
		catalog: deps.Catalog,
		in:      in,
		out:     out,
	}
	return c.dispatch(context.Background(), args)
}
