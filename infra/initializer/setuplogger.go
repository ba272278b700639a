package initializer

import (
	"io"
	"log/slog"
	"os"

	"github.com/amirasaad/fxconverter/pkg/config"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	errorColor = lipgloss.AdaptiveColor{Light: "#D7263D", Dark: "#FF6B6B"}
	warnColor  = lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#F4D35E"}
	infoColor  = lipgloss.AdaptiveColor{Light: "#1B998B", Dark: "#2EC4B6"}
	debugColor = lipgloss.AdaptiveColor{Light: "#6C757D", Dark: "#ADB5BD"}
)

// SetupLogger builds the styled slog logger used by every command and
// installs it as the default.
func SetupLogger(cfg *config.Log) *slog.Logger {
	logger := newLogger(os.Stdout, cfg)
	slog.SetDefault(logger)
	return logger
}

// logStyles labels levels and highlights the attributes a rate fetch logs.
func logStyles() *log.Styles {
	styles := log.DefaultStyles()

	levels := map[log.Level]struct {
		label string
		color lipgloss.AdaptiveColor
	}{
		log.ErrorLevel: {"ERR", errorColor},
		log.WarnLevel:  {"WRN", warnColor},
		log.InfoLevel:  {"INF", infoColor},
		log.DebugLevel: {"DBG", debugColor},
	}
	for level, s := range levels {
		styles.Levels[level] = lipgloss.NewStyle().
			SetString(s.label).
			Bold(true).
			Foreground(s.color)
	}

	styles.Keys["error"] = lipgloss.NewStyle().Foreground(errorColor)
	styles.Values["error"] = lipgloss.NewStyle().Bold(true)
	for _, key := range []string{"fetch_id", "provider", "base"} {
		styles.Keys[key] = lipgloss.NewStyle().Foreground(infoColor)
	}
	return styles
}

func newLogger(w io.Writer, cfg *config.Log) *slog.Logger {
	if cfg == nil {
		cfg = &config.Log{Format: "text"}
	}

	formatter := log.TextFormatter
	if cfg.Format == "json" {
		formatter = log.JSONFormatter
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		Level:           log.Level(cfg.Level),
		Prefix:          cfg.Prefix,
		Formatter:       formatter,
	})
	logger.SetStyles(logStyles())

	return slog.New(logger)
}
