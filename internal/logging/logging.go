// Package logging builds the process-wide zerolog.Logger the CLI and
// every internal package log through: a Config/New shape with
// console-vs-JSON format selection, a per-run "dcp" field standing in
// for the per-request id a web server would use.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Config holds logger configuration (§9 "logging").
type Config struct {
	Level      string // zerolog level name: "debug", "info", "warn", "error"
	Format     string // "json" or "console"
	Output     string // "stdout", "stderr", or a file path
	TimeFormat string
}

// New builds a console-formatted logger at the given level writing to
// stderr — the CLI's default (§9); when stderr is not a terminal it
// writes plain JSON lines instead.
func New(level string) zerolog.Logger {
	return NewWithConfig(Config{
		Level:      level,
		Format:     "console",
		Output:     "stderr",
		TimeFormat: time.RFC3339,
	})
}

// NewWithConfig builds a logger from a fully specified Config.
func NewWithConfig(cfg Config) zerolog.Logger {
	if cfg.TimeFormat != "" {
		zerolog.TimeFieldFormat = cfg.TimeFormat
	} else {
		zerolog.TimeFieldFormat = time.RFC3339
	}

	output := resolveOutput(cfg.Output)

	var logger zerolog.Logger
	if cfg.Format == "console" && isTerminal(output) {
		consoleWriter := zerolog.ConsoleWriter{
			Out:        colorable.NewColorable(output),
			TimeFormat: "2006-01-02 15:04:05",
			FormatLevel: func(i interface{}) string {
				return strings.ToUpper(fmt.Sprintf("| %-5s |", i))
			},
		}
		logger = zerolog.New(consoleWriter).With().Timestamp().Logger()
	} else {
		// Piped to a file or CI log: degrade to plain JSON-lines.
		logger = zerolog.New(output).With().Timestamp().Logger()
	}

	logLevel, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	return logger.With().Str("app", "clairmeta").Logger()
}

// isTerminal reports whether w is an interactive terminal, gating ANSI
// coloring per §10.1 ("piping to a file or CI log degrades to plain
// JSON-lines").
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func resolveOutput(output string) *os.File {
	switch output {
	case "stdout":
		return os.Stdout
	case "stderr", "":
		return os.Stderr
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return os.Stderr
		}
		return f
	}
}

// WithPackage returns a child logger tagged with the DCP path, schema,
// and package type being validated, bound once at facade construction —
// the CLI-batch analogue of a per-request logger helper.
func WithPackage(logger zerolog.Logger, path, schema, packageType string) zerolog.Logger {
	return logger.With().
		Str("dcp_path", path).
		Str("schema", schema).
		Str("package_type", packageType).
		Logger()
}
