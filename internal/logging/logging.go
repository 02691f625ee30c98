// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging configures the zerolog logger used for diagnostics.
// Recognized text never goes through the logger; it is written to the
// output sink by the batch driver.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/textract/pkg/types"
)

// New builds a logger writing to w (stderr when nil). Format "json" emits
// one JSON object per line; anything else uses the human-readable console
// writer.
func New(cfg types.LogConfig, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if !strings.EqualFold(cfg.Format, "json") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("app", "textract").
		Logger()
}

// ParseLevel converts a level name to a zerolog level. Unknown names map
// to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
