package main

import (
	"io"

	"github.com/charmbracelet/log"
)

// newLogger creates a charm logger with timestamp formatting. It is used
// as the slog handler for every component.
func newLogger(w io.Writer, level log.Level, json bool) *log.Logger {
	opts := log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	}
	if json {
		opts.Formatter = log.JSONFormatter
	}
	return log.NewWithOptions(w, opts)
}
