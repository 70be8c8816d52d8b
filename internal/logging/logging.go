// Package logging configures the logrus logger shared across pbudget.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

const defaultLevel = logrus.WarnLevel

var std = New("warn", "text", os.Stderr)

// New creates a logger with the given level and format ("json" or "text").
// An unknown level falls back to warn.
func New(level, format string, w io.Writer) *logrus.Logger {
	logger := logrus.New()
	apply(logger, level, format, w)
	return logger
}

// Get returns the process-wide logger. Packages may capture the pointer at
// init time; Configure updates it in place.
func Get() *logrus.Logger {
	return std
}

// Configure resets the process-wide logger's level, format, and output.
func Configure(level, format string, w io.Writer) {
	apply(std, level, format, w)
}

// OpenFile opens (creating if needed) an append-only log file.
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600) //nolint:gosec // log path under cache dir
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}

func apply(logger *logrus.Logger, level, format string, w io.Writer) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = defaultLevel
	}
	logger.SetLevel(lvl)

	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if w != nil {
		logger.SetOutput(w)
	}
}
