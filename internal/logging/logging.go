// SPDX-License-Identifier: EPL-2.0

// Package logging sets up the process-wide slog logger for the demo host.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

var ErrUnknownLevel = errors.New("logging: unexpected log level")

// ParseLevel accepts "error", "warn", "info" and "debug", case-insensitive.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "error":
		return slog.LevelError, nil
	case "warn":
		return slog.LevelWarn, nil
	case "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, level)
	}
}

// New builds a logger writing text to w, or JSON when json is set. Level
// "none" discards everything.
func New(w io.Writer, level string, json bool) (*slog.Logger, error) {
	if strings.EqualFold(level, "none") {
		return slog.New(slog.DiscardHandler), nil
	}

	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// Configure installs the default slog logger. An empty file logs text to
// stdout; otherwise JSON is written to file, truncated on open, and the
// returned *os.File must be closed by the caller.
func Configure(level, file string) (*slog.Logger, *os.File, error) {
	if file == "" {
		logger, err := New(os.Stdout, level, false)
		if err != nil {
			return nil, nil, err
		}
		slog.SetDefault(logger)
		return logger, nil, nil
	}

	// Validate before touching the file system.
	if !strings.EqualFold(level, "none") {
		if _, err := ParseLevel(level); err != nil {
			return nil, nil, err
		}
	}

	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("logging: %w", err)
	}

	logger, err := New(f, level, true)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	slog.SetDefault(logger)

	return logger, f, nil
}
