// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package logger configures the global zerolog logger.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures Setup.
type Options struct {
	Level      string
	Path       string
	MaxSize    int
	MaxBackups int
	// Out receives console output. Nil means stdout.
	Out io.Writer
}

// ParseLevel maps ERROR, WARN, INFO, DEBUG and TRACE (any case) to zerolog
// levels. Unknown values are INFO.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "ERROR":
		return zerolog.ErrorLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "TRACE":
		return zerolog.TraceLevel
	}
	return zerolog.InfoLevel
}

// SetLevel changes the global log level.
func SetLevel(level string) {
	lvl := ParseLevel(level)
	if zerolog.GlobalLevel() == lvl {
		return
	}
	zerolog.SetGlobalLevel(lvl)
	log.Info().Str("level", lvl.String()).Msg("log level changed")
}

// Setup replaces the global logger. Console output always goes to opts.Out;
// with opts.Path set, logs are also written to a file rotated by size. The
// returned closer releases the file and is a no-op without one.
func Setup(opts Options) (io.Closer, error) {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	var writer io.Writer = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	var closer io.Closer = nopCloser{}

	if path := strings.TrimSpace(opts.Path); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		rotator := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    opts.MaxSize,
			MaxBackups: opts.MaxBackups,
		}
		writer = zerolog.MultiLevelWriter(writer, rotator)
		closer = rotator
	}

	zerolog.SetGlobalLevel(ParseLevel(opts.Level))
	log.Logger = zerolog.New(writer).With().Timestamp().Logger()

	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
