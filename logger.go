// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rescache

package rescache

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with cache-specific helpers.
// Field names are kept consistent across operations.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.
// If handler is nil, uses a text handler to stderr at info level.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that writes JSON to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that writes human-readable text to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithFile adds a resource file field to the logger.
func (l *Logger) WithFile(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("file", name),
	}
}

// LogInit logs opening of one resource file.
func (l *Logger) LogInit(file string, resources int, err error) {
	if err != nil {
		l.Error("resource file open failed",
			"file", file,
			"error", err,
		)
		return
	}

	l.Debug("resource file opened",
		"file", file,
		"resources", resources,
	)
}

// LogLoad logs a cache miss load.
func (l *Logger) LogLoad(name ResourceName, size int, charge int64, err error) {
	if err != nil {
		l.Warn("resource load failed",
			"resource", name,
			"error", err,
		)
		return
	}

	l.Debug("resource loaded",
		"resource", name,
		"size", size,
		"charge", charge,
	)
}

// LogEvict logs release of one cached handle.
func (l *Logger) LogEvict(name ResourceName, charge, allocated int64) {
	l.Debug("resource evicted",
		"resource", name,
		"charge", charge,
		"allocated", allocated,
	)
}

// LogPreload logs a finished preload scan.
func (l *Logger) LogPreload(pattern string, loaded, failed int, canceled bool) {
	if failed > 0 {
		l.Warn("preload completed with failures",
			"pattern", pattern,
			"loaded", loaded,
			"failed", failed,
			"canceled", canceled,
		)
		return
	}

	l.Info("preload completed",
		"pattern", pattern,
		"loaded", loaded,
		"canceled", canceled,
	)
}
