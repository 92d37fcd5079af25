// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"context"
	"io"
	"log/slog"

	"github.com/pterm/pterm"
)

type loggerKey struct{}

// New returns a slog logger that prints through pterm at the given level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	pl := pterm.DefaultLogger.WithWriter(w).WithLevel(ptermLevel(level))
	return slog.New(pterm.NewSlogHandler(pl))
}

func ptermLevel(level slog.Level) pterm.LogLevel {
	switch {
	case level <= slog.LevelDebug:
		return pterm.LogLevelDebug
	case level <= slog.LevelInfo:
		return pterm.LogLevelInfo
	case level <= slog.LevelWarn:
		return pterm.LogLevelWarn
	default:
		return pterm.LogLevelError
	}
}

// WithLogger stores l in ctx.
func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// FromContext retrieves the logger stored by WithLogger.
// Returns a discard logger if none is set.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return l
		}
	}
	return slog.New(slog.DiscardHandler)
}
