// Package logging defines the context-aware structured logger used by the
// gallery server, with log/slog and zap backed implementations.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "object stored", "key", key, "bytes", n)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	// Warn logs unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Supported backends.
const (
	BackendSlog = "slog"
	BackendZap  = "zap"
)

// New builds a Logger writing JSON to stdout with the given backend and
// level ("debug", "info", "warn", "error"). Unknown levels fall back to info.
func New(backend, level string) (Logger, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendSlog:
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			lvl = slog.LevelInfo
		}
		h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
		return NewSlogLogger(slog.New(h)), nil
	case BackendZap:
		cfg := zap.NewProductionConfig()
		var lvl zapcore.Level
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			lvl = zapcore.InfoLevel
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
		z, err := cfg.Build()
		if err != nil {
			return nil, fmt.Errorf("build zap logger: %w", err)
		}
		return NewZapLogger(z), nil
	default:
		return nil, fmt.Errorf("unknown log backend %q", backend)
	}
}
