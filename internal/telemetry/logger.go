// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package telemetry builds the process logger, the Prometheus metrics and the
// OpenTelemetry tracer provider.
package telemetry

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/case-analyzer/pkg/types"
)

// NewLogger builds a zap logger from the telemetry settings. JSON output uses
// the production encoder; otherwise a console encoder is used.
func NewLogger(cfg types.TelemetryConfig) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.LogLevel != "" {
		if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			return nil, fmt.Errorf("parsing log level %q: %w", cfg.LogLevel, err)
		}
	}

	var zc zap.Config
	if cfg.LogJSON {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.DisableStacktrace = true
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
