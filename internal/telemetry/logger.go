// Package telemetry wires the structured logger dexfinal uses for
// run-level diagnostics: which components fired, how many fields moved.
// go.uber.org/zap gets a direct home here instead of a hand-rolled
// formatter.
package telemetry

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tangzhangming/dexfinal/internal/finalinline"
)

// NewLogger builds a console-encoded zap.Logger at the given level name
// (debug, info, warn, error, or zap's dpanic, panic, fatal; an empty or
// unrecognised name falls back to info).
func NewLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// LogMetrics reports the outcome of one finalinline.Run invocation at
// info level, one field per counter so the values stay greppable in
// console output.
func LogMetrics(logger *zap.Logger, classCount int, m finalinline.Metrics) {
	logger.Info("final-inline pass complete",
		zap.Int("classes", classCount),
		zap.Int("encodable_clinits_replaced", m.EncodableClinitsReplaced),
		zap.Int("static_finals_resolved", m.StaticFinalsResolved),
		zap.Int("unhandled_wide_reads", m.UnhandledWideReads),
	)
}
