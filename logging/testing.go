package logging

import (
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

type testWriter struct {
	tb testing.TB
}

// Write outputs one encoded entry through the underlying test object `Log` method, so log lines
// are associated with the right test even when tests run in parallel.
func (tw testWriter) Write(p []byte) (int, error) {
	tw.tb.Helper()
	tw.tb.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

// Sync is a no-op.
func (tw testWriter) Sync() error {
	return nil
}

// testCore logs in the local timezone without colors.
func testCore(tb testing.TB) coreFactory {
	return func(level zapcore.LevelEnabler) zapcore.Core {
		cfg := NewEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), testWriter{tb}, level)
	}
}
