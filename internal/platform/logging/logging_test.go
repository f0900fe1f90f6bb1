package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewHonoursLevel(t *testing.T) {
	logger, err := New("production", "warn")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Fatal("info should be disabled at warn level")
	}
	if !logger.Core().Enabled(zapcore.WarnLevel) {
		t.Fatal("warn should be enabled")
	}
	if _, err := New("development", "loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestInstallReplacesGlobal(t *testing.T) {
	logger := zap.NewNop()
	restore := Install(logger)
	if zap.L() != logger {
		t.Fatal("expected installed logger to be global")
	}
	restore()
	if zap.L() == logger {
		t.Fatal("expected previous logger to be restored")
	}
}
