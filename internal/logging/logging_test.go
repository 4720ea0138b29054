package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "startychat.log")

	logger, err := New(true, path)
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}

	logger.Debug("debug line")
	logger.Info("info line")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "debug line") {
		t.Error("verbose logger should keep debug entries")
	}
	if !strings.Contains(content, `"logger":"startychat"`) {
		t.Errorf("expected named logger, got %s", content)
	}
}

func TestNew_InfoLevelDropsDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "startychat.log")

	logger, err := New(false, path)
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}

	logger.Debug("hidden")
	logger.Info("shown")
	_ = logger.Sync()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "hidden") {
		t.Error("debug entry should be dropped at info level")
	}
	if !strings.Contains(string(data), "shown") {
		t.Error("info entry should be written")
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("OrNop(nil) should return a logger")
	}
	OrNop(nil).Info("no panic")
}

func TestNewCLI(t *testing.T) {
	for _, verbose := range []bool{false, true} {
		logger, err := NewCLI(verbose)
		if err != nil {
			t.Fatalf("NewCLI(%v) returned error: %v", verbose, err)
		}
		if got := logger.Core().Enabled(zapcore.DebugLevel); got != verbose {
			t.Errorf("NewCLI(%v) debug enabled = %v", verbose, got)
		}
		if !logger.Core().Enabled(zapcore.WarnLevel) {
			t.Errorf("NewCLI(%v) should always keep warnings", verbose)
		}
	}
}
