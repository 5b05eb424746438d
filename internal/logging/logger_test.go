package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitialize(t *testing.T) {
	t.Run("default config", func(t *testing.T) {
		if err := Initialize(nil); err != nil {
			t.Fatalf("Failed to initialize with default config: %v", err)
		}
		if GetLogger() == nil {
			t.Fatal("GetLogger returned nil after Initialize")
		}
	})

	t.Run("custom config", func(t *testing.T) {
		cfg := &Config{
			Level:   "debug",
			Console: true,
		}
		if err := Initialize(cfg); err != nil {
			t.Fatalf("Failed to initialize with custom config: %v", err)
		}
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if level := parseLevel(tt.input); level != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, level, tt.expected)
			}
		})
	}
}

func TestFileLogging(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "ingest.log")

	cfg := &Config{
		Level:   "info",
		File:    logPath,
		Console: false,
		MaxSize: 1,
	}
	if err := Initialize(cfg); err != nil {
		t.Fatalf("Failed to initialize with file: %v", err)
	}

	Info("import finished", OLT("HWGPON2U-01-PNHHQ"), Count("record", 42))

	if err := GetLogger().Close(); err != nil {
		t.Fatalf("Failed to close logger: %v", err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "import finished") {
		t.Error("log message not written to file")
	}
	if !strings.Contains(string(content), "HWGPON2U-01-PNHHQ") {
		t.Error("structured field not written to file")
	}
}

func TestJSONFormat(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "ingest.json")

	cfg := &Config{
		Level:   "info",
		File:    logPath,
		Console: false,
		JSON:    true,
	}
	if err := Initialize(cfg); err != nil {
		t.Fatalf("Failed to initialize with JSON format: %v", err)
	}

	Info("parsed report", File("/dumps/x.txt"))

	if err := GetLogger().Close(); err != nil {
		t.Fatalf("Failed to close logger: %v", err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), `"msg":"parsed report"`) {
		t.Errorf("expected JSON output, got: %s", content)
	}
}

func TestReload(t *testing.T) {
	if err := Initialize(&Config{Level: "info", Console: true}); err != nil {
		t.Fatalf("Failed to initialize: %v", err)
	}

	if err := GetLogger().Reload(&Config{Level: "debug", Console: true}); err != nil {
		t.Fatalf("Failed to reload: %v", err)
	}
}

func TestHelpers(t *testing.T) {
	if got := Err(nil).Value.String(); got != "" {
		t.Errorf("Err(nil) = %q, want empty", got)
	}
	if got := Err(os.ErrNotExist).Value.String(); got == "" {
		t.Error("Err() lost the error text")
	}
	if got := PONPort("0/1/0").Value.String(); got != "0/1/0" {
		t.Errorf("PONPort = %q", got)
	}
	if got := Duration("parse", 0).Key; got != "parse_ms" {
		t.Errorf("Duration key = %q", got)
	}
	if got := Count("record", 7).Key; got != "record_count" {
		t.Errorf("Count key = %q", got)
	}
}
