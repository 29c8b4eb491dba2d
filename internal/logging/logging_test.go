package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/dshills/trackedit/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LoggingConfig
		wantErr bool
	}{
		{"json", config.LoggingConfig{Level: "info", Format: "json"}, false},
		{"console", config.LoggingConfig{Level: "debug", Format: "console"}, false},
		{"bad level", config.LoggingConfig{Level: "loud", Format: "json"}, true},
		{"bad format", config.LoggingConfig{Level: "info", Format: "xml"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && logger == nil {
				t.Error("New() returned nil logger")
			}
		})
	}
}

func TestJSONOutputRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(config.LoggingConfig{Level: "warn", Format: "json"}, zapcore.AddSync(&buf))
	if err != nil {
		t.Fatal(err)
	}

	logger.Infow("planned overwrite", "events", 3)
	logger.Warnw("rollback", "event", "InsertItemEdit")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %q", buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["msg"] != "rollback" || entry["event"] != "InsertItemEdit" {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(config.LoggingConfig{Level: "debug", Format: "console"}, zapcore.AddSync(&buf))
	if err != nil {
		t.Fatal(err)
	}

	logger.Debugw("config reloaded", "path", "trackedit.toml")

	if !strings.Contains(buf.String(), "config reloaded") || !strings.Contains(buf.String(), "trackedit.toml") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestNop(t *testing.T) {
	Nop().Infow("discarded")
}
