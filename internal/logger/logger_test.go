package logger

import (
	"strings"
	"testing"
)

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got %q", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected format 'console', got %q", cfg.Format)
	}
	if cfg.Output != "stdout" {
		t.Errorf("expected output 'stdout', got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected timestamp enabled by default")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
		errMsg  string
	}{
		{"valid json", Config{Level: "info", Format: "json"}, false, ""},
		{"valid console", Config{Level: "debug", Format: "console"}, false, ""},
		{"bad level", Config{Level: "verbose", Format: "json"}, true, "logging.level"},
		{"bad format", Config{Level: "info", Format: "xml"}, true, "logging.format"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !strings.Contains(err.Error(), tc.errMsg) {
					t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestFields(t *testing.T) {
	m := Fields("op", "convert", "rows", 3)
	if m["op"] != "convert" {
		t.Errorf("expected op=convert, got %v", m["op"])
	}
	if m["rows"] != 3 {
		t.Errorf("expected rows=3, got %v", m["rows"])
	}
}

func TestWithComponent(t *testing.T) {
	l := NewDefault("test").WithComponent("probe")
	if l == nil {
		t.Fatal("expected logger")
	}
}
