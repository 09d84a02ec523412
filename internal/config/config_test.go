package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Name != ServiceName {
		t.Errorf("Name = %q, want %q", cfg.Name, ServiceName)
	}
	if cfg.Environment != "development" {
		t.Errorf("Environment = %q", cfg.Environment)
	}
	if !cfg.Debug {
		t.Error("development should enable debug")
	}
	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 3200 {
		t.Errorf("server defaults = %s:%d", cfg.Server.Host, cfg.Server.Port)
	}
	if cfg.Probe.Interval != 30*time.Second {
		t.Errorf("probe interval = %s", cfg.Probe.Interval)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidateRejectsBadSections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad environment", func(c *Config) { c.Environment = "qa" }},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"nextcloud enabled without url", func(c *Config) { c.Nextcloud.Enabled = true; c.Nextcloud.URL = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			cfg.ApplyDefaults()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	yaml := []byte(`
name: data2csv
environment: production
server:
  host: 127.0.0.1
  port: 8080
nextcloud:
  enabled: true
  url: https://cloud.example.com
  username: admin
  password: secret
`)
	if err := os.WriteFile(path, yaml, 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var cfg Config
	if err := Load(&cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	cfg.ApplyDefaults()

	if cfg.Environment != "production" {
		t.Errorf("environment = %q", cfg.Environment)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 8080 {
		t.Errorf("server = %s:%d", cfg.Server.Host, cfg.Server.Port)
	}
	if !cfg.Nextcloud.Enabled || cfg.Nextcloud.URL != "https://cloud.example.com" {
		t.Errorf("nextcloud = %+v", cfg.Nextcloud)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestEnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte("server:\n  port: 8080\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("SERVER_PORT", "9090")

	var cfg Config
	if err := Load(&cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want env override 9090", cfg.Server.Port)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	got := envKeyVariants("NEXTCLOUD_EXPORT_DIR")
	want := map[string]bool{
		"nextcloud_export_dir": true,
		"nextcloud.export.dir": true,
		"nextcloud.export_dir": true,
	}
	for _, v := range got {
		if !want[v] {
			t.Errorf("unexpected variant %q", v)
		}
		delete(want, v)
	}
	for v := range want {
		t.Errorf("missing variant %q", v)
	}
}

func TestLoadMissingFilesIsFine(t *testing.T) {
	var cfg Config
	if err := Load(&cfg, WithConfigFile(filepath.Join(t.TempDir(), "absent.yml"))); err != nil {
		t.Errorf("missing config file should not error: %v", err)
	}
}
