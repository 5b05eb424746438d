package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidateDatabase(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "unknown type",
			mutate:  func(c *Config) { c.Database.Type = "postgres" },
			wantErr: "database.type",
		},
		{
			name: "duckdb without path",
			mutate: func(c *Config) {
				c.Database.Type = "duckdb"
				c.Database.Path = ""
			},
			wantErr: "database.path",
		},
		{
			name: "clickhouse without host",
			mutate: func(c *Config) {
				c.Database.Type = "clickhouse"
				c.Database.ClickHouse.Host = ""
			},
			wantErr: "database.clickhouse.host",
		},
		{
			name: "clickhouse bad port",
			mutate: func(c *Config) {
				c.Database.Type = "clickhouse"
				c.Database.ClickHouse.Port = 70000
			},
			wantErr: "database.clickhouse.port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateCollectorTargets(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Collector.Targets = []CollectorTarget{
		{Name: "OLT-1", Address: "10.0.0.1", Port: 22, Username: "admin", Ports: []string{"0/1/2"}},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid target rejected: %v", err)
	}

	cfg.Collector.Targets[0].Ports = []string{"0/1"}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "ports[0]") {
		t.Errorf("expected PON port format error, got %v", err)
	}

	cfg.Collector.Targets[0].Ports = nil
	cfg.Collector.Targets[0].Address = ""
	err = cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "address") {
		t.Errorf("expected address error, got %v", err)
	}
}

func TestValidateExportFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Export.Format = "pdf"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown export format")
	}
}

func TestIsPONPort(t *testing.T) {
	valid := []string{"0/1/2", "0/17/15", "10/0/0"}
	for _, p := range valid {
		if !isPONPort(p) {
			t.Errorf("isPONPort(%q) = false, want true", p)
		}
	}
	invalid := []string{"", "0/1", "0/1/2/3", "a/1/2", "0//2", "0-1-2"}
	for _, p := range invalid {
		if isPONPort(p) {
			t.Errorf("isPONPort(%q) = true, want false", p)
		}
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should yield defaults: %v", err)
	}
	if cfg.Database.Type != "duckdb" {
		t.Errorf("Database.Type = %q, want duckdb", cfg.Database.Type)
	}
}

func TestLoadConfigPartial(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
database:
  type: clickhouse
  clickhouse:
    host: ch.local
    port: 9000
    database: ontreport
collector:
  targets:
    - name: OLT-1
      address: 10.0.0.1
      username: admin
      password: secret
      ports: ["0/1/0", "0/1/1"]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Database.Type != "clickhouse" {
		t.Errorf("Database.Type = %q, want clickhouse", cfg.Database.Type)
	}
	if cfg.Database.ClickHouse.Host != "ch.local" {
		t.Errorf("ClickHouse.Host = %q", cfg.Database.ClickHouse.Host)
	}
	// defaults filled in for sections the file omits
	if cfg.Export.Format != "xlsx" {
		t.Errorf("Export.Format = %q, want xlsx default", cfg.Export.Format)
	}
	if cfg.Cache.ImportTTL != 90*24*time.Hour {
		t.Errorf("Cache.ImportTTL = %v", cfg.Cache.ImportTTL)
	}
	if len(cfg.Collector.Targets) != 1 {
		t.Fatalf("expected 1 target, got %d", len(cfg.Collector.Targets))
	}
	if cfg.Collector.Targets[0].Port != 22 {
		t.Errorf("target port default = %d, want 22", cfg.Collector.Targets[0].Port)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Database.Path = "/data/ont.duckdb"
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Database.Path != "/data/ont.duckdb" {
		t.Errorf("Database.Path = %q", loaded.Database.Path)
	}
}
