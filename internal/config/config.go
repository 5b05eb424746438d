package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DatabaseConfig selects and configures the storage backend
type DatabaseConfig struct {
	// Type is "duckdb" (default, embedded) or "clickhouse"
	Type string `yaml:"type"`

	// DuckDB settings
	Path string `yaml:"path,omitempty"`

	// ClickHouse settings
	ClickHouse ClickHouseConfig `yaml:"clickhouse,omitempty"`
}

// ClickHouseConfig holds ClickHouse database connection configuration
type ClickHouseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	UseSSL   bool   `yaml:"use_ssl,omitempty"`

	MaxOpenConns int    `yaml:"max_open_conns,omitempty"`
	MaxIdleConns int    `yaml:"max_idle_conns,omitempty"`
	DialTimeout  string `yaml:"dial_timeout,omitempty"`
}

// CacheConfig holds ingest dedup cache configuration
type CacheConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Path           string        `yaml:"path"`
	MaxMemoryMB    int           `yaml:"max_memory_mb"`
	ValueLogMaxMB  int           `yaml:"value_log_max_mb"`
	ImportTTL      time.Duration `yaml:"import_ttl"`
	GCInterval     time.Duration `yaml:"gc_interval"`
	GCDiscardRatio float64       `yaml:"gc_discard_ratio"`
}

// ExportConfig holds spreadsheet export defaults
type ExportConfig struct {
	// Format is "csv" or "xlsx"
	Format string `yaml:"format"`
	// OutputDir receives exported spreadsheets
	OutputDir string `yaml:"output_dir"`
}

// CollectorTarget describes one OLT to collect dumps from
type CollectorTarget struct {
	Name     string   `yaml:"name"`
	Address  string   `yaml:"address"`
	Port     int      `yaml:"port,omitempty"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	Ports    []string `yaml:"ports"` // PON ports as "board/slot/port"
}

// CollectorConfig holds SSH dump collection configuration
type CollectorConfig struct {
	OutputDir string            `yaml:"output_dir"`
	Timeout   time.Duration     `yaml:"timeout,omitempty"`
	Targets   []CollectorTarget `yaml:"targets"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string `yaml:"level"`       // debug, info, warn, error
	File       string `yaml:"file"`        // log file path (optional)
	MaxSize    int    `yaml:"max_size"`    // megabytes
	MaxBackups int    `yaml:"max_backups"` // number of old log files to keep
	MaxAge     int    `yaml:"max_age"`     // days
	Console    bool   `yaml:"console"`     // also log to console
	JSON       bool   `yaml:"json"`        // JSON format instead of text
}

// Config represents the complete application configuration
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Cache     CacheConfig     `yaml:"cache"`
	Export    ExportConfig    `yaml:"export"`
	Collector CollectorConfig `yaml:"collector"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// Default configurations

func DefaultDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Type: "duckdb",
		Path: "./ontreport.duckdb",
		ClickHouse: ClickHouseConfig{
			Host:         "localhost",
			Port:         9000,
			Database:     "ontreport",
			Username:     "default",
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			DialTimeout:  "30s",
		},
	}
}

func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:        true,
		Path:           "./cache/badger",
		MaxMemoryMB:    64,
		ValueLogMaxMB:  256,
		ImportTTL:      90 * 24 * time.Hour,
		GCInterval:     10 * time.Minute,
		GCDiscardRatio: 0.5,
	}
}

func DefaultExportConfig() ExportConfig {
	return ExportConfig{
		Format:    "xlsx",
		OutputDir: "./exports",
	}
}

func DefaultCollectorConfig() CollectorConfig {
	return CollectorConfig{
		OutputDir: "./dumps",
		Timeout:   30 * time.Second,
	}
}

func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level:      "info",
		Console:    true,
		JSON:       false,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
	}
}

// DefaultConfig returns the complete default configuration
func DefaultConfig() *Config {
	return &Config{
		Database:  DefaultDatabaseConfig(),
		Cache:     DefaultCacheConfig(),
		Export:    DefaultExportConfig(),
		Collector: DefaultCollectorConfig(),
		Logging:   DefaultLoggingConfig(),
	}
}

// LoadConfig loads configuration from a YAML file. A missing file is
// not an error, the defaults apply.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyDefaults fills zero values left by a partial YAML file
func (c *Config) applyDefaults() {
	if c.Database.Type == "" {
		c.Database.Type = "duckdb"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./ontreport.duckdb"
	}
	if c.Cache.Enabled && c.Cache.Path == "" {
		c.Cache.Path = "./cache/badger"
	}
	if c.Cache.MaxMemoryMB == 0 {
		c.Cache.MaxMemoryMB = 64
	}
	if c.Cache.ValueLogMaxMB == 0 {
		c.Cache.ValueLogMaxMB = 256
	}
	if c.Cache.ImportTTL == 0 {
		c.Cache.ImportTTL = 90 * 24 * time.Hour
	}
	if c.Cache.GCInterval == 0 {
		c.Cache.GCInterval = 10 * time.Minute
	}
	if c.Cache.GCDiscardRatio == 0 {
		c.Cache.GCDiscardRatio = 0.5
	}
	if c.Export.Format == "" {
		c.Export.Format = "xlsx"
	}
	if c.Export.OutputDir == "" {
		c.Export.OutputDir = "./exports"
	}
	if c.Collector.OutputDir == "" {
		c.Collector.OutputDir = "./dumps"
	}
	if c.Collector.Timeout == 0 {
		c.Collector.Timeout = 30 * time.Second
	}
	for i := range c.Collector.Targets {
		if c.Collector.Targets[i].Port == 0 {
			c.Collector.Targets[i].Port = 22
		}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// DialTimeoutDuration parses the ClickHouse dial timeout string
func (c *ClickHouseConfig) DialTimeoutDuration() time.Duration {
	if c.DialTimeout == "" {
		return 30 * time.Second
	}
	d, err := time.ParseDuration(c.DialTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}
