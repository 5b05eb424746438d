package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config field %q: %s (got %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors collects multiple validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("config validation failed:\n  %s", strings.Join(msgs, "\n  "))
}

// Validate checks the complete configuration for errors
func (c *Config) Validate() error {
	var errs ValidationErrors

	errs = append(errs, c.Database.validate()...)
	errs = append(errs, c.Cache.validate()...)
	errs = append(errs, c.Export.validate()...)
	errs = append(errs, c.Collector.validate()...)
	errs = append(errs, c.Logging.validate()...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (c *DatabaseConfig) validate() ValidationErrors {
	var errs ValidationErrors

	switch c.Type {
	case "duckdb":
		if c.Path == "" {
			errs = append(errs, ValidationError{
				Field:   "database.path",
				Value:   c.Path,
				Message: "path is required for duckdb",
			})
		}
	case "clickhouse":
		if c.ClickHouse.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "database.clickhouse.host",
				Value:   c.ClickHouse.Host,
				Message: "host is required for clickhouse",
			})
		}
		if c.ClickHouse.Port <= 0 || c.ClickHouse.Port > 65535 {
			errs = append(errs, ValidationError{
				Field:   "database.clickhouse.port",
				Value:   c.ClickHouse.Port,
				Message: "port must be between 1 and 65535",
			})
		}
		if c.ClickHouse.Database == "" {
			errs = append(errs, ValidationError{
				Field:   "database.clickhouse.database",
				Value:   c.ClickHouse.Database,
				Message: "database name is required",
			})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "database.type",
			Value:   c.Type,
			Message: "must be duckdb or clickhouse",
		})
	}

	return errs
}

func (c *CacheConfig) validate() ValidationErrors {
	var errs ValidationErrors

	if !c.Enabled {
		return errs
	}
	if c.Path == "" {
		errs = append(errs, ValidationError{
			Field:   "cache.path",
			Value:   c.Path,
			Message: "path is required when cache is enabled",
		})
	}
	if c.MaxMemoryMB < 0 {
		errs = append(errs, ValidationError{
			Field:   "cache.max_memory_mb",
			Value:   c.MaxMemoryMB,
			Message: "must not be negative",
		})
	}
	if c.GCDiscardRatio < 0 || c.GCDiscardRatio > 1 {
		errs = append(errs, ValidationError{
			Field:   "cache.gc_discard_ratio",
			Value:   c.GCDiscardRatio,
			Message: "must be between 0 and 1",
		})
	}

	return errs
}

func (c *ExportConfig) validate() ValidationErrors {
	var errs ValidationErrors

	if c.Format != "csv" && c.Format != "xlsx" {
		errs = append(errs, ValidationError{
			Field:   "export.format",
			Value:   c.Format,
			Message: "must be csv or xlsx",
		})
	}

	return errs
}

func (c *CollectorConfig) validate() ValidationErrors {
	var errs ValidationErrors

	for i, t := range c.Targets {
		if t.Name == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("collector.targets[%d].name", i),
				Value:   t.Name,
				Message: "name is required",
			})
		}
		if t.Address == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("collector.targets[%d].address", i),
				Value:   t.Address,
				Message: "address is required",
			})
		}
		if t.Port <= 0 || t.Port > 65535 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("collector.targets[%d].port", i),
				Value:   t.Port,
				Message: "port must be between 1 and 65535",
			})
		}
		if t.Username == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("collector.targets[%d].username", i),
				Value:   t.Username,
				Message: "username is required",
			})
		}
		for j, p := range t.Ports {
			if !isPONPort(p) {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("collector.targets[%d].ports[%d]", i, j),
					Value:   p,
					Message: "must be board/slot/port, e.g. 0/1/2",
				})
			}
		}
	}

	return errs
}

func (c *LoggingConfig) validate() ValidationErrors {
	var errs ValidationErrors

	switch strings.ToLower(c.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   c.Level,
			Message: "must be debug, info, warn, or error",
		})
	}
	if c.MaxSize < 0 {
		errs = append(errs, ValidationError{
			Field:   "logging.max_size",
			Value:   c.MaxSize,
			Message: "must not be negative",
		})
	}

	return errs
}

// isPONPort reports whether s looks like board/slot/port with numeric parts
func isPONPort(s string) bool {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
		for _, r := range p {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}
