package database

import (
	"database/sql"
	"fmt"
)

// DatabaseInterface defines the common interface for all database backends
type DatabaseInterface interface {
	// Connection management
	Close() error
	Conn() *sql.DB

	// Schema management
	Migrate(reset bool) error
	GetVersion() (string, error)

	// Health check
	Ping() error
}

// Factory function type for creating database instances
type DatabaseFactory func(config interface{}) (DatabaseInterface, error)

// DatabaseRegistry holds factory functions for different database types
var DatabaseRegistry = map[string]DatabaseFactory{
	// Backend factories register themselves in their init functions
}

// RegisterDatabase registers a new database type with its factory function
func RegisterDatabase(dbType string, factory DatabaseFactory) {
	DatabaseRegistry[dbType] = factory
}

// CreateDatabase creates a database instance based on type and configuration
func CreateDatabase(dbType string, config interface{}) (DatabaseInterface, error) {
	factory, exists := DatabaseRegistry[dbType]
	if !exists {
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}

	return factory(config)
}

func init() {
	RegisterDatabase("duckdb", func(config interface{}) (DatabaseInterface, error) {
		path, ok := config.(string)
		if !ok {
			return nil, fmt.Errorf("duckdb config must be a file path string")
		}
		return New(path)
	})
}
