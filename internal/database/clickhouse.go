package database

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// ClickHouseDB wraps a ClickHouse connection with thread-safety
type ClickHouseDB struct {
	conn   driver.Conn
	sqlDB  *sql.DB // For compatibility with the storage layer
	mu     sync.RWMutex
	config *ClickHouseConfig
}

// ClickHouseConfig holds ClickHouse connection configuration
type ClickHouseConfig struct {
	Host         string
	Port         int
	Database     string
	Username     string
	Password     string
	UseSSL       bool
	MaxOpenConns int
	MaxIdleConns int
	DialTimeout  time.Duration
}

// NewClickHouse creates a new ClickHouse connection
func NewClickHouse(config *ClickHouseConfig) (*ClickHouseDB, error) {
	// IMPORTANT: Do NOT set MaxOpenConns/MaxIdleConns in Options due to driver bug
	// They must be set on the sql.DB after OpenDB
	options := &clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", config.Host, config.Port)},
		Auth: clickhouse.Auth{
			Database: config.Database,
			Username: config.Username,
			Password: config.Password,
		},
		DialTimeout: config.DialTimeout,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	}

	if config.UseSSL {
		options.TLS = &tls.Config{}
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open ClickHouse connection: %w", err)
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	// Create SQL DB for compatibility
	sqlDB := clickhouse.OpenDB(options)

	// Pool settings must be applied AFTER OpenDB, the driver rejects them in Options
	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	db := &ClickHouseDB{
		conn:   conn,
		sqlDB:  sqlDB,
		config: config,
	}

	return db, nil
}

// Close closes the ClickHouse connection
func (db *ClickHouseDB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	var err error
	if db.sqlDB != nil {
		if sqlErr := db.sqlDB.Close(); sqlErr != nil {
			err = sqlErr
		}
	}

	if db.conn != nil {
		if connErr := db.conn.Close(); connErr != nil && err == nil {
			err = connErr
		}
	}

	return err
}

// Conn returns a sql.DB connection for compatibility
func (db *ClickHouseDB) Conn() *sql.DB {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.sqlDB
}

// NativeConn returns the native ClickHouse connection
func (db *ClickHouseDB) NativeConn() driver.Conn {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.conn
}

// Migrate creates the ClickHouse database schema
func (db *ClickHouseDB) Migrate(reset bool) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	ctx := context.Background()

	if reset {
		if err := db.conn.Exec(ctx, `DROP TABLE IF EXISTS ont_records`); err != nil {
			return fmt.Errorf("failed to drop existing table: %w", err)
		}
	}

	createSQL := `
	CREATE TABLE IF NOT EXISTS ont_records (
		olt_name LowCardinality(String),
		pon_port String,
		board Int32,
		slot Int32,
		port Int32,
		ont_id Int32,

		run_state LowCardinality(String),
		last_up_date String,
		last_up_time String,
		last_down_date String,
		last_down_time String,
		last_down_cause LowCardinality(String),

		sn String,
		ont_type LowCardinality(String),
		distance String,
		power String,
		description String,
		pop LowCardinality(String),

		file_path String,
		file_crc UInt32,
		report_date DateTime,
		imported_at DateTime
	) ENGINE = MergeTree()
	ORDER BY (olt_name, board, slot, port, ont_id, report_date)
	PARTITION BY toYYYYMM(report_date)
	SETTINGS index_granularity = 8192`

	if err := db.conn.Exec(ctx, createSQL); err != nil {
		return fmt.Errorf("failed to create ont_records table: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_ont_sn ON ont_records(sn) TYPE bloom_filter GRANULARITY 1",
		"CREATE INDEX IF NOT EXISTS idx_ont_desc ON ont_records(description) TYPE bloom_filter GRANULARITY 1",
		"CREATE INDEX IF NOT EXISTS idx_ont_date ON ont_records(report_date) TYPE minmax GRANULARITY 1",
	}

	for _, indexSQL := range indexes {
		if err := db.conn.Exec(ctx, indexSQL); err != nil {
			// Not all deployments support all index types
			fmt.Printf("Warning: Could not create index: %v\n", err)
		}
	}

	return nil
}

// GetVersion returns the ClickHouse version
func (db *ClickHouseDB) GetVersion() (string, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	ctx := context.Background()
	var version string

	row := db.conn.QueryRow(ctx, "SELECT version()")
	if err := row.Scan(&version); err != nil {
		return "", fmt.Errorf("failed to get ClickHouse version: %w", err)
	}

	return version, nil
}

// Ping tests the database connection
func (db *ClickHouseDB) Ping() error {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.conn == nil {
		return fmt.Errorf("database connection is nil")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return db.conn.Ping(ctx)
}

func init() {
	RegisterDatabase("clickhouse", func(config interface{}) (DatabaseInterface, error) {
		chConfig, ok := config.(*ClickHouseConfig)
		if !ok {
			return nil, fmt.Errorf("clickhouse config must be *ClickHouseConfig")
		}
		return NewClickHouse(chConfig)
	})
}
