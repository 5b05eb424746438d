package database

import (
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/marcboeker/go-duckdb"
)

// DB wraps a DuckDB connection with thread-safety
type DB struct {
	conn *sql.DB
	mu   sync.RWMutex
}

// New creates a new DuckDB connection
func New(path string) (*DB, error) {
	// Configure DuckDB connection string with optimizations
	dsn := fmt.Sprintf("%s?memory_limit=4GB&threads=4", path)

	conn, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open DuckDB connection: %w", err)
	}

	// Test connection
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping DuckDB: %w", err)
	}

	db := &DB{
		conn: conn,
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// Conn returns the underlying sql.DB connection (thread-safe)
func (db *DB) Conn() *sql.DB {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.conn
}

// Ping tests the database connection
func (db *DB) Ping() error {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	return db.conn.Ping()
}

// Migrate creates the database schema. When reset is true the existing
// table is dropped first, otherwise repeated imports accumulate.
func (db *DB) Migrate(reset bool) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if reset {
		if _, err := db.conn.Exec(`DROP TABLE IF EXISTS ont_records`); err != nil {
			return fmt.Errorf("failed to drop existing table: %w", err)
		}
	}

	// Create ont_records table optimized for DuckDB
	createSQL := `
	CREATE TABLE IF NOT EXISTS ont_records (
		olt_name TEXT NOT NULL,
		pon_port TEXT NOT NULL,
		board INTEGER NOT NULL,
		slot INTEGER NOT NULL,
		port INTEGER NOT NULL,
		ont_id INTEGER NOT NULL,

		run_state TEXT NOT NULL,
		last_up_date TEXT NOT NULL,
		last_up_time TEXT NOT NULL,
		last_down_date TEXT NOT NULL,
		last_down_time TEXT NOT NULL,
		last_down_cause TEXT NOT NULL,

		sn TEXT NOT NULL,
		ont_type TEXT NOT NULL,
		distance TEXT NOT NULL,
		power TEXT NOT NULL,
		description TEXT NOT NULL,
		pop TEXT NOT NULL,

		-- Metadata
		file_path TEXT NOT NULL,
		file_crc UINTEGER NOT NULL,
		report_date TIMESTAMP NOT NULL,
		imported_at TIMESTAMP NOT NULL,

		PRIMARY KEY (olt_name, board, slot, port, ont_id, report_date)
	)`

	if _, err := db.conn.Exec(createSQL); err != nil {
		return fmt.Errorf("failed to create ont_records table: %w", err)
	}

	// Create optimized indexes for DuckDB
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_ont_olt ON ont_records(olt_name)",
		"CREATE INDEX IF NOT EXISTS idx_ont_pop ON ont_records(pop)",
		"CREATE INDEX IF NOT EXISTS idx_ont_state ON ont_records(run_state)",
		"CREATE INDEX IF NOT EXISTS idx_ont_sn ON ont_records(sn)",
		"CREATE INDEX IF NOT EXISTS idx_ont_date ON ont_records(report_date)",
	}

	for _, indexSQL := range indexes {
		if _, err := db.conn.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// GetVersion returns the DuckDB version
func (db *DB) GetVersion() (string, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var version string
	err := db.conn.QueryRow("SELECT version()").Scan(&version)
	if err != nil {
		return "", fmt.Errorf("failed to get DuckDB version: %w", err)
	}

	return version, nil
}
