package storage

import (
	"fmt"
	"sync"

	"github.com/ontreportdb/internal/database"
)

// DefaultChunkSize is the number of records inserted per statement
// inside a batch transaction.
const DefaultChunkSize = 500

// Storage provides thread-safe record operations over a database backend
type Storage struct {
	db           database.DatabaseInterface
	queryBuilder *QueryBuilder
	resultParser *ResultParser
	chunkSize    int
	mu           sync.RWMutex
}

// New creates a new Storage instance over the given backend
func New(db database.DatabaseInterface) *Storage {
	return &Storage{
		db:           db,
		queryBuilder: NewQueryBuilder(),
		resultParser: NewResultParser(),
		chunkSize:    DefaultChunkSize,
	}
}

// Close releases storage resources. The backend connection itself is
// owned by the caller.
func (s *Storage) Close() error {
	return nil
}

// InsertRecords inserts a batch of records in one transaction,
// chunked to keep individual statements bounded.
func (s *Storage) InsertRecords(records []database.ONTRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	conn := s.db.Conn()

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i := 0; i < len(records); i += s.chunkSize {
		end := i + s.chunkSize
		if end > len(records) {
			end = len(records)
		}

		insertSQL := s.queryBuilder.BuildDirectBatchInsertSQL(records[i:end])
		if _, err := tx.Exec(insertSQL); err != nil {
			return fmt.Errorf("failed to insert chunk: %w", err)
		}
	}

	return tx.Commit()
}

// ReplaceFileRecords deletes any records previously imported from the
// file and inserts the new batch. Used when a report file changed
// since the last ingest run.
func (s *Storage) ReplaceFileRecords(filePath string, records []database.ONTRecord) error {
	s.mu.Lock()
	conn := s.db.Conn()
	if _, err := conn.Exec(s.queryBuilder.DeleteByFileSQL(), filePath); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to delete stale records: %w", err)
	}
	s.mu.Unlock()

	return s.InsertRecords(records)
}

// GetRecords retrieves records matching the filter, ordered by OLT
// name, numeric port components and ONT id.
func (s *Storage) GetRecords(filter database.RecordFilter) ([]database.ONTRecord, error) {
	if err := s.resultParser.ValidateRecordFilter(filter); err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	conn := s.db.Conn()

	query, args := s.queryBuilder.BuildRecordsQuery(filter)
	rows, err := conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []database.ONTRecord
	for rows.Next() {
		rec, err := s.resultParser.ParseRecordRow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, nil
}

// GetOLTSummaries returns per-OLT statistics over each OLT's latest report
func (s *Storage) GetOLTSummaries() ([]database.OLTSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conn := s.db.Conn()

	rows, err := conn.Query(s.queryBuilder.OLTSummarySQL())
	if err != nil {
		return nil, fmt.Errorf("failed to query OLT summaries: %w", err)
	}
	defer rows.Close()

	var summaries []database.OLTSummary
	for rows.Next() {
		summary, err := s.resultParser.ParseOLTSummaryRow(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return summaries, nil
}

// GetPoPSummaries returns per-site-group statistics over each OLT's
// latest report.
func (s *Storage) GetPoPSummaries() ([]database.PoPSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conn := s.db.Conn()

	rows, err := conn.Query(s.queryBuilder.PoPSummarySQL())
	if err != nil {
		return nil, fmt.Errorf("failed to query PoP summaries: %w", err)
	}
	defer rows.Close()

	var summaries []database.PoPSummary
	for rows.Next() {
		summary, err := s.resultParser.ParsePoPSummaryRow(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return summaries, nil
}

// ImportedCRCs returns the set of file CRCs already present in the
// database, the fallback dedup source when the badger cache is cold.
func (s *Storage) ImportedCRCs() (map[uint32]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conn := s.db.Conn()

	rows, err := conn.Query(s.queryBuilder.ImportedCRCsSQL())
	if err != nil {
		return nil, fmt.Errorf("failed to query imported CRCs: %w", err)
	}
	defer rows.Close()

	crcs := make(map[uint32]bool)
	for rows.Next() {
		var crc uint32
		if err := rows.Scan(&crc); err != nil {
			return nil, fmt.Errorf("failed to scan CRC: %w", err)
		}
		crcs[crc] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return crcs, nil
}
