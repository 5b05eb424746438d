package cache

import (
	"context"
	"encoding/json"
	"time"
)

// ImportRecord is the value stored for each imported report file
type ImportRecord struct {
	FilePath   string    `json:"file_path"`
	OLTName    string    `json:"olt_name"`
	FileCRC    uint32    `json:"file_crc"`
	Records    int       `json:"records"`
	ImportedAt time.Time `json:"imported_at"`
}

// ImportTracker records which report files have already been ingested
// so repeated runs over a dump directory skip unchanged files.
type ImportTracker struct {
	cache Cache
	keys  *KeyGenerator
	ttl   time.Duration
}

// NewImportTracker creates a tracker over the given cache. A nil
// cache yields a tracker that never skips, which keeps the ingest
// path free of nil checks.
func NewImportTracker(cache Cache, ttl time.Duration) *ImportTracker {
	if ttl == 0 {
		ttl = 90 * 24 * time.Hour
	}
	return &ImportTracker{
		cache: cache,
		keys:  NewKeyGenerator("ont"),
		ttl:   ttl,
	}
}

// IsImported reports whether a file with this content CRC was already
// ingested. Cache errors degrade to "not imported" so a broken cache
// only costs duplicate work, never data.
func (t *ImportTracker) IsImported(ctx context.Context, crc uint32) bool {
	if t.cache == nil {
		return false
	}

	_, err := t.cache.Get(ctx, t.keys.ImportKey(crc))
	return err == nil
}

// MarkImported records a completed import
func (t *ImportTracker) MarkImported(ctx context.Context, rec ImportRecord) error {
	if t.cache == nil {
		return nil
	}

	value, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	if err := t.cache.Set(ctx, t.keys.ImportKey(rec.FileCRC), value, t.ttl); err != nil {
		return err
	}

	// Latest-import pointer per OLT, best effort
	_ = t.cache.Set(ctx, t.keys.OLTLatestKey(rec.OLTName), value, t.ttl)

	return nil
}

// LatestImport returns the most recent import record for an OLT
func (t *ImportTracker) LatestImport(ctx context.Context, oltName string) (*ImportRecord, error) {
	if t.cache == nil {
		return nil, ErrNotFound
	}

	value, err := t.cache.Get(ctx, t.keys.OLTLatestKey(oltName))
	if err != nil {
		return nil, err
	}

	var rec ImportRecord
	if err := json.Unmarshal(value, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
