package cache

import (
	"context"
	"testing"
	"time"
)

// mapCache is an in-memory Cache for tests
type mapCache struct {
	data map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string][]byte)}
}

func (m *mapCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return value, nil
}

func (m *mapCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *mapCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *mapCache) GetMetrics() *Metrics { return &Metrics{} }
func (m *mapCache) Close() error         { return nil }

func TestImportTracker(t *testing.T) {
	ctx := context.Background()
	tracker := NewImportTracker(newMapCache(), time.Hour)

	if tracker.IsImported(ctx, 0xDEADBEEF) {
		t.Error("fresh tracker should not report imports")
	}

	rec := ImportRecord{
		FilePath:   "/dumps/HWGPON2U-01-PNHHQ.txt",
		OLTName:    "HWGPON2U-01-PNHHQ",
		FileCRC:    0xDEADBEEF,
		Records:    42,
		ImportedAt: time.Now(),
	}
	if err := tracker.MarkImported(ctx, rec); err != nil {
		t.Fatalf("MarkImported failed: %v", err)
	}

	if !tracker.IsImported(ctx, 0xDEADBEEF) {
		t.Error("marked import not reported")
	}
	if tracker.IsImported(ctx, 0xCAFEBABE) {
		t.Error("unrelated CRC reported as imported")
	}

	latest, err := tracker.LatestImport(ctx, "HWGPON2U-01-PNHHQ")
	if err != nil {
		t.Fatalf("LatestImport failed: %v", err)
	}
	if latest.Records != 42 || latest.FileCRC != 0xDEADBEEF {
		t.Errorf("latest import = %+v", latest)
	}
}

func TestImportTrackerNilCache(t *testing.T) {
	ctx := context.Background()
	tracker := NewImportTracker(nil, 0)

	if tracker.IsImported(ctx, 1) {
		t.Error("nil cache must never skip")
	}
	if err := tracker.MarkImported(ctx, ImportRecord{FileCRC: 1}); err != nil {
		t.Errorf("MarkImported on nil cache should be a no-op, got %v", err)
	}
}

func TestKeyGenerator(t *testing.T) {
	kg := NewKeyGenerator("")

	if got := kg.ImportKey(0xDEADBEEF); got != "ont:import:deadbeef" {
		t.Errorf("ImportKey = %q", got)
	}
	if kg.FileKey("/a") == kg.FileKey("/b") {
		t.Error("distinct paths must produce distinct keys")
	}
	if got := kg.OLTLatestKey("X"); got != "ont:olt:X:latest" {
		t.Errorf("OLTLatestKey = %q", got)
	}
}
