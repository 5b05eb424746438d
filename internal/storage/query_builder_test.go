package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/ontreportdb/internal/database"
)

func TestEscapeSQL(t *testing.T) {
	qb := NewQueryBuilder()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain string", "Customer A", "Customer A"},
		{"single quote", "O'Brien", "O\\'Brien"},
		{"backslash", `a\b`, `a\\b`},
		{"backslash then quote", `a\'b`, `a\\\'b`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := qb.escapeSQL(tt.input)
			if result != tt.expected {
				t.Errorf("escapeSQL(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestBuildDirectBatchInsertSQL(t *testing.T) {
	qb := NewQueryBuilder()

	if sql := qb.BuildDirectBatchInsertSQL(nil); sql != "" {
		t.Errorf("empty batch should produce empty SQL, got %q", sql)
	}

	records := []database.ONTRecord{
		{
			OLTName: "HWGPON2U-01-PNHHQ", PONPort: "0/1/0",
			Board: 0, Slot: 1, Port: 0, ONTID: 1,
			RunState: "online",
			LastUpDate: "2023-08-15", LastUpTime: "09:30:00",
			LastDownDate: "-", LastDownTime: "-", LastDownCause: "-",
			SN: "ABCDEF0123456789", Type: "GP1702-4G",
			Distance: "120", Power: "-25.3/2.1",
			Description: "Customer O'Brien", PoP: "PNHHQ",
			FilePath: "/dumps/HWGPON2U-01-PNHHQ.txt", FileCRC: 12345,
			ReportDate: time.Date(2023, 8, 15, 10, 0, 0, 0, time.UTC),
			ImportedAt: time.Date(2023, 8, 16, 0, 0, 0, 0, time.UTC),
		},
		{
			OLTName: "HWGPON2U-01-PNHHQ", PONPort: "0/1/0",
			Board: 0, Slot: 1, Port: 0, ONTID: 2,
			RunState: "offline", PoP: "PNHHQ",
		},
	}

	sql := qb.BuildDirectBatchInsertSQL(records)

	if !strings.HasPrefix(sql, "INSERT INTO ont_records (") {
		t.Errorf("unexpected SQL prefix: %q", sql[:40])
	}
	if got := strings.Count(sql, "),("); got != 1 {
		t.Errorf("expected 2 VALUES tuples, found %d separators", got)
	}
	if !strings.Contains(sql, `Customer O\'Brien`) {
		t.Error("description not escaped")
	}
	if !strings.Contains(sql, "'2023-08-15 10:00:00'") {
		t.Error("report date not formatted")
	}
	if !strings.Contains(sql, "'GP1702-4G'") {
		t.Error("ont_type missing")
	}
}

func TestBuildRecordsQuery(t *testing.T) {
	qb := NewQueryBuilder()

	t.Run("no filter", func(t *testing.T) {
		sql, args := qb.BuildRecordsQuery(database.RecordFilter{})
		if len(args) != 0 {
			t.Errorf("expected no args, got %d", len(args))
		}
		if !strings.Contains(sql, "ORDER BY olt_name, board, slot, port, ont_id") {
			t.Error("missing numeric-aware ordering")
		}
		if strings.Contains(sql, "WHERE") {
			t.Error("unexpected WHERE clause")
		}
	})

	t.Run("combined filters", func(t *testing.T) {
		olt := "HWGPON2U-01-PNHHQ"
		state := "offline"
		sn := "ABCDEF"
		filter := database.RecordFilter{
			OLTName:  &olt,
			RunState: &state,
			SN:       &sn,
			Limit:    100,
			Offset:   50,
		}

		sql, args := qb.BuildRecordsQuery(filter)
		if len(args) != 3 {
			t.Fatalf("expected 3 args, got %d", len(args))
		}
		if args[2] != "%ABCDEF%" {
			t.Errorf("SN arg = %v, want substring pattern", args[2])
		}
		for _, want := range []string{"olt_name = ?", "run_state = ?", "sn LIKE ?", "LIMIT 100", "OFFSET 50"} {
			if !strings.Contains(sql, want) {
				t.Errorf("SQL missing %q:\n%s", want, sql)
			}
		}
	})

	t.Run("limit zero omits pagination", func(t *testing.T) {
		sql, _ := qb.BuildRecordsQuery(database.RecordFilter{Offset: 10})
		if strings.Contains(sql, "LIMIT") || strings.Contains(sql, "OFFSET") {
			t.Error("pagination emitted without a limit")
		}
	})
}

func TestValidateRecordFilter(t *testing.T) {
	rp := NewResultParser()

	valid := "online"
	invalid := "flapping"
	negative := -1
	from := time.Date(2023, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		filter  database.RecordFilter
		wantErr bool
	}{
		{"empty filter", database.RecordFilter{}, false},
		{"valid run state", database.RecordFilter{RunState: &valid}, false},
		{"invalid run state", database.RecordFilter{RunState: &invalid}, true},
		{"negative limit", database.RecordFilter{Limit: -5}, true},
		{"negative offset", database.RecordFilter{Offset: -5}, true},
		{"negative ont id", database.RecordFilter{ONTID: &negative}, true},
		{"inverted date range", database.RecordFilter{DateFrom: &from, DateTo: &to}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rp.ValidateRecordFilter(tt.filter)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRecordFilter() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
