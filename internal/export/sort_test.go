package export

import (
	"testing"

	"github.com/ontreportdb/internal/database"
)

func rec(olt string, board, slot, port, ontID int) database.ONTRecord {
	return database.ONTRecord{
		OLTName: olt,
		Board:   board,
		Slot:    slot,
		Port:    port,
		ONTID:   ontID,
	}
}

func TestSortRecordsNumericAware(t *testing.T) {
	records := []database.ONTRecord{
		rec("B-OLT", 0, 1, 2, 1),
		rec("A-OLT", 0, 1, 10, 1),
		rec("A-OLT", 0, 1, 2, 5),
		rec("A-OLT", 0, 1, 2, 1),
		rec("A-OLT", 0, 10, 0, 1),
		rec("A-OLT", 0, 2, 0, 1),
	}

	SortRecords(records)

	expected := []struct {
		olt                    string
		board, slot, port, ont int
	}{
		{"A-OLT", 0, 1, 2, 1},
		{"A-OLT", 0, 1, 2, 5},
		{"A-OLT", 0, 1, 10, 1},
		{"A-OLT", 0, 2, 0, 1},
		{"A-OLT", 0, 10, 0, 1},
		{"B-OLT", 0, 1, 2, 1},
	}

	for i, want := range expected {
		got := records[i]
		if got.OLTName != want.olt || got.Board != want.board ||
			got.Slot != want.slot || got.Port != want.port || got.ONTID != want.ont {
			t.Errorf("position %d: got %s %d/%d/%d ont %d, want %s %d/%d/%d ont %d",
				i, got.OLTName, got.Board, got.Slot, got.Port, got.ONTID,
				want.olt, want.board, want.slot, want.port, want.ont)
		}
	}
}

func TestSortRecordsStable(t *testing.T) {
	a := rec("A", 0, 0, 0, 1)
	a.Description = "first"
	b := rec("A", 0, 0, 0, 1)
	b.Description = "second"

	records := []database.ONTRecord{a, b}
	SortRecords(records)

	if records[0].Description != "first" || records[1].Description != "second" {
		t.Error("equal keys must keep input order")
	}
}
