package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/ontreportdb/internal/database"
)

func TestWriteCSV(t *testing.T) {
	records := []database.ONTRecord{
		{
			OLTName: "HWGPON2U-01-PNHHQ", PONPort: "0/1/10",
			Board: 0, Slot: 1, Port: 10, ONTID: 1,
			RunState: "online",
			LastUpDate: "2023-08-15", LastUpTime: "09:30:00",
			LastDownDate: "-", LastDownTime: "-", LastDownCause: "-",
			SN: "ABCDEF0123456789", Type: "GP1702-4G",
			Distance: "120", Power: "-25.3/2.1",
			Description: "Customer A", PoP: "PNHHQ",
		},
		{
			OLTName: "HWGPON2U-01-PNHHQ", PONPort: "0/1/2",
			Board: 0, Slot: 1, Port: 2, ONTID: 3,
			RunState: "offline",
			LastUpDate: "-", LastUpTime: "-",
			LastDownDate: "2023-08-10", LastDownTime: "03:00:00", LastDownCause: "LOS",
			SN: "N/A", Type: "N/A", Distance: "N/A", Power: "N/A",
			Description: "N/A", PoP: "PNHHQ",
		},
	}

	path := filepath.Join(t.TempDir(), "out.csv")
	if err := WriteCSV(path, records); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("failed to read back CSV: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}

	if len(rows[0]) != 15 {
		t.Errorf("header has %d columns, want 15", len(rows[0]))
	}
	if rows[0][0] != "OLT Name" || rows[0][14] != "PoP" {
		t.Errorf("unexpected header: %v", rows[0])
	}

	// Port 2 sorts before port 10
	if rows[1][1] != "0/1/2" {
		t.Errorf("first data row port = %q, want 0/1/2", rows[1][1])
	}
	if rows[2][1] != "0/1/10" {
		t.Errorf("second data row port = %q, want 0/1/10", rows[2][1])
	}

	if rows[2][2] != "1" || rows[2][3] != "online" || rows[2][10] != "GP1702-4G" {
		t.Errorf("unexpected data row: %v", rows[2])
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := WriteCSV(path, nil); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Errorf("empty export should still carry the header, got %d rows", len(rows))
	}
}
