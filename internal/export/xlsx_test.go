package export

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ontreportdb/internal/database"
)

func TestWriteXLSX(t *testing.T) {
	records := []database.ONTRecord{
		{
			OLTName: "HWGPON2U-01-PNHHQ", PONPort: "0/1/0",
			ONTID: 1, RunState: "online",
			LastUpDate: "2023-08-15", LastUpTime: "09:30:00",
			LastDownDate: "-", LastDownTime: "-", LastDownCause: "-",
			SN: "ABCDEF0123456789", Type: "GP1702-4G",
			Distance: "120", Power: "-25.3/2.1",
			Description: "Customer A", PoP: "PNHHQ",
		},
	}

	path := filepath.Join(t.TempDir(), "out.xlsx")
	if err := WriteXLSX(path, records); err != nil {
		t.Fatalf("WriteXLSX failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != SheetName {
		t.Errorf("sheets = %v, want [%s]", sheets, SheetName)
	}

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d", len(rows))
	}
	if rows[0][0] != "OLT Name" || len(rows[0]) != 15 {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][2] != "1" || rows[1][10] != "GP1702-4G" || rows[1][14] != "PNHHQ" {
		t.Errorf("unexpected data row: %v", rows[1])
	}
}
