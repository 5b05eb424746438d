package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/ontreportdb/internal/database"
)

// Header is the fixed spreadsheet column order
var Header = []string{
	"OLT Name",
	"PON Port",
	"ONT ID",
	"Run State",
	"Last UpDate",
	"Last UpTime",
	"Last DownDate",
	"Last DownTime",
	"Last DownCause",
	"SN",
	"Type",
	"Distance (m)",
	"Rx/Tx (dBm) power",
	"Description",
	"PoP",
}

// recordRow renders one record in Header order
func recordRow(rec database.ONTRecord) []string {
	return []string{
		rec.OLTName,
		rec.PONPort,
		strconv.Itoa(rec.ONTID),
		rec.RunState,
		rec.LastUpDate,
		rec.LastUpTime,
		rec.LastDownDate,
		rec.LastDownTime,
		rec.LastDownCause,
		rec.SN,
		rec.Type,
		rec.Distance,
		rec.Power,
		rec.Description,
		rec.PoP,
	}
}

// WriteCSV writes sorted records to a CSV file with the fixed header.
// The record slice is sorted in place.
func WriteCSV(path string, records []database.ONTRecord) error {
	SortRecords(records)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, rec := range records {
		if err := writer.Write(recordRow(rec)); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	return nil
}
