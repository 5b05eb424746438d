package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ontreportdb/internal/database"
)

// SheetName is the single sheet produced by WriteXLSX
const SheetName = "ONT Data"

// WriteXLSX writes sorted records to an XLSX workbook with a single
// "ONT Data" sheet in the fixed column order. The record slice is
// sorted in place.
func WriteXLSX(path string, records []database.ONTRecord) error {
	SortRecords(records)

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	headerRow := make([]interface{}, len(Header))
	for i, h := range Header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	// Bold header
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		endCell, _ := excelize.CoordinatesToCellName(len(Header), 1)
		_ = f.SetCellStyle(SheetName, "A1", endCell, style)
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}

		fields := recordRow(rec)
		row := make([]interface{}, len(fields))
		for j, v := range fields {
			row[j] = v
		}
		// ONT ID stays numeric for spreadsheet sorting
		row[2] = rec.ONTID

		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write record row: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save XLSX file: %w", err)
	}

	return nil
}
