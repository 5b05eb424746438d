package storage

import (
	"database/sql"
	"fmt"

	"github.com/ontreportdb/internal/database"
)

// ResultParser converts SQL result rows into record structs
type ResultParser struct {
}

// NewResultParser creates a new ResultParser instance
func NewResultParser() *ResultParser {
	return &ResultParser{}
}

// ParseRecordRow scans one ont_records row in canonical column order
func (rp *ResultParser) ParseRecordRow(rows *sql.Rows) (database.ONTRecord, error) {
	var rec database.ONTRecord

	err := rows.Scan(
		&rec.OLTName, &rec.PONPort, &rec.Board, &rec.Slot, &rec.Port, &rec.ONTID,
		&rec.RunState, &rec.LastUpDate, &rec.LastUpTime,
		&rec.LastDownDate, &rec.LastDownTime, &rec.LastDownCause,
		&rec.SN, &rec.Type, &rec.Distance, &rec.Power, &rec.Description, &rec.PoP,
		&rec.FilePath, &rec.FileCRC, &rec.ReportDate, &rec.ImportedAt,
	)
	if err != nil {
		return rec, fmt.Errorf("failed to scan record row: %w", err)
	}

	return rec, nil
}

// ParseOLTSummaryRow scans one per-OLT summary row
func (rp *ResultParser) ParseOLTSummaryRow(rows *sql.Rows) (database.OLTSummary, error) {
	var s database.OLTSummary

	err := rows.Scan(&s.OLTName, &s.PoP, &s.TotalONTs, &s.OnlineONTs,
		&s.OfflineONTs, &s.PortCount, &s.LatestReport)
	if err != nil {
		return s, fmt.Errorf("failed to scan summary row: %w", err)
	}

	return s, nil
}

// ParsePoPSummaryRow scans one per-site-group summary row
func (rp *ResultParser) ParsePoPSummaryRow(rows *sql.Rows) (database.PoPSummary, error) {
	var s database.PoPSummary

	err := rows.Scan(&s.PoP, &s.OLTCount, &s.TotalONTs, &s.OnlineONTs, &s.OfflineONTs)
	if err != nil {
		return s, fmt.Errorf("failed to scan summary row: %w", err)
	}

	return s, nil
}

// ValidateRecordFilter rejects filters that cannot produce a sound query
func (rp *ResultParser) ValidateRecordFilter(filter database.RecordFilter) error {
	if filter.Limit < 0 {
		return fmt.Errorf("limit must not be negative: %d", filter.Limit)
	}
	if filter.Offset < 0 {
		return fmt.Errorf("offset must not be negative: %d", filter.Offset)
	}
	if filter.ONTID != nil && *filter.ONTID < 0 {
		return fmt.Errorf("ont_id must not be negative: %d", *filter.ONTID)
	}
	if filter.RunState != nil {
		switch *filter.RunState {
		case "online", "offline":
		default:
			return fmt.Errorf("run_state must be online or offline: %q", *filter.RunState)
		}
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.After(*filter.DateTo) {
		return fmt.Errorf("date_from is after date_to")
	}
	return nil
}
