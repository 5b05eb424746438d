package storage

import (
	"fmt"
	"strings"

	"github.com/ontreportdb/internal/database"
)

// QueryBuilder constructs SQL for the ont_records table. The generated
// SQL is portable across the DuckDB and ClickHouse backends.
type QueryBuilder struct {
}

// NewQueryBuilder creates a new QueryBuilder instance
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{}
}

// escapeSQL escapes strings for SQL literals
func (qb *QueryBuilder) escapeSQL(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\") // Escape backslashes first
	s = strings.ReplaceAll(s, "'", "\\'")   // Escape single quotes
	return s
}

// recordColumns is the canonical column list for ont_records
const recordColumns = `olt_name, pon_port, board, slot, port, ont_id,
		run_state, last_up_date, last_up_time, last_down_date, last_down_time, last_down_cause,
		sn, ont_type, distance, power, description, pop,
		file_path, file_crc, report_date, imported_at`

// BuildDirectBatchInsertSQL creates a direct VALUES-based INSERT.
// Bulk imports are much faster this way than with parameterized
// statements, at the cost of escaping every string ourselves.
func (qb *QueryBuilder) BuildDirectBatchInsertSQL(records []database.ONTRecord) string {
	if len(records) == 0 {
		return ""
	}

	var buf strings.Builder
	buf.WriteString("INSERT INTO ont_records (")
	buf.WriteString(recordColumns)
	buf.WriteString(") VALUES ")

	for i, rec := range records {
		if i > 0 {
			buf.WriteByte(',')
		}

		buf.WriteByte('(')

		// Identity
		buf.WriteString(fmt.Sprintf("'%s','%s',%d,%d,%d,%d,",
			qb.escapeSQL(rec.OLTName), qb.escapeSQL(rec.PONPort),
			rec.Board, rec.Slot, rec.Port, rec.ONTID))

		// Status and timing
		buf.WriteString(fmt.Sprintf("'%s','%s','%s','%s','%s','%s',",
			qb.escapeSQL(rec.RunState),
			qb.escapeSQL(rec.LastUpDate), qb.escapeSQL(rec.LastUpTime),
			qb.escapeSQL(rec.LastDownDate), qb.escapeSQL(rec.LastDownTime),
			qb.escapeSQL(rec.LastDownCause)))

		// Identity and signal
		buf.WriteString(fmt.Sprintf("'%s','%s','%s','%s','%s','%s',",
			qb.escapeSQL(rec.SN), qb.escapeSQL(rec.Type),
			qb.escapeSQL(rec.Distance), qb.escapeSQL(rec.Power),
			qb.escapeSQL(rec.Description), qb.escapeSQL(rec.PoP)))

		// Metadata
		buf.WriteString(fmt.Sprintf("'%s',%d,'%s','%s')",
			qb.escapeSQL(rec.FilePath), rec.FileCRC,
			rec.ReportDate.Format("2006-01-02 15:04:05"),
			rec.ImportedAt.Format("2006-01-02 15:04:05")))
	}

	return buf.String()
}

// RecordSelectSQL returns the base SELECT statement for ONT records
func (qb *QueryBuilder) RecordSelectSQL() string {
	return "SELECT " + recordColumns + " FROM ont_records"
}

// BuildRecordsQuery builds a filtered, ordered SELECT for ONT records.
// Ordering is numeric-aware: OLT name, then the three port components
// as integers, then ONT id.
func (qb *QueryBuilder) BuildRecordsQuery(filter database.RecordFilter) (string, []interface{}) {
	baseSQL := qb.RecordSelectSQL()

	conditions, args := qb.buildWhereConditions(filter)
	if len(conditions) > 0 {
		baseSQL += " WHERE " + strings.Join(conditions, " AND ")
	}

	baseSQL += " ORDER BY olt_name, board, slot, port, ont_id, report_date"

	if filter.Limit > 0 {
		baseSQL += fmt.Sprintf(" LIMIT %d", filter.Limit)
		if filter.Offset > 0 {
			baseSQL += fmt.Sprintf(" OFFSET %d", filter.Offset)
		}
	}

	return baseSQL, args
}

// buildWhereConditions translates a RecordFilter into WHERE clauses
func (qb *QueryBuilder) buildWhereConditions(filter database.RecordFilter) ([]string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.OLTName != nil {
		conditions = append(conditions, "olt_name = ?")
		args = append(args, *filter.OLTName)
	}
	if filter.PoP != nil {
		conditions = append(conditions, "pop = ?")
		args = append(args, *filter.PoP)
	}
	if filter.PONPort != nil {
		conditions = append(conditions, "pon_port = ?")
		args = append(args, *filter.PONPort)
	}
	if filter.ONTID != nil {
		conditions = append(conditions, "ont_id = ?")
		args = append(args, *filter.ONTID)
	}
	if filter.RunState != nil {
		conditions = append(conditions, "run_state = ?")
		args = append(args, *filter.RunState)
	}
	if filter.SN != nil {
		conditions = append(conditions, "sn LIKE ?")
		args = append(args, "%"+*filter.SN+"%")
	}
	if filter.Description != nil {
		conditions = append(conditions, "description LIKE ?")
		args = append(args, "%"+*filter.Description+"%")
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, "report_date >= ?")
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditions = append(conditions, "report_date <= ?")
		args = append(args, *filter.DateTo)
	}

	return conditions, args
}

// OLTSummarySQL returns per-OLT aggregate statistics over the latest
// report of each OLT.
func (qb *QueryBuilder) OLTSummarySQL() string {
	return `
	SELECT olt_name, pop,
		COUNT(*) AS total_onts,
		SUM(CASE WHEN run_state = 'online' THEN 1 ELSE 0 END) AS online_onts,
		SUM(CASE WHEN run_state = 'offline' THEN 1 ELSE 0 END) AS offline_onts,
		COUNT(DISTINCT pon_port) AS port_count,
		MAX(report_date) AS latest_report
	FROM ont_records
	WHERE (olt_name, report_date) IN (
		SELECT olt_name, MAX(report_date)
		FROM ont_records
		GROUP BY olt_name
	)
	GROUP BY olt_name, pop
	ORDER BY olt_name`
}

// PoPSummarySQL returns per-site-group aggregate statistics over the
// latest report of each OLT.
func (qb *QueryBuilder) PoPSummarySQL() string {
	return `
	SELECT pop,
		COUNT(DISTINCT olt_name) AS olt_count,
		COUNT(*) AS total_onts,
		SUM(CASE WHEN run_state = 'online' THEN 1 ELSE 0 END) AS online_onts,
		SUM(CASE WHEN run_state = 'offline' THEN 1 ELSE 0 END) AS offline_onts
	FROM ont_records
	WHERE (olt_name, report_date) IN (
		SELECT olt_name, MAX(report_date)
		FROM ont_records
		GROUP BY olt_name
	)
	GROUP BY pop
	ORDER BY pop`
}

// DeleteByFileSQL removes all records imported from one file, used
// when a changed file is re-imported.
func (qb *QueryBuilder) DeleteByFileSQL() string {
	return `DELETE FROM ont_records WHERE file_path = ?`
}

// ImportedCRCsSQL lists the distinct file CRCs already present
func (qb *QueryBuilder) ImportedCRCsSQL() string {
	return `SELECT DISTINCT file_crc FROM ont_records`
}
