// Package export renders ONT records as sortable spreadsheets.
package export

import (
	"sort"

	"github.com/ontreportdb/internal/database"
)

// SortRecords orders records for presentation: OLT name, then the
// three port components as integers, then ONT id. A plain string sort
// on the port would put 0/1/10 before 0/1/2, hence the numeric
// components.
func SortRecords(records []database.ONTRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.OLTName != b.OLTName {
			return a.OLTName < b.OLTName
		}
		if a.Board != b.Board {
			return a.Board < b.Board
		}
		if a.Slot != b.Slot {
			return a.Slot < b.Slot
		}
		if a.Port != b.Port {
			return a.Port < b.Port
		}
		return a.ONTID < b.ONTID
	})
}
