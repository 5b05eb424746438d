package database

import (
	"time"
)

// ONTRecord represents one ONT entry from an OLT report, the join of
// a status/timing row and an identity/signal row for the same port
type ONTRecord struct {
	// Core identity
	OLTName string `json:"olt_name"`
	PONPort string `json:"pon_port"` // "board/slot/port" as printed by the OLT
	ONTID   int    `json:"ont_id"`

	// Numeric port components (for numeric-aware sorting and indexing)
	Board int `json:"board"`
	Slot  int `json:"slot"`
	Port  int `json:"port"`

	// Status and timing
	RunState      string `json:"run_state"` // online, offline
	LastUpDate    string `json:"last_up_date"`
	LastUpTime    string `json:"last_up_time"`
	LastDownDate  string `json:"last_down_date"`
	LastDownTime  string `json:"last_down_time"`
	LastDownCause string `json:"last_down_cause"`

	// Identity and signal
	SN          string `json:"sn"`
	Type        string `json:"type"`
	Distance    string `json:"distance"`
	Power       string `json:"power"` // "rx/tx" in dBm
	Description string `json:"description"`

	// Derived site group
	PoP string `json:"pop"`

	// File metadata
	FilePath   string    `json:"file_path"`
	FileCRC    uint32    `json:"file_crc"`
	ReportDate time.Time `json:"report_date"`
	ImportedAt time.Time `json:"imported_at"`
}

// RecordFilter represents search criteria for ONT records
type RecordFilter struct {
	// Identity filters
	OLTName *string `json:"olt_name,omitempty"`
	PoP     *string `json:"pop,omitempty"`
	PONPort *string `json:"pon_port,omitempty"`
	ONTID   *int    `json:"ont_id,omitempty"`

	// State filters
	RunState *string `json:"run_state,omitempty"`

	// Text filters (substring match)
	SN          *string `json:"sn,omitempty"`
	Description *string `json:"description,omitempty"`

	// Date filters
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`

	// Pagination
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// OLTSummary holds per-OLT aggregate statistics
type OLTSummary struct {
	OLTName      string    `json:"olt_name"`
	PoP          string    `json:"pop"`
	TotalONTs    int       `json:"total_onts"`
	OnlineONTs   int       `json:"online_onts"`
	OfflineONTs  int       `json:"offline_onts"`
	PortCount    int       `json:"port_count"`
	LatestReport time.Time `json:"latest_report"`
}

// PoPSummary holds per-site-group aggregate statistics
type PoPSummary struct {
	PoP         string `json:"pop"`
	OLTCount    int    `json:"olt_count"`
	TotalONTs   int    `json:"total_onts"`
	OnlineONTs  int    `json:"online_onts"`
	OfflineONTs int    `json:"offline_onts"`
}
