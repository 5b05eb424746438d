package parser

import (
	"bufio"
	"hash/crc32"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/ontreportdb/internal/database"
	"github.com/ontreportdb/internal/logging"
)

// NotAvailable is the sentinel stored when a status row has no
// matching identity row for the same ONT id.
const NotAvailable = "N/A"

// typeRemap rewrites raw hardware-type tokens to their marketing
// names. Exact match only, anything else passes through.
var typeRemap = map[string]string{
	"1112": "GP1702-4G",
	"1108": "GP1702-4G-M",
}

// parse states for the line classifier
type state int

const (
	stateNoPort state = iota
	stateAwaitingTable
	stateTable1
	stateTable2
)

// ParseResult contains the parsed records and file metadata
type ParseResult struct {
	Records       []database.ONTRecord
	Warnings      []*ParseError
	FilePath      string
	OLTName       string
	PoP           string
	FileCRC       uint32
	ReportDate    time.Time
	ProcessedDate time.Time
}

// table1Row holds the status/timing fields for one ONT
type table1Row struct {
	RunState  string
	LastUp    string
	LastDown  string
	DownCause string
}

// table2Row holds the identity/signal fields for one ONT
type table2Row struct {
	SN          string
	Type        string
	Distance    string
	Power       string
	Description string
}

// portSection accumulates both tables for the currently open port.
// order preserves first-appearance order of Table-1 ONT ids; an
// overwrite keeps the original position.
type portSection struct {
	PONPort string
	Board   int
	Slot    int
	Port    int
	order   []int
	table1  map[int]table1Row
	table2  map[int]table2Row
}

// Parser parses `display ont info summary` report text. Each call to
// Parse owns its accumulators, so a single Parser is safe for use from
// independent calls; the concurrent processor still gives every worker
// its own instance.
type Parser struct {
	verbose bool

	portHeaderRe   *regexp.Regexp
	table1HeaderRe *regexp.Regexp
	table2HeaderRe *regexp.Regexp
	table1DataRe   *regexp.Regexp
	table2DataRe   *regexp.Regexp
}

// New creates a new parser instance
func New(verbose bool) *Parser {
	return &Parser{
		verbose:        verbose,
		portHeaderRe:   regexp.MustCompile(`In port (\d+)/(\d+)/(\d+), the total of ONTs are: \d+, online: \d+`),
		table1HeaderRe: regexp.MustCompile(`ONT\s+Run\s+Last\s+Last\s+Last`),
		table2HeaderRe: regexp.MustCompile(`ONT\s+SN\s+Type\s+Distance\s+Rx/Tx power\s+Description`),
		table1DataRe:   regexp.MustCompile(`^(\d+)\s+(online|offline)\s+([\d-]{10} [\d:]{8}|-)\s+([\d-]{10} [\d:]{8}|-)\s+([\w/-]+|-)$`),
		table2DataRe:   regexp.MustCompile(`^(\d+)\s+([0-9A-Fa-f]{16}|-)\s+(\S+)\s+(\d+|-)\s+(\S+/-?\S+|-/-)(?:\s+(.*))?$`),
	}
}

// Parse extracts ONT records from raw report text. It never fails:
// unrecognized lines are skipped and malformed sections degrade by
// omission. Records come out in port order of appearance, then Table-1
// row order of first appearance within each port.
func (p *Parser) Parse(text, oltName string) []database.ONTRecord {
	records, _ := p.parse(text, oltName)
	return records
}

// parse also reports the lines that matched a table shape but could
// not be converted, as line-level warnings.
func (p *Parser) parse(text, oltName string) ([]database.ONTRecord, []*ParseError) {
	pop := DerivePoP(oltName)

	records := []database.ONTRecord{}
	var warnings []*ParseError
	var section *portSection
	current := stateNoPort

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		// A port header always closes the previous section, whatever
		// state we are in.
		if m := p.portHeaderRe.FindStringSubmatch(line); m != nil {
			if section != nil {
				records = append(records, p.flush(section, oltName, pop)...)
			}
			next, err := newPortSection(m)
			if err != nil {
				// Unusable header: drop everything up to the next one
				warnings = append(warnings, lineError(oltName, lineNo, err))
				section = nil
				current = stateNoPort
				continue
			}
			section = next
			current = stateAwaitingTable
			continue
		}

		// Everything before the first port header is preamble.
		if current == stateNoPort {
			continue
		}

		if p.table1HeaderRe.MatchString(line) {
			current = stateTable1
			continue
		}
		if p.table2HeaderRe.MatchString(line) {
			current = stateTable2
			continue
		}
		if strings.HasPrefix(line, "---") {
			continue
		}

		switch current {
		case stateTable1:
			if err := p.parseTable1Line(line, section); err != nil {
				warnings = append(warnings, lineError(oltName, lineNo, err))
			}
		case stateTable2:
			if err := p.parseTable2Line(line, section); err != nil {
				warnings = append(warnings, lineError(oltName, lineNo, err))
			}
		}
	}

	if section != nil {
		records = append(records, p.flush(section, oltName, pop)...)
	}

	return records, warnings
}

// lineError wraps a conversion failure with its line context
func lineError(file string, line int, cause error) *ParseError {
	perr := NewParseError(file, line, cause.Error())
	perr.Cause = cause
	return perr
}

// newPortSection opens a fresh accumulator from a port header match
func newPortSection(m []string) (*portSection, error) {
	board, err := ParseInt("board", m[1])
	if err != nil {
		return nil, err
	}
	slot, err := ParseInt("slot", m[2])
	if err != nil {
		return nil, err
	}
	port, err := ParseInt("port", m[3])
	if err != nil {
		return nil, err
	}
	return &portSection{
		PONPort: m[1] + "/" + m[2] + "/" + m[3],
		Board:   board,
		Slot:    slot,
		Port:    port,
		table1:  make(map[int]table1Row),
		table2:  make(map[int]table2Row),
	}, nil
}

// parseTable1Line stores one status/timing row, last occurrence wins.
// Lines that do not match the table shape are skipped silently.
func (p *Parser) parseTable1Line(line string, section *portSection) error {
	m := p.table1DataRe.FindStringSubmatch(line)
	if m == nil {
		return nil
	}

	id, err := ParseInt("ont_id", m[1])
	if err != nil {
		return err
	}

	if _, seen := section.table1[id]; !seen {
		section.order = append(section.order, id)
	}
	section.table1[id] = table1Row{
		RunState:  m[2],
		LastUp:    m[3],
		LastDown:  m[4],
		DownCause: m[5],
	}
	return nil
}

// parseTable2Line stores one identity/signal row, last occurrence wins
func (p *Parser) parseTable2Line(line string, section *portSection) error {
	m := p.table2DataRe.FindStringSubmatch(line)
	if m == nil {
		return nil
	}

	id, err := ParseInt("ont_id", m[1])
	if err != nil {
		return err
	}

	ontType := m[3]
	if mapped, ok := typeRemap[ontType]; ok {
		ontType = mapped
	}

	section.table2[id] = table2Row{
		SN:          m[2],
		Type:        ontType,
		Distance:    m[4],
		Power:       m[5],
		Description: strings.TrimSpace(m[6]),
	}
	return nil
}

// flush joins the two tables of a closing port section into records.
// Table-1 presence drives emission: ids only seen in Table-2 are
// dropped, ids missing from Table-2 get N/A sentinels.
func (p *Parser) flush(section *portSection, oltName, pop string) []database.ONTRecord {
	records := make([]database.ONTRecord, 0, len(section.order))

	for _, id := range section.order {
		t1 := section.table1[id]
		upDate, upTime := splitTimestamp(t1.LastUp)
		downDate, downTime := splitTimestamp(t1.LastDown)

		rec := database.ONTRecord{
			OLTName:       oltName,
			PONPort:       section.PONPort,
			Board:         section.Board,
			Slot:          section.Slot,
			Port:          section.Port,
			ONTID:         id,
			RunState:      t1.RunState,
			LastUpDate:    upDate,
			LastUpTime:    upTime,
			LastDownDate:  downDate,
			LastDownTime:  downTime,
			LastDownCause: t1.DownCause,
			SN:            NotAvailable,
			Type:          NotAvailable,
			Distance:      NotAvailable,
			Power:         NotAvailable,
			Description:   NotAvailable,
			PoP:           pop,
		}

		if t2, ok := section.table2[id]; ok {
			rec.SN = t2.SN
			rec.Type = t2.Type
			rec.Distance = t2.Distance
			rec.Power = t2.Power
			rec.Description = t2.Description
		}

		records = append(records, rec)
	}

	return records
}

// splitTimestamp splits "YYYY-MM-DD HH:MM:SS" on the first whitespace
// run into date and time; the bare "-" yields "-" for both halves.
func splitTimestamp(ts string) (string, string) {
	if ts == "-" {
		return "-", "-"
	}
	fields := strings.Fields(ts)
	if len(fields) < 2 {
		return ts, "-"
	}
	return fields[0], fields[1]
}

// ParseFile reads and parses a report file. The OLT name is the base
// filename with its extension stripped. Only I/O can fail here; the
// content itself always parses (possibly to zero records).
func (p *Parser) ParseFile(path string) (*ParseResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, NewFileError(path, "read", "cannot read report file", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, NewFileError(path, "stat", "cannot stat report file", err)
	}

	base := filepath.Base(path)
	oltName := strings.TrimSuffix(base, filepath.Ext(base))

	text := sanitizeUTF8(string(content))
	crc := crc32.ChecksumIEEE(content)
	now := time.Now()

	records, warnings := p.parse(text, oltName)
	for i := range records {
		records[i].FilePath = path
		records[i].FileCRC = crc
		records[i].ReportDate = info.ModTime()
		records[i].ImportedAt = now
	}

	if p.verbose {
		for _, w := range warnings {
			logging.Warn("skipped unparseable line", logging.File(path), logging.Err(w))
		}
	}

	return &ParseResult{
		Records:       records,
		Warnings:      warnings,
		FilePath:      path,
		OLTName:       oltName,
		PoP:           DerivePoP(oltName),
		FileCRC:       crc,
		ReportDate:    info.ModTime(),
		ProcessedDate: now,
	}, nil
}
