package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ontreportdb/internal/config"
	"github.com/ontreportdb/internal/database"
	"github.com/ontreportdb/internal/export"
	"github.com/ontreportdb/internal/logging"
	"github.com/ontreportdb/internal/storage"
)

func main() {
	var (
		configPath = flag.String("config", "./config.yaml", "Path to YAML config file")
		dbType     = flag.String("db-type", "", "Database backend: duckdb or clickhouse (overrides config)")
		dbPath     = flag.String("db", "", "Path to DuckDB database file (overrides config)")
		output     = flag.String("out", "", "Output file path (extension selects format, default from config)")
		format     = flag.String("format", "", "Output format: csv or xlsx (overrides config)")

		oltName     = flag.String("olt", "", "Filter by OLT name")
		pop         = flag.String("pop", "", "Filter by PoP")
		ponPort     = flag.String("port", "", "Filter by PON port (board/slot/port)")
		ontID       = flag.Int("ont", -1, "Filter by ONT ID")
		runState    = flag.String("state", "", "Filter by run state (online/offline)")
		sn          = flag.String("sn", "", "Filter by serial number substring")
		description = flag.String("desc", "", "Filter by description substring")
		dateFrom    = flag.String("from", "", "Filter by report date from (YYYY-MM-DD)")
		dateTo      = flag.String("to", "", "Filter by report date to (YYYY-MM-DD)")
		limit       = flag.Int("limit", 0, "Maximum records to export (0 = all)")

		summary = flag.Bool("summary", false, "Print per-OLT and per-PoP summaries instead of exporting")
	)
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *dbType != "" {
		cfg.Database.Type = *dbType
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	if err := logging.Initialize(&logging.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		JSON:    cfg.Logging.JSON,
	}); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}

	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	store := storage.New(db)
	defer store.Close()

	if *summary {
		printSummaries(store)
		return
	}

	filter, err := buildFilter(*oltName, *pop, *ponPort, *ontID, *runState, *sn, *description, *dateFrom, *dateTo, *limit)
	if err != nil {
		log.Fatalf("Invalid filter: %v", err)
	}

	records, err := store.GetRecords(filter)
	if err != nil {
		log.Fatalf("Failed to query records: %v", err)
	}

	if len(records) == 0 {
		fmt.Println("No records matched the filter")
		return
	}

	outPath, outFormat := resolveOutput(cfg, *output, *format)

	switch outFormat {
	case "csv":
		err = export.WriteCSV(outPath, records)
	case "xlsx":
		err = export.WriteXLSX(outPath, records)
	default:
		log.Fatalf("Unknown format: %s (want csv or xlsx)", outFormat)
	}
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	fmt.Printf("Exported %d records to %s\n", len(records), outPath)
}

// buildFilter turns flag values into a RecordFilter, leaving unset
// flags as nil so the query builder skips them.
func buildFilter(olt, pop, port string, ontID int, state, sn, desc, from, to string, limit int) (database.RecordFilter, error) {
	var filter database.RecordFilter

	if olt != "" {
		filter.OLTName = &olt
	}
	if pop != "" {
		filter.PoP = &pop
	}
	if port != "" {
		filter.PONPort = &port
	}
	if ontID >= 0 {
		filter.ONTID = &ontID
	}
	if state != "" {
		filter.RunState = &state
	}
	if sn != "" {
		filter.SN = &sn
	}
	if desc != "" {
		filter.Description = &desc
	}
	if from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return filter, fmt.Errorf("bad -from date %q: %w", from, err)
		}
		filter.DateFrom = &t
	}
	if to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return filter, fmt.Errorf("bad -to date %q: %w", to, err)
		}
		filter.DateTo = &t
	}
	filter.Limit = limit

	return filter, nil
}

// resolveOutput picks the output path and format. An explicit -out
// extension wins over -format, which wins over the config default.
func resolveOutput(cfg *config.Config, output, format string) (string, string) {
	if format == "" {
		format = cfg.Export.Format
	}
	if output != "" {
		switch strings.ToLower(filepath.Ext(output)) {
		case ".csv":
			return output, "csv"
		case ".xlsx":
			return output, "xlsx"
		}
		return output, format
	}

	_ = os.MkdirAll(cfg.Export.OutputDir, 0755)
	name := fmt.Sprintf("ont-export-%s.%s", time.Now().Format("20060102-150405"), format)
	return filepath.Join(cfg.Export.OutputDir, name), format
}

func printSummaries(store *storage.Storage) {
	oltSummaries, err := store.GetOLTSummaries()
	if err != nil {
		log.Fatalf("Failed to query OLT summaries: %v", err)
	}

	fmt.Println("Per-OLT (latest report):")
	fmt.Printf("%-32s %-14s %8s %8s %8s %6s  %s\n",
		"OLT", "PoP", "ONTs", "Online", "Offline", "Ports", "Report")
	for _, s := range oltSummaries {
		fmt.Printf("%-32s %-14s %8d %8d %8d %6d  %s\n",
			s.OLTName, s.PoP, s.TotalONTs, s.OnlineONTs, s.OfflineONTs, s.PortCount,
			s.LatestReport.Format("2006-01-02 15:04"))
	}

	popSummaries, err := store.GetPoPSummaries()
	if err != nil {
		log.Fatalf("Failed to query PoP summaries: %v", err)
	}

	fmt.Println()
	fmt.Println("Per-PoP (latest reports):")
	fmt.Printf("%-14s %6s %8s %8s %8s\n", "PoP", "OLTs", "ONTs", "Online", "Offline")
	for _, s := range popSummaries {
		fmt.Printf("%-14s %6d %8d %8d %8d\n",
			s.PoP, s.OLTCount, s.TotalONTs, s.OnlineONTs, s.OfflineONTs)
	}
}

func openDatabase(cfg *config.Config) (database.DatabaseInterface, error) {
	switch cfg.Database.Type {
	case "clickhouse":
		return database.CreateDatabase("clickhouse", &database.ClickHouseConfig{
			Host:         cfg.Database.ClickHouse.Host,
			Port:         cfg.Database.ClickHouse.Port,
			Database:     cfg.Database.ClickHouse.Database,
			Username:     cfg.Database.ClickHouse.Username,
			Password:     cfg.Database.ClickHouse.Password,
			UseSSL:       cfg.Database.ClickHouse.UseSSL,
			MaxOpenConns: cfg.Database.ClickHouse.MaxOpenConns,
			MaxIdleConns: cfg.Database.ClickHouse.MaxIdleConns,
			DialTimeout:  cfg.Database.ClickHouse.DialTimeoutDuration(),
		})
	default:
		return database.CreateDatabase("duckdb", cfg.Database.Path)
	}
}
