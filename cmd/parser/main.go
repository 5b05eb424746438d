package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ontreportdb/internal/cache"
	"github.com/ontreportdb/internal/concurrent"
	"github.com/ontreportdb/internal/config"
	"github.com/ontreportdb/internal/database"
	"github.com/ontreportdb/internal/export"
	"github.com/ontreportdb/internal/logging"
	"github.com/ontreportdb/internal/parser"
	"github.com/ontreportdb/internal/storage"
)

func main() {
	// Command line flags
	var (
		configPath = flag.String("config", "./config.yaml", "Path to YAML config file")
		dbType     = flag.String("db-type", "", "Database backend: duckdb or clickhouse (overrides config)")
		dbPath     = flag.String("db", "", "Path to DuckDB database file (overrides config)")
		path       = flag.String("path", "", "Path to report file or directory (required)")
		recursive  = flag.Bool("recursive", false, "Scan directories recursively")
		verbose    = flag.Bool("verbose", false, "Verbose output")
		quiet      = flag.Bool("quiet", false, "Suppress per-file output")
		batchSize  = flag.Int("batch", 500, "Batch size for bulk inserts")
		workers    = flag.Int("workers", 4, "Number of concurrent workers")
		enableConcurrent = flag.Bool("concurrent", false, "Enable concurrent processing")
		reset      = flag.Bool("reset", false, "Drop and recreate the schema before importing")
		noCache    = flag.Bool("no-cache", false, "Disable the import dedup cache")
		csvOut     = flag.String("csv", "", "Parse to a CSV file directly, skipping the database")
		xlsxOut    = flag.String("xlsx", "", "Parse to an XLSX file directly, skipping the database")
	)
	flag.Parse()

	if *path == "" {
		fmt.Fprintf(os.Stderr, "Error: -path is required\n")
		flag.Usage()
		os.Exit(1)
	}

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
	if *noCache {
		cfg.Cache.Enabled = false
	}

	if err := logging.Initialize(&logging.Config{
		Level:      cfg.Logging.Level,
		File:       cfg.Logging.File,
		MaxSize:    cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     cfg.Logging.MaxAge,
		Console:    cfg.Logging.Console,
		JSON:       cfg.Logging.JSON,
	}); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}

	// Direct export mode needs no database or cache
	if *csvOut != "" || *xlsxOut != "" {
		files, err := findReportFiles(*path, *recursive)
		if err != nil {
			log.Fatalf("Failed to find report files: %v", err)
		}
		if err := exportDirect(files, *csvOut, *xlsxOut, *verbose, *quiet); err != nil {
			log.Fatalf("Direct export failed: %v", err)
		}
		return
	}

	if !*quiet {
		fmt.Println("ONT Report Parser")
		fmt.Println("=================")
		fmt.Printf("Database: %s\n", describeDatabase(cfg))
		fmt.Printf("Path: %s\n", *path)
		fmt.Printf("Batch size: %d\n", *batchSize)
		fmt.Printf("Workers: %d\n", *workers)
		fmt.Printf("Concurrent: %t\n", *enableConcurrent)
		fmt.Println()
	}

	// Initialize database
	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if version, err := db.GetVersion(); err == nil && !*quiet {
		fmt.Printf("Database version: %s\n", version)
	}

	if err := db.Migrate(*reset); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	store := storage.New(db)
	defer store.Close()

	// Import dedup cache. A nil cache degrades to "import everything".
	importCache, err := cache.New(&cache.Config{
		Enabled:              cfg.Cache.Enabled,
		BadgerPath:           cfg.Cache.Path,
		BadgerMaxMemoryMB:    cfg.Cache.MaxMemoryMB,
		BadgerValueLogMaxMB:  cfg.Cache.ValueLogMaxMB,
		BadgerCompactL0:      true,
		BadgerNumGoroutines:  *workers,
		BadgerGCInterval:     cfg.Cache.GCInterval,
		BadgerGCDiscardRatio: cfg.Cache.GCDiscardRatio,
	})
	if err != nil {
		logging.Warn("dedup cache unavailable, importing everything", logging.Err(err))
	}
	if importCache != nil {
		defer importCache.Close()
	}
	tracker := cache.NewImportTracker(importCache, cfg.Cache.ImportTTL)

	// Cold-cache fallback: CRCs already present in the database count
	// as imported even when the badger cache was wiped.
	knownCRCs, err := store.ImportedCRCs()
	if err != nil {
		logging.Warn("could not load imported CRCs", logging.Err(err))
		knownCRCs = map[uint32]bool{}
	}

	ctx := context.Background()
	skip := func(path string, crc uint32) bool {
		if *reset {
			return false
		}
		return tracker.IsImported(ctx, crc) || knownCRCs[crc]
	}

	// Find report files
	files, err := findReportFiles(*path, *recursive)
	if err != nil {
		log.Fatalf("Failed to find report files: %v", err)
	}

	if len(files) == 0 {
		fmt.Printf("No report files found in: %s\n", *path)
		return
	}

	if !*quiet {
		fmt.Printf("Found %d report files to process\n", len(files))
		if *verbose {
			for i, file := range files {
				fmt.Printf("  %d: %s\n", i+1, filepath.Base(file))
			}
		}
		fmt.Println()
	}

	startTime := time.Now()

	var imported []concurrent.Result
	if *enableConcurrent && len(files) > 1 {
		if !*quiet {
			fmt.Printf("Using concurrent processing with %d workers\n", *workers)
		}
		processor := concurrent.New(store, *workers, *batchSize, *verbose, *quiet)
		processor.SetSkipFunc(skip)

		if err := processor.ProcessFiles(ctx, files); err != nil {
			log.Fatalf("Concurrent processing failed: %v", err)
		}
		imported = processor.Imported()
	} else {
		if !*quiet {
			fmt.Println("Using sequential processing")
		}
		imported = processSequential(store, files, skip, *batchSize, *verbose, *quiet)
	}

	// Record successful imports so the next run skips them
	for _, result := range imported {
		err := tracker.MarkImported(ctx, cache.ImportRecord{
			FilePath:   result.FilePath,
			OLTName:    result.OLTName,
			FileCRC:    result.FileCRC,
			Records:    result.RecordsCount,
			ImportedAt: time.Now(),
		})
		if err != nil {
			logging.Warn("failed to mark file imported", logging.File(result.FilePath), logging.Err(err))
		}
	}

	if !*quiet {
		fmt.Println()
		fmt.Println("Processing completed!")
		fmt.Printf("Processing time: %v\n", time.Since(startTime))
	}
}

// batchInserter is the slice of the storage layer the sequential path
// needs, kept narrow so tests can fail inserts at will.
type batchInserter interface {
	InsertRecords(records []database.ONTRecord) error
}

// processSequential handles files one at a time, returning the results
// of files whose records were all inserted. A file with a failed batch
// is left out so it is not marked imported and the next run retries it.
func processSequential(store batchInserter, files []string, skip concurrent.SkipFunc, batchSize int, verbose, quiet bool) []concurrent.Result {
	reportParser := parser.New(verbose)

	var imported []concurrent.Result
	totalRecords := 0
	filesProcessed := 0
	filesSkipped := 0

	for i, filePath := range files {
		if !quiet {
			fmt.Printf("[%d/%d] Processing: %s\n", i+1, len(files), filepath.Base(filePath))
		}

		result, err := reportParser.ParseFile(filePath)
		if err != nil {
			fmt.Printf("  ERROR: %v\n", err)
			continue
		}

		if skip != nil && skip(filePath, result.FileCRC) {
			filesSkipped++
			if !quiet {
				fmt.Println("  Already imported, skipping")
			}
			continue
		}

		if len(result.Records) == 0 {
			if !quiet {
				fmt.Println("  No ONT records found in file")
			}
			continue
		}

		// Insert in batches, but only from the current file
		inserted := 0
		for j := 0; j < len(result.Records); j += batchSize {
			end := j + batchSize
			if end > len(result.Records) {
				end = len(result.Records)
			}

			batch := result.Records[j:end]
			if err := store.InsertRecords(batch); err != nil {
				fmt.Printf("  ERROR inserting batch: %v\n", err)
				break // Skip remaining batches from this file
			}
			inserted += len(batch)
		}

		totalRecords += inserted

		// A partially inserted file must not enter the dedup cache,
		// otherwise the missing records are never re-ingested.
		if inserted < len(result.Records) {
			continue
		}

		filesProcessed++
		imported = append(imported, concurrent.Result{
			FilePath:     filePath,
			OLTName:      result.OLTName,
			FileCRC:      result.FileCRC,
			RecordsCount: inserted,
		})
		if !quiet {
			fmt.Printf("  ✓ Parsed %d ONT records (PoP: %s)\n", len(result.Records), result.PoP)
		}
	}

	if !quiet {
		fmt.Printf("Files processed: %d/%d (skipped: %d)\n", filesProcessed, len(files), filesSkipped)
		fmt.Printf("Total records imported: %d\n", totalRecords)
	}

	return imported
}

// exportDirect parses the files and writes a spreadsheet without
// touching the database, for one-off report conversions.
func exportDirect(files []string, csvPath, xlsxPath string, verbose, quiet bool) error {
	if len(files) == 0 {
		return fmt.Errorf("no report files found")
	}

	reportParser := parser.New(verbose)

	var records []database.ONTRecord
	for _, filePath := range files {
		result, err := reportParser.ParseFile(filePath)
		if err != nil {
			fmt.Printf("  ERROR: %v\n", err)
			continue
		}
		records = append(records, result.Records...)
		if !quiet {
			fmt.Printf("Parsed %s: %d ONT records (PoP: %s)\n",
				filepath.Base(filePath), len(result.Records), result.PoP)
		}
	}

	if len(records) == 0 {
		return fmt.Errorf("no ONT records parsed from %d files", len(files))
	}

	if csvPath != "" {
		if err := export.WriteCSV(csvPath, records); err != nil {
			return err
		}
		fmt.Printf("Wrote %d records to %s\n", len(records), csvPath)
	}
	if xlsxPath != "" {
		if err := export.WriteXLSX(xlsxPath, records); err != nil {
			return err
		}
		fmt.Printf("Wrote %d records to %s\n", len(records), xlsxPath)
	}

	return nil
}

// openDatabase creates the configured backend through the registry
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

func describeDatabase(cfg *config.Config) string {
	if cfg.Database.Type == "clickhouse" {
		return fmt.Sprintf("clickhouse://%s:%d/%s",
			cfg.Database.ClickHouse.Host, cfg.Database.ClickHouse.Port, cfg.Database.ClickHouse.Database)
	}
	return cfg.Database.Path
}

// findReportFiles finds all report dump files in the specified path
func findReportFiles(path string, recursive bool) ([]string, error) {
	var files []string

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("path not found: %s", path)
	}

	if !info.IsDir() {
		if isReportFile(path) {
			files = append(files, path)
		}
		return files, nil
	}

	walkFunc := func(filePath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if !recursive && filePath != path {
				return filepath.SkipDir
			}
			return nil
		}

		if isReportFile(filePath) {
			files = append(files, filePath)
		}

		return nil
	}

	if err := filepath.Walk(path, walkFunc); err != nil {
		return nil, fmt.Errorf("error walking directory: %w", err)
	}

	return files, nil
}

// isReportFile checks if a file looks like an OLT dump by extension
func isReportFile(filePath string) bool {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".txt", ".log":
		return true
	}
	return false
}
