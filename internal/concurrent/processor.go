package concurrent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ontreportdb/internal/database"
	"github.com/ontreportdb/internal/parser"
	"github.com/ontreportdb/internal/storage"
)

// Job represents a file processing job
type Job struct {
	FilePath string
	JobID    int
}

// Result represents the result of processing a job
type Result struct {
	JobID        int
	FilePath     string
	OLTName      string
	Records      []database.ONTRecord
	Error        error
	Duration     time.Duration
	RecordsCount int
	FileCRC      uint32
	Skipped      bool
}

// SkipFunc decides whether a parsed file should be skipped (already
// imported). It receives the file path and content CRC.
type SkipFunc func(path string, crc uint32) bool

// Processor manages concurrent report file processing
type Processor struct {
	storage    *storage.Storage
	numWorkers int
	batchSize  int
	verbose    bool
	quiet      bool
	skip       SkipFunc
	imported   []Result
}

// New creates a new concurrent processor
func New(storage *storage.Storage, numWorkers int, batchSize int, verbose bool, quiet bool) *Processor {
	return &Processor{
		storage:    storage,
		numWorkers: numWorkers,
		batchSize:  batchSize,
		verbose:    verbose,
		quiet:      quiet,
	}
}

// SetSkipFunc installs the dedup check applied after each file is read
func (p *Processor) SetSkipFunc(skip SkipFunc) {
	p.skip = skip
}

// Imported returns the results of files that were actually inserted
// during the last ProcessFiles run, for cache bookkeeping.
func (p *Processor) Imported() []Result {
	return p.imported
}

// ProcessFiles processes multiple report files concurrently
func (p *Processor) ProcessFiles(ctx context.Context, filePaths []string) error {
	if len(filePaths) == 0 {
		return nil
	}

	p.imported = nil

	jobs := make(chan Job, len(filePaths))
	results := make(chan Result, len(filePaths))

	// Start workers
	var wg sync.WaitGroup
	for i := 0; i < p.numWorkers; i++ {
		wg.Add(1)
		go p.worker(ctx, i, jobs, results, &wg)
	}

	// Send jobs
	go func() {
		defer close(jobs)
		for i, filePath := range filePaths {
			select {
			case jobs <- Job{FilePath: filePath, JobID: i}:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Close results once all workers are done
	go func() {
		wg.Wait()
		close(results)
	}()

	return p.collectResults(ctx, results, len(filePaths))
}

// worker processes jobs from the jobs channel
func (p *Processor) worker(ctx context.Context, workerID int, jobs <-chan Job, results chan<- Result, wg *sync.WaitGroup) {
	defer wg.Done()

	if p.verbose {
		fmt.Printf("Worker %d started\n", workerID)
	}

	// Each worker owns a parser instance, no shared state between jobs
	workerParser := parser.New(p.verbose)

	for {
		select {
		case job, ok := <-jobs:
			if !ok {
				if p.verbose {
					fmt.Printf("Worker %d finished\n", workerID)
				}
				return
			}

			result := p.processJob(job, workerParser)

			select {
			case results <- result:
			case <-ctx.Done():
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// processJob parses a single report file
func (p *Processor) processJob(job Job, workerParser *parser.Parser) Result {
	start := time.Now()

	if !p.quiet {
		fmt.Printf("[Job %d] Processing: %s\n", job.JobID, job.FilePath)
	}

	parseResult, err := workerParser.ParseFile(job.FilePath)
	duration := time.Since(start)

	if err != nil {
		fmt.Printf("[Job %d] ERROR: %v\n", job.JobID, err)
		return Result{
			JobID:    job.JobID,
			FilePath: job.FilePath,
			Error:    err,
			Duration: duration,
		}
	}

	if p.skip != nil && p.skip(job.FilePath, parseResult.FileCRC) {
		if !p.quiet {
			fmt.Printf("[Job %d] Skipped (already imported): %s\n", job.JobID, parseResult.OLTName)
		}
		return Result{
			JobID:    job.JobID,
			FilePath: job.FilePath,
			OLTName:  parseResult.OLTName,
			Duration: duration,
			FileCRC:  parseResult.FileCRC,
			Skipped:  true,
		}
	}

	records := parseResult.Records
	if len(records) == 0 {
		if !p.quiet {
			fmt.Printf("[Job %d] No ONT data found in file\n", job.JobID)
		}
	} else if !p.quiet {
		fmt.Printf("[Job %d] Parsed %d ONT records\n", job.JobID, len(records))
	}

	return Result{
		JobID:        job.JobID,
		FilePath:     job.FilePath,
		OLTName:      parseResult.OLTName,
		Records:      records,
		Duration:     duration,
		RecordsCount: len(records),
		FileCRC:      parseResult.FileCRC,
	}
}

// collectResults collects all results and performs batch inserts
func (p *Processor) collectResults(ctx context.Context, results <-chan Result, expectedResults int) error {
	var totalRecords int
	var totalErrors int
	var totalSkipped int
	var batch []database.ONTRecord
	var totalInserted int
	var batchCount int

	successfulJobs := 0
	startTime := time.Now()

	if !p.quiet {
		fmt.Printf("\nCollecting results from %d jobs and performing batch inserts...\n", expectedResults)
	}

	for result := range results {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if result.Error != nil {
			totalErrors++
			continue
		}

		successfulJobs++

		if result.Skipped {
			totalSkipped++
			continue
		}

		totalRecords += result.RecordsCount
		batch = append(batch, result.Records...)
		if result.RecordsCount > 0 {
			p.imported = append(p.imported, Result{
				JobID:        result.JobID,
				FilePath:     result.FilePath,
				OLTName:      result.OLTName,
				RecordsCount: result.RecordsCount,
				FileCRC:      result.FileCRC,
			})
		}

		if len(batch) >= p.batchSize {
			batchCount++
			if err := p.insertBatch(batch, batchCount, totalInserted); err != nil {
				return fmt.Errorf("failed to insert batch: %w", err)
			}
			totalInserted += len(batch)
			batch = nil
		}
	}

	// Insert any remaining batch
	if len(batch) > 0 {
		batchCount++
		if err := p.insertBatch(batch, batchCount, totalInserted); err != nil {
			return fmt.Errorf("failed to insert final batch: %w", err)
		}
		totalInserted += len(batch)
	}

	if !p.quiet {
		fmt.Printf("\nConcurrent processing complete: %d jobs, %d skipped, %d records imported, %d errors in %v\n",
			successfulJobs, totalSkipped, totalInserted, totalErrors, time.Since(startTime).Round(time.Second))
	}

	if totalErrors > 0 && totalErrors == expectedResults {
		return fmt.Errorf("all %d jobs failed", totalErrors)
	}

	return nil
}

// insertBatch writes one accumulated batch to storage
func (p *Processor) insertBatch(batch []database.ONTRecord, batchCount, totalInserted int) error {
	if p.verbose {
		fmt.Printf("Inserting batch %d (%d records, %d inserted so far)\n",
			batchCount, len(batch), totalInserted)
	}
	return p.storage.InsertRecords(batch)
}
