package analysis

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Adarshh9/FinSaathi-Datathon/internal/logger"
)

// Analyzer is the single-symbol operation a BatchAnalyzer fans out
type Analyzer interface {
	Analyze(ctx context.Context, symbol string) (*Report, error)
}

// BatchResult is the outcome for one symbol of a batch run
type BatchResult struct {
	Symbol   string
	Report   *Report
	Err      error
	Duration time.Duration
}

type batchJob struct {
	index  int
	symbol string
}

// BatchAnalyzer runs analyses for many symbols on a bounded worker pool.
// A failing symbol never affects the others.
type BatchAnalyzer struct {
	analyzer Analyzer
	workers  int
	log      *logger.Logger
}

// NewBatchAnalyzer creates a batch analyzer; workers <= 0 means GOMAXPROCS
func NewBatchAnalyzer(analyzer Analyzer, workers int, log *logger.Logger) *BatchAnalyzer {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &BatchAnalyzer{
		analyzer: analyzer,
		workers:  workers,
		log:      log.With(logger.Component("batch")),
	}
}

// Run analyzes every symbol and returns the results in input order
func (b *BatchAnalyzer) Run(ctx context.Context, symbols []string) []BatchResult {
	results := make([]BatchResult, len(symbols))
	if len(symbols) == 0 {
		return results
	}

	workers := b.workers
	if workers > len(symbols) {
		workers = len(symbols)
	}

	jobs := make(chan batchJob, len(symbols))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				results[job.index] = b.process(ctx, job)
			}
		}()
	}

	for i, symbol := range symbols {
		jobs <- batchJob{index: i, symbol: symbol}
	}
	close(jobs)
	wg.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	b.log.Info("batch complete",
		logger.Int("symbols", len(symbols)),
		logger.Int("failed", failed),
		logger.Int("workers", workers))
	return results
}

func (b *BatchAnalyzer) process(ctx context.Context, job batchJob) BatchResult {
	start := time.Now()
	result := BatchResult{Symbol: job.symbol}

	if err := ctx.Err(); err != nil {
		result.Err = err
		return result
	}

	report, err := b.safeAnalyze(ctx, job.symbol)
	result.Report = report
	result.Err = err
	result.Duration = time.Since(start)
	return result
}

// safeAnalyze turns a panic inside one analysis into that symbol's error
func (b *BatchAnalyzer) safeAnalyze(ctx context.Context, symbol string) (report *Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("analysis panicked", logger.String("symbol", symbol))
			report, err = nil, &PanicError{Symbol: symbol, Value: r}
		}
	}()
	return b.analyzer.Analyze(ctx, symbol)
}

// PanicError reports a panic recovered while analyzing a symbol
type PanicError struct {
	Symbol string
	Value  interface{}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("analysis of %s panicked: %v", e.Symbol, e.Value)
}

// Succeeded returns the reports of the symbols that completed
func Succeeded(results []BatchResult) []*Report {
	var reports []*Report
	for _, r := range results {
		if r.Err == nil && r.Report != nil {
			reports = append(reports, r.Report)
		}
	}
	return reports
}
