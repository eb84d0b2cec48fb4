package scheduler

import (
	"context"
	"time"

	"github.com/Adarshh9/FinSaathi-Datathon/internal/analysis"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/logger"
)

// Batcher analyzes a list of symbols
type Batcher interface {
	Run(ctx context.Context, symbols []string) []analysis.BatchResult
}

// Watchlist re-analyzes a fixed set of symbols on every run and hands each
// outcome to a sink
type Watchlist struct {
	batch   Batcher
	symbols []string
	sink    func(analysis.BatchResult)
	log     *logger.Logger
}

// NewWatchlist creates a watchlist task; sink may be nil
func NewWatchlist(batch Batcher, symbols []string, sink func(analysis.BatchResult), log *logger.Logger) *Watchlist {
	if log == nil {
		log = logger.Nop()
	}
	return &Watchlist{
		batch:   batch,
		symbols: append([]string(nil), symbols...),
		sink:    sink,
		log:     log.With(logger.Component("watchlist")),
	}
}

// Symbols returns the watched symbols
func (w *Watchlist) Symbols() []string {
	return append([]string(nil), w.symbols...)
}

// Run analyzes every symbol once. It matches Task.
func (w *Watchlist) Run(ctx context.Context) {
	start := time.Now()
	results := w.batch.Run(ctx, w.symbols)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			w.log.Warn("symbol failed", logger.String("symbol", r.Symbol), logger.Err(r.Err))
		}
		if w.sink != nil {
			w.sink(r)
		}
	}
	w.log.Info("watchlist refreshed",
		logger.Int("symbols", len(results)),
		logger.Int("failed", failed),
		logger.Duration("elapsed", time.Since(start)))
}
