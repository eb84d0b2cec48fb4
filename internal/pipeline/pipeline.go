// Package pipeline turns a price series into the cleaned indicator table.
package pipeline

import (
	"time"

	apperrors "github.com/Adarshh9/FinSaathi-Datathon/internal/errors"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/indicators"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/logger"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/series"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/strategy"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/table"
	"github.com/Adarshh9/FinSaathi-Datathon/pkg/data"
	"github.com/Adarshh9/FinSaathi-Datathon/pkg/types"
)

// Pipeline computes every indicator column plus the signal, then applies
// the cleanup policy (forward fill, backward fill, zero fill).
type Pipeline struct {
	warmup    indicators.Warmup
	manager   *indicators.Manager
	generator strategy.Generator
	log       *logger.Logger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithWarmup selects the warm-up policy of the standard indicator set. It has
// no effect on a manager supplied through WithManager.
func WithWarmup(w indicators.Warmup) Option {
	return func(p *Pipeline) {
		p.warmup = w
	}
}

// WithManager replaces the standard indicator set regardless of option order
func WithManager(m *indicators.Manager) Option {
	return func(p *Pipeline) {
		p.manager = m
	}
}

// WithSignalGenerator replaces the default 30/70 signal generator
func WithSignalGenerator(g strategy.Generator) Option {
	return func(p *Pipeline) {
		p.generator = g
	}
}

// WithLogger sets the pipeline logger
func WithLogger(l *logger.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.log = l
		}
	}
}

// NewPipeline creates a pipeline with the standard indicator set
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		warmup: indicators.WarmupPartial,
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.manager == nil {
		p.manager = indicators.NewStandardManager(p.warmup)
	}
	if p.generator == nil {
		p.generator = strategy.NewDefaultSignalGenerator()
	}
	p.log = p.log.With(logger.Component("pipeline"))
	return p
}

// Warmup returns the configured warm-up policy
func (p *Pipeline) Warmup() indicators.Warmup {
	return p.warmup
}

// Compute trims s to lookbackPeriod ("" keeps everything) and returns the
// indicator table. The table has one row per remaining session and no
// missing values. An empty series is reported as DataUnavailable.
func (p *Pipeline) Compute(s types.PriceSeries, lookbackPeriod string) (*table.Table, error) {
	start := time.Now()

	// the period filter binary-searches the index, so order is checked first
	if err := s.Validate(); err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrorCategoryValidation, "pipeline", "validate")
	}
	trimmed, err := data.FilterByPeriod(s, lookbackPeriod)
	if err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrorCategoryValidation, "pipeline", "filter")
	}
	if trimmed.IsEmpty() {
		return nil, apperrors.NewNoDataError("pipeline", "compute", s.Symbol)
	}

	base := table.FromSeries(trimmed)
	res, err := p.manager.Compute(indicators.InputFromTable(base))
	if err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrorCategoryValidation, "pipeline", "indicators")
	}

	enriched, err := base.ExtendOrdered(res.Order, res.Columns)
	if err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrorCategoryValidation, "pipeline", "extend")
	}

	// the signal reads indicator values before cleanup
	signals, err := p.generator.Generate(enriched)
	if err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrorCategoryValidation, "pipeline", "signal")
	}
	raw, err := enriched.ExtendOrdered([]string{strategy.ColSignal},
		map[string][]float64{strategy.ColSignal: toFloats(signals)})
	if err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrorCategoryValidation, "pipeline", "extend")
	}

	missing := 0
	for _, name := range raw.Names() {
		missing += series.CountMissing(raw.MustColumn(name))
	}
	out := raw.Map(Cleanup)

	p.log.Debug("indicator table computed",
		logger.String("symbol", s.Symbol),
		logger.String("warmup", p.warmup.String()),
		logger.Int("rows", out.Len()),
		logger.Int("columns", len(raw.Names())),
		logger.Int("filled", missing),
		logger.Duration("elapsed", time.Since(start)))
	return out, nil
}

// Cleanup is the fill policy applied to every column, OHLCV included
func Cleanup(_ string, values []float64) []float64 {
	return series.FillAll(values)
}

func toFloats(signals []int) []float64 {
	out := make([]float64, len(signals))
	for i, s := range signals {
		out[i] = float64(s)
	}
	return out
}
