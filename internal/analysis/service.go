// Package analysis wires the indicator pipeline, Monte Carlo simulator and
// backtester into a single per-symbol report.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Adarshh9/FinSaathi-Datathon/internal/backtest"
	apperrors "github.com/Adarshh9/FinSaathi-Datathon/internal/errors"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/logger"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/monitoring"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/montecarlo"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/pipeline"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/table"
	"github.com/Adarshh9/FinSaathi-Datathon/pkg/data"
	"github.com/Adarshh9/FinSaathi-Datathon/pkg/types"
)

// Stage names used for timing metrics
const (
	StageFetch      = "fetch"
	StagePipeline   = "pipeline"
	StageSimulation = "simulation"
	StageBacktest   = "backtest"
	StageNarrative  = "narrative"
)

// Dependencies are the collaborators of a Service. Only Provider is
// required; the rest fall back to defaults or are skipped.
type Dependencies struct {
	Provider   data.PriceProvider
	Pipeline   *pipeline.Pipeline
	Simulator  *montecarlo.Simulator
	Backtester *backtest.Engine
	Narrative  NarrativeGenerator
	Confidence ConfidenceScorer
	Metrics    *monitoring.Metrics
	Logger     *logger.Logger
}

// Service produces analysis reports. It holds no per-request state and is
// safe for concurrent use.
type Service struct {
	provider   data.PriceProvider
	pipeline   *pipeline.Pipeline
	simulator  *montecarlo.Simulator
	backtester *backtest.Engine
	narrative  NarrativeGenerator
	confidence ConfidenceScorer
	metrics    *monitoring.Metrics
	log        *logger.Logger
	period     string
}

// NewService creates a service that analyzes the trailing period of each
// symbol ("" = all available history)
func NewService(deps Dependencies, period string) (*Service, error) {
	if deps.Provider == nil {
		return nil, apperrors.NewConfigurationError("analysis", "new_service", "a price provider is required")
	}
	if _, err := data.ParseLookbackPeriod(period); err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrorCategoryConfiguration, "analysis", "new_service")
	}

	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	s := &Service{
		provider:   deps.Provider,
		pipeline:   deps.Pipeline,
		simulator:  deps.Simulator,
		backtester: deps.Backtester,
		narrative:  deps.Narrative,
		confidence: deps.Confidence,
		metrics:    deps.Metrics,
		log:        log.With(logger.Component("analysis")),
		period:     period,
	}
	if s.pipeline == nil {
		s.pipeline = pipeline.NewPipeline(pipeline.WithLogger(log))
	}
	if s.simulator == nil {
		s.simulator = montecarlo.NewSimulator(montecarlo.DefaultConfig(), log)
	}
	if s.backtester == nil {
		engine, err := backtest.NewEngine(backtest.DefaultConfig(), log)
		if err != nil {
			return nil, err
		}
		s.backtester = engine
	}
	return s, nil
}

// Period returns the configured lookback period
func (s *Service) Period() string {
	return s.period
}

// Analyze fetches the symbol's history and builds its report
func (s *Service) Analyze(ctx context.Context, symbol string) (*Report, error) {
	start := time.Now()
	series, err := s.provider.FetchSeries(ctx, symbol, s.period)
	s.observe(StageFetch, start)
	if err != nil {
		s.recordFailure(symbol, err, true)
		return nil, err
	}
	return s.AnalyzeSeries(ctx, series)
}

// AnalyzeSeries builds a report from an already fetched series
func (s *Service) AnalyzeSeries(ctx context.Context, series types.PriceSeries) (*Report, error) {
	start := time.Now()
	symbol := series.Symbol

	report, err := s.analyze(ctx, series)
	if err != nil {
		s.recordFailure(symbol, err, false)
		return nil, err
	}
	report.Duration = time.Since(start)

	if s.metrics != nil {
		s.metrics.RecordAnalysis(symbol, monitoring.StatusSuccess)
		var95, var99 := 0.0, 0.0
		if report.Simulation != nil {
			var95, var99 = report.Simulation.Risk.VaR95, report.Simulation.Risk.VaR99
		}
		s.metrics.UpdateSnapshot(symbol, report.Snapshot.Price, report.Snapshot.Signal, var95, var99, report.Backtest.TotalReturn)
	}

	s.log.Info("analysis complete",
		logger.String("symbol", symbol),
		logger.String("report_id", report.ID.String()),
		logger.Int("sessions", report.Sessions()),
		logger.String("action", report.Snapshot.Action),
		logger.Duration("elapsed", report.Duration))
	return report, nil
}

func (s *Service) analyze(ctx context.Context, series types.PriceSeries) (*Report, error) {
	stageStart := time.Now()
	tbl, err := s.pipeline.Compute(series, s.period)
	s.observe(StagePipeline, stageStart)
	if err != nil {
		return nil, err
	}

	report := &Report{
		ID:          uuid.New(),
		Symbol:      series.Symbol,
		Period:      s.period,
		Provider:    s.provider.GetName(),
		GeneratedAt: time.Now().UTC(),
		Table:       tbl,
		Snapshot:    NewSnapshot(tbl),
	}
	if index := tbl.Index(); len(index) > 0 {
		report.FirstSession = index[0]
		report.LastSession = index[len(index)-1]
	}

	stageStart = time.Now()
	sim, err := s.simulator.Simulate(ctx, tbl.MustColumn(table.ColClose))
	s.observe(StageSimulation, stageStart)
	switch {
	case err == nil:
		report.Simulation = sim
		if s.metrics != nil {
			s.metrics.AddSimulationPaths(sim.NumPaths)
		}
	case apperrors.IsDataUnavailable(err):
		// too little history to estimate a dispersion
		report.Warnings = append(report.Warnings, fmt.Sprintf("simulation skipped: %v", err))
		s.log.Warn("simulation skipped", logger.String("symbol", series.Symbol), logger.Err(err))
	default:
		return nil, err
	}

	stageStart = time.Now()
	bt, err := s.backtester.Run(tbl)
	s.observe(StageBacktest, stageStart)
	if err != nil {
		return nil, err
	}
	metrics := bt.Metrics
	report.Backtest = &metrics
	report.BacktestTable = bt.Table

	s.enrich(ctx, report)
	return report, nil
}

// enrich runs the optional collaborators; their failures become warnings
func (s *Service) enrich(ctx context.Context, report *Report) {
	if s.narrative != nil {
		start := time.Now()
		text, err := s.narrative.GenerateNarrative(ctx, report)
		s.observe(StageNarrative, start)
		if err != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("narrative unavailable: %v", err))
			s.log.Warn("narrative generation failed", logger.String("symbol", report.Symbol), logger.Err(err))
		} else {
			report.Narrative = text
		}
	}

	if s.confidence != nil {
		score, err := s.confidence.ScoreConfidence(ctx, report)
		switch {
		case err != nil:
			report.Warnings = append(report.Warnings, fmt.Sprintf("confidence unavailable: %v", err))
			s.log.Warn("confidence scoring failed", logger.String("symbol", report.Symbol), logger.Err(err))
		case score < 0 || score > 1:
			report.Warnings = append(report.Warnings, fmt.Sprintf("confidence %.4f outside [0, 1] ignored", score))
		default:
			report.Confidence = &score
		}
	}
}

func (s *Service) observe(stage string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveStage(stage, time.Since(start))
	}
}

func (s *Service) recordFailure(symbol string, err error, fromProvider bool) {
	status := monitoring.StatusError
	if apperrors.IsDataUnavailable(err) {
		status = monitoring.StatusNoData
	}
	if s.metrics != nil {
		s.metrics.RecordAnalysis(symbol, status)
		if fromProvider {
			category := "UNKNOWN"
			if c, ok := apperrors.CategoryOf(err); ok {
				category = string(c)
			}
			s.metrics.RecordProviderError(s.provider.GetName(), category)
		}
	}
	s.log.Warn("analysis failed",
		logger.String("symbol", symbol),
		logger.String("status", status),
		logger.Err(err))
}
