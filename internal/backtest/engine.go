package backtest

import (
	"fmt"
	"time"

	apperrors "github.com/Adarshh9/FinSaathi-Datathon/internal/errors"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/indicators"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/logger"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/series"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/strategy"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/table"
)

// Columns added to the backtest table
const (
	ColPosition          = "Position"
	ColStrategyReturn    = "Strategy_Return"
	ColCumMarketReturn   = "Cum_Market_Return"
	ColCumStrategyReturn = "Cum_Strategy_Return"
	ColPortfolioValue    = "Portfolio_Value"
	ColDrawdown          = "Drawdown"
)

const (
	DefaultInitialCapital = 100000.0
	DefaultRiskFreeRate   = 0.02
)

// Config holds the backtest parameters
type Config struct {
	InitialCapital float64
	RiskFreeRate   float64
}

// DefaultConfig returns a 100,000 starting capital and a 2% risk-free rate
func DefaultConfig() Config {
	return Config{
		InitialCapital: DefaultInitialCapital,
		RiskFreeRate:   DefaultRiskFreeRate,
	}
}

// Engine replays the signal column against realized daily returns.
// The position held over step t is the signal of step t-1; long is +1,
// short is -1 and flat is 0. There are no costs or position sizing.
type Engine struct {
	config Config
	log    *logger.Logger
}

// Result is the outcome of a backtest run
type Result struct {
	Metrics PerformanceMetrics
	Table   *table.Table
}

// NewEngine creates a backtest engine
func NewEngine(config Config, log *logger.Logger) (*Engine, error) {
	if !(config.InitialCapital > 0) {
		return nil, apperrors.NewConfigurationError("backtest", "new_engine",
			fmt.Sprintf("initial capital must be positive, got %v", config.InitialCapital))
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{
		config: config,
		log:    log.With(logger.Component("backtest")),
	}, nil
}

// Config returns the engine parameters
func (e *Engine) Config() Config {
	return e.config
}

// Run backtests the Signal column of t. When t has no Daily_Return column
// the returns are derived from Close. The input table is not modified; the
// result carries a new table with the position, return, equity and
// drawdown columns appended. Running twice on the same table gives
// identical results.
func (e *Engine) Run(t *table.Table) (*Result, error) {
	start := time.Now()

	if t == nil || t.Len() == 0 {
		return nil, apperrors.NewDataUnavailableError("backtest", "run", "empty indicator table")
	}

	signals, err := t.Column(strategy.ColSignal)
	if err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrorCategoryValidation, "backtest", "run")
	}
	daily, err := e.dailyReturns(t)
	if err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrorCategoryValidation, "backtest", "run")
	}

	n := t.Len()
	positions := make([]float64, n)
	for i, s := range signals {
		if series.IsMissing(s) {
			continue
		}
		positions[i] = float64(strategy.ActionOf(int(s)))
	}

	strategyReturns := make([]float64, n)
	for i := 1; i < n; i++ {
		r := positions[i-1] * daily[i]
		if series.IsMissing(r) {
			r = 0
		}
		strategyReturns[i] = r
	}

	cumMarket := series.CumProd(onePlus(daily))
	cumStrategy := series.CumProd(onePlus(strategyReturns))

	portfolio := make([]float64, n)
	for i, c := range cumStrategy {
		portfolio[i] = e.config.InitialCapital * c
	}
	drawdowns := Drawdowns(portfolio)

	metrics := PerformanceMetrics{
		TotalReturn:  cumStrategy[n-1] - 1,
		MarketReturn: cumMarket[n-1] - 1,
		MaxDrawdown:  series.Min(drawdowns),
		WinRate:      WinRate(strategyReturns),
		TradingDays:  n,
	}
	metrics.ExcessReturn = metrics.TotalReturn - metrics.MarketReturn
	metrics.SharpeRatio = SharpeRatio(metrics.TotalReturn, strategyReturns, e.config.RiskFreeRate)
	metrics.FinalPortfolioValue = e.config.InitialCapital * (1 + metrics.TotalReturn)
	metrics.InitialCapital = e.config.InitialCapital

	out, err := t.ExtendOrdered(
		[]string{ColPosition, ColStrategyReturn, ColCumMarketReturn, ColCumStrategyReturn, ColPortfolioValue, ColDrawdown},
		map[string][]float64{
			ColPosition:          positions,
			ColStrategyReturn:    strategyReturns,
			ColCumMarketReturn:   cumMarket,
			ColCumStrategyReturn: cumStrategy,
			ColPortfolioValue:    portfolio,
			ColDrawdown:          drawdowns,
		})
	if err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrorCategoryValidation, "backtest", "extend")
	}

	e.log.Debug("backtest complete",
		logger.String("symbol", t.Symbol()),
		logger.Int("days", n),
		logger.Float("total_return", metrics.TotalReturn),
		logger.Float("market_return", metrics.MarketReturn),
		logger.Float("max_drawdown", metrics.MaxDrawdown),
		logger.Duration("elapsed", time.Since(start)))

	return &Result{Metrics: metrics, Table: out}, nil
}

func (e *Engine) dailyReturns(t *table.Table) ([]float64, error) {
	if t.Has(indicators.ColDailyReturn) {
		return t.Column(indicators.ColDailyReturn)
	}
	closes, err := t.Column(table.ColClose)
	if err != nil {
		return nil, err
	}
	return series.PctChange(closes), nil
}

func onePlus(returns []float64) []float64 {
	out := make([]float64, len(returns))
	for i, r := range returns {
		out[i] = 1 + r
	}
	return out
}
