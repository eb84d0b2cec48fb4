package backtest

import (
	"math"

	"github.com/Adarshh9/FinSaathi-Datathon/internal/indicators"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/series"
)

// PerformanceMetrics summarizes a backtest run
type PerformanceMetrics struct {
	TotalReturn         float64 `json:"total_return"`
	MarketReturn        float64 `json:"market_return"`
	ExcessReturn        float64 `json:"excess_return"`
	SharpeRatio         float64 `json:"sharpe_ratio"`
	MaxDrawdown         float64 `json:"max_drawdown"`
	WinRate             float64 `json:"win_rate"`
	FinalPortfolioValue float64 `json:"final_portfolio_value"`
	InitialCapital      float64 `json:"initial_capital"`
	TradingDays         int     `json:"trading_days"`
}

// SharpeRatio divides the excess of the whole-period return over the
// risk-free rate by the annualized volatility of the per-step returns.
// The numerator is not annualized. A zero or undefined volatility gives NaN.
func SharpeRatio(totalReturn float64, stepReturns []float64, riskFreeRate float64) float64 {
	den := series.StdDev(stepReturns, 1) * math.Sqrt(indicators.TradingDaysPerYear)
	return series.SafeDiv(totalReturn-riskFreeRate, den)
}

// Drawdowns returns value/runningMax - 1 at every step
func Drawdowns(values []float64) []float64 {
	out := make([]float64, len(values))
	peak := math.Inf(-1)
	for i, v := range values {
		if v > peak {
			peak = v
		}
		out[i] = series.SafeDiv(v, peak) - 1
	}
	return out
}

// MaxDrawdown is the deepest drawdown of an equity curve (<= 0)
func MaxDrawdown(values []float64) float64 {
	return series.Min(Drawdowns(values))
}

// WinRate is the share of positive steps among the non-zero ones, or NaN
// when every step is zero
func WinRate(stepReturns []float64) float64 {
	wins, active := 0, 0
	for _, r := range stepReturns {
		if r == 0 || series.IsMissing(r) {
			continue
		}
		active++
		if r > 0 {
			wins++
		}
	}
	if active == 0 {
		return series.Missing()
	}
	return float64(wins) / float64(active)
}
