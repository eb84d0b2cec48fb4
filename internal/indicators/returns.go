package indicators

import (
	"math"

	"github.com/Adarshh9/FinSaathi-Datathon/internal/series"
)

// Returns publishes the simple daily return and its annualized rolling volatility
type Returns struct {
	volatilityWindow int
}

// NewReturns creates the returns indicator with the given volatility window
func NewReturns(volatilityWindow int) *Returns {
	return &Returns{volatilityWindow: volatilityWindow}
}

// Calculate returns the daily percentage change and the sample standard
// deviation of those changes over the window, scaled by sqrt(252)
func (r *Returns) Calculate(closes []float64) (daily, volatility []float64) {
	daily = series.PctChange(closes)
	volatility = series.RollingStd(daily, r.volatilityWindow, 1, 1)
	scale := math.Sqrt(TradingDaysPerYear)
	for i := range volatility {
		volatility[i] *= scale
	}
	return daily, volatility
}

// Compute implements Indicator
func (r *Returns) Compute(in Input) (map[string][]float64, error) {
	daily, vol := r.Calculate(in.Close)
	return map[string][]float64{ColDailyReturn: daily, ColVolatility: vol}, nil
}

// GetName returns the indicator name
func (r *Returns) GetName() string {
	return "Returns"
}

// Columns returns the produced column keys
func (r *Returns) Columns() []string {
	return []string{ColDailyReturn, ColVolatility}
}

// GetRequiredPeriods returns the volatility window plus the differencing step
func (r *Returns) GetRequiredPeriods() int {
	return r.volatilityWindow + 1
}

// TrendStrength is the relative gap between a fast and a slow moving average,
// |fast - slow| / slow
type TrendStrength struct {
	fast *SMA
	slow *SMA
}

// NewTrendStrength creates the indicator from the two moving-average periods
func NewTrendStrength(fastPeriod, slowPeriod int) *TrendStrength {
	return &TrendStrength{
		fast: NewSMA(fastPeriod),
		slow: NewSMA(slowPeriod),
	}
}

// Calculate returns the trend strength for every position
func (ts *TrendStrength) Calculate(closes []float64) []float64 {
	fast := ts.fast.Calculate(closes)
	slow := ts.slow.Calculate(closes)
	out := make([]float64, len(closes))
	for i := range closes {
		out[i] = series.SafeDiv(math.Abs(fast[i]-slow[i]), slow[i])
	}
	return out
}

// Compute implements Indicator
func (ts *TrendStrength) Compute(in Input) (map[string][]float64, error) {
	return map[string][]float64{ColTrendStrength: ts.Calculate(in.Close)}, nil
}

// GetName returns the indicator name
func (ts *TrendStrength) GetName() string {
	return "TrendStrength"
}

// Columns returns the produced column keys
func (ts *TrendStrength) Columns() []string {
	return []string{ColTrendStrength}
}

// GetRequiredPeriods returns the slow period
func (ts *TrendStrength) GetRequiredPeriods() int {
	return ts.slow.GetRequiredPeriods()
}
