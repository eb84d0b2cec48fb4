package indicators

import (
	"github.com/Adarshh9/FinSaathi-Datathon/internal/series"
)

// RSI calculates the Relative Strength Index with Wilder smoothing
// (exponential mean with alpha = 1/period)
type RSI struct {
	period          int
	warmup          Warmup
	oversoldLevel   float64
	overboughtLevel float64
}

// NewRSI creates a new RSI instance with the given period
func NewRSI(period int, warmup Warmup) *RSI {
	return &RSI{
		period:          period,
		warmup:          warmup,
		oversoldLevel:   30,
		overboughtLevel: 70,
	}
}

// WithLevels overrides the oversold and overbought zones
func (r *RSI) WithLevels(oversold, overbought float64) *RSI {
	r.oversoldLevel = oversold
	r.overboughtLevel = overbought
	return r
}

// Calculate computes the RSI for every position.
// A step with zero average loss reads 100.
func (r *RSI) Calculate(closes []float64) []float64 {
	changes := series.Diff(closes)

	gains := make([]float64, len(changes))
	losses := make([]float64, len(changes))
	for i, change := range changes {
		if change > 0 {
			gains[i] = change
		} else if change < 0 {
			losses[i] = -change
		}
	}

	alpha := 1.0 / float64(r.period)
	minPeriods := r.warmup.MinPeriods(r.period)
	avgGain := series.EWM(gains, alpha, minPeriods)
	avgLoss := series.EWM(losses, alpha, minPeriods)

	out := make([]float64, len(closes))
	for i := range out {
		switch {
		case series.IsMissing(avgLoss[i]):
			out[i] = series.Missing()
		case avgLoss[i] == 0:
			out[i] = 100
		default:
			rs := avgGain[i] / avgLoss[i]
			out[i] = 100 - (100 / (1 + rs))
		}
	}
	return out
}

// Compute implements Indicator
func (r *RSI) Compute(in Input) (map[string][]float64, error) {
	return map[string][]float64{ColRSI: r.Calculate(in.Close)}, nil
}

// ShouldBuy returns true when RSI is in the oversold zone
func (r *RSI) ShouldBuy(rsi float64) bool {
	return rsi < r.oversoldLevel
}

// ShouldSell returns true when RSI is in the overbought zone
func (r *RSI) ShouldSell(rsi float64) bool {
	return rsi > r.overboughtLevel
}

// GetName returns the indicator name
func (r *RSI) GetName() string {
	return "RSI"
}

// Columns returns the produced column keys
func (r *RSI) Columns() []string {
	return []string{ColRSI}
}

// GetRequiredPeriods returns the smoothing period
func (r *RSI) GetRequiredPeriods() int {
	return r.period
}
