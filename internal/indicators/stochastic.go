package indicators

import (
	"github.com/Adarshh9/FinSaathi-Datathon/internal/series"
)

// Stochastic is the %K/%D stochastic oscillator.
// %K = 100 * (close - lowest low) / (highest high - lowest low) over the
// lookback window; %D is a short moving average of %K. A flat window leaves
// %K missing.
type Stochastic struct {
	period       int
	smoothPeriod int
	warmup       Warmup
}

// NewStochastic creates a new oscillator
func NewStochastic(period, smoothPeriod int, warmup Warmup) *Stochastic {
	return &Stochastic{
		period:       period,
		smoothPeriod: smoothPeriod,
		warmup:       warmup,
	}
}

// Calculate returns %K and %D for every position
func (s *Stochastic) Calculate(high, low, closes []float64) (k, d []float64) {
	minPeriods := s.warmup.MinPeriods(s.period)
	lowest := series.RollingMin(low, s.period, minPeriods)
	highest := series.RollingMax(high, s.period, minPeriods)

	k = make([]float64, len(closes))
	for i := range closes {
		k[i] = 100 * series.SafeDiv(closes[i]-lowest[i], highest[i]-lowest[i])
	}
	d = series.RollingMean(k, s.smoothPeriod, s.warmup.MinPeriods(s.smoothPeriod))
	return k, d
}

// Compute implements Indicator
func (s *Stochastic) Compute(in Input) (map[string][]float64, error) {
	k, d := s.Calculate(in.High, in.Low, in.Close)
	return map[string][]float64{ColStochK: k, ColStochD: d}, nil
}

// GetName returns the indicator name
func (s *Stochastic) GetName() string {
	return "Stochastic"
}

// Columns returns the produced column keys
func (s *Stochastic) Columns() []string {
	return []string{ColStochK, ColStochD}
}

// GetRequiredPeriods returns the periods needed for a fully warmed %D
func (s *Stochastic) GetRequiredPeriods() int {
	return s.period + s.smoothPeriod - 1
}
