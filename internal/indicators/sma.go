package indicators

import (
	"fmt"

	"github.com/Adarshh9/FinSaathi-Datathon/internal/series"
)

// SMA represents the Simple Moving Average of closing prices.
// The average uses however many closes are available during warm-up.
type SMA struct {
	period int
	column string
}

// NewSMA creates a new SMA indicator writing the column SMA_<period>
func NewSMA(period int) *SMA {
	return &SMA{
		period: period,
		column: fmt.Sprintf("SMA_%d", period),
	}
}

// Calculate returns the moving average for every position
func (s *SMA) Calculate(closes []float64) []float64 {
	return series.RollingMean(closes, s.period, 1)
}

// Compute implements Indicator
func (s *SMA) Compute(in Input) (map[string][]float64, error) {
	return map[string][]float64{s.column: s.Calculate(in.Close)}, nil
}

// GetName returns the indicator name
func (s *SMA) GetName() string {
	return s.column
}

// Columns returns the produced column keys
func (s *SMA) Columns() []string {
	return []string{s.column}
}

// GetRequiredPeriods returns the window length
func (s *SMA) GetRequiredPeriods() int {
	return s.period
}
