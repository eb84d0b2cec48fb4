package indicators

import (
	"fmt"

	"github.com/Adarshh9/FinSaathi-Datathon/internal/series"
)

// EMA represents the Exponential Moving Average of closing prices
// (recursive form, alpha = 2/(period+1), seeded with the first close)
type EMA struct {
	period int
	warmup Warmup
	column string
}

// NewEMA creates a new EMA indicator writing the column EMA_<period>
func NewEMA(period int, warmup Warmup) *EMA {
	return &EMA{
		period: period,
		warmup: warmup,
		column: fmt.Sprintf("EMA_%d", period),
	}
}

// Calculate returns the EMA for every position
func (e *EMA) Calculate(values []float64) []float64 {
	return series.EWM(values, series.SpanAlpha(e.period), e.warmup.MinPeriods(e.period))
}

// Compute implements Indicator
func (e *EMA) Compute(in Input) (map[string][]float64, error) {
	return map[string][]float64{e.column: e.Calculate(in.Close)}, nil
}

// GetName returns the indicator name
func (e *EMA) GetName() string {
	return e.column
}

// Columns returns the produced column keys
func (e *EMA) Columns() []string {
	return []string{e.column}
}

// GetRequiredPeriods returns the span
func (e *EMA) GetRequiredPeriods() int {
	return e.period
}
