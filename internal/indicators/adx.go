package indicators

import (
	"math"

	"github.com/Adarshh9/FinSaathi-Datathon/internal/series"
)

// ADX represents the Average Directional Index technical indicator
// ADX measures trend strength regardless of direction (0-100 scale)
// Values > 20 indicate trending market, > 40 indicate strong trend
//
// True range and directional movement are averaged with simple moving means
// over the period, and the directional index is averaged the same way.
// Steps where the index is undefined (no range or no movement) take the
// nearest defined value.
type ADX struct {
	period int
}

// NewADX creates a new ADX indicator
func NewADX(period int) *ADX {
	return &ADX{period: period}
}

// Calculate calculates the ADX series
func (adx *ADX) Calculate(high, low, closes []float64) []float64 {
	n := len(closes)
	tr := make([]float64, n)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)

	for i := 0; i < n; i++ {
		if i == 0 {
			// no previous close: the range is undefined and no movement is recorded
			tr[i] = series.Missing()
			continue
		}
		tr[i] = math.Max(high[i]-low[i], math.Max(
			math.Abs(high[i]-closes[i-1]),
			math.Abs(low[i]-closes[i-1]),
		))

		up := high[i] - high[i-1]
		down := low[i-1] - low[i]
		if up > down {
			plusDM[i] = math.Max(up, 0)
		}
		if down > up {
			minusDM[i] = math.Max(down, 0)
		}
	}

	trAvg := series.RollingMean(tr, adx.period, 1)
	plusAvg := series.RollingMean(plusDM, adx.period, 1)
	minusAvg := series.RollingMean(minusDM, adx.period, 1)

	dx := make([]float64, n)
	for i := 0; i < n; i++ {
		plusDI := 100 * series.SafeDiv(plusAvg[i], trAvg[i])
		minusDI := 100 * series.SafeDiv(minusAvg[i], trAvg[i])
		dx[i] = 100 * series.SafeDiv(math.Abs(plusDI-minusDI), plusDI+minusDI)
	}

	return series.RollingMean(series.FillAll(dx), adx.period, 1)
}

// Compute implements Indicator
func (adx *ADX) Compute(in Input) (map[string][]float64, error) {
	return map[string][]float64{ColADX: adx.Calculate(in.High, in.Low, in.Close)}, nil
}

// GetName returns the indicator name
func (adx *ADX) GetName() string {
	return "ADX"
}

// Columns returns the produced column keys
func (adx *ADX) Columns() []string {
	return []string{ColADX}
}

// GetRequiredPeriods returns the minimum number of periods needed
func (adx *ADX) GetRequiredPeriods() int {
	return adx.period * 2
}
