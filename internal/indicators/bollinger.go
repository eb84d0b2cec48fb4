package indicators

import (
	"github.com/Adarshh9/FinSaathi-Datathon/internal/series"
)

// BollingerBands represents the Bollinger Bands indicator.
// Bands are the moving average plus/minus a multiple of the population
// standard deviation over the same window.
type BollingerBands struct {
	period         int
	stdDevMultiple float64
	warmup         Warmup
}

// NewBollingerBands creates a new BollingerBands instance with the given period and standard deviation multiplier
func NewBollingerBands(period int, stdDev float64, warmup Warmup) *BollingerBands {
	return &BollingerBands{
		period:         period,
		stdDevMultiple: stdDev,
		warmup:         warmup,
	}
}

// Calculate computes the upper, middle and lower bands and the relative band
// width (upper-lower)/middle for every position
func (bb *BollingerBands) Calculate(closes []float64) (upper, middle, lower, width []float64) {
	minPeriods := bb.warmup.MinPeriods(bb.period)
	middle = series.RollingMean(closes, bb.period, minPeriods)
	stdDev := series.RollingStd(closes, bb.period, minPeriods, 0)

	upper = make([]float64, len(closes))
	lower = make([]float64, len(closes))
	width = make([]float64, len(closes))
	for i := range closes {
		upper[i] = middle[i] + bb.stdDevMultiple*stdDev[i]
		lower[i] = middle[i] - bb.stdDevMultiple*stdDev[i]
		width[i] = series.SafeDiv(upper[i]-lower[i], middle[i])
	}
	return upper, middle, lower, width
}

// Compute implements Indicator
func (bb *BollingerBands) Compute(in Input) (map[string][]float64, error) {
	upper, middle, lower, width := bb.Calculate(in.Close)
	return map[string][]float64{
		ColBBUpper: upper,
		ColBBMid:   middle,
		ColBBLower: lower,
		ColBBWidth: width,
	}, nil
}

// ShouldBuy returns true if the price closed below the lower band
func (bb *BollingerBands) ShouldBuy(price, lower float64) bool {
	return price < lower
}

// ShouldSell returns true if the price closed above the upper band
func (bb *BollingerBands) ShouldSell(price, upper float64) bool {
	return price > upper
}

// GetName returns the indicator name
func (bb *BollingerBands) GetName() string {
	return "BollingerBands"
}

// Columns returns the produced column keys
func (bb *BollingerBands) Columns() []string {
	return []string{ColBBUpper, ColBBMid, ColBBLower, ColBBWidth}
}

// GetRequiredPeriods returns the window length
func (bb *BollingerBands) GetRequiredPeriods() int {
	return bb.period
}
