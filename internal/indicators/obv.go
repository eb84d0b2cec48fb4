package indicators

import (
	"github.com/Adarshh9/FinSaathi-Datathon/internal/series"
)

// OBV represents the On-Balance Volume technical indicator
// OBV is a running total of volume signed by the direction of the close
type OBV struct{}

// NewOBV creates a new OBV indicator
func NewOBV() *OBV {
	return &OBV{}
}

// Calculate calculates the OBV series
// Formula:
//   - If Close[i] < Close[i-1], volume is subtracted
//   - Otherwise volume is added (including the first session)
func (o *OBV) Calculate(closes, volumes []float64) []float64 {
	signed := make([]float64, len(closes))
	for i := range closes {
		if i > 0 && closes[i] < closes[i-1] {
			signed[i] = -volumes[i]
		} else {
			signed[i] = volumes[i]
		}
	}
	return series.CumSum(signed)
}

// Compute implements Indicator
func (o *OBV) Compute(in Input) (map[string][]float64, error) {
	return map[string][]float64{ColOBV: o.Calculate(in.Close, in.Volume)}, nil
}

// GetName returns the indicator name
func (o *OBV) GetName() string {
	return "OBV"
}

// Columns returns the produced column keys
func (o *OBV) Columns() []string {
	return []string{ColOBV}
}

// GetRequiredPeriods returns the minimum number of periods needed
func (o *OBV) GetRequiredPeriods() int {
	return 1
}

// ADI represents the Accumulation/Distribution Index: cumulative volume
// weighted by where the close sits inside the session's range
type ADI struct{}

// NewADI creates a new ADI indicator
func NewADI() *ADI {
	return &ADI{}
}

// Calculate calculates the ADI series. A session with no range contributes nothing.
func (a *ADI) Calculate(high, low, closes, volumes []float64) []float64 {
	flow := make([]float64, len(closes))
	for i := range closes {
		clv := series.SafeDiv((closes[i]-low[i])-(high[i]-closes[i]), high[i]-low[i])
		if series.IsMissing(clv) {
			clv = 0
		}
		flow[i] = clv * volumes[i]
	}
	return series.CumSum(flow)
}

// Compute implements Indicator
func (a *ADI) Compute(in Input) (map[string][]float64, error) {
	return map[string][]float64{ColADI: a.Calculate(in.High, in.Low, in.Close, in.Volume)}, nil
}

// GetName returns the indicator name
func (a *ADI) GetName() string {
	return "ADI"
}

// Columns returns the produced column keys
func (a *ADI) Columns() []string {
	return []string{ColADI}
}

// GetRequiredPeriods returns the minimum number of periods needed
func (a *ADI) GetRequiredPeriods() int {
	return 1
}
