package indicators

import (
	"github.com/Adarshh9/FinSaathi-Datathon/internal/series"
)

// DonchianChannels tracks the highest high and lowest low over a trailing
// window. The same bounds are published as price channels and as
// support/resistance levels.
type DonchianChannels struct {
	period int
}

// NewDonchianChannels creates a new Donchian Channels indicator
func NewDonchianChannels(period int) *DonchianChannels {
	return &DonchianChannels{period: period}
}

// Calculate returns the upper (highest high) and lower (lowest low) bounds
func (dc *DonchianChannels) Calculate(high, low []float64) (upper, lower []float64) {
	return series.RollingMax(high, dc.period, 1), series.RollingMin(low, dc.period, 1)
}

// Compute implements Indicator
func (dc *DonchianChannels) Compute(in Input) (map[string][]float64, error) {
	upper, lower := dc.Calculate(in.High, in.Low)
	return map[string][]float64{
		ColUpperChannel: upper,
		ColLowerChannel: lower,
		ColSupport:      series.Clone(lower),
		ColResistance:   series.Clone(upper),
	}, nil
}

// GetName returns the indicator name
func (dc *DonchianChannels) GetName() string {
	return "DonchianChannels"
}

// Columns returns the produced column keys
func (dc *DonchianChannels) Columns() []string {
	return []string{ColUpperChannel, ColLowerChannel, ColSupport, ColResistance}
}

// GetRequiredPeriods returns the window length
func (dc *DonchianChannels) GetRequiredPeriods() int {
	return dc.period
}
