package indicators

import (
	"fmt"
)

// Standard indicator periods. Column keys such as SMA_50 embed them.
const (
	FastMAPeriod      = 50
	SlowMAPeriod      = 200
	EMAPeriod         = 20
	MACDFastPeriod    = 12
	MACDSlowPeriod    = 26
	MACDSignalPeriod  = 9
	RSIPeriod         = 14
	StochPeriod       = 14
	StochSmoothPeriod = 3
	BollingerPeriod   = 20
	BollingerStdDev   = 2.0
	ChannelPeriod     = 20
	VolatilityWindow  = 20
	ADXPeriod         = 14
)

// Result holds the columns produced by a manager run in publication order
type Result struct {
	Order   []string
	Columns map[string][]float64
}

// Manager runs a set of indicators over one input and gathers their columns
type Manager struct {
	indicators []Indicator
}

// NewManager creates a new indicator manager
func NewManager(indicators ...Indicator) *Manager {
	return &Manager{indicators: indicators}
}

// NewStandardManager returns the full indicator set used by the analysis pipeline
func NewStandardManager(warmup Warmup) *Manager {
	return NewManager(
		NewSMA(FastMAPeriod),
		NewSMA(SlowMAPeriod),
		NewEMA(EMAPeriod, warmup),
		NewMACD(MACDFastPeriod, MACDSlowPeriod, MACDSignalPeriod, warmup),
		NewRSI(RSIPeriod, warmup),
		NewStochastic(StochPeriod, StochSmoothPeriod, warmup),
		NewBollingerBands(BollingerPeriod, BollingerStdDev, warmup),
		NewOBV(),
		NewADI(),
		NewDonchianChannels(ChannelPeriod),
		NewReturns(VolatilityWindow),
		NewADX(ADXPeriod),
		NewTrendStrength(FastMAPeriod, SlowMAPeriod),
	)
}

// Columns returns every column key the manager publishes, in order
func (m *Manager) Columns() []string {
	var names []string
	for _, ind := range m.indicators {
		names = append(names, ind.Columns()...)
	}
	return names
}

// Compute runs every indicator over the input. It fails if an indicator
// returns a column of the wrong length, omits a declared column or two
// indicators publish the same key.
func (m *Manager) Compute(in Input) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	res := &Result{Columns: make(map[string][]float64, 32)}
	for _, ind := range m.indicators {
		cols, err := ind.Compute(in)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ind.GetName(), err)
		}
		for _, name := range ind.Columns() {
			values, ok := cols[name]
			if !ok {
				return nil, &ColumnError{Indicator: ind.GetName(), Column: name, Reason: "not produced"}
			}
			if len(values) != in.Len() {
				return nil, &ColumnError{
					Indicator: ind.GetName(),
					Column:    name,
					Reason:    fmt.Sprintf("length %d, want %d", len(values), in.Len()),
				}
			}
			if _, dup := res.Columns[name]; dup {
				return nil, &ColumnError{Indicator: ind.GetName(), Column: name, Reason: "already produced"}
			}
			res.Columns[name] = values
			res.Order = append(res.Order, name)
		}
	}
	return res, nil
}

// ColumnError reports an indicator that produced an unusable column
type ColumnError struct {
	Indicator string
	Column    string
	Reason    string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("indicator %s column %s: %s", e.Indicator, e.Column, e.Reason)
}
