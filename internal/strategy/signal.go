package strategy

import (
	"fmt"
	"math"

	"github.com/Adarshh9/FinSaathi-Datathon/internal/indicators"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/table"
)

// ColSignal is the table column holding the generated signal
const ColSignal = "Signal"

// RequiredColumns are the table columns the signal rules read
var RequiredColumns = []string{
	table.ColClose,
	indicators.ColRSI,
	indicators.ColMACD,
	indicators.ColMACDSignal,
	indicators.ColSMA50,
	indicators.ColSMA200,
	indicators.ColBBUpper,
	indicators.ColBBLower,
}

// Thresholds configures the RSI zones of the signal rules
type Thresholds struct {
	RSIOversold   float64
	RSIOverbought float64
}

// DefaultThresholds returns the classic 30/70 RSI zones
func DefaultThresholds() Thresholds {
	return Thresholds{RSIOversold: 30, RSIOverbought: 70}
}

// Validate checks that the zones are ordered and within [0, 100]
func (th Thresholds) Validate() error {
	if th.RSIOversold < 0 || th.RSIOverbought > 100 || th.RSIOversold >= th.RSIOverbought {
		return fmt.Errorf("invalid RSI thresholds: oversold %.2f, overbought %.2f", th.RSIOversold, th.RSIOverbought)
	}
	return nil
}

// SignalGenerator scores four independent rules at every step and emits the
// sign of the total:
//
//	RSI below oversold +1, above overbought -1
//	MACD above its signal line +1, below -1
//	SMA_50 above SMA_200 +1, below -1
//	close below the lower Bollinger band +1, above the upper band -1
//
// A missing operand makes its rule contribute nothing. Each step only reads
// its own row.
type SignalGenerator struct {
	rsi        *indicators.RSI
	macd       *indicators.MACD
	bollinger  *indicators.BollingerBands
	thresholds Thresholds
}

var _ Generator = (*SignalGenerator)(nil)

// NewSignalGenerator creates a generator with the given RSI zones
func NewSignalGenerator(thresholds Thresholds) (*SignalGenerator, error) {
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}
	return &SignalGenerator{
		rsi: indicators.NewRSI(indicators.RSIPeriod, indicators.WarmupPartial).
			WithLevels(thresholds.RSIOversold, thresholds.RSIOverbought),
		macd:       indicators.NewMACD(indicators.MACDFastPeriod, indicators.MACDSlowPeriod, indicators.MACDSignalPeriod, indicators.WarmupPartial),
		bollinger:  indicators.NewBollingerBands(indicators.BollingerPeriod, indicators.BollingerStdDev, indicators.WarmupPartial),
		thresholds: thresholds,
	}, nil
}

// NewDefaultSignalGenerator creates a generator with 30/70 RSI zones
func NewDefaultSignalGenerator() *SignalGenerator {
	g, _ := NewSignalGenerator(DefaultThresholds())
	return g
}

// GetName returns the name of the generator
func (g *SignalGenerator) GetName() string {
	return "Composite Signal"
}

// Thresholds returns the configured RSI zones
func (g *SignalGenerator) Thresholds() Thresholds {
	return g.thresholds
}

// Generate computes the signal for every row of t
func (g *SignalGenerator) Generate(t *table.Table) ([]int, error) {
	cols := make(map[string][]float64, len(RequiredColumns))
	for _, name := range RequiredColumns {
		values, err := t.Column(name)
		if err != nil {
			return nil, fmt.Errorf("signal generator: %w", err)
		}
		cols[name] = values
	}
	return g.GenerateColumns(cols)
}

// GenerateColumns computes the signal from raw column slices keyed by the
// table column names. All required columns must be present with equal length.
func (g *SignalGenerator) GenerateColumns(cols map[string][]float64) ([]int, error) {
	n := -1
	for _, name := range RequiredColumns {
		values, ok := cols[name]
		if !ok {
			return nil, fmt.Errorf("signal generator: missing column %q", name)
		}
		if n >= 0 && len(values) != n {
			return nil, fmt.Errorf("signal generator: column %q has length %d, expected %d", name, len(values), n)
		}
		n = len(values)
	}

	signals := make([]int, n)
	for i := range signals {
		signals[i] = sign(g.score(cols, i))
	}
	return signals, nil
}

// Score returns the raw rule total for one row, in [-4, 4]
func (g *SignalGenerator) Score(row map[string]float64) int {
	cols := make(map[string][]float64, len(RequiredColumns))
	for _, name := range RequiredColumns {
		v, ok := row[name]
		if !ok {
			v = math.NaN()
		}
		cols[name] = []float64{v}
	}
	return g.score(cols, 0)
}

func (g *SignalGenerator) score(cols map[string][]float64, i int) int {
	score := 0

	rsi := cols[indicators.ColRSI][i]
	if g.rsi.ShouldBuy(rsi) {
		score++
	}
	if g.rsi.ShouldSell(rsi) {
		score--
	}

	macd, macdSignal := cols[indicators.ColMACD][i], cols[indicators.ColMACDSignal][i]
	if g.macd.ShouldBuy(macd, macdSignal) {
		score++
	}
	if g.macd.ShouldSell(macd, macdSignal) {
		score--
	}

	fast, slow := cols[indicators.ColSMA50][i], cols[indicators.ColSMA200][i]
	if fast > slow {
		score++
	}
	if fast < slow {
		score--
	}

	price := cols[table.ColClose][i]
	if g.bollinger.ShouldBuy(price, cols[indicators.ColBBLower][i]) {
		score++
	}
	if g.bollinger.ShouldSell(price, cols[indicators.ColBBUpper][i]) {
		score--
	}

	return score
}

func sign(score int) int {
	switch {
	case score > 0:
		return 1
	case score < 0:
		return -1
	default:
		return 0
	}
}
