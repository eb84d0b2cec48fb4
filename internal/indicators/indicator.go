package indicators

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Adarshh9/FinSaathi-Datathon/internal/table"
)

// Column keys written into the indicator table
const (
	ColSMA50         = "SMA_50"
	ColSMA200        = "SMA_200"
	ColEMA20         = "EMA_20"
	ColMACD          = "MACD"
	ColMACDSignal    = "MACD_Signal"
	ColMACDHist      = "MACD_Hist"
	ColRSI           = "RSI"
	ColStochK        = "Stoch_K"
	ColStochD        = "Stoch_D"
	ColBBUpper       = "BB_Upper"
	ColBBLower       = "BB_Lower"
	ColBBMid         = "BB_Mid"
	ColBBWidth       = "BB_Width"
	ColOBV           = "OBV"
	ColADI           = "ADI"
	ColUpperChannel  = "Upper_Channel"
	ColLowerChannel  = "Lower_Channel"
	ColSupport       = "Support"
	ColResistance    = "Resistance"
	ColDailyReturn   = "Daily_Return"
	ColVolatility    = "Volatility"
	ColADX           = "ADX"
	ColTrendStrength = "Trend_Strength"
)

// TradingDaysPerYear annualizes daily statistics
const TradingDaysPerYear = 252

// Indicator computes one or more named columns over a full price history
type Indicator interface {
	GetName() string
	Columns() []string
	GetRequiredPeriods() int
	Compute(in Input) (map[string][]float64, error)
}

// Input is the OHLCV history an indicator reads, one slice per field
type Input struct {
	Open   []float64
	High   []float64
	Low    []float64
	Close  []float64
	Volume []float64
}

// InputFromTable pulls the base price columns out of a table
func InputFromTable(t *table.Table) Input {
	return Input{
		Open:   t.MustColumn(table.ColOpen),
		High:   t.MustColumn(table.ColHigh),
		Low:    t.MustColumn(table.ColLow),
		Close:  t.MustColumn(table.ColClose),
		Volume: t.MustColumn(table.ColVolume),
	}
}

// Len returns the number of rows
func (in Input) Len() int {
	return len(in.Close)
}

// Validate checks that every field has the same length
func (in Input) Validate() error {
	n := len(in.Close)
	if len(in.Open) != n || len(in.High) != n || len(in.Low) != n || len(in.Volume) != n {
		return errors.New("input columns have mismatched lengths")
	}
	return nil
}

// Warmup selects how windowed indicators behave before a full window of
// observations is available
type Warmup int

const (
	// WarmupPartial emits a value as soon as one observation is in the window
	WarmupPartial Warmup = iota
	// WarmupStrict leaves values missing until the window is full
	WarmupStrict
)

// MinPeriods returns the minimum observation count for a window of the given size
func (w Warmup) MinPeriods(window int) int {
	if w == WarmupStrict {
		return window
	}
	return 1
}

func (w Warmup) String() string {
	if w == WarmupStrict {
		return "strict"
	}
	return "partial"
}

// ParseWarmup converts a config value into a Warmup
func ParseWarmup(s string) (Warmup, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "partial":
		return WarmupPartial, nil
	case "strict":
		return WarmupStrict, nil
	default:
		return WarmupPartial, fmt.Errorf("unknown warmup mode %q (want partial or strict)", s)
	}
}
