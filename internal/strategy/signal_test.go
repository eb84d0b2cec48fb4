package strategy

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adarshh9/FinSaathi-Datathon/internal/indicators"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/table"
	"github.com/Adarshh9/FinSaathi-Datathon/pkg/types"
)

func row(close, rsi, macd, macdSignal, fast, slow, upper, lower float64) map[string]float64 {
	return map[string]float64{
		table.ColClose:           close,
		indicators.ColRSI:        rsi,
		indicators.ColMACD:       macd,
		indicators.ColMACDSignal: macdSignal,
		indicators.ColSMA50:      fast,
		indicators.ColSMA200:     slow,
		indicators.ColBBUpper:    upper,
		indicators.ColBBLower:    lower,
	}
}

func TestScore_Rules(t *testing.T) {
	g := NewDefaultSignalGenerator()
	nan := math.NaN()

	tests := []struct {
		name     string
		row      map[string]float64
		expected int
	}{
		{"all bullish", row(90, 25, 2, 1, 110, 100, 120, 95), 4},
		{"all bearish", row(130, 75, 1, 2, 90, 100, 120, 95), -4},
		{"neutral", row(100, 50, 1, 1, 100, 100, 120, 80), 0},
		{"rsi boundary is neutral", row(100, 30, 1, 1, 100, 100, 120, 80), 0},
		{"mixed", row(100, 25, 1, 2, 110, 100, 120, 80), 1},
		{"missing operands contribute nothing", row(100, nan, nan, 1, nan, nan, nan, nan), 0},
		{"absent columns contribute nothing", map[string]float64{indicators.ColRSI: 20}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, g.Score(tt.row))
		})
	}
}

func TestGenerateColumns_SignOfScore(t *testing.T) {
	g := NewDefaultSignalGenerator()
	cols := map[string][]float64{
		table.ColClose:           {90, 130, 100, 100},
		indicators.ColRSI:        {25, 75, 50, 25},
		indicators.ColMACD:       {2, 1, 1, 1},
		indicators.ColMACDSignal: {1, 2, 1, 2},
		indicators.ColSMA50:      {110, 90, 100, 110},
		indicators.ColSMA200:     {100, 100, 100, 100},
		indicators.ColBBUpper:    {120, 120, 120, 120},
		indicators.ColBBLower:    {95, 95, 80, 80},
	}

	signals, err := g.GenerateColumns(cols)
	require.NoError(t, err)
	assert.Equal(t, []int{1, -1, 0, 1}, signals)
}

func TestGenerateColumns_Errors(t *testing.T) {
	g := NewDefaultSignalGenerator()

	_, err := g.GenerateColumns(map[string][]float64{table.ColClose: {1}})
	assert.Error(t, err)

	cols := map[string][]float64{}
	for _, name := range RequiredColumns {
		cols[name] = []float64{1, 2}
	}
	cols[indicators.ColRSI] = []float64{1}
	_, err = g.GenerateColumns(cols)
	assert.Error(t, err)
}

func TestGenerate_FromTable(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := []types.OHLCV{
		{Timestamp: start, Open: 90, High: 91, Low: 89, Close: 90, Volume: 1},
		{Timestamp: start.AddDate(0, 0, 1), Open: 130, High: 131, Low: 129, Close: 130, Volume: 1},
	}
	base := table.FromSeries(types.NewPriceSeries("X", bars))

	g := NewDefaultSignalGenerator()
	_, err := g.Generate(base)
	assert.Error(t, err, "indicator columns are required")

	tbl, err := base.Extend(map[string][]float64{
		indicators.ColRSI:        {25, 75},
		indicators.ColMACD:       {2, 1},
		indicators.ColMACDSignal: {1, 2},
		indicators.ColSMA50:      {110, 90},
		indicators.ColSMA200:     {100, 100},
		indicators.ColBBUpper:    {120, 120},
		indicators.ColBBLower:    {95, 95},
	})
	require.NoError(t, err)

	signals, err := g.Generate(tbl)
	require.NoError(t, err)
	assert.Equal(t, []int{1, -1}, signals)
}

func TestCustomThresholds(t *testing.T) {
	g, err := NewSignalGenerator(Thresholds{RSIOversold: 40, RSIOverbought: 60})
	require.NoError(t, err)
	assert.Equal(t, 1, g.Score(row(100, 35, 1, 1, 100, 100, 120, 80)))
	assert.Equal(t, -1, g.Score(row(100, 65, 1, 1, 100, 100, 120, 80)))

	_, err = NewSignalGenerator(Thresholds{RSIOversold: 70, RSIOverbought: 30})
	assert.Error(t, err)
	_, err = NewSignalGenerator(Thresholds{RSIOversold: -1, RSIOverbought: 30})
	assert.Error(t, err)
}

func TestActionOf(t *testing.T) {
	assert.Equal(t, ActionBuy, ActionOf(3))
	assert.Equal(t, ActionSell, ActionOf(-1))
	assert.Equal(t, ActionHold, ActionOf(0))
	assert.Equal(t, "BUY", ActionBuy.String())
	assert.Equal(t, "SELL", ActionSell.String())
	assert.Equal(t, "HOLD", ActionHold.String())
}
