package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMACD_FlatPricesAreZero(t *testing.T) {
	macd := NewMACD(12, 26, 9, WarmupPartial)
	data := generateFlatData(50)

	line, signal, hist := macd.Calculate(data.Close)

	for i := range line {
		assert.Equal(t, 0.0, line[i])
		assert.Equal(t, 0.0, signal[i])
		assert.Equal(t, 0.0, hist[i])
	}
}

func TestMACD_HistogramIsLineMinusSignal(t *testing.T) {
	macd := NewMACD(12, 26, 9, WarmupPartial)
	data := generateTestData(120)

	line, signal, hist := macd.Calculate(data.Close)

	require.Len(t, hist, 120)
	for i := range hist {
		assert.InDelta(t, line[i]-signal[i], hist[i], 1e-12)
	}
}

func TestMACD_UptrendLineAboveSignal(t *testing.T) {
	macd := NewMACD(12, 26, 9, WarmupPartial)
	data := generateTrendData(100, 1)

	line, signal, _ := macd.Calculate(data.Close)

	assert.Equal(t, 0.0, line[0])
	for i := 1; i < len(line); i++ {
		assert.Greater(t, line[i], 0.0)
		assert.True(t, macd.ShouldBuy(line[i], signal[i]), "index %d", i)
		assert.False(t, macd.ShouldSell(line[i], signal[i]), "index %d", i)
	}
}

func TestMACD_StrictWarmup(t *testing.T) {
	macd := NewMACD(12, 26, 9, WarmupStrict)
	data := generateTestData(60)

	line, signal, hist := macd.Calculate(data.Close)

	// slow EMA needs 26 closes, the signal line 9 defined MACD values on top
	assert.Equal(t, 25, countNaN(line))
	assert.Equal(t, 33, countNaN(signal))
	assert.Equal(t, 33, countNaN(hist))
	assert.False(t, isNaN(signal[33]))
}

func TestMACD_Compute(t *testing.T) {
	macd := NewMACD(12, 26, 9, WarmupPartial)

	cols, err := macd.Compute(generateTestData(40))
	require.NoError(t, err)

	assert.Len(t, cols, 3)
	for _, name := range macd.Columns() {
		assert.Len(t, cols[name], 40)
	}
	assert.Equal(t, 34, macd.GetRequiredPeriods())
}
