package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shortIndicator struct{}

func (shortIndicator) GetName() string { return "short" }
func (shortIndicator) Columns() []string { return []string{"Short"} }
func (shortIndicator) GetRequiredPeriods() int { return 1 }
func (shortIndicator) Compute(in Input) (map[string][]float64, error) {
	return map[string][]float64{"Short": make([]float64, in.Len()-1)}, nil
}

func TestStandardManager_Columns(t *testing.T) {
	m := NewStandardManager(WarmupPartial)

	expected := []string{
		ColSMA50, ColSMA200, ColEMA20,
		ColMACD, ColMACDSignal, ColMACDHist,
		ColRSI, ColStochK, ColStochD,
		ColBBUpper, ColBBMid, ColBBLower, ColBBWidth,
		ColOBV, ColADI,
		ColUpperChannel, ColLowerChannel, ColSupport, ColResistance,
		ColDailyReturn, ColVolatility,
		ColADX, ColTrendStrength,
	}
	assert.Equal(t, expected, m.Columns())
	assert.Len(t, m.indicators, 13)
}

func TestStandardManager_Compute(t *testing.T) {
	m := NewStandardManager(WarmupPartial)
	data := generateTestData(250)

	res, err := m.Compute(data)
	require.NoError(t, err)

	assert.Equal(t, m.Columns(), res.Order)
	for _, name := range res.Order {
		assert.Len(t, res.Columns[name], 250, name)
	}
	// past the first session the rolling columns are all defined
	assert.Zero(t, countNaN(res.Columns[ColSMA200]))
	assert.Zero(t, countNaN(res.Columns[ColEMA20]))
	assert.Equal(t, 1, countNaN(res.Columns[ColDailyReturn]))
}

func TestManager_RejectsDuplicateColumns(t *testing.T) {
	m := NewManager(NewSMA(5), NewSMA(5))

	_, err := m.Compute(generateTestData(10))

	var colErr *ColumnError
	require.ErrorAs(t, err, &colErr)
	assert.Equal(t, "SMA_5", colErr.Column)
	assert.Contains(t, err.Error(), "already produced")
}

func TestManager_RejectsShortColumn(t *testing.T) {
	m := NewManager(shortIndicator{})

	_, err := m.Compute(generateTestData(10))

	var colErr *ColumnError
	require.ErrorAs(t, err, &colErr)
	assert.Contains(t, colErr.Reason, "length 9")
}

func TestManager_RejectsMismatchedInput(t *testing.T) {
	m := NewStandardManager(WarmupPartial)
	data := generateTestData(10)
	data.Volume = data.Volume[:5]

	_, err := m.Compute(data)
	assert.Error(t, err)
}

func TestParseWarmup(t *testing.T) {
	tests := []struct {
		in      string
		want    Warmup
		wantErr bool
	}{
		{"", WarmupPartial, false},
		{"partial", WarmupPartial, false},
		{" Strict ", WarmupStrict, false},
		{"full", WarmupPartial, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWarmup(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "strict", WarmupStrict.String())
	assert.Equal(t, 20, WarmupStrict.MinPeriods(20))
	assert.Equal(t, 1, WarmupPartial.MinPeriods(20))
}
