package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestADX_Range(t *testing.T) {
	adx := NewADX(14)
	data := generateTestData(100)

	values := adx.Calculate(data.High, data.Low, data.Close)

	require.Len(t, values, 100)
	assert.Zero(t, countNaN(values))
	for _, v := range values {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
}

func TestADX_StrongUptrend(t *testing.T) {
	adx := NewADX(14)
	data := generateTrendData(40, 1)

	// only positive directional movement, so DX is 100 wherever defined
	for _, v := range adx.Calculate(data.High, data.Low, data.Close) {
		assert.InDelta(t, 100.0, v, 1e-9)
	}
}

func TestADX_FlatDataIsZero(t *testing.T) {
	adx := NewADX(14)
	data := generateFlatData(30)

	for _, v := range adx.Calculate(data.High, data.Low, data.Close) {
		assert.Equal(t, 0.0, v)
	}
}

func TestADX_ZeroRangeStepsForwardFilled(t *testing.T) {
	adx := NewADX(1)
	closes := []float64{1, 2, 3, 3, 3}

	// steps 3 and 4 have no true range; they take the last defined DX
	values := adx.Calculate(closes, closes, closes)

	assertSeries(t, []float64{100, 100, 100, 100, 100}, values)
}

func TestADX_SingleSession(t *testing.T) {
	adx := NewADX(14)

	values := adx.Calculate([]float64{101}, []float64{99}, []float64{100})

	assertSeries(t, []float64{0}, values)
}

func TestADX_Compute(t *testing.T) {
	adx := NewADX(14)

	cols, err := adx.Compute(generateTestData(30))
	require.NoError(t, err)

	assert.Len(t, cols[ColADX], 30)
	assert.Equal(t, "ADX", adx.GetName())
	assert.Equal(t, 28, adx.GetRequiredPeriods())
}
