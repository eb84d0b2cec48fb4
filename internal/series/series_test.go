package series

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nan = math.NaN()

func assertSeries(t *testing.T, expected, actual []float64) {
	t.Helper()
	require.Len(t, actual, len(expected))
	for i := range expected {
		if math.IsNaN(expected[i]) {
			assert.True(t, math.IsNaN(actual[i]), "index %d: expected NaN, got %v", i, actual[i])
			continue
		}
		assert.InDelta(t, expected[i], actual[i], 1e-9, "index %d", i)
	}
}

func TestRollingMean(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	assertSeries(t, []float64{1, 1.5, 2, 3, 4}, RollingMean(values, 3, 1))
	assertSeries(t, []float64{nan, nan, 2, 3, 4}, RollingMean(values, 3, 3))
}

func TestRollingMean_SkipsMissing(t *testing.T) {
	values := []float64{nan, 2, nan, 4}

	assertSeries(t, []float64{nan, 2, 2, 3}, RollingMean(values, 3, 1))
	assertSeries(t, []float64{nan, nan, nan, nan}, RollingMean(values, 3, 3))
}

func TestRollingMinMax(t *testing.T) {
	values := []float64{3, 1, 4, 1, 5, 9, 2}

	assertSeries(t, []float64{3, 3, 4, 4, 5, 9, 9}, RollingMax(values, 3, 1))
	assertSeries(t, []float64{3, 1, 1, 1, 1, 1, 2}, RollingMin(values, 3, 1))
}

func TestRollingStd(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	sample := RollingStd(values, 8, 1, 1)
	population := RollingStd(values, 8, 1, 0)

	assert.True(t, math.IsNaN(sample[0]), "single observation has no sample deviation")
	assert.Equal(t, 0.0, population[0])
	assert.InDelta(t, 2.0, population[7], 1e-12)
	assert.InDelta(t, math.Sqrt(32.0/7.0), sample[7], 1e-12)
}

func TestEWM(t *testing.T) {
	values := []float64{1, 2, 3}
	alpha := 0.5

	// y0=1, y1=1.5, y2=2.25
	assertSeries(t, []float64{1, 1.5, 2.25}, EWM(values, alpha, 1))
	assertSeries(t, []float64{nan, 1.5, 2.25}, EWM(values, alpha, 2))
}

func TestEWM_LeadingAndInnerGaps(t *testing.T) {
	values := []float64{nan, 4, nan, 8}
	alpha := 0.5

	out := EWM(values, alpha, 1)

	assert.True(t, math.IsNaN(out[0]))
	assert.Equal(t, 4.0, out[1])
	assert.Equal(t, 4.0, out[2], "gap carries the previous mean")
	// old weight decays twice: 0.25*4 + 0.5*8 over 0.75
	assert.InDelta(t, (0.25*4+0.5*8)/0.75, out[3], 1e-12)
}

func TestSpanAlpha(t *testing.T) {
	assert.InDelta(t, 2.0/13.0, SpanAlpha(12), 1e-15)
}

func TestDiffAndPctChange(t *testing.T) {
	values := []float64{10, 12, 0, 3}

	assertSeries(t, []float64{nan, 2, -12, 3}, Diff(values))
	assertSeries(t, []float64{nan, 0.2, -1, nan}, PctChange(values))
}

func TestFills(t *testing.T) {
	values := []float64{nan, 1, nan, 3, nan}

	assertSeries(t, []float64{nan, 1, 1, 3, 3}, FillForward(values))
	assertSeries(t, []float64{1, 1, 3, 3, nan}, FillBackward(values))
	assertSeries(t, []float64{1, 1, 1, 3, 3}, FillAll(values))
	assertSeries(t, []float64{0, 0, 0}, FillAll([]float64{nan, nan, nan}))
	assert.Equal(t, 3, CountMissing(values), "input must not be modified")
}

func TestCumulative(t *testing.T) {
	assertSeries(t, []float64{1, 1, 3}, CumSum([]float64{1, nan, 2}))
	assertSeries(t, []float64{2, 2, 6}, CumProd([]float64{2, nan, 3}))
}

func TestStatistics(t *testing.T) {
	values := []float64{1, 2, 3, 4, nan}

	assert.Equal(t, 2.5, Mean(values))
	assert.InDelta(t, math.Sqrt(5.0/3.0), StdDev(values, 1), 1e-12)
	assert.Equal(t, 4.0, Max(values))
	assert.Equal(t, 1.0, Min(values))
	assert.True(t, math.IsNaN(Mean(nil)))
	assert.True(t, math.IsNaN(StdDev([]float64{1}, 1)))
}

func TestPercentile(t *testing.T) {
	values := []float64{5, 1, 4, 2, 3}

	assert.Equal(t, 1.0, Percentile(values, 0))
	assert.Equal(t, 3.0, Percentile(values, 50))
	assert.Equal(t, 5.0, Percentile(values, 100))
	// rank 0.05*4 = 0.2 between 1 and 2
	assert.InDelta(t, 1.2, Percentile(values, 5), 1e-12)
	assert.InDelta(t, 4.8, Percentile(values, 95), 1e-12)
	assert.True(t, math.IsNaN(Percentile(nil, 50)))
}

func TestSafeDiv(t *testing.T) {
	assert.Equal(t, 2.0, SafeDiv(4, 2))
	assert.True(t, math.IsNaN(SafeDiv(4, 0)))
	assert.True(t, math.IsNaN(SafeDiv(nan, 2)))
}
