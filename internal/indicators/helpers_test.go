package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// generateTestData produces a gently rising, oscillating series
func generateTestData(count int) Input {
	in := newInput(count)
	for i := 0; i < count; i++ {
		price := 100.0 + float64(i%10) + float64(i)*0.1
		in.Open[i] = price - 0.5
		in.High[i] = price + 1.0
		in.Low[i] = price - 1.0
		in.Close[i] = price
		in.Volume[i] = 1000.0 + float64(i)
	}
	return in
}

// generateFlatData produces a series whose every field is constant
func generateFlatData(count int) Input {
	in := newInput(count)
	for i := 0; i < count; i++ {
		in.Open[i] = 100.0
		in.High[i] = 100.0
		in.Low[i] = 100.0
		in.Close[i] = 100.0
		in.Volume[i] = 1000.0
	}
	return in
}

// generateTrendData produces a series moving by step every session
func generateTrendData(count int, step float64) Input {
	in := newInput(count)
	for i := 0; i < count; i++ {
		price := 100.0 + float64(i)*step
		in.Open[i] = price
		in.High[i] = price + 1.0
		in.Low[i] = price - 1.0
		in.Close[i] = price
		in.Volume[i] = 1000.0
	}
	return in
}

func inputFromCloses(closes []float64) Input {
	in := newInput(len(closes))
	copy(in.Open, closes)
	copy(in.High, closes)
	copy(in.Low, closes)
	copy(in.Close, closes)
	for i := range in.Volume {
		in.Volume[i] = 1000.0
	}
	return in
}

func newInput(count int) Input {
	return Input{
		Open:   make([]float64, count),
		High:   make([]float64, count),
		Low:    make([]float64, count),
		Close:  make([]float64, count),
		Volume: make([]float64, count),
	}
}

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

func countNaN(values []float64) int {
	n := 0
	for _, v := range values {
		if math.IsNaN(v) {
			n++
		}
	}
	return n
}

func nan() float64 {
	return math.NaN()
}

func isNaN(v float64) bool {
	return math.IsNaN(v)
}
