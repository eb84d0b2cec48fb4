package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceSeries_Validate(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := []OHLCV{
		{Close: 1, Timestamp: start},
		{Close: 2, Timestamp: start.Add(24 * time.Hour)},
		{Close: 3, Timestamp: start.Add(48 * time.Hour)},
	}

	require.NoError(t, NewPriceSeries("AAPL", bars).Validate())

	dup := append([]OHLCV{}, bars...)
	dup[2].Timestamp = dup[1].Timestamp
	err := NewPriceSeries("AAPL", dup).Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "index 2")
}

func TestPriceSeries_NewPriceSeriesCopiesBars(t *testing.T) {
	bars := []OHLCV{{Close: 10}}
	s := NewPriceSeries("X", bars)
	bars[0].Close = 99

	assert.Equal(t, 10.0, s.Bars[0].Close)
	assert.Equal(t, []float64{10}, s.Closes())
}

func TestPriceSeries_Last(t *testing.T) {
	_, ok := PriceSeries{}.Last()
	assert.False(t, ok)

	last, ok := NewPriceSeries("X", []OHLCV{{Close: 1}, {Close: 2}}).Last()
	assert.True(t, ok)
	assert.Equal(t, 2.0, last.Close)
}
