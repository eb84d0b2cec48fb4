package types

import (
	"fmt"
	"time"
)

// OHLCV is one trading session's price/volume summary
type OHLCV struct {
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	Timestamp time.Time
}

// PriceSeries is a time-ordered sequence of sessions for a single symbol.
// A series is owned by exactly one analysis and is not modified after it is fetched.
type PriceSeries struct {
	Symbol string
	Bars   []OHLCV
}

// NewPriceSeries copies bars into a new series
func NewPriceSeries(symbol string, bars []OHLCV) PriceSeries {
	owned := make([]OHLCV, len(bars))
	copy(owned, bars)
	return PriceSeries{Symbol: symbol, Bars: owned}
}

// Len returns the number of sessions in the series
func (s PriceSeries) Len() int {
	return len(s.Bars)
}

// IsEmpty reports whether the series has no sessions
func (s PriceSeries) IsEmpty() bool {
	return len(s.Bars) == 0
}

// Closes extracts the closing prices into a fresh slice
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Timestamps extracts the time index into a fresh slice
func (s PriceSeries) Timestamps() []time.Time {
	index := make([]time.Time, len(s.Bars))
	for i, b := range s.Bars {
		index[i] = b.Timestamp
	}
	return index
}

// Last returns the most recent session
func (s PriceSeries) Last() (OHLCV, bool) {
	if len(s.Bars) == 0 {
		return OHLCV{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}

// Validate checks that timestamps are strictly increasing
func (s PriceSeries) Validate() error {
	for i := 1; i < len(s.Bars); i++ {
		if !s.Bars[i].Timestamp.After(s.Bars[i-1].Timestamp) {
			return fmt.Errorf("invalid timestamp sequence at index %d: %s is not after %s",
				i, s.Bars[i].Timestamp.Format(time.RFC3339), s.Bars[i-1].Timestamp.Format(time.RFC3339))
		}
	}
	return nil
}
