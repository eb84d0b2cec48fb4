package data

import (
	"fmt"
	"sort"
	"time"

	"github.com/Adarshh9/FinSaathi-Datathon/pkg/types"
)

// FilterByPeriod trims a series to the trailing lookback period, measured
// back from its most recent session ("" or "max" keeps everything)
func FilterByPeriod(series types.PriceSeries, period string) (types.PriceSeries, error) {
	lookback, err := ParseLookbackPeriod(period)
	if err != nil {
		return types.PriceSeries{}, err
	}
	last, ok := series.Last()
	if !ok || lookback.All {
		return types.NewPriceSeries(series.Symbol, series.Bars), nil
	}
	return types.NewPriceSeries(series.Symbol, FilterFrom(series.Bars, lookback.Cutoff(last.Timestamp))), nil
}

// FilterFrom keeps the bars stamped at or after cutoff
func FilterFrom(data []types.OHLCV, cutoff time.Time) []types.OHLCV {
	startIdx := sort.Search(len(data), func(i int) bool {
		return !data[i].Timestamp.Before(cutoff)
	})
	return data[startIdx:]
}

// Normalize sorts bars by timestamp and drops repeated timestamps, keeping the
// first occurrence. The input is not modified.
func Normalize(data []types.OHLCV) []types.OHLCV {
	sorted := make([]types.OHLCV, len(data))
	copy(sorted, data)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	out := sorted[:0]
	for i, candle := range sorted {
		if i > 0 && candle.Timestamp.Equal(out[len(out)-1].Timestamp) {
			continue
		}
		out = append(out, candle)
	}
	return out
}

// ValidateBar checks the price relationships of a single session
func ValidateBar(candle types.OHLCV) error {
	if candle.Open <= 0 || candle.High <= 0 || candle.Low <= 0 || candle.Close <= 0 {
		return fmt.Errorf("prices must be positive")
	}
	if candle.High < candle.Low {
		return fmt.Errorf("high (%.4f) cannot be less than low (%.4f)", candle.High, candle.Low)
	}
	if candle.High < candle.Open || candle.High < candle.Close {
		return fmt.Errorf("high (%.4f) must be >= open (%.4f) and close (%.4f)", candle.High, candle.Open, candle.Close)
	}
	if candle.Low > candle.Open || candle.Low > candle.Close {
		return fmt.Errorf("low (%.4f) must be <= open (%.4f) and close (%.4f)", candle.Low, candle.Open, candle.Close)
	}
	if candle.Volume < 0 {
		return fmt.Errorf("volume (%.4f) cannot be negative", candle.Volume)
	}
	return nil
}
