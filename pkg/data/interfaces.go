package data

import (
	"context"

	"github.com/Adarshh9/FinSaathi-Datathon/pkg/types"
)

// PriceProvider fetches the daily history of a symbol.
// An empty result must be reported as errors.ErrNoData (DataUnavailable).
type PriceProvider interface {
	// FetchSeries returns the history trimmed to the trailing period ("" = everything available)
	FetchSeries(ctx context.Context, symbol, period string) (types.PriceSeries, error)

	// GetName returns the name of the data provider
	GetName() string
}

// DataCache interface for caching fetched series
type DataCache interface {
	// Get retrieves a series from cache if available
	Get(key string) (types.PriceSeries, bool)

	// Set stores a series in cache
	Set(key string, series types.PriceSeries)

	// Clear removes all cached data
	Clear()

	// Size returns the number of cached entries
	Size() int
}

// FileLocator interface for finding data files
type FileLocator interface {
	// FindDataFile attempts to locate the history file for a symbol.
	// Returns an empty string when nothing matches.
	FindDataFile(dataRoot, symbol, interval string) string
}

// CSVColumnMapping defines the column positions for different CSV formats
type CSVColumnMapping struct {
	TimestampCol int
	OpenCol      int
	HighCol      int
	LowCol       int
	CloseCol     int
	VolumeCol    int
	MinColumns   int
	DateFormats  []string
}

// Predefined CSV formats
var (
	// DefaultCSVFormat is timestamp,open,high,low,close,volume
	DefaultCSVFormat = CSVColumnMapping{
		TimestampCol: 0,
		OpenCol:      1,
		HighCol:      2,
		LowCol:       3,
		CloseCol:     4,
		VolumeCol:    5,
		MinColumns:   6,
		DateFormats:  []string{"2006-01-02 15:04:05", "2006-01-02", "2006-01-02T15:04:05Z07:00"},
	}

	// YahooCSVFormat is the Date,Open,High,Low,Close,Adj Close,Volume export
	YahooCSVFormat = CSVColumnMapping{
		TimestampCol: 0,
		OpenCol:      1,
		HighCol:      2,
		LowCol:       3,
		CloseCol:     4,
		VolumeCol:    6,
		MinColumns:   7,
		DateFormats:  []string{"2006-01-02", "2006-01-02 15:04:05"},
	}
)
