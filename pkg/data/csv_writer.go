package data

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Adarshh9/FinSaathi-Datathon/pkg/types"
)

// WriteSeriesCSV stores a series in DefaultCSVFormat so CSVProvider can
// read it back
func WriteSeriesCSV(path string, s types.PriceSeries) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"timestamp", "open", "high", "low", "close", "volume"}); err != nil {
		return err
	}
	for _, b := range s.Bars {
		err := w.Write([]string{
			b.Timestamp.UTC().Format("2006-01-02 15:04:05"),
			strconv.FormatFloat(b.Open, 'f', -1, 64),
			strconv.FormatFloat(b.High, 'f', -1, 64),
			strconv.FormatFloat(b.Low, 'f', -1, 64),
			strconv.FormatFloat(b.Close, 'f', -1, 64),
			strconv.FormatFloat(b.Volume, 'f', -1, 64),
		})
		if err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// SnapshotPath is where WriteSeriesCSV output is found first by the
// default file locator: {root}/{SYMBOL}/{interval}/candles.csv
func SnapshotPath(dataRoot, symbol, interval string) string {
	return NewDefaultFileLocator().CandidatePaths(dataRoot, symbol, interval)[0]
}
