package data

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/Adarshh9/FinSaathi-Datathon/internal/errors"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/logger"
	"github.com/Adarshh9/FinSaathi-Datathon/pkg/types"
)

// CSVProvider implements PriceProvider over a directory of CSV files
type CSVProvider struct {
	dataRoot string
	interval string
	format   CSVColumnMapping
	locator  FileLocator
	log      *logger.Logger
}

// NewCSVProvider creates a new CSV data provider rooted at dataRoot
func NewCSVProvider(dataRoot, interval string, format CSVColumnMapping, log *logger.Logger) *CSVProvider {
	if log == nil {
		log = logger.Nop()
	}
	return &CSVProvider{
		dataRoot: dataRoot,
		interval: interval,
		format:   format,
		locator:  NewDefaultFileLocator(),
		log:      log.With(logger.Component("csv_provider")),
	}
}

// GetName returns the name of the data provider
func (p *CSVProvider) GetName() string {
	return "csv"
}

// FetchSeries locates the symbol's file, loads it and applies the lookback period
func (p *CSVProvider) FetchSeries(ctx context.Context, symbol, period string) (types.PriceSeries, error) {
	if err := ctx.Err(); err != nil {
		return types.PriceSeries{}, err
	}

	path := p.locator.FindDataFile(p.dataRoot, symbol, p.interval)
	if path == "" {
		return types.PriceSeries{}, apperrors.NewNoDataError("csv_provider", "fetch", symbol).
			WithContext("data_root", p.dataRoot)
	}

	bars, err := p.LoadData(path)
	if err != nil {
		return types.PriceSeries{}, apperrors.WrapError(err, apperrors.ErrorCategoryDataUnavailable, "csv_provider", "load")
	}

	filtered, err := FilterByPeriod(types.NewPriceSeries(symbol, Normalize(bars)), period)
	if err != nil {
		return types.PriceSeries{}, apperrors.WrapError(err, apperrors.ErrorCategoryValidation, "csv_provider", "filter")
	}
	if filtered.IsEmpty() {
		return types.PriceSeries{}, apperrors.NewNoDataError("csv_provider", "fetch", symbol)
	}
	return filtered, nil
}

// LoadData reads every valid row of a CSV file. Rows that fail to parse or
// validate are skipped with a warning.
func (p *CSVProvider) LoadData(filename string) ([]types.OHLCV, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	// Skip header
	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}

	var data []types.OHLCV
	lineNum := 1
	skipped := 0
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("error reading CSV at line %d: %w", lineNum, err)
		}
		lineNum++

		candle, err := p.parseRecord(record)
		if err != nil {
			skipped++
			p.log.Warn("skipping csv row",
				logger.String("file", filepath.Base(filename)),
				logger.Int("line", lineNum),
				logger.Err(err))
			continue
		}
		data = append(data, candle)
	}

	p.log.Debug("loaded csv",
		logger.String("file", filepath.Base(filename)),
		logger.Int("rows", len(data)),
		logger.Int("skipped", skipped))
	return data, nil
}

func (p *CSVProvider) parseRecord(record []string) (types.OHLCV, error) {
	format := p.format
	if len(record) < format.MinColumns {
		return types.OHLCV{}, fmt.Errorf("insufficient columns (expected %d, got %d)", format.MinColumns, len(record))
	}

	timestamp, err := parseTimestamp(record[format.TimestampCol], format.DateFormats)
	if err != nil {
		return types.OHLCV{}, err
	}

	fields := []struct {
		name string
		col  int
		dst  *float64
	}{
		{"open", format.OpenCol, new(float64)},
		{"high", format.HighCol, new(float64)},
		{"low", format.LowCol, new(float64)},
		{"close", format.CloseCol, new(float64)},
		{"volume", format.VolumeCol, new(float64)},
	}
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(record[f.col]), 64)
		if err != nil {
			return types.OHLCV{}, fmt.Errorf("invalid %s %q: %w", f.name, record[f.col], err)
		}
		*f.dst = v
	}

	candle := types.OHLCV{
		Timestamp: timestamp,
		Open:      *fields[0].dst,
		High:      *fields[1].dst,
		Low:       *fields[2].dst,
		Close:     *fields[3].dst,
		Volume:    *fields[4].dst,
	}
	if err := ValidateBar(candle); err != nil {
		return types.OHLCV{}, err
	}
	return candle, nil
}

func parseTimestamp(raw string, layouts []string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	// unix seconds or milliseconds
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > 1e12 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", raw)
}
