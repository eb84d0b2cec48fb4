package data

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	bybit_api "github.com/bybit-exchange/bybit.go.api"

	apperrors "github.com/Adarshh9/FinSaathi-Datathon/internal/errors"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/logger"
	"github.com/Adarshh9/FinSaathi-Datathon/pkg/types"
)

const (
	bybitMaxLimit = 1000
	bybitMaxPages = 20
)

// BybitConfig configures the Bybit public market-data client
type BybitConfig struct {
	BaseURL  string
	Category string // spot, linear or inverse
	Interval string // 1d, 1wk, 1h, or a raw Bybit interval such as "D" or "60"
	Retry    RetryConfig
}

// KlineFetcher issues one kline request and returns the raw API response
type KlineFetcher func(ctx context.Context, params map[string]interface{}) (interface{}, error)

// BybitProvider implements PriceProvider over Bybit's v5 kline endpoint
type BybitProvider struct {
	config BybitConfig
	fetch  KlineFetcher
	log    *logger.Logger
}

// NewBybitProvider creates a provider backed by the public Bybit REST API
func NewBybitProvider(config BybitConfig, log *logger.Logger) *BybitProvider {
	if config.BaseURL == "" {
		config.BaseURL = bybit_api.MAINNET
	}
	// market data is public, no credentials needed
	client := bybit_api.NewBybitHttpClient("", "", bybit_api.WithBaseURL(config.BaseURL))
	return NewBybitProviderWithFetcher(config, func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		return client.NewUtaBybitServiceWithParams(params).GetMarketKline(ctx)
	}, log)
}

// NewBybitProviderWithFetcher creates a provider with a custom request function
func NewBybitProviderWithFetcher(config BybitConfig, fetch KlineFetcher, log *logger.Logger) *BybitProvider {
	if log == nil {
		log = logger.Nop()
	}
	if config.Category == "" {
		config.Category = "spot"
	}
	if config.Interval == "" {
		config.Interval = "1d"
	}
	return &BybitProvider{
		config: config,
		fetch:  fetch,
		log:    log.With(logger.Component("bybit_provider")),
	}
}

// GetName returns the name of the data provider
func (p *BybitProvider) GetName() string {
	return "bybit"
}

// FetchSeries pages backwards through klines until the lookback is covered
func (p *BybitProvider) FetchSeries(ctx context.Context, symbol, period string) (types.PriceSeries, error) {
	lookback, err := ParseLookbackPeriod(period)
	if err != nil {
		return types.PriceSeries{}, apperrors.WrapError(err, apperrors.ErrorCategoryValidation, "bybit_provider", "parse_period")
	}

	now := time.Now().UTC()
	cutoff := lookback.Cutoff(now)
	symbol = strings.ToUpper(symbol)
	interval := BybitInterval(p.config.Interval)

	var bars []types.OHLCV
	end := now
	for page := 0; page < bybitMaxPages; page++ {
		params := map[string]interface{}{
			"category": p.config.Category,
			"symbol":   symbol,
			"interval": interval,
			"limit":    bybitMaxLimit,
			"end":      end.UnixMilli(),
		}
		if !lookback.All {
			params["start"] = cutoff.UnixMilli()
		}

		var chunk []types.OHLCV
		err := retry(ctx, p.config.Retry, func() error {
			resp, fetchErr := p.fetch(ctx, params)
			if fetchErr != nil {
				return apperrors.CategorizeError(fetchErr, "bybit_provider", "get_kline")
			}
			chunk, fetchErr = ParseBybitKlines(resp)
			return fetchErr
		})
		if err != nil {
			return types.PriceSeries{}, err
		}
		if len(chunk) == 0 {
			break
		}

		bars = append(bars, chunk...)
		oldest := chunk[0].Timestamp
		if len(chunk) < bybitMaxLimit || !oldest.After(cutoff) {
			break
		}
		end = oldest.Add(-time.Millisecond)
	}

	series, err := FilterByPeriod(types.NewPriceSeries(symbol, Normalize(bars)), period)
	if err != nil {
		return types.PriceSeries{}, apperrors.WrapError(err, apperrors.ErrorCategoryValidation, "bybit_provider", "filter")
	}
	if series.IsEmpty() {
		return types.PriceSeries{}, apperrors.NewNoDataError("bybit_provider", "fetch", symbol)
	}

	p.log.Debug("fetched series",
		logger.String("symbol", symbol),
		logger.String("interval", interval),
		logger.Int("bars", series.Len()))
	return series, nil
}

// ParseBybitKlines converts a GetMarketKline response into bars in
// chronological order. Bybit lists klines newest first.
func ParseBybitKlines(response interface{}) ([]types.OHLCV, error) {
	serverResp, ok := response.(*bybit_api.ServerResponse)
	if !ok {
		return nil, apperrors.NewDataUnavailableError("bybit_provider", "parse", "invalid response type")
	}
	if serverResp.RetCode != 0 {
		category := apperrors.ErrorCategoryDataUnavailable
		if serverResp.RetCode == 10006 || serverResp.RetCode == 10018 {
			category = apperrors.ErrorCategoryRateLimit
		}
		return nil, apperrors.NewAnalysisError(category, "bybit_provider", "parse",
			fmt.Sprintf("API error: %s (code: %d)", serverResp.RetMsg, serverResp.RetCode))
	}

	resultBytes, err := json.Marshal(serverResp.Result)
	if err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrorCategoryDataUnavailable, "bybit_provider", "marshal")
	}

	var klineResult struct {
		Symbol   string     `json:"symbol"`
		Category string     `json:"category"`
		List     [][]string `json:"list"`
	}
	if err := json.Unmarshal(resultBytes, &klineResult); err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrorCategoryDataUnavailable, "bybit_provider", "unmarshal")
	}

	bars := make([]types.OHLCV, 0, len(klineResult.List))
	for i := len(klineResult.List) - 1; i >= 0; i-- {
		item := klineResult.List[i]
		// [startTime, open, high, low, close, volume, turnover]
		if len(item) < 6 {
			continue
		}
		ms, err := strconv.ParseInt(item[0], 10, 64)
		if err != nil {
			continue
		}
		var values [5]float64
		valid := true
		for j := range values {
			if values[j], err = strconv.ParseFloat(item[j+1], 64); err != nil {
				valid = false
				break
			}
		}
		if !valid {
			continue
		}
		bars = append(bars, types.OHLCV{
			Timestamp: time.UnixMilli(ms).UTC(),
			Open:      values[0],
			High:      values[1],
			Low:       values[2],
			Close:     values[3],
			Volume:    values[4],
		})
	}
	return bars, nil
}

// BybitInterval maps common interval spellings onto Bybit's kline intervals
func BybitInterval(interval string) string {
	switch strings.ToLower(interval) {
	case "1m":
		return "1"
	case "5m":
		return "5"
	case "15m":
		return "15"
	case "30m":
		return "30"
	case "1h", "60m":
		return "60"
	case "4h":
		return "240"
	case "1d", "d", "":
		return "D"
	case "1wk", "1w", "w":
		return "W"
	case "1mo", "m":
		return "M"
	default:
		return interval
	}
}
