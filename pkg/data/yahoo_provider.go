package data

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/Adarshh9/FinSaathi-Datathon/internal/errors"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/logger"
	"github.com/Adarshh9/FinSaathi-Datathon/pkg/types"
)

// DefaultYahooBaseURL is the public chart endpoint
const DefaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooConfig configures the Yahoo Finance chart client
type YahooConfig struct {
	BaseURL   string
	Interval  string
	Timeout   time.Duration
	Retry     RetryConfig
	SymbolMap map[string]string // maps user-facing aliases to Yahoo tickers
}

// YahooProvider implements PriceProvider using the Yahoo Finance chart API
type YahooProvider struct {
	client *http.Client
	config YahooConfig
	log    *logger.Logger
}

// NewYahooProvider creates a new Yahoo Finance provider
func NewYahooProvider(config YahooConfig, log *logger.Logger) *YahooProvider {
	if log == nil {
		log = logger.Nop()
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultYahooBaseURL
	}
	if config.Interval == "" {
		config.Interval = "1d"
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.SymbolMap == nil {
		config.SymbolMap = map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
			"NIFTY":  "^NSEI",
			"SENSEX": "^BSESN",
		}
	}
	return &YahooProvider{
		client: &http.Client{Timeout: config.Timeout},
		config: config,
		log:    log.With(logger.Component("yahoo_provider")),
	}
}

// GetName returns the name of the data provider
func (p *YahooProvider) GetName() string {
	return "yahoo"
}

func (p *YahooProvider) yahooSymbol(symbol string) string {
	if mapped, ok := p.config.SymbolMap[strings.ToUpper(symbol)]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchSeries downloads the chart covering period and trims it to the exact lookback
func (p *YahooProvider) FetchSeries(ctx context.Context, symbol, period string) (types.PriceSeries, error) {
	lookback, err := ParseLookbackPeriod(period)
	if err != nil {
		return types.PriceSeries{}, apperrors.WrapError(err, apperrors.ErrorCategoryValidation, "yahoo_provider", "parse_period")
	}
	rng := YahooRange(lookback)

	var bars []types.OHLCV
	err = retry(ctx, p.config.Retry, func() error {
		var fetchErr error
		bars, fetchErr = p.fetchChart(ctx, symbol, rng)
		if fetchErr != nil {
			p.log.Warn("yahoo fetch failed",
				logger.String("symbol", symbol),
				logger.String("range", rng),
				logger.Err(fetchErr))
		}
		return fetchErr
	})
	if err != nil {
		return types.PriceSeries{}, err
	}

	series, err := FilterByPeriod(types.NewPriceSeries(symbol, Normalize(bars)), period)
	if err != nil {
		return types.PriceSeries{}, apperrors.WrapError(err, apperrors.ErrorCategoryValidation, "yahoo_provider", "filter")
	}
	if series.IsEmpty() {
		return types.PriceSeries{}, apperrors.NewNoDataError("yahoo_provider", "fetch", symbol)
	}

	p.log.Debug("fetched series",
		logger.String("symbol", symbol),
		logger.String("range", rng),
		logger.Int("bars", series.Len()))
	return series, nil
}

func (p *YahooProvider) fetchChart(ctx context.Context, symbol, rng string) ([]types.OHLCV, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		strings.TrimRight(p.config.BaseURL, "/"),
		url.PathEscape(p.yahooSymbol(symbol)),
		url.QueryEscape(p.config.Interval),
		url.QueryEscape(rng))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrorCategoryConfiguration, "yahoo_provider", "request")
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, apperrors.NewNetworkError("yahoo_provider", "fetch", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewNetworkError("yahoo_provider", "read_body", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, apperrors.NewAnalysisError(apperrors.ErrorCategoryRateLimit, "yahoo_provider", "fetch",
			fmt.Sprintf("status %d", resp.StatusCode))
	case resp.StatusCode == http.StatusNotFound:
		return nil, apperrors.NewNoDataError("yahoo_provider", "fetch", symbol)
	case resp.StatusCode >= 500:
		return nil, apperrors.NewAnalysisError(apperrors.ErrorCategoryNetwork, "yahoo_provider", "fetch",
			fmt.Sprintf("status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return nil, apperrors.NewDataUnavailableError("yahoo_provider", "fetch",
			fmt.Sprintf("status %d, body: %s", resp.StatusCode, truncate(string(body), 200)))
	}

	return parseYahooChart(symbol, body)
}

func parseYahooChart(symbol string, body []byte) ([]types.OHLCV, error) {
	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrorCategoryDataUnavailable, "yahoo_provider", "decode")
	}
	if chart.Chart.Error != nil {
		return nil, apperrors.NewNoDataError("yahoo_provider", "fetch", symbol).
			WithContext("api_error", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, apperrors.NewNoDataError("yahoo_provider", "fetch", symbol)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]types.OHLCV, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		o := toFloat(at(quote.Open, i))
		h := toFloat(at(quote.High, i))
		l := toFloat(at(quote.Low, i))
		c := toFloat(at(quote.Close, i))
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // null bars (holidays etc.)
		}
		bars = append(bars, types.OHLCV{
			Timestamp: time.Unix(ts, 0).UTC(),
			Open:      o,
			High:      h,
			Low:       l,
			Close:     c,
			Volume:    toFloat(at(quote.Volume, i)),
		})
	}
	return bars, nil
}

// YahooRange picks the smallest chart range that covers the lookback
func YahooRange(l Lookback) string {
	switch {
	case l.All:
		return "max"
	case l.YTD:
		return "ytd"
	}
	days := l.ApproxDays()
	switch {
	case days <= 5:
		return "5d"
	case days <= 31:
		return "1mo"
	case days <= 93:
		return "3mo"
	case days <= 186:
		return "6mo"
	case days <= 366:
		return "1y"
	case days <= 2*366:
		return "2y"
	case days <= 5*366:
		return "5y"
	case days <= 10*366:
		return "10y"
	default:
		return "max"
	}
}

func at(values []interface{}, i int) interface{} {
	if i < len(values) {
		return values[i]
	}
	return nil
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
