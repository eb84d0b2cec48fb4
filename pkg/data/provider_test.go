package data

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	bybit_api "github.com/bybit-exchange/bybit.go.api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Adarshh9/FinSaathi-Datathon/internal/errors"
	"github.com/Adarshh9/FinSaathi-Datathon/pkg/types"
)

func day(n int) time.Time {
	return time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func bar(n int, c float64) types.OHLCV {
	return types.OHLCV{Timestamp: day(n), Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 100}
}

func TestParseLookbackPeriod(t *testing.T) {
	tests := []struct {
		in       string
		expected Lookback
	}{
		{"", Lookback{All: true}},
		{"max", Lookback{All: true}},
		{"ytd", Lookback{YTD: true}},
		{"30d", Lookback{Days: 30}},
		{"2wk", Lookback{Days: 14}},
		{"6mo", Lookback{Months: 6}},
		{"1y", Lookback{Years: 1}},
		{"168h", Lookback{Duration: 168 * time.Hour}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLookbackPeriod(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	for _, bad := range []string{"abc", "0d", "-1y", "1q"} {
		_, err := ParseLookbackPeriod(bad)
		assert.Error(t, err, bad)
	}
}

func TestFilterByPeriod_AnchoredAtLastBar(t *testing.T) {
	bars := make([]types.OHLCV, 0, 60)
	for i := 0; i < 60; i++ {
		bars = append(bars, bar(i, 100+float64(i)))
	}
	series := types.NewPriceSeries("TEST", bars)

	filtered, err := FilterByPeriod(series, "10d")
	require.NoError(t, err)
	assert.Equal(t, 11, filtered.Len())
	assert.Equal(t, day(49), filtered.Bars[0].Timestamp)

	all, err := FilterByPeriod(series, "max")
	require.NoError(t, err)
	assert.Equal(t, 60, all.Len())

	_, err = FilterByPeriod(series, "bogus")
	assert.Error(t, err)
}

func TestNormalize_SortsAndDedupes(t *testing.T) {
	in := []types.OHLCV{bar(2, 3), bar(0, 1), bar(1, 2), bar(1, 99)}
	out := Normalize(in)

	require.Len(t, out, 3)
	assert.Equal(t, []float64{1, 2, 3}, types.NewPriceSeries("X", out).Closes())
	assert.Equal(t, day(2), in[0].Timestamp, "input must not be reordered")
	assert.NoError(t, types.NewPriceSeries("X", out).Validate())
	assert.Error(t, types.NewPriceSeries("X", in).Validate())
}

func TestValidateBar(t *testing.T) {
	assert.NoError(t, ValidateBar(bar(0, 10)))
	assert.Error(t, ValidateBar(types.OHLCV{Open: 10, High: 9, Low: 8, Close: 10}))
	assert.Error(t, ValidateBar(types.OHLCV{Open: 0, High: 1, Low: 0, Close: 1}))
	assert.Error(t, ValidateBar(types.OHLCV{Open: 10, High: 11, Low: 9, Close: 10, Volume: -1}))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCSVProvider_FetchSeries(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "ACME.csv"), strings.Join([]string{
		"timestamp,open,high,low,close,volume",
		"2024-01-03,12,13,11,12.5,300",
		"2024-01-01,10,11,9,10.5,100",
		"2024-01-02,11,12,10,11.5,200",
		"2024-01-04,bad,13,11,12,100",
		"2024-01-05,12,11,13,12,100",
		"",
	}, "\n"))

	p := NewCSVProvider(root, "", DefaultCSVFormat, nil)
	assert.Equal(t, "csv", p.GetName())

	series, err := p.FetchSeries(context.Background(), "acme", "")
	require.NoError(t, err)
	assert.Equal(t, "acme", series.Symbol)
	assert.Equal(t, []float64{10.5, 11.5, 12.5}, series.Closes())
	assert.NoError(t, series.Validate())

	short, err := p.FetchSeries(context.Background(), "ACME", "1d")
	require.NoError(t, err)
	assert.Equal(t, []float64{11.5, 12.5}, short.Closes())
}

func TestCSVProvider_IntervalLayoutAndYahooFormat(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "BTC", "1d", "candles.csv"), strings.Join([]string{
		"Date,Open,High,Low,Close,Adj Close,Volume",
		"2024-01-01,10,11,9,10,10,1000",
		"2024-01-02,10,12,9,11,11,2000",
	}, "\n"))

	p := NewCSVProvider(root, "1d", YahooCSVFormat, nil)
	series, err := p.FetchSeries(context.Background(), "btc", "max")
	require.NoError(t, err)
	require.Equal(t, 2, series.Len())
	assert.Equal(t, 2000.0, series.Bars[1].Volume)
}

func TestCSVProvider_MissingSymbolIsNoData(t *testing.T) {
	p := NewCSVProvider(t.TempDir(), "", DefaultCSVFormat, nil)

	_, err := p.FetchSeries(context.Background(), "NOPE", "")
	require.Error(t, err)
	assert.True(t, apperrors.IsDataUnavailable(err))
	assert.ErrorIs(t, err, apperrors.ErrNoData)
}

func TestCSVProvider_HeaderOnlyIsNoData(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "EMPTY.csv"), "timestamp,open,high,low,close,volume\n")

	_, err := NewCSVProvider(root, "", DefaultCSVFormat, nil).FetchSeries(context.Background(), "EMPTY", "")
	assert.True(t, apperrors.IsDataUnavailable(err))
}

type countingProvider struct {
	calls  int32
	series types.PriceSeries
	err    error
}

func (c *countingProvider) FetchSeries(ctx context.Context, symbol, period string) (types.PriceSeries, error) {
	atomic.AddInt32(&c.calls, 1)
	if c.err != nil {
		return types.PriceSeries{}, c.err
	}
	return types.NewPriceSeries(symbol, c.series.Bars), nil
}

func (c *countingProvider) GetName() string { return "counting" }

func TestCachedProvider(t *testing.T) {
	inner := &countingProvider{series: types.NewPriceSeries("X", []types.OHLCV{bar(0, 1), bar(1, 2)})}
	p := NewCachedProvider(inner, nil)
	ctx := context.Background()

	first, err := p.FetchSeries(ctx, "X", "1y")
	require.NoError(t, err)
	first.Bars[0].Close = 999

	second, err := p.FetchSeries(ctx, " x ", "1Y")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&inner.calls))
	assert.Equal(t, 1.0, second.Bars[0].Close, "cached copy must be isolated from callers")
	assert.Equal(t, "cached counting", p.GetName())

	_, err = p.FetchSeries(ctx, "X", "6mo")
	require.NoError(t, err)
	assert.Equal(t, 2, p.GetCache().Size())

	p.ClearCache()
	assert.Equal(t, 0, p.GetCache().Size())
}

func TestCachedProvider_DoesNotCacheErrors(t *testing.T) {
	inner := &countingProvider{err: apperrors.NewNoDataError("test", "fetch", "X")}
	p := NewCachedProvider(inner, nil)

	for i := 0; i < 2; i++ {
		_, err := p.FetchSeries(context.Background(), "X", "")
		assert.Error(t, err)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&inner.calls))
}

const yahooBody = `{"chart":{"result":[{"timestamp":[1704067200,1704153600,1704240000],
"indicators":{"quote":[{"open":[10,null,12],"high":[11,null,13],"low":[9,null,11],"close":[10.5,null,12.5],"volume":[100,null,300]}]}}],"error":null}}`

func TestYahooProvider_FetchSeries(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(yahooBody))
	}))
	defer srv.Close()

	p := NewYahooProvider(YahooConfig{BaseURL: srv.URL}, nil)
	series, err := p.FetchSeries(context.Background(), "sp500", "1mo")
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/^GSPC", gotPath)
	assert.Contains(t, gotQuery, "interval=1d")
	assert.Contains(t, gotQuery, "range=1mo")
	assert.Equal(t, []float64{10.5, 12.5}, series.Closes())
	assert.Equal(t, "sp500", series.Symbol)
}

func TestYahooProvider_ApiErrorIsNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer srv.Close()

	_, err := NewYahooProvider(YahooConfig{BaseURL: srv.URL}, nil).FetchSeries(context.Background(), "ZZZZ", "")
	require.Error(t, err)
	assert.True(t, apperrors.IsDataUnavailable(err))
}

func TestYahooProvider_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(yahooBody))
	}))
	defer srv.Close()

	p := NewYahooProvider(YahooConfig{
		BaseURL: srv.URL,
		Retry:   RetryConfig{MaxRetries: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, BackoffFactor: 2},
	}, nil)
	series, err := p.FetchSeries(context.Background(), "AAPL", "")
	require.NoError(t, err)
	assert.Equal(t, 2, series.Len())
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestYahooRange(t *testing.T) {
	tests := map[string]string{
		"":     "max",
		"ytd":  "ytd",
		"5d":   "5d",
		"1mo":  "1mo",
		"6mo":  "6mo",
		"1y":   "1y",
		"2y":   "2y",
		"3y":   "5y",
		"20y":  "max",
		"90d":  "3mo",
		"400d": "2y",
	}
	for period, expected := range tests {
		l, err := ParseLookbackPeriod(period)
		require.NoError(t, err)
		assert.Equal(t, expected, YahooRange(l), period)
	}
}

func TestParseBybitKlines_ReversesNewestFirst(t *testing.T) {
	resp := &bybit_api.ServerResponse{
		RetCode: 0,
		Result: map[string]interface{}{
			"symbol":   "BTCUSDT",
			"category": "spot",
			"list": []interface{}{
				[]interface{}{"1704153600000", "11", "12", "10", "11.5", "200", "2300"},
				[]interface{}{"1704067200000", "10", "11", "9", "10.5", "100", "1050"},
				[]interface{}{"broken"},
			},
		},
	}

	bars, err := ParseBybitKlines(resp)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, time.UnixMilli(1704067200000).UTC(), bars[0].Timestamp)
	assert.Equal(t, 10.5, bars[0].Close)
	assert.Equal(t, 200.0, bars[1].Volume)
}

func TestParseBybitKlines_Errors(t *testing.T) {
	_, err := ParseBybitKlines("not a response")
	assert.Error(t, err)

	_, err = ParseBybitKlines(&bybit_api.ServerResponse{RetCode: 10001, RetMsg: "params error"})
	require.Error(t, err)
	assert.True(t, apperrors.IsDataUnavailable(err))

	_, err = ParseBybitKlines(&bybit_api.ServerResponse{RetCode: 10006, RetMsg: "too many visits"})
	var ae *apperrors.AnalysisError
	require.True(t, errors.As(err, &ae))
	assert.True(t, ae.IsRetryable())
}

func TestBybitProvider_FetchSeries(t *testing.T) {
	now := time.Now().UTC().Truncate(24 * time.Hour)
	var seen []map[string]interface{}
	fetch := func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		seen = append(seen, params)
		return &bybit_api.ServerResponse{
			Result: map[string]interface{}{
				"list": []interface{}{
					[]interface{}{itoa(now.AddDate(0, 0, -1).UnixMilli()), "11", "12", "10", "11", "5", "0"},
					[]interface{}{itoa(now.AddDate(0, 0, -2).UnixMilli()), "10", "11", "9", "10", "5", "0"},
				},
			},
		}, nil
	}

	p := NewBybitProviderWithFetcher(BybitConfig{Interval: "1d"}, fetch, nil)
	series, err := p.FetchSeries(context.Background(), "btcusdt", "1mo")
	require.NoError(t, err)

	require.Len(t, seen, 1, "a short page ends pagination")
	assert.Equal(t, "spot", seen[0]["category"])
	assert.Equal(t, "BTCUSDT", seen[0]["symbol"])
	assert.Equal(t, "D", seen[0]["interval"])
	assert.Contains(t, seen[0], "start")
	assert.Equal(t, []float64{10, 11}, series.Closes())
}

func TestBybitProvider_EmptyIsNoData(t *testing.T) {
	fetch := func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		return &bybit_api.ServerResponse{Result: map[string]interface{}{"list": []interface{}{}}}, nil
	}
	_, err := NewBybitProviderWithFetcher(BybitConfig{}, fetch, nil).FetchSeries(context.Background(), "NONE", "")
	assert.True(t, apperrors.IsDataUnavailable(err))
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(ProviderOptions{Name: "csv", DataRoot: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, "csv", p.GetName())

	p, err = NewProvider(ProviderOptions{Cache: true})
	require.NoError(t, err)
	assert.Equal(t, "cached yahoo", p.GetName())

	p, err = NewProvider(ProviderOptions{Name: "bybit"})
	require.NoError(t, err)
	assert.Equal(t, "bybit", p.GetName())

	_, err = NewProvider(ProviderOptions{Name: "ftp"})
	assert.Error(t, err)
}

func TestRetry_StopsOnNonRetryable(t *testing.T) {
	calls := 0
	cfg := RetryConfig{MaxRetries: 5, InitialDelay: time.Millisecond}
	err := retry(context.Background(), cfg, func() error {
		calls++
		return apperrors.NewValidationError("test", "op", "bad input")
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)

	calls = 0
	err = retry(context.Background(), cfg, func() error {
		calls++
		return apperrors.NewNetworkError("test", "op", errors.New("connection reset"))
	})
	assert.Error(t, err)
	assert.Equal(t, 6, calls)
}

func TestRetryBackOff_Capped(t *testing.T) {
	cfg := RetryConfig{InitialDelay: 100 * time.Millisecond, MaxDelay: 300 * time.Millisecond, BackoffFactor: 2}
	b := cfg.newBackOff()
	assert.Equal(t, 100*time.Millisecond, b.NextBackOff())
	assert.Equal(t, 200*time.Millisecond, b.NextBackOff())
	assert.Equal(t, 300*time.Millisecond, b.NextBackOff())
	assert.Equal(t, 300*time.Millisecond, b.NextBackOff())
}

func TestRetryBackOff_Jitter(t *testing.T) {
	cfg := RetryConfig{InitialDelay: 100 * time.Millisecond, BackoffFactor: 1, JitterEnabled: true}
	b := cfg.newBackOff()
	for i := 0; i < 20; i++ {
		d := b.NextBackOff()
		assert.GreaterOrEqual(t, d, 90*time.Millisecond)
		assert.LessOrEqual(t, d, 111*time.Millisecond)
	}
}

func TestRetry_StopsWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	cfg := RetryConfig{MaxRetries: 10, InitialDelay: time.Millisecond}
	err := retry(ctx, cfg, func() error {
		calls++
		cancel()
		return apperrors.NewNetworkError("test", "op", errors.New("connection reset"))
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

func TestGuardedProvider_BreakerOpensOnNetworkErrors(t *testing.T) {
	inner := &countingProvider{err: apperrors.NewNetworkError("counting", "fetch", errors.New("reset"))}
	p := NewGuardedProvider(inner, GuardConfig{FailureThreshold: 2, Cooldown: time.Hour}, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := p.FetchSeries(ctx, "X", "1y")
		require.Error(t, err)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&inner.calls))

	_, err := p.FetchSeries(ctx, "X", "1y")
	require.Error(t, err)
	cat, ok := apperrors.CategoryOf(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorCategoryNetwork, cat)
	assert.Equal(t, int32(2), atomic.LoadInt32(&inner.calls), "open breaker must not call upstream")
	assert.Equal(t, "counting", p.GetName())
}

func TestGuardedProvider_MissingSymbolsDoNotTrip(t *testing.T) {
	inner := &countingProvider{err: apperrors.NewNoDataError("counting", "fetch", "NOPE")}
	p := NewGuardedProvider(inner, GuardConfig{FailureThreshold: 1, Cooldown: time.Hour}, nil)

	for i := 0; i < 3; i++ {
		_, err := p.FetchSeries(context.Background(), "NOPE", "1y")
		assert.ErrorIs(t, err, apperrors.ErrNoData)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&inner.calls))
}

func TestGuardedProvider_RateLimitHonoursContext(t *testing.T) {
	inner := &countingProvider{series: types.NewPriceSeries("X", []types.OHLCV{bar(0, 1)})}
	p := NewGuardedProvider(inner, GuardConfig{RequestsPerSecond: 0.001, Burst: 1}, nil)

	_, err := p.FetchSeries(context.Background(), "X", "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.FetchSeries(ctx, "X", "")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), atomic.LoadInt32(&inner.calls))
}

func TestWriteSeriesCSV_ReadableByCSVProvider(t *testing.T) {
	root := t.TempDir()
	series := types.NewPriceSeries("ETHUSDT", []types.OHLCV{bar(0, 10), bar(1, 11.25), bar(2, 12)})

	path := SnapshotPath(root, "ethusdt", "1d")
	assert.Equal(t, filepath.Join(root, "ETHUSDT", "1d", "candles.csv"), path)
	require.NoError(t, WriteSeriesCSV(path, series))

	p := NewCSVProvider(root, "1d", DefaultCSVFormat, nil)
	got, err := p.FetchSeries(context.Background(), "ETHUSDT", "")
	require.NoError(t, err)
	require.Equal(t, 3, got.Len())
	assert.Equal(t, 11.25, got.Bars[1].Close)
	assert.True(t, got.Bars[2].Timestamp.Equal(day(2)))
}
