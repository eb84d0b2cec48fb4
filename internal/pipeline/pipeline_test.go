package pipeline

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Adarshh9/FinSaathi-Datathon/internal/errors"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/indicators"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/strategy"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/table"
	"github.com/Adarshh9/FinSaathi-Datathon/pkg/types"
)

var start = time.Date(2023, time.January, 2, 0, 0, 0, 0, time.UTC)

func trendSeries(n int, step float64) types.PriceSeries {
	bars := make([]types.OHLCV, n)
	for i := range bars {
		p := 100 + float64(i)*step
		bars[i] = types.OHLCV{
			Timestamp: start.AddDate(0, 0, i),
			Open:      p,
			High:      p + 1,
			Low:       p - 1,
			Close:     p,
			Volume:    1000,
		}
	}
	return types.NewPriceSeries("TREND", bars)
}

func wavySeries(n int) types.PriceSeries {
	bars := make([]types.OHLCV, n)
	for i := range bars {
		p := 100 + 10*math.Sin(float64(i)/7) + float64(i%5)
		bars[i] = types.OHLCV{
			Timestamp: start.AddDate(0, 0, i),
			Open:      p - 0.5,
			High:      p + 2,
			Low:       p - 2,
			Close:     p,
			Volume:    1000 + float64(i%11)*100,
		}
	}
	return types.NewPriceSeries("WAVY", bars)
}

func TestCompute_PreservesIndexAndHasNoMissingValues(t *testing.T) {
	for _, warmup := range []indicators.Warmup{indicators.WarmupPartial, indicators.WarmupStrict} {
		t.Run(warmup.String(), func(t *testing.T) {
			s := wavySeries(120)
			tbl, err := NewPipeline(WithWarmup(warmup)).Compute(s, "")
			require.NoError(t, err)

			assert.Equal(t, s.Len(), tbl.Len())
			assert.Equal(t, s.Timestamps(), tbl.Index())
			assert.Equal(t, s.Closes(), tbl.MustColumn(table.ColClose))

			for _, name := range indicators.NewStandardManager(warmup).Columns() {
				require.True(t, tbl.Has(name), name)
			}
			for _, name := range tbl.Names() {
				for i, v := range tbl.MustColumn(name) {
					require.False(t, math.IsNaN(v), "%s[%d] is missing", name, i)
				}
			}
		})
	}
}

func TestCompute_SignalRange(t *testing.T) {
	tbl, err := NewPipeline().Compute(wavySeries(150), "")
	require.NoError(t, err)

	names := tbl.Names()
	assert.Equal(t, strategy.ColSignal, names[len(names)-1])
	for _, v := range tbl.MustColumn(strategy.ColSignal) {
		assert.Contains(t, []float64{-1, 0, 1}, v)
	}
}

func TestCompute_MonotoneSeriesIsBullishAfterSlowAverage(t *testing.T) {
	tbl, err := NewPipeline().Compute(trendSeries(260, 1), "")
	require.NoError(t, err)

	signal := tbl.MustColumn(strategy.ColSignal)
	for i := 199; i < len(signal); i++ {
		assert.Equal(t, 1.0, signal[i], "row %d", i)
	}
}

func TestCompute_SingleSession(t *testing.T) {
	tbl, err := NewPipeline().Compute(trendSeries(1, 1), "")
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())

	for _, name := range []string{indicators.ColDailyReturn, indicators.ColVolatility, indicators.ColADX} {
		v, err := tbl.Value(name, 0)
		require.NoError(t, err)
		assert.Equal(t, 0.0, v, name)
	}
	v, err := tbl.Value(indicators.ColSMA200, 0)
	require.NoError(t, err)
	assert.Equal(t, 100.0, v)
}

func TestCompute_EmptySeriesIsNoData(t *testing.T) {
	_, err := NewPipeline().Compute(types.NewPriceSeries("NONE", nil), "1y")
	require.Error(t, err)
	assert.True(t, apperrors.IsDataUnavailable(err))
	assert.ErrorIs(t, err, apperrors.ErrNoData)
}

func TestCompute_RejectsUnorderedSeries(t *testing.T) {
	s := trendSeries(3, 1)
	s.Bars[2].Timestamp = s.Bars[0].Timestamp

	_, err := NewPipeline().Compute(s, "")
	assert.Error(t, err)
}

func TestCompute_FillsMissingPriceAndVolume(t *testing.T) {
	s := wavySeries(60)
	s.Bars[10].Volume = math.NaN()
	s.Bars[20].Close = math.NaN()
	s.Bars[0].Open = math.NaN()

	tbl, err := NewPipeline().Compute(s, "")
	require.NoError(t, err)

	for _, name := range tbl.Names() {
		for i, v := range tbl.MustColumn(name) {
			require.False(t, math.IsNaN(v), "%s[%d] is missing", name, i)
		}
	}

	volume := tbl.MustColumn(table.ColVolume)
	assert.Equal(t, volume[9], volume[10])
	closes := tbl.MustColumn(table.ColClose)
	assert.Equal(t, closes[19], closes[20])
	opens := tbl.MustColumn(table.ColOpen)
	assert.Equal(t, opens[1], opens[0])

	assert.True(t, math.IsNaN(s.Bars[20].Close), "input series is left untouched")
}

func TestCompute_RejectsDisorderOutsideLookback(t *testing.T) {
	s := trendSeries(300, 1)
	s.Bars[5].Timestamp, s.Bars[6].Timestamp = s.Bars[6].Timestamp, s.Bars[5].Timestamp

	_, err := NewPipeline().Compute(s, "30d")
	require.Error(t, err)
	cat, ok := apperrors.CategoryOf(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorCategoryValidation, cat)
}

func TestCompute_LookbackTrimsFromLastSession(t *testing.T) {
	s := trendSeries(300, 1)
	tbl, err := NewPipeline().Compute(s, "30d")
	require.NoError(t, err)

	assert.Equal(t, 31, tbl.Len())
	assert.Equal(t, s.Bars[269].Timestamp, tbl.Index()[0])

	_, err = NewPipeline().Compute(s, "sometime")
	assert.Error(t, err)
}

func TestCompute_SignalUsesValuesBeforeCleanup(t *testing.T) {
	tbl, err := NewPipeline(WithWarmup(indicators.WarmupStrict)).Compute(trendSeries(60, 1), "")
	require.NoError(t, err)

	// row 0 has no warmed RSI, MACD or bands and equal averages
	v, err := tbl.Value(strategy.ColSignal, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	refilled, err := strategy.NewDefaultSignalGenerator().Generate(tbl)
	require.NoError(t, err)
	assert.Equal(t, -1, refilled[0], "back-filled values would have scored row 0")
}

func TestNewPipeline_Options(t *testing.T) {
	g, err := strategy.NewSignalGenerator(strategy.Thresholds{RSIOversold: 20, RSIOverbought: 80})
	require.NoError(t, err)

	p := NewPipeline(
		WithWarmup(indicators.WarmupStrict),
		WithSignalGenerator(g),
		WithLogger(nil),
	)
	assert.Equal(t, indicators.WarmupStrict, p.Warmup())
	assert.Equal(t, g, p.generator)

	custom := indicators.NewManager(indicators.NewSMA(5))
	_, err = NewPipeline(WithManager(custom)).Compute(trendSeries(10, 1), "")
	assert.Error(t, err, "signal columns are missing from a reduced indicator set")
}

func TestNewPipeline_ManagerSurvivesLaterWarmup(t *testing.T) {
	custom := indicators.NewManager(indicators.NewSMA(5))

	for name, p := range map[string]*Pipeline{
		"manager first": NewPipeline(WithManager(custom), WithWarmup(indicators.WarmupStrict)),
		"warmup first":  NewPipeline(WithWarmup(indicators.WarmupStrict), WithManager(custom)),
	} {
		t.Run(name, func(t *testing.T) {
			assert.Same(t, custom, p.manager)
			assert.Equal(t, indicators.WarmupStrict, p.Warmup())
		})
	}
}

// constantGenerator emits the same signal at every step
type constantGenerator struct{ signal int }

func (g constantGenerator) Generate(t *table.Table) ([]int, error) {
	out := make([]int, t.Len())
	for i := range out {
		out[i] = g.signal
	}
	return out, nil
}

func (g constantGenerator) GetName() string { return "constant" }

func TestCompute_CustomGenerator(t *testing.T) {
	tbl, err := NewPipeline(WithSignalGenerator(constantGenerator{signal: -1})).Compute(wavySeries(40), "")
	require.NoError(t, err)

	for _, v := range tbl.MustColumn(strategy.ColSignal) {
		assert.Equal(t, -1.0, v)
	}
	assert.True(t, tbl.Has(indicators.ColRSI))
}
