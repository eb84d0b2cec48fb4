package analysis

import (
	"github.com/Adarshh9/FinSaathi-Datathon/internal/indicators"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/strategy"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/table"
)

// Snapshot holds the latest value of every headline indicator. Returns and
// volatility are expressed in percent.
type Snapshot struct {
	Price          float64 `json:"price"`
	Volume         float64 `json:"volume"`
	DailyReturnPct float64 `json:"daily_return_pct"`
	VolatilityPct  float64 `json:"volatility_pct"`
	TrendStrength  float64 `json:"trend_strength"`
	ADX            float64 `json:"adx"`
	BollingerWidth float64 `json:"bb_width"`
	SMA50          float64 `json:"sma_50"`
	SMA200         float64 `json:"sma_200"`
	EMA20          float64 `json:"ema_20"`
	RSI            float64 `json:"rsi"`
	StochK         float64 `json:"stoch_k"`
	StochD         float64 `json:"stoch_d"`
	MACD           float64 `json:"macd"`
	MACDSignal     float64 `json:"macd_signal"`
	MACDHist       float64 `json:"macd_hist"`
	BollingerUpper float64 `json:"bb_upper"`
	BollingerLower float64 `json:"bb_lower"`
	Support        float64 `json:"support"`
	Resistance     float64 `json:"resistance"`
	Signal         int     `json:"signal"`
	Action         string  `json:"action"`
}

// NewSnapshot reads the last row of an indicator table. Columns the table
// lacks read as zero.
func NewSnapshot(t *table.Table) Snapshot {
	latest := t.Latest()
	signal := int(latest[strategy.ColSignal])
	return Snapshot{
		Price:          latest[table.ColClose],
		Volume:         latest[table.ColVolume],
		DailyReturnPct: latest[indicators.ColDailyReturn] * 100,
		VolatilityPct:  latest[indicators.ColVolatility] * 100,
		TrendStrength:  latest[indicators.ColTrendStrength],
		ADX:            latest[indicators.ColADX],
		BollingerWidth: latest[indicators.ColBBWidth],
		SMA50:          latest[indicators.ColSMA50],
		SMA200:         latest[indicators.ColSMA200],
		EMA20:          latest[indicators.ColEMA20],
		RSI:            latest[indicators.ColRSI],
		StochK:         latest[indicators.ColStochK],
		StochD:         latest[indicators.ColStochD],
		MACD:           latest[indicators.ColMACD],
		MACDSignal:     latest[indicators.ColMACDSignal],
		MACDHist:       latest[indicators.ColMACDHist],
		BollingerUpper: latest[indicators.ColBBUpper],
		BollingerLower: latest[indicators.ColBBLower],
		Support:        latest[indicators.ColSupport],
		Resistance:     latest[indicators.ColResistance],
		Signal:         signal,
		Action:         strategy.ActionOf(signal).String(),
	}
}
