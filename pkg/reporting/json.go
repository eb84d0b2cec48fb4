package reporting

import (
	"encoding/json"
	"math"
	"os"
	"time"

	"github.com/Adarshh9/FinSaathi-Datathon/internal/analysis"
)

// Float marshals NaN and ±Inf as null
type Float float64

// MarshalJSON implements json.Marshaler
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

func floats(values []float64) []Float {
	out := make([]Float, len(values))
	for i, v := range values {
		out[i] = Float(v)
	}
	return out
}

// ReportDocument is the JSON form of an analysis report
type ReportDocument struct {
	ID           string              `json:"id"`
	Symbol       string              `json:"symbol"`
	Period       string              `json:"period"`
	Provider     string              `json:"provider"`
	GeneratedAt  time.Time           `json:"generated_at"`
	DurationMS   int64               `json:"duration_ms"`
	Sessions     int                 `json:"sessions"`
	FirstSession time.Time           `json:"first_session"`
	LastSession  time.Time           `json:"last_session"`
	Snapshot     SnapshotDocument    `json:"snapshot"`
	Simulation   *SimulationDocument `json:"simulation,omitempty"`
	Backtest     *BacktestDocument   `json:"backtest,omitempty"`
	Narrative    string              `json:"narrative,omitempty"`
	Confidence   *Float              `json:"confidence,omitempty"`
	Warnings     []string            `json:"warnings,omitempty"`
}

// SnapshotDocument holds the latest indicator values
type SnapshotDocument struct {
	Price          Float  `json:"price"`
	Volume         Float  `json:"volume"`
	DailyReturnPct Float  `json:"daily_return_pct"`
	VolatilityPct  Float  `json:"volatility_pct"`
	TrendStrength  Float  `json:"trend_strength"`
	ADX            Float  `json:"adx"`
	BollingerWidth Float  `json:"bb_width"`
	SMA50          Float  `json:"sma_50"`
	SMA200         Float  `json:"sma_200"`
	EMA20          Float  `json:"ema_20"`
	RSI            Float  `json:"rsi"`
	StochK         Float  `json:"stoch_k"`
	StochD         Float  `json:"stoch_d"`
	MACD           Float  `json:"macd"`
	MACDSignal     Float  `json:"macd_signal"`
	MACDHist       Float  `json:"macd_hist"`
	BollingerUpper Float  `json:"bb_upper"`
	BollingerLower Float  `json:"bb_lower"`
	Support        Float  `json:"support"`
	Resistance     Float  `json:"resistance"`
	Signal         int    `json:"signal"`
	Action         string `json:"action"`
}

// SimulationDocument holds the Monte Carlo envelope and risk metrics
type SimulationDocument struct {
	NumPaths          int     `json:"num_paths"`
	HorizonDays       int     `json:"horizon_days"`
	Seed              uint64  `json:"seed"`
	Drift             Float   `json:"drift"`
	Dispersion        Float   `json:"dispersion"`
	LastPrice         Float   `json:"last_price"`
	MeanPath          []Float `json:"mean_path"`
	Upper95           []Float `json:"upper_95"`
	Lower95           []Float `json:"lower_95"`
	MaxPath           []Float `json:"max_path"`
	MinPath           []Float `json:"min_path"`
	VaR95             Float   `json:"var_95"`
	VaR99             Float   `json:"var_99"`
	ExpectedShortfall Float   `json:"expected_shortfall"`
	ExpectedReturn    Float   `json:"expected_return"`
	ReturnVolatility  Float   `json:"return_volatility"`
}

// BacktestDocument holds the backtest performance metrics
type BacktestDocument struct {
	TotalReturn         Float `json:"total_return"`
	MarketReturn        Float `json:"market_return"`
	ExcessReturn        Float `json:"excess_return"`
	SharpeRatio         Float `json:"sharpe_ratio"`
	MaxDrawdown         Float `json:"max_drawdown"`
	WinRate             Float `json:"win_rate"`
	FinalPortfolioValue Float `json:"final_portfolio_value"`
	InitialCapital      Float `json:"initial_capital"`
	TradingDays         int   `json:"trading_days"`
}

// NewReportDocument converts a report into its JSON form
func NewReportDocument(r *analysis.Report) ReportDocument {
	s := r.Snapshot
	doc := ReportDocument{
		ID:           r.ID.String(),
		Symbol:       r.Symbol,
		Period:       r.Period,
		Provider:     r.Provider,
		GeneratedAt:  r.GeneratedAt,
		DurationMS:   r.Duration.Milliseconds(),
		Sessions:     r.Sessions(),
		FirstSession: r.FirstSession,
		LastSession:  r.LastSession,
		Snapshot: SnapshotDocument{
			Price:          Float(s.Price),
			Volume:         Float(s.Volume),
			DailyReturnPct: Float(s.DailyReturnPct),
			VolatilityPct:  Float(s.VolatilityPct),
			TrendStrength:  Float(s.TrendStrength),
			ADX:            Float(s.ADX),
			BollingerWidth: Float(s.BollingerWidth),
			SMA50:          Float(s.SMA50),
			SMA200:         Float(s.SMA200),
			EMA20:          Float(s.EMA20),
			RSI:            Float(s.RSI),
			StochK:         Float(s.StochK),
			StochD:         Float(s.StochD),
			MACD:           Float(s.MACD),
			MACDSignal:     Float(s.MACDSignal),
			MACDHist:       Float(s.MACDHist),
			BollingerUpper: Float(s.BollingerUpper),
			BollingerLower: Float(s.BollingerLower),
			Support:        Float(s.Support),
			Resistance:     Float(s.Resistance),
			Signal:         s.Signal,
			Action:         s.Action,
		},
		Narrative: r.Narrative,
		Warnings:  r.Warnings,
	}

	if sim := r.Simulation; sim != nil {
		doc.Simulation = &SimulationDocument{
			NumPaths:          sim.NumPaths,
			HorizonDays:       sim.HorizonDays,
			Seed:              sim.Seed,
			Drift:             Float(sim.Drift),
			Dispersion:        Float(sim.Dispersion),
			LastPrice:         Float(sim.LastPrice),
			MeanPath:          floats(sim.MeanPath),
			Upper95:           floats(sim.Upper95),
			Lower95:           floats(sim.Lower95),
			MaxPath:           floats(sim.MaxPath),
			MinPath:           floats(sim.MinPath),
			VaR95:             Float(sim.Risk.VaR95),
			VaR99:             Float(sim.Risk.VaR99),
			ExpectedShortfall: Float(sim.Risk.ExpectedShortfall),
			ExpectedReturn:    Float(sim.Risk.ExpectedReturn),
			ReturnVolatility:  Float(sim.Risk.ReturnVolatility),
		}
	}
	if bt := r.Backtest; bt != nil {
		doc.Backtest = &BacktestDocument{
			TotalReturn:         Float(bt.TotalReturn),
			MarketReturn:        Float(bt.MarketReturn),
			ExcessReturn:        Float(bt.ExcessReturn),
			SharpeRatio:         Float(bt.SharpeRatio),
			MaxDrawdown:         Float(bt.MaxDrawdown),
			WinRate:             Float(bt.WinRate),
			FinalPortfolioValue: Float(bt.FinalPortfolioValue),
			InitialCapital:      Float(bt.InitialCapital),
			TradingDays:         bt.TradingDays,
		}
	}
	if r.Confidence != nil {
		c := Float(*r.Confidence)
		doc.Confidence = &c
	}
	return doc
}

// DefaultJSONFormatter writes reports as indented JSON
type DefaultJSONFormatter struct{}

// NewDefaultJSONFormatter creates a new JSON formatter
func NewDefaultJSONFormatter() *DefaultJSONFormatter {
	return &DefaultJSONFormatter{}
}

// Format returns the indented JSON form of a report
func (f *DefaultJSONFormatter) Format(report *analysis.Report) ([]byte, error) {
	return json.MarshalIndent(NewReportDocument(report), "", "  ")
}

// Extension implements FileReporter
func (f *DefaultJSONFormatter) Extension() string {
	return ".json"
}

// Write implements FileReporter
func (f *DefaultJSONFormatter) Write(report *analysis.Report, path string) error {
	data, err := f.Format(report)
	if err != nil {
		return err
	}
	if err := ensureParent(path); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
