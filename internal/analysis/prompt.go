package analysis

import (
	"fmt"
	"math"
	"strings"
	"text/template"
)

var promptFuncs = template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("$%.2f", v) },
	"num":   func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"pct":   func(v float64) string { return fmt.Sprintf("%.2f%%", v*100) },
	"vol":   formatVolume,
	"last": func(values []float64) float64 {
		if len(values) == 0 {
			return math.NaN()
		}
		return values[len(values)-1]
	},
}

const promptText = `Comprehensive Technical Analysis for {{.Symbol}}
{{with .Snapshot}}
Price Metrics:
- Current Price: {{money .Price}}
- Daily Return: {{num .DailyReturnPct}}%
- Volume: {{vol .Volume}}

Moving Averages:
- 50-day MA: {{money .SMA50}}
- 200-day MA: {{money .SMA200}}
- 20-day EMA: {{money .EMA20}}

Momentum Indicators:
- RSI: {{num .RSI}}
- Stochastic K: {{num .StochK}}
- Stochastic D: {{num .StochD}}

Trend Indicators:
- MACD: {{num .MACD}}
- MACD Signal: {{num .MACDSignal}}
- MACD Histogram: {{num .MACDHist}}
- ADX: {{num .ADX}}
- Trend Strength: {{num .TrendStrength}}

Volatility Metrics:
- Current Volatility: {{num .VolatilityPct}}%
- Bollinger Width: {{num .BollingerWidth}}
- Upper BB: {{money .BollingerUpper}}
- Lower BB: {{money .BollingerLower}}

Levels:
- Support: {{money .Support}}
- Resistance: {{money .Resistance}}
- Composite Signal: {{.Signal}} ({{.Action}})
{{end}}
{{- with .Simulation}}
Monte Carlo Simulation Results:
- Expected Price ({{.HorizonDays}} days): {{money (last .MeanPath)}}
- 95% Confidence Interval: {{money (last .Lower95)}} to {{money (last .Upper95)}}

Risk Metrics:
- 95% VaR: {{pct .Risk.VaR95}}
- 99% VaR: {{pct .Risk.VaR99}}
- Expected Shortfall: {{pct .Risk.ExpectedShortfall}}
- Expected Return: {{pct .Risk.ExpectedReturn}}
- Return Volatility: {{pct .Risk.ReturnVolatility}}
{{end}}
{{- with .Backtest}}
Backtesting Results:
- Total Strategy Return: {{pct .TotalReturn}}
- Market Return: {{pct .MarketReturn}}
- Excess Return: {{pct .ExcessReturn}}
- Sharpe Ratio: {{num .SharpeRatio}}
- Maximum Drawdown: {{pct .MaxDrawdown}}
- Win Rate: {{pct .WinRate}}
{{end}}
Please provide a comprehensive analysis including:
1. Overall Trend Analysis and Strength
2. Momentum Analysis (RSI, Stochastic, MACD)
3. Volatility Assessment and Risk Levels
4. Monte Carlo Simulation Insights and Risk Metrics
5. Backtesting Performance Analysis
6. Support/Resistance Levels and Potential Breakouts
7. Short-term and Medium-term Technical Outlook
8. Trading Strategy Recommendations
`

var promptTemplate = template.Must(template.New("prompt").Funcs(promptFuncs).Parse(promptText))

// BuildPrompt renders the report as the plain-text payload handed to a
// narrative model. Sections for stages that did not run are omitted.
func BuildPrompt(report *Report) (string, error) {
	if report == nil {
		return "", fmt.Errorf("nil report")
	}
	var b strings.Builder
	if err := promptTemplate.Execute(&b, report); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return b.String(), nil
}

// formatVolume prints an integer volume with thousands separators
func formatVolume(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	s := fmt.Sprintf("%.0f", math.Abs(v))
	var out []byte
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if v < 0 {
		return "-" + string(out)
	}
	return string(out)
}
