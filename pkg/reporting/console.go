package reporting

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Adarshh9/FinSaathi-Datathon/internal/analysis"
)

// DefaultConsoleReporter renders reports as terminal tables
type DefaultConsoleReporter struct {
	out io.Writer
}

// NewDefaultConsoleReporter creates a console reporter writing to out (nil = stdout)
func NewDefaultConsoleReporter(out io.Writer) *DefaultConsoleReporter {
	if out == nil {
		out = os.Stdout
	}
	return &DefaultConsoleReporter{out: out}
}

func (r *DefaultConsoleReporter) newTable(title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle(title)
	t.SetStyle(table.StyleRounded)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 22, Align: text.AlignLeft},
		{Number: 2, WidthMin: 24, Align: text.AlignRight},
	})
	return t
}

// OutputReport prints every section of a report
func (r *DefaultConsoleReporter) OutputReport(report *analysis.Report) {
	r.printOverview(report)
	r.printIndicators(report)
	if report.Simulation != nil {
		r.printSimulation(report)
	}
	if report.Backtest != nil {
		r.printBacktest(report)
	}

	if len(report.Warnings) > 0 {
		fmt.Fprintln(r.out, "⚠️  Warnings:")
		for _, w := range report.Warnings {
			fmt.Fprintf(r.out, "   - %s\n", w)
		}
		fmt.Fprintln(r.out)
	}
	if report.Narrative != "" {
		fmt.Fprintln(r.out, "📝 Narrative")
		fmt.Fprintln(r.out, strings.Repeat("=", 50))
		fmt.Fprintln(r.out, strings.TrimSpace(report.Narrative))
		fmt.Fprintln(r.out)
	}
}

func (r *DefaultConsoleReporter) printOverview(report *analysis.Report) {
	snap := report.Snapshot
	t := r.newTable("📊 ANALYSIS: " + report.Symbol)
	t.AppendRows([]table.Row{
		{"🏪 Provider", report.Provider},
		{"📅 Sessions", fmt.Sprintf("%d (%s → %s)", report.Sessions(),
			report.FirstSession.Format("2006-01-02"), report.LastSession.Format("2006-01-02"))},
		{"💰 Price", fmtMoney(snap.Price)},
		{"📈 Daily Return", fmt.Sprintf("%.2f%%", snap.DailyReturnPct)},
		{"🎯 Signal", fmt.Sprintf("%s (%d)", signalLabel(snap.Signal), snap.Signal)},
	})
	if report.Confidence != nil {
		t.AppendRow(table.Row{"🔎 Confidence", fmtPct(*report.Confidence)})
	}
	t.AppendSeparator()
	t.AppendRow(table.Row{"🆔 Report", report.ID.String()})
	t.Render()
	fmt.Fprintln(r.out)
}

func (r *DefaultConsoleReporter) printIndicators(report *analysis.Report) {
	s := report.Snapshot
	t := r.newTable("📐 INDICATORS")
	t.AppendRows([]table.Row{
		{"50-day MA", fmtMoney(s.SMA50)},
		{"200-day MA", fmtMoney(s.SMA200)},
		{"20-day EMA", fmtMoney(s.EMA20)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"RSI", fmtNum(s.RSI)},
		{"Stochastic %K / %D", fmtNum(s.StochK) + " / " + fmtNum(s.StochD)},
		{"MACD", fmtNum(s.MACD)},
		{"MACD Signal", fmtNum(s.MACDSignal)},
		{"MACD Histogram", fmtNum(s.MACDHist)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"ADX", fmtNum(s.ADX)},
		{"Trend Strength", fmtNum(s.TrendStrength)},
		{"Volatility (ann.)", fmt.Sprintf("%.2f%%", s.VolatilityPct)},
		{"Bollinger Upper", fmtMoney(s.BollingerUpper)},
		{"Bollinger Lower", fmtMoney(s.BollingerLower)},
		{"Bollinger Width", fmtNum(s.BollingerWidth)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Support", fmtMoney(s.Support)},
		{"Resistance", fmtMoney(s.Resistance)},
	})
	t.Render()
	fmt.Fprintln(r.out)
}

func (r *DefaultConsoleReporter) printSimulation(report *analysis.Report) {
	sim := report.Simulation
	t := r.newTable("🎲 MONTE CARLO")
	t.AppendRows([]table.Row{
		{"Paths × Horizon", fmt.Sprintf("%d × %d days", sim.NumPaths, sim.HorizonDays)},
		{"Expected Price", fmtMoney(lastOf(sim.MeanPath))},
		{"95% Interval", fmtMoney(lastOf(sim.Lower95)) + " – " + fmtMoney(lastOf(sim.Upper95))},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"VaR 95%", fmtPct(sim.Risk.VaR95)},
		{"VaR 99%", fmtPct(sim.Risk.VaR99)},
		{"Expected Shortfall", fmtPct(sim.Risk.ExpectedShortfall)},
		{"Expected Return", fmtPct(sim.Risk.ExpectedReturn)},
		{"Return Volatility", fmtPct(sim.Risk.ReturnVolatility)},
	})
	t.Render()
	fmt.Fprintln(r.out)
}

func (r *DefaultConsoleReporter) printBacktest(report *analysis.Report) {
	bt := report.Backtest
	t := r.newTable("🔁 BACKTEST")
	t.AppendRows([]table.Row{
		{"💰 Initial Capital", fmtMoney(bt.InitialCapital)},
		{"💰 Final Value", fmtMoney(bt.FinalPortfolioValue)},
		{"📈 Strategy Return", fmtPct(bt.TotalReturn)},
		{"📈 Market Return", fmtPct(bt.MarketReturn)},
		{"📈 Excess Return", fmtPct(bt.ExcessReturn)},
		{"📊 Sharpe Ratio", fmtNum(bt.SharpeRatio)},
		{"📉 Max Drawdown", fmtPct(bt.MaxDrawdown)},
		{"✅ Win Rate", fmtPct(bt.WinRate)},
	})
	t.Render()
	fmt.Fprintln(r.out)
}

// OutputBatchSummary prints one row per symbol of a batch run
func (r *DefaultConsoleReporter) OutputBatchSummary(results []analysis.BatchResult) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("📋 BATCH SUMMARY")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Symbol", "Price", "Signal", "VaR 95%", "Strategy", "Market", "Status"})

	for _, res := range results {
		if res.Err != nil {
			t.AppendRow(table.Row{res.Symbol, "", "", "", "", "", "❌ " + res.Err.Error()})
			continue
		}
		rep := res.Report
		var95 := "n/a"
		if rep.Simulation != nil {
			var95 = fmtPct(rep.Simulation.Risk.VaR95)
		}
		strat, market := "n/a", "n/a"
		if rep.Backtest != nil {
			strat, market = fmtPct(rep.Backtest.TotalReturn), fmtPct(rep.Backtest.MarketReturn)
		}
		t.AppendRow(table.Row{
			rep.Symbol,
			fmtMoney(rep.Snapshot.Price),
			signalLabel(rep.Snapshot.Signal),
			var95,
			strat,
			market,
			fmt.Sprintf("✅ %s", res.Duration.Round(time.Millisecond)),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, WidthMax: 60},
	})
	t.Render()
	fmt.Fprintln(r.out)
}
