package reporting

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Adarshh9/FinSaathi-Datathon/internal/analysis"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/table"
)

const (
	summarySheet    = "Summary"
	indicatorsSheet = "Indicators"
	simulationSheet = "Simulation"
	backtestSheet   = "Backtest"
)

// DefaultExcelReporter writes reports as xlsx workbooks
type DefaultExcelReporter struct{}

// NewDefaultExcelReporter creates a new Excel reporter
func NewDefaultExcelReporter() *DefaultExcelReporter {
	return &DefaultExcelReporter{}
}

// Extension implements FileReporter
func (r *DefaultExcelReporter) Extension() string {
	return ".xlsx"
}

// Write implements FileReporter. The workbook has a Summary sheet, the
// indicator table, the simulation envelope (when present) and the backtest
// table (when present).
func (r *DefaultExcelReporter) Write(report *analysis.Report, path string) error {
	if err := ensureParent(path); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	fx := excelize.NewFile()
	defer fx.Close()

	if err := fx.SetSheetName(fx.GetSheetName(0), summarySheet); err != nil {
		return err
	}
	styles, err := r.createExcelStyles(fx)
	if err != nil {
		return err
	}

	if err := r.writeSummarySheet(fx, report, styles); err != nil {
		return err
	}
	if report.Table != nil {
		if _, err := fx.NewSheet(indicatorsSheet); err != nil {
			return err
		}
		if err := r.writeTableSheet(fx, indicatorsSheet, report.Table, styles); err != nil {
			return err
		}
	}
	if report.Simulation != nil {
		if _, err := fx.NewSheet(simulationSheet); err != nil {
			return err
		}
		if err := r.writeSimulationSheet(fx, report, styles); err != nil {
			return err
		}
	}
	if report.BacktestTable != nil {
		if _, err := fx.NewSheet(backtestSheet); err != nil {
			return err
		}
		if err := r.writeTableSheet(fx, backtestSheet, report.BacktestTable, styles); err != nil {
			return err
		}
	}

	fx.SetActiveSheet(0)
	return fx.SaveAs(path)
}

var thinBorder = []excelize.Border{
	{Type: "left", Color: "E0E0E0", Style: 1},
	{Type: "right", Color: "E0E0E0", Style: 1},
	{Type: "bottom", Color: "E0E0E0", Style: 1},
}

func (r *DefaultExcelReporter) createExcelStyles(fx *excelize.File) (ExcelStyles, error) {
	var styles ExcelStyles
	specs := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&styles.HeaderStyle, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF", Family: "Calibri"},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"2F4F4F"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
			Border: []excelize.Border{
				{Type: "left", Color: "000000", Style: 1},
				{Type: "right", Color: "000000", Style: 1},
				{Type: "top", Color: "000000", Style: 1},
				{Type: "bottom", Color: "000000", Style: 1},
			},
		}},
		{&styles.TitleStyle, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF", Family: "Calibri"},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
		}},
		{&styles.LabelStyle, &excelize.Style{Font: &excelize.Font{Bold: true}, Border: thinBorder}},
		{&styles.NumberStyle, &excelize.Style{NumFmt: 4, Alignment: &excelize.Alignment{Horizontal: "right"}, Border: thinBorder}},
		{&styles.CurrencyStyle, &excelize.Style{NumFmt: 7, Alignment: &excelize.Alignment{Horizontal: "right"}, Border: thinBorder}},
		{&styles.PercentStyle, &excelize.Style{NumFmt: 10, Alignment: &excelize.Alignment{Horizontal: "right"}, Border: thinBorder}},
		{&styles.RedPercentStyle, &excelize.Style{NumFmt: 10, Font: &excelize.Font{Color: "FF0000"}, Alignment: &excelize.Alignment{Horizontal: "right"}, Border: thinBorder}},
		{&styles.GreenPercentStyle, &excelize.Style{NumFmt: 10, Font: &excelize.Font{Color: "008000"}, Alignment: &excelize.Alignment{Horizontal: "right"}, Border: thinBorder}},
		{&styles.DateStyle, &excelize.Style{NumFmt: 14, Border: thinBorder}},
		{&styles.BaseStyle, &excelize.Style{Border: thinBorder}},
	}
	for _, s := range specs {
		id, err := fx.NewStyle(s.style)
		if err != nil {
			return styles, err
		}
		*s.dst = id
	}
	return styles, nil
}

type summaryRow struct {
	label string
	value interface{}
	style int
}

func (r *DefaultExcelReporter) percentStyle(v float64, styles ExcelStyles) int {
	switch {
	case isMissing(v):
		return styles.BaseStyle
	case v < 0:
		return styles.RedPercentStyle
	case v > 0:
		return styles.GreenPercentStyle
	default:
		return styles.PercentStyle
	}
}

func (r *DefaultExcelReporter) writeSummarySheet(fx *excelize.File, report *analysis.Report, styles ExcelStyles) error {
	sheet := summarySheet
	fx.SetColWidth(sheet, "A", "A", 24)
	fx.SetColWidth(sheet, "B", "B", 40)

	s := report.Snapshot
	sections := []struct {
		title string
		rows  []summaryRow
	}{
		{"Overview", []summaryRow{
			{"Symbol", report.Symbol, styles.BaseStyle},
			{"Provider", report.Provider, styles.BaseStyle},
			{"Period", report.Period, styles.BaseStyle},
			{"Sessions", report.Sessions(), styles.BaseStyle},
			{"First Session", report.FirstSession, styles.DateStyle},
			{"Last Session", report.LastSession, styles.DateStyle},
			{"Report ID", report.ID.String(), styles.BaseStyle},
		}},
		{"Latest Values", []summaryRow{
			{"Price", s.Price, styles.CurrencyStyle},
			{"Volume", s.Volume, styles.NumberStyle},
			{"Daily Return", s.DailyReturnPct / 100, r.percentStyle(s.DailyReturnPct, styles)},
			{"Volatility (ann.)", s.VolatilityPct / 100, styles.PercentStyle},
			{"50-day MA", s.SMA50, styles.CurrencyStyle},
			{"200-day MA", s.SMA200, styles.CurrencyStyle},
			{"20-day EMA", s.EMA20, styles.CurrencyStyle},
			{"RSI", s.RSI, styles.NumberStyle},
			{"Stochastic %K", s.StochK, styles.NumberStyle},
			{"Stochastic %D", s.StochD, styles.NumberStyle},
			{"MACD", s.MACD, styles.NumberStyle},
			{"MACD Signal", s.MACDSignal, styles.NumberStyle},
			{"MACD Histogram", s.MACDHist, styles.NumberStyle},
			{"ADX", s.ADX, styles.NumberStyle},
			{"Trend Strength", s.TrendStrength, styles.NumberStyle},
			{"Bollinger Upper", s.BollingerUpper, styles.CurrencyStyle},
			{"Bollinger Lower", s.BollingerLower, styles.CurrencyStyle},
			{"Bollinger Width", s.BollingerWidth, styles.NumberStyle},
			{"Support", s.Support, styles.CurrencyStyle},
			{"Resistance", s.Resistance, styles.CurrencyStyle},
			{"Signal", s.Signal, styles.BaseStyle},
			{"Action", s.Action, styles.BaseStyle},
		}},
	}
	if sim := report.Simulation; sim != nil {
		sections = append(sections, struct {
			title string
			rows  []summaryRow
		}{"Monte Carlo", []summaryRow{
			{"Paths", sim.NumPaths, styles.BaseStyle},
			{"Horizon (days)", sim.HorizonDays, styles.BaseStyle},
			{"Expected Price", lastOf(sim.MeanPath), styles.CurrencyStyle},
			{"Lower 95%", lastOf(sim.Lower95), styles.CurrencyStyle},
			{"Upper 95%", lastOf(sim.Upper95), styles.CurrencyStyle},
			{"VaR 95%", sim.Risk.VaR95, r.percentStyle(sim.Risk.VaR95, styles)},
			{"VaR 99%", sim.Risk.VaR99, r.percentStyle(sim.Risk.VaR99, styles)},
			{"Expected Shortfall", sim.Risk.ExpectedShortfall, r.percentStyle(sim.Risk.ExpectedShortfall, styles)},
			{"Expected Return", sim.Risk.ExpectedReturn, r.percentStyle(sim.Risk.ExpectedReturn, styles)},
			{"Return Volatility", sim.Risk.ReturnVolatility, styles.PercentStyle},
		}})
	}
	if bt := report.Backtest; bt != nil {
		sections = append(sections, struct {
			title string
			rows  []summaryRow
		}{"Backtest", []summaryRow{
			{"Initial Capital", bt.InitialCapital, styles.CurrencyStyle},
			{"Final Value", bt.FinalPortfolioValue, styles.CurrencyStyle},
			{"Strategy Return", bt.TotalReturn, r.percentStyle(bt.TotalReturn, styles)},
			{"Market Return", bt.MarketReturn, r.percentStyle(bt.MarketReturn, styles)},
			{"Excess Return", bt.ExcessReturn, r.percentStyle(bt.ExcessReturn, styles)},
			{"Sharpe Ratio", bt.SharpeRatio, styles.NumberStyle},
			{"Max Drawdown", bt.MaxDrawdown, r.percentStyle(bt.MaxDrawdown, styles)},
			{"Win Rate", bt.WinRate, styles.PercentStyle},
		}})
	}

	row := 1
	for _, sec := range sections {
		title, _ := excelize.CoordinatesToCellName(1, row)
		end, _ := excelize.CoordinatesToCellName(2, row)
		fx.SetCellValue(sheet, title, sec.title)
		fx.SetCellStyle(sheet, title, end, styles.TitleStyle)
		row++

		for _, item := range sec.rows {
			label, _ := excelize.CoordinatesToCellName(1, row)
			value, _ := excelize.CoordinatesToCellName(2, row)
			fx.SetCellValue(sheet, label, item.label)
			fx.SetCellStyle(sheet, label, label, styles.LabelStyle)
			if f, ok := item.value.(float64); !ok || !isMissing(f) {
				fx.SetCellValue(sheet, value, item.value)
			}
			fx.SetCellStyle(sheet, value, value, item.style)
			row++
		}
		row++
	}

	if len(report.Warnings) > 0 {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		end, _ := excelize.CoordinatesToCellName(2, row)
		fx.SetCellValue(sheet, cell, "Warnings")
		fx.SetCellStyle(sheet, cell, end, styles.TitleStyle)
		for _, w := range report.Warnings {
			row++
			cell, _ = excelize.CoordinatesToCellName(1, row)
			fx.SetCellValue(sheet, cell, w)
		}
	}
	return nil
}

// writeTableSheet writes a Date column followed by every table column
func (r *DefaultExcelReporter) writeTableSheet(fx *excelize.File, sheet string, t *table.Table, styles ExcelStyles) error {
	names := t.Names()
	headers := append([]string{"Date"}, names...)
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		fx.SetCellValue(sheet, cell, h)
		fx.SetCellStyle(sheet, cell, cell, styles.HeaderStyle)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	fx.SetColWidth(sheet, "A", "A", 12)
	fx.SetColWidth(sheet, "B", lastCol, 14)

	cols := make([][]float64, len(names))
	for i, name := range names {
		cols[i] = t.MustColumn(name)
	}

	for i, ts := range t.Index() {
		values := make([]interface{}, len(headers))
		values[0] = ts
		for j := range cols {
			if v := cols[j][i]; !isMissing(v) {
				values[j+1] = v
			}
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := fx.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}

	if n := t.Len(); n > 0 {
		first, _ := excelize.CoordinatesToCellName(1, 2)
		last, _ := excelize.CoordinatesToCellName(1, n+1)
		fx.SetCellStyle(sheet, first, last, styles.DateStyle)
	}
	return fx.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func (r *DefaultExcelReporter) writeSimulationSheet(fx *excelize.File, report *analysis.Report, styles ExcelStyles) error {
	sheet := simulationSheet
	sim := report.Simulation
	headers := []string{"Day", "Mean", "Lower 95%", "Upper 95%", "Min", "Max"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		fx.SetCellValue(sheet, cell, h)
		fx.SetCellStyle(sheet, cell, cell, styles.HeaderStyle)
	}
	fx.SetColWidth(sheet, "A", "A", 8)
	fx.SetColWidth(sheet, "B", "F", 14)

	for d := range sim.MeanPath {
		values := []interface{}{d, sim.MeanPath[d], sim.Lower95[d], sim.Upper95[d], sim.MinPath[d], sim.MaxPath[d]}
		cell, _ := excelize.CoordinatesToCellName(1, d+2)
		if err := fx.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	if n := len(sim.MeanPath); n > 0 {
		last, _ := excelize.CoordinatesToCellName(6, n+1)
		fx.SetCellStyle(sheet, "B2", last, styles.CurrencyStyle)
	}
	return nil
}
