package reporting

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/Adarshh9/FinSaathi-Datathon/internal/analysis"
	"github.com/Adarshh9/FinSaathi-Datathon/internal/table"
)

// DefaultCSVReporter writes the per-session table of a report
type DefaultCSVReporter struct{}

// NewDefaultCSVReporter creates a new CSV reporter
func NewDefaultCSVReporter() *DefaultCSVReporter {
	return &DefaultCSVReporter{}
}

// Extension implements FileReporter
func (r *DefaultCSVReporter) Extension() string {
	return ".csv"
}

// Write implements FileReporter. The backtest table is preferred because
// it carries the indicator columns too.
func (r *DefaultCSVReporter) Write(report *analysis.Report, path string) error {
	t := report.BacktestTable
	if t == nil {
		t = report.Table
	}
	if t == nil {
		return fmt.Errorf("report for %s has no table", report.Symbol)
	}
	return WriteTableCSV(t, path)
}

// WriteTableCSV writes a Date column followed by every table column.
// Missing values are written as empty cells.
func WriteTableCSV(t *table.Table, path string) error {
	if err := ensureParent(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	names := t.Names()
	if err := w.Write(append([]string{"Date"}, names...)); err != nil {
		return err
	}

	cols := make([][]float64, len(names))
	for i, name := range names {
		cols[i] = t.MustColumn(name)
	}

	row := make([]string, len(names)+1)
	for i, ts := range t.Index() {
		row[0] = ts.Format("2006-01-02")
		for j := range cols {
			v := cols[j][i]
			if isMissing(v) {
				row[j+1] = ""
			} else {
				row[j+1] = strconv.FormatFloat(v, 'f', -1, 64)
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
