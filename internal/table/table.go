// Package table provides the immutable, time-indexed column store produced by
// the indicator pipeline and consumed by the signal generator and backtester.
package table

import (
	"fmt"
	"sort"
	"time"

	"github.com/Adarshh9/FinSaathi-Datathon/pkg/types"
)

// Base column names carried over from the price series
const (
	ColOpen   = "Open"
	ColHigh   = "High"
	ColLow    = "Low"
	ColClose  = "Close"
	ColVolume = "Volume"
)

// Table is a fixed-length set of named float64 columns sharing one time index.
// It is never modified after construction: accessors return copies and
// Extend returns a new table.
type Table struct {
	symbol  string
	index   []time.Time
	columns map[string][]float64
	order   []string
}

// FromSeries builds a table holding the OHLCV columns of a price series
func FromSeries(s types.PriceSeries) *Table {
	n := s.Len()
	open := make([]float64, n)
	high := make([]float64, n)
	low := make([]float64, n)
	closes := make([]float64, n)
	volume := make([]float64, n)
	for i, b := range s.Bars {
		open[i] = b.Open
		high[i] = b.High
		low[i] = b.Low
		closes[i] = b.Close
		volume[i] = b.Volume
	}

	t := &Table{
		symbol:  s.Symbol,
		index:   s.Timestamps(),
		columns: make(map[string][]float64, 32),
	}
	t.put(ColOpen, open)
	t.put(ColHigh, high)
	t.put(ColLow, low)
	t.put(ColClose, closes)
	t.put(ColVolume, volume)
	return t
}

func (t *Table) put(name string, values []float64) {
	if _, exists := t.columns[name]; !exists {
		t.order = append(t.order, name)
	}
	t.columns[name] = values
}

// Symbol returns the ticker the table was computed for
func (t *Table) Symbol() string {
	return t.symbol
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.index)
}

// Index returns a copy of the time index
func (t *Table) Index() []time.Time {
	out := make([]time.Time, len(t.index))
	copy(out, t.index)
	return out
}

// Names returns the column names in insertion order
func (t *Table) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Has reports whether a column exists
func (t *Table) Has(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// Column returns a copy of the named column
func (t *Table) Column(name string) ([]float64, error) {
	values, ok := t.columns[name]
	if !ok {
		return nil, fmt.Errorf("column %q not found", name)
	}
	out := make([]float64, len(values))
	copy(out, values)
	return out, nil
}

// MustColumn is Column for names the caller knows are present
func (t *Table) MustColumn(name string) []float64 {
	values, err := t.Column(name)
	if err != nil {
		panic(err)
	}
	return values
}

// Value returns a single cell
func (t *Table) Value(name string, row int) (float64, error) {
	values, ok := t.columns[name]
	if !ok {
		return 0, fmt.Errorf("column %q not found", name)
	}
	if row < 0 || row >= len(values) {
		return 0, fmt.Errorf("row %d out of range [0,%d)", row, len(values))
	}
	return values[row], nil
}

// Latest returns the last row of every column keyed by name
func (t *Table) Latest() map[string]float64 {
	out := make(map[string]float64, len(t.columns))
	if t.Len() == 0 {
		return out
	}
	last := t.Len() - 1
	for name, values := range t.columns {
		out[name] = values[last]
	}
	return out
}

// Extend returns a new table with the given columns added or replaced.
// Every column must match the table length. New columns are appended in
// sorted name order; use ExtendOrdered to control placement.
func (t *Table) Extend(cols map[string][]float64) (*Table, error) {
	names := make([]string, 0, len(cols))
	for name := range cols {
		names = append(names, name)
	}
	sort.Strings(names)
	return t.ExtendOrdered(names, cols)
}

// ExtendOrdered is Extend with an explicit column order
func (t *Table) ExtendOrdered(names []string, cols map[string][]float64) (*Table, error) {
	for _, name := range names {
		values, ok := cols[name]
		if !ok {
			return nil, fmt.Errorf("column %q listed but not supplied", name)
		}
		if len(values) != t.Len() {
			return nil, fmt.Errorf("column %q has length %d, table has %d rows", name, len(values), t.Len())
		}
	}

	out := t.Clone()
	for _, name := range names {
		values := make([]float64, len(cols[name]))
		copy(values, cols[name])
		out.put(name, values)
	}
	return out, nil
}

// Map returns a new table with fn applied to every column, OHLCV included
func (t *Table) Map(fn func(name string, values []float64) []float64) *Table {
	out := t.Clone()
	for _, name := range out.order {
		out.columns[name] = fn(name, out.columns[name])
	}
	return out
}

// Clone returns a deep copy
func (t *Table) Clone() *Table {
	out := &Table{
		symbol:  t.symbol,
		index:   t.Index(),
		columns: make(map[string][]float64, len(t.columns)),
		order:   t.Names(),
	}
	for name, values := range t.columns {
		cp := make([]float64, len(values))
		copy(cp, values)
		out.columns[name] = cp
	}
	return out
}

