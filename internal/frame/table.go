// Package frame provides the columnar feature table the pipeline
// stages pass between each other. Tables are immutable: every
// transform returns a new Table and never writes through shared
// column storage.
package frame

import (
	"fmt"
	"time"

	"github.com/quantware/finfeat/internal/core"
)

// Column is a nullable float64 vector. A nil validity mask means every
// cell is valid. Null (valid=false) marks semantic undefinedness, e.g.
// an SMA warm-up row; degenerate values such as ±Inf stay valid so
// consumers can tell "no value" from "bad value".
type Column struct {
	values []float64
	valid  []bool
}

// NewColumn builds a column from values and an optional validity mask.
func NewColumn(values []float64, valid []bool) Column {
	return Column{values: values, valid: valid}
}

// Len returns the number of cells.
func (c Column) Len() int { return len(c.values) }

// Value returns the cell value and whether it is defined.
func (c Column) Value(i int) (float64, bool) {
	if c.valid != nil && !c.valid[i] {
		return 0, false
	}
	return c.values[i], true
}

// Valid reports whether cell i is defined.
func (c Column) Valid(i int) bool {
	return c.valid == nil || c.valid[i]
}

// Values exposes the raw backing slice. Callers must treat it as
// read-only; engines use it to avoid per-cell indirection on fully
// valid source columns.
func (c Column) Values() []float64 { return c.values }

// Partition is a contiguous per-ticker row range [Start, End).
type Partition struct {
	Ticker string
	Start  int
	End    int
}

// Len returns the number of rows in the partition.
func (p Partition) Len() int { return p.End - p.Start }

// Table is the feature table: a (ticker, timestamp) row identity plus
// named float columns. Rows are ordered by ticker then timestamp.
type Table struct {
	tickers    []string
	timestamps []time.Time
	names      []string
	cols       map[string]Column
}

// New creates a table from its row identity. The two slices must have
// equal length; the table takes ownership of both.
func New(tickers []string, timestamps []time.Time) (*Table, error) {
	if len(tickers) != len(timestamps) {
		return nil, core.WrapError(core.ErrFormat,
			fmt.Errorf("row identity mismatch: %d tickers vs %d timestamps", len(tickers), len(timestamps)))
	}
	return &Table{
		tickers:    tickers,
		timestamps: timestamps,
		cols:       make(map[string]Column),
	}, nil
}

// FromBars creates a table with the standard OHLCV columns from bars
// already ordered by (ticker, timestamp).
func FromBars(bars []core.Bar) *Table {
	n := len(bars)
	tickers := make([]string, n)
	timestamps := make([]time.Time, n)
	open := make([]float64, n)
	high := make([]float64, n)
	low := make([]float64, n)
	closes := make([]float64, n)
	vol := make([]float64, n)
	for i, b := range bars {
		tickers[i] = b.Ticker
		timestamps[i] = b.Timestamp
		open[i] = b.Open
		high[i] = b.High
		low[i] = b.Low
		closes[i] = b.Close
		vol[i] = b.Volume
	}
	t := &Table{
		tickers:    tickers,
		timestamps: timestamps,
		names:      []string{core.ColOpen, core.ColHigh, core.ColLow, core.ColClose, core.ColVolume},
		cols: map[string]Column{
			core.ColOpen:   {values: open},
			core.ColHigh:   {values: high},
			core.ColLow:    {values: low},
			core.ColClose:  {values: closes},
			core.ColVolume: {values: vol},
		},
	}
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.tickers) }

// Ticker returns the ticker of row i.
func (t *Table) Ticker(i int) string { return t.tickers[i] }

// Timestamp returns the timestamp of row i.
func (t *Table) Timestamp(i int) time.Time { return t.timestamps[i] }

// Columns returns the column names in attachment order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// HasColumn reports whether a column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.cols[name]
	return ok
}

// Column returns a column by name.
func (t *Table) Column(name string) (Column, bool) {
	c, ok := t.cols[name]
	return c, ok
}

// Float returns cell (name, i) and whether it is defined.
func (t *Table) Float(name string, i int) (float64, bool) {
	c, ok := t.cols[name]
	if !ok {
		return 0, false
	}
	return c.Value(i)
}

// WithColumn returns a new table with the column appended. The
// receiver is left untouched; untouched columns are shared.
func (t *Table) WithColumn(name string, c Column) (*Table, error) {
	if c.Len() != t.Len() {
		return nil, core.WrapError(core.ErrFormat,
			fmt.Errorf("column %s has %d cells, table has %d rows", name, c.Len(), t.Len()))
	}
	if _, exists := t.cols[name]; exists {
		return nil, core.WrapError(core.ErrFormat,
			fmt.Errorf("column %s already exists", name))
	}
	next := &Table{
		tickers:    t.tickers,
		timestamps: t.timestamps,
		names:      append(append(make([]string, 0, len(t.names)+1), t.names...), name),
		cols:       make(map[string]Column, len(t.cols)+1),
	}
	for k, v := range t.cols {
		next.cols[k] = v
	}
	next.cols[name] = c
	return next, nil
}

// Filter returns a new table containing only rows where keep is true.
// Relative row order is preserved; this is the only kind of row change
// any stage performs.
func (t *Table) Filter(keep []bool) *Table {
	n := 0
	for _, k := range keep {
		if k {
			n++
		}
	}
	next := &Table{
		tickers:    make([]string, 0, n),
		timestamps: make([]time.Time, 0, n),
		names:      append(make([]string, 0, len(t.names)), t.names...),
		cols:       make(map[string]Column, len(t.cols)),
	}
	idx := make([]int, 0, n)
	for i, k := range keep {
		if !k {
			continue
		}
		idx = append(idx, i)
		next.tickers = append(next.tickers, t.tickers[i])
		next.timestamps = append(next.timestamps, t.timestamps[i])
	}
	for name, c := range t.cols {
		values := make([]float64, len(idx))
		var valid []bool
		if c.valid != nil {
			valid = make([]bool, len(idx))
		}
		for j, i := range idx {
			values[j] = c.values[i]
			if valid != nil {
				valid[j] = c.valid[i]
			}
		}
		next.cols[name] = Column{values: values, valid: valid}
	}
	return next
}

// Partitions returns the contiguous per-ticker row ranges in row
// order. The table must already be ticker-sorted, which ingestion
// guarantees.
func (t *Table) Partitions() []Partition {
	var parts []Partition
	n := t.Len()
	for start := 0; start < n; {
		end := start + 1
		for end < n && t.tickers[end] == t.tickers[start] {
			end++
		}
		parts = append(parts, Partition{Ticker: t.tickers[start], Start: start, End: end})
		start = end
	}
	return parts
}
