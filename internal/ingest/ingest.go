// Package ingest builds the clean bar table from raw records:
// timestamp normalization, per-ticker history thresholding, ordering,
// and strict fixed-cadence contiguity filtering.
package ingest

import (
	"fmt"
	"sort"
	"time"

	"github.com/quantware/finfeat/internal/core"
	"github.com/quantware/finfeat/internal/frame"
)

const timestampLayout = "20060102 150405"

// Options controls the ingestion policies. Zero values fall back to
// the defaults below.
type Options struct {
	// MinSamplesPerTicker keeps only tickers with strictly more raw
	// rows than this threshold. Default 1000.
	MinSamplesPerTicker int

	// Cadence is the exact timestamp delta required between
	// consecutive bars of a ticker. Default 5 minutes.
	Cadence time.Duration
}

func (o Options) withDefaults() Options {
	if o.MinSamplesPerTicker == 0 {
		o.MinSamplesPerTicker = 1000
	}
	if o.Cadence == 0 {
		o.Cadence = 5 * time.Minute
	}
	return o
}

// Report summarizes what ingestion kept and dropped. Exclusions are
// policy, not errors; the report is how they stay observable.
type Report struct {
	RawRows         int // rows received
	ExcludedTickers int // tickers at or below the sample threshold
	DroppedRows     int // bars removed by the contiguity filter
	Tickers         int // tickers surviving all filters
	Rows            int // bars in the output table
}

// Build materializes the clean bar table from raw records.
//
// Steps: parse DATE+TIME into one timestamp (any failure is fatal),
// drop tickers whose row count does not strictly exceed the threshold,
// stable-sort by (ticker, timestamp), then keep only bars whose delta
// to the previous same-ticker bar equals the cadence exactly. The
// first bar of each ticker has no delta to verify and is dropped, so
// every retained bar belongs to a verified consecutive run.
func Build(records []core.RawRecord, opts Options) (*frame.Table, *Report, error) {
	opts = opts.withDefaults()
	report := &Report{RawRows: len(records)}

	bars := make([]core.Bar, 0, len(records))
	for i, rec := range records {
		ts, err := parseTimestamp(rec.Date, rec.Time)
		if err != nil {
			return nil, nil, core.WrapError(core.ErrFormat,
				fmt.Errorf("ingest: row %d ticker %q: %w", i, rec.Ticker, err))
		}
		bars = append(bars, core.Bar{
			Ticker:    rec.Ticker,
			Timestamp: ts,
			Open:      rec.Open,
			High:      rec.High,
			Low:       rec.Low,
			Close:     rec.Close,
			Volume:    rec.Volume,
		})
	}

	// Sample-count threshold: strictly greater than, per policy. A
	// ticker with exactly MinSamplesPerTicker rows is excluded.
	counts := make(map[string]int)
	for _, b := range bars {
		counts[b.Ticker]++
	}
	kept := bars[:0]
	for _, b := range bars {
		if counts[b.Ticker] > opts.MinSamplesPerTicker {
			kept = append(kept, b)
		}
	}
	for _, n := range counts {
		if n <= opts.MinSamplesPerTicker {
			report.ExcludedTickers++
		}
	}

	// Stable sort keeps source order for duplicate timestamps, which
	// should not occur but must not reorder nondeterministically if
	// they do.
	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Ticker != kept[j].Ticker {
			return kept[i].Ticker < kept[j].Ticker
		}
		return kept[i].Timestamp.Before(kept[j].Timestamp)
	})

	contiguous := make([]core.Bar, 0, len(kept))
	for i, b := range kept {
		if i == 0 || kept[i-1].Ticker != b.Ticker {
			report.DroppedRows++ // first bar of a ticker has no verifiable delta
			continue
		}
		if b.Timestamp.Sub(kept[i-1].Timestamp) != opts.Cadence {
			report.DroppedRows++
			continue
		}
		contiguous = append(contiguous, b)
	}

	tbl := frame.FromBars(contiguous)
	report.Rows = tbl.Len()
	report.Tickers = len(tbl.Partitions())
	return tbl, report, nil
}

// Defer wraps Build as a lazy source, letting consumers hold the
// computation graph and materialize later. The report is filled in
// when the chain collects.
func Defer(records []core.RawRecord, opts Options, report *Report) *frame.Lazy {
	return frame.Defer(func() (*frame.Table, error) {
		tbl, rep, err := Build(records, opts)
		if err != nil {
			return nil, err
		}
		if report != nil {
			*report = *rep
		}
		return tbl, nil
	})
}

// parseTimestamp combines YYYYMMDD and HHMMSS text into one instant.
// The time component is zero-padded to six digits first; sources often
// strip leading zeros from early-session times (e.g. "93000").
func parseTimestamp(date, clock string) (time.Time, error) {
	if len(clock) > 6 {
		return time.Time{}, fmt.Errorf("bad time %q", clock)
	}
	for len(clock) < 6 {
		clock = "0" + clock
	}
	ts, err := time.Parse(timestampLayout, date+" "+clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad timestamp %q %q: %w", date, clock, err)
	}
	return ts, nil
}
