package indicator

import (
	"fmt"

	"github.com/quantware/finfeat/internal/frame"
)

// ewma computes the recursive exponentially weighted average with
// alpha = 2/(span+1): out[0] = xs[0], out[t] = a*xs[t] + (1-a)*out[t-1].
// Each call is one independent chain; callers reset per ticker by
// passing a single partition's slice.
func ewma(xs []float64, span int) []float64 {
	out := make([]float64, len(xs))
	if len(xs) == 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	out[0] = xs[0]
	for i := 1; i < len(xs); i++ {
		out[i] = alpha*xs[i] + (1-alpha)*out[i-1]
	}
	return out
}

// EMA appends EMA_{span}: the recursive exponential moving average of
// the source column, seeded from each ticker's first observation and
// therefore defined on every row.
func EMA(t *frame.Table, column string, span int) (*frame.Table, error) {
	if span < 1 {
		return nil, fmt.Errorf("ema: span must be positive, got %d", span)
	}
	src, err := sourceColumn(t, column)
	if err != nil {
		return nil, err
	}

	values := make([]float64, t.Len())
	forEachPartition(t, func(p frame.Partition) {
		copy(values[p.Start:p.End], ewma(src[p.Start:p.End], span))
	})

	return t.WithColumn(fmt.Sprintf("EMA_%d", span), frame.NewColumn(values, nil))
}

// MACDParams holds the three EMA spans of the MACD family.
type MACDParams struct {
	ShortSpan  int
	LongSpan   int
	SignalSpan int
}

// DefaultMACDParams returns the conventional 12/26/9 configuration.
func DefaultMACDParams() MACDParams {
	return MACDParams{ShortSpan: 12, LongSpan: 26, SignalSpan: 9}
}

// MACD appends MACD, MACD_SIGNAL and MACD_HIST.
//
// Each partition runs three sequential recurrence passes: the short
// and long EMA chains over the source, then the signal chain over the
// materialized MACD values. The signal is seeded from the first MACD
// value of the ticker, not from the raw price chains, so the passes
// must not be fused. The short/long EMA chains stay local and are not
// persisted as columns.
func MACD(t *frame.Table, column string, params MACDParams) (*frame.Table, error) {
	if params.ShortSpan < 1 || params.LongSpan < 1 || params.SignalSpan < 1 {
		return nil, fmt.Errorf("macd: spans must be positive, got %+v", params)
	}
	src, err := sourceColumn(t, column)
	if err != nil {
		return nil, err
	}

	n := t.Len()
	macd := make([]float64, n)
	signal := make([]float64, n)
	hist := make([]float64, n)

	forEachPartition(t, func(p frame.Partition) {
		seg := src[p.Start:p.End]
		short := ewma(seg, params.ShortSpan)
		long := ewma(seg, params.LongSpan)

		line := make([]float64, len(seg))
		for i := range seg {
			line[i] = short[i] - long[i]
		}

		sig := ewma(line, params.SignalSpan)
		for i := range seg {
			macd[p.Start+i] = line[i]
			signal[p.Start+i] = sig[i]
			hist[p.Start+i] = line[i] - sig[i]
		}
	})

	t, err = t.WithColumn("MACD", frame.NewColumn(macd, nil))
	if err != nil {
		return nil, err
	}
	t, err = t.WithColumn("MACD_SIGNAL", frame.NewColumn(signal, nil))
	if err != nil {
		return nil, err
	}
	return t.WithColumn("MACD_HIST", frame.NewColumn(hist, nil))
}
