package indicator

import (
	"fmt"
	"math"

	"github.com/quantware/finfeat/internal/frame"
)

// SMA appends SMA_{window}: the trailing arithmetic mean of the last
// `window` observations within each ticker. Rows without a full window
// of history are null — SMA never emits partial-window values.
func SMA(t *frame.Table, column string, window int) (*frame.Table, error) {
	if window < 1 {
		return nil, fmt.Errorf("sma: window must be positive, got %d", window)
	}
	src, err := sourceColumn(t, column)
	if err != nil {
		return nil, err
	}

	n := t.Len()
	values := make([]float64, n)
	valid := make([]bool, n)
	forEachPartition(t, func(p frame.Partition) {
		var sum float64
		for i := p.Start; i < p.End; i++ {
			sum += src[i]
			if i-p.Start >= window {
				sum -= src[i-window]
			}
			if i-p.Start >= window-1 {
				values[i] = sum / float64(window)
				valid[i] = true
			}
		}
	})

	return t.WithColumn(fmt.Sprintf("SMA_%d", window), frame.NewColumn(values, valid))
}

// BollingerParams parameterizes the volatility envelope.
type BollingerParams struct {
	Window int
	K      float64

	// Strict requires a full window before emitting anything, matching
	// SMA. The default (false) keeps the reference behavior: the
	// midline uses whatever history exists, and the standard deviation
	// is defined as soon as two observations exist.
	Strict bool
}

// Bollinger appends BB_MID_{w}, BB_UPPER_{w} and BB_LOWER_{w}:
// rolling mean ± K rolling sample standard deviations over the last
// Window observations within each ticker.
func Bollinger(t *frame.Table, column string, params BollingerParams) (*frame.Table, error) {
	if params.Window < 1 {
		return nil, fmt.Errorf("bollinger: window must be positive, got %d", params.Window)
	}
	if params.K < 0 {
		return nil, fmt.Errorf("bollinger: k must be non-negative, got %f", params.K)
	}
	src, err := sourceColumn(t, column)
	if err != nil {
		return nil, err
	}

	n := t.Len()
	mid := make([]float64, n)
	midValid := make([]bool, n)
	upper := make([]float64, n)
	lower := make([]float64, n)
	bandValid := make([]bool, n)

	forEachPartition(t, func(p frame.Partition) {
		for i := p.Start; i < p.End; i++ {
			have := i - p.Start + 1
			if have > params.Window {
				have = params.Window
			}
			if params.Strict && i-p.Start < params.Window-1 {
				continue
			}
			win := src[i-have+1 : i+1]

			var sum float64
			for _, v := range win {
				sum += v
			}
			mean := sum / float64(have)
			mid[i] = mean
			midValid[i] = true

			// Sample standard deviation: undefined below two points.
			if have < 2 {
				continue
			}
			var variance float64
			for _, v := range win {
				variance += (v - mean) * (v - mean)
			}
			std := math.Sqrt(variance / float64(have-1))
			upper[i] = mean + params.K*std
			lower[i] = mean - params.K*std
			bandValid[i] = true
		}
	})

	w := params.Window
	t, err = t.WithColumn(fmt.Sprintf("BB_MID_%d", w), frame.NewColumn(mid, midValid))
	if err != nil {
		return nil, err
	}
	t, err = t.WithColumn(fmt.Sprintf("BB_UPPER_%d", w), frame.NewColumn(upper, bandValid))
	if err != nil {
		return nil, err
	}
	return t.WithColumn(fmt.Sprintf("BB_LOWER_%d", w), frame.NewColumn(lower, bandValid))
}
