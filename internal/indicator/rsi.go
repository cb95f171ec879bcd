package indicator

import (
	"fmt"

	"github.com/quantware/finfeat/internal/frame"
)

// RSI appends RSI_{window}: 100 - 100/(1+RS) where RS is the ratio of
// exponentially smoothed average gains to average losses over the
// close-to-close deltas of each ticker.
//
// The first row of a ticker has no delta and is null; the gain/loss
// chains seed from the second row. Two resolution policies apply when
// the average loss is zero: all gains yields exactly 100, and the
// flat-tape 0/0 case yields the neutral 50.
func RSI(t *frame.Table, column string, window int) (*frame.Table, error) {
	if window < 1 {
		return nil, fmt.Errorf("rsi: window must be positive, got %d", window)
	}
	src, err := sourceColumn(t, column)
	if err != nil {
		return nil, err
	}

	n := t.Len()
	values := make([]float64, n)
	valid := make([]bool, n)

	forEachPartition(t, func(p frame.Partition) {
		if p.Len() < 2 {
			return
		}
		gains := make([]float64, p.Len()-1)
		losses := make([]float64, p.Len()-1)
		for i := p.Start + 1; i < p.End; i++ {
			delta := src[i] - src[i-1]
			if delta > 0 {
				gains[i-p.Start-1] = delta
			} else {
				losses[i-p.Start-1] = -delta
			}
		}

		avgGain := ewma(gains, window)
		avgLoss := ewma(losses, window)

		for k := range avgGain {
			i := p.Start + 1 + k
			switch {
			case avgLoss[k] == 0 && avgGain[k] == 0:
				values[i] = 50
			case avgLoss[k] == 0:
				values[i] = 100
			default:
				rs := avgGain[k] / avgLoss[k]
				values[i] = 100 - 100/(1+rs)
			}
			valid[i] = true
		}
	})

	return t.WithColumn(fmt.Sprintf("RSI_%d", window), frame.NewColumn(values, valid))
}
