// Package target derives the supervised-learning label columns from
// the clean bar table.
package target

import (
	"fmt"

	"github.com/quantware/finfeat/internal/core"
	"github.com/quantware/finfeat/internal/frame"
)

// Attach appends CLOSE_FWD_1, RET_FWD_1 and UP_NEXT.
//
// CLOSE_FWD_1 is the next bar's close within the same ticker; the last
// bar of each ticker has no forward close and is dropped. RET_FWD_1 is
// the simple relative return, and a zero close deliberately yields a
// non-finite return rather than a masked cell: degenerate prices must
// stay visible downstream. UP_NEXT is 1 only for a strictly higher
// next close; ties count as not up.
func Attach(t *frame.Table) (*frame.Table, error) {
	closes, ok := t.Column(core.ColClose)
	if !ok {
		return nil, core.WrapError(core.ErrColumnMissing,
			fmt.Errorf("target: %s", core.ColClose))
	}
	src := closes.Values()

	n := t.Len()
	fwd := make([]float64, n)
	valid := make([]bool, n)
	for _, p := range t.Partitions() {
		for i := p.Start; i < p.End-1; i++ {
			fwd[i] = src[i+1]
			valid[i] = true
		}
	}

	t, err := t.WithColumn(core.ColCloseFwd1, frame.NewColumn(fwd, valid))
	if err != nil {
		return nil, err
	}
	t = t.Filter(valid)

	fwdCol, _ := t.Column(core.ColCloseFwd1)
	fwdVals := fwdCol.Values()
	closesCol, _ := t.Column(core.ColClose)
	closeVals := closesCol.Values()

	m := t.Len()
	ret := make([]float64, m)
	up := make([]float64, m)
	for i := 0; i < m; i++ {
		ret[i] = (fwdVals[i] - closeVals[i]) / closeVals[i]
		if fwdVals[i] > closeVals[i] {
			up[i] = 1
		}
	}

	t, err = t.WithColumn(core.ColRetFwd1, frame.NewColumn(ret, nil))
	if err != nil {
		return nil, err
	}
	return t.WithColumn(core.ColUpNext, frame.NewColumn(up, nil))
}
