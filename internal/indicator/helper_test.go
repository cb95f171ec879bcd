package indicator

import (
	"time"

	"github.com/quantware/finfeat/internal/core"
	"github.com/quantware/finfeat/internal/frame"
)

type series struct {
	ticker string
	closes []float64
}

// closeTable builds a bar table from per-ticker close series on a
// 5-minute grid.
func closeTable(groups ...series) *frame.Table {
	base := time.Date(2023, 4, 3, 9, 30, 0, 0, time.UTC)
	var bars []core.Bar
	for _, g := range groups {
		for i, c := range g.closes {
			bars = append(bars, core.Bar{
				Ticker:    g.ticker,
				Timestamp: base.Add(time.Duration(i) * 5 * time.Minute),
				Open:      c,
				High:      c,
				Low:       c,
				Close:     c,
				Volume:    1,
			})
		}
	}
	return frame.FromBars(bars)
}
