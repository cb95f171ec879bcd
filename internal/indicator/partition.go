// Package indicator computes the derived technical-indicator columns.
// Every engine operates per ticker partition: recurrences never cross
// a ticker boundary, and partitions are independent of each other.
package indicator

import (
	"fmt"
	"sync"

	"github.com/quantware/finfeat/internal/core"
	"github.com/quantware/finfeat/internal/frame"
)

// forEachPartition runs fn once per ticker partition, in parallel.
// Callers write into preallocated slices at the partition's own row
// range, so output placement is deterministic regardless of goroutine
// scheduling.
func forEachPartition(t *frame.Table, fn func(p frame.Partition)) {
	parts := t.Partitions()
	var wg sync.WaitGroup
	wg.Add(len(parts))
	for _, p := range parts {
		go func(p frame.Partition) {
			defer wg.Done()
			fn(p)
		}(p)
	}
	wg.Wait()
}

// sourceColumn fetches the raw values of an engine's input column.
func sourceColumn(t *frame.Table, name string) ([]float64, error) {
	col, ok := t.Column(name)
	if !ok {
		return nil, core.WrapError(core.ErrColumnMissing,
			fmt.Errorf("indicator: %s", name))
	}
	return col.Values(), nil
}
