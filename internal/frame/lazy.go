package frame

import (
	"fmt"

	"github.com/quantware/finfeat/internal/core"
)

// Stage transforms one materialized table into the next. Stages must
// not mutate their input.
type Stage func(*Table) (*Table, error)

type namedStage struct {
	name  string
	apply Stage
}

// Lazy is a deferred description of a stage chain: a source thunk plus
// the stages to run over it. Nothing executes until Collect. Every
// stage receives a fully materialized table, so stages that need
// cross-row state (partition folds) are safe by construction.
type Lazy struct {
	source func() (*Table, error)
	stages []namedStage
}

// Defer creates a lazy chain from a source thunk.
func Defer(source func() (*Table, error)) *Lazy {
	return &Lazy{source: source}
}

// Pipe appends a named stage, returning a new chain. The receiver is
// unchanged, so a partially built chain can be shared and extended
// independently.
func (l *Lazy) Pipe(name string, apply Stage) *Lazy {
	stages := make([]namedStage, 0, len(l.stages)+1)
	stages = append(stages, l.stages...)
	stages = append(stages, namedStage{name: name, apply: apply})
	return &Lazy{source: l.source, stages: stages}
}

// Collect runs the source and every stage in order, materializing the
// final table. A failing stage aborts the run with the stage name
// attached.
func (l *Lazy) Collect() (*Table, error) {
	tbl, err := l.source()
	if err != nil {
		return nil, err
	}
	for _, s := range l.stages {
		tbl, err = s.apply(tbl)
		if err != nil {
			return nil, core.WrapError(core.ErrStageFailed,
				fmt.Errorf("stage %s: %w", s.name, err))
		}
	}
	return tbl, nil
}
