// Package pipeline composes ingestion, target construction and the
// indicator engines into one deterministic batch run.
package pipeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quantware/finfeat/internal/config"
	"github.com/quantware/finfeat/internal/core"
	"github.com/quantware/finfeat/internal/frame"
	"github.com/quantware/finfeat/internal/indicator"
	"github.com/quantware/finfeat/internal/ingest"
	"github.com/quantware/finfeat/internal/metrics"
	"github.com/quantware/finfeat/internal/target"
)

// Params selects the work of a run. Nil/zero feature entries disable
// the corresponding engine.
type Params struct {
	Ingest ingest.Options

	SMAWindows []int
	EMAWindows []int
	MACD       *indicator.MACDParams
	Bollinger  *indicator.BollingerParams
	RSIWindow  int
}

// ParamsFromConfig maps the configuration surface onto run parameters.
func ParamsFromConfig(cfg *config.Config) Params {
	p := Params{
		Ingest: ingest.Options{
			MinSamplesPerTicker: cfg.Pipeline.MinSamplesPerTicker,
			Cadence:             cfg.Pipeline.Cadence,
		},
		SMAWindows: cfg.Features.SMAWindows,
		EMAWindows: cfg.Features.EMAWindows,
	}
	if cfg.Features.MACD.Enabled {
		p.MACD = &indicator.MACDParams{
			ShortSpan:  cfg.Features.MACD.ShortSpan,
			LongSpan:   cfg.Features.MACD.LongSpan,
			SignalSpan: cfg.Features.MACD.SignalSpan,
		}
	}
	if cfg.Features.Bollinger.Enabled {
		p.Bollinger = &indicator.BollingerParams{
			Window: cfg.Features.Bollinger.Window,
			K:      cfg.Features.Bollinger.K,
			Strict: cfg.Features.Bollinger.Strict,
		}
	}
	if cfg.Features.RSI.Enabled {
		p.RSIWindow = cfg.Features.RSI.Window
	}
	return p
}

// Pipeline owns the stage chain for one parameter set.
type Pipeline struct {
	params  Params
	logger  *zap.Logger
	metrics *metrics.Registry
}

// New creates a pipeline. Logger may be nil (logs are discarded) and
// metrics may be nil (nothing is recorded).
func New(params Params, logger *zap.Logger, reg *metrics.Registry) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{params: params, logger: logger, metrics: reg}
}

// Lazy returns the run as a deferred stage chain. Nothing executes
// until Collect; the report is filled in during collection.
func (p *Pipeline) Lazy(records []core.RawRecord, report *ingest.Report) *frame.Lazy {
	log := p.logger

	lz := frame.Defer(func() (*frame.Table, error) {
		start := time.Now()
		tbl, rep, err := ingest.Build(records, p.params.Ingest)
		if err != nil {
			return nil, err
		}
		if report != nil {
			*report = *rep
		}
		if p.metrics != nil {
			p.metrics.RecordIngest(rep.RawRows, rep.ExcludedTickers, rep.DroppedRows)
			p.metrics.RecordStage("ingest", time.Since(start).Seconds())
		}
		log.Info("ingest complete",
			zap.Int("raw_rows", rep.RawRows),
			zap.Int("rows", rep.Rows),
			zap.Int("tickers", rep.Tickers),
			zap.Int("excluded_tickers", rep.ExcludedTickers),
			zap.Int("dropped_rows", rep.DroppedRows),
		)
		return tbl, nil
	})

	lz = lz.Pipe("targets", p.stage("targets", target.Attach))

	for _, w := range p.params.SMAWindows {
		w := w
		name := fmt.Sprintf("sma_%d", w)
		lz = lz.Pipe(name, p.stage(name, func(t *frame.Table) (*frame.Table, error) {
			return indicator.SMA(t, core.ColClose, w)
		}))
	}
	for _, span := range p.params.EMAWindows {
		span := span
		name := fmt.Sprintf("ema_%d", span)
		lz = lz.Pipe(name, p.stage(name, func(t *frame.Table) (*frame.Table, error) {
			return indicator.EMA(t, core.ColClose, span)
		}))
	}
	if p.params.MACD != nil {
		lz = lz.Pipe("macd", p.stage("macd", func(t *frame.Table) (*frame.Table, error) {
			return indicator.MACD(t, core.ColClose, *p.params.MACD)
		}))
	}
	if p.params.Bollinger != nil {
		name := fmt.Sprintf("bollinger_%d", p.params.Bollinger.Window)
		lz = lz.Pipe(name, p.stage(name, func(t *frame.Table) (*frame.Table, error) {
			return indicator.Bollinger(t, core.ColClose, *p.params.Bollinger)
		}))
	}
	if p.params.RSIWindow > 0 {
		name := fmt.Sprintf("rsi_%d", p.params.RSIWindow)
		lz = lz.Pipe(name, p.stage(name, func(t *frame.Table) (*frame.Table, error) {
			return indicator.RSI(t, core.ColClose, p.params.RSIWindow)
		}))
	}

	return lz
}

// Run executes the full chain eagerly and returns the feature table.
func (p *Pipeline) Run(records []core.RawRecord) (*frame.Table, *ingest.Report, error) {
	runID := uuid.NewString()
	log := p.logger.With(zap.String("run_id", runID))
	start := time.Now()

	var report ingest.Report
	tbl, err := p.withLogger(log).Lazy(records, &report).Collect()
	elapsed := time.Since(start)

	if err != nil {
		if p.metrics != nil {
			p.metrics.RecordRun("error", elapsed.Seconds())
		}
		log.Error("pipeline run failed", zap.Error(err), zap.Duration("elapsed", elapsed))
		return nil, nil, err
	}

	if p.metrics != nil {
		p.metrics.RecordRun("success", elapsed.Seconds())
		p.metrics.SetFeatureRows(tbl.Len())
	}
	log.Info("pipeline run complete",
		zap.Int("rows", tbl.Len()),
		zap.Int("columns", len(tbl.Columns())),
		zap.Duration("elapsed", elapsed),
	)
	return tbl, &report, nil
}

func (p *Pipeline) withLogger(log *zap.Logger) *Pipeline {
	return &Pipeline{params: p.params, logger: log, metrics: p.metrics}
}

// stage wraps a transform with duration logging and metrics.
func (p *Pipeline) stage(name string, apply frame.Stage) frame.Stage {
	return func(t *frame.Table) (*frame.Table, error) {
		start := time.Now()
		out, err := apply(t)
		if err != nil {
			return nil, err
		}
		if p.metrics != nil {
			p.metrics.RecordStage(name, time.Since(start).Seconds())
		}
		p.logger.Debug("stage complete",
			zap.String("stage", name),
			zap.Int("rows", out.Len()),
			zap.Duration("elapsed", time.Since(start)),
		)
		return out, nil
	}
}
