package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// Ingestion metrics
	rowsIngested    prometheus.Counter
	tickersExcluded prometheus.Counter
	barsDropped     prometheus.Counter

	// Pipeline metrics
	runsTotal     *prometheus.CounterVec
	runDuration   prometheus.Histogram
	stageDuration *prometheus.HistogramVec
	featureRows   prometheus.Gauge
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		rowsIngested: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "finfeat_rows_ingested_total",
				Help: "Total number of raw rows received by ingestion",
			},
		),
		tickersExcluded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "finfeat_tickers_excluded_total",
				Help: "Total number of tickers excluded for insufficient history",
			},
		),
		barsDropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "finfeat_bars_dropped_total",
				Help: "Total number of bars removed by the contiguity filter",
			},
		),

		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finfeat_runs_total",
				Help: "Total number of pipeline runs",
			},
			[]string{"status"},
		),
		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "finfeat_run_duration_seconds",
				Help:    "Pipeline run duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "finfeat_stage_duration_seconds",
				Help:    "Pipeline stage duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		featureRows: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "finfeat_feature_rows",
				Help: "Number of rows in the last produced feature table",
			},
		),
	}

	reg.MustRegister(r.rowsIngested)
	reg.MustRegister(r.tickersExcluded)
	reg.MustRegister(r.barsDropped)
	reg.MustRegister(r.runsTotal)
	reg.MustRegister(r.runDuration)
	reg.MustRegister(r.stageDuration)
	reg.MustRegister(r.featureRows)

	return r
}

// RecordIngest records the outcome of an ingestion pass.
func (r *Registry) RecordIngest(rawRows, excludedTickers, droppedRows int) {
	r.rowsIngested.Add(float64(rawRows))
	r.tickersExcluded.Add(float64(excludedTickers))
	r.barsDropped.Add(float64(droppedRows))
}

// RecordRun records a pipeline run completion.
func (r *Registry) RecordRun(status string, duration float64) {
	r.runsTotal.WithLabelValues(status).Inc()
	r.runDuration.Observe(duration)
}

// RecordStage records a single stage completion.
func (r *Registry) RecordStage(stage string, duration float64) {
	r.stageDuration.WithLabelValues(stage).Observe(duration)
}

// SetFeatureRows sets the output table size of the last run.
func (r *Registry) SetFeatureRows(rows int) {
	r.featureRows.Set(float64(rows))
}
