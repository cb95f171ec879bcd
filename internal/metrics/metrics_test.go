package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()
	if reg == nil {
		t.Fatal("expected non-nil registry")
	}

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if len(mfs) == 0 {
		t.Error("expected some metrics to be registered")
	}
}

func TestRegistry_RecordIngest(t *testing.T) {
	reg := NewRegistry()

	reg.RecordIngest(5000, 3, 42)
	reg.RecordIngest(1000, 1, 8)

	if got := testutil.ToFloat64(reg.rowsIngested); got != 6000 {
		t.Errorf("rows ingested = %v, want 6000", got)
	}
	if got := testutil.ToFloat64(reg.tickersExcluded); got != 4 {
		t.Errorf("tickers excluded = %v, want 4", got)
	}
	if got := testutil.ToFloat64(reg.barsDropped); got != 50 {
		t.Errorf("bars dropped = %v, want 50", got)
	}
}

func TestRegistry_RecordRun(t *testing.T) {
	reg := NewRegistry()

	reg.RecordRun("success", 0.8)
	reg.RecordRun("success", 1.2)
	reg.RecordRun("error", 0.1)

	if got := testutil.ToFloat64(reg.runsTotal.WithLabelValues("success")); got != 2 {
		t.Errorf("success runs = %v, want 2", got)
	}
	if got := testutil.ToFloat64(reg.runsTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("error runs = %v, want 1", got)
	}
}

func TestRegistry_SetFeatureRows(t *testing.T) {
	reg := NewRegistry()

	reg.SetFeatureRows(12345)
	if got := testutil.ToFloat64(reg.featureRows); got != 12345 {
		t.Errorf("feature rows = %v, want 12345", got)
	}

	reg.SetFeatureRows(10)
	if got := testutil.ToFloat64(reg.featureRows); got != 10 {
		t.Errorf("feature rows = %v, want 10", got)
	}
}

func TestRegistry_RecordStage(t *testing.T) {
	reg := NewRegistry()

	reg.RecordStage("ingest", 0.5)
	reg.RecordStage("rsi_14", 0.2)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	found := false
	for _, mf := range mfs {
		if mf.GetName() == "finfeat_stage_duration_seconds" {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected finfeat_stage_duration_seconds metric")
	}
}
