package core

import "time"

// Standard column names shared across pipeline stages.
const (
	ColOpen   = "OPEN"
	ColHigh   = "HIGH"
	ColLow    = "LOW"
	ColClose  = "CLOSE"
	ColVolume = "VOL"

	ColCloseFwd1 = "CLOSE_FWD_1"
	ColRetFwd1   = "RET_FWD_1"
	ColUpNext    = "UP_NEXT"
)

// RawRecord is one unvalidated input row as delivered by a data source.
// Date is YYYYMMDD and Time is HHMMSS; Time may arrive without leading
// zeros and is normalized during ingestion. Auxiliary source columns
// (PER, OPENINT, ...) are discarded before records reach the pipeline.
type RawRecord struct {
	Ticker string
	Date   string
	Time   string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Bar is one validated OHLCV observation on the fixed-cadence grid.
type Bar struct {
	Ticker    string
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// IsValid checks that the bar carries the fields every stage relies on.
func (b Bar) IsValid() bool {
	return b.Ticker != "" && !b.Timestamp.IsZero()
}
