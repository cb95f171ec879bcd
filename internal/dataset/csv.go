// Package dataset is the consumer-side adapter between CSV files and
// the pipeline's in-memory records and tables. The pipeline itself
// never touches files.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/quantware/finfeat/internal/core"
	"github.com/quantware/finfeat/internal/frame"
)

var requiredColumns = []string{"TICKER", "DATE", "TIME", "OPEN", "HIGH", "LOW", "CLOSE", "VOL"}

const timestampLayout = "2006-01-02 15:04:05"

// ReadCSV loads raw records from a CSV file. The header must carry the
// required columns in any order; auxiliary columns (PER, OPENINT, ...)
// are ignored. VOL is parsed as float since sources emit fractional
// volumes.
func ReadCSV(path string) ([]core.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	defer f.Close()
	return readCSV(f)
}

func readCSV(r io.Reader) ([]core.RawRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, core.WrapError(core.ErrFormat, fmt.Errorf("dataset: reading header: %w", err))
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := idx[name]; !ok {
			return nil, core.WrapError(core.ErrColumnMissing,
				fmt.Errorf("dataset: column %s not in header", name))
		}
	}

	var records []core.RawRecord
	for row := 1; ; row++ {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, core.WrapError(core.ErrFormat, fmt.Errorf("dataset: row %d: %w", row, err))
		}

		rec := core.RawRecord{
			Ticker: fields[idx["TICKER"]],
			Date:   fields[idx["DATE"]],
			Time:   fields[idx["TIME"]],
		}
		for _, fld := range []struct {
			name string
			dst  *float64
		}{
			{"OPEN", &rec.Open},
			{"HIGH", &rec.High},
			{"LOW", &rec.Low},
			{"CLOSE", &rec.Close},
			{"VOL", &rec.Volume},
		} {
			v, err := strconv.ParseFloat(fields[idx[fld.name]], 64)
			if err != nil {
				return nil, core.WrapError(core.ErrFormat,
					fmt.Errorf("dataset: row %d ticker %q: bad %s %q", row, rec.Ticker, fld.name, fields[idx[fld.name]]))
			}
			*fld.dst = v
		}
		records = append(records, rec)
	}
	return records, nil
}

// WriteCSV writes the feature table: row identity first, then every
// column in attachment order. Null cells become empty fields;
// non-finite values are written as-is so degenerate arithmetic stays
// visible to consumers.
func WriteCSV(path string, t *frame.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dataset: %w", err)
	}
	defer f.Close()
	if err := writeCSV(f, t); err != nil {
		return err
	}
	return f.Close()
}

func writeCSV(w io.Writer, t *frame.Table) error {
	cw := csv.NewWriter(w)
	names := t.Columns()

	header := append([]string{"TICKER", "TIMESTAMP"}, names...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("dataset: %w", err)
	}

	row := make([]string, len(header))
	for i := 0; i < t.Len(); i++ {
		row[0] = t.Ticker(i)
		row[1] = t.Timestamp(i).Format(timestampLayout)
		for j, name := range names {
			if v, ok := t.Float(name, i); ok {
				row[j+2] = strconv.FormatFloat(v, 'g', -1, 64)
			} else {
				row[j+2] = ""
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("dataset: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("dataset: %w", err)
	}
	return nil
}
