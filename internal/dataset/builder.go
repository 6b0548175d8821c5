package dataset

import (
	"log"
	"math"
	"time"

	"StockLens/internal/loader"
	"StockLens/internal/model"
)

// BuildReport tallies what the builder accepted and rejected. Row
// defects are handled locally (the row is dropped and counted), never by
// failing the whole batch.
type BuildReport struct {
	// Loaded counts accepted rows per symbol.
	Loaded map[string]int
	// Dropped counts rejected rows per symbol: unparseable source rows,
	// rows with missing or negative required values, and duplicate
	// (symbol, date) pairs.
	Dropped map[string]int
	// Missing counts missing values per field across all symbols,
	// tallied before the offending rows were removed.
	Missing map[string]int
}

// TotalDropped sums dropped rows across symbols.
func (r *BuildReport) TotalDropped() int {
	n := 0
	for _, c := range r.Dropped {
		n += c
	}
	return n
}

// Build merges one record source per symbol into a single Dataset tagged
// by symbol. Dates are normalized to midnight UTC, rows with a missing
// date or a missing/negative required value are dropped, and for
// duplicate (symbol, date) pairs the first row in input order wins.
// Output ordering is whatever the sources produced per symbol; stages
// that need (symbol, date) order sort their own working copy.
func Build(src loader.Source, symbols []string) (*Dataset, *BuildReport, error) {
	report := &BuildReport{
		Loaded:  make(map[string]int),
		Dropped: make(map[string]int),
		Missing: make(map[string]int),
	}

	var rows []model.Row
	for _, sym := range symbols {
		recs, dropped, err := src.Records(sym)
		if err != nil {
			return nil, nil, err
		}
		report.Dropped[sym] += dropped

		seen := make(map[time.Time]struct{}, len(recs))
		for _, rec := range recs {
			rec.Symbol = sym
			if !validate(rec, report) {
				report.Dropped[sym]++
				continue
			}
			rec.Date = normalizeDate(rec.Date)
			if _, dup := seen[rec.Date]; dup {
				report.Dropped[sym]++
				continue
			}
			seen[rec.Date] = struct{}{}
			rows = append(rows, model.NewRow(rec))
			report.Loaded[sym]++
		}
	}

	if n := report.TotalDropped(); n > 0 {
		log.Printf("[WARN] dataset build dropped %d rows (%d kept)", n, len(rows))
	}
	return FromRows(rows), report, nil
}

// validate checks the row against the schema, tallying which required
// fields were missing.
func validate(rec model.PriceRecord, report *BuildReport) bool {
	ok := true
	if rec.Date.IsZero() {
		report.Missing["date"]++
		ok = false
	}
	fields := []struct {
		name string
		val  float64
	}{
		{model.FieldOpen, rec.Open}, {model.FieldHigh, rec.High},
		{model.FieldLow, rec.Low}, {model.FieldClose, rec.Close},
		{model.FieldVolume, rec.Volume},
	}
	for _, f := range fields {
		if math.IsNaN(f.val) {
			report.Missing[f.name]++
			ok = false
		} else if f.val < 0 {
			ok = false
		}
	}
	return ok
}

func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
