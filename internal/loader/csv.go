package loader

import (
	"encoding/csv"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"StockLens/internal/model"
)

// CSVSource reads one delimited file per symbol from a directory,
// expecting <SYMBOL>.csv with a header row. Required columns are date,
// open, high, low, close and volume (case-insensitive); extra columns
// such as "Adj Close" are ignored.
type CSVSource struct {
	Dir string
}

func NewCSVSource(dir string) *CSVSource { return &CSVSource{Dir: dir} }

func (s *CSVSource) Name() string { return "csv:" + s.Dir }

var dateLayouts = []string{"2006-01-02", "2006-01-02 15:04:05", "01/02/2006"}

func (s *CSVSource) Records(symbol string) ([]model.PriceRecord, int, error) {
	path := filepath.Join(s.Dir, symbol+".csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) < 1 {
		return nil, 0, fmt.Errorf("%s: missing header row", path)
	}

	cols, err := mapColumns(rows[0])
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}

	var recs []model.PriceRecord
	dropped := 0
	for _, row := range rows[1:] {
		rec, ok := parseRow(row, cols, symbol)
		if !ok {
			dropped++
			continue
		}
		recs = append(recs, rec)
	}
	if dropped > 0 {
		log.Printf("[WARN] %s: dropped %d unparseable rows", path, dropped)
	}
	return recs, dropped, nil
}

// columnIndex maps required schema fields to header positions.
type columnIndex struct {
	date, open, high, low, closeC, volume int
}

func mapColumns(header []string) (columnIndex, error) {
	idx := columnIndex{date: -1, open: -1, high: -1, low: -1, closeC: -1, volume: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case "date":
			idx.date = i
		case "open":
			idx.open = i
		case "high":
			idx.high = i
		case "low":
			idx.low = i
		case "close":
			idx.closeC = i
		case "volume":
			idx.volume = i
		}
	}
	var missing []string
	for _, c := range []struct {
		name string
		pos  int
	}{
		{"date", idx.date}, {"open", idx.open}, {"high", idx.high},
		{"low", idx.low}, {"close", idx.closeC}, {"volume", idx.volume},
	} {
		if c.pos == -1 {
			missing = append(missing, c.name)
		}
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("required columns not found: %v", missing)
	}
	return idx, nil
}

// parseRow coerces one data row. Rows with malformed values are rejected;
// empty cells become NaN (missing) or the zero time for the date so the
// builder can count them.
func parseRow(row []string, cols columnIndex, symbol string) (model.PriceRecord, bool) {
	max := cols.date
	for _, p := range []int{cols.open, cols.high, cols.low, cols.closeC, cols.volume} {
		if p > max {
			max = p
		}
	}
	if len(row) <= max {
		return model.PriceRecord{}, false
	}

	rec := model.PriceRecord{Symbol: symbol}

	if ds := strings.TrimSpace(row[cols.date]); ds != "" {
		var parsed bool
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, ds); err == nil {
				rec.Date = t
				parsed = true
				break
			}
		}
		if !parsed {
			return model.PriceRecord{}, false
		}
	}

	fields := []struct {
		pos int
		dst *float64
	}{
		{cols.open, &rec.Open}, {cols.high, &rec.High}, {cols.low, &rec.Low},
		{cols.closeC, &rec.Close}, {cols.volume, &rec.Volume},
	}
	for _, f := range fields {
		cell := strings.TrimSpace(row[f.pos])
		if cell == "" {
			*f.dst = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return model.PriceRecord{}, false
		}
		*f.dst = v
	}
	return rec, true
}
