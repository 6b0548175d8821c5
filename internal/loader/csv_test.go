package loader

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCSVSource_ParsesRecords(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "AAPL.csv",
		"Date,Adj Close,Close,High,Low,Open,Volume\n"+
			"2020-01-06,74.0,75.0,76.0,73.5,74.5,1000000\n"+
			"2020-01-07,73.0,74.0,75.5,73.0,75.0,900000\n")

	src := NewCSVSource(dir)
	recs, dropped, err := src.Records("AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dropped != 0 {
		t.Errorf("dropped = %d, want 0", dropped)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}

	r := recs[0]
	if !r.Date.Equal(time.Date(2020, 1, 6, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date = %v", r.Date)
	}
	if r.Open != 74.5 || r.High != 76.0 || r.Low != 73.5 || r.Close != 75.0 || r.Volume != 1000000 {
		t.Errorf("unexpected record: %+v", r)
	}
	if r.Symbol != "AAPL" {
		t.Errorf("symbol = %q", r.Symbol)
	}
}

func TestCSVSource_DropsUnparseableRows(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "AAPL.csv",
		"Date,Open,High,Low,Close,Volume\n"+
			"2020-01-06,74.5,76.0,73.5,75.0,1000000\n"+
			"not-a-date,74.5,76.0,73.5,75.0,1000000\n"+
			"2020-01-08,74.5,76.0,73.5,abc,1000000\n")

	recs, dropped, err := NewCSVSource(dir).Records("AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 || dropped != 2 {
		t.Errorf("recs=%d dropped=%d, want 1/2", len(recs), dropped)
	}
}

func TestCSVSource_EmptyCellsBecomeMissing(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "AAPL.csv",
		"Date,Open,High,Low,Close,Volume\n"+
			"2020-01-06,74.5,76.0,73.5,,1000000\n")

	recs, dropped, err := NewCSVSource(dir).Records("AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dropped != 0 {
		t.Errorf("empty cell must not drop the row at the loader: dropped=%d", dropped)
	}
	if len(recs) != 1 || !math.IsNaN(recs[0].Close) {
		t.Errorf("expected NaN close marking the missing value, got %+v", recs)
	}
}

func TestCSVSource_MissingRequiredColumn(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "AAPL.csv", "Date,Open,High,Low,Volume\n2020-01-06,1,2,0.5,100\n")

	if _, _, err := NewCSVSource(dir).Records("AAPL"); err == nil {
		t.Error("expected error for missing close column")
	}
}

func TestCSVSource_MissingFile(t *testing.T) {
	if _, _, err := NewCSVSource(t.TempDir()).Records("AAPL"); err == nil {
		t.Error("expected error for missing file")
	}
}
