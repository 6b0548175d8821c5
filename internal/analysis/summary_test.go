package analysis

import (
	"errors"
	"math"
	"testing"
	"time"

	"StockLens/internal/dataset"
	"StockLens/internal/model"
)

func TestSymbolSummaries(t *testing.T) {
	ds := datasetOf(
		closeSeries("MSFT", day(2020, time.January, 6), 50, 52),
		closeSeries("AAPL", day(2020, time.January, 6), 10, 20, 30),
	)
	sums := SymbolSummaries(ds)
	if len(sums) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(sums))
	}
	aapl := sums[0]
	if aapl.Symbol != "AAPL" {
		t.Fatalf("summaries not ordered by symbol: %+v", sums)
	}
	if aapl.TotalClose != 60 || aapl.AvgClose != 20 || aapl.MinClose != 10 || aapl.MaxClose != 30 {
		t.Errorf("unexpected AAPL summary: %+v", aapl)
	}
}

func TestMaxDailyReturns(t *testing.T) {
	ds := WithWindowColumns(datasetOf(
		closeSeries("AAPL", day(2020, time.January, 6), 10, 11, 9),
		closeSeries("MSFT", day(2020, time.January, 6), 100, 150),
	))

	extremes := MaxDailyReturns(ds)
	if len(extremes) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(extremes))
	}
	aapl := extremes[0]
	if !aapl.Return.Valid || math.Abs(aapl.Return.Float64-0.10) > 1e-9 {
		t.Errorf("AAPL max return = %v, want 0.10", aapl.Return)
	}
	if !aapl.Date.Equal(day(2020, time.January, 7)) {
		t.Errorf("AAPL max return date = %v", aapl.Date)
	}

	top, err := TopDailyReturn(ds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if top.Symbol != "MSFT" || math.Abs(top.Return.Float64-0.50) > 1e-9 {
		t.Errorf("top daily return = %+v, want MSFT 0.50", top)
	}
}

func TestTopDailyReturn_NoDefinedReturns(t *testing.T) {
	// Without the window stage no daily return exists.
	ds := datasetOf(closeSeries("AAPL", day(2020, time.January, 6), 10, 11))
	if _, err := TopDailyReturn(ds); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestDescriptiveStats(t *testing.T) {
	ds := datasetOf(closeSeries("AAPL", day(2020, time.January, 6), 10, 11, 9))
	stats := DescriptiveStats(ds)

	var closeStats model.FieldStats
	for _, s := range stats {
		if s.Field == model.FieldClose {
			closeStats = s
		}
	}
	if closeStats.Count != 3 {
		t.Fatalf("close count = %d, want 3", closeStats.Count)
	}
	if !closeStats.Mean.Valid || math.Abs(closeStats.Mean.Float64-10) > 1e-9 {
		t.Errorf("close mean = %v, want 10", closeStats.Mean)
	}
	// Sample standard deviation of {10, 11, 9}.
	if !closeStats.StdDev.Valid || math.Abs(closeStats.StdDev.Float64-1.0) > 1e-9 {
		t.Errorf("close stddev = %v, want 1.0", closeStats.StdDev)
	}
	if closeStats.Min.Float64 != 9 || closeStats.Max.Float64 != 11 {
		t.Errorf("close min/max = %v/%v", closeStats.Min, closeStats.Max)
	}

	for _, s := range stats {
		if s.Field == model.FieldDailyReturn {
			if s.Count != 0 || s.Mean.Valid {
				t.Errorf("daily_return stats should be empty before windowing: %+v", s)
			}
		}
	}
}

func TestDeducePeriod(t *testing.T) {
	// Mon-Fri then the following Mon: gaps 1,1,1,1,3.
	recs := []model.PriceRecord{}
	for _, d := range []int{6, 7, 8, 9, 10, 13} {
		recs = append(recs, model.PriceRecord{
			Date: day(2020, time.January, d), Symbol: "AAPL", Close: 10,
		})
	}
	period, err := DeducePeriod(dataset.FromRecords(recs))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if period != 1 {
		t.Errorf("deduced period = %d days, want 1", period)
	}
}

func TestDeducePeriod_InsufficientData(t *testing.T) {
	ds := datasetOf(closeSeries("AAPL", day(2020, time.January, 6), 10))
	if _, err := DeducePeriod(ds); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}
