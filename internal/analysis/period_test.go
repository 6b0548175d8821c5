package analysis

import (
	"math"
	"testing"
	"time"

	"StockLens/internal/dataset"
	"StockLens/internal/model"
)

func TestPeriodAggregates_SingleRowReturnsZero(t *testing.T) {
	ds := datasetOf(closeSeries("AAPL", day(2020, time.March, 2), 123.45))
	aggs, err := PeriodAggregates(ds, Month)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(aggs) != 1 {
		t.Fatalf("expected 1 aggregate, got %d", len(aggs))
	}
	a := aggs[0]
	if a.FirstClose != a.LastClose {
		t.Errorf("single-row period: first %v != last %v", a.FirstClose, a.LastClose)
	}
	if !a.ReturnRate.Valid || a.ReturnRate.Float64 != 0 {
		t.Errorf("single-row period return rate = %v, want 0", a.ReturnRate)
	}
}

func TestPeriodAggregates_MonthlyFirstLast(t *testing.T) {
	jan := closeSeries("AAPL", day(2020, time.January, 2), 100, 104, 110)
	feb := closeSeries("AAPL", day(2020, time.February, 3), 110, 99)
	aggs, err := PeriodAggregates(datasetOf(jan, feb), Month)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(aggs) != 2 {
		t.Fatalf("expected 2 aggregates, got %d", len(aggs))
	}

	janAgg := aggs[0]
	if janAgg.Month != 1 || janAgg.Year != 2020 {
		t.Fatalf("unexpected first group: %+v", janAgg)
	}
	if janAgg.FirstClose != 100 || janAgg.LastClose != 110 {
		t.Errorf("jan first/last = %v/%v, want 100/110", janAgg.FirstClose, janAgg.LastClose)
	}
	if !janAgg.ReturnRate.Valid || math.Abs(janAgg.ReturnRate.Float64-10.0) > 1e-9 {
		t.Errorf("jan return rate = %v, want 10.0", janAgg.ReturnRate)
	}

	febAgg := aggs[1]
	if !febAgg.ReturnRate.Valid || math.Abs(febAgg.ReturnRate.Float64-(-10.0)) > 1e-9 {
		t.Errorf("feb return rate = %v, want -10.0", febAgg.ReturnRate)
	}
}

func TestPeriodAggregates_WeekScopedByYear(t *testing.T) {
	// ISO week 3 of two different years must not merge.
	w2020 := closeSeries("AAPL", day(2020, time.January, 15), 100, 101)
	w2021 := closeSeries("AAPL", day(2021, time.January, 19), 200, 202)
	aggs, err := PeriodAggregates(datasetOf(w2020, w2021), Week)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(aggs) != 2 {
		t.Fatalf("expected 2 weekly groups, got %d: %+v", len(aggs), aggs)
	}
	for _, a := range aggs {
		if a.Week != 3 {
			t.Errorf("expected ISO week 3, got %d", a.Week)
		}
	}
	if aggs[0].Year == aggs[1].Year {
		t.Error("weekly groups from different years share a year key")
	}
}

func TestPeriodAggregates_AveragesSkipUndefinedReturns(t *testing.T) {
	ds := WithWindowColumns(datasetOf(closeSeries("AAPL", day(2020, time.January, 6), 10, 11, 9)))
	aggs, err := PeriodAggregates(ds, Month)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a := aggs[0]
	// Mean of the two defined returns: (0.10 + (-0.1818...)) / 2.
	want := (0.10 + (9.0-11.0)/11.0) / 2
	if !a.AvgReturn.Valid || math.Abs(a.AvgReturn.Float64-want) > 1e-9 {
		t.Errorf("avg daily return = %v, want %v", a.AvgReturn, want)
	}
	if math.Abs(a.AvgClose-10.0) > 1e-9 {
		t.Errorf("avg close = %v, want 10", a.AvgClose)
	}
}

func TestPeriodAggregates_AvgReturnUndefinedWithoutWindowStage(t *testing.T) {
	ds := datasetOf(closeSeries("AAPL", day(2020, time.January, 6), 10, 11))
	aggs, err := PeriodAggregates(ds, Year)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if aggs[0].AvgReturn.Valid {
		t.Error("avg daily return should be undefined when no returns were computed")
	}
}

func TestPeriodAggregates_ZeroFirstClose(t *testing.T) {
	ds := dataset.FromRecords([]model.PriceRecord{
		{Date: day(2020, time.January, 6), Symbol: "AAPL", Close: 0},
		{Date: day(2020, time.January, 7), Symbol: "AAPL", Close: 10},
	})
	aggs, err := PeriodAggregates(ds, Month)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if aggs[0].ReturnRate.Valid {
		t.Error("return rate over a zero first close must be undefined")
	}
}

func TestPeriodAggregates_InvalidGranularity(t *testing.T) {
	ds := datasetOf(closeSeries("AAPL", day(2020, time.January, 6), 10))
	if _, err := PeriodAggregates(ds, Granularity("quarter")); err == nil {
		t.Error("expected invalid-argument error for granularity quarter")
	}
}

func TestParseGranularity(t *testing.T) {
	for _, ok := range []string{"week", "month", "year"} {
		if _, err := ParseGranularity(ok); err != nil {
			t.Errorf("ParseGranularity(%q): unexpected error %v", ok, err)
		}
	}
	for _, bad := range []string{"quarter", "day", "", "Month"} {
		if _, err := ParseGranularity(bad); err == nil {
			t.Errorf("ParseGranularity(%q): expected error", bad)
		}
	}
}
