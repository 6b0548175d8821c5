package analysis

import (
	"testing"
	"time"

	"StockLens/internal/model"
)

func TestCorrelateSymbols_PositivelyCorrelatedPair(t *testing.T) {
	ds := datasetOf(
		closeSeries("AAPL", day(2020, time.January, 6), 100, 102, 101, 105),
		closeSeries("MSFT", day(2020, time.January, 6), 50, 51, 50.5, 52),
	)

	res, err := CorrelateSymbols(ds, "AAPL", "MSFT", model.FieldClose)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.SampleSize != 4 {
		t.Errorf("sample size = %d, want 4", res.SampleSize)
	}
	if !res.Coefficient.Valid || res.Coefficient.Float64 <= 0.9 {
		t.Errorf("coefficient = %v, want > 0.9", res.Coefficient)
	}
	if res.Coefficient.Float64 > 1.0 {
		t.Errorf("coefficient %v exceeds 1.0", res.Coefficient.Float64)
	}
}

func TestCorrelateSymbols_Symmetric(t *testing.T) {
	ds := datasetOf(
		closeSeries("AAPL", day(2020, time.January, 6), 100, 102, 101, 105),
		closeSeries("MSFT", day(2020, time.January, 6), 50, 48, 50.5, 47),
	)

	ab, err := CorrelateSymbols(ds, "AAPL", "MSFT", model.FieldClose)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ba, err := CorrelateSymbols(ds, "MSFT", "AAPL", model.FieldClose)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ab.Coefficient != ba.Coefficient {
		t.Errorf("corr(A,B)=%v but corr(B,A)=%v", ab.Coefficient, ba.Coefficient)
	}
}

func TestCorrelateSymbols_InnerJoinByDate(t *testing.T) {
	a := closeSeries("AAPL", day(2020, time.January, 6), 100, 102, 101)
	// MSFT starts one day later, so only two dates overlap.
	b := closeSeries("MSFT", day(2020, time.January, 7), 50, 51, 52)

	res, err := CorrelateSymbols(datasetOf(a, b), "AAPL", "MSFT", model.FieldClose)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.SampleSize != 2 {
		t.Errorf("sample size = %d, want 2 (inner join)", res.SampleSize)
	}
}

func TestCorrelateSymbols_Undefined(t *testing.T) {
	tests := []struct {
		name   string
		a, b   []float64
		offset int
	}{
		{name: "single aligned point", a: []float64{100, 101}, b: []float64{50}, offset: 1},
		{name: "zero variance", a: []float64{100, 100, 100}, b: []float64{50, 51, 52}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := datasetOf(
				closeSeries("AAPL", day(2020, time.January, 6), tt.a...),
				closeSeries("MSFT", day(2020, time.January, 6+tt.offset), tt.b...),
			)
			res, err := CorrelateSymbols(ds, "AAPL", "MSFT", model.FieldClose)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Coefficient.Valid {
				t.Errorf("expected undefined coefficient, got %v", res.Coefficient.Float64)
			}
		})
	}
}

func TestCorrelateSymbols_UnknownField(t *testing.T) {
	ds := datasetOf(closeSeries("AAPL", day(2020, time.January, 6), 100))
	if _, err := CorrelateSymbols(ds, "AAPL", "MSFT", "adj_close"); err == nil {
		t.Error("expected invalid-argument error for unknown field")
	}
}

func TestCorrelateSymbols_MissingSymbolIsUndefinedNotError(t *testing.T) {
	ds := datasetOf(closeSeries("AAPL", day(2020, time.January, 6), 100, 101))
	res, err := CorrelateSymbols(ds, "AAPL", "NOPE", model.FieldClose)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.SampleSize != 0 || res.Coefficient.Valid {
		t.Errorf("expected empty undefined result, got %+v", res)
	}
}

func TestCorrelationMatrix_DiagonalAndSymmetry(t *testing.T) {
	ds := WithWindowColumns(datasetOf(
		closeSeries("AAPL", day(2020, time.January, 6), 100, 102, 101, 105),
		closeSeries("MSFT", day(2020, time.January, 6), 50, 51, 50.5, 52),
	))

	m := CorrelationMatrix(ds)
	if len(m.Fields) != len(model.NumericFields()) {
		t.Fatalf("fields = %v", m.Fields)
	}
	for i := range m.Fields {
		d := m.Coefficients[i][i]
		if !d.Valid || d.Float64 != 1.0 {
			t.Errorf("diagonal [%s] = %v, want exactly 1.0", m.Fields[i], d)
		}
		for j := range m.Fields {
			if m.Coefficients[i][j] != m.Coefficients[j][i] {
				t.Errorf("matrix not symmetric at (%s, %s)", m.Fields[i], m.Fields[j])
			}
		}
	}
}

func TestCorrelationMatrix_UndefinedDerivedFieldsWithoutWindowStage(t *testing.T) {
	ds := datasetOf(closeSeries("AAPL", day(2020, time.January, 6), 100, 102))
	m := CorrelationMatrix(ds)

	idx := -1
	for i, f := range m.Fields {
		if f == model.FieldPrevClose {
			idx = i
		}
	}
	if idx == -1 {
		t.Fatal("prev_close missing from matrix fields")
	}
	if m.Coefficients[idx][idx].Valid {
		t.Error("diagonal of an all-undefined field should be undefined, not 1.0")
	}
}
