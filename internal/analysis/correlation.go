package analysis

import (
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/guregu/null/v6"

	"StockLens/internal/dataset"
	"StockLens/internal/model"
)

// CorrelateSymbols aligns two symbols' series by date (inner join: only
// dates present in both participate) and computes the Pearson
// correlation of the named field. The coefficient is undefined when
// fewer than 2 aligned points exist or either side has zero variance.
func CorrelateSymbols(ds *dataset.Dataset, symbolA, symbolB, field string) (model.CorrelationResult, error) {
	if !model.IsNumericField(field) {
		return model.CorrelationResult{}, fmt.Errorf("unknown numeric field %q", field)
	}

	seriesA := fieldByDate(ds, symbolA, field)
	seriesB := fieldByDate(ds, symbolB, field)

	var dates []time.Time
	for d := range seriesA {
		if _, ok := seriesB[d]; ok {
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	xs := make([]float64, len(dates))
	ys := make([]float64, len(dates))
	for i, d := range dates {
		xs[i] = seriesA[d]
		ys[i] = seriesB[d]
	}

	return model.CorrelationResult{
		Field:       field,
		SymbolA:     symbolA,
		SymbolB:     symbolB,
		SampleSize:  len(dates),
		Coefficient: pearson(xs, ys),
	}, nil
}

// CorrelationMatrix computes the Pearson coefficient for every pair of
// numeric fields across the combined dataset, using pairwise-complete
// rows (a row participates in a cell only when both fields are defined
// on it). The matrix is symmetric with exactly 1.0 on the diagonal for
// any field with at least one defined value. Cells are independent, so
// they fan out across a bounded worker group.
func CorrelationMatrix(ds *dataset.Dataset) *model.CorrelationMatrix {
	fields := model.NumericFields()
	rows := ds.Rows()

	m := &model.CorrelationMatrix{
		Fields:       fields,
		Coefficients: make([][]null.Float, len(fields)),
	}
	for i := range m.Coefficients {
		m.Coefficients[i] = make([]null.Float, len(fields))
	}

	sem := make(chan struct{}, runtime.GOMAXPROCS(0))
	var wg sync.WaitGroup
	for i := range fields {
		for j := i; j < len(fields); j++ {
			wg.Add(1)
			go func(i, j int) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()

				coef := matrixCell(rows, fields[i], fields[j], i == j)
				m.Coefficients[i][j] = coef
				m.Coefficients[j][i] = coef
			}(i, j)
		}
	}
	wg.Wait()
	return m
}

func matrixCell(rows []model.Row, fieldA, fieldB string, diagonal bool) null.Float {
	var xs, ys []float64
	for _, r := range rows {
		a, _ := r.Field(fieldA)
		b, _ := r.Field(fieldB)
		if a.Valid && b.Valid {
			xs = append(xs, a.Float64)
			ys = append(ys, b.Float64)
		}
	}
	if diagonal {
		if len(xs) == 0 {
			return null.Float{}
		}
		return null.FloatFrom(1.0)
	}
	return pearson(xs, ys)
}

// fieldByDate collects a symbol's defined field values keyed by date.
func fieldByDate(ds *dataset.Dataset, symbol, field string) map[time.Time]float64 {
	out := make(map[time.Time]float64)
	for _, r := range ds.Rows() {
		if r.Symbol != symbol {
			continue
		}
		if v, _ := r.Field(field); v.Valid {
			out[r.Date] = v.Float64
		}
	}
	return out
}

// pearson computes the Pearson correlation coefficient of two equally
// sized series, or an undefined value for samples below 2 points or with
// zero variance.
func pearson(xs, ys []float64) null.Float {
	n := len(xs)
	if n < 2 {
		return null.Float{}
	}

	var meanX, meanY float64
	for i := 0; i < n; i++ {
		meanX += xs[i]
		meanY += ys[i]
	}
	meanX /= float64(n)
	meanY /= float64(n)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return null.Float{}
	}

	r := cov / math.Sqrt(varX*varY)
	// Guard against floating-point drift outside [-1, 1].
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return null.FloatFrom(r)
}
