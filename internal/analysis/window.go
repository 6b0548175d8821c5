package analysis

import (
	"fmt"

	"github.com/guregu/null/v6"

	"StockLens/internal/dataset"
	"StockLens/internal/model"
)

// WithWindowColumns returns a new Dataset, ordered by (symbol, date),
// with PrevClose and DailyReturn filled in within each symbol partition.
// The first row of a partition has no previous close and an undefined
// daily return; a zero previous close also leaves the return undefined.
// Windowing never crosses symbol boundaries, and re-running the stage on
// its own output changes nothing.
func WithWindowColumns(ds *dataset.Dataset) *dataset.Dataset {
	rows := ds.SortedRows()
	for i := range rows {
		if i == 0 || rows[i].Symbol != rows[i-1].Symbol {
			rows[i].PrevClose = null.Float{}
			rows[i].DailyReturn = null.Float{}
			continue
		}
		prev := rows[i-1].Close
		rows[i].PrevClose = null.FloatFrom(prev)
		if prev == 0 {
			rows[i].DailyReturn = null.Float{}
		} else {
			rows[i].DailyReturn = null.FloatFrom((rows[i].Close - prev) / prev)
		}
	}
	return dataset.FromRows(rows)
}

// WithMovingAverage returns a new Dataset carrying the trailing n-point
// mean of the named field, current row inclusive, within each symbol
// partition. Rows before the nth average over however many rows exist;
// nothing is padded and no forward-looking value participates. Undefined
// values of nullable fields are skipped, and a window with no defined
// value yields an undefined average.
func WithMovingAverage(ds *dataset.Dataset, field string, n int) (*dataset.Dataset, error) {
	if n <= 0 {
		return nil, fmt.Errorf("moving average window must be positive, got %d", n)
	}
	if !model.IsNumericField(field) {
		return nil, fmt.Errorf("unknown numeric field %q", field)
	}

	name := model.MovingAvgName(field, n)
	rows := ds.SortedRows()
	partStart := 0
	for i := range rows {
		if i == 0 || rows[i].Symbol != rows[i-1].Symbol {
			partStart = i
		}
		lo := i - n + 1
		if lo < partStart {
			lo = partStart
		}
		sum, count := 0.0, 0
		for j := lo; j <= i; j++ {
			v, _ := rows[j].Field(field)
			if v.Valid {
				sum += v.Float64
				count++
			}
		}
		if rows[i].MovingAvg == nil {
			rows[i].MovingAvg = make(map[string]null.Float, 1)
		}
		if count == 0 {
			rows[i].MovingAvg[name] = null.Float{}
		} else {
			rows[i].MovingAvg[name] = null.FloatFrom(sum / float64(count))
		}
	}
	return dataset.FromRows(rows), nil
}

// MovingAverageMeans computes each symbol's unweighted mean of the
// moving-average column for the given field and window, ordered by
// symbol. The column must already exist on the dataset (WithMovingAverage
// ran with the same arguments); undefined values are excluded from the
// mean, and a symbol with no defined value carries an undefined mean.
func MovingAverageMeans(ds *dataset.Dataset, field string, n int) ([]model.MovingAvgMean, error) {
	if n <= 0 {
		return nil, fmt.Errorf("moving average window must be positive, got %d", n)
	}
	if !model.IsNumericField(field) {
		return nil, fmt.Errorf("unknown numeric field %q", field)
	}

	name := model.MovingAvgName(field, n)
	sums := make(map[string]*struct {
		sum   float64
		count int
	})
	var order []string
	for _, r := range ds.SortedRows() {
		s, ok := sums[r.Symbol]
		if !ok {
			s = &struct {
				sum   float64
				count int
			}{}
			sums[r.Symbol] = s
			order = append(order, r.Symbol)
		}
		if ma, ok := r.MovingAvg[name]; ok && ma.Valid {
			s.sum += ma.Float64
			s.count++
		}
	}

	out := make([]model.MovingAvgMean, 0, len(order))
	for _, sym := range order {
		m := model.MovingAvgMean{Symbol: sym, Column: name}
		if s := sums[sym]; s.count > 0 {
			m.Mean = null.FloatFrom(s.sum / float64(s.count))
		}
		out = append(out, m)
	}
	return out, nil
}
