package analysis

import (
	"fmt"
	"time"

	"StockLens/internal/dataset"
	"StockLens/internal/model"
)

// BestPerformer filters rows to the calendar period containing start
// (its month or its year) and returns the symbol with the maximum period
// return rate. Ties resolve to the lexicographically smallest symbol.
// An unsupported granularity is an invalid argument; a period with no
// rows, or with no computable return rate, reports ErrNoData rather than
// fabricating a result.
func BestPerformer(ds *dataset.Dataset, start time.Time, g Granularity) (model.PeriodAggregate, error) {
	if g != Month && g != Year {
		return model.PeriodAggregate{}, fmt.Errorf("best performer supports month or year granularity, got %q", g)
	}

	var filtered []model.Row
	for _, r := range ds.SortedRows() {
		if r.Year != start.Year() {
			continue
		}
		if g == Month && r.Month != int(start.Month()) {
			continue
		}
		filtered = append(filtered, r)
	}
	if len(filtered) == 0 {
		return model.PeriodAggregate{}, fmt.Errorf("no rows in %s period of %s: %w",
			g, start.Format("2006-01-02"), ErrNoData)
	}

	aggs, err := PeriodAggregates(dataset.FromRows(filtered), g)
	if err != nil {
		return model.PeriodAggregate{}, err
	}

	// aggs are ordered by symbol, so a strict comparison keeps the
	// lexicographically smallest symbol on ties.
	var best model.PeriodAggregate
	found := false
	for _, a := range aggs {
		if !a.ReturnRate.Valid {
			continue
		}
		if !found || a.ReturnRate.Float64 > best.ReturnRate.Float64 {
			best = a
			found = true
		}
	}
	if !found {
		return model.PeriodAggregate{}, fmt.Errorf("no computable return rate in %s period of %s: %w",
			g, start.Format("2006-01-02"), ErrNoData)
	}
	return best, nil
}
