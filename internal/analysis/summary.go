package analysis

import (
	"math"
	"sort"

	"github.com/guregu/null/v6"

	"StockLens/internal/dataset"
	"StockLens/internal/model"
)

// SymbolSummaries computes total, mean, minimum and maximum closing
// price per symbol, ordered by symbol.
func SymbolSummaries(ds *dataset.Dataset) []model.SymbolSummary {
	bysym := make(map[string]*model.SymbolSummary)
	var order []string
	for _, r := range ds.SortedRows() {
		s, ok := bysym[r.Symbol]
		if !ok {
			s = &model.SymbolSummary{Symbol: r.Symbol, MinClose: r.Close, MaxClose: r.Close}
			bysym[r.Symbol] = s
			order = append(order, r.Symbol)
		}
		s.Rows++
		s.TotalClose += r.Close
		if r.Close < s.MinClose {
			s.MinClose = r.Close
		}
		if r.Close > s.MaxClose {
			s.MaxClose = r.Close
		}
	}

	out := make([]model.SymbolSummary, 0, len(order))
	for _, sym := range order {
		s := bysym[sym]
		s.AvgClose = s.TotalClose / float64(s.Rows)
		out = append(out, *s)
	}
	return out
}

// MaxDailyReturns returns each symbol's highest daily return with the
// date it occurred on, ordered by symbol. Symbols with no defined daily
// return carry an undefined value.
func MaxDailyReturns(ds *dataset.Dataset) []model.ReturnExtreme {
	bysym := make(map[string]*model.ReturnExtreme)
	var order []string
	for _, r := range ds.SortedRows() {
		e, ok := bysym[r.Symbol]
		if !ok {
			e = &model.ReturnExtreme{Symbol: r.Symbol}
			bysym[r.Symbol] = e
			order = append(order, r.Symbol)
		}
		if r.DailyReturn.Valid && (!e.Return.Valid || r.DailyReturn.Float64 > e.Return.Float64) {
			e.Return = r.DailyReturn
			e.Date = r.Date
		}
	}

	out := make([]model.ReturnExtreme, 0, len(order))
	for _, sym := range order {
		out = append(out, *bysym[sym])
	}
	return out
}

// TopDailyReturn finds the single highest daily return across all
// symbols. Ties resolve to the lexicographically smallest symbol.
func TopDailyReturn(ds *dataset.Dataset) (model.ReturnExtreme, error) {
	var best model.ReturnExtreme
	for _, e := range MaxDailyReturns(ds) {
		if !e.Return.Valid {
			continue
		}
		if !best.Return.Valid || e.Return.Float64 > best.Return.Float64 {
			best = e
		}
	}
	if !best.Return.Valid {
		return model.ReturnExtreme{}, ErrNoData
	}
	return best, nil
}

// DescriptiveStats computes count, mean, sample standard deviation,
// minimum and maximum for every numeric field over defined values only.
func DescriptiveStats(ds *dataset.Dataset) []model.FieldStats {
	rows := ds.Rows()
	out := make([]model.FieldStats, 0, len(model.NumericFields()))
	for _, field := range model.NumericFields() {
		var vals []float64
		for _, r := range rows {
			if v, _ := r.Field(field); v.Valid {
				vals = append(vals, v.Float64)
			}
		}
		out = append(out, fieldStats(field, vals))
	}
	return out
}

func fieldStats(field string, vals []float64) model.FieldStats {
	st := model.FieldStats{Field: field, Count: len(vals)}
	if len(vals) == 0 {
		return st
	}

	min, max, sum := vals[0], vals[0], 0.0
	for _, v := range vals {
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	mean := sum / float64(len(vals))
	st.Mean = null.FloatFrom(mean)
	st.Min = null.FloatFrom(min)
	st.Max = null.FloatFrom(max)

	if len(vals) >= 2 {
		var ss float64
		for _, v := range vals {
			d := v - mean
			ss += d * d
		}
		st.StdDev = null.FloatFrom(math.Sqrt(ss / float64(len(vals)-1)))
	}
	return st
}

// DeducePeriod reports the most common gap, in days, between consecutive
// observations within a symbol partition. For clean daily equity data
// this is 1 (weekends and holidays produce larger, rarer gaps). Requires
// at least one consecutive pair.
func DeducePeriod(ds *dataset.Dataset) (int, error) {
	counts := make(map[int]int)
	rows := ds.SortedRows()
	for i := 1; i < len(rows); i++ {
		if rows[i].Symbol != rows[i-1].Symbol {
			continue
		}
		days := int(rows[i].Date.Sub(rows[i-1].Date).Hours() / 24)
		counts[days]++
	}
	if len(counts) == 0 {
		return 0, ErrNoData
	}

	gaps := make([]int, 0, len(counts))
	for g := range counts {
		gaps = append(gaps, g)
	}
	// Smallest gap wins a tie so a 50/50 split between trading days and
	// weekend jumps still reads as daily data.
	sort.Ints(gaps)
	best, bestCount := gaps[0], counts[gaps[0]]
	for _, g := range gaps[1:] {
		if counts[g] > bestCount {
			best, bestCount = g, counts[g]
		}
	}
	return best, nil
}
