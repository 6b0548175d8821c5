package analysis

import (
	"errors"
	"fmt"

	"github.com/guregu/null/v6"

	"StockLens/internal/dataset"
	"StockLens/internal/model"
)

// Granularity selects a calendar grouping for period aggregation.
type Granularity string

const (
	Week  Granularity = "week"
	Month Granularity = "month"
	Year  Granularity = "year"
)

// ErrNoData marks a filter that matched zero rows, distinguishable from
// any computed result.
var ErrNoData = errors.New("no rows match the requested filter")

// ParseGranularity validates a user-supplied period string.
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(s) {
	case Week, Month, Year:
		return Granularity(s), nil
	}
	return "", fmt.Errorf("unsupported period granularity %q (want week, month or year)", s)
}

type periodKey struct {
	symbol     string
	year, unit int
}

// PeriodAggregates groups rows by symbol and calendar period and
// computes first/last close, the period return rate, and unweighted
// means of open, close and daily return (undefined daily returns are
// excluded from the mean). Week and month periods are scoped by year so
// the same week number of different years never merges; week keys use
// the ISO year. First and last are chronological, with rows sharing a
// date kept in stable input order.
func PeriodAggregates(ds *dataset.Dataset, g Granularity) ([]model.PeriodAggregate, error) {
	if _, err := ParseGranularity(string(g)); err != nil {
		return nil, err
	}

	groups := make(map[periodKey]*model.PeriodAggregate)
	sums := make(map[periodKey]*periodSums)
	var order []periodKey

	for _, r := range ds.SortedRows() {
		key := keyFor(r, g)
		agg, ok := groups[key]
		if !ok {
			agg = &model.PeriodAggregate{
				Symbol:      r.Symbol,
				Granularity: string(g),
				Year:        key.year,
				FirstClose:  r.Close,
			}
			switch g {
			case Month:
				agg.Month = key.unit
			case Week:
				agg.Week = key.unit
			}
			groups[key] = agg
			sums[key] = &periodSums{}
			order = append(order, key)
		}
		agg.LastClose = r.Close
		agg.Rows++
		s := sums[key]
		s.open += r.Open
		s.closeP += r.Close
		if r.DailyReturn.Valid {
			s.ret += r.DailyReturn.Float64
			s.retN++
		}
	}

	out := make([]model.PeriodAggregate, 0, len(order))
	for _, key := range order {
		agg := groups[key]
		s := sums[key]
		agg.AvgOpen = s.open / float64(agg.Rows)
		agg.AvgClose = s.closeP / float64(agg.Rows)
		if s.retN > 0 {
			agg.AvgReturn = null.FloatFrom(s.ret / float64(s.retN))
		}
		if agg.FirstClose != 0 {
			agg.ReturnRate = null.FloatFrom((agg.LastClose - agg.FirstClose) / agg.FirstClose * 100)
		}
		out = append(out, *agg)
	}
	return out, nil
}

type periodSums struct {
	open, closeP, ret float64
	retN              int
}

func keyFor(r model.Row, g Granularity) periodKey {
	switch g {
	case Week:
		return periodKey{symbol: r.Symbol, year: r.WeekYear, unit: r.Week}
	case Month:
		return periodKey{symbol: r.Symbol, year: r.Year, unit: r.Month}
	default:
		return periodKey{symbol: r.Symbol, year: r.Year}
	}
}
