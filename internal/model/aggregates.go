package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// PeriodAggregate holds grouped statistics for one symbol over one
// calendar period. Month and Week are zero when the granularity does not
// use them. ReturnRate is a percentage and is invalid when the period's
// first close is zero.
type PeriodAggregate struct {
	Symbol      string     `json:"symbol"`
	Granularity string     `json:"granularity"`
	Year        int        `json:"year"`
	Month       int        `json:"month,omitempty"`
	Week        int        `json:"week,omitempty"`
	FirstClose  float64    `json:"first_close"`
	LastClose   float64    `json:"last_close"`
	ReturnRate  null.Float `json:"return_rate"`
	AvgOpen     float64    `json:"avg_open"`
	AvgClose    float64    `json:"avg_close"`
	AvgReturn   null.Float `json:"avg_daily_return"`
	Rows        int        `json:"rows"`
}

// CorrelationResult is the outcome of correlating one numeric field
// between two symbols' date-aligned series. An invalid Coefficient means
// the statistic is not computable (fewer than 2 aligned points, or zero
// variance on either side).
type CorrelationResult struct {
	Field       string     `json:"field"`
	SymbolA     string     `json:"symbol_a"`
	SymbolB     string     `json:"symbol_b"`
	SampleSize  int        `json:"sample_size"`
	Coefficient null.Float `json:"coefficient"`
}

// CorrelationMatrix is a symmetric field-by-field Pearson matrix.
// Coefficients[i][j] correlates Fields[i] with Fields[j].
type CorrelationMatrix struct {
	Fields       []string       `json:"fields"`
	Coefficients [][]null.Float `json:"coefficients"`
}

// MovingAvgMean is the per-symbol mean of one moving-average column.
// Mean is invalid when the symbol has no defined value in that column.
type MovingAvgMean struct {
	Symbol string     `json:"symbol"`
	Column string     `json:"column"`
	Mean   null.Float `json:"mean"`
}

// SymbolSummary aggregates closing prices over a symbol's whole series.
type SymbolSummary struct {
	Symbol     string  `json:"symbol"`
	Rows       int     `json:"rows"`
	TotalClose float64 `json:"total_close"`
	AvgClose   float64 `json:"avg_close"`
	MinClose   float64 `json:"min_close"`
	MaxClose   float64 `json:"max_close"`
}

// FieldStats carries descriptive statistics for one numeric column.
// Count is the number of defined values; Mean is invalid when Count is
// zero and StdDev when Count is below two.
type FieldStats struct {
	Field  string     `json:"field"`
	Count  int        `json:"count"`
	Mean   null.Float `json:"mean"`
	StdDev null.Float `json:"stddev"`
	Min    null.Float `json:"min"`
	Max    null.Float `json:"max"`
}

// ReturnExtreme marks the row with the highest daily return, either for
// one symbol or across the whole dataset. Return is invalid when the
// symbol has no defined daily return.
type ReturnExtreme struct {
	Symbol string     `json:"symbol"`
	Date   time.Time  `json:"date"`
	Return null.Float `json:"daily_return"`
}
