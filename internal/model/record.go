package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// PriceRecord is a single daily price observation for one symbol.
// Exactly one record exists per (symbol, date) pair.
type PriceRecord struct {
	Date   time.Time
	Symbol string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Row is one dataset row: a PriceRecord plus derived columns. Derived
// values that may be undefined (a partition's first row has no previous
// close) are carried as null.Float so "undefined" stays distinguishable
// from a computed zero.
type Row struct {
	PriceRecord

	// Calendar fields derived from Date. Week and WeekYear follow
	// ISO 8601, so a late-December date in week 1 carries the next
	// ISO year.
	Year     int
	Month    int
	Week     int
	WeekYear int

	PrevClose   null.Float
	DailyReturn null.Float

	// MovingAvg holds trailing moving averages keyed by
	// MovingAvgName(field, n).
	MovingAvg map[string]null.Float
}

// NewRow builds a Row from a record, filling the calendar fields.
func NewRow(rec PriceRecord) Row {
	r := Row{PriceRecord: rec}
	r.Year = rec.Date.Year()
	r.Month = int(rec.Date.Month())
	r.WeekYear, r.Week = rec.Date.ISOWeek()
	return r
}

// Clone returns a deep copy of the row.
func (r Row) Clone() Row {
	c := r
	if r.MovingAvg != nil {
		c.MovingAvg = make(map[string]null.Float, len(r.MovingAvg))
		for k, v := range r.MovingAvg {
			c.MovingAvg[k] = v
		}
	}
	return c
}
