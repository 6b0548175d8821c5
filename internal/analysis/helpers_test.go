package analysis

import (
	"time"

	"StockLens/internal/dataset"
	"StockLens/internal/model"
)

// closeSeries builds sequential daily records for one symbol starting at
// start, with open/high/low derived from each close.
func closeSeries(symbol string, start time.Time, closes ...float64) []model.PriceRecord {
	recs := make([]model.PriceRecord, len(closes))
	for i, c := range closes {
		recs[i] = model.PriceRecord{
			Date:   start.AddDate(0, 0, i),
			Symbol: symbol,
			Open:   c * 0.99,
			High:   c * 1.01,
			Low:    c * 0.98,
			Close:  c,
			Volume: 1_000_000,
		}
	}
	return recs
}

func datasetOf(series ...[]model.PriceRecord) *dataset.Dataset {
	var recs []model.PriceRecord
	for _, s := range series {
		recs = append(recs, s...)
	}
	return dataset.FromRecords(recs)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
