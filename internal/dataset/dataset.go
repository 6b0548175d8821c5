package dataset

import (
	"sort"

	"StockLens/internal/model"
)

// Dataset is an immutable in-memory table of price rows. Transformation
// stages never mutate a Dataset in place; each stage returns a new one,
// so concurrent analyses over the same Dataset are safe.
type Dataset struct {
	rows []model.Row
}

// FromRows wraps rows in a Dataset. The caller hands over ownership of
// the slice.
func FromRows(rows []model.Row) *Dataset {
	return &Dataset{rows: rows}
}

// FromRecords builds a Dataset directly from records, filling calendar
// fields. Mostly useful in tests and tools that bypass the builder.
func FromRecords(recs []model.PriceRecord) *Dataset {
	rows := make([]model.Row, len(recs))
	for i, rec := range recs {
		rows[i] = model.NewRow(rec)
	}
	return &Dataset{rows: rows}
}

func (d *Dataset) Len() int { return len(d.rows) }

// Rows exposes the backing rows as a read-only view. Callers that need
// to modify rows must use SortedRows.
func (d *Dataset) Rows() []model.Row { return d.rows }

// SortedRows returns a deep copy of the rows, stable-sorted by
// (symbol, date). The stable sort preserves input order among rows that
// share a symbol and date, which is the tie-break order used by every
// downstream first/last computation.
func (d *Dataset) SortedRows() []model.Row {
	rows := make([]model.Row, len(d.rows))
	for i, r := range d.rows {
		rows[i] = r.Clone()
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Symbol != rows[j].Symbol {
			return rows[i].Symbol < rows[j].Symbol
		}
		return rows[i].Date.Before(rows[j].Date)
	})
	return rows
}

// Symbols returns the distinct symbols present, sorted.
func (d *Dataset) Symbols() []string {
	seen := make(map[string]struct{})
	var syms []string
	for _, r := range d.rows {
		if _, ok := seen[r.Symbol]; !ok {
			seen[r.Symbol] = struct{}{}
			syms = append(syms, r.Symbol)
		}
	}
	sort.Strings(syms)
	return syms
}

// FilterSymbol returns a new Dataset holding only the given symbol's
// rows, in their current order.
func (d *Dataset) FilterSymbol(symbol string) *Dataset {
	var rows []model.Row
	for _, r := range d.rows {
		if r.Symbol == symbol {
			rows = append(rows, r.Clone())
		}
	}
	return &Dataset{rows: rows}
}
