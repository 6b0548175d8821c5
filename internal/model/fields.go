package model

import (
	"fmt"

	"github.com/guregu/null/v6"
)

// Numeric field names accepted as operation parameters.
const (
	FieldOpen        = "open"
	FieldHigh        = "high"
	FieldLow         = "low"
	FieldClose       = "close"
	FieldVolume      = "volume"
	FieldPrevClose   = "prev_close"
	FieldDailyReturn = "daily_return"
)

// BaseFields are the raw OHLCV columns, always defined on every row.
func BaseFields() []string {
	return []string{FieldOpen, FieldHigh, FieldLow, FieldClose, FieldVolume}
}

// NumericFields are all known numeric columns, base and derived.
func NumericFields() []string {
	return []string{
		FieldOpen, FieldHigh, FieldLow, FieldClose, FieldVolume,
		FieldPrevClose, FieldDailyReturn,
	}
}

// IsNumericField reports whether name is a known numeric column.
func IsNumericField(name string) bool {
	for _, f := range NumericFields() {
		if f == name {
			return true
		}
	}
	return false
}

// Field returns the named numeric column of the row. The second return
// value is false for unknown field names.
func (r Row) Field(name string) (null.Float, bool) {
	switch name {
	case FieldOpen:
		return null.FloatFrom(r.Open), true
	case FieldHigh:
		return null.FloatFrom(r.High), true
	case FieldLow:
		return null.FloatFrom(r.Low), true
	case FieldClose:
		return null.FloatFrom(r.Close), true
	case FieldVolume:
		return null.FloatFrom(r.Volume), true
	case FieldPrevClose:
		return r.PrevClose, true
	case FieldDailyReturn:
		return r.DailyReturn, true
	}
	return null.Float{}, false
}

// MovingAvgName is the column key under which a trailing moving average
// of `field` over `n` points is stored on a Row.
func MovingAvgName(field string, n int) string {
	return fmt.Sprintf("ma_%s_%d", field, n)
}
