package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/guregu/null/v6"

	"StockLens/internal/dataset"
	"StockLens/internal/model"
)

// Num formats a possibly undefined statistic, printing "null" instead of
// a fabricated number.
func Num(f null.Float) string {
	if !f.Valid {
		return "null"
	}
	return fmt.Sprintf("%.4f", f.Float64)
}

// PeriodAggregatesTable renders grouped return-rate rows as fixed-width
// text.
func PeriodAggregatesTable(aggs []model.PeriodAggregate) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-8s %-6s %-6s %-5s %12s %12s %12s %12s\n",
		"Symbol", "Year", "Month", "Week", "FirstClose", "LastClose", "ReturnRate%", "AvgReturn"))
	for _, a := range aggs {
		b.WriteString(fmt.Sprintf("%-8s %-6d %-6s %-5s %12.2f %12.2f %12s %12s\n",
			a.Symbol, a.Year, dashZero(a.Month), dashZero(a.Week),
			a.FirstClose, a.LastClose, Num(a.ReturnRate), Num(a.AvgReturn)))
	}
	return b.String()
}

// SummariesTable renders per-symbol close summaries.
func SummariesTable(sums []model.SymbolSummary) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-8s %6s %14s %12s %12s %12s\n",
		"Symbol", "Rows", "TotalClose", "AvgClose", "MinClose", "MaxClose"))
	for _, s := range sums {
		b.WriteString(fmt.Sprintf("%-8s %6d %14.2f %12.2f %12.2f %12.2f\n",
			s.Symbol, s.Rows, s.TotalClose, s.AvgClose, s.MinClose, s.MaxClose))
	}
	return b.String()
}

// StatsTable renders descriptive statistics per numeric field.
func StatsTable(stats []model.FieldStats) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-14s %8s %14s %14s %14s %14s\n",
		"Field", "Count", "Mean", "StdDev", "Min", "Max"))
	for _, s := range stats {
		b.WriteString(fmt.Sprintf("%-14s %8d %14s %14s %14s %14s\n",
			s.Field, s.Count, Num(s.Mean), Num(s.StdDev), Num(s.Min), Num(s.Max)))
	}
	return b.String()
}

// ExtremesTable renders the per-symbol highest daily returns.
func ExtremesTable(extremes []model.ReturnExtreme) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-8s %-12s %12s\n", "Symbol", "Date", "MaxReturn"))
	for _, e := range extremes {
		date := "-"
		if !e.Date.IsZero() {
			date = e.Date.Format("2006-01-02")
		}
		b.WriteString(fmt.Sprintf("%-8s %-12s %12s\n", e.Symbol, date, Num(e.Return)))
	}
	return b.String()
}

// MovingAvgMeansTable renders per-symbol means of a moving-average
// column.
func MovingAvgMeansTable(means []model.MovingAvgMean) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-8s %-16s %12s\n", "Symbol", "Column", "AvgMA"))
	for _, m := range means {
		b.WriteString(fmt.Sprintf("%-8s %-16s %12s\n", m.Symbol, m.Column, Num(m.Mean)))
	}
	return b.String()
}

// CorrelationLine renders a single pairwise correlation result.
func CorrelationLine(res model.CorrelationResult) string {
	return fmt.Sprintf("corr(%s, %s) on %s over %d aligned dates: %s",
		res.SymbolA, res.SymbolB, res.Field, res.SampleSize, Num(res.Coefficient))
}

// MatrixTable renders the field correlation matrix with row and column
// headers.
func MatrixTable(m *model.CorrelationMatrix) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-14s", ""))
	for _, f := range m.Fields {
		b.WriteString(fmt.Sprintf("%-14s", f))
	}
	b.WriteString("\n")
	for i, f := range m.Fields {
		b.WriteString(fmt.Sprintf("%-14s", f))
		for j := range m.Fields {
			c := m.Coefficients[i][j]
			if c.Valid {
				b.WriteString(fmt.Sprintf("%-14.2f", c.Float64))
			} else {
				b.WriteString(fmt.Sprintf("%-14s", "null"))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// BuildReportText summarizes what the builder kept and dropped.
func BuildReportText(report *dataset.BuildReport) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-8s %8s %8s\n", "Symbol", "Loaded", "Dropped"))
	seen := make(map[string]struct{})
	var syms []string
	for sym := range report.Loaded {
		seen[sym] = struct{}{}
		syms = append(syms, sym)
	}
	for sym := range report.Dropped {
		if _, ok := seen[sym]; !ok {
			syms = append(syms, sym)
		}
	}
	sort.Strings(syms)
	for _, sym := range syms {
		b.WriteString(fmt.Sprintf("%-8s %8d %8d\n", sym, report.Loaded[sym], report.Dropped[sym]))
	}
	if len(report.Missing) > 0 {
		var fields []string
		for field := range report.Missing {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		b.WriteString("missing values by field:")
		for _, field := range fields {
			b.WriteString(fmt.Sprintf(" %s=%d", field, report.Missing[field]))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func dashZero(v int) string {
	if v == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", v)
}
