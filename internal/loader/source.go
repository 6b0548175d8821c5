package loader

import "StockLens/internal/model"

// Source supplies raw price records for one symbol. Implementations drop
// rows they cannot coerce to the schema and report how many were lost;
// cells that are merely empty come back as NaN so the dataset builder
// can tally missing values before removing them.
type Source interface {
	Records(symbol string) (recs []model.PriceRecord, dropped int, err error)
	Name() string
}

// MockSource returns fixed in-memory data for development and testing.
type MockSource struct {
	Data    map[string][]model.PriceRecord
	Dropped map[string]int
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) Records(symbol string) ([]model.PriceRecord, int, error) {
	return m.Data[symbol], m.Dropped[symbol], nil
}
