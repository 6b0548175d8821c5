package recorder

import (
	"time"

	"StockLens/internal/model"
)

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ *AnalysisRun) error { return nil }
func (n *NoopRecorder) RecordPeriodAggregates(_ string, _ []model.PeriodAggregate) error {
	return nil
}
func (n *NoopRecorder) RecordCorrelation(_ string, _ model.CorrelationResult) error { return nil }
func (n *NoopRecorder) RecordBestPerformer(_ string, _ time.Time, _ model.PeriodAggregate) error {
	return nil
}
func (n *NoopRecorder) Close() error { return nil }
