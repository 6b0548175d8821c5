package recorder

import (
	"time"

	"github.com/google/uuid"

	"StockLens/internal/model"
)

// AnalysisRun identifies one invocation of an engine operation. Every
// persisted row is keyed by the run's ID so a report can be re-read as a
// unit.
type AnalysisRun struct {
	ID     string
	Kind   string // "period_aggregates", "correlation", "best_performer"
	Params string
}

// NewRun creates a run with a fresh UUID.
func NewRun(kind, params string) *AnalysisRun {
	return &AnalysisRun{ID: uuid.NewString(), Kind: kind, Params: params}
}

// Recorder persists computed analytics for later inspection. The engine
// itself never writes files; callers hand finished tables to a Recorder.
type Recorder interface {
	RecordRun(run *AnalysisRun) error
	RecordPeriodAggregates(runID string, aggs []model.PeriodAggregate) error
	RecordCorrelation(runID string, res model.CorrelationResult) error
	RecordBestPerformer(runID string, start time.Time, best model.PeriodAggregate) error
	Close() error
}
