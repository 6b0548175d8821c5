package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/guregu/null/v6"
	_ "modernc.org/sqlite"

	"StockLens/internal/model"
)

// SQLiteRecorder persists analysis output to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so readers can inspect reports while a run is writing.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_runs (
			run_id     TEXT PRIMARY KEY,
			kind       TEXT NOT NULL,
			params     TEXT,
			created_at INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS period_aggregates (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id           TEXT NOT NULL,
			symbol           TEXT NOT NULL,
			granularity      TEXT NOT NULL,
			year             INTEGER,
			month            INTEGER,
			week             INTEGER,
			first_close      REAL,
			last_close       REAL,
			return_rate      REAL,
			avg_open         REAL,
			avg_close        REAL,
			avg_daily_return REAL,
			row_count        INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_period_run ON period_aggregates(run_id)`,

		`CREATE TABLE IF NOT EXISTS correlations (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT NOT NULL,
			field       TEXT NOT NULL,
			symbol_a    TEXT NOT NULL,
			symbol_b    TEXT NOT NULL,
			sample_size INTEGER,
			coefficient REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_corr_run ON correlations(run_id)`,

		`CREATE TABLE IF NOT EXISTS best_performers (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT NOT NULL,
			start_date  TEXT NOT NULL,
			granularity TEXT NOT NULL,
			symbol      TEXT NOT NULL,
			return_rate REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_best_run ON best_performers(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(run *AnalysisRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO analysis_runs (run_id, kind, params, created_at)
		VALUES (?,?,?,?)`,
		run.ID, run.Kind, run.Params, time.Now().Unix(),
	)
	return err
}

func (r *SQLiteRecorder) RecordPeriodAggregates(runID string, aggs []model.PeriodAggregate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	for _, a := range aggs {
		if _, err := tx.Exec(`INSERT INTO period_aggregates
			(run_id, symbol, granularity, year, month, week,
			 first_close, last_close, return_rate, avg_open, avg_close, avg_daily_return, row_count)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			runID, a.Symbol, a.Granularity, a.Year, a.Month, a.Week,
			a.FirstClose, a.LastClose, nullArg(a.ReturnRate),
			a.AvgOpen, a.AvgClose, nullArg(a.AvgReturn), a.Rows,
		); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) RecordCorrelation(runID string, res model.CorrelationResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO correlations
		(run_id, field, symbol_a, symbol_b, sample_size, coefficient)
		VALUES (?,?,?,?,?,?)`,
		runID, res.Field, res.SymbolA, res.SymbolB, res.SampleSize, nullArg(res.Coefficient),
	)
	return err
}

func (r *SQLiteRecorder) RecordBestPerformer(runID string, start time.Time, best model.PeriodAggregate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO best_performers
		(run_id, start_date, granularity, symbol, return_rate)
		VALUES (?,?,?,?,?)`,
		runID, start.Format("2006-01-02"), best.Granularity, best.Symbol, nullArg(best.ReturnRate),
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

// nullArg maps an undefined statistic to SQL NULL instead of a bogus 0.
func nullArg(f null.Float) any {
	if f.Valid {
		return f.Float64
	}
	return nil
}
