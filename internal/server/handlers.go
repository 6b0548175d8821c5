package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"

	"StockLens/internal/analysis"
	"StockLens/internal/model"
	"StockLens/internal/recorder"
	rnd "StockLens/internal/render"
)

type pageData struct {
	Symbols string
	Date    string
	Title   string
	Result  string
	Error   string
}

// handleIndex serves the form and, when an analysis is requested through
// it, the resulting table. All analytic work happens in the engine; this
// handler only parses parameters and renders text.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ds := s.current()
	data := pageData{
		Symbols: strings.Join(ds.Symbols(), ", "),
		Date:    time.Now().Format("2006-01-02"),
	}

	switch r.URL.Query().Get("analysis") {
	case "best":
		start, g, err := bestParams(r)
		if err != nil {
			data.Error = err.Error()
			break
		}
		best, err := analysis.BestPerformer(ds, start, g)
		if err != nil {
			data.Error = err.Error()
			break
		}
		s.record(recorder.NewRun("best_performer", r.URL.RawQuery), func(runID string) error {
			return s.rec.RecordBestPerformer(runID, start, best)
		})
		data.Title = "Top-performing stock"
		data.Result = rnd.PeriodAggregatesTable([]model.PeriodAggregate{best})
	case "returns":
		g, err := analysis.ParseGranularity(r.URL.Query().Get("period"))
		if err != nil {
			data.Error = err.Error()
			break
		}
		aggs, err := analysis.PeriodAggregates(analysis.WithWindowColumns(ds), g)
		if err != nil {
			data.Error = err.Error()
			break
		}
		s.record(recorder.NewRun("period_aggregates", r.URL.RawQuery), func(runID string) error {
			return s.rec.RecordPeriodAggregates(runID, aggs)
		})
		data.Title = fmt.Sprintf("%s return rates", g)
		data.Result = rnd.PeriodAggregatesTable(aggs)
	case "correlation":
		q := r.URL.Query()
		res, err := analysis.CorrelateSymbols(ds, q.Get("a"), q.Get("b"), fieldOrClose(q.Get("field")))
		if err != nil {
			data.Error = err.Error()
			break
		}
		s.record(recorder.NewRun("correlation", r.URL.RawQuery), func(runID string) error {
			return s.rec.RecordCorrelation(runID, res)
		})
		data.Title = "Correlation"
		data.Result = rnd.CorrelationLine(res)
	}

	if err := s.page.Execute(w, data); err != nil {
		log.Printf("[ERROR] render index: %v", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{"status": "ok", "rows": s.current().Len()})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ds := analysis.WithWindowColumns(s.current())
	render.JSON(w, r, map[string]any{
		"summaries":   analysis.SymbolSummaries(ds),
		"max_returns": analysis.MaxDailyReturns(ds),
		"stats":       analysis.DescriptiveStats(ds),
	})
}

func (s *Server) handleReturns(w http.ResponseWriter, r *http.Request) {
	g, err := analysis.ParseGranularity(r.URL.Query().Get("period"))
	if err != nil {
		badRequest(w, r, err)
		return
	}
	aggs, err := analysis.PeriodAggregates(analysis.WithWindowColumns(s.current()), g)
	if err != nil {
		badRequest(w, r, err)
		return
	}
	s.record(recorder.NewRun("period_aggregates", r.URL.RawQuery), func(runID string) error {
		return s.rec.RecordPeriodAggregates(runID, aggs)
	})
	render.JSON(w, r, aggs)
}

func (s *Server) handleCorrelation(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := analysis.CorrelateSymbols(s.current(), q.Get("a"), q.Get("b"), fieldOrClose(q.Get("field")))
	if err != nil {
		badRequest(w, r, err)
		return
	}
	s.record(recorder.NewRun("correlation", r.URL.RawQuery), func(runID string) error {
		return s.rec.RecordCorrelation(runID, res)
	})
	render.JSON(w, r, res)
}

func (s *Server) handleMatrix(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, analysis.CorrelationMatrix(analysis.WithWindowColumns(s.current())))
}

func (s *Server) handleBest(w http.ResponseWriter, r *http.Request) {
	start, g, err := bestParams(r)
	if err != nil {
		badRequest(w, r, err)
		return
	}
	best, err := analysis.BestPerformer(s.current(), start, g)
	if errors.Is(err, analysis.ErrNoData) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		badRequest(w, r, err)
		return
	}
	s.record(recorder.NewRun("best_performer", r.URL.RawQuery), func(runID string) error {
		return s.rec.RecordBestPerformer(runID, start, best)
	})
	render.JSON(w, r, best)
}

func bestParams(r *http.Request) (time.Time, analysis.Granularity, error) {
	q := r.URL.Query()
	start, err := time.Parse("2006-01-02", q.Get("date"))
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid date %q, want YYYY-MM-DD", q.Get("date"))
	}
	period := q.Get("period")
	if period != string(analysis.Month) && period != string(analysis.Year) {
		return time.Time{}, "", fmt.Errorf("invalid period %q, want month or year", period)
	}
	return start, analysis.Granularity(period), nil
}

func fieldOrClose(field string) string {
	if field == "" {
		return model.FieldClose
	}
	return field
}

// record persists an analysis run, logging instead of failing the
// request when the recorder is unavailable.
func (s *Server) record(run *recorder.AnalysisRun, save func(runID string) error) {
	if err := s.rec.RecordRun(run); err != nil {
		log.Printf("[WARN] record run %s: %v", run.Kind, err)
		return
	}
	if err := save(run.ID); err != nil {
		log.Printf("[WARN] record %s result: %v", run.Kind, err)
	}
}

func badRequest(w http.ResponseWriter, r *http.Request, err error) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, map[string]string{"error": err.Error()})
}
