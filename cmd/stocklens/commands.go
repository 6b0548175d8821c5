package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"StockLens/internal/analysis"
	"StockLens/internal/config"
	"StockLens/internal/dataset"
	"StockLens/internal/loader"
	"StockLens/internal/model"
	"StockLens/internal/recorder"
	"StockLens/internal/render"
	"StockLens/internal/scheduler"
	"StockLens/internal/server"
)

var (
	flagPeriod   string
	flagMAField  string
	flagMAWindow int
	flagDate     string
	flagSymbolA  string
	flagSymbolB  string
	flagField    string
	flagMatrix   bool
)

func init() {
	analyzeCmd.Flags().StringVar(&flagPeriod, "period", "month", "aggregation period: week, month or year")
	analyzeCmd.Flags().StringVar(&flagMAField, "ma-field", model.FieldClose, "field for the moving average column")
	analyzeCmd.Flags().IntVar(&flagMAWindow, "ma-window", 5, "moving average window length")

	bestCmd.Flags().StringVar(&flagDate, "date", "", "start date (YYYY-MM-DD) selecting the period")
	bestCmd.Flags().StringVar(&flagPeriod, "period", "month", "period granularity: month or year")

	correlateCmd.Flags().StringVar(&flagSymbolA, "symbol-a", "", "first symbol")
	correlateCmd.Flags().StringVar(&flagSymbolB, "symbol-b", "", "second symbol")
	correlateCmd.Flags().StringVar(&flagField, "field", model.FieldClose, "numeric field to correlate")
	correlateCmd.Flags().BoolVar(&flagMatrix, "matrix", false, "print the field correlation matrix instead")
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Load the dataset and print summary, window and period analytics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, ds, report, err := loadDataset()
		if err != nil {
			return err
		}
		g, err := analysis.ParseGranularity(flagPeriod)
		if err != nil {
			return err
		}

		ds = analysis.WithWindowColumns(ds)
		ds, err = analysis.WithMovingAverage(ds, flagMAField, flagMAWindow)
		if err != nil {
			return err
		}

		fmt.Println("== Load report ==")
		fmt.Print(render.BuildReportText(report))
		if period, err := analysis.DeducePeriod(ds); err == nil {
			fmt.Printf("most common sampling period: %d day(s)\n", period)
		}

		fmt.Println("\n== Close price summary ==")
		fmt.Print(render.SummariesTable(analysis.SymbolSummaries(ds)))

		fmt.Println("\n== Descriptive statistics ==")
		fmt.Print(render.StatsTable(analysis.DescriptiveStats(ds)))

		fmt.Println("\n== Highest daily returns ==")
		fmt.Print(render.ExtremesTable(analysis.MaxDailyReturns(ds)))

		maMeans, err := analysis.MovingAverageMeans(ds, flagMAField, flagMAWindow)
		if err != nil {
			return err
		}
		fmt.Printf("\n== %d-point moving average of %s ==\n", flagMAWindow, flagMAField)
		fmt.Print(render.MovingAvgMeansTable(maMeans))

		aggs, err := analysis.PeriodAggregates(ds, g)
		if err != nil {
			return err
		}
		fmt.Printf("\n== %s aggregates ==\n", g)
		fmt.Print(render.PeriodAggregatesTable(aggs))

		rec := openRecorder(cfg)
		defer rec.Close()
		run := recorder.NewRun("period_aggregates", fmt.Sprintf("period=%s", g))
		if err := rec.RecordRun(run); err == nil {
			if err := rec.RecordPeriodAggregates(run.ID, aggs); err != nil {
				log.Printf("[WARN] record aggregates: %v", err)
			}
		}
		return nil
	},
}

var bestCmd = &cobra.Command{
	Use:   "best",
	Short: "Find the symbol with the best return rate in a month or year",
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := time.Parse("2006-01-02", flagDate)
		if err != nil {
			return fmt.Errorf("invalid --date %q, want YYYY-MM-DD", flagDate)
		}
		cfg, ds, _, err := loadDataset()
		if err != nil {
			return err
		}

		best, err := analysis.BestPerformer(ds, start, analysis.Granularity(flagPeriod))
		if errors.Is(err, analysis.ErrNoData) {
			fmt.Printf("no data for the requested period: %v\n", err)
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Print(render.PeriodAggregatesTable([]model.PeriodAggregate{best}))

		rec := openRecorder(cfg)
		defer rec.Close()
		run := recorder.NewRun("best_performer", fmt.Sprintf("date=%s period=%s", flagDate, flagPeriod))
		if err := rec.RecordRun(run); err == nil {
			if err := rec.RecordBestPerformer(run.ID, start, best); err != nil {
				log.Printf("[WARN] record best performer: %v", err)
			}
		}
		return nil
	},
}

var correlateCmd = &cobra.Command{
	Use:   "correlate",
	Short: "Correlate a field between two symbols, or print the field matrix",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, ds, _, err := loadDataset()
		if err != nil {
			return err
		}
		ds = analysis.WithWindowColumns(ds)

		if flagMatrix {
			fmt.Print(render.MatrixTable(analysis.CorrelationMatrix(ds)))
			return nil
		}
		if flagSymbolA == "" || flagSymbolB == "" {
			return fmt.Errorf("--symbol-a and --symbol-b are required (or use --matrix)")
		}

		res, err := analysis.CorrelateSymbols(ds, flagSymbolA, flagSymbolB, flagField)
		if err != nil {
			return err
		}
		fmt.Println(render.CorrelationLine(res))

		rec := openRecorder(cfg)
		defer rec.Close()
		run := recorder.NewRun("correlation", fmt.Sprintf("a=%s b=%s field=%s", flagSymbolA, flagSymbolB, flagField))
		if err := rec.RecordRun(run); err == nil {
			if err := rec.RecordCorrelation(run.ID, res); err != nil {
				log.Printf("[WARN] record correlation: %v", err)
			}
		}
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive analysis form",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, ds, report, err := loadDataset()
		if err != nil {
			return err
		}
		log.Printf("[INFO] dataset loaded: %d rows, %d dropped", ds.Len(), report.TotalDropped())

		rec := openRecorder(cfg)
		defer rec.Close()

		srv := server.New(ds, rec)

		reloader := scheduler.NewReloader(func() (*dataset.Dataset, *dataset.BuildReport, error) {
			return dataset.Build(loader.NewCSVSource(cfg.Data.Dir), cfg.Symbols)
		}, srv.Swap)
		if err := reloader.Register(cfg.Server.ReloadCron); err != nil {
			return err
		}
		reloader.Start()
		defer reloader.Stop()

		httpSrv := &http.Server{Addr: cfg.Server.Addr, Handler: srv.Router()}
		go func() {
			log.Printf("[INFO] listening on %s", cfg.Server.Addr)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("[FATAL] http server: %v", err)
			}
		}()

		// Wait for shutdown signal
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Println("[INFO] shutdown signal received, stopping...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(ctx); err != nil {
			log.Printf("[WARN] http shutdown: %v", err)
		}
		log.Println("[INFO] StockLens stopped")
		return nil
	},
}

// loadDataset reads config and builds the dataset from the CSV directory.
func loadDataset() (*config.Config, *dataset.Dataset, *dataset.BuildReport, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("config validation: %w", err)
	}

	src := loader.NewCSVSource(cfg.Data.Dir)
	ds, report, err := dataset.Build(src, cfg.Symbols)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("build dataset: %w", err)
	}
	return cfg, ds, report, nil
}

// openRecorder returns the SQLite recorder when configured, falling back
// to a no-op.
func openRecorder(cfg *config.Config) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	rec, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		return recorder.NewNoopRecorder()
	}
	return rec
}
