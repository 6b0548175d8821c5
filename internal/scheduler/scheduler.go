package scheduler

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"StockLens/internal/dataset"
)

// Reloader periodically rebuilds the dataset from its sources and hands
// the result to a consumer (the web server swaps its current Dataset).
// A failed reload keeps the previous dataset in place.
type Reloader struct {
	cron  *cron.Cron
	load  func() (*dataset.Dataset, *dataset.BuildReport, error)
	apply func(*dataset.Dataset)
}

// NewReloader creates a Reloader around a load function and an apply
// callback.
func NewReloader(load func() (*dataset.Dataset, *dataset.BuildReport, error), apply func(*dataset.Dataset)) *Reloader {
	return &Reloader{
		cron:  cron.New(cron.WithSeconds()),
		load:  load,
		apply: apply,
	}
}

// Register schedules the reload job on the given cron spec.
func (r *Reloader) Register(spec string) error {
	if _, err := r.cron.AddFunc(spec, r.runOnce); err != nil {
		return fmt.Errorf("register reload task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (r *Reloader) Start() {
	r.cron.Start()
	log.Println("[INFO] reload scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (r *Reloader) Stop() {
	r.cron.Stop()
	log.Println("[INFO] reload scheduler stopped")
}

// RunNow executes the reload immediately (for manual trigger / startup).
func (r *Reloader) RunNow() {
	r.runOnce()
}

func (r *Reloader) runOnce() {
	log.Println("[INFO] reloading dataset")
	ds, report, err := r.load()
	if err != nil {
		log.Printf("[ERROR] dataset reload failed, keeping previous data: %v", err)
		return
	}
	r.apply(ds)
	log.Printf("[INFO] dataset reloaded: %d rows, %d dropped", ds.Len(), report.TotalDropped())
}
