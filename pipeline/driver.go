// Package pipeline drives the ingestion run: seeds are read from the
// store, each publisher's listing is paginated, every listed item is
// assembled into a full record and persisted idempotently.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aluiziolira/go-ingest-books/models"
	"github.com/aluiziolira/go-ingest-books/scraper"
	"github.com/aluiziolira/go-ingest-books/store"
)

// Driver runs the full crawl sequentially: publishers in seed order,
// items in listing order, one blocking fetch at a time.
type Driver struct {
	store     store.Store
	lister    *scraper.Lister
	assembler *scraper.Assembler
	metrics   *scraper.Metrics
}

// NewDriver wires the pipeline stages together.
func NewDriver(st store.Store, lister *scraper.Lister, assembler *scraper.Assembler, metrics *scraper.Metrics) *Driver {
	return &Driver{
		store:     st,
		lister:    lister,
		assembler: assembler,
		metrics:   metrics,
	}
}

// Run processes every publisher seed in the store. Failures are scoped:
// a listing failure skips that seed, an assembly or insert failure
// skips that item, and the run always continues to the next unit of
// work. Only a failure to read the seeds aborts the run.
func (d *Driver) Run(ctx context.Context) (*models.RunSummary, error) {
	summary := &models.RunSummary{
		StartTime:    time.Now(),
		ErrorsByType: make(map[string]int),
	}

	seeds, err := d.store.Publishers()
	if err != nil {
		return nil, fmt.Errorf("load publisher seeds: %w", err)
	}
	summary.Publishers = len(seeds)

	for _, seed := range seeds {
		if ctx.Err() != nil {
			break
		}
		d.runSeed(ctx, seed, summary)
	}

	summary.EndTime = time.Now()
	return summary, nil
}

func (d *Driver) runSeed(ctx context.Context, seed models.PublisherSeed, summary *models.RunSummary) {
	slog.Info("publisher listing started",
		slog.String("publisher", seed.Name),
		slog.String("url", seed.URL),
	)

	items, err := d.lister.ListItems(seed)
	if err != nil {
		label := scraper.ErrorLabel(err)
		summary.FailedSeeds++
		summary.ErrorsByType[label]++
		d.metrics.IncError(label)
		slog.Error("publisher skipped, listing failed",
			slog.String("publisher", seed.Name),
			slog.Any("error", err),
		)
		return
	}
	summary.Listed += len(items)

	for _, item := range items {
		if ctx.Err() != nil {
			return
		}
		d.runItem(item, summary)
	}
}

func (d *Driver) runItem(item models.ListingItem, summary *models.RunSummary) {
	book, err := d.assembler.Assemble(item)
	if err != nil {
		label := scraper.ErrorLabel(err)
		summary.SkippedItems++
		summary.ErrorsByType[label]++
		d.metrics.IncError(label)
		slog.Warn("item skipped",
			slog.String("url", item.DetailURL),
			slog.String("reason", label),
			slog.Any("error", err),
		)
		return
	}

	outcome, err := d.store.Insert(book)
	if err != nil {
		summary.SkippedItems++
		summary.ErrorsByType["store"]++
		d.metrics.IncError("store")
		slog.Error("item skipped, insert failed",
			slog.String("isbn", book.ISBN),
			slog.Any("error", err),
		)
		return
	}

	d.metrics.IncBook(outcome.String())
	switch outcome {
	case models.OutcomeAdded:
		summary.Added++
		slog.Info("book added",
			slog.String("title", book.Title),
			slog.String("isbn", book.ISBN),
		)
	case models.OutcomeDuplicate:
		summary.Duplicates++
		slog.Info("book already present",
			slog.String("title", book.Title),
			slog.String("isbn", book.ISBN),
		)
	}
}
