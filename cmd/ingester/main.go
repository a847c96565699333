package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aluiziolira/go-ingest-books/config"
	"github.com/aluiziolira/go-ingest-books/models"
	"github.com/aluiziolira/go-ingest-books/pipeline"
	"github.com/aluiziolira/go-ingest-books/scraper"
	"github.com/aluiziolira/go-ingest-books/store"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	defaultCfg := config.DefaultConfig()
	pagesDefault := defaultCfg.MaxPages
	if value, ok, err := config.EnvInt("INGEST_MAX_PAGES"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid INGEST_MAX_PAGES: %v\n", err)
		os.Exit(1)
	} else if ok {
		pagesDefault = value
	}
	dbDefault := defaultCfg.DBPath
	if value, ok := config.EnvString("INGEST_DB"); ok {
		dbDefault = value
	}
	metricsDefault := defaultCfg.MetricsAddr
	if value, ok := config.EnvString("INGEST_METRICS_ADDR"); ok {
		metricsDefault = value
	}

	baseURL := flag.String("base-url", defaultCfg.BaseURL, "Catalog base URL")
	directoryURL := flag.String("directory-url", defaultCfg.DirectoryURL, "Publisher directory page URL")
	dbPath := flag.String("db", dbDefault, "SQLite database path")
	maxPages := flag.Int("pages", pagesDefault, "Upper bound on listing pages per publisher")
	timeoutSec := flag.Int("timeout", int(defaultCfg.Timeout/time.Second), "Request timeout (seconds)")
	discover := flag.Bool("discover", false, "Scrape the publisher directory into the seeds table before ingesting")
	exportFile := flag.String("export", "", "Write all stored books to this JSONL file after the run")
	metricsAddr := flag.String("metrics-addr", metricsDefault, "Prometheus metrics listen address (e.g. :9090)")
	verbose := flag.Bool("v", false, "Enable verbose logging")

	flag.Parse()

	logger, _ := newLogger(*verbose)
	slog.SetDefault(logger)

	cfg := config.DefaultConfig()
	cfg.BaseURL = *baseURL
	cfg.DirectoryURL = *directoryURL
	cfg.DBPath = *dbPath
	cfg.MaxPages = *maxPages
	cfg.Timeout = time.Duration(*timeoutSec) * time.Second
	cfg.Discover = *discover
	cfg.ExportFile = *exportFile
	cfg.MetricsAddr = *metricsAddr
	cfg.Verbose = *verbose
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	st, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		slog.Error("initialising store", slog.Any("error", err))
		os.Exit(1)
	}
	if err := st.Connect(); err != nil {
		slog.Error("opening store", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := st.Close(); err != nil {
			slog.Error("close store", slog.Any("error", err))
		}
	}()

	metrics := scraper.NewMetrics()
	fetcher, err := scraper.NewFetcher(cfg, metrics)
	if err != nil {
		slog.Error("initialising fetcher", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received, finishing current item")
	}()

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	if cfg.Discover {
		discoverer := scraper.NewDiscoverer(cfg, fetcher)
		seeds, err := discoverer.Discover()
		if err != nil {
			slog.Error("publisher discovery failed", slog.Any("error", err))
			os.Exit(1)
		}
		for _, seed := range seeds {
			if err := st.InsertPublisher(seed); err != nil {
				slog.Error("store publisher seed", slog.Any("error", err))
				os.Exit(1)
			}
		}
		slog.Info("publisher discovery complete", slog.Int("publishers", len(seeds)))
	}

	slog.Info("starting ingestion",
		slog.String("base_url", cfg.BaseURL),
		slog.String("db", cfg.DBPath),
		slog.Int("max_pages", cfg.MaxPages),
	)

	driver := pipeline.NewDriver(st, scraper.NewLister(cfg, fetcher, metrics), scraper.NewAssembler(fetcher), metrics)
	summary, err := driver.Run(ctx)
	if err != nil {
		slog.Error("ingestion failed", slog.Any("error", err))
		os.Exit(1)
	}

	if cfg.ExportFile != "" {
		count, err := pipeline.ExportJSONL(st, cfg.ExportFile)
		if err != nil {
			slog.Error("export failed", slog.Any("error", err))
			os.Exit(1)
		}
		slog.Info("export complete", slog.String("file", cfg.ExportFile), slog.Int("records", count))
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
		cancel()
	}

	printSummary(summary)
}

func printSummary(summary *models.RunSummary) {
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Println("Ingestion complete")
	fmt.Printf("  Publishers:      %d (failed: %d)\n", summary.Publishers, summary.FailedSeeds)
	fmt.Printf("  Items listed:    %d\n", summary.Listed)
	fmt.Printf("  Added:           %d\n", summary.Added)
	fmt.Printf("  Already present: %d\n", summary.Duplicates)
	fmt.Printf("  Skipped:         %d\n", summary.SkippedItems)
	if len(summary.ErrorsByType) > 0 {
		fmt.Printf("  Error types:     %v\n", summary.ErrorsByType)
	}
	fmt.Printf("  Duration:        %v\n", summary.EndTime.Sub(summary.StartTime))
	fmt.Println(separator)
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
