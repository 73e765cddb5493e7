package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/afantini/pagereaper/internal/analyzer"
	"github.com/afantini/pagereaper/internal/batch"
	"github.com/afantini/pagereaper/internal/config"
	"github.com/afantini/pagereaper/internal/fetcher"
	"github.com/afantini/pagereaper/internal/metrics"
	"github.com/afantini/pagereaper/internal/report"
	"github.com/afantini/pagereaper/internal/storage"
	"github.com/afantini/pagereaper/internal/version"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "config.json", "path to JSON configuration file")
	flag.Parse()

	// Configure logging
	logrus.SetLevel(logrus.InfoLevel)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	logrus.Infof("Pagereaper v%s starting...", version.Version)

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	logrus.Infof("Configuration loaded: urls=%d, workers=%d, output_dir=%s",
		len(cfg.URLs), cfg.Workers, cfg.OutputDir)

	// Initialize storage
	store, err := storage.NewStorage(cfg.DBPath)
	if err != nil {
		logrus.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	logrus.Infof("Database initialized: %s", cfg.DBPath)

	// Initialize report writer
	writer, err := report.NewWriter(cfg.OutputDir)
	if err != nil {
		logrus.Fatalf("Failed to initialize output directory: %v", err)
	}

	// Initialize metrics tracker
	tracker := metrics.NewTracker()

	// Validate and deduplicate the URL list
	urls, invalid := batch.PrepareURLs(cfg.URLs)
	for _, bad := range invalid {
		logrus.Errorf("Skipping invalid URL: %q", bad)
		tracker.RecordPageFailed()
	}
	if len(urls) == 0 {
		logrus.Fatal("No valid URLs to scrape")
	}

	// Wire the pipeline
	f := fetcher.New(fetcher.Config{
		UserAgent: cfg.UserAgent,
		Timeout:   time.Duration(cfg.RequestTimeoutMs) * time.Millisecond,
	})
	a := analyzer.New(f, writer, os.Stdout)
	runner := batch.NewRunner(a, cfg.Workers)

	// Cancel the batch on SIGINT/SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logrus.Warnf("Received signal: %v, canceling batch...", sig)
		cancel()
	}()

	// Start progress logger
	var wg sync.WaitGroup
	stopProgress := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				logrus.Info(tracker.LogProgress())
			case <-stopProgress:
				return
			}
		}
	}()

	// Run the batch
	outcomes := runner.Run(ctx, urls)

	// Record outcomes
	anyFailed := len(invalid) > 0
	for i := range outcomes {
		outcome := &outcomes[i]

		var titles, links []string
		if outcome.Report != nil {
			titles = outcome.Report.Titles
			links = outcome.Report.Links
		}

		if outcome.Failed() {
			anyFailed = true
			tracker.RecordPageFailed()
			logrus.Errorf("URL failed: %s: %v", outcome.URL, outcome.Err)
		} else {
			tracker.RecordPageFetched(len(titles), len(links))
			tracker.RecordFetchTime(outcome.Duration)
		}

		errMsg := ""
		if outcome.Err != nil {
			errMsg = outcome.Err.Error()
		}
		if _, err := store.SavePage(outcome.URL, outcome.Status(), errMsg,
			titles, links, outcome.Duration); err != nil {
			logrus.Errorf("Failed to record outcome for %s: %v", outcome.URL, err)
		}
	}

	// Stop progress logger
	close(stopProgress)
	wg.Wait()

	terminationReason := "completed"
	if ctx.Err() != nil {
		terminationReason = "signal"
	}

	// Final progress log
	logrus.Info("Final stats: " + tracker.LogProgress())

	// Write metrics to file
	if err := tracker.WriteToFile(cfg.MetricsPath, terminationReason); err != nil {
		logrus.Errorf("Failed to write metrics: %v", err)
	} else {
		logrus.Infof("Metrics written to %s", cfg.MetricsPath)
	}

	if anyFailed {
		logrus.Warn("Some URLs failed, exiting with status 1")
		store.Close()
		os.Exit(1)
	}

	logrus.Info("All URLs scraped successfully. Goodbye!")
}
