package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/HyeongmoKim/BidAssistance-BE/config"
	"github.com/HyeongmoKim/BidAssistance-BE/provider/g2b"
	"github.com/HyeongmoKim/BidAssistance-BE/services"
	"github.com/HyeongmoKim/BidAssistance-BE/storage"
	"github.com/HyeongmoKim/BidAssistance-BE/utils"
	"github.com/HyeongmoKim/BidAssistance-BE/valuation"
)

func main() {
	repairPass := flag.Bool("repair", false,
		"revisit incomplete announcements instead of running an ingest batch")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	logger := utils.NewLogger(*verbose)
	cfg := config.Load()

	logger.Info("=== Bid Announcement Ingest starting ===")
	logger.Info("Config: window: ±%dh | rows: %d | concurrency: %d | rate: %dms",
		cfg.WindowHours, cfg.ListingRows, cfg.MaxConcurrency, cfg.RateLimitMs)

	if cfg.ServiceKey == "" {
		logger.Error("G2B_SERVICE_KEY is not set")
		os.Exit(1)
	}

	store, err := storage.NewPostgresStore(cfg.DSN())
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	client := g2b.New(cfg, logger)
	ctx := context.Background()

	if *repairPass {
		job := services.NewRepairJob(store, client, logger, cfg.RateLimitMs)
		updated, err := job.Run(ctx)
		if err != nil {
			logger.Error("Repair pass failed: %v", err)
			os.Exit(1)
		}
		logger.Info("Repair pass done: %d announcements updated", updated)
		return
	}

	snapshot, err := storage.NewCSVWriter(cfg.SnapshotDir)
	if err != nil {
		logger.Warn("Raw snapshot disabled: %v", err)
		snapshot = nil
	} else {
		defer snapshot.Close()
	}

	valuationClient := valuation.New(cfg.ValuationURL, logger)

	// storage.SnapshotWriter is an interface; hand the pipeline a true nil
	// when the writer could not be created.
	var snapshotWriter storage.SnapshotWriter
	if snapshot != nil {
		snapshotWriter = snapshot
	}

	pipeline := services.NewPipeline(cfg, client, client, store, valuationClient, snapshotWriter, logger)

	report, err := pipeline.Run(ctx)
	if err != nil {
		logger.Error("Batch failed: %v", err)
		os.Exit(1)
	}
	logger.Info("%s", report)

	// Give in-flight analysis dispatches a chance to land before exit.
	pipeline.DrainTriggers(time.Minute)

	bids, err := store.FetchAll(ctx)
	if err != nil {
		logger.Error("Failed to fetch announcements for summary: %v", err)
		return
	}

	summary := services.NewSummaryService(logger)
	summary.Print(summary.Generate(bids))
}
