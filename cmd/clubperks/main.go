package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"clubperks/internal/bot"
	"clubperks/internal/config"
	"clubperks/internal/scraper"
	"clubperks/internal/storage"
)

func main() {
	// --- Configuration Loading ---
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Setup ---
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithError(err).Warn("Unknown LOG_LEVEL, using info")
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	log.WithFields(logrus.Fields{
		"badgerdb_path":   cfg.BadgerDBPath,
		"search_debounce": cfg.SearchDebounce.String(),
		"page_size":       cfg.PageSize,
	}).Info("Configuration loaded successfully")

	// Create context that listens for interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Initialize Components ---
	log.Info("Initializing components...")

	// Database
	repo, err := storage.NewBadgerRepository(cfg.BadgerDBPath, log)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		log.Info("Closing database...")
		if err := repo.Close(); err != nil {
			log.WithError(err).Error("Error closing database")
		}
	}()

	if cfg.CatalogSeedPath != "" {
		file, err := storage.ImportCatalog(ctx, repo, cfg.CatalogSeedPath)
		if err != nil {
			log.WithError(err).WithField("path", cfg.CatalogSeedPath).Error("Failed to import catalog")
			return
		}
		log.WithFields(logrus.Fields{
			"offers": len(file.Offers),
			"brands": len(file.Brands),
		}).Info("Catalog imported")
	}

	go repo.RunGC(ctx, cfg.GCInterval)

	// Brand site screenshots
	capturer := scraper.NewRodCapturer(log, cfg.CaptureTimeout)

	// Bot Handler
	botHandler, err := bot.NewHandler(cfg, repo, capturer, log)
	if err != nil {
		log.Errorf("Failed to initialize Telegram bot handler: %v", err)
		return
	}

	// --- Application Startup ---
	log.Info("Starting ClubPerks...")
	go botHandler.Start(ctx)
	log.Info("ClubPerks is running. Press Ctrl+C to exit.")

	// --- Wait for Shutdown Signal ---
	<-ctx.Done()

	log.Info("Shutting down ClubPerks...")
	stop()
	log.Info("ClubPerks shut down gracefully.")
}
