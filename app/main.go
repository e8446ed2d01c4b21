package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deepvdocs/docstage/app/api"
	"github.com/deepvdocs/docstage/app/catalog"
	"github.com/deepvdocs/docstage/app/cfg"
	"github.com/deepvdocs/docstage/app/convert"
	"github.com/deepvdocs/docstage/app/corpus"
	"github.com/deepvdocs/docstage/app/generate"
	"github.com/deepvdocs/docstage/app/pipeline"
	"github.com/deepvdocs/docstage/app/scheduler"
	"github.com/deepvdocs/docstage/app/schema"
	"github.com/deepvdocs/docstage/app/tracker"
)

const sweepBatchSize = 10

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	setupLogger(appCfg.Debug)

	slog.Info("Starting Docstage", "version", appCfg.Version)

	trk, err := tracker.New(appCfg.TrackerDir)
	if err != nil {
		slog.Error("Failed to open processing ledger", "error", err)
		os.Exit(1)
	}
	slog.Info("Processing ledger loaded", "processed", trk.Count())

	db, err := catalog.Open(appCfg.CatalogPath)
	if err != nil {
		slog.Error("Failed to open catalog database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := catalog.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run catalog migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Catalog database ready", "migration_version", version, "dirty", dirty)

	contentSchema, err := schema.Load(schema.LoadOptions{
		SchemaFile:   appCfg.SchemaFile,
		TaxonomyFile: appCfg.TaxonomyFile,
		SchemaURL:    appCfg.SchemaURL,
		TaxonomyURL:  appCfg.TaxonomyURL,
		UserAgent:    appCfg.UserAgent,
	})
	if err != nil {
		slog.Error("Failed to load content schema", "error", err)
		os.Exit(1)
	}
	slog.Info("Content schema loaded", "categories", len(contentSchema.Taxonomy.Categories))

	repo := catalog.NewRepository(db)
	generator := generate.NewClient(appCfg.GenerationEndpoint, appCfg.GenerationModel,
		appCfg.GenerationAPIKey, time.Duration(appCfg.GenerationTimeout)*time.Second)

	p := pipeline.New(
		corpus.NewScanner(appCfg.CorpusDir),
		trk,
		convert.New(contentSchema, appCfg.MaxTags),
		generator,
		repo,
		pipeline.NewQuarantine(appCfg.QuarantineDir),
		appCfg.StagingDir,
	)

	// One-shot batch mode
	if appCfg.BatchCount > 0 {
		runBatch(p, appCfg.BatchCount)
		return
	}

	serve(p, repo, trk, appCfg)
}

func runBatch(p *pipeline.Pipeline, count int) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := p.ProcessBatch(ctx, count)
	if err != nil {
		slog.Error("Batch processing failed", "error", err)
		os.Exit(1)
	}
	if summary.Failed > 0 {
		os.Exit(1)
	}
}

func serve(p *pipeline.Pipeline, repo catalog.Repository, trk *tracker.Tracker, appCfg *cfg.Cfg) {
	if appCfg.SchedulerInterval > 0 {
		slog.Info("Starting background sweeper", "interval_seconds", appCfg.SchedulerInterval)
		sweeper := scheduler.New(p, time.Duration(appCfg.SchedulerInterval)*time.Second, sweepBatchSize)
		sweeper.Start()
		defer sweeper.Stop()
	}

	handler := api.NewHandler(repo, trk, p, appCfg.Version)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:        ":" + appCfg.Port,
		Handler:     server,
		ReadTimeout: 30 * time.Second,
		// /api/process runs generation synchronously
		WriteTimeout: 30 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
