// Package app assembles the tracker's components from configuration.
// Both the CLI and the server build the same wiring through here.
package app

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/refurbtrack/price-tracker/config"
	"github.com/refurbtrack/price-tracker/internal/backup"
	"github.com/refurbtrack/price-tracker/internal/extract"
	httpx "github.com/refurbtrack/price-tracker/internal/http"
	"github.com/refurbtrack/price-tracker/internal/http/ratelimit"
	"github.com/refurbtrack/price-tracker/internal/metrics"
	"github.com/refurbtrack/price-tracker/internal/pipeline"
	"github.com/refurbtrack/price-tracker/internal/storage"
	"github.com/refurbtrack/price-tracker/internal/store"
	"github.com/refurbtrack/price-tracker/internal/validation"
)

// App holds the assembled components.
type App struct {
	Config   *config.Config
	Store    *store.Store
	Backups  *backup.Manager
	Pipeline *pipeline.Pipeline
	Metrics  *metrics.Metrics
}

// New wires the store, backup manager and scrape pipeline from cfg.
// With a nil registerer no metrics are collected; with an empty LLM API
// key extraction falls back to the heuristic parser.
func New(cfg *config.Config, reg prometheus.Registerer, logger zerolog.Logger) (*App, error) {
	st := store.New(cfg.Store.DataFile(), cfg.Store.RejectedDir, logger)
	bm := backup.NewManager(cfg.Store.BackupDir, cfg.Backup.Retention, logger)

	client := httpx.NewClient(ratelimit.Config{
		RequestsPerSecond: cfg.Scraper.RequestsPerSecond,
		Burst:             cfg.Scraper.Burst,
		MaxRetries:        cfg.Scraper.MaxRetries,
		InitialBackoffMs:  cfg.Scraper.InitialBackoffMs,
		MaxBackoffMs:      cfg.Scraper.MaxBackoffMs,
	})

	var extractor extract.Extractor
	if cfg.LLM.APIKey != "" {
		llm, err := extract.NewLLMExtractor(client, extract.LLMConfig{
			BaseURL: cfg.LLM.BaseURL,
			APIKey:  cfg.LLM.APIKey,
			Model:   cfg.LLM.Model,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("building llm extractor: %w", err)
		}
		extractor = llm
	} else {
		logger.Info().Msg("no LLM API key configured, using heuristic extraction")
		extractor = extract.NewHeuristicExtractor()
	}

	archive, err := storage.NewLocalStorage(cfg.Store.ArchiveDir)
	if err != nil {
		return nil, fmt.Errorf("building page archive: %w", err)
	}

	var m *metrics.Metrics
	if reg != nil {
		m = metrics.New(reg)
	}

	p := pipeline.New(
		client,
		extractor,
		st,
		bm,
		validation.New(cfg.Validation.DropThreshold),
		archive,
		m,
		pipeline.Config{
			MaxPages:         cfg.Scraper.MaxPages,
			Incremental:      cfg.Scraper.Incremental,
			EnforceRelevance: cfg.Scraper.EnforceRelevance,
		},
		logger,
	)

	return &App{Config: cfg, Store: st, Backups: bm, Pipeline: p, Metrics: m}, nil
}
